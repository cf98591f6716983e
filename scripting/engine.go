// Package scripting runs document-embedded scripts against a controlled
// host surface. Scripts never touch core state directly; everything goes
// through the Host interface the viewer implements.
package scripting

import "context"

// Engine executes scripts in the context of an open document.
type Engine interface {
	// Execute runs one script. Cancellation of ctx interrupts a running
	// script.
	Execute(ctx context.Context, script string) (interface{}, error)

	// Bind registers the host surface with the engine. Must be called
	// before Execute.
	Bind(host Host) error
}

// Host is the viewer-side API exposed to scripts.
type Host interface {
	PageCount() int
	// CurrentPage returns the zero-based page the viewport is on.
	CurrentPage() int
	// GotoPage requests a viewport change; out-of-range values are
	// clamped by the host.
	GotoPage(n int)
	// Info answers document metadata keys such as "title"; empty when
	// unknown.
	Info(key string) string
	// Alert surfaces a message to the user, if the host has a UI.
	Alert(message string)
}
