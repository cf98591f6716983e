// Package settings holds the host-supplied configuration record consumed
// by the document core. The host passes a Settings value at document
// construction and pushes updated copies through Document.ReparseConfig.
package settings

import (
	"github.com/wudi/docview/area"
	"github.com/wudi/docview/memory"
)

// RenderMode selects how page backgrounds are produced.
type RenderMode int

const (
	RenderNormal RenderMode = iota
	RenderInverted
	RenderPaper
	RenderRecolor
)

// Settings is the configuration record for one document.
type Settings struct {
	MemoryLevel      memory.Profile
	EnableThreading  bool
	ChooseGenerators bool

	RenderMode   RenderMode
	ChangeColors bool
	PaperColor   area.Color

	ZoomFactor        float64
	TextAntialias     bool
	GraphicsAntialias bool
	TextHinting       bool

	ObeyDRM bool

	ExternalEditor        string
	ExternalEditorCommand string

	// MaxRenderPixels drops render requests whose pixel count exceeds it.
	// This is a heuristic out-of-memory guard, not a contract.
	MaxRenderPixels int64
}

// DefaultMaxRenderPixels is the historical 20M-pixel oversize guard.
const DefaultMaxRenderPixels = 20_000_000

// Default returns the settings used when the host supplies none.
func Default() Settings {
	return Settings{
		MemoryLevel:       memory.ProfileNormal,
		EnableThreading:   true,
		PaperColor:        area.Color{R: 255, G: 255, B: 255},
		ZoomFactor:        1.0,
		TextAntialias:     true,
		GraphicsAntialias: true,
		TextHinting:       true,
		MaxRenderPixels:   DefaultMaxRenderPixels,
	}
}
