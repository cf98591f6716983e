// Package observer defines the notification interface implemented by
// consumers of rendered pages (typically view widgets). Observers are
// identified by a unique positive id and are notified synchronously on
// the host loop's thread.
package observer

import "github.com/wudi/docview/page"

// MaxID bounds valid observer ids; valid ids are 1 <= id < MaxID.
const MaxID = 100

// ChangeFlags describe what changed on a page.
type ChangeFlags int

const (
	Pixmap ChangeFlags = 1 << iota
	Annotations
	Highlights
	TextSelection
	BoundingBox
	NeedSaveAs
)

// SetupFlags qualify a notifySetup call.
type SetupFlags int

const (
	DocumentChanged SetupFlags = 1 << iota
	NewLayoutForPages
)

// Observer receives change notifications from the document core.
type Observer interface {
	// ID returns the observer's unique positive id.
	ID() int

	// CanUnloadPixmap reports whether the observer tolerates losing its
	// pixmap for the page; the memory governor asks before evicting.
	CanUnloadPixmap(pageNumber int) bool

	NotifySetup(pages []*page.Page, flags SetupFlags)
	NotifyViewportChanged(smoothMove bool)
	NotifyPageChanged(pageNumber int, flags ChangeFlags)
	NotifyContentsCleared(flags ChangeFlags)
	NotifyVisibleRectsChanged()
	NotifyZoom(factor int)
}
