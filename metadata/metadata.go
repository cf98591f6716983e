// Package metadata reads and writes the per-document sidecar: an XML file
// carrying view history, rotation, per-page bookmarks and annotations,
// and per-view zoom state. The on-disk layout is a stable wire format.
package metadata

import (
	"time"

	"github.com/wudi/docview/annotations"
)

// SaveInterval is how often the core persists the sidecar while a
// document stays open. It is also written on close.
const SaveInterval = 5 * time.Minute

// DocumentInfo is the in-memory image of one sidecar file.
type DocumentInfo struct {
	URL      string
	Pages    []PageInfo
	Rotation int // quarter turns; 0 is omitted on disk
	// History holds viewport strings oldest first; the last entry is the
	// current viewport.
	History []string
	Views   []ViewInfo
}

// PageInfo carries the persisted state of one page. Pages with no state
// are omitted from the sidecar.
type PageInfo struct {
	Number      int
	Bookmarked  bool
	Annotations []annotations.Annotation
}

// IsEmpty reports whether the page contributes nothing to the sidecar.
func (p PageInfo) IsEmpty() bool {
	return !p.Bookmarked && len(p.Annotations) == 0
}

// ViewInfo is the persisted zoom state of one named view.
type ViewInfo struct {
	Name     string
	Zoom     float64
	ZoomMode int
}
