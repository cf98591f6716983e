package document

import (
	"github.com/wudi/docview/area"
	"github.com/wudi/docview/viewport"
)

// VisiblePageRect is the part of one page currently visible in a view.
type VisiblePageRect struct {
	PageNumber int
	Rect       area.NormalizedRect
}

// Viewport returns the current viewport.
func (d *Document) Viewport() viewport.Viewport {
	return d.history.Current()
}

// SetViewport makes vp current. Staying on the same page overwrites the
// history entry in place; changing pages pushes a new entry, discarding
// any forward entries. The new page's cache descriptors are promoted so
// they outlive off-screen ones. Observers other than excludeObserver get
// NotifyViewportChanged.
func (d *Document) SetViewport(vp viewport.Viewport, excludeObserver int, smooth bool) {
	if vp.PageNumber < 0 || vp.PageNumber >= len(d.pages) {
		return
	}
	cur := d.history.Current()
	if !cur.IsValid() || cur.PageNumber == vp.PageNumber {
		d.history.SetCurrent(vp)
	} else {
		d.history.Push(vp)
	}
	d.metadataEdited = true
	d.promoteAllocations(vp.PageNumber)
	for _, id := range d.observerIDs() {
		if id != excludeObserver {
			d.observers[id].NotifyViewportChanged(smooth)
		}
	}
}

// SetViewportPage moves to the top of a page, clamping out-of-range page
// numbers into the document.
func (d *Document) SetViewportPage(pageNumber, excludeObserver int, smooth bool) {
	if len(d.pages) == 0 {
		return
	}
	if pageNumber >= len(d.pages) {
		pageNumber = len(d.pages) - 1
	}
	if pageNumber < 0 {
		pageNumber = 0
	}
	d.SetViewport(viewport.New(pageNumber), excludeObserver, smooth)
}

// SetPrevViewport moves one step back in the history.
func (d *Document) SetPrevViewport() {
	if !d.history.Back() {
		return
	}
	d.metadataEdited = true
	d.promoteAllocations(d.history.Current().PageNumber)
	for _, id := range d.observerIDs() {
		d.observers[id].NotifyViewportChanged(true)
	}
}

// SetNextViewport moves one step forward in the history.
func (d *Document) SetNextViewport() {
	if !d.history.Forward() {
		return
	}
	d.metadataEdited = true
	d.promoteAllocations(d.history.Current().PageNumber)
	for _, id := range d.observerIDs() {
		d.observers[id].NotifyViewportChanged(true)
	}
}

// SetNextDocumentViewport records a viewport applied at the next
// successful open, overriding the restored history position.
func (d *Document) SetNextDocumentViewport(vp viewport.Viewport) {
	d.nextViewport = vp
}

// SetZoom fans a zoom factor out to every observer except the source.
func (d *Document) SetZoom(factor, excludeObserver int) {
	for _, id := range d.observerIDs() {
		if id != excludeObserver {
			d.observers[id].NotifyZoom(factor)
		}
	}
}

// SetVisiblePageRects replaces the visible-rect set and tells the other
// observers.
func (d *Document) SetVisiblePageRects(rects []VisiblePageRect, excludeObserver int) {
	d.visibleRects = append(d.visibleRects[:0], rects...)
	for _, id := range d.observerIDs() {
		if id != excludeObserver {
			d.observers[id].NotifyVisibleRectsChanged()
		}
	}
}

// VisiblePageRects returns the current visible-rect set.
func (d *Document) VisiblePageRects() []VisiblePageRect {
	return append([]VisiblePageRect(nil), d.visibleRects...)
}
