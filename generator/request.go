package generator

import "github.com/wudi/docview/page"

// PixmapRequest asks for one page rendered at a given size for one
// observer. Requests are created by observers, bound to their page by the
// core, and travel to the generator exactly once.
type PixmapRequest struct {
	ObserverID   int
	PageNumber   int
	Width        int
	Height       int
	Priority     int
	Asynchronous bool
	Force        bool

	// Page is bound by the core before dispatch.
	Page *page.Page

	swapped bool
}

// NewPixmapRequest builds an asynchronous request with the given
// priority.
func NewPixmapRequest(observerID, pageNumber, width, height, priority int, asynchronous bool) *PixmapRequest {
	return &PixmapRequest{
		ObserverID:   observerID,
		PageNumber:   pageNumber,
		Width:        width,
		Height:       height,
		Priority:     priority,
		Asynchronous: asynchronous,
	}
}

// Swap exchanges width and height. The core swaps a request into
// document orientation before handing it to the generator and swaps it
// back on completion; IsSwapped tracks which orientation the dimensions
// currently are in.
func (r *PixmapRequest) Swap() {
	r.Width, r.Height = r.Height, r.Width
	r.swapped = !r.swapped
}

// IsSwapped reports whether Width and Height currently hold
// document-orientation (generator-space) dimensions.
func (r *PixmapRequest) IsSwapped() bool { return r.swapped }

// PixelCount returns the request's pixel area.
func (r *PixmapRequest) PixelCount() int64 {
	return int64(r.Width) * int64(r.Height)
}

// Bytes returns the memory cost of the rendered pixmap (RGBA).
func (r *PixmapRequest) Bytes() uint64 {
	return 4 * uint64(r.Width) * uint64(r.Height)
}
