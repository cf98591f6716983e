// Package page models one document page: its size and rotation, the
// pixmaps rendered for each observer, the extracted text page, search
// highlights, text selections, annotations and the bounding box.
//
// Pages are owned by the document core and are only touched on the host
// thread; they carry no locking of their own.
package page

import (
	"github.com/wudi/docview/annotations"
	"github.com/wudi/docview/area"
)

// Highlight is one colored area attached to a page, keyed by the search
// that produced it.
type Highlight struct {
	SearchID int
	Area     area.RegularArea
	Color    area.Color
}

type pixmapEntry struct {
	pm       Pixmap
	rotation Rotation // page rotation at render time
}

// Page is the per-page state. Created by the generator during document
// load, mutated by the core, destroyed on document close.
type Page struct {
	number   int
	width    float64
	height   float64
	rotation Rotation

	pixmaps     map[int]pixmapEntry
	textPage    *TextPage
	searchPoint map[int]int
	highlights  []Highlight
	selections  []Highlight
	annots      []*annotations.Annotation
	boundingBox area.NormalizedRect
	hasBBox     bool
	bookmarked  bool
}

// New creates a page with its natural size in document units.
func New(number int, width, height float64) *Page {
	return &Page{
		number:      number,
		width:       width,
		height:      height,
		pixmaps:     make(map[int]pixmapEntry),
		searchPoint: make(map[int]int),
	}
}

func (p *Page) Number() int        { return p.number }
func (p *Page) Width() float64     { return p.width }
func (p *Page) Height() float64    { return p.height }
func (p *Page) Rotation() Rotation { return p.rotation }

// SetRotation records the page's current rotation. Re-rotation of
// existing pixmaps is driven separately through rotation jobs.
func (p *Page) SetRotation(r Rotation) { p.rotation = r.Normalized() }

// ChangeSize replaces the page's natural size.
func (p *Page) ChangeSize(size PageSize) {
	if size.IsNull() {
		return
	}
	p.width = size.Width
	p.height = size.Height
}

// SetPixmap stores a pixmap for the observer, remembering the page
// rotation it was rendered at.
func (p *Page) SetPixmap(observerID int, pm Pixmap, rotation Rotation) {
	p.pixmaps[observerID] = pixmapEntry{pm: pm, rotation: rotation.Normalized()}
}

func (p *Page) DeletePixmap(observerID int) { delete(p.pixmaps, observerID) }

func (p *Page) DeletePixmaps() { p.pixmaps = make(map[int]pixmapEntry) }

// HasPixmap reports whether the observer has a pixmap whose size matches
// within rotation: a pixmap rendered at an orthogonal rotation relative
// to the current one is compared with width and height swapped.
func (p *Page) HasPixmap(observerID, width, height int) bool {
	e, ok := p.pixmaps[observerID]
	if !ok {
		return false
	}
	w, h := e.pm.Width(), e.pm.Height()
	if (e.rotation - p.rotation).Normalized().IsOrthogonal() {
		w, h = h, w
	}
	return w == width && h == height
}

// Pixmap returns the observer's pixmap and its rotation at render time.
func (p *Page) Pixmap(observerID int) (Pixmap, Rotation, bool) {
	e, ok := p.pixmaps[observerID]
	return e.pm, e.rotation, ok
}

// EachPixmap visits every stored pixmap.
func (p *Page) EachPixmap(fn func(observerID int, pm Pixmap, rotation Rotation)) {
	for id, e := range p.pixmaps {
		fn(id, e.pm, e.rotation)
	}
}

func (p *Page) HasTextPage() bool { return p.textPage != nil }

func (p *Page) TextPage() *TextPage { return p.textPage }

func (p *Page) SetTextPage(tp *TextPage) { p.textPage = tp }

// SetHighlight appends a highlight area for the given search.
func (p *Page) SetHighlight(searchID int, a area.RegularArea, color area.Color) {
	if a.IsNull() {
		return
	}
	p.highlights = append(p.highlights, Highlight{SearchID: searchID, Area: a, Color: color})
}

// DeleteHighlights removes every highlight of the given search;
// a negative id removes all highlights.
func (p *Page) DeleteHighlights(searchID int) {
	kept := p.highlights[:0]
	for _, h := range p.highlights {
		if searchID >= 0 && h.SearchID != searchID {
			kept = append(kept, h)
		}
	}
	p.highlights = kept
}

// Highlights returns the highlights of one search.
func (p *Page) Highlights(searchID int) []Highlight {
	var out []Highlight
	for _, h := range p.highlights {
		if h.SearchID == searchID {
			out = append(out, h)
		}
	}
	return out
}

func (p *Page) SetTextSelection(a area.RegularArea, color area.Color) {
	if a.IsNull() {
		p.selections = nil
		return
	}
	p.selections = []Highlight{{Area: a, Color: color}}
}

func (p *Page) DeleteTextSelections() { p.selections = nil }

func (p *Page) TextSelections() []Highlight { return p.selections }

func (p *Page) AddAnnotation(a *annotations.Annotation) {
	p.annots = append(p.annots, a)
}

// RemoveAnnotation deletes the annotation with the given id and reports
// whether it was present.
func (p *Page) RemoveAnnotation(id string) bool {
	for i, a := range p.annots {
		if a.ID == id {
			p.annots = append(p.annots[:i], p.annots[i+1:]...)
			return true
		}
	}
	return false
}

func (p *Page) Annotations() []*annotations.Annotation { return p.annots }

func (p *Page) SetBookmarked(b bool) { p.bookmarked = b }
func (p *Page) Bookmarked() bool     { return p.bookmarked }

func (p *Page) SetBoundingBox(r area.NormalizedRect) {
	p.boundingBox = r
	p.hasBBox = true
}

func (p *Page) BoundingBox() (area.NormalizedRect, bool) {
	return p.boundingBox, p.hasBBox
}

// FindText searches the page's text page. Returns nil when the text page
// is absent; callers must request it first.
//
// Each search id keeps a rune-offset resume point on the page, so
// NextResult and PreviousResult continuations make strict progress even
// when distinct occurrences share one match area. The continuation area
// is only consulted to recover a lost resume point, e.g. after the text
// page was evicted and rebuilt.
func (p *Page) FindText(searchID int, query string, dir SearchDirection, cs CaseSensitivity, cont area.RegularArea) area.RegularArea {
	if p.textPage == nil {
		return nil
	}
	forward := dir == FromTop || dir == NextResult
	var offset int
	switch dir {
	case FromTop:
		offset = 0
	case FromBottom:
		offset = p.textPage.length()
	default:
		off, ok := p.searchPoint[searchID]
		if !ok {
			off, ok = p.textPage.offsetNear(query, cs, cont, forward)
		}
		if !ok {
			if forward {
				off = 0
			} else {
				off = p.textPage.length()
			}
		}
		offset = off
	}
	match, resume, ok := p.textPage.findFrom(query, cs, offset, forward)
	if !ok {
		delete(p.searchPoint, searchID)
		return nil
	}
	p.searchPoint[searchID] = resume
	return match
}

// Clear drops all per-page state except identity and size. Used on
// document close.
func (p *Page) Clear() {
	p.pixmaps = make(map[int]pixmapEntry)
	p.textPage = nil
	p.searchPoint = make(map[int]int)
	p.highlights = nil
	p.selections = nil
	p.annots = nil
	p.hasBBox = false
	p.boundingBox = area.NormalizedRect{}
}
