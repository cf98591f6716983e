package page

import (
	"unicode"

	"github.com/wudi/docview/area"
)

// SearchDirection selects where a text search starts and how it resumes.
type SearchDirection int

const (
	FromTop SearchDirection = iota
	FromBottom
	NextResult
	PreviousResult
)

// CaseSensitivity of text matching.
type CaseSensitivity int

const (
	CaseSensitive CaseSensitivity = iota
	CaseInsensitive
)

// TextRun is one positioned run of extracted text.
type TextRun struct {
	Text string
	Area area.NormalizedRect
}

// TextPage is a page's extracted text: a finite sequence of positioned
// runs. Runs are joined by single spaces to form the flattened stream
// that substring search operates on.
type TextPage struct {
	runs []TextRun
	// flat is the rune stream; runOf[i] is the run index owning rune i,
	// or -1 for a joining space.
	flat  []rune
	runOf []int
}

func NewTextPage(runs []TextRun) *TextPage {
	tp := &TextPage{runs: runs}
	for i, run := range runs {
		if i > 0 {
			tp.flat = append(tp.flat, ' ')
			tp.runOf = append(tp.runOf, -1)
		}
		for _, r := range run.Text {
			tp.flat = append(tp.flat, r)
			tp.runOf = append(tp.runOf, i)
		}
	}
	return tp
}

func (tp *TextPage) RunCount() int { return len(tp.runs) }

type occurrence struct {
	start int // rune offset into flat
	end   int
	area  area.RegularArea
}

func foldRune(r rune) rune { return unicode.ToLower(r) }

func (tp *TextPage) occurrences(query string, cs CaseSensitivity) []occurrence {
	q := []rune(query)
	if len(q) == 0 || len(q) > len(tp.flat) {
		return nil
	}
	if cs == CaseInsensitive {
		for i, r := range q {
			q[i] = foldRune(r)
		}
	}
	var out []occurrence
	for start := 0; start+len(q) <= len(tp.flat); start++ {
		match := true
		for i, qr := range q {
			fr := tp.flat[start+i]
			if cs == CaseInsensitive {
				fr = foldRune(fr)
			}
			if fr != qr {
				match = false
				break
			}
		}
		if match {
			end := start + len(q)
			out = append(out, occurrence{start: start, end: end, area: tp.areaFor(start, end)})
		}
	}
	return out
}

// areaFor maps a rune range of the flattened stream back to page
// coordinates: one rect per overlapped run, subdivided linearly by rune
// position within the run.
func (tp *TextPage) areaFor(start, end int) area.RegularArea {
	var out area.RegularArea
	i := start
	for i < end {
		run := tp.runOf[i]
		if run < 0 {
			i++
			continue
		}
		// Extent of this run inside [start,end).
		j := i
		for j < end && tp.runOf[j] == run {
			j++
		}
		runStart := i
		for runStart > 0 && tp.runOf[runStart-1] == run {
			runStart--
		}
		runLen := 0
		for k := runStart; k < len(tp.runOf) && tp.runOf[k] == run; k++ {
			runLen++
		}
		rect := tp.runs[run].Area
		if runLen > 0 {
			fromFrac := float64(i-runStart) / float64(runLen)
			toFrac := float64(j-runStart) / float64(runLen)
			w := rect.Width()
			rect = area.NewRect(rect.Left+w*fromFrac, rect.Top, rect.Left+w*toFrac, rect.Bottom)
		}
		out = append(out, rect)
		i = j
	}
	return out.Simplified()
}

func areasEqual(a, b area.RegularArea) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// rectAfter orders match areas top-to-bottom, then left-to-right.
func rectAfter(a, b area.NormalizedRect) bool {
	if a.Top != b.Top {
		return a.Top > b.Top
	}
	return a.Left > b.Left
}

// FindText searches the flattened stream. FromTop and FromBottom return
// the first and last occurrence; NextResult and PreviousResult resume
// after or before the continuation area. A nil return means no match.
func (tp *TextPage) FindText(query string, dir SearchDirection, cs CaseSensitivity, cont area.RegularArea) area.RegularArea {
	occs := tp.occurrences(query, cs)
	if len(occs) == 0 {
		return nil
	}
	switch dir {
	case FromTop:
		return occs[0].area
	case FromBottom:
		return occs[len(occs)-1].area
	case NextResult:
		// Resume past the last occurrence matching the continuation, so
		// duplicate areas (identical runs, degenerate OCR boxes) cannot
		// produce the same successor forever.
		last := -1
		for i, o := range occs {
			if areasEqual(o.area, cont) {
				last = i
			}
		}
		if last >= 0 {
			if last+1 < len(occs) {
				return occs[last+1].area
			}
			return nil
		}
		for _, o := range occs {
			if len(cont) == 0 || rectAfter(o.area.First(), cont.First()) {
				return o.area
			}
		}
		return nil
	case PreviousResult:
		for i, o := range occs {
			if areasEqual(o.area, cont) {
				if i > 0 {
					return occs[i-1].area
				}
				return nil
			}
		}
		for i := len(occs) - 1; i >= 0; i-- {
			if len(cont) == 0 || rectAfter(cont.First(), occs[i].area.First()) {
				return occs[i].area
			}
		}
		return nil
	}
	return nil
}

// findFrom returns the first occurrence at or after the rune offset when
// scanning forward, or the last occurrence at or before it when scanning
// backward, together with the offset to resume the scan from. Offsets
// advance strictly, so a chain of continuations always terminates.
func (tp *TextPage) findFrom(query string, cs CaseSensitivity, offset int, forward bool) (area.RegularArea, int, bool) {
	occs := tp.occurrences(query, cs)
	if forward {
		for _, o := range occs {
			if o.start >= offset {
				return o.area, o.start + 1, true
			}
		}
		return nil, 0, false
	}
	for i := len(occs) - 1; i >= 0; i-- {
		if occs[i].start <= offset {
			return occs[i].area, occs[i].start - 1, true
		}
	}
	return nil, 0, false
}

// offsetNear recovers a resume offset from a persisted match area, used
// when the in-memory search point for a continuation is gone.
func (tp *TextPage) offsetNear(query string, cs CaseSensitivity, cont area.RegularArea, forward bool) (int, bool) {
	if len(cont) == 0 {
		return 0, false
	}
	occs := tp.occurrences(query, cs)
	if forward {
		for i := len(occs) - 1; i >= 0; i-- {
			if areasEqual(occs[i].area, cont) {
				return occs[i].start + 1, true
			}
		}
		return 0, false
	}
	for _, o := range occs {
		if areasEqual(o.area, cont) {
			return o.start - 1, true
		}
	}
	return 0, false
}

func (tp *TextPage) length() int { return len(tp.flat) }
