package document

import (
	"context"
	"strings"

	"github.com/wudi/docview/area"
	"github.com/wudi/docview/observability"
	"github.com/wudi/docview/observer"
	"github.com/wudi/docview/page"
	"github.com/wudi/docview/viewport"
)

// SearchType selects one of the search modes.
type SearchType int

const (
	// AllDocument finds every occurrence of the query on every page.
	AllDocument SearchType = iota
	// NextMatch finds the occurrence after the last match, wrapping
	// around once if confirmed.
	NextMatch
	// PreviousMatch is the backward counterpart of NextMatch.
	PreviousMatch
	// GoogleAll retains pages where every whitespace-separated word
	// matches, each word in its own hue.
	GoogleAll
	// GoogleAny retains pages where at least one word matches.
	GoogleAny
)

// SearchStatus resolves a finished search. Searches never raise errors.
type SearchStatus int

const (
	MatchFound SearchStatus = iota
	NoMatchFound
	SearchCancelled
)

func (s SearchStatus) String() string {
	switch s {
	case MatchFound:
		return "match found"
	case NoMatchFound:
		return "no match found"
	case SearchCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// runningSearch is the per-id search record. It outlives individual runs
// so ContinueSearch can resume with the cached parameters.
type runningSearch struct {
	id           int
	query        string
	typ          SearchType
	cs           page.CaseSensitivity
	moveViewport bool
	noDialogs    bool
	color        area.Color

	continueOnPage  int
	continueOnMatch area.RegularArea

	highlightedPages map[int]bool
	searching        bool
	cancelled        bool
	span             observability.Span
}

type pageMatch struct {
	area  area.RegularArea
	color area.Color
}

// allRun drives AllDocument and the Google modes: one page per
// continuation step, highlights attached when the last page is done.
type allRun struct {
	s       *runningSearch
	page    int
	steps   int
	words   []string
	colors  []area.Color
	matches map[int][]pageMatch
}

// nextRun drives NextMatch and PreviousMatch.
type nextRun struct {
	s       *runningSearch
	page    int
	steps   int
	forward bool
	cont    area.RegularArea
	wrapped bool
	visited int
}

// SearchText starts a search. Results arrive through highlights, the
// viewport (when moveViewport is set) and the SearchFinished callback.
// Starting a search under a new id resets the previous id's highlights.
func (d *Document) SearchText(id int, text string, fromStart bool, cs page.CaseSensitivity, typ SearchType, moveViewport bool, color area.Color, noDialogs bool) {
	if d.gen == nil || strings.TrimSpace(text) == "" {
		d.searchFinished(id, NoMatchFound)
		return
	}
	if d.lastSearchID != 0 && d.lastSearchID != id {
		d.ResetSearch(d.lastSearchID)
	}
	d.lastSearchID = id

	s := d.searches[id]
	if s == nil {
		s = &runningSearch{id: id, highlightedPages: make(map[int]bool)}
		d.searches[id] = s
	}
	if s.searching {
		return
	}
	fresh := s.query != text || s.cs != cs || s.typ != typ
	s.query = text
	s.typ = typ
	s.cs = cs
	s.moveViewport = moveViewport
	s.noDialogs = noDialogs
	s.color = color
	s.cancelled = false
	s.searching = true
	_, s.span = d.tracer.StartSpan(context.Background(), "docview.search")
	s.span.SetTag("search", id)
	d.clearSearchHighlights(s)

	switch typ {
	case AllDocument, GoogleAll, GoogleAny:
		run := &allRun{s: s, matches: make(map[int][]pageMatch)}
		if typ == AllDocument {
			run.words = []string{text}
			run.colors = []area.Color{color}
		} else {
			run.words = strings.Fields(text)
			run.colors = area.WordColors(color, len(run.words))
		}
		d.loop.Post(func() { d.stepAllSearch(run) })
	case NextMatch, PreviousMatch:
		run := &nextRun{s: s, forward: typ == NextMatch}
		switch {
		case fromStart:
			if run.forward {
				run.page = 0
			} else {
				run.page = len(d.pages) - 1
			}
		case !fresh && len(s.continueOnMatch) > 0:
			run.page = s.continueOnPage
			run.cont = s.continueOnMatch
		default:
			run.page = d.history.Current().PageNumber
			if run.page < 0 {
				run.page = 0
			}
		}
		d.loop.Post(func() { d.stepNextSearch(run) })
	}
}

// ContinueSearch re-runs the cached query of a previous search.
func (d *Document) ContinueSearch(id int) {
	s := d.searches[id]
	if s == nil || s.searching || s.query == "" {
		return
	}
	d.SearchText(id, s.query, false, s.cs, s.typ, s.moveViewport, s.color, s.noDialogs)
}

// ContinueSearchWithType re-runs the cached query under a different mode.
func (d *Document) ContinueSearchWithType(id int, typ SearchType) {
	s := d.searches[id]
	if s == nil || s.searching || s.query == "" {
		return
	}
	d.SearchText(id, s.query, false, s.cs, typ, s.moveViewport, s.color, s.noDialogs)
}

// CancelSearch requests cancellation; the running search observes the
// flag at its next continuation step.
func (d *Document) CancelSearch(id int) {
	if s := d.searches[id]; s != nil && s.searching {
		s.cancelled = true
	}
}

// ResetSearch clears the search's highlights on every page and forgets
// its record.
func (d *Document) ResetSearch(id int) {
	s := d.searches[id]
	if s == nil {
		return
	}
	d.clearSearchHighlights(s)
	delete(d.searches, id)
	if d.lastSearchID == id {
		d.lastSearchID = 0
	}
}

func (d *Document) clearSearchHighlights(s *runningSearch) {
	for pageNumber := range s.highlightedPages {
		if pageNumber >= 0 && pageNumber < len(d.pages) {
			d.pages[pageNumber].DeleteHighlights(s.id)
			d.notifyPage(pageNumber, observer.Highlights)
		}
	}
	s.highlightedPages = make(map[int]bool)
}

func (d *Document) searchFinished(id int, status SearchStatus) {
	if s := d.searches[id]; s != nil && s.span != nil {
		s.span.SetTag("status", status.String())
		s.span.Finish()
		s.span = nil
	}
	d.log.Debug("search finished",
		observability.Int("search", id),
		observability.String("status", status.String()))
	if d.searchDone != nil {
		d.searchDone(id, status)
	}
}

// stepAllSearch processes one page of an all-document or Google search.
func (d *Document) stepAllSearch(run *allRun) {
	s := run.s
	if s.cancelled || d.gen == nil {
		s.searching = false
		d.searchFinished(s.id, SearchCancelled)
		return
	}
	if run.page >= len(d.pages) {
		d.finishAllSearch(run)
		return
	}
	p := d.pages[run.page]
	d.RequestTextPage(run.page)

	matchedWords := 0
	var collected []pageMatch
	for wi, word := range run.words {
		found := false
		m := p.FindText(s.id, word, page.FromTop, s.cs, nil)
		for m != nil {
			found = true
			collected = append(collected, pageMatch{area: m, color: run.colors[wi]})
			m = p.FindText(s.id, word, page.NextResult, s.cs, m)
		}
		if found {
			matchedWords++
		}
	}
	retain := matchedWords == len(run.words)
	if s.typ == GoogleAny {
		retain = matchedWords > 0
	}
	if retain && len(collected) > 0 {
		run.matches[run.page] = collected
	}

	run.page++
	run.steps++
	d.loop.Post(func() { d.stepAllSearch(run) })
}

func (d *Document) finishAllSearch(run *allRun) {
	s := run.s
	s.searching = false
	d.log.Debug("search pass", observability.Int(observability.MetricSearchSteps, run.steps))
	if len(run.matches) == 0 {
		d.searchFinished(s.id, NoMatchFound)
		return
	}
	firstPage := -1
	for pageNumber := 0; pageNumber < len(d.pages); pageNumber++ {
		ms, ok := run.matches[pageNumber]
		if !ok {
			continue
		}
		if firstPage < 0 {
			firstPage = pageNumber
		}
		p := d.pages[pageNumber]
		for _, m := range ms {
			p.SetHighlight(s.id, m.area, m.color)
		}
		s.highlightedPages[pageNumber] = true
		d.notifyPage(pageNumber, observer.Highlights)
	}
	if s.moveViewport && firstPage >= 0 {
		d.moveViewportToMatch(firstPage, run.matches[firstPage][0].area)
	}
	d.searchFinished(s.id, MatchFound)
}

// stepNextSearch processes one page of a next/previous search.
func (d *Document) stepNextSearch(run *nextRun) {
	s := run.s
	if s.cancelled || d.gen == nil {
		s.searching = false
		d.searchFinished(s.id, SearchCancelled)
		return
	}
	run.steps++
	p := d.pages[run.page]
	d.RequestTextPage(run.page)

	var m area.RegularArea
	if len(run.cont) > 0 {
		dir := page.NextResult
		if !run.forward {
			dir = page.PreviousResult
		}
		m = p.FindText(s.id, s.query, dir, s.cs, run.cont)
		run.cont = nil
	} else {
		dir := page.FromTop
		if !run.forward {
			dir = page.FromBottom
		}
		m = p.FindText(s.id, s.query, dir, s.cs, nil)
	}

	if m != nil {
		s.continueOnPage = run.page
		s.continueOnMatch = m
		p.SetHighlight(s.id, m, s.color)
		s.highlightedPages[run.page] = true
		d.notifyPage(run.page, observer.Highlights)
		if s.moveViewport {
			d.moveViewportToMatch(run.page, m)
		}
		s.searching = false
		d.searchFinished(s.id, MatchFound)
		return
	}

	run.visited++
	if run.visited >= len(d.pages) {
		s.searching = false
		d.searchFinished(s.id, NoMatchFound)
		return
	}
	next := run.page + 1
	if !run.forward {
		next = run.page - 1
	}
	if next < 0 || next >= len(d.pages) {
		if run.wrapped || !d.confirmSearchWrap(run.forward, s.noDialogs) {
			s.searching = false
			d.searchFinished(s.id, NoMatchFound)
			return
		}
		run.wrapped = true
		if run.forward {
			next = 0
		} else {
			next = len(d.pages) - 1
		}
	}
	run.page = next
	d.loop.Post(func() { d.stepNextSearch(run) })
}

// confirmSearchWrap asks the host whether to continue from the other end
// of the document. Under noDialogs the wrap is taken silently.
func (d *Document) confirmSearchWrap(forward, noDialogs bool) bool {
	if noDialogs || d.confirmWrap == nil {
		return true
	}
	question := "End of document reached. Continue from the beginning?"
	if !forward {
		question = "Beginning of document reached. Continue from the end?"
	}
	return d.confirmWrap(question)
}

func (d *Document) moveViewportToMatch(pageNumber int, m area.RegularArea) {
	c := m.First().Center()
	vp := viewport.Viewport{
		PageNumber: pageNumber,
		RePos: viewport.RePos{
			Enabled: true,
			X:       c.X,
			Y:       c.Y,
			Anchor:  viewport.AnchorCenter,
		},
	}
	d.SetViewport(vp, 0, true)
}
