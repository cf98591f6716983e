package document

import (
	"container/list"
	"math"

	"github.com/wudi/docview/generator"
	"github.com/wudi/docview/memory"
	"github.com/wudi/docview/observability"
	"github.com/wudi/docview/observer"
	"github.com/wudi/docview/page"
)

// allocation is one pixmap cache descriptor. Descriptors live in a FIFO;
// the oldest eligible entry is evicted first.
type allocation struct {
	observerID int
	pageNumber int
	bytes      uint64
}

// addAllocation appends a descriptor to the FIFO tail.
func (d *Document) addAllocation(observerID, pageNumber int, bytes uint64) {
	d.allocs.PushBack(&allocation{observerID: observerID, pageNumber: pageNumber, bytes: bytes})
	d.allocated += bytes
}

// removeAllocation drops the descriptor for (observer, page) if present.
func (d *Document) removeAllocation(observerID, pageNumber int) {
	for e := d.allocs.Front(); e != nil; e = e.Next() {
		a := e.Value.(*allocation)
		if a.observerID == observerID && a.pageNumber == pageNumber {
			d.allocated -= a.bytes
			d.allocs.Remove(e)
			return
		}
	}
}

// removeObserverAllocations drops every descriptor owned by the observer.
func (d *Document) removeObserverAllocations(observerID int) {
	for e := d.allocs.Front(); e != nil; {
		next := e.Next()
		a := e.Value.(*allocation)
		if a.observerID == observerID {
			d.allocated -= a.bytes
			d.allocs.Remove(e)
		}
		e = next
	}
}

// promoteAllocations moves the page's descriptors to the FIFO tail; used
// when the page's viewport becomes current so its pixmaps survive longer.
func (d *Document) promoteAllocations(pageNumber int) {
	var promoted []*list.Element
	for e := d.allocs.Front(); e != nil; e = e.Next() {
		if e.Value.(*allocation).pageNumber == pageNumber {
			promoted = append(promoted, e)
		}
	}
	for _, e := range promoted {
		d.allocs.MoveToBack(e)
	}
}

func (d *Document) clearAllocations() {
	d.allocs.Init()
	d.allocated = 0
}

// AllocatedBytes returns the cache accounting total.
func (d *Document) AllocatedBytes() uint64 {
	return d.allocated
}

// CleanupMemory runs the governor: computes the profile's eviction target
// and walks the FIFO from the head, dropping pixmaps whose observers
// tolerate the unload, until the target is met.
func (d *Document) CleanupMemory() {
	target := memory.BytesToFree(d.cfg.MemoryLevel, d.allocated, d.probe.Total(), d.probe.Free())
	if target == 0 {
		return
	}
	var freed uint64
	var evicted int
	for e := d.allocs.Front(); e != nil && freed < target; {
		next := e.Next()
		a := e.Value.(*allocation)
		obs := d.observers[a.observerID]
		if obs == nil || obs.CanUnloadPixmap(a.pageNumber) {
			if a.pageNumber >= 0 && a.pageNumber < len(d.pages) {
				d.pages[a.pageNumber].DeletePixmap(a.observerID)
			}
			d.allocated -= a.bytes
			freed += a.bytes
			evicted++
			d.allocs.Remove(e)
			if obs != nil {
				obs.NotifyPageChanged(a.pageNumber, observer.Pixmap)
			}
		}
		e = next
	}
	if evicted > 0 {
		d.log.Debug("cache cleanup",
			observability.Int(observability.MetricCacheEvictions, evicted),
			observability.Uint64(observability.MetricCacheBytes, d.allocated))
	}
}

const bytesPerTextPageStep = 512 << 20

// recalcTextPageBudget recomputes the text page FIFO bound from the
// memory profile and total RAM, then enforces it.
func (d *Document) recalcTextPageBudget() {
	mult := int(math.Round(float64(d.probe.Total()) / float64(bytesPerTextPageStep)))
	if mult < 1 {
		mult = 1
	}
	base := 2
	switch d.cfg.MemoryLevel {
	case memory.ProfileNormal:
		base = 50
	case memory.ProfileAggressive:
		base = 250
	case memory.ProfileGreedy:
		base = 1250
	}
	d.maxTextPages = mult * base
	d.enforceTextPageBudget()
}

// noteTextPage records that a page's text was materialized and enforces
// the budget. Re-noting promotes the page to the FIFO tail.
func (d *Document) noteTextPage(pageNumber int) {
	for e := d.textPages.Front(); e != nil; e = e.Next() {
		if e.Value.(int) == pageNumber {
			d.textPages.MoveToBack(e)
			return
		}
	}
	d.textPages.PushBack(pageNumber)
	d.enforceTextPageBudget()
}

func (d *Document) enforceTextPageBudget() {
	for d.textPages.Len() > d.maxTextPages {
		e := d.textPages.Front()
		n := e.Value.(int)
		if n >= 0 && n < len(d.pages) {
			d.pages[n].SetTextPage(nil)
		}
		d.textPages.Remove(e)
	}
	d.log.Debug("text pages", observability.Int(observability.MetricTextPageCount, d.textPages.Len()))
}

// RequestTextPage materializes the page's text synchronously. Generators
// with TextExtraction produce it themselves; otherwise a configured OCR
// engine recognizes an existing pixmap rendering of the page.
func (d *Document) RequestTextPage(pageNumber int) {
	if d.gen == nil || pageNumber < 0 || pageNumber >= len(d.pages) {
		return
	}
	p := d.pages[pageNumber]
	if p.HasTextPage() {
		d.noteTextPage(pageNumber)
		return
	}
	if d.gen.HasFeature(generator.TextExtraction) {
		d.gen.GenerateTextPage(p)
	} else if d.ocrEngine != nil {
		d.recognizeTextPage(p)
	}
	if !p.HasTextPage() {
		p.SetTextPage(page.NewTextPage(nil))
	}
	d.noteTextPage(pageNumber)
}
