package fonts

import (
	"sync"

	"github.com/wudi/docview/event"
	"github.com/wudi/docview/generator"
	"github.com/wudi/docview/observability"
)

// Callbacks receives enumeration results. All callbacks fire on the host
// event loop. Nil callbacks are skipped.
type Callbacks struct {
	// Font fires once per distinct font name, when first seen.
	Font func(Info)
	// Progress fires after each page with a percentage in [0,100].
	Progress func(percent int)
	// Ended fires exactly once, after the last page or after Stop.
	Ended func()
}

// Reader walks the document pages and reports the fonts they use.
// At most one enumeration runs at a time per Reader.
type Reader struct {
	provider  generator.FontProvider
	loop      event.Loop
	pageCount int
	log       observability.Logger
	cb        Callbacks

	mu      sync.Mutex
	running bool
	stopped bool
	page    int
	seen    map[string]bool
}

func NewReader(provider generator.FontProvider, loop event.Loop, pageCount int, log observability.Logger, cb Callbacks) *Reader {
	if log == nil {
		log = observability.NopLogger{}
	}
	return &Reader{
		provider:  provider,
		loop:      loop,
		pageCount: pageCount,
		log:       log,
		cb:        cb,
	}
}

// Start begins enumeration from page zero. It reports false when an
// enumeration is already running.
func (r *Reader) Start() bool {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return false
	}
	r.running = true
	r.stopped = false
	r.page = 0
	r.seen = make(map[string]bool)
	r.mu.Unlock()

	r.loop.Post(r.step)
	return true
}

// Stop cancels a running enumeration. Ended still fires, on the loop.
func (r *Reader) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		r.stopped = true
	}
}

// Running reports whether an enumeration is in flight.
func (r *Reader) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// step processes one page, then reposts itself for the next.
func (r *Reader) step() {
	r.mu.Lock()
	if r.stopped || r.page >= r.pageCount {
		r.running = false
		r.mu.Unlock()
		if r.cb.Ended != nil {
			r.cb.Ended()
		}
		return
	}
	pageNumber := r.page
	r.page++
	r.mu.Unlock()

	for _, ref := range r.provider.FontsForPage(pageNumber) {
		r.mu.Lock()
		dup := r.seen[ref.Name]
		if !dup {
			r.seen[ref.Name] = true
		}
		r.mu.Unlock()
		if dup {
			continue
		}
		info := Info{
			Name:        ref.Name,
			Family:      describe(ref.Data),
			Embedded:    ref.Embedded,
			FirstPage:   pageNumber,
			Extractable: len(ref.Data) > 0,
		}
		r.log.Debug("font found",
			observability.String("name", info.Name),
			observability.Int("page", pageNumber))
		if r.cb.Font != nil {
			r.cb.Font(info)
		}
	}

	if r.cb.Progress != nil {
		// Integer division: progress only reaches 100 on the last page.
		r.cb.Progress((pageNumber + 1) * 100 / r.pageCount)
	}
	r.loop.Post(r.step)
}
