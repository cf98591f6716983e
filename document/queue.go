package document

import (
	"context"
	"time"

	"github.com/wudi/docview/generator"
	"github.com/wudi/docview/observability"
	"github.com/wudi/docview/observer"
	"github.com/wudi/docview/page"
)

// RequestFlags qualify a RequestPixmaps call.
type RequestFlags int

const (
	NoOption RequestFlags = 0
	// RemoveAllPrevious drops every queued request of the requesting
	// observer, not only those for the re-requested pages.
	RemoveAllPrevious RequestFlags = 1 << iota
)

const dispatchRetryDelay = 30 * time.Millisecond

// RequestPixmaps queues render requests. All requests of one call must
// share an observer id. Per observer and page at most one non-forced
// request stays queued; older ones are coalesced away on submission.
func (d *Document) RequestPixmaps(reqs []*generator.PixmapRequest, flags RequestFlags) {
	if d.gen == nil || len(reqs) == 0 {
		return
	}
	requesterID := reqs[0].ObserverID
	requested := make(map[int]bool, len(reqs))
	for _, r := range reqs {
		requested[r.PageNumber] = true
	}

	d.mu.Lock()
	kept := d.queue[:0]
	for _, q := range d.queue {
		drop := q.ObserverID == requesterID &&
			(flags&RemoveAllPrevious != 0 || requested[q.PageNumber])
		if !drop {
			kept = append(kept, q)
		}
	}
	d.queue = kept
	for _, r := range reqs {
		if r.PageNumber < 0 || r.PageNumber >= len(d.pages) {
			continue
		}
		r.Page = d.pages[r.PageNumber]
		if !d.cfg.EnableThreading {
			r.Asynchronous = false
		}
		d.enqueueLocked(r)
	}
	d.mu.Unlock()

	d.dispatch()
}

// enqueueLocked inserts a request keeping the queue ascending by priority
// from head to tail. Dispatch takes from the tail, so the highest
// priority runs first and equal priorities run oldest first.
func (d *Document) enqueueLocked(r *generator.PixmapRequest) {
	at := len(d.queue)
	for i, q := range d.queue {
		if q.Priority >= r.Priority {
			at = i
			break
		}
	}
	d.queue = append(d.queue, nil)
	copy(d.queue[at+1:], d.queue[at:])
	d.queue[at] = r
}

// dispatch hands the next viable request to the generator. It scans the
// queue from the tail, discarding entries that are already satisfied,
// reference an invalid observer, or trip the oversize guard. The queue
// mutex is released before calling into the generator: synchronous
// generators re-enter RequestDone on the same goroutine.
func (d *Document) dispatch() {
	d.mu.Lock()
	if d.closing || d.gen == nil {
		d.mu.Unlock()
		return
	}
	var req, oversize *generator.PixmapRequest
	for len(d.queue) > 0 {
		r := d.queue[len(d.queue)-1]
		if r == nil {
			d.queue = d.queue[:len(d.queue)-1]
			continue
		}
		if r.ObserverID <= 0 || r.ObserverID >= observer.MaxID || d.observers[r.ObserverID] == nil {
			d.queue = d.queue[:len(d.queue)-1]
			continue
		}
		if !r.Force && r.Page.HasPixmap(r.ObserverID, r.Width, r.Height) {
			d.queue = d.queue[:len(d.queue)-1]
			continue
		}
		if r.PixelCount() > d.cfg.MaxRenderPixels {
			d.queue = d.queue[:len(d.queue)-1]
			if !d.warnedOversize {
				d.warnedOversize = true
				oversize = r
			}
			continue
		}
		req = r
		break
	}
	if req == nil {
		d.mu.Unlock()
		d.warnOversize(oversize)
		return
	}
	if !d.gen.CanGeneratePixmap() {
		d.mu.Unlock()
		d.warnOversize(oversize)
		d.loop.PostDelayed(dispatchRetryDelay, d.dispatch)
		return
	}
	d.queue = d.queue[:len(d.queue)-1]
	if d.rotation.IsOrthogonal() {
		req.Swap()
	}
	d.inFlight[req] = true
	d.mu.Unlock()
	d.warnOversize(oversize)

	d.CleanupMemory()
	_, span := d.tracer.StartSpan(context.Background(), "docview.render")
	span.SetTag("page", req.PageNumber)
	start := time.Now()
	d.gen.GeneratePixmap(req)
	span.Finish()
	d.log.Debug("pixmap dispatched",
		observability.Int("page", req.PageNumber),
		observability.Int64(observability.MetricRenderTime, time.Since(start).Milliseconds()))
}

// warnOversize reports the oversize guard, once per session. Runs with
// d.mu released: the reporter belongs to the host and may call back into
// the document.
func (d *Document) warnOversize(r *generator.PixmapRequest) {
	if r == nil {
		return
	}
	d.log.Warn("render request exceeds pixel guard, dropping",
		observability.Int("page", r.PageNumber),
		observability.Int64("pixels", r.PixelCount()))
	if d.reporter != nil {
		d.reporter("Page is too large to render", reportDuration)
	}
}

// RequestDone is called by the generator when a request finished. It must
// run on the host goroutine, except during close, when a threaded
// generator may call it from its render goroutine to wake the close path.
func (d *Document) RequestDone(req *generator.PixmapRequest) {
	d.mu.Lock()
	delete(d.inFlight, req)
	if d.closing {
		if len(d.inFlight) == 0 && d.closeWake != nil {
			close(d.closeWake)
			d.closeWake = nil
		}
		d.mu.Unlock()
		return
	}
	queued := len(d.queue)
	d.mu.Unlock()

	wasSwapped := req.IsSwapped()
	if wasSwapped {
		req.Swap()
	}

	if d.observers[req.ObserverID] == nil {
		// The observer left while the request was in flight. Drop the
		// rendering instead of resurrecting state for a departed id.
		req.Page.DeletePixmap(req.ObserverID)
		d.removeAllocation(req.ObserverID, req.PageNumber)
		if queued > 0 {
			d.dispatch()
		}
		return
	}
	if wasSwapped {
		d.normalizeOrientation(req)
	}

	d.removeAllocation(req.ObserverID, req.PageNumber)
	d.addAllocation(req.ObserverID, req.PageNumber, req.Bytes())
	d.log.Debug("pixmap done",
		observability.Int("page", req.PageNumber),
		observability.Uint64(observability.MetricCacheBytes, d.allocated))

	d.observers[req.ObserverID].NotifyPageChanged(req.PageNumber, observer.Pixmap)
	if queued > 0 {
		d.dispatch()
	}
}

// normalizeOrientation re-keys a document-orientation rendering into
// display orientation, so later satisfied-request checks compare display
// sizes against display sizes. Rasters are re-rotated in place; opaque
// pixmaps are wrapped with their axes transposed.
func (d *Document) normalizeOrientation(req *generator.PixmapRequest) {
	pm, rot, ok := req.Page.Pixmap(req.ObserverID)
	if !ok {
		return
	}
	if ip, hasImage := pm.(page.ImagePixmap); hasImage {
		job := &page.RotationJob{
			PageNumber: req.PageNumber,
			ObserverID: req.ObserverID,
			Source:     ip.Image(),
			From:       page.Rotation0,
			To:         rot,
		}
		req.Page.SetPixmap(req.ObserverID, job.Run(), rot)
		return
	}
	req.Page.SetPixmap(req.ObserverID, page.TransposedPixmap{Pixmap: pm}, rot)
}

// RefreshPixmaps re-requests every pixmap of a page with force set, so
// annotation and configuration changes become visible.
func (d *Document) RefreshPixmaps(pageNumber int) {
	if d.gen == nil || pageNumber < 0 || pageNumber >= len(d.pages) {
		return
	}
	p := d.pages[pageNumber]
	var reqs []*generator.PixmapRequest
	p.EachPixmap(func(observerID int, pm page.Pixmap, rotation page.Rotation) {
		w, h := pm.Width(), pm.Height()
		if (rotation - p.Rotation()).Normalized().IsOrthogonal() {
			w, h = h, w
		}
		r := generator.NewPixmapRequest(observerID, pageNumber, w, h, 1, true)
		r.Force = true
		r.Page = p
		reqs = append(reqs, r)
	})
	if len(reqs) == 0 {
		return
	}
	d.mu.Lock()
	for _, r := range reqs {
		d.enqueueLocked(r)
	}
	d.mu.Unlock()
	d.dispatch()
}
