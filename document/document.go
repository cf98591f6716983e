// Package document is the core of the viewer: it multiplexes one
// format generator against any number of observers, governs the pixmap
// cache under a memory profile, dispatches render requests in priority
// order, runs cooperative multi-page searches, and persists per-document
// state to an XML sidecar or a portable archive.
//
// A single host goroutine owns all core state. The queue mutex protects
// only the request queue and the in-flight set; it is never held across
// a call into the generator or an observer.
package document

import (
	"container/list"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/wudi/docview/annotations"
	"github.com/wudi/docview/archive"
	"github.com/wudi/docview/area"
	"github.com/wudi/docview/event"
	"github.com/wudi/docview/fonts"
	"github.com/wudi/docview/generator"
	"github.com/wudi/docview/memory"
	"github.com/wudi/docview/metadata"
	"github.com/wudi/docview/observability"
	"github.com/wudi/docview/observer"
	"github.com/wudi/docview/ocr"
	"github.com/wudi/docview/page"
	"github.com/wudi/docview/scripting"
	"github.com/wudi/docview/settings"
	"github.com/wudi/docview/viewport"
)

const memCleanupInterval = 2 * time.Second

// MemoryProbe reports host RAM figures; memory.NewProbe is the
// production implementation.
type MemoryProbe interface {
	Total() uint64
	Free() uint64
}

// CapabilityFlags qualify a view capability.
type CapabilityFlags int

const (
	CapRead CapabilityFlags = 1 << iota
	CapWrite
	CapSerializable
)

// View is a named host view handle with zoom capabilities. Views whose
// zoom capabilities carry CapSerializable are persisted in the sidecar.
type View struct {
	Name              string
	ZoomFlags         CapabilityFlags
	Zoom              float64
	ZoomModalityFlags CapabilityFlags
	ZoomMode          int
}

// Options configure a Document. Zero-value fields fall back to safe
// defaults (immediate loop, nop logger, real memory probe, default
// settings, empty registry).
type Options struct {
	Loop     event.Loop
	Logger   observability.Logger
	Tracer   observability.Tracer
	Settings *settings.Settings
	Registry *generator.Registry
	// DataDir is the per-user directory for metadata sidecars; empty
	// disables sidecar persistence.
	DataDir  string
	Probe    MemoryProbe
	Reporter ErrorReporter
	// OCR recognizes rendered pages into text when the generator lacks
	// TextExtraction.
	OCR ocr.Engine
	// Scripting runs generator-supplied document scripts; defaults to
	// the goja engine when the generator provides scripts.
	Scripting scripting.Engine
	// ConfirmWrap asks whether a next/previous search should wrap
	// around; nil auto-confirms.
	ConfirmWrap func(question string) bool
	// ChooseGenerator picks among several candidate generators when
	// Settings.ChooseGenerators is set; returns an index.
	ChooseGenerator func(candidates []generator.Entry) int
	// SearchFinished receives the resolution of every search.
	SearchFinished func(id int, status SearchStatus)
}

type archiveState struct {
	contents *archive.Contents
	path     string
}

// Document mediates between one generator and N observers.
type Document struct {
	loop     event.Loop
	log      observability.Logger
	tracer   observability.Tracer
	cfg      settings.Settings
	registry *generator.Registry
	dataDir  string
	probe    MemoryProbe
	reporter ErrorReporter

	ocrEngine       ocr.Engine
	scripts         scripting.Engine
	confirmWrap     func(string) bool
	chooseGenerator func([]generator.Entry) int
	searchDone      func(int, SearchStatus)

	gen     generator.Generator
	genName string
	pages   []*page.Page
	path    string
	url     string
	size    int64

	rotation page.Rotation
	pageSize page.PageSize

	observers map[int]observer.Observer

	// mu protects queue, inFlight, closing and closeWake only.
	mu        sync.Mutex
	queue     []*generator.PixmapRequest
	inFlight  map[*generator.PixmapRequest]bool
	closing   bool
	closeWake chan struct{}

	allocs         *list.List
	allocated      uint64
	warnedOversize bool

	textPages    *list.List
	maxTextPages int

	history      *viewport.History
	nextViewport viewport.Viewport
	visibleRects []VisiblePageRect

	searches     map[int]*runningSearch
	lastSearchID int

	views        map[string]*View
	pendingViews map[string]metadata.ViewInfo

	fontReader        *fonts.Reader
	fontCache         []fonts.Info
	fontsCached       bool
	fontStopRequested bool

	arch              *archiveState
	pendingArchive    *archiveState
	originalMetadata  []byte
	annotationsEdited bool
	metadataEdited    bool
	warnedSaveAs      bool

	cleanupTimer  *time.Timer
	autosaveTimer *time.Timer
}

// New builds a closed document shell; Open or OpenArchive load content
// into it.
func New(opts Options) *Document {
	d := &Document{
		loop:            opts.Loop,
		log:             opts.Logger,
		tracer:          opts.Tracer,
		registry:        opts.Registry,
		dataDir:         opts.DataDir,
		probe:           opts.Probe,
		reporter:        opts.Reporter,
		ocrEngine:       opts.OCR,
		scripts:         opts.Scripting,
		confirmWrap:     opts.ConfirmWrap,
		chooseGenerator: opts.ChooseGenerator,
		searchDone:      opts.SearchFinished,
		observers:       make(map[int]observer.Observer),
		inFlight:        make(map[*generator.PixmapRequest]bool),
		allocs:          list.New(),
		textPages:       list.New(),
		history:         viewport.NewHistory(),
		nextViewport:    viewport.Invalid(),
		searches:        make(map[int]*runningSearch),
		views:           make(map[string]*View),
	}
	if d.loop == nil {
		d.loop = event.ImmediateLoop{}
	}
	if d.log == nil {
		d.log = observability.NopLogger{}
	}
	if d.tracer == nil {
		d.tracer = observability.NopTracer()
	}
	if d.registry == nil {
		d.registry = generator.NewRegistry()
	}
	if d.probe == nil {
		d.probe = memory.NewProbe()
	}
	if opts.Settings != nil {
		d.cfg = *opts.Settings
	} else {
		d.cfg = settings.Default()
	}
	if d.cfg.MaxRenderPixels == 0 {
		d.cfg.MaxRenderPixels = settings.DefaultMaxRenderPixels
	}
	d.maxTextPages = 2
	return d
}

func (d *Document) report(msg string) {
	d.log.Error(msg)
	if d.reporter != nil {
		d.reporter(msg, reportDuration)
	}
}

// Open loads the file through the highest-priority generator registered
// for the MIME type. A failed open leaves the document in a clean empty
// state.
func (d *Document) Open(path, mimeType string) error {
	if d.gen != nil {
		_ = d.Close()
	}
	fi, err := os.Stat(path)
	if err != nil {
		d.report("Could not open " + path)
		return fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}
	candidates := d.registry.CandidatesFor(mimeType)
	if len(candidates) == 0 {
		d.report("No generator found for " + mimeType)
		return fmt.Errorf("%w: %s", ErrNoGeneratorForMime, mimeType)
	}
	if d.cfg.ChooseGenerators && d.chooseGenerator != nil && len(candidates) > 1 {
		if i := d.chooseGenerator(candidates); i > 0 && i < len(candidates) {
			reordered := make([]generator.Entry, 0, len(candidates))
			reordered = append(reordered, candidates[i])
			reordered = append(reordered, candidates[:i]...)
			reordered = append(reordered, candidates[i+1:]...)
			candidates = reordered
		}
	}

	var lastErr error
	for _, entry := range candidates {
		g := entry.New()
		pages, err := g.LoadDocument(path)
		if err != nil {
			lastErr = err
			continue
		}
		if len(pages) == 0 {
			_ = g.CloseDocument()
			lastErr = fmt.Errorf("generator %s produced no pages", entry.Name)
			continue
		}
		d.gen = g
		d.genName = entry.Name
		d.pages = pages
		break
	}
	if d.gen == nil {
		d.report("Could not open " + path)
		d.resetState()
		if lastErr != nil {
			return fmt.Errorf("%w: %w: %w", ErrDocumentOpenFailed, ErrGeneratorLoadFailed, lastErr)
		}
		return fmt.Errorf("%w: %w", ErrDocumentOpenFailed, ErrGeneratorLoadFailed)
	}

	d.path = path
	d.size = fi.Size()
	if abs, err := filepath.Abs(path); err == nil {
		d.url = "file://" + abs
	} else {
		d.url = "file://" + path
	}

	external := false
	var info metadata.DocumentInfo
	haveMeta := false
	if d.pendingArchive != nil {
		d.arch = d.pendingArchive
		d.pendingArchive = nil
		d.originalMetadata = d.arch.contents.Metadata
		if len(d.originalMetadata) > 0 {
			// Malformed archive metadata is treated as absent.
			if parsed, err := metadata.Parse(d.originalMetadata); err == nil {
				info = parsed
				haveMeta = true
				external = true
			}
		}
	} else if d.dataDir != "" {
		if loaded, ok := metadata.Load(metadata.SidecarPath(d.dataDir, path, d.size)); ok {
			info = loaded
			haveMeta = true
		}
	}
	if haveMeta {
		d.applyMetadata(info, external)
	}
	if d.nextViewport.IsValid() {
		if d.nextViewport.PageNumber < len(d.pages) {
			d.history.SetCurrent(d.nextViewport)
		}
		d.nextViewport = viewport.Invalid()
	}
	if !d.history.Current().IsValid() {
		d.history.SetCurrent(viewport.New(0))
	}

	d.recalcTextPageBudget()
	d.startTimers()
	d.runDocumentScripts()

	for _, id := range d.observerIDs() {
		o := d.observers[id]
		o.NotifySetup(d.pages, observer.DocumentChanged)
		o.NotifyViewportChanged(false)
	}
	d.log.Info("document opened",
		observability.String("generator", d.genName),
		observability.Int("pages", len(d.pages)))
	return nil
}

// Close drains any in-flight render, saves the sidecar, shuts down the
// generator and resets every queue, cache and per-page state.
func (d *Document) Close() error {
	if d.gen == nil {
		return nil
	}
	d.StopFontReading()
	for _, s := range d.searches {
		if s.searching {
			s.cancelled = true
		}
	}

	d.mu.Lock()
	d.closing = true
	d.queue = nil
	var wake chan struct{}
	if len(d.inFlight) > 0 {
		wake = make(chan struct{})
		d.closeWake = wake
	}
	d.mu.Unlock()
	if wake != nil {
		<-wake
	}

	d.stopTimers()
	_ = d.SaveMetadata()
	err := d.gen.CloseDocument()
	for _, p := range d.pages {
		p.Clear()
	}
	d.gen = nil
	if d.arch != nil {
		_ = d.arch.contents.Close()
		d.arch = nil
	}
	d.resetState()
	for _, id := range d.observerIDs() {
		d.observers[id].NotifySetup(nil, observer.DocumentChanged)
	}
	d.log.Info("document closed")
	return err
}

// resetState returns the document to the clean empty state. Observers
// and construction-time options survive.
func (d *Document) resetState() {
	d.pages = nil
	d.genName = ""
	d.path = ""
	d.url = ""
	d.size = 0
	d.rotation = page.Rotation0
	d.pageSize = page.PageSize{}
	d.clearAllocations()
	d.textPages.Init()
	d.history = viewport.NewHistory()
	d.searches = make(map[int]*runningSearch)
	d.lastSearchID = 0
	d.visibleRects = nil
	d.pendingViews = nil
	d.fontReader = nil
	d.fontCache = nil
	d.fontsCached = false
	d.fontStopRequested = false
	d.originalMetadata = nil
	d.annotationsEdited = false
	d.metadataEdited = false
	d.warnedSaveAs = false
	d.warnedOversize = false

	d.mu.Lock()
	d.queue = nil
	d.inFlight = make(map[*generator.PixmapRequest]bool)
	d.closing = false
	d.closeWake = nil
	d.mu.Unlock()
}

func (d *Document) IsOpen() bool {
	return d.gen != nil
}

func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns the page or nil when out of range.
func (d *Document) Page(n int) *page.Page {
	if n < 0 || n >= len(d.pages) {
		return nil
	}
	return d.pages[n]
}

func (d *Document) Pages() []*page.Page {
	return d.pages
}

func (d *Document) GeneratorName() string {
	return d.genName
}

func (d *Document) Rotation() page.Rotation {
	return d.rotation
}

// AddObserver registers an observer. Late registrations on an open
// document get the setup notifications immediately.
func (d *Document) AddObserver(o observer.Observer) bool {
	id := o.ID()
	if id <= 0 || id >= observer.MaxID {
		return false
	}
	if _, dup := d.observers[id]; dup {
		return false
	}
	d.observers[id] = o
	if d.gen != nil {
		o.NotifySetup(d.pages, observer.DocumentChanged)
		o.NotifyViewportChanged(false)
	}
	return true
}

// RemoveObserver unregisters the observer and atomically relinquishes
// its queued requests, cache descriptors and pixmaps.
func (d *Document) RemoveObserver(o observer.Observer) {
	id := o.ID()
	if _, ok := d.observers[id]; !ok {
		return
	}
	d.mu.Lock()
	kept := d.queue[:0]
	for _, q := range d.queue {
		if q.ObserverID != id {
			kept = append(kept, q)
		}
	}
	d.queue = kept
	d.mu.Unlock()

	d.removeObserverAllocations(id)
	for _, p := range d.pages {
		p.DeletePixmap(id)
	}
	delete(d.observers, id)
}

func (d *Document) observerIDs() []int {
	ids := make([]int, 0, len(d.observers))
	for id := range d.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (d *Document) notifyPage(pageNumber int, flags observer.ChangeFlags) {
	for _, id := range d.observerIDs() {
		d.observers[id].NotifyPageChanged(pageNumber, flags)
	}
}

// SetRotation rotates the whole document. Existing image pixmaps are
// re-rotated asynchronously; opaque pixmaps are dropped and will be
// re-requested by their observers.
func (d *Document) SetRotation(r page.Rotation) {
	r = r.Normalized()
	if d.gen == nil || r == d.rotation {
		return
	}
	old := d.rotation
	d.rotation = r
	d.metadataEdited = true
	d.gen.RotationChanged(r, old)

	type rotJob struct {
		observerID int
		img        image.Image
		from       page.Rotation
	}
	for _, p := range d.pages {
		p.SetRotation(r)
		var jobs []rotJob
		var drop []int
		p.EachPixmap(func(id int, pm page.Pixmap, rot page.Rotation) {
			if ip, ok := pm.(page.ImagePixmap); ok {
				jobs = append(jobs, rotJob{observerID: id, img: ip.Image(), from: rot})
			} else {
				drop = append(drop, id)
			}
		})
		for _, id := range drop {
			p.DeletePixmap(id)
			d.removeAllocation(id, p.Number())
		}
		for _, j := range jobs {
			d.startRotationJob(p, j.observerID, j.img, j.from, r)
		}
	}
	for _, id := range d.observerIDs() {
		d.observers[id].NotifySetup(d.pages, observer.NewLayoutForPages)
	}
}

func (d *Document) startRotationJob(p *page.Page, observerID int, img image.Image, from, to page.Rotation) {
	job := &page.RotationJob{
		PageNumber: p.Number(),
		ObserverID: observerID,
		Source:     img,
		From:       from,
		To:         to,
	}
	if d.synchronousLoop() {
		p.SetPixmap(observerID, job.Run(), to)
		d.notifyPage(p.Number(), observer.Pixmap)
		return
	}
	go func() {
		result := job.Run()
		d.loop.Post(func() {
			if d.gen == nil {
				return
			}
			p.SetPixmap(observerID, result, to)
			d.notifyPage(p.Number(), observer.Pixmap)
		})
	}()
}

// SetPageSize changes the natural page size. Only generators declaring
// PageSizes support this; every pixmap and text page is dropped.
func (d *Document) SetPageSize(size page.PageSize) {
	if d.gen == nil || size.IsNull() || !d.gen.HasFeature(generator.PageSizes) {
		return
	}
	if d.gen.PagesSizeMetric() == generator.SizeMetricNone {
		return
	}
	old := d.pageSize
	d.pageSize = size
	d.metadataEdited = true
	d.gen.PageSizeChanged(size, old)
	for _, p := range d.pages {
		p.ChangeSize(size)
		p.DeletePixmaps()
		p.SetTextPage(nil)
	}
	d.clearAllocations()
	d.textPages.Init()
	for _, id := range d.observerIDs() {
		d.observers[id].NotifySetup(d.pages, observer.NewLayoutForPages)
	}
}

// CanAddAnnotationsNatively reports whether the generator can write
// annotation changes back into the document file.
func (d *Document) CanAddAnnotationsNatively() bool {
	si, ok := d.gen.(generator.SaveInterface)
	return ok && si.CanSaveChanges()
}

// AddPageAnnotation attaches an annotation to a page. Without native
// save support the user is warned once that Save As is required.
func (d *Document) AddPageAnnotation(pageNumber int, a *annotations.Annotation) {
	p := d.Page(pageNumber)
	if p == nil || a == nil {
		return
	}
	p.AddAnnotation(a)
	flags := observer.Annotations
	if !a.External {
		d.annotationsEdited = true
		d.metadataEdited = true
		if !d.CanAddAnnotationsNatively() {
			flags |= observer.NeedSaveAs
			if !d.warnedSaveAs {
				d.warnedSaveAs = true
				d.report("Annotations are stored alongside the document; use Save As to embed them")
			}
		}
	}
	d.notifyPage(pageNumber, flags)
	d.RefreshPixmaps(pageNumber)
}

// RemovePageAnnotation deletes an annotation by id; reports whether it
// was present.
func (d *Document) RemovePageAnnotation(pageNumber int, id string) bool {
	p := d.Page(pageNumber)
	if p == nil || !p.RemoveAnnotation(id) {
		return false
	}
	d.annotationsEdited = true
	d.metadataEdited = true
	flags := observer.Annotations
	if !d.CanAddAnnotationsNatively() {
		flags |= observer.NeedSaveAs
	}
	d.notifyPage(pageNumber, flags)
	d.RefreshPixmaps(pageNumber)
	return true
}

// SetPageBookmarked toggles the page's bookmark.
func (d *Document) SetPageBookmarked(pageNumber int, bookmarked bool) {
	p := d.Page(pageNumber)
	if p == nil || p.Bookmarked() == bookmarked {
		return
	}
	p.SetBookmarked(bookmarked)
	d.metadataEdited = true
	d.notifyPage(pageNumber, observer.Annotations)
}

// BookmarkedPages lists bookmarked page numbers in document order.
func (d *Document) BookmarkedPages() []int {
	var out []int
	for _, p := range d.pages {
		if p.Bookmarked() {
			out = append(out, p.Number())
		}
	}
	return out
}

// ReparseConfig applies a new settings record. When the generator
// declares its rendering invalidated, every pixmap is dropped and
// observers see ContentsCleared.
func (d *Document) ReparseConfig(cfg settings.Settings) {
	d.cfg = cfg
	if d.cfg.MaxRenderPixels == 0 {
		d.cfg.MaxRenderPixels = settings.DefaultMaxRenderPixels
	}
	if ci, ok := d.gen.(generator.ConfigInterface); ok && d.gen != nil && ci.ReparseConfig() {
		for _, p := range d.pages {
			p.DeletePixmaps()
		}
		d.clearAllocations()
		for _, id := range d.observerIDs() {
			d.observers[id].NotifyContentsCleared(observer.Pixmap)
		}
	}
	d.recalcTextPageBudget()
	d.CleanupMemory()
}

// SetMemoryProfile switches the cache profile and runs the governor.
func (d *Document) SetMemoryProfile(p memory.Profile) {
	d.cfg.MemoryLevel = p
	d.recalcTextPageBudget()
	d.CleanupMemory()
}

// DocumentMetaData answers host metadata keys, falling back to the
// generator for format-specific ones.
func (d *Document) DocumentMetaData(key string, option interface{}) interface{} {
	switch key {
	case "PaperColor":
		if d.cfg.ChangeColors && d.cfg.RenderMode == settings.RenderPaper {
			return d.cfg.PaperColor
		}
		if b, _ := option.(bool); b {
			return area.Color{R: 255, G: 255, B: 255}
		}
		return nil
	case "ZoomFactor":
		return d.cfg.ZoomFactor
	case "TextAntialias":
		return d.cfg.TextAntialias
	case "GraphicsAntialias":
		return d.cfg.GraphicsAntialias
	case "TextHinting":
		return d.cfg.TextHinting
	}
	if d.gen != nil {
		return d.gen.MetaData(key, option)
	}
	return nil
}

// ExportFormats lists the generator's export targets.
func (d *Document) ExportFormats() []generator.ExportFormat {
	if d.gen == nil {
		return nil
	}
	return d.gen.ExportFormats()
}

// ExportTo writes the document in one of the declared export formats.
func (d *Document) ExportTo(path string, format generator.ExportFormat) error {
	if d.gen == nil {
		return fmt.Errorf("%w: no open document", ErrExportUnavailable)
	}
	supported := false
	for _, f := range d.gen.ExportFormats() {
		if f.MIME == format.MIME {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: %s", ErrExportUnavailable, format.MIME)
	}
	if err := d.gen.ExportTo(path, format); err != nil {
		return fmt.Errorf("%w: %v", ErrExportUnavailable, err)
	}
	return nil
}

// Print hands the document to the generator's native print path and
// maps its outcome onto the fixed error taxonomy.
func (d *Document) Print(target string) error {
	if d.gen == nil {
		return fmt.Errorf("%w: no open document", ErrPrintFailed)
	}
	pi, ok := d.gen.(generator.PrintInterface)
	if !ok {
		return fmt.Errorf("%w: generator cannot print", ErrPrintFailed)
	}
	if e := pi.Print(target); e != generator.PrintNoError {
		return fmt.Errorf("%w: %s", ErrPrintFailed, e.Message())
	}
	return nil
}

// CanSaveChanges reports native save support.
func (d *Document) CanSaveChanges() bool {
	return d.gen != nil && d.CanAddAnnotationsNatively()
}

// SaveChanges writes annotation changes through the generator.
func (d *Document) SaveChanges(path string) error {
	if !d.CanSaveChanges() {
		return ErrSaveUnsupported
	}
	si := d.gen.(generator.SaveInterface)
	if err := si.SaveChanges(path); err != nil {
		return fmt.Errorf("save changes: %w", err)
	}
	return nil
}

// AddView registers a host view; persisted zoom state from the sidecar
// is applied to writable capabilities.
func (d *Document) AddView(v *View) {
	if v == nil || v.Name == "" {
		return
	}
	d.views[v.Name] = v
	if vi, ok := d.pendingViews[v.Name]; ok {
		d.applyViewInfo(v, vi)
	}
}

func (d *Document) RemoveView(name string) {
	delete(d.views, name)
}

func (d *Document) applyViewInfo(v *View, vi metadata.ViewInfo) {
	if v.ZoomFlags&CapWrite != 0 {
		v.Zoom = vi.Zoom
	}
	if v.ZoomModalityFlags&CapWrite != 0 {
		v.ZoomMode = vi.ZoomMode
	}
}

// applyMetadata restores sidecar state after load. Annotations coming
// from an archive are marked external so an unedited archive re-saves
// byte-identically.
func (d *Document) applyMetadata(info metadata.DocumentInfo, external bool) {
	if info.Rotation != 0 {
		r := page.Rotation(info.Rotation).Normalized()
		d.rotation = r
		d.gen.RotationChanged(r, page.Rotation0)
		for _, p := range d.pages {
			p.SetRotation(r)
		}
	}
	for _, pi := range info.Pages {
		p := d.Page(pi.Number)
		if p == nil {
			continue
		}
		p.SetBookmarked(pi.Bookmarked)
		for _, a := range pi.Annotations {
			ann := a
			if external {
				ann.External = true
			}
			p.AddAnnotation(&ann)
		}
	}
	if len(info.History) > 0 {
		var entries []viewport.Viewport
		for _, s := range info.History {
			vp := viewport.Parse(s)
			if vp.IsValid() && vp.PageNumber < len(d.pages) {
				entries = append(entries, vp)
			}
		}
		if len(entries) > 0 {
			d.history.Restore(entries)
		}
	}
	d.pendingViews = make(map[string]metadata.ViewInfo, len(info.Views))
	for _, vi := range info.Views {
		d.pendingViews[vi.Name] = vi
		if v := d.views[vi.Name]; v != nil {
			d.applyViewInfo(v, vi)
		}
	}
}

// currentMetadata snapshots the persistable document state.
func (d *Document) currentMetadata() metadata.DocumentInfo {
	info := metadata.DocumentInfo{URL: d.url, Rotation: int(d.rotation)}
	for _, vp := range d.history.Recent() {
		if vp.IsValid() {
			info.History = append(info.History, vp.String())
		}
	}
	for _, p := range d.pages {
		pi := metadata.PageInfo{Number: p.Number(), Bookmarked: p.Bookmarked()}
		for _, a := range p.Annotations() {
			pi.Annotations = append(pi.Annotations, *a)
		}
		if !pi.IsEmpty() {
			info.Pages = append(info.Pages, pi)
		}
	}
	names := make([]string, 0, len(d.views))
	for name := range d.views {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := d.views[name]
		if v.ZoomFlags&CapSerializable != 0 && v.ZoomModalityFlags&CapSerializable != 0 {
			info.Views = append(info.Views, metadata.ViewInfo{Name: v.Name, Zoom: v.Zoom, ZoomMode: v.ZoomMode})
		}
	}
	return info
}

// SaveMetadata writes the sidecar now. Autosave calls this every five
// minutes; Close calls it a last time. Archive documents keep their
// state inside the archive; they never get a sidecar, which would be
// keyed to the extraction path and orphaned on close.
func (d *Document) SaveMetadata() error {
	if d.gen == nil || d.dataDir == "" || d.path == "" || d.arch != nil {
		return nil
	}
	start := time.Now()
	err := metadata.Save(metadata.SidecarPath(d.dataDir, d.path, d.size), d.currentMetadata())
	d.log.Debug("metadata saved",
		observability.Int64(observability.MetricMetadataTime, time.Since(start).Milliseconds()),
		observability.Error("err", err))
	return err
}

// synchronousLoop reports whether posted events run inline on the
// calling goroutine. With such a loop there is no host goroutine for
// timers and background jobs to marshal onto, so periodic work is
// disabled and rotation jobs run inline.
func (d *Document) synchronousLoop() bool {
	_, ok := d.loop.(event.ImmediateLoop)
	return ok
}

func (d *Document) startTimers() {
	d.stopTimers()
	if d.synchronousLoop() {
		return
	}
	d.cleanupTimer = time.AfterFunc(memCleanupInterval, func() {
		d.loop.Post(d.cleanupTick)
	})
	if d.dataDir != "" {
		d.autosaveTimer = time.AfterFunc(metadata.SaveInterval, func() {
			d.loop.Post(d.autosaveTick)
		})
	}
}

func (d *Document) stopTimers() {
	if d.cleanupTimer != nil {
		d.cleanupTimer.Stop()
		d.cleanupTimer = nil
	}
	if d.autosaveTimer != nil {
		d.autosaveTimer.Stop()
		d.autosaveTimer = nil
	}
}

func (d *Document) cleanupTick() {
	if d.gen == nil || d.cleanupTimer == nil {
		return
	}
	if d.cfg.MemoryLevel != memory.ProfileLow {
		d.CleanupMemory()
	}
	d.cleanupTimer.Reset(memCleanupInterval)
}

func (d *Document) autosaveTick() {
	if d.gen == nil || d.autosaveTimer == nil {
		return
	}
	_ = d.SaveMetadata()
	d.autosaveTimer.Reset(metadata.SaveInterval)
}

// CanProvideFontInformation reports whether fonts can be enumerated.
func (d *Document) CanProvideFontInformation() bool {
	if d.gen == nil || !d.gen.HasFeature(generator.FontInfo) {
		return false
	}
	_, ok := d.gen.(generator.FontProvider)
	return ok
}

// StartFontReading enumerates document fonts in the background. Once a
// full pass completed, later calls replay the cached result.
func (d *Document) StartFontReading(cb fonts.Callbacks) bool {
	if !d.CanProvideFontInformation() {
		return false
	}
	if d.fontsCached {
		cache := d.fontCache
		pageCount := len(d.pages)
		d.loop.Post(func() {
			for _, f := range cache {
				if cb.Font != nil {
					cb.Font(f)
				}
			}
			if cb.Progress != nil {
				// Cached replay reports page/pageCount with integer
				// division, matching the live pass's consumers.
				for p := 0; p < pageCount; p++ {
					cb.Progress(p / pageCount)
				}
			}
			if cb.Ended != nil {
				cb.Ended()
			}
		})
		return true
	}
	if d.fontReader != nil && d.fontReader.Running() {
		return false
	}
	fp := d.gen.(generator.FontProvider)
	d.fontCache = nil
	d.fontStopRequested = false
	wrapped := fonts.Callbacks{
		Font: func(i fonts.Info) {
			d.fontCache = append(d.fontCache, i)
			if cb.Font != nil {
				cb.Font(i)
			}
		},
		Progress: cb.Progress,
		Ended: func() {
			if !d.fontStopRequested {
				d.fontsCached = true
			}
			if cb.Ended != nil {
				cb.Ended()
			}
		},
	}
	d.fontReader = fonts.NewReader(fp, d.loop, len(d.pages), d.log, wrapped)
	return d.fontReader.Start()
}

// StopFontReading cancels a running font enumeration.
func (d *Document) StopFontReading() {
	if d.fontReader != nil {
		d.fontStopRequested = true
		d.fontReader.Stop()
	}
}

// recognizeTextPage builds a text page by running an existing pixmap
// rendering through the OCR engine.
func (d *Document) recognizeTextPage(p *page.Page) {
	var img image.Image
	p.EachPixmap(func(_ int, pm page.Pixmap, _ page.Rotation) {
		if img != nil {
			return
		}
		if ip, ok := pm.(page.ImagePixmap); ok {
			img = ip.Image()
		}
	})
	if img == nil {
		return
	}
	in, err := ocr.InputFromImage(img, p.Number())
	if err != nil {
		d.log.Warn("ocr input failed", observability.Error("err", err))
		return
	}
	res, err := d.ocrEngine.Recognize(context.Background(), in)
	if err != nil {
		d.log.Warn("ocr failed",
			observability.Int("page", p.Number()),
			observability.Error("err", err))
		return
	}
	b := img.Bounds()
	p.SetTextPage(ocr.TextPageFromResult(res, b.Dx(), b.Dy()))
}

// runDocumentScripts executes generator-supplied scripts at open time.
// Script failures are logged, never fatal.
func (d *Document) runDocumentScripts() {
	sp, ok := d.gen.(generator.ScriptProvider)
	if !ok {
		return
	}
	scriptsSrc := sp.DocumentScripts()
	if len(scriptsSrc) == 0 {
		return
	}
	if d.scripts == nil {
		d.scripts = scripting.NewEngine()
	}
	if err := d.scripts.Bind(docHost{d: d}); err != nil {
		d.log.Warn("script host binding failed", observability.Error("err", err))
		return
	}
	for _, src := range scriptsSrc {
		if _, err := d.scripts.Execute(context.Background(), src); err != nil {
			d.log.Warn("document script failed", observability.Error("err", err))
		}
	}
}

// docHost is the controlled surface document scripts run against.
type docHost struct {
	d *Document
}

func (h docHost) PageCount() int {
	return len(h.d.pages)
}

func (h docHost) CurrentPage() int {
	if p := h.d.history.Current().PageNumber; p >= 0 {
		return p
	}
	return 0
}

func (h docHost) GotoPage(n int) {
	h.d.SetViewportPage(n, 0, false)
}

func (h docHost) Info(key string) string {
	if s, ok := h.d.DocumentMetaData(key, nil).(string); ok {
		return s
	}
	return ""
}

func (h docHost) Alert(msg string) {
	if h.d.reporter != nil {
		h.d.reporter(msg, reportDuration)
	}
}
