// Package generator defines the contract between the document core and
// format-specific renderer plugins. A generator is a core interface plus
// a set of optional capability interfaces discovered by type assertion.
package generator

import (
	"github.com/wudi/docview/page"
)

// Feature flags a generator may declare.
type Feature int

const (
	TextExtraction Feature = iota
	FontInfo
	PageSizes
	PrintNative
	PrintPostscript
	PrintToFile
	ReadRawData
	Threaded
)

// SizeMetric tells the core how page sizes are expressed.
type SizeMetric int

const (
	SizeMetricNone SizeMetric = iota
	SizeMetricPoints
)

// ExportFormat describes one target format a generator can export to.
type ExportFormat struct {
	MIME        string
	Description string
}

// Generator is implemented by format plugins. The generator renders at
// most one pixmap at a time; GeneratePixmap must eventually hand the
// request back through the sink's RequestDone, possibly synchronously on
// the calling goroutine.
type Generator interface {
	// LoadDocument opens the file and returns the page vector.
	LoadDocument(path string) ([]*page.Page, error)
	CloseDocument() error

	// CanGeneratePixmap reports whether the generator is idle.
	CanGeneratePixmap() bool
	GeneratePixmap(req *PixmapRequest)

	// GenerateTextPage materializes the page's text synchronously.
	GenerateTextPage(p *page.Page)

	HasFeature(f Feature) bool
	PagesSizeMetric() SizeMetric

	// MetaData answers generator-specific keys; nil when unknown.
	MetaData(key string, option interface{}) interface{}

	// RotationChanged and PageSizeChanged let the plugin adjust its own
	// state after the core re-keys the page vector.
	RotationChanged(current, previous page.Rotation)
	PageSizeChanged(current, previous page.PageSize)

	ExportFormats() []ExportFormat
	ExportTo(path string, format ExportFormat) error
}

// RequestSink receives completed pixmap requests; the document core
// implements it.
type RequestSink interface {
	RequestDone(req *PixmapRequest)
}

// DataLoader is implemented by generators that can open from memory.
type DataLoader interface {
	LoadDocumentFromData(data []byte) ([]*page.Page, error)
}

// ConfigInterface is implemented by generators with their own settings.
type ConfigInterface interface {
	// ReparseConfig reports whether the new configuration invalidates
	// already-rendered pixmaps.
	ReparseConfig() bool
}

// SaveInterface is implemented by generators that can write changes
// (typically annotations) back to the document file.
type SaveInterface interface {
	CanSaveChanges() bool
	SaveChanges(path string) error
}

// PrintInterface is implemented by generators with native printing.
type PrintInterface interface {
	Print(target string) PrintError
}

// GUIInterface is implemented by generators contributing UI actions; the
// host merges the named description into its own UI.
type GUIInterface interface {
	GUIName() string
}

// FontProvider is implemented by generators that can enumerate document
// fonts, optionally exposing the embedded font program bytes.
type FontProvider interface {
	FontsForPage(pageNumber int) []FontRef
}

// FontRef points at one font used by the document. Data is nil when the
// font is not embedded.
type FontRef struct {
	Name     string
	Embedded bool
	Data     []byte
}

// ScriptProvider is implemented by generators whose documents carry
// scripts to run at open time.
type ScriptProvider interface {
	DocumentScripts() []string
}
