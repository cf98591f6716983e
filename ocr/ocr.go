// Package ocr plugs third-party recognition engines into the text layer.
// When a generator cannot extract text natively, the core renders the
// page to an image, runs it through an Engine, and synthesizes a text
// page from the recognized words. The interfaces are small and
// transport-agnostic so engines can be backed by native libraries or
// remote services.
package ocr

import "context"

// Region describes a rectangular area in pixel coordinates with the
// origin in the upper-left corner of the image.
type Region struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// IsEmpty reports whether the region has non-positive dimensions.
func (r Region) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Input encapsulates a single page image submitted for recognition.
type Input struct {
	// Image is the PNG-encoded page rendering.
	Image []byte
	// PageNumber links the input back to the page it was rendered from.
	PageNumber int
	// DPI carries the effective dots-per-inch of the rendering; zero
	// means unknown.
	DPI int
	// Languages lists trained-data hints such as "eng" or "deu".
	Languages []string
	// Metadata passes engine-specific knobs without hard-coding them
	// into the API surface.
	Metadata map[string]string
}

// Word is a single recognized token with its pixel bounds.
type Word struct {
	Text       string
	Bounds     Region
	Confidence float64
}

// Result captures recognition output for one page image.
type Result struct {
	PageNumber int
	// PlainText is the linearized text of the whole image.
	PlainText string
	// Words carries the positional layout used to build the text page.
	Words []Word
}

// Engine is the provider contract: one image in, one result out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, in Input) (Result, error)
}
