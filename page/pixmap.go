package page

import "image"

// Pixmap is a rendered bitmap owned by a (page, observer) pair. The core
// never inspects pixels; it only accounts for size. Generators may attach
// the raster by also implementing ImagePixmap, which enables re-rotation
// and OCR fallback.
type Pixmap interface {
	Width() int
	Height() int
}

// ImagePixmap exposes the underlying raster of a pixmap.
type ImagePixmap interface {
	Pixmap
	Image() image.Image
}

// ImageBuffer is the concrete pixmap used for rotation-job results and by
// generators that render through the image package.
type ImageBuffer struct {
	img image.Image
}

func NewImageBuffer(img image.Image) *ImageBuffer { return &ImageBuffer{img: img} }

func (b *ImageBuffer) Width() int         { return b.img.Bounds().Dx() }
func (b *ImageBuffer) Height() int        { return b.img.Bounds().Dy() }
func (b *ImageBuffer) Image() image.Image { return b.img }

// TransposedPixmap presents an underlying pixmap with width and height
// exchanged. It re-keys a rendering made in document orientation into
// display orientation when no raster is available for re-rotation.
type TransposedPixmap struct {
	Pixmap
}

func (t TransposedPixmap) Width() int  { return t.Pixmap.Height() }
func (t TransposedPixmap) Height() int { return t.Pixmap.Width() }

// SizePixmap is a pixmap without pixel data, used by generators that keep
// their rasters out of process and by tests.
type SizePixmap struct {
	W int
	H int
}

func (p SizePixmap) Width() int  { return p.W }
func (p SizePixmap) Height() int { return p.H }
