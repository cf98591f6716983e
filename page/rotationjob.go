package page

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// RotationJob re-rotates one observer's pixmap to a new page rotation.
// Jobs run off the host thread; the result is applied back on the host
// loop by the document.
type RotationJob struct {
	PageNumber int
	ObserverID int
	Source     image.Image
	From       Rotation
	To         Rotation
}

// Run produces the rotated pixmap.
func (j *RotationJob) Run() *ImageBuffer {
	delta := int((j.To - j.From).Normalized())
	return NewImageBuffer(rotateQuarters(j.Source, delta))
}

// rotateQuarters rotates src clockwise by the given number of quarter
// turns using an affine transform.
func rotateQuarters(src image.Image, quarters int) image.Image {
	quarters = ((quarters % 4) + 4) % 4
	b := src.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	var dst *image.RGBA
	var m f64.Aff3
	switch quarters {
	case 0:
		dst = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		m = f64.Aff3{1, 0, 0, 0, 1, 0}
	case 1:
		dst = image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
		m = f64.Aff3{0, -1, h, 1, 0, 0}
	case 2:
		dst = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		m = f64.Aff3{-1, 0, w, 0, -1, h}
	default:
		dst = image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
		m = f64.Aff3{0, 1, 0, -1, 0, w}
	}
	draw.NearestNeighbor.Transform(dst, m, src, b, draw.Src, nil)
	return dst
}
