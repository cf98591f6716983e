// Package area provides normalized page geometry: points, rectangles and
// regular areas expressed in [0,1]x[0,1] page coordinates, plus the color
// helpers used for match highlighting.
package area

import "math"

// NormalizedPoint is a single point in normalized page coordinates.
type NormalizedPoint struct {
	X float64
	Y float64
}

// NormalizedRect is an axis-aligned rectangle in normalized page
// coordinates. A zero rect is treated as null.
type NormalizedRect struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// NewRect builds a rect from two corner pairs, reordering the coordinates
// so that Left <= Right and Top <= Bottom.
func NewRect(l, t, r, b float64) NormalizedRect {
	if l > r {
		l, r = r, l
	}
	if t > b {
		t, b = b, t
	}
	return NormalizedRect{Left: l, Top: t, Right: r, Bottom: b}
}

func (r NormalizedRect) IsNull() bool {
	return r.Left == 0 && r.Top == 0 && r.Right == 0 && r.Bottom == 0
}

func (r NormalizedRect) Width() float64  { return r.Right - r.Left }
func (r NormalizedRect) Height() float64 { return r.Bottom - r.Top }

func (r NormalizedRect) Contains(x, y float64) bool {
	return x >= r.Left && x <= r.Right && y >= r.Top && y <= r.Bottom
}

func (r NormalizedRect) Intersects(o NormalizedRect) bool {
	return r.Left < o.Right && r.Right > o.Left && r.Top < o.Bottom && r.Bottom > o.Top
}

// United returns the smallest rect containing both r and o.
func (r NormalizedRect) United(o NormalizedRect) NormalizedRect {
	if r.IsNull() {
		return o
	}
	if o.IsNull() {
		return r
	}
	return NormalizedRect{
		Left:   math.Min(r.Left, o.Left),
		Top:    math.Min(r.Top, o.Top),
		Right:  math.Max(r.Right, o.Right),
		Bottom: math.Max(r.Bottom, o.Bottom),
	}
}

func (r NormalizedRect) Center() NormalizedPoint {
	return NormalizedPoint{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Rotated maps the rect through a clockwise page rotation, keeping it in
// normalized coordinates.
func (r NormalizedRect) Rotated(quarters int) NormalizedRect {
	switch ((quarters % 4) + 4) % 4 {
	case 1:
		return NewRect(1-r.Bottom, r.Left, 1-r.Top, r.Right)
	case 2:
		return NewRect(1-r.Right, 1-r.Bottom, 1-r.Left, 1-r.Top)
	case 3:
		return NewRect(r.Top, 1-r.Right, r.Bottom, 1-r.Left)
	default:
		return r
	}
}

// RegularArea is a finite union of normalized rects, used for highlights
// and text selections.
type RegularArea []NormalizedRect

func (a RegularArea) IsNull() bool {
	for _, r := range a {
		if !r.IsNull() {
			return false
		}
	}
	return true
}

// First returns the first non-null rect of the area.
func (a RegularArea) First() NormalizedRect {
	for _, r := range a {
		if !r.IsNull() {
			return r
		}
	}
	return NormalizedRect{}
}

func (a RegularArea) Contains(x, y float64) bool {
	for _, r := range a {
		if r.Contains(x, y) {
			return true
		}
	}
	return false
}

func (a RegularArea) Intersects(rect NormalizedRect) bool {
	for _, r := range a {
		if r.Intersects(rect) {
			return true
		}
	}
	return false
}

// Simplified merges consecutive intersecting rects. The result is
// equivalent for hit-testing but cheaper to paint.
func (a RegularArea) Simplified() RegularArea {
	if len(a) < 2 {
		return a
	}
	out := RegularArea{a[0]}
	for _, r := range a[1:] {
		last := &out[len(out)-1]
		if last.Intersects(r) {
			*last = last.United(r)
		} else {
			out = append(out, r)
		}
	}
	return out
}

// Rotated maps every rect of the area through a clockwise page rotation.
func (a RegularArea) Rotated(quarters int) RegularArea {
	if len(a) == 0 {
		return nil
	}
	out := make(RegularArea, len(a))
	for i, r := range a {
		out[i] = r.Rotated(quarters)
	}
	return out
}
