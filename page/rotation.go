package page

// Rotation is a clockwise page rotation in quarter turns.
type Rotation int

const (
	Rotation0 Rotation = iota
	Rotation90
	Rotation180
	Rotation270
)

// IsOrthogonal reports whether the rotation swaps width and height.
func (r Rotation) IsOrthogonal() bool { return r%2 != 0 }

// Normalized maps any integer quarter count into [0,3].
func (r Rotation) Normalized() Rotation { return ((r % 4) + 4) % 4 }

// PageSize is a selectable page size in document units.
type PageSize struct {
	Width  float64
	Height float64
	Name   string
}

func (s PageSize) IsNull() bool { return s.Width == 0 && s.Height == 0 }
