package area

// Color is an opaque sRGB color. Hue values follow the 0..359 convention,
// saturation and value are 0..255.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// HSV decomposes the color. Hue is -1 for achromatic colors.
func (c Color) HSV() (h, s, v int) {
	r, g, b := int(c.R), int(c.G), int(c.B)
	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}
	v = max
	delta := max - min
	if max == 0 {
		return -1, 0, v
	}
	s = 255 * delta / max
	if delta == 0 {
		return -1, s, v
	}
	switch max {
	case r:
		h = 60 * (g - b) / delta
	case g:
		h = 120 + 60*(b-r)/delta
	default:
		h = 240 + 60*(r-g)/delta
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}

// FromHSV builds a color from hue (0..359, or -1 for gray), saturation and
// value (0..255 each).
func FromHSV(h, s, v int) Color {
	if h < 0 || s == 0 {
		return Color{uint8(v), uint8(v), uint8(v)}
	}
	h %= 360
	region := h / 60
	rem := h % 60
	p := v * (255 - s) / 255
	q := v * (255*60 - s*rem) / (255 * 60)
	t := v * (255*60 - s*(60-rem)) / (255 * 60)
	switch region {
	case 0:
		return Color{uint8(v), uint8(t), uint8(p)}
	case 1:
		return Color{uint8(q), uint8(v), uint8(p)}
	case 2:
		return Color{uint8(p), uint8(v), uint8(t)}
	case 3:
		return Color{uint8(p), uint8(q), uint8(v)}
	case 4:
		return Color{uint8(t), uint8(p), uint8(v)}
	default:
		return Color{uint8(v), uint8(p), uint8(q)}
	}
}

// WordColors derives one highlight color per search word from a base color.
// Hues step down by 60/(n-1) degrees and wrap modulo 360 so multi-word
// matches stay visually related to the base.
func WordColors(base Color, words int) []Color {
	if words <= 0 {
		return nil
	}
	hueStep := 60
	if words > 1 {
		hueStep = 60 / (words - 1)
	}
	baseHue, baseSat, baseVal := base.HSV()
	out := make([]Color, words)
	for w := 0; w < words; w++ {
		hue := baseHue - w*hueStep
		if hue < 0 {
			hue += 360
		}
		out[w] = FromHSV(hue, baseSat, baseVal)
	}
	return out
}
