// Package viewport describes positions on document pages and keeps the
// bounded navigation history used for back/forward movement.
//
// A viewport round-trips through a compact textual form,
// "P;C2:x:y:anchor;AF1:T|F:T|F", which is the single interchange format
// used for persistence and logging.
package viewport

import (
	"strconv"
	"strings"
)

// Anchor selects how the re-centering position is interpreted.
type Anchor int

const (
	AnchorTopLeft Anchor = 0
	AnchorCenter  Anchor = 1
)

// RePos is an optional normalized position inside the page.
type RePos struct {
	Enabled bool
	X       float64
	Y       float64
	Anchor  Anchor
}

// AutoFit is an optional fit-to-viewport hint.
type AutoFit struct {
	Enabled bool
	Width   bool
	Height  bool
}

// Viewport describes the visible region on one page. The zero value is not
// valid; use New or Invalid.
type Viewport struct {
	PageNumber int
	RePos      RePos
	AutoFit    AutoFit
}

// New returns a viewport pointing at the top of the given page.
func New(page int) Viewport { return Viewport{PageNumber: page} }

// Invalid returns the invalid viewport used before any page is shown.
func Invalid() Viewport { return Viewport{PageNumber: -1} }

func (v Viewport) IsValid() bool { return v.PageNumber >= 0 }

// Parse decodes the textual form. Unknown tokens are skipped; a viewport
// with an unparsable page number is invalid.
func Parse(s string) Viewport {
	v := Invalid()
	for i, token := range strings.Split(s, ";") {
		if i == 0 {
			page, err := strconv.Atoi(token)
			if err != nil {
				return Invalid()
			}
			v.PageNumber = page
			continue
		}
		switch {
		case strings.HasPrefix(token, "C1"):
			parts := strings.Split(token, ":")
			if len(parts) >= 3 {
				v.RePos.Enabled = true
				v.RePos.X, _ = strconv.ParseFloat(parts[1], 64)
				v.RePos.Y, _ = strconv.ParseFloat(parts[2], 64)
				v.RePos.Anchor = AnchorCenter
			}
		case strings.HasPrefix(token, "C2"):
			parts := strings.Split(token, ":")
			if len(parts) >= 4 {
				v.RePos.Enabled = true
				v.RePos.X, _ = strconv.ParseFloat(parts[1], 64)
				v.RePos.Y, _ = strconv.ParseFloat(parts[2], 64)
				if anchor, _ := strconv.Atoi(parts[3]); anchor == int(AnchorCenter) {
					v.RePos.Anchor = AnchorCenter
				} else {
					v.RePos.Anchor = AnchorTopLeft
				}
			}
		case strings.HasPrefix(token, "AF1"):
			parts := strings.Split(token, ":")
			if len(parts) >= 3 {
				v.AutoFit.Enabled = true
				v.AutoFit.Width = parts[1] == "T"
				v.AutoFit.Height = parts[2] == "T"
			}
		}
	}
	return v
}

// String encodes the viewport in its textual form. Optional fields are
// omitted when disabled.
func (v Viewport) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(v.PageNumber))
	if v.RePos.Enabled {
		b.WriteString(";C2:")
		b.WriteString(strconv.FormatFloat(v.RePos.X, 'g', -1, 64))
		b.WriteByte(':')
		b.WriteString(strconv.FormatFloat(v.RePos.Y, 'g', -1, 64))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(int(v.RePos.Anchor)))
	}
	if v.AutoFit.Enabled {
		b.WriteString(";AF1:")
		if v.AutoFit.Width {
			b.WriteByte('T')
		} else {
			b.WriteByte('F')
		}
		b.WriteByte(':')
		if v.AutoFit.Height {
			b.WriteByte('T')
		} else {
			b.WriteByte('F')
		}
	}
	return b.String()
}
