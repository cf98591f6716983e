// Package annotations models page-level annotations: typed records with
// author, contents, boundary and lifecycle flags. Contents may be written
// in Markdown (with TeX math) and are rendered to HTML for popups, or
// flattened to plain text for search and tooltips.
package annotations

import (
	"time"

	"github.com/wudi/docview/area"
)

// Type discriminates annotation kinds.
type Type int

const (
	TypeText Type = iota
	TypeLine
	TypeGeometric
	TypeHighlight
	TypeStamp
	TypeInk
)

func (t Type) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeLine:
		return "line"
	case TypeGeometric:
		return "geometric"
	case TypeHighlight:
		return "highlight"
	case TypeStamp:
		return "stamp"
	case TypeInk:
		return "ink"
	default:
		return "unknown"
	}
}

// ParseType is the inverse of Type.String; unknown names map to TypeText.
func ParseType(s string) Type {
	switch s {
	case "line":
		return TypeLine
	case "geometric":
		return TypeGeometric
	case "highlight":
		return TypeHighlight
	case "stamp":
		return TypeStamp
	case "ink":
		return TypeInk
	default:
		return TypeText
	}
}

// Flag is a bitmask of annotation properties.
type Flag int

const (
	FlagHidden Flag = 1 << iota
	FlagFixedSize
	FlagDenyWrite
	FlagDenyDelete
	FlagExternallyDrawn
)

// Annotation is one page-level annotation. External annotations were
// sourced from the document itself and are re-emitted unchanged when the
// sidecar must stay byte-equivalent.
type Annotation struct {
	ID       string
	Type     Type
	Author   string
	Contents string
	Boundary area.NormalizedRect
	Color    area.Color
	Flags    Flag
	Created  time.Time
	Modified time.Time
	External bool
}

// Editable reports whether the annotation may be modified locally.
func (a *Annotation) Editable() bool {
	return a.Flags&FlagDenyWrite == 0
}
