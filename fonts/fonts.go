// Package fonts enumerates the fonts a document uses. Enumeration runs
// one page at a time through the host event loop so a large document
// never blocks the UI between pages.
package fonts

import (
	"bytes"

	gofont "github.com/go-text/typesetting/font"
)

// Info describes one font found in the document.
type Info struct {
	// Name is the name the document refers to the font by.
	Name string
	// Family is the family recorded inside the embedded font program,
	// empty for non-embedded fonts and unparseable programs.
	Family   string
	Embedded bool
	// FirstPage is the lowest page number the font was seen on.
	FirstPage int
	// Extractable reports whether the embedded program bytes are
	// available for saving to disk.
	Extractable bool
}

// describe parses an embedded font program and pulls out the family
// name. Formats the parser does not understand yield an empty family.
func describe(data []byte) string {
	if len(data) == 0 {
		return ""
	}
	face, err := gofont.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return face.Describe().Family
}
