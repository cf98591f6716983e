package annotations

import (
	"strings"
	"testing"

	"github.com/wudi/docview/area"
)

func TestTypeRoundTrip(t *testing.T) {
	for _, typ := range []Type{TypeText, TypeLine, TypeGeometric, TypeHighlight, TypeStamp, TypeInk} {
		if got := ParseType(typ.String()); got != typ {
			t.Errorf("ParseType(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
	if got := ParseType("squiggle"); got != TypeText {
		t.Errorf("unknown type should fall back to text, got %v", got)
	}
}

func TestEditable(t *testing.T) {
	a := &Annotation{Flags: FlagHidden}
	if !a.Editable() {
		t.Errorf("hidden annotation is still editable")
	}
	a.Flags |= FlagDenyWrite
	if a.Editable() {
		t.Errorf("DenyWrite must block editing")
	}
}

func TestContentsHTML(t *testing.T) {
	a := &Annotation{Contents: "see **figure 3**"}
	out, err := a.ContentsHTML()
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<strong>figure 3</strong>") {
		t.Fatalf("markdown not rendered: %q", out)
	}
}

func TestPlainContents(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain note", "plain note"},
		{"<p>rich <b>note</b></p>", "rich note"},
		{"a &lt; b", "a < b"},
	}
	for _, c := range cases {
		a := &Annotation{Contents: c.in}
		if got := a.PlainContents(); got != c.want {
			t.Errorf("PlainContents(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestZeroBoundary(t *testing.T) {
	a := &Annotation{Boundary: area.NewRect(0.1, 0.1, 0.2, 0.2)}
	if a.Boundary.IsNull() {
		t.Fatalf("boundary should not be null")
	}
}
