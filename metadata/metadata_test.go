package metadata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/wudi/docview/annotations"
	"github.com/wudi/docview/area"
)

func sampleInfo() DocumentInfo {
	created := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	return DocumentInfo{
		URL:      "file:///tmp/report.pdf",
		Rotation: 1,
		History:  []string{"0;C2:0.5:0.5:1", "4;C2:0.25:0.75:0"},
		Views: []ViewInfo{
			{Name: "PageView", Zoom: 1.25, ZoomMode: 0},
		},
		Pages: []PageInfo{
			{Number: 0, Bookmarked: true},
			{
				Number: 4,
				Annotations: []annotations.Annotation{
					{
						ID:       "docview-1",
						Type:     annotations.TypeHighlight,
						Author:   "ada",
						Contents: "check this",
						Boundary: area.NormalizedRect{Left: 0.1, Top: 0.2, Right: 0.3, Bottom: 0.25},
						Color:    area.Color{R: 255, G: 255, B: 0},
						Created:  created,
						Modified: created,
					},
				},
			},
		},
	}
}

func TestSidecarRoundTrip(t *testing.T) {
	want := sampleInfo()
	data, err := Serialize(want)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	got, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSerializeOmitsDefaults(t *testing.T) {
	data, err := Serialize(DocumentInfo{
		URL:   "file:///tmp/a.pdf",
		Pages: []PageInfo{{Number: 3}},
	})
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	s := string(data)
	if strings.Contains(s, "<rotation>") {
		t.Fatalf("rotation 0 must be omitted:\n%s", s)
	}
	if strings.Contains(s, "<page ") {
		t.Fatalf("empty pages must be omitted:\n%s", s)
	}
}

func TestParseMalformed(t *testing.T) {
	if _, err := Parse([]byte("<documentInfo><pageList>")); err == nil {
		t.Fatalf("malformed sidecar must fail to parse")
	}
}

func TestParseNormalizesRotation(t *testing.T) {
	data := []byte(`<documentInfo url="u"><generalInfo><rotation>5</rotation></generalInfo></documentInfo>`)
	info, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if info.Rotation != 1 {
		t.Fatalf("rotation = %d, want 1", info.Rotation)
	}
}

func TestSidecarPath(t *testing.T) {
	got := SidecarPath("/data", "/docs/report.pdf", 12345)
	if got != filepath.Join("/data", "12345.report.pdf.xml") {
		t.Fatalf("path %q", got)
	}

	long := strings.Repeat("x", 200) + ".pdf"
	hashed := SidecarPath("/data", "/docs/"+long, 7)
	base := filepath.Base(hashed)
	if strings.Contains(base, "xxxx") {
		t.Fatalf("long name must be hashed, got %q", base)
	}
	if !strings.HasPrefix(base, "7.") || !strings.HasSuffix(base, ".xml") {
		t.Fatalf("hashed name keeps size and extension, got %q", base)
	}
	if SidecarPath("/data", "/docs/"+long, 7) != hashed {
		t.Fatalf("hashed names must be stable")
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "meta", "1.a.xml")

	if _, ok := Load(path); ok {
		t.Fatalf("missing sidecar must report ok=false")
	}

	want := sampleInfo()
	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok := Load(path)
	if !ok {
		t.Fatalf("load failed")
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("load mismatch (-want +got):\n%s", diff)
	}

	if err := os.WriteFile(path, []byte("not xml at all <"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	if _, ok := Load(path); ok {
		t.Fatalf("malformed sidecar must report ok=false")
	}
}
