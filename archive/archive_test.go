package archive

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func writeDoc(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestPackOpenRoundTrip(t *testing.T) {
	docPath := writeDoc(t, "report.pdf", []byte("%PDF-1.7 fake"))
	meta := []byte(`<documentInfo url="u"/>`)

	var buf bytes.Buffer
	if err := Pack(&buf, docPath, meta); err != nil {
		t.Fatalf("pack: %v", err)
	}

	arPath := filepath.Join(t.TempDir(), "report.okular")
	if err := os.WriteFile(arPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	c, err := Open(arPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	if c.DocumentName != "report.pdf" {
		t.Fatalf("document name %q", c.DocumentName)
	}
	if filepath.Ext(c.DocumentPath) != ".pdf" {
		t.Fatalf("temp file must keep extension, got %q", c.DocumentPath)
	}
	got, err := os.ReadFile(c.DocumentPath)
	if err != nil {
		t.Fatalf("read temp: %v", err)
	}
	if !bytes.Equal(got, []byte("%PDF-1.7 fake")) {
		t.Fatalf("document bytes differ")
	}
	if !bytes.Equal(c.Metadata, meta) {
		t.Fatalf("metadata bytes differ")
	}
}

func TestPackIsDeterministic(t *testing.T) {
	docPath := writeDoc(t, "a.pdf", []byte("same bytes"))
	meta := []byte("<documentInfo/>")

	var first, second bytes.Buffer
	if err := Pack(&first, docPath, meta); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if err := Pack(&second, docPath, meta); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Fatalf("identical inputs must pack to identical bytes")
	}
}

func TestPackFileReplacesAtomically(t *testing.T) {
	docPath := writeDoc(t, "a.pdf", []byte("v1"))
	arPath := filepath.Join(t.TempDir(), "a.okular")

	if err := PackFile(arPath, docPath, nil); err != nil {
		t.Fatalf("pack: %v", err)
	}
	if err := PackFile(arPath, docPath, nil); err != nil {
		t.Fatalf("repack: %v", err)
	}
	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(arPath), ".docview-pack-*"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestOpenRejectsBrokenArchives(t *testing.T) {
	dir := t.TempDir()

	notZip := filepath.Join(dir, "x.okular")
	if err := os.WriteFile(notZip, []byte("not a zip"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Open(notZip); err == nil {
		t.Fatalf("non-zip must fail")
	}
}

func TestOpenWithoutMetadata(t *testing.T) {
	docPath := writeDoc(t, "a.pdf", []byte("doc"))
	var buf bytes.Buffer
	if err := Pack(&buf, docPath, nil); err != nil {
		t.Fatalf("pack: %v", err)
	}
	arPath := filepath.Join(t.TempDir(), "a.okular")
	if err := os.WriteFile(arPath, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Open(arPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()
	if len(c.Metadata) != 0 {
		t.Fatalf("expected empty metadata, got %q", c.Metadata)
	}
}
