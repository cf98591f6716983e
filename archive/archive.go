// Package archive packs a document and its metadata sidecar into a single
// ZIP container and unpacks such containers back into temporary files.
//
// The container holds three entries: content.xml (the manifest naming the
// other two), the document file under its original basename, and
// metadata.xml. Packing is deterministic: the same inputs produce the
// same bytes, so an unchanged document can be re-saved without touching
// the file.
package archive

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// MetadataFileName is the fixed name of the sidecar entry.
const MetadataFileName = "metadata.xml"

const manifestName = "content.xml"

// Entry timestamps are pinned so identical content packs to identical
// bytes.
var packTime = time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)

var (
	ErrNoManifest  = errors.New("archive: missing content.xml manifest")
	ErrBadManifest = errors.New("archive: malformed content.xml manifest")
	ErrNoDocument  = errors.New("archive: document entry missing")
)

type manifest struct {
	XMLName xml.Name      `xml:"OkularArchive"`
	Files   manifestFiles `xml:"Files"`
}

type manifestFiles struct {
	DocumentFileName string `xml:"DocumentFileName"`
	MetadataFileName string `xml:"MetadataFileName"`
}

// Contents is the unpacked form of an archive: the document payload
// extracted to a temporary file plus the raw sidecar bytes.
type Contents struct {
	// DocumentPath is a temporary file holding the inner document. The
	// caller owns it and removes it when the document closes.
	DocumentPath string
	// DocumentName is the basename recorded in the manifest.
	DocumentName string
	// Metadata holds the sidecar bytes; nil when the archive carried none.
	Metadata []byte
}

// Pack writes an archive containing the document at docPath and the given
// sidecar bytes to w.
func Pack(w io.Writer, docPath string, metadata []byte) error {
	doc, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("archive: read document: %w", err)
	}
	return packBytes(w, filepath.Base(docPath), doc, metadata)
}

// PackNamed is Pack with the document already in memory and the entry
// name chosen by the caller. Re-saving an opened archive uses it to keep
// the inner document name stable.
func PackNamed(w io.Writer, docName string, doc, metadata []byte) error {
	return packBytes(w, docName, doc, metadata)
}

func packBytes(w io.Writer, docName string, doc, metadata []byte) error {
	m := manifest{Files: manifestFiles{
		DocumentFileName: docName,
		MetadataFileName: MetadataFileName,
	}}
	manifestBody, err := xml.MarshalIndent(m, "", " ")
	if err != nil {
		return err
	}
	manifestBody = append([]byte(xml.Header), append(manifestBody, '\n')...)

	zw := zip.NewWriter(w)
	for _, entry := range []struct {
		name string
		data []byte
	}{
		{manifestName, manifestBody},
		{docName, doc},
		{MetadataFileName, metadata},
	} {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     entry.name,
			Method:   zip.Deflate,
			Modified: packTime,
		})
		if err != nil {
			return err
		}
		if _, err := fw.Write(entry.data); err != nil {
			return err
		}
	}
	return zw.Close()
}

// PackFile writes the archive to path via a temporary sibling so a failed
// pack never clobbers an existing archive.
func PackFile(path, docPath string, metadata []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".docview-pack-*")
	if err != nil {
		return err
	}
	if err := Pack(tmp, docPath, metadata); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Open unpacks the archive at path. The inner document is written to a
// temporary file whose suffix preserves the document's extension so MIME
// detection by name still works.
func Open(path string) (*Contents, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	mf, ok := files[manifestName]
	if !ok {
		return nil, ErrNoManifest
	}
	manifestData, err := readEntry(mf)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := xml.Unmarshal(manifestData, &m); err != nil {
		return nil, ErrBadManifest
	}
	if m.Files.DocumentFileName == "" {
		return nil, ErrBadManifest
	}

	df, ok := files[m.Files.DocumentFileName]
	if !ok {
		return nil, ErrNoDocument
	}
	doc, err := readEntry(df)
	if err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp("", "docview-*"+filepath.Ext(m.Files.DocumentFileName))
	if err != nil {
		return nil, err
	}
	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}

	out := &Contents{
		DocumentPath: tmp.Name(),
		DocumentName: m.Files.DocumentFileName,
	}
	if m.Files.MetadataFileName != "" {
		if sf, ok := files[m.Files.MetadataFileName]; ok {
			// A missing or unreadable sidecar entry is not fatal.
			if data, err := readEntry(sf); err == nil {
				out.Metadata = data
			}
		}
	}
	return out, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, rc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close removes the temporary document file.
func (c *Contents) Close() error {
	if c.DocumentPath == "" {
		return nil
	}
	err := os.Remove(c.DocumentPath)
	c.DocumentPath = ""
	return err
}
