package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wudi/docview/archive"
	"github.com/wudi/docview/generator"
	"github.com/wudi/docview/metadata"
	"github.com/wudi/docview/observability"
)

// OpenArchive unpacks a document archive and opens the inner document
// through the regular generator path. Annotations restored from the
// archive's sidecar are marked external so SaveArchive of an unedited
// archive reproduces the entry bytes exactly.
func (d *Document) OpenArchive(path string) error {
	c, err := archive.Open(path)
	if err != nil {
		d.report("Could not open " + path)
		return fmt.Errorf("%w: %v", ErrArchiveMalformed, err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(c.DocumentName))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	d.pendingArchive = &archiveState{contents: c, path: path}
	if err := d.Open(c.DocumentPath, mimeType); err != nil {
		d.pendingArchive = nil
		_ = c.Close()
		return fmt.Errorf("%w: %w", ErrDocumentOpenFailed, err)
	}
	return nil
}

// SaveArchive packs the open document and its current metadata into an
// archive at toPath. When the document came from an archive and nothing
// was edited — no annotation, bookmark, rotation or viewport change —
// the original sidecar bytes are reused verbatim so the output is
// byte-identical to a repack of the source. Any edit switches to a
// fresh serialization of the current state.
func (d *Document) SaveArchive(toPath string) error {
	if d.gen == nil {
		return fmt.Errorf("%w: no open document", ErrSaveUnsupported)
	}

	docPath := d.path
	if d.annotationsEdited && d.CanSaveChanges() {
		tmp, err := os.CreateTemp("", "docview-save-*"+filepath.Ext(d.path))
		if err != nil {
			return err
		}
		tmpPath := tmp.Name()
		defer os.Remove(tmpPath)
		src, err := os.Open(d.path)
		if err != nil {
			tmp.Close()
			return fmt.Errorf("%w: %v", ErrFileUnreadable, err)
		}
		_, err = io.Copy(tmp, src)
		src.Close()
		if cerr := tmp.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		si := d.gen.(generator.SaveInterface)
		if err := si.SaveChanges(tmpPath); err != nil {
			return fmt.Errorf("save changes: %w", err)
		}
		docPath = tmpPath
	}

	var metaBytes []byte
	if d.arch != nil && !d.annotationsEdited && !d.metadataEdited && len(d.originalMetadata) > 0 {
		metaBytes = d.originalMetadata
	} else {
		b, err := metadata.Serialize(d.currentMetadata())
		if err != nil {
			return err
		}
		metaBytes = b
	}

	docName := filepath.Base(d.path)
	if d.arch != nil {
		docName = d.arch.contents.DocumentName
	}
	doc, err := os.ReadFile(docPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}

	start := time.Now()
	_, span := d.tracer.StartSpan(context.Background(), "docview.archive.pack")
	span.SetTag("path", toPath)
	var buf bytes.Buffer
	err = archive.PackNamed(&buf, docName, doc, metaBytes)
	span.SetError(err)
	span.Finish()
	if err != nil {
		return err
	}
	if err := os.WriteFile(toPath, buf.Bytes(), 0o644); err != nil {
		return err
	}
	d.log.Debug("archive saved",
		observability.String("path", toPath),
		observability.Int64(observability.MetricArchivePackTime, time.Since(start).Milliseconds()))
	return nil
}
