package document

import (
	"errors"
	"time"
)

// Sentinel errors for the open, save and export paths. Callers test with
// errors.Is; wrapped messages carry the detail.
var (
	ErrNoGeneratorForMime  = errors.New("no generator for mime type")
	ErrGeneratorLoadFailed = errors.New("generator failed to load document")
	ErrDocumentOpenFailed  = errors.New("document open failed")
	ErrFileUnreadable      = errors.New("file unreadable")
	ErrArchiveMalformed    = errors.New("malformed archive")
	ErrMetadataParse       = errors.New("malformed metadata")
	ErrRequestOversize     = errors.New("render request oversize")
	ErrPrintFailed         = errors.New("print failed")
	ErrExportUnavailable   = errors.New("export unavailable")
	ErrSaveUnsupported     = errors.New("saving not supported by generator")
)

// ErrorReporter surfaces user-visible errors; duration hints how long the
// host should show the message.
type ErrorReporter func(message string, duration time.Duration)

const reportDuration = 5 * time.Second
