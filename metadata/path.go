package metadata

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// maxSidecarName bounds the basename component of a sidecar file name.
// Longer names, and names that cannot appear in a single path component,
// fall back to a digest of the full document path.
const maxSidecarName = 158

// SidecarPath returns the sidecar file path for a document inside the
// given data directory. The name is "<size>.<basename>.xml" so that a
// replaced document of a different size does not pick up stale state.
func SidecarPath(dataDir, docPath string, docSize int64) string {
	base := filepath.Base(docPath)
	if len(base) > maxSidecarName || strings.ContainsAny(base, "/\\") || base == "." || base == ".." {
		sum := blake2b.Sum256([]byte(docPath))
		base = hex.EncodeToString(sum[:16])
	}
	return filepath.Join(dataDir, fmt.Sprintf("%d.%s.xml", docSize, base))
}

// Load reads and parses the sidecar at path. A missing or malformed
// sidecar returns an empty DocumentInfo and ok=false.
func Load(path string) (DocumentInfo, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return DocumentInfo{}, false
	}
	info, err := Parse(data)
	if err != nil {
		return DocumentInfo{}, false
	}
	return info, true
}

// Save serializes and writes the sidecar, creating the data directory
// when needed.
func Save(path string, info DocumentInfo) error {
	data, err := Serialize(info)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
