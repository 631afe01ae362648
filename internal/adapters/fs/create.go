// Package fs provides filesystem adapters used by the file sink. The
// exclusivity helper here is adapted from the teacher's
// StateFileRepository.Save atomic write-then-rename pattern: instead of
// replacing a single well-known file, the file sink creates a new,
// never-before-seen file per Bulk, so exclusivity rather than atomic
// replace is the property that matters.
package fs

import (
	"os"
	"path/filepath"
)

// CreateExclusive creates a new regular file at dir/name, failing if a
// file already exists there (O_EXCL). The Dispatcher's filename scheme
// (context id + sequence + worker index + local counter) is designed so
// this should never collide in practice; O_EXCL is the defensive check
// that turns a silent overwrite into a reported error instead (spec
// §4.3 K2: log and drop the Bulk for this sink only).
func CreateExclusive(dir, name string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, name)
	return os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
}
