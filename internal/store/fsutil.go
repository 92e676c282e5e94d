// Package store implements the persistent, filesystem-backed structures an
// index keeps below its library index segments: the Page Store, the
// Checksum Map, and the Page-Word Index.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/georgbuechner/litt/internal/logging"
)

// LittDirName is the reserved subdirectory under a documents root that owns
// all persisted state for an index.
const LittDirName = ".litt"

// IndexSubdir is the library index segments subdirectory, opaque to this
// package.
const IndexSubdir = "index"

// PagesSubdir is the Page Store subdirectory.
const PagesSubdir = "pages"

// ChecksumFile is the Checksum Map's file name.
const ChecksumFile = "checksum.json"

// LittDir returns the litt directory for a documents root.
func LittDir(documentsRoot string) string {
	return filepath.Join(documentsRoot, LittDirName)
}

// IndexDir returns the library index segments subdirectory for a documents
// root.
func IndexDir(documentsRoot string) string {
	return filepath.Join(LittDir(documentsRoot), IndexSubdir)
}

// PagesDir returns the Page Store subdirectory for a documents root.
func PagesDir(documentsRoot string) string {
	return filepath.Join(LittDir(documentsRoot), PagesSubdir)
}

// ChecksumPath returns the Checksum Map file path for a documents root.
func ChecksumPath(documentsRoot string) string {
	return filepath.Join(LittDir(documentsRoot), ChecksumFile)
}

// Exists returns true if filename exists.
func Exists(filename string) bool {
	_, err := os.Stat(filename)
	if err != nil && !os.IsNotExist(err) {
		logging.Errorf("Exists: Stat failed. filename=%q err=%v", filename, err)
	}
	return err == nil
}

// MkDirAll creates dir and any missing parents if they don't already exist.
func MkDirAll(dir string) error {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		logging.Errorf("MkDirAll: failed. dir=%q err=%v", dir, err)
		return err
	}
	return nil
}

// RemoveDirectory recursively removes dir and its contents from disk. It
// refuses to operate on suspicious paths (empty, relative-dot, or absolute
// root-level) so a caller's bug can't turn into removing something other
// than a litt-owned directory.
func RemoveDirectory(dir string) error {
	if dir == "" || dir == "." || dir == "/" {
		return fmt.Errorf("RemoveDirectory: refusing to remove suspicious dir %q", dir)
	}
	return os.RemoveAll(dir)
}
