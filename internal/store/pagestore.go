package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

// DocDir allocates and creates a fresh pages/<uuid>/ directory for one
// source document under documentsRoot.
func DocDir(documentsRoot string) (string, error) {
	dir := filepath.Join(PagesDir(documentsRoot), uuid.NewString())
	if err := MkDirAll(dir); err != nil {
		return "", fmt.Errorf("creating page directory %q: %w", dir, err)
	}
	return dir, nil
}

// PagePath returns the path of page k's text file within docDir.
func PagePath(docDir string, page int) string {
	return filepath.Join(docDir, strconv.Itoa(page)+".pageinfo")
}

// WritePage writes text to the page file for page k within docDir, the
// authoritative copy previews are rendered from rather than re-opening the
// source document.
func WritePage(docDir string, page int, text string) (string, error) {
	path := PagePath(docDir, page)
	if err := os.WriteFile(path, []byte(text), 0o666); err != nil {
		return "", fmt.Errorf("writing page file %q: %w", path, err)
	}
	return path, nil
}

// ReadPage reads the stored text of the page file at path.
func ReadPage(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading page file %q: %w", path, err)
	}
	return string(b), nil
}

// CopyFile copies src to dest verbatim, without mutating the contents. The
// text/markdown ingestor does not call it; it reads the source and writes
// the page with WritePage.
func CopyFile(src, dest string) error {
	b, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("reading source file %q: %w", src, err)
	}
	if err := os.WriteFile(dest, b, 0o666); err != nil {
		return fmt.Errorf("writing page file %q: %w", dest, err)
	}
	return nil
}
