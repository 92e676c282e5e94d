package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/natefinch/atomic"

	"github.com/georgbuechner/litt/internal/logging"
)

// Checksum is the (length, mtime) pair keyed by absolute source path that
// decides whether a source file must be re-ingested.
//
// Field names are capitalized so json.Marshal can see them, without
// exposing them as part of the package's real API.
type Checksum struct {
	Length int64     `json:"length"`
	Mtime  time.Time `json:"mtime"`
}

// Equals returns true iff both components of c and o match exactly. No
// normalisation is applied to Mtime: moving an index between filesystems
// with different timestamp resolutions looks like "everything changed",
// which just costs a cheap re-ingest on the small indexes litt targets.
func (c Checksum) Equals(o Checksum) bool {
	return c.Length == o.Length && c.Mtime.Equal(o.Mtime)
}

// ChecksumOf returns the current Checksum for the file at path.
func ChecksumOf(path string) (Checksum, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Checksum{}, err
	}
	return Checksum{Length: fi.Size(), Mtime: fi.ModTime()}, nil
}

// ChecksumMap is the persistent {absolute source path -> Checksum} map. It
// is created lazily, read at the start of ingest, and rewritten atomically
// at the end of ingest.
type ChecksumMap map[string]Checksum

// LoadChecksumMap reads the checksum map at path. A missing file is not an
// error: it returns an empty map.
func LoadChecksumMap(path string) (ChecksumMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ChecksumMap{}, nil
		}
		return nil, fmt.Errorf("reading checksum map %q: %w", path, err)
	}
	var m ChecksumMap
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decoding checksum map %q: %w", path, err)
	}
	if m == nil {
		m = ChecksumMap{}
	}
	return m, nil
}

// Store rewrites the checksum map at path with the contents of m, replacing
// any previous contents atomically: a reader opening path at any point
// during the write sees either the old or the new contents in full, never a
// partial file.
func (m ChecksumMap) Store(path string) error {
	b, err := json.MarshalIndent(m, "", "\t")
	if err != nil {
		return fmt.Errorf("encoding checksum map: %w", err)
	}
	if err := MkDirAll(filepath.Dir(path)); err != nil {
		return err
	}
	if err := atomic.WriteFile(path, bytes.NewReader(b)); err != nil {
		logging.Errorf("ChecksumMap.Store: atomic write failed. path=%q err=%v", path, err)
		return fmt.Errorf("writing checksum map %q: %w", path, err)
	}
	return nil
}

// RemoveChecksumMap deletes the checksum map file at path, ignoring a
// not-found error.
func RemoveChecksumMap(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing checksum map %q: %w", path, err)
	}
	return nil
}
