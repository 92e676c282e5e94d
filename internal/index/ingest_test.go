package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blevesearch/bleve/v2"

	"github.com/georgbuechner/litt/internal/store"
)

func newMemBleveIndex(t *testing.T, schema Schema) bleve.Index {
	t.Helper()
	bidx, err := bleve.NewMemOnly(schema.Mapping())
	if err != nil {
		t.Fatalf("bleve.NewMemOnly: %v", err)
	}
	t.Cleanup(func() { bidx.Close() })
	return bidx
}

func TestDiscoverSourcesWalksRecursivelyAndFiltersExtensions(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "sub"), 0o777); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	seedTextFile(t, root, "a.txt", "a")
	seedTextFile(t, filepath.Join(root, "sub"), "b.md", "b")
	seedTextFile(t, root, "c.bin", "not a source type")

	littDir := store.LittDir(root)
	if err := os.MkdirAll(littDir, 0o777); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	seedTextFile(t, littDir, "d.txt", "must never be discovered")

	sources, err := discoverSources(root)
	if err != nil {
		t.Fatalf("discoverSources: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %v", sources)
	}
	for _, s := range sources {
		if !filepath.IsAbs(s) {
			t.Fatalf("expected absolute source path, got %q", s)
		}
		if strings.Contains(s, store.LittDirName) {
			t.Fatalf("discoverSources must never descend into the litt directory, got %q", s)
		}
	}
}

func TestDiscoverSourcesFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	seedTextFile(t, outside, "linked.txt", "A few miles south of Soledad the river runs deep.")

	if err := os.Symlink(outside, filepath.Join(root, "linked")); err != nil {
		t.Skipf("symlinks unavailable on this platform: %v", err)
	}

	sources, err := discoverSources(root)
	if err != nil {
		t.Fatalf("discoverSources: %v", err)
	}
	if len(sources) != 1 {
		t.Fatalf("expected the symlinked directory's file to be discovered, got %v", sources)
	}
	if filepath.Base(sources[0]) != "linked.txt" {
		t.Fatalf("expected linked.txt, got %q", sources[0])
	}
}

func TestIngestAllIndexesTextAndMarkdownFiles(t *testing.T) {
	root := t.TempDir()
	seedTextFile(t, root, "a.txt", "A few miles south of Soledad the river runs deep.")
	seedTextFile(t, root, "b.md", "# Salinas\n\nThe Salinas Valley is in Northern California.")

	schema := NewSchema()
	bidx := newMemBleveIndex(t, schema)
	checksums := store.ChecksumMap{}

	failed, err := ingestAll(bidx, root, schema, checksums, DefaultWorkerPoolSize)
	if err != nil {
		t.Fatalf("ingestAll: %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("expected no failures, got %+v", failed)
	}
	if len(checksums) != 2 {
		t.Fatalf("expected 2 tracked checksums, got %d", len(checksums))
	}

	ids, err := allDocIDs(bidx)
	if err != nil {
		t.Fatalf("allDocIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 indexed pages, got %d (%v)", len(ids), ids)
	}
}

func TestIngestAllSkipsUnchangedSource(t *testing.T) {
	root := t.TempDir()
	seedTextFile(t, root, "a.txt", "A few miles south of Soledad the river runs deep.")

	schema := NewSchema()
	bidx := newMemBleveIndex(t, schema)
	checksums := store.ChecksumMap{}

	if _, err := ingestAll(bidx, root, schema, checksums, DefaultWorkerPoolSize); err != nil {
		t.Fatalf("first ingestAll: %v", err)
	}
	idsBefore, err := allDocIDs(bidx)
	if err != nil {
		t.Fatalf("allDocIDs: %v", err)
	}

	if _, err := ingestAll(bidx, root, schema, checksums, DefaultWorkerPoolSize); err != nil {
		t.Fatalf("second ingestAll: %v", err)
	}
	idsAfter, err := allDocIDs(bidx)
	if err != nil {
		t.Fatalf("allDocIDs: %v", err)
	}
	if len(idsAfter) != len(idsBefore) {
		t.Fatalf("re-ingesting an unchanged source should not add documents: before=%d after=%d",
			len(idsBefore), len(idsAfter))
	}
}

func TestIngestAllAccumulatesFailureWhenExtractorFails(t *testing.T) {
	root := t.TempDir()
	seedTextFile(t, root, "a.pdf", "not a real pdf, but the extractor never gets to look")

	orig := pdfExtractorCommand
	pdfExtractorCommand = "false"
	defer func() { pdfExtractorCommand = orig }()

	schema := NewSchema()
	bidx := newMemBleveIndex(t, schema)
	checksums := store.ChecksumMap{}

	failed, err := ingestAll(bidx, root, schema, checksums, DefaultWorkerPoolSize)
	if err != nil {
		t.Fatalf("ingestAll: %v", err)
	}
	if len(failed) != 1 {
		t.Fatalf("expected 1 failed document, got %+v", failed)
	}
	if len(checksums) != 0 {
		t.Fatalf("a failed source must not be recorded in the checksum map, got %+v", checksums)
	}
}

func TestIngestAllUnreadableRootReturnsError(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")
	schema := NewSchema()
	bidx := newMemBleveIndex(t, schema)
	checksums := store.ChecksumMap{}

	if _, err := ingestAll(bidx, root, schema, checksums, DefaultWorkerPoolSize); err == nil {
		t.Fatalf("expected an error when documentsRoot does not exist")
	}
}
