package index

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/georgbuechner/litt/internal/errs"
	"github.com/georgbuechner/litt/internal/logging"
	"github.com/georgbuechner/litt/internal/store"
)

// FailedDocument records one source file that ingest could not process. The
// per-file list of failures accumulates rather than aborting the whole run.
type FailedDocument struct {
	Path string
	Err  error
}

// sourcePatterns are the glob patterns a directory entry's base name must
// match, case-sensitively, to be collected by discoverSources.
var sourcePatterns = []string{"*.pdf", "*.md", "*.txt"}

// discoverSources walks documentsRoot recursively, following symlinks, and
// returns every regular file whose base name matches sourcePatterns. The
// litt directory itself is never descended into, so an index never tries to
// ingest its own index segments, page store, or checksum map.
func discoverSources(documentsRoot string) ([]string, error) {
	littDir := store.LittDir(documentsRoot)

	var out []string
	var walk func(dir string) error
	walk = func(dir string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("reading directory %q: %w", dir, err)
		}
		for _, e := range entries {
			full := filepath.Join(dir, e.Name())
			if full == littDir {
				continue
			}
			// os.Stat follows symlinks, unlike os.Lstat (what ReadDir's
			// DirEntry reflects) or fs.WalkDir's own internal traversal.
			info, err := os.Stat(full)
			if err != nil {
				logging.Errorf("discoverSources: stat failed. path=%q err=%v", full, err)
				continue
			}
			if info.IsDir() {
				if err := walk(full); err != nil {
					return err
				}
				continue
			}
			if !info.Mode().IsRegular() {
				continue
			}
			if matchesSource(e.Name()) {
				out = append(out, full)
			}
		}
		return nil
	}
	if err := walk(documentsRoot); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

// matchesSource reports whether name matches one of sourcePatterns,
// case-sensitively: pdf/md/txt in upper or mixed case are not recognised.
func matchesSource(name string) bool {
	for _, pattern := range sourcePatterns {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// ingestAll walks documentsRoot, ingests every discovered file whose
// Checksum Map entry is missing or stale, and leaves checksums holding an
// up-to-date entry for every successfully ingested file. Shared by
// Writer.AddAllDocuments (fresh, empty checksums) and Reader.Update (loaded
// checksums, most files skipped). workers bounds the ingest worker pool.
func ingestAll(bidx bleve.Index, documentsRoot string, schema Schema, checksums store.ChecksumMap, workers int) ([]FailedDocument, error) {
	sources, err := discoverSources(documentsRoot)
	if err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		failed []FailedDocument
	)
	g := new(errgroup.Group)
	g.SetLimit(workers)

	for _, src := range sources {
		src := src
		g.Go(func() error {
			cur, statErr := store.ChecksumOf(src)
			if statErr != nil {
				logging.Errorf("ingestAll: stat failed. src=%q err=%v", src, statErr)
				mu.Lock()
				failed = append(failed, FailedDocument{Path: src, Err: statErr})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			prev, known := checksums[src]
			mu.Unlock()
			if known && prev.Equals(cur) {
				return nil
			}

			title, terr := filepath.Rel(documentsRoot, src)
			if terr != nil {
				title = src
			}

			if err := ingestOne(bidx, documentsRoot, schema, src, title); err != nil {
				logging.Errorf("ingestAll: ingest failed. src=%q err=%v", src, err)
				mu.Lock()
				failed = append(failed, FailedDocument{Path: src, Err: err})
				mu.Unlock()
				return nil
			}

			mu.Lock()
			checksums[src] = cur
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return failed, nil
}

// ingestOne dispatches a single source file to the PDF or text/markdown
// ingestor by extension, writing every resulting page into the Page Store
// and indexing it into bidx.
func ingestOne(bidx bleve.Index, documentsRoot string, schema Schema, src, title string) error {
	docDir, err := store.DocDir(documentsRoot)
	if err != nil {
		return errs.New(errs.KindWrite, err, "allocating page directory for %q", src)
	}

	var pages []ingestedPage
	switch strings.ToLower(filepath.Ext(src)) {
	case ".pdf":
		pages, err = ingestPDF(src, docDir)
		if err != nil {
			return errs.New(errs.KindPdfParse, err, "extracting pages from %q", src)
		}
	case ".txt", ".md", ".markdown":
		pages, err = ingestText(src, docDir)
		if err != nil {
			return errs.New(errs.KindTxtParse, err, "reading %q", src)
		}
	default:
		return errs.New(errs.KindTxtParse, nil, "unsupported source extension for %q", src)
	}

	batch := bidx.NewBatch()
	for _, p := range pages {
		wordIdx := store.BuildPageWordIndex(p.text)
		if err := store.SavePageWordIndex(store.PageIndexPath(p.path), wordIdx); err != nil {
			return errs.New(errs.KindWrite, err, "persisting page-word index for %q page %d", src, p.number)
		}
		doc := NewPageDocument(title, p.path, uint64(p.number), p.text)
		docID := fmt.Sprintf("%s#%d", p.path, p.number)
		if err := batch.Index(docID, doc); err != nil {
			return errs.New(errs.KindWrite, err, "staging page %d of %q", p.number, src)
		}
	}
	if batch.Size() == 0 {
		return nil
	}
	if err := bidx.Batch(batch); err != nil {
		return errs.New(errs.KindWrite, err, "committing pages for %q", src)
	}
	return nil
}

// ingestedPage is one page produced by a document ingestor, ready to be
// written into the Page Store and indexed.
type ingestedPage struct {
	number int
	path   string
	text   string
}
