// Package litt is a local-disk literature search engine: it indexes PDF,
// text, and Markdown documents page by page and answers exact or fuzzy
// full-text queries with highlighted preview snippets, with no server and
// no network calls.
package litt

import (
	"fmt"
	"sync"

	"github.com/georgbuechner/litt/internal/errs"
	"github.com/georgbuechner/litt/internal/index"
	"github.com/georgbuechner/litt/internal/query"
)

// State is which variant of the index state machine an Index currently is:
// either Writing (freshly created, not yet searchable) or Reading
// (committed, searchable, updatable, reloadable).
type State int

const (
	StateWriting State = iota
	StateReading
)

func (s State) String() string {
	if s == StateWriting {
		return "writing"
	}
	return "reading"
}

// Query, Exact, Fuzzy, and SearchResult/Results are re-exported from
// internal/query so callers never need to import an internal package.
type (
	Query        = query.Query
	SearchResult = query.SearchResult
	Results      = query.Results
	TitleHits    = query.TitleHits
)

// Exact builds a Query parsed with the library's own query-string syntax
// (boolean operators, phrases, proximity, wildcards) against title and
// body.
func Exact(text string) Query { return query.Exact(text) }

// Fuzzy builds a Query that matches each whitespace-separated token in text
// against page bodies within the given maximum edit distance.
func Fuzzy(text string, distance int) Query { return query.Fuzzy(text, distance) }

// FailedDocument records one source file ingest could not process, paired
// with the error that stopped it.
type FailedDocument = index.FailedDocument

// EngineOptions configures the tunables litt has sensible defaults for but
// lets a caller override: the ingest worker pool size, the exact-mode
// preview's maximum length, and the distance a caller's own fuzzy-search UI
// may want to default to. The zero value is valid: a zero WorkerPoolSize or
// PreviewLength selects its default, while DefaultFuzzyDistance is kept as
// given (litt itself never reads it; Options returns it to the caller).
type EngineOptions struct {
	WorkerPoolSize       int
	PreviewLength        int
	DefaultFuzzyDistance int
}

// DefaultEngineOptions returns the EngineOptions litt uses when a caller
// doesn't specify its own.
func DefaultEngineOptions() EngineOptions {
	return EngineOptions{
		WorkerPoolSize:       index.DefaultWorkerPoolSize,
		PreviewLength:        query.DefaultPreviewLength,
		DefaultFuzzyDistance: query.DefaultFuzzyDistance,
	}
}

func (o EngineOptions) indexOptions() index.Options {
	return index.Options{WorkerPoolSize: o.WorkerPoolSize}
}

// Index is a litt index: a sum of the Writing and Reading states.
// Operations valid only in one state return a State-kind Error when called
// in the other, and never mutate anything in that case. FailedDocuments has
// no error result: in the Writing state it returns nil.
type Index struct {
	mu   sync.Mutex
	w    *index.Writer
	r    *index.Reader
	opts EngineOptions
}

// Create allocates a brand new, empty index rooted at documentsRoot, in the
// Writing state, with default EngineOptions.
func Create(documentsRoot string) (*Index, error) {
	return CreateWithOptions(documentsRoot, DefaultEngineOptions())
}

// CreateWithOptions is Create with explicit EngineOptions.
func CreateWithOptions(documentsRoot string, opts EngineOptions) (*Index, error) {
	w, err := index.CreateWithOptions(documentsRoot, opts.indexOptions())
	if err != nil {
		return nil, err
	}
	return &Index{w: w, opts: opts}, nil
}

// Open loads an existing index rooted at documentsRoot, in the Reading
// state, with default EngineOptions.
func Open(documentsRoot string) (*Index, error) {
	return OpenWithOptions(documentsRoot, DefaultEngineOptions())
}

// OpenWithOptions is Open with explicit EngineOptions.
func OpenWithOptions(documentsRoot string, opts EngineOptions) (*Index, error) {
	r, err := index.OpenWithOptions(documentsRoot, opts.indexOptions())
	if err != nil {
		return nil, err
	}
	return &Index{r: r, opts: opts}, nil
}

// OpenOrCreate opens the index at documentsRoot if one already exists,
// otherwise creates a new one, with default EngineOptions. The caller must
// inspect State() to find out which happened: Writing means a fresh index
// that still needs AddAllDocuments, Reading means an index already ready to
// search.
func OpenOrCreate(documentsRoot string) (*Index, error) {
	return OpenOrCreateWithOptions(documentsRoot, DefaultEngineOptions())
}

// OpenOrCreateWithOptions is OpenOrCreate with explicit EngineOptions.
func OpenOrCreateWithOptions(documentsRoot string, opts EngineOptions) (*Index, error) {
	if index.Exists(documentsRoot) {
		return OpenWithOptions(documentsRoot, opts)
	}
	return CreateWithOptions(documentsRoot, opts)
}

// Options returns the EngineOptions ix was opened or created with.
func (ix *Index) Options() EngineOptions {
	return ix.opts
}

// State reports which variant of the index state machine ix is currently
// in.
func (ix *Index) State() State {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.w != nil {
		return StateWriting
	}
	return StateReading
}

func stateErr(want string) error {
	return errs.New(errs.KindState, nil, "index is not in the %s state", want)
}

// AddAllDocuments walks the index's documents root, ingests every pdf/md/txt
// source it finds, commits the index, and transitions ix from Writing to
// Reading. Valid only in the Writing state.
func (ix *Index) AddAllDocuments() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.w == nil {
		return stateErr("writing")
	}
	r, err := ix.w.AddAllDocuments()
	if err != nil {
		return err
	}
	ix.w = nil
	ix.r = r
	return nil
}

// Update performs an incremental re-ingest: sources unchanged since the
// last ingest (by the checksum map) are skipped, new or changed sources are
// (re-)indexed. Valid only in the Reading state.
func (ix *Index) Update() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.r == nil {
		return stateErr("reading")
	}
	return ix.r.Update()
}

// Reload discards every indexed document and the checksum map, then
// re-walks the documents root and re-ingests from scratch. Valid only in
// the Reading state.
func (ix *Index) Reload() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.r == nil {
		return stateErr("reading")
	}
	return ix.r.Reload()
}

// FailedDocuments returns the sources that failed during the most recent
// AddAllDocuments, Update, or Reload call. In the Writing state it returns
// nil, not a State-kind error.
func (ix *Index) FailedDocuments() []FailedDocument {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.r == nil {
		return nil
	}
	return ix.r.FailedDocuments()
}

// Search runs q against ix, returning hits grouped by title. Valid only in
// the Reading state.
func (ix *Index) Search(q Query, offset, limit int) (Results, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.r == nil {
		return nil, stateErr("reading")
	}
	return query.Search(ix.r.BleveIndex(), ix.r.Schema(), q, offset, limit)
}

// GetPreview renders the highlighted snippet for hit against the query that
// produced it, plus the matched term an external PDF viewer would use as a
// find-on-page argument. Valid only in the Reading state.
func (ix *Index) GetPreview(hit SearchResult, q Query) (preview, matchedTerm string, err error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.r == nil {
		return "", "", stateErr("reading")
	}
	return query.GetPreview(hit, q, ix.opts.PreviewLength)
}

// Close releases the index's underlying library index segments.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.w != nil {
		return ix.w.Close()
	}
	if ix.r != nil {
		return ix.r.Close()
	}
	return nil
}

// String renders a short diagnostic description of ix.
func (ix *Index) String() string {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.w != nil {
		return fmt.Sprintf("litt.Index{state: writing, documentsRoot: %q}", ix.w.DocumentsRoot())
	}
	return fmt.Sprintf("litt.Index{state: reading, documentsRoot: %q, failed: %d}",
		ix.r.DocumentsRoot(), len(ix.r.FailedDocuments()))
}
