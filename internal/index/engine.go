package index

import (
	"github.com/blevesearch/bleve/v2"

	"github.com/georgbuechner/litt/internal/errs"
	"github.com/georgbuechner/litt/internal/logging"
	"github.com/georgbuechner/litt/internal/store"
)

// Writer is the index in its Writing variant: a freshly created, still
// empty library index, waiting for its first AddAllDocuments call.
type Writer struct {
	documentsRoot string
	schema        Schema
	bidx          bleve.Index
	checksums     store.ChecksumMap
	workers       int
}

// Reader is the index in its Reading variant: a committed, searchable
// index that Search, Update, and Reload operate against.
type Reader struct {
	documentsRoot string
	schema        Schema
	bidx          bleve.Index
	failed        []FailedDocument
	workers       int
}

// Create allocates a brand new index rooted at documentsRoot with default
// Options. Fails with a Creation-kind error if a litt directory already
// exists there.
func Create(documentsRoot string) (*Writer, error) {
	return CreateWithOptions(documentsRoot, Options{})
}

// CreateWithOptions is Create with explicit Options (worker pool size).
func CreateWithOptions(documentsRoot string, opts Options) (*Writer, error) {
	if store.Exists(store.LittDir(documentsRoot)) {
		return nil, errs.New(errs.KindCreation, nil, "litt directory already exists at %q", store.LittDir(documentsRoot))
	}
	if err := store.MkDirAll(store.PagesDir(documentsRoot)); err != nil {
		return nil, errs.New(errs.KindCreation, err, "creating page store under %q", documentsRoot)
	}
	schema := NewSchema()
	bidx, err := createBleveIndex(store.IndexDir(documentsRoot), schema)
	if err != nil {
		return nil, errs.New(errs.KindCreation, err, "creating index under %q", documentsRoot)
	}
	logging.Infof("Create: new index at %q", documentsRoot)
	return &Writer{
		documentsRoot: documentsRoot,
		schema:        schema,
		bidx:          bidx,
		checksums:     store.ChecksumMap{},
		workers:       opts.workerPoolSize(),
	}, nil
}

// Open loads an existing index rooted at documentsRoot with default Options.
// Fails with an Open-kind error if no litt directory is found there.
func Open(documentsRoot string) (*Reader, error) {
	return OpenWithOptions(documentsRoot, Options{})
}

// OpenWithOptions is Open with explicit Options (worker pool size).
func OpenWithOptions(documentsRoot string, opts Options) (*Reader, error) {
	if !store.Exists(store.LittDir(documentsRoot)) {
		return nil, errs.New(errs.KindOpen, nil, "no litt directory at %q", store.LittDir(documentsRoot))
	}
	if !bleveIndexExists(store.IndexDir(documentsRoot)) {
		return nil, errs.New(errs.KindOpen, nil, "litt directory at %q has no index segments", store.LittDir(documentsRoot))
	}
	bidx, err := openBleveIndex(store.IndexDir(documentsRoot))
	if err != nil {
		return nil, errs.New(errs.KindOpen, err, "opening index under %q", documentsRoot)
	}
	logging.Infof("Open: opened index at %q", documentsRoot)
	return &Reader{
		documentsRoot: documentsRoot,
		schema:        NewSchema(),
		bidx:          bidx,
		workers:       opts.workerPoolSize(),
	}, nil
}

// Exists reports whether a litt directory already exists at documentsRoot,
// the decision OpenOrCreate's caller makes before choosing Create or Open.
func Exists(documentsRoot string) bool {
	return store.Exists(store.LittDir(documentsRoot))
}

// AddAllDocuments walks documentsRoot, ingests every discovered pdf/md/txt
// source, commits the index, and consumes w: the returned Reader is the
// only way to reach the index afterwards.
func (w *Writer) AddAllDocuments() (*Reader, error) {
	failed, err := ingestAll(w.bidx, w.documentsRoot, w.schema, w.checksums, w.workers)
	if err != nil {
		return nil, errs.New(errs.KindWrite, err, "adding documents under %q", w.documentsRoot)
	}
	if err := w.checksums.Store(store.ChecksumPath(w.documentsRoot)); err != nil {
		return nil, errs.New(errs.KindWrite, err, "persisting checksum map under %q", w.documentsRoot)
	}
	logging.Infof("AddAllDocuments: %d source(s) failed under %q", len(failed), w.documentsRoot)
	return &Reader{
		documentsRoot: w.documentsRoot,
		schema:        w.schema,
		bidx:          w.bidx,
		failed:        failed,
		workers:       w.workers,
	}, nil
}

// Close releases the underlying library index segments.
func (w *Writer) Close() error {
	return w.bidx.Close()
}

// DocumentsRoot returns the documents root this writer is rooted at.
func (w *Writer) DocumentsRoot() string {
	return w.documentsRoot
}

// Update performs an incremental re-ingest against r's existing checksum
// map: unchanged sources are skipped, new or changed sources are
// (re-)ingested.
func (r *Reader) Update() error {
	checksums, err := store.LoadChecksumMap(store.ChecksumPath(r.documentsRoot))
	if err != nil {
		return errs.New(errs.KindUpdate, err, "loading checksum map under %q", r.documentsRoot)
	}
	failed, err := ingestAll(r.bidx, r.documentsRoot, r.schema, checksums, r.workers)
	if err != nil {
		return errs.New(errs.KindUpdate, err, "updating index under %q", r.documentsRoot)
	}
	if err := checksums.Store(store.ChecksumPath(r.documentsRoot)); err != nil {
		return errs.New(errs.KindUpdate, err, "persisting checksum map under %q", r.documentsRoot)
	}
	r.failed = failed
	return nil
}

// Reload discards every document currently in the index, the Page Store,
// and the checksum map, then walks documentsRoot and re-ingests from
// scratch. Wiping the Page Store (rather than letting ingest allocate fresh
// pages/<uuid>/ directories alongside the old ones) keeps reload from
// leaking an orphaned directory per document on every call.
func (r *Reader) Reload() error {
	if err := wipeBleveIndex(r.bidx); err != nil {
		return errs.New(errs.KindReload, err, "wiping index under %q", r.documentsRoot)
	}
	if err := store.RemoveDirectory(store.PagesDir(r.documentsRoot)); err != nil {
		return errs.New(errs.KindReload, err, "removing page store under %q", r.documentsRoot)
	}
	if err := store.MkDirAll(store.PagesDir(r.documentsRoot)); err != nil {
		return errs.New(errs.KindReload, err, "recreating page store under %q", r.documentsRoot)
	}
	if err := store.RemoveChecksumMap(store.ChecksumPath(r.documentsRoot)); err != nil {
		return errs.New(errs.KindReload, err, "removing checksum map under %q", r.documentsRoot)
	}
	checksums := store.ChecksumMap{}
	failed, err := ingestAll(r.bidx, r.documentsRoot, r.schema, checksums, r.workers)
	if err != nil {
		return errs.New(errs.KindReload, err, "reloading index under %q", r.documentsRoot)
	}
	if err := checksums.Store(store.ChecksumPath(r.documentsRoot)); err != nil {
		return errs.New(errs.KindReload, err, "persisting checksum map under %q", r.documentsRoot)
	}
	r.failed = failed
	return nil
}

// FailedDocuments returns the sources that failed during the most recent
// AddAllDocuments, Update, or Reload call.
func (r *Reader) FailedDocuments() []FailedDocument {
	return r.failed
}

// PageIndex loads the Page-Word Index belonging to the page text file at
// pageTextPath.
func (r *Reader) PageIndex(pageTextPath string) (store.PageWordIndex, error) {
	idx, err := store.LoadPageWordIndex(store.PageIndexPath(pageTextPath))
	if err != nil {
		return nil, errs.New(errs.KindRead, err, "loading page-word index for %q", pageTextPath)
	}
	return idx, nil
}

// BleveIndex exposes the underlying bleve index for the query package's
// Evaluator and Snippet Generator to search and resolve hits against.
func (r *Reader) BleveIndex() bleve.Index {
	return r.bidx
}

// Schema returns the schema this index was built with.
func (r *Reader) Schema() Schema {
	return r.schema
}

// DocumentsRoot returns the documents root this index is rooted at.
func (r *Reader) DocumentsRoot() string {
	return r.documentsRoot
}

// Close releases the underlying library index segments.
func (r *Reader) Close() error {
	return r.bidx.Close()
}
