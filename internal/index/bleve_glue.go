package index

import (
	"fmt"
	"os"

	"github.com/blevesearch/bleve/v2"

	"github.com/georgbuechner/litt/internal/logging"
	"github.com/georgbuechner/litt/internal/store"
)

// createBleveIndex creates a fresh scorch-backed bleve index at indexPath
// using schema's mapping. Always persists to disk; litt has no
// in-memory-only mode.
func createBleveIndex(indexPath string, schema Schema) (bleve.Index, error) {
	idx, err := bleve.NewUsing(indexPath, schema.Mapping(), bleve.Config.DefaultIndexType, bleve.Config.DefaultKVStore, nil)
	if err != nil {
		logging.Errorf("createBleveIndex: bleve.NewUsing failed. indexPath=%q err=%v", indexPath, err)
		return nil, err
	}
	return idx, nil
}

// openBleveIndex opens an existing bleve index at indexPath.
func openBleveIndex(indexPath string) (bleve.Index, error) {
	idx, err := bleve.Open(indexPath)
	if err != nil {
		logging.Errorf("openBleveIndex: bleve.Open failed. indexPath=%q err=%v", indexPath, err)
		return nil, err
	}
	return idx, nil
}

// bleveIndexExists returns true if a bleve index appears to already live at
// indexPath, by checking for its index_meta.json.
func bleveIndexExists(indexPath string) bool {
	return store.Exists(indexPath) && store.Exists(indexPath+string(os.PathSeparator)+"index_meta.json")
}

// wipeBleveIndex removes all documents from idx without closing it, used by
// Reload. bleve has no native "delete all", so it enumerates every document
// ID and batch-deletes them.
func wipeBleveIndex(idx bleve.Index) error {
	ids, err := allDocIDs(idx)
	if err != nil {
		return fmt.Errorf("listing documents to wipe: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	batch := idx.NewBatch()
	for _, id := range ids {
		batch.Delete(id)
	}
	return idx.Batch(batch)
}

// allDocIDs returns every document ID currently stored in idx.
func allDocIDs(idx bleve.Index) ([]string, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchAllQuery())
	req.Fields = nil
	req.Size = 1 << 30
	res, err := idx.Search(req)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
