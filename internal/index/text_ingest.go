package index

import (
	"os"

	"github.com/georgbuechner/litt/internal/store"
)

// ingestText treats src as a single page: its full contents, copied
// verbatim into the Page Store. Markdown is indexed as plain text, its
// syntax is not stripped.
func ingestText(src, docDir string) ([]ingestedPage, error) {
	text, err := os.ReadFile(src)
	if err != nil {
		return nil, err
	}
	path, err := store.WritePage(docDir, 1, string(text))
	if err != nil {
		return nil, err
	}
	return []ingestedPage{{number: 1, path: path, text: string(text)}}, nil
}
