package index

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/georgbuechner/litt/internal/logging"
	"github.com/georgbuechner/litt/internal/store"
)

// pdfExtractorCommand is the external text-extraction collaborator litt
// deliberately does not re-implement: a poppler-utils-style pdftotext
// binary invoked once per page as "<cmd> -f K -l K -layout <source>
// <output>". Overridable for tests.
var pdfExtractorCommand = "pdftotext"

// ingestPDF extracts one page at a time from src into docDir until the
// extractor exits non-zero, treated as "no such page" — the only way litt
// learns a PDF's page count, since it never parses the PDF structure
// itself. A non-zero exit on page 1 is returned as an error instead.
func ingestPDF(src, docDir string) ([]ingestedPage, error) {
	var pages []ingestedPage
	for page := 1; ; page++ {
		tmp, err := os.CreateTemp("", "litt-pdf-page-*.txt")
		if err != nil {
			return nil, fmt.Errorf("allocating extractor scratch file: %w", err)
		}
		tmpPath := tmp.Name()
		tmp.Close()
		defer os.Remove(tmpPath)

		cmd := exec.Command(pdfExtractorCommand,
			"-f", strconv.Itoa(page), "-l", strconv.Itoa(page), "-layout",
			src, tmpPath)
		if err := cmd.Run(); err != nil {
			if page == 1 {
				return nil, fmt.Errorf("extracting page 1 of %q: %w", src, err)
			}
			logging.Debugf("ingestPDF: extractor stopped at page %d of %q: %v", page, src, err)
			break
		}

		text, err := os.ReadFile(tmpPath)
		if err != nil {
			return nil, fmt.Errorf("reading extracted page %d of %q: %w", page, src, err)
		}

		path, err := store.WritePage(docDir, page, string(text))
		if err != nil {
			return nil, err
		}
		pages = append(pages, ingestedPage{number: page, path: path, text: string(text)})
	}
	return pages, nil
}
