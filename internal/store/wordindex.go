package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// WordPosition is the grapheme-cluster offset span of one occurrence of a
// surface word in a page body. Offsets are grapheme-cluster indices, never
// bytes or code points, so previews built from them never slice mid-cluster.
type WordPosition struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// PageWordIndex is the {surface word -> [(start, end), ...]} map built
// during ingest from a page's body and persisted alongside the page file.
// Multiple occurrences of the same word accumulate positions in insertion
// (left-to-right) order.
type PageWordIndex map[string][]WordPosition

// BuildPageWordIndex constructs the Page-Word Index for page body by
// iterating its grapheme clusters, accumulating maximal runs of alphanumeric
// clusters into words, and recording each word's [start, end) span.
func BuildPageWordIndex(body string) PageWordIndex {
	idx := PageWordIndex{}

	gr := uniseg.NewGraphemes(body)
	var clusters []string
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}

	var word strings.Builder
	wordStart := -1
	flush := func(end int) {
		if word.Len() == 0 {
			return
		}
		w := word.String()
		idx[w] = append(idx[w], WordPosition{Start: wordStart, End: end})
		word.Reset()
		wordStart = -1
	}
	for i, cluster := range clusters {
		if isAlphanumericCluster(cluster) {
			if wordStart < 0 {
				wordStart = i
			}
			word.WriteString(cluster)
			continue
		}
		flush(i)
	}
	flush(len(clusters))
	return idx
}

// isAlphanumericCluster returns true if a grapheme cluster's base rune (the
// first code point; any further code points are combining marks modifying
// it) is a letter or digit, i.e. the cluster can be part of a word (a
// maximal run of alphanumeric grapheme clusters). A combining mark alone
// never makes a cluster alphanumeric, but it never breaks one either: "e" +
// U+0301 is one word-forming cluster, not a boundary.
func isAlphanumericCluster(cluster string) bool {
	if cluster == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(cluster)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Graphemes splits text into its grapheme-cluster sequence, exposed so the
// Snippet Generator can re-derive the same g[0..n] sequence BuildPageWordIndex
// used when it needs to slice a preview by grapheme offsets.
func Graphemes(text string) []string {
	gr := uniseg.NewGraphemes(text)
	var clusters []string
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	return clusters
}

// PageIndexPath returns the on-disk path of the page-word index belonging to
// the page text file at pagePath: the same path with its extension replaced
// by .pageindex.
func PageIndexPath(pagePath string) string {
	ext := ".pageinfo"
	if strings.HasSuffix(pagePath, ext) {
		return strings.TrimSuffix(pagePath, ext) + ".pageindex"
	}
	return pagePath + ".pageindex"
}

// SavePageWordIndex persists idx as JSON at path.
func SavePageWordIndex(path string, idx PageWordIndex) error {
	b, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encoding page-word index: %w", err)
	}
	return os.WriteFile(path, b, 0o666)
}

// LoadPageWordIndex deserialises the page-word index at path.
func LoadPageWordIndex(path string) (PageWordIndex, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading page-word index %q: %w", path, err)
	}
	var idx PageWordIndex
	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, fmt.Errorf("decoding page-word index %q: %w", path, err)
	}
	return idx, nil
}
