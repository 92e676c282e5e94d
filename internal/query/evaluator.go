package query

import (
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
	bquery "github.com/blevesearch/bleve/v2/search/query"

	"github.com/georgbuechner/litt/internal/errs"
	"github.com/georgbuechner/litt/internal/index"
)

// SearchResult is one page hit. SegmentOrd is the hit's position in the
// search response and DocID the library's document ID; both are opaque to
// callers. GetPreview uses neither: it works from the hit's page path and
// body highlight, which the search already captured.
type SearchResult struct {
	Page       uint64
	Score      float64
	SegmentOrd uint64
	DocID      string

	title        string
	path         string
	bodyFragment string // bleve's own body-field highlight, exact mode only
}

// Title is the source document this hit belongs to (relative to the
// documents root).
func (r SearchResult) Title() string { return r.title }

// Path is the absolute path of the page text file this hit resolved to.
func (r SearchResult) Path() string { return r.path }

// TitleHits groups the hits for one title in score-descending order.
type TitleHits struct {
	Title string
	Hits  []SearchResult
}

// Results is the ordered {title -> hits} result of a search: titles appear
// in the order their best-scoring hit was first seen, and hits within a
// title preserve that same score order.
type Results []TitleHits

// Get returns the hits for title, or nil if title has no hits.
func (rs Results) Get(title string) []SearchResult {
	for _, th := range rs {
		if th.Title == title {
			return th.Hits
		}
	}
	return nil
}

// Search runs q against bidx using schema's default fields, returning
// results grouped by title, windowed by offset/limit.
func Search(bidx bleve.Index, schema index.Schema, q Query, offset, limit int) (Results, error) {
	var bq bquery.Query
	if q.fuzzy {
		bq = fuzzyQuery(q.text, q.distance)
	} else {
		sq := bleve.NewQueryStringQuery(q.text)
		bq = sq
	}

	req := bleve.NewSearchRequest(bq)
	req.From = offset
	req.Size = limit
	req.Fields = []string{index.FieldTitle, index.FieldPath, index.FieldPage}
	// body isn't stored (see index.NewSchema), so GetPreview can't read it
	// back from the hit; bleve's own highlighter re-derives a marked-up
	// fragment from the term vectors it already built at index time.
	req.Highlight = bleve.NewHighlight()
	req.Highlight.Fields = []string{index.FieldBody}

	res, err := bidx.Search(req)
	if err != nil {
		return nil, errs.New(errs.KindRead, err, "searching for %q", q.text)
	}

	var order []string
	byTitle := map[string][]SearchResult{}
	for i, hit := range res.Hits {
		sr := hitToResult(hit, uint64(i))
		if _, ok := byTitle[sr.title]; !ok {
			order = append(order, sr.title)
		}
		byTitle[sr.title] = append(byTitle[sr.title], sr)
	}

	out := make(Results, 0, len(order))
	for _, t := range order {
		out = append(out, TitleHits{Title: t, Hits: byTitle[t]})
	}
	return out, nil
}

// fuzzyQuery builds a disjunction of per-token FuzzyQuery clauses over body,
// one per whitespace-separated token in text. The same per-token split is
// used when rendering previews, so a hit and its preview always agree on
// what the query's tokens were.
func fuzzyQuery(text string, distance int) bquery.Query {
	tokens := strings.Fields(text)
	clauses := make([]bquery.Query, 0, len(tokens))
	for _, t := range tokens {
		fq := bquery.NewFuzzyQuery(t)
		fq.SetField(index.FieldBody)
		fq.SetFuzziness(distance)
		clauses = append(clauses, fq)
	}
	return bquery.NewDisjunctionQuery(clauses)
}

func hitToResult(hit *search.DocumentMatch, ord uint64) SearchResult {
	sr := SearchResult{
		Score:      hit.Score,
		SegmentOrd: ord,
		DocID:      hit.ID,
	}
	if v, ok := hit.Fields[index.FieldTitle].(string); ok {
		sr.title = v
	}
	if v, ok := hit.Fields[index.FieldPath].(string); ok {
		sr.path = v
	}
	if v, ok := hit.Fields[index.FieldPage].(float64); ok {
		sr.Page = uint64(v)
	}
	if frags := hit.Fragments[index.FieldBody]; len(frags) > 0 {
		sr.bodyFragment = frags[0]
	}
	return sr
}
