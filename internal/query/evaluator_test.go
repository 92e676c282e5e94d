package query

import (
	"testing"

	"github.com/blevesearch/bleve/v2"

	"github.com/georgbuechner/litt/internal/index"
)

func newTestIndex(t *testing.T) (bleve.Index, index.Schema) {
	t.Helper()
	schema := index.NewSchema()
	bidx, err := bleve.NewMemOnly(schema.Mapping())
	if err != nil {
		t.Fatalf("bleve.NewMemOnly: %v", err)
	}
	t.Cleanup(func() { bidx.Close() })

	docs := []index.PageDocument{
		index.NewPageDocument("Of Mice and Men", "/litt/pages/1/1.pageinfo", 1, bodyOfMiceAndMen),
		index.NewPageDocument("Of Mice and Men", "/litt/pages/1/2.pageinfo", 2,
			"On one side of the river the golden foothill slopes curve up to the strong and rocky "+
				"Gabilan Mountains, but on the valley side the water is lined with trees."),
		index.NewPageDocument("East of Eden", "/litt/pages/2/1.pageinfo", 1,
			"The Salinas Valley is in Northern California."),
	}
	for i, d := range docs {
		if err := bidx.Index(docID(i), d); err != nil {
			t.Fatalf("Index: %v", err)
		}
	}
	return bidx, schema
}

func docID(i int) string {
	return []string{"p1-1", "p1-2", "p2-1"}[i]
}

func TestSearchExactGroupsByTitle(t *testing.T) {
	bidx, schema := newTestIndex(t)

	results, err := Search(bidx, schema, Exact("Salinas"), 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected hits under 2 titles, got %d: %+v", len(results), results)
	}

	var sawOfMice, sawEden bool
	for _, th := range results {
		switch th.Title {
		case "Of Mice and Men":
			sawOfMice = true
			if len(th.Hits) != 1 {
				t.Fatalf("expected 1 hit for Of Mice and Men, got %d", len(th.Hits))
			}
		case "East of Eden":
			sawEden = true
		default:
			t.Fatalf("unexpected title %q", th.Title)
		}
	}
	if !sawOfMice || !sawEden {
		t.Fatalf("expected hits from both titles, got %+v", results)
	}
}

func TestSearchExactBooleanAnd(t *testing.T) {
	bidx, schema := newTestIndex(t)

	results, err := Search(bidx, schema, Exact("river AND rocky"), 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Of Mice and Men" {
		t.Fatalf("expected a single hit in Of Mice and Men, got %+v", results)
	}
}

func TestSearchFuzzyMatchesMisspelling(t *testing.T) {
	bidx, schema := newTestIndex(t)

	results, err := Search(bidx, schema, Fuzzy("Soledud", 2), 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Of Mice and Men" {
		t.Fatalf("expected fuzzy match in Of Mice and Men, got %+v", results)
	}
}

func TestSearchNoMatchesReturnsEmptyResults(t *testing.T) {
	bidx, schema := newTestIndex(t)

	results, err := Search(bidx, schema, Exact("xyzzyplugh"), 0, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %+v", results)
	}
}

func TestResultsGetReturnsNilForUnknownTitle(t *testing.T) {
	var rs Results
	if got := rs.Get("nope"); got != nil {
		t.Fatalf("Get on empty Results = %v, want nil", got)
	}
}
