package store

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const bodyOfMiceAndMen = "A few miles south of Soledad, the Salinas River drops in close to the hillside " +
	"bank and runs deep and green."

func TestBuildPageWordIndexFindsWords(t *testing.T) {
	idx := BuildPageWordIndex(bodyOfMiceAndMen)

	positions, ok := idx["Soledad"]
	if !ok {
		t.Fatalf("expected \"Soledad\" in page-word index, got keys %v", keysOf(idx))
	}
	if len(positions) != 1 {
		t.Fatalf("expected exactly one occurrence of \"Soledad\", got %d", len(positions))
	}

	clusters := Graphemes(bodyOfMiceAndMen)
	got := clusters[positions[0].Start:positions[0].End]
	if joinRunes(got) != "Soledad" {
		t.Fatalf("span %v does not cover \"Soledad\", got %q", positions[0], joinRunes(got))
	}

	if _, ok := idx["River"]; !ok {
		t.Fatalf("expected \"River\" in page-word index, got keys %v", keysOf(idx))
	}
	if _, ok := idx[","]; ok {
		t.Fatalf("punctuation must not appear as a word in the page-word index")
	}
}

func TestBuildPageWordIndexRepeatedWordAccumulatesPositions(t *testing.T) {
	idx := BuildPageWordIndex("the cat sat on the mat near the door")
	positions := idx["the"]
	if len(positions) != 3 {
		t.Fatalf("expected 3 occurrences of \"the\", got %d: %v", len(positions), positions)
	}
	for i := 1; i < len(positions); i++ {
		if positions[i].Start <= positions[i-1].Start {
			t.Fatalf("positions must be in left-to-right insertion order, got %v", positions)
		}
	}
}

func TestBuildPageWordIndexHandlesMultiByteGraphemes(t *testing.T) {
	// The accented character here is a combining sequence (base letter +
	// U+0301 combining acute accent): one grapheme cluster, two code
	// points. A byte- or rune-based word scanner could split it mid-
	// cluster; a grapheme-based one must not.
	text := "caf" + "e\u0301" + " terrace"
	idx := BuildPageWordIndex(text)
	if _, ok := idx["terrace"]; !ok {
		t.Fatalf("expected %q in page-word index, got keys %v", "terrace", keysOf(idx))
	}
	for word := range idx {
		if word == "terrace" {
			continue
		}
		if len([]rune(word)) < 3 {
			t.Fatalf("unexpected short word %q: combining mark likely split into its own word", word)
		}
	}
}

func TestPageWordIndexSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "1.pageinfo")

	want := BuildPageWordIndex(bodyOfMiceAndMen)
	idxPath := PageIndexPath(path)
	if err := SavePageWordIndex(idxPath, want); err != nil {
		t.Fatalf("SavePageWordIndex: %v", err)
	}

	got, err := LoadPageWordIndex(idxPath)
	if err != nil {
		t.Fatalf("LoadPageWordIndex: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("page-word index round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPageIndexPathReplacesExtension(t *testing.T) {
	got := PageIndexPath("/litt/pages/abc/3.pageinfo")
	want := "/litt/pages/abc/3.pageindex"
	if got != want {
		t.Fatalf("PageIndexPath = %q, want %q", got, want)
	}
}

func keysOf(idx PageWordIndex) []string {
	var ks []string
	for k := range idx {
		ks = append(ks, k)
	}
	return ks
}

func joinRunes(clusters []string) string {
	var s string
	for _, c := range clusters {
		s += c
	}
	return s
}
