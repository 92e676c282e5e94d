package query

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/georgbuechner/litt/internal/errs"
	"github.com/georgbuechner/litt/internal/store"
)

// previewWindow is the number of grapheme clusters kept on each side of a
// matched span when building a fuzzy-mode preview.
const previewWindow = 20

// noFuzzyPreview is returned in fuzzy mode when no token in the query comes
// within distance of any word in the page.
const noFuzzyPreview = "[fuzzy match] No preview. We're sry."

// noExactPreview is returned in exact mode when the hit carries no body
// highlight to build a preview from (e.g. a hit that matched only on
// title).
const noExactPreview = "[exact match] No preview available."

// GetPreview renders the snippet for hit against q, plus the "matched term"
// an external PDF viewer would use to find the hit on its page: the query's
// first token in exact mode, the accepted surface word in fuzzy mode.
// previewLen bounds the exact-mode preview's length in characters; <= 0
// selects DefaultPreviewLength. Exact mode builds its preview from bleve's
// own highlight of the body field (body isn't stored, so the only other way
// to recover it would be re-reading and re-analyzing the source); fuzzy
// mode re-walks the Page-Word Index and scores every word against every
// query token with Levenshtein distance.
func GetPreview(hit SearchResult, q Query, previewLen int) (string, string, error) {
	if q.fuzzy {
		return fuzzyPreview(hit.path, q)
	}
	if previewLen <= 0 {
		previewLen = DefaultPreviewLength
	}
	return exactPreview(hit, q, previewLen)
}

// exactPreview renders hit's body-field highlight, produced by bleve at
// search time (see evaluator.go's Search), into litt's own preview format:
// highlighted runs wrapped " **...** ", newlines replaced by spaces, cut to
// previewLen characters around the first highlighted run (plus a "..."
// marker on each truncated edge). The matched
// term is the query's first whitespace-separated token, with a leading '"'
// stripped (the form the external PDF viewer's find-on-page argument
// expects).
func exactPreview(hit SearchResult, q Query, previewLen int) (string, string, error) {
	term := firstToken(q.text)
	if hit.bodyFragment == "" {
		return noExactPreview, term, nil
	}
	return renderFragment(hit.bodyFragment, previewLen), term, nil
}

// firstToken returns the first whitespace-separated token of text, with a
// leading '"' stripped.
func firstToken(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimPrefix(fields[0], `"`)
}

// renderFragment turns one of bleve's HTML-style <mark>...</mark> fragments
// into litt's preview format, then trims it to at most previewLen
// characters centered on the first highlighted run, adding "..." on each
// side where text was cut off.
func renderFragment(fragment string, previewLen int) string {
	replacer := strings.NewReplacer(
		"<mark>", " **",
		"</mark>", "** ",
		"\n", " ",
		"\r", " ",
	)
	rendered := strings.Join(strings.Fields(replacer.Replace(fragment)), " ")

	runes := []rune(rendered)
	if len(runes) <= previewLen {
		return rendered
	}
	markAt := strings.Index(rendered, "**")
	center := 0
	if markAt >= 0 {
		center = len([]rune(rendered[:markAt]))
	}
	half := previewLen / 2
	from := center - half
	if from < 0 {
		from = 0
	}
	to := from + previewLen
	if to > len(runes) {
		to = len(runes)
		from = to - previewLen
		if from < 0 {
			from = 0
		}
	}

	var b strings.Builder
	if from > 0 {
		b.WriteString("...")
	}
	b.WriteString(string(runes[from:to]))
	if to < len(runes) {
		b.WriteString("...")
	}
	return b.String()
}

// fuzzyPreview scores every whitespace-separated token in q's text against
// every word recorded in the page's Page-Word Index, using Levenshtein
// distance. A word that merely contains a token as a substring (without
// equalling it, ignoring case) is treated as distance 1 regardless of its
// true edit distance; an equal word keeps distance 0. The best
// (lowest-distance, then earliest) match sets the preview window and is
// returned as the matched term; no match within distance produces
// noFuzzyPreview and an empty matched term.
func fuzzyPreview(pagePath string, q Query) (string, string, error) {
	text, err := store.ReadPage(pagePath)
	if err != nil {
		return "", "", errs.New(errs.KindRead, err, "reading page %q for preview", pagePath)
	}
	wordIdx, err := store.LoadPageWordIndex(store.PageIndexPath(pagePath))
	if err != nil {
		return "", "", errs.New(errs.KindRead, err, "loading page-word index for %q", pagePath)
	}

	tokens := strings.Fields(q.text)
	type candidate struct {
		dist       int
		word       string
		start, end int
	}
	var best *candidate
	for _, token := range tokens {
		for word, positions := range wordIdx {
			dist := levenshtein.ComputeDistance(strings.ToLower(token), strings.ToLower(word))
			if dist > 0 && strings.Contains(strings.ToLower(word), strings.ToLower(token)) {
				dist = 1
			}
			if dist > q.distance {
				continue
			}
			for _, pos := range positions {
				if best == nil || dist < best.dist || (dist == best.dist && pos.Start < best.start) {
					best = &candidate{dist: dist, word: word, start: pos.Start, end: pos.End}
				}
			}
		}
	}
	if best == nil {
		return noFuzzyPreview, "", nil
	}

	clusters := store.Graphemes(text)
	return windowedSnippet(clusters, best.start, best.end), best.word, nil
}

// windowedSnippet renders a preview of clusters[startG:endG], padded by
// previewWindow clusters on each side, with the match wrapped in "**...**"
// and an ellipsis marking truncation at either edge.
func windowedSnippet(clusters []string, startG, endG int) string {
	from := startG - previewWindow
	if from < 0 {
		from = 0
	}
	to := endG + previewWindow
	if to > len(clusters) {
		to = len(clusters)
	}

	var b strings.Builder
	if from > 0 {
		b.WriteString("...")
	}
	b.WriteString(joinClean(clusters[from:startG]))
	b.WriteString("**")
	b.WriteString(joinClean(clusters[startG:endG]))
	b.WriteString("**")
	b.WriteString(joinClean(clusters[endG:to]))
	if to < len(clusters) {
		b.WriteString("...")
	}
	return b.String()
}

// joinClean concatenates clusters, collapsing newlines to spaces so a
// preview never spans visual lines.
func joinClean(clusters []string) string {
	var b strings.Builder
	for _, c := range clusters {
		if c == "\n" || c == "\r\n" || c == "\r" {
			b.WriteString(" ")
			continue
		}
		b.WriteString(c)
	}
	return b.String()
}
