package rag

import (
	"sort"
	"strings"
	"unicode"
)

// Term weights: literal query terms count double relative to terms pulled in
// via the synonym table.
const (
	directTermWeight    = 2.0
	expansionTermWeight = 1.0
)

// Term is a scoring unit: a lowercase search term with its weight.
type Term struct {
	Text   string
	Weight float64
}

// synonymTable is the fixed domain vocabulary expansion. It is static lookup
// data constructed once and shared by reference; it is never mutated.
var synonymTable = map[string][]string{
	"missing":   {"incomplete", "required", "needed", "outstanding"},
	"risk":      {"exposure", "audit", "flag", "concern"},
	"income":    {"revenue", "earnings", "receipts", "profit"},
	"deduction": {"expense", "write-off", "depreciation"},
	"credit":    {"incentive", "offset"},
	"document":  {"form", "statement", "schedule", "record"},
	"review":    {"check", "verify", "examine"},
	"summary":   {"overview", "recap"},
	"deadline":  {"due", "filing", "extension"},
	"foreign":   {"international", "overseas", "subsidiary"},
	"client":    {"taxpayer", "company", "corporation"},
}

// QueryTerms tokenizes a query by whitespace, lowercases it and expands it
// with the domain synonym table. Expansion applies on exact and substring
// matches between a query token and a table key. Duplicates keep the first
// (highest-weight) occurrence.
func QueryTerms(query string) []Term {
	fields := strings.Fields(strings.ToLower(query))
	seen := make(map[string]bool)
	var terms []Term

	add := func(text string, weight float64) {
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		terms = append(terms, Term{Text: text, Weight: weight})
	}

	for _, f := range fields {
		add(trimToken(f), directTermWeight)
	}
	for _, f := range fields {
		tok := trimToken(f)
		if tok == "" {
			continue
		}
		for key, syns := range synonymTable {
			if tok == key || strings.Contains(tok, key) || strings.Contains(key, tok) {
				for _, s := range syns {
					add(s, expansionTermWeight)
				}
			}
		}
	}
	return terms
}

func trimToken(tok string) string {
	return strings.TrimFunc(tok, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Score computes the weighted term-frequency relevance of text against terms,
// normalized by the text's word count. Whole-word occurrences count double
// against partial substring occurrences. Empty text or an empty term set
// scores 0. This is a deliberately lexical scorer; the narrow contract lets a
// semantic scorer be substituted without touching retrieval or assembly.
func Score(text string, terms []Term) float64 {
	if text == "" || len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	words := strings.Fields(lower)
	if len(words) == 0 {
		return 0
	}

	var raw float64
	for _, t := range terms {
		if t.Text == "" {
			continue
		}
		total := strings.Count(lower, t.Text)
		if total == 0 {
			continue
		}
		exact := 0
		for _, w := range words {
			if trimToken(w) == t.Text {
				exact++
			}
		}
		partial := total - exact
		if partial < 0 {
			partial = 0
		}
		raw += t.Weight * (2*float64(exact) + float64(partial))
	}
	return raw / float64(len(words))
}

// KeyTermContexts extracts the windows of text surrounding each term match,
// radius bytes to either side, with ellipsis markers where a window was cut.
// Windows are de-duplicated and returned in order of first appearance.
func KeyTermContexts(text string, terms []Term, radius int) []string {
	if text == "" || len(terms) == 0 {
		return nil
	}
	lower := strings.ToLower(text)

	type window struct{ start, end int }
	var windows []window
	for _, t := range terms {
		if t.Text == "" {
			continue
		}
		from := 0
		for {
			i := strings.Index(lower[from:], t.Text)
			if i < 0 {
				break
			}
			at := from + i
			start := at - radius
			if start < 0 {
				start = 0
			}
			end := at + len(t.Text) + radius
			if end > len(text) {
				end = len(text)
			}
			windows = append(windows, window{start, end})
			from = at + len(t.Text)
		}
	}

	seen := make(map[string]bool)
	type placed struct {
		pos   int
		chunk string
	}
	var out []placed
	for _, w := range windows {
		chunk := text[w.start:w.end]
		if w.start > 0 {
			chunk = "..." + chunk
		}
		if w.end < len(text) {
			chunk = chunk + "..."
		}
		if seen[chunk] {
			continue
		}
		seen[chunk] = true
		out = append(out, placed{pos: w.start, chunk: chunk})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	chunks := make([]string, len(out))
	for i, p := range out {
		chunks[i] = p.chunk
	}
	return chunks
}
