package rag

import (
	"fmt"
	"strings"
)

// tokenEstimateFactor approximates one language-model token as four bytes of
// text. Kept behind EstimateTokens so a real tokenizer can replace it without
// touching assembly logic.
const tokenEstimateFactor = 4

// EstimateTokens returns the approximate token count of text.
func EstimateTokens(text string) int {
	return len(text) / tokenEstimateFactor
}

const (
	// How many ranked chunks the query-guided mode considers.
	retrievalCandidates = 10
	// Documents longer than this are narrowed to key-term context windows
	// in the unguided mode when a query is available.
	longDocumentChars = 1000
	// Radius of a key-term context window, in bytes to either side.
	keyTermRadius = 100

	truncatedMarker = "... [truncated due to length]"
)

// Assembler accumulates document snippets under an approximate token budget.
type Assembler struct {
	Retriever Retriever
	Extractor TextExtractor
}

// Assemble selects snippets from docs for query, keeping the cumulative
// estimated token count within maxTokens (bounded overshoot of at most the
// truncation rounding). With a usable query it greedily accepts ranked
// chunks in score order, skipping any that would exceed the budget. When
// retrieval yields nothing, or without a query, it falls back to whole
// document texts in input order, truncating the document that crosses the
// budget and stopping there, so the caller always gets at least a preview
// of the first documents.
func (a Assembler) Assemble(docs []Source, query string, maxTokens int) []Snippet {
	if maxTokens <= 0 || len(docs) == 0 {
		return nil
	}

	if len(QueryTerms(query)) > 0 {
		ranked := a.Retriever.Retrieve(query, docs, retrievalCandidates)
		var out []Snippet
		running := 0
		for _, s := range ranked {
			t := EstimateTokens(s.Text)
			if running+t > maxTokens {
				continue
			}
			out = append(out, s)
			running += t
		}
		if len(out) > 0 {
			return out
		}
	}
	return a.fallback(docs, query, maxTokens)
}

// fallback is the unguided mode: one snippet per document in input order
// until the budget runs out. Extraction failures yield a zero-score
// placeholder snippet so every processed document is represented.
func (a Assembler) fallback(docs []Source, query string, maxTokens int) []Snippet {
	terms := QueryTerms(query)
	var out []Snippet
	running := 0
	for _, doc := range docs {
		text := a.Extractor.Extract(doc)
		if IsPlaceholder(text) {
			out = append(out, snippetFor(doc, text))
			continue
		}

		if len(terms) > 0 && len(text) > longDocumentChars {
			if contexts := KeyTermContexts(text, terms, keyTermRadius); len(contexts) > 0 {
				text = strings.Join(contexts, " ... ")
			}
		}

		t := EstimateTokens(text)
		if running+t > maxTokens {
			remaining := maxTokens - running
			text = fmt.Sprintf("%s%s", text[:remaining*tokenEstimateFactor], truncatedMarker)
			t = remaining
		}
		out = append(out, snippetFor(doc, text))
		running += t
		if running >= maxTokens {
			break
		}
	}
	return out
}

func snippetFor(doc Source, text string) Snippet {
	return Snippet{
		DocID:   doc.ID,
		DocName: doc.Name,
		DocType: doc.Type,
		Text:    text,
	}
}
