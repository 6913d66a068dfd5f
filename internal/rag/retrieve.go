package rag

import "sort"

// Default chunking geometry for retrieval.
const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
)

// Retriever ranks document chunks against a query.
type Retriever struct {
	Extractor    TextExtractor
	ChunkSize    int
	ChunkOverlap int
}

// Retrieve extracts and chunks every document, scores each chunk against the
// expanded query terms and returns the top maxResults chunks across all
// documents in descending score order. Ties break by input document order,
// then chunk position, so results are deterministic regardless of how the
// caller parallelizes extraction. Documents that fail extraction contribute
// no chunks but never abort retrieval for the rest.
func (r Retriever) Retrieve(query string, docs []Source, maxResults int) []Snippet {
	terms := QueryTerms(query)
	if len(terms) == 0 || maxResults <= 0 {
		return nil
	}
	size := r.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := r.ChunkOverlap
	if overlap <= 0 {
		overlap = DefaultChunkOverlap
	}

	type candidate struct {
		snippet  Snippet
		docOrder int
	}
	var candidates []candidate
	for di, doc := range docs {
		text := r.Extractor.Extract(doc)
		if IsPlaceholder(text) {
			continue
		}
		for ci, chunk := range Chunk(text, size, overlap) {
			score := Score(chunk, terms)
			if score <= 0 {
				continue
			}
			candidates = append(candidates, candidate{
				snippet: Snippet{
					DocID:   doc.ID,
					DocName: doc.Name,
					DocType: doc.Type,
					Text:    chunk,
					Score:   score,
					Pos:     ci,
				},
				docOrder: di,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.snippet.Score != b.snippet.Score {
			return a.snippet.Score > b.snippet.Score
		}
		if a.docOrder != b.docOrder {
			return a.docOrder < b.docOrder
		}
		return a.snippet.Pos < b.snippet.Pos
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	out := make([]Snippet, len(candidates))
	for i, c := range candidates {
		out[i] = c.snippet
	}
	return out
}
