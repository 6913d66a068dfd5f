// Package rag implements the context assembly engine for the tax assistant:
// document text extraction, chunking, lexical relevance scoring, token-budget
// snippet assembly and prompt composition. Every operation is a pure,
// synchronous transformation of its inputs; the package holds no mutable
// state and is safe for concurrent use.
package rag

import "time"

// Source is the per-call handle to one document: metadata for type inference
// plus a provider for the raw bytes. The engine never retains the bytes past
// a single extraction call.
type Source struct {
	ID           string
	Name         string
	Type         string
	LastModified time.Time
	Raw          func() ([]byte, error)
}

// Snippet is a scored excerpt of a document selected for prompt inclusion.
// Pos is the chunk index within the source document and is used for
// deterministic tie-breaking.
type Snippet struct {
	DocID   string
	DocName string
	DocType string
	Text    string
	Score   float64
	Pos     int
}

// TextExtractor turns a document source into plain text. Implementations
// must never fail: errors are folded into placeholder strings.
type TextExtractor interface {
	Extract(src Source) string
}
