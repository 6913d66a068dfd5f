package rag

import (
	"strings"
	"testing"
)

func textDoc(id, name, body string) Source {
	return Source{ID: id, Name: name, Type: "txt", Raw: rawBytes([]byte(body))}
}

func TestRetrieveRanksMissingDocumentation(t *testing.T) {
	docs := []Source{
		textDoc("doc-1", "prior_year_return.pdf",
			"Form 1120 filed for fiscal year.\n\n"+
				"Missing documentation for charitable contributions claimed on Schedule A.\n\n"+
				"Depreciation schedules attached as statement 4."),
		textDoc("doc-2", "financial_statement.xlsx",
			"Revenue 500000\nExpenses 320000\nNet income 180000"),
	}
	r := Retriever{Extractor: Extractor{}}

	got := r.Retrieve("What is missing?", docs, 5)
	if len(got) == 0 {
		t.Fatal("no snippets retrieved")
	}
	if !strings.Contains(got[0].Text, "Missing documentation") {
		t.Fatalf("top snippet should contain the matching chunk, got %q", got[0].Text)
	}
	if got[0].DocID != "doc-1" {
		t.Fatalf("top snippet from %s, want doc-1", got[0].DocID)
	}
	for _, s := range got {
		if s.Score <= 0 {
			t.Fatalf("retrieved snippet with non-positive score: %+v", s)
		}
	}
}

func TestRetrieveEmptyQueryAndZeroLimit(t *testing.T) {
	docs := []Source{textDoc("doc-1", "a.txt", "missing forms")}
	r := Retriever{Extractor: Extractor{}}
	if got := r.Retrieve("", docs, 5); got != nil {
		t.Fatalf("empty query should retrieve nothing, got %v", got)
	}
	if got := r.Retrieve("missing", docs, 0); got != nil {
		t.Fatalf("zero limit should retrieve nothing, got %v", got)
	}
}

func TestRetrieveCapsResults(t *testing.T) {
	var docs []Source
	for i := 0; i < 6; i++ {
		docs = append(docs, textDoc("doc", "notes.txt", "the risk review found more risk items"))
	}
	r := Retriever{Extractor: Extractor{}}
	got := r.Retrieve("risk", docs, 3)
	if len(got) != 3 {
		t.Fatalf("got %d snippets, want 3", len(got))
	}
}

func TestRetrieveTieBreaksByDocumentOrder(t *testing.T) {
	body := "deduction for equipment purchases"
	docs := []Source{
		textDoc("doc-a", "first.txt", body),
		textDoc("doc-b", "second.txt", body),
	}
	r := Retriever{Extractor: Extractor{}}
	got := r.Retrieve("deduction", docs, 5)
	if len(got) != 2 {
		t.Fatalf("got %d snippets, want 2", len(got))
	}
	if got[0].DocID != "doc-a" || got[1].DocID != "doc-b" {
		t.Fatalf("equal scores should keep input order, got %s then %s", got[0].DocID, got[1].DocID)
	}
}

func TestRetrieveSkipsFailedDocuments(t *testing.T) {
	docs := []Source{
		{ID: "doc-bad", Name: "broken.pdf", Raw: rawBytes([]byte("not a pdf"))},
		textDoc("doc-ok", "notes.txt", "client provided missing receipts"),
	}
	r := Retriever{Extractor: Extractor{}}
	got := r.Retrieve("missing receipts", docs, 5)
	if len(got) == 0 {
		t.Fatal("healthy document should still be retrieved")
	}
	for _, s := range got {
		if s.DocID == "doc-bad" {
			t.Fatal("failed document must not contribute snippets")
		}
	}
}
