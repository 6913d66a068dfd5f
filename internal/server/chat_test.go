package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/lib/pq"

	"github.com/preparly/taxassist/internal/fixtures"
	"github.com/preparly/taxassist/internal/rag"
	"github.com/preparly/taxassist/internal/store"
	"github.com/preparly/taxassist/models"
)

// fakeLLM records the messages it was sent and returns a canned reply.
type fakeLLM struct {
	reply    string
	err      error
	messages []models.ChatMessage
}

func (f *fakeLLM) ChatCompletion(_ context.Context, messages []models.ChatMessage) (string, error) {
	f.messages = messages
	return f.reply, f.err
}

const docColumnsByIDsSQL = `SELECT id, file_name, file_type, project_id, size_bytes, description, last_modified
FROM documents WHERE id = ANY($1)`

func docRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "file_name", "file_type", "project_id", "size_bytes", "description", "last_modified"})
}

func TestChatAssemblesContextAndParsesActions(t *testing.T) {
	e := echo.New()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	llm := &fakeLLM{reply: "Several items are still outstanding from the client.\n\nAction: Generate Missing Information Letter"}
	handler := &ChatHandler{
		Store:            &store.Store{DB: db},
		Extractor:        rag.Extractor{Fixtures: fixtures.DocumentText},
		LLM:              llm,
		MaxContextTokens: 8000,
		MaxResults:       5,
	}

	mock.ExpectQuery(regexp.QuoteMeta(taskColumnsSQL)).
		WithArgs("task-001").
		WillReturnRows(taskRows().
			AddRow("task-001", "proj-001", "jeff", "Acme Corp", "1120", "{doc-001,doc-002}", "In Progress", "", "2026-09-15", time.Now()))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, clients, services, documents, tasks, created_at FROM projects WHERE id=$1`)).
		WithArgs("proj-001").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "clients", "services", "documents", "tasks", "created_at"}).
			AddRow("proj-001", "Acme Corp 2023 Filings", "{Acme Corp}", "{Tax Preparation}", "{doc-001,doc-002}", "{task-001}", time.Now()))

	mock.ExpectQuery(regexp.QuoteMeta(docColumnsByIDsSQL)).
		WithArgs(pq.Array([]string{"doc-001", "doc-002"})).
		WillReturnRows(docRows().
			AddRow("doc-001", "financial_statement.xlsx", "xlsx", "proj-001", int64(2048), "", time.Now()).
			AddRow("doc-002", "client_responses.docx", "docx", "proj-001", int64(1024), "", time.Now()))

	// Template lookup scans the project documents before the fixture set.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, file_name, file_type, project_id, size_bytes, description, last_modified
FROM documents WHERE project_id=$1`)).
		WithArgs("proj-001").
		WillReturnRows(docRows())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/task-001/chat",
		strings.NewReader(`{"message":"What information is still missing from the client?"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("task-001")

	if err := handler.chat(ctx); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}

	if len(llm.messages) != 2 || llm.messages[0].Role != "system" || llm.messages[1].Role != "user" {
		t.Fatalf("expected system+user messages, got %+v", llm.messages)
	}
	if !strings.Contains(llm.messages[0].Content, "Acme Corp") || !strings.Contains(llm.messages[0].Content, "1120") {
		t.Fatalf("system prompt missing task context: %q", llm.messages[0].Content)
	}
	if !strings.Contains(llm.messages[1].Content, "Relevant Document Information") {
		t.Fatalf("user prompt missing document context: %q", llm.messages[1].Content)
	}
	if !strings.Contains(llm.messages[1].Content, "Tax Form Template (form_1120_template.docx)") {
		t.Fatalf("user prompt missing form template: %q", llm.messages[1].Content)
	}

	var resp ChatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != llm.reply {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if len(resp.SuggestedActions) != 1 || resp.SuggestedActions[0].ID != models.ActionGenerateMissingInfo {
		t.Fatalf("unexpected suggested actions: %+v", resp.SuggestedActions)
	}
	if len(resp.References) == 0 {
		t.Fatalf("expected references to contributing documents")
	}
	seen := map[string]bool{}
	for _, ref := range resp.References {
		if seen[ref.ID] {
			t.Fatalf("duplicate reference %s", ref.ID)
		}
		seen[ref.ID] = true
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestChatRequiresMessage(t *testing.T) {
	e := echo.New()
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	handler := &ChatHandler{Store: &store.Store{DB: db}, Extractor: rag.Extractor{}, LLM: &fakeLLM{}}

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/task-001/chat", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("task-001")

	err = handler.chat(ctx)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 error, got %#v", err)
	}
}

func TestChatProviderFailureIs502(t *testing.T) {
	e := echo.New()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	llm := &fakeLLM{err: context.DeadlineExceeded}
	handler := &ChatHandler{
		Store:            &store.Store{DB: db},
		Extractor:        rag.Extractor{Fixtures: fixtures.DocumentText},
		LLM:              llm,
		MaxContextTokens: 8000,
		MaxResults:       5,
	}

	mock.ExpectQuery(regexp.QuoteMeta(taskColumnsSQL)).
		WithArgs("task-001").
		WillReturnRows(taskRows().
			AddRow("task-001", "proj-001", "jeff", "Acme Corp", "1120", "{}", "In Progress", "", "", time.Now()))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, clients, services, documents, tasks, created_at FROM projects WHERE id=$1`)).
		WithArgs("proj-001").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "clients", "services", "documents", "tasks", "created_at"}))

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, file_name, file_type, project_id, size_bytes, description, last_modified
FROM documents WHERE project_id=$1`)).
		WithArgs("proj-001").
		WillReturnRows(docRows())

	req := httptest.NewRequest(http.MethodPost, "/api/tasks/task-001/chat",
		strings.NewReader(`{"message":"hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("task-001")

	err = handler.chat(ctx)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 error, got %#v", err)
	}
}
