package store

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"github.com/preparly/taxassist/models"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &Store{DB: db}, mock
}

func TestNewIDFormat(t *testing.T) {
	id := newID("task")
	if !strings.HasPrefix(id, "task-") {
		t.Fatalf("id %q missing prefix", id)
	}
	if len(id) != len("task-")+8 {
		t.Fatalf("id %q should carry 8 hex characters", id)
	}
	if id == newID("task") {
		t.Fatal("consecutive ids should differ")
	}
}

func TestCreateTaskGeneratesIDAndDefaultStatus(t *testing.T) {
	st, mock := newMockStore(t)

	now := time.Now()
	query := regexp.QuoteMeta(`
INSERT INTO tasks (id, project_id, assigned_to, client, tax_form, documents, status, description, due_date)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING created_at`)
	mock.ExpectQuery(query).
		WithArgs(sqlmock.AnyArg(), "proj-001", "jeff", "Acme Corp", "1120", sqlmock.AnyArg(), "Not Started", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	got, err := st.CreateTask(context.Background(), models.Task{
		ProjectID:  "proj-001",
		AssignedTo: "jeff",
		Client:     "Acme Corp",
		TaxForm:    "1120",
	})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if !strings.HasPrefix(got.ID, "task-") {
		t.Fatalf("generated id %q missing prefix", got.ID)
	}
	if got.Status != models.TaskStatusNotStarted {
		t.Fatalf("default status = %q", got.Status)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatal("created_at not captured from insert")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, project_id").
		WithArgs("task-missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := st.GetTask(context.Background(), "task-missing")
	if !errors.Is(err, models.ErrTaskNotFound) {
		t.Fatalf("got %v, want ErrTaskNotFound", err)
	}
}

func TestGetProjectScansArrays(t *testing.T) {
	st, mock := newMockStore(t)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "clients", "services", "documents", "tasks", "created_at"}).
		AddRow("proj-001", "Acme Corp 2024 Tax Filing",
			pq.StringArray{"Acme Corp"}, pq.StringArray{"Corporate Tax Filing"},
			pq.StringArray{"doc-001", "doc-002"}, pq.StringArray{"task-001"}, now)
	mock.ExpectQuery("SELECT id, name, clients").WithArgs("proj-001").WillReturnRows(rows)

	p, err := st.GetProject(context.Background(), "proj-001")
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if len(p.Clients) != 1 || p.Clients[0] != "Acme Corp" {
		t.Fatalf("clients = %v", p.Clients)
	}
	if len(p.Documents) != 2 {
		t.Fatalf("documents = %v", p.Documents)
	}
}

func TestUpdateTaskStatusNotFound(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("UPDATE tasks SET status").
		WithArgs("task-zzz", "Completed").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := st.UpdateTaskStatus(context.Background(), "task-zzz", models.TaskStatusCompleted)
	if !errors.Is(err, models.ErrTaskNotFound) {
		t.Fatalf("got %v, want ErrTaskNotFound", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	st, mock := newMockStore(t)

	mock.ExpectExec("DELETE FROM documents WHERE id").
		WithArgs("doc-001").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := st.DeleteDocument(context.Background(), "doc-001"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateDocumentRecordsSize(t *testing.T) {
	st, mock := newMockStore(t)

	content := []byte("raw document bytes")
	now := time.Now()
	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(sqlmock.AnyArg(), "notes.txt", "txt", "proj-001", int64(len(content)), "", content).
		WillReturnRows(sqlmock.NewRows([]string{"last_modified"}).AddRow(now))

	d, err := st.CreateDocument(context.Background(), models.Document{
		FileName:  "notes.txt",
		FileType:  "txt",
		ProjectID: "proj-001",
	}, content)
	if err != nil {
		t.Fatalf("CreateDocument: %v", err)
	}
	if d.SizeBytes != int64(len(content)) {
		t.Fatalf("size = %d, want %d", d.SizeBytes, len(content))
	}
	if !strings.HasPrefix(d.ID, "doc-") {
		t.Fatalf("generated id %q missing prefix", d.ID)
	}
}

func TestGetDocumentsByIDsPreservesOrder(t *testing.T) {
	st, mock := newMockStore(t)

	now := time.Now()
	// Rows come back in table order; the method must re-order to match ids.
	rows := sqlmock.NewRows([]string{"id", "file_name", "file_type", "project_id", "size_bytes", "description", "last_modified"}).
		AddRow("doc-001", "a.pdf", "pdf", "proj-001", int64(10), "", now).
		AddRow("doc-002", "b.xlsx", "xlsx", "proj-001", int64(20), "", now)
	mock.ExpectQuery("FROM documents WHERE id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	docs, err := st.GetDocumentsByIDs(context.Background(), []string{"doc-002", "doc-001"})
	if err != nil {
		t.Fatalf("GetDocumentsByIDs: %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "doc-002" || docs[1].ID != "doc-001" {
		t.Fatalf("order not preserved: %v", docs)
	}
}

func TestGetUserByLogin(t *testing.T) {
	st, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"id", "email", "name", "role", "password_hash"}).
		AddRow("jeff", "jeff@preparly.dev", "Jeff", "Preparer", "$2a$10$hash")
	mock.ExpectQuery("SELECT id, email, name, role, password_hash FROM users").
		WithArgs("jeff").
		WillReturnRows(rows)

	u, hash, err := st.GetUserByLogin(context.Background(), "jeff")
	if err != nil {
		t.Fatalf("GetUserByLogin: %v", err)
	}
	if u.Role != models.RolePreparer || hash == "" {
		t.Fatalf("unexpected user %+v hash %q", u, hash)
	}
}
