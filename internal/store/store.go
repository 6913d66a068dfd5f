package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/preparly/taxassist/models"
)

type Store struct {
	DB *sql.DB
}

func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

// newID builds a short prefixed identifier like "task-3fa85f64".
func newID(prefix string) string {
	return prefix + "-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// User operations

func (s *Store) CreateUser(ctx context.Context, u models.User, passwordHash string) error {
	if u.ID == "" {
		u.ID = newID("user")
	}
	_, err := s.DB.ExecContext(ctx, `INSERT INTO users (id, email, name, role, password_hash) VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Email, u.Name, u.Role, passwordHash)
	return err
}

// GetUserByLogin looks a user up by id or email; the demo accounts log in
// with bare usernames while real accounts use email.
func (s *Store) GetUserByLogin(ctx context.Context, login string) (u models.User, hash string, err error) {
	err = s.DB.QueryRowContext(ctx, `SELECT id, email, name, role, password_hash FROM users WHERE id=$1 OR email=$1`, login).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role, &hash)
	return
}

func (s *Store) GetUser(ctx context.Context, id string) (u models.User, err error) {
	err = s.DB.QueryRowContext(ctx, `SELECT id, email, name, role FROM users WHERE id=$1`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.Role)
	return
}

func (s *Store) CountUsers(ctx context.Context) (n int, err error) {
	err = s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return
}

// Project operations

func (s *Store) CreateProject(ctx context.Context, p models.Project) (models.Project, error) {
	if p.ID == "" {
		p.ID = newID("proj")
	}
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO projects (id, name, clients, services, documents, tasks)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING created_at`,
		p.ID, p.Name, pq.Array(p.Clients), pq.Array(p.Services), pq.Array(p.Documents), pq.Array(p.Tasks)).
		Scan(&p.CreatedAt)
	return p, err
}

func (s *Store) GetProject(ctx context.Context, id string) (models.Project, error) {
	var p models.Project
	err := s.DB.QueryRowContext(ctx, `
SELECT id, name, clients, services, documents, tasks, created_at FROM projects WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, pq.Array(&p.Clients), pq.Array(&p.Services), pq.Array(&p.Documents), pq.Array(&p.Tasks), &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Project{}, models.ErrProjectNotFound
	}
	return p, err
}

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, name, clients, services, documents, tasks, created_at FROM projects ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Project
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.Name, pq.Array(&p.Clients), pq.Array(&p.Services), pq.Array(&p.Documents), pq.Array(&p.Tasks), &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdateProject(ctx context.Context, p models.Project) error {
	res, err := s.DB.ExecContext(ctx, `
UPDATE projects SET name=$2, clients=$3, services=$4, documents=$5, tasks=$6 WHERE id=$1`,
		p.ID, p.Name, pq.Array(p.Clients), pq.Array(p.Services), pq.Array(p.Documents), pq.Array(p.Tasks))
	if err != nil {
		return err
	}
	return checkFound(res, models.ErrProjectNotFound)
}

func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return checkFound(res, models.ErrProjectNotFound)
}

// Task operations

func (s *Store) CreateTask(ctx context.Context, t models.Task) (models.Task, error) {
	if t.ID == "" {
		t.ID = newID("task")
	}
	if t.Status == "" {
		t.Status = models.TaskStatusNotStarted
	}
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO tasks (id, project_id, assigned_to, client, tax_form, documents, status, description, due_date)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING created_at`,
		t.ID, t.ProjectID, t.AssignedTo, t.Client, t.TaxForm, pq.Array(t.Documents), string(t.Status), t.Description, t.DueDate).
		Scan(&t.CreatedAt)
	return t, err
}

func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	var t models.Task
	err := s.DB.QueryRowContext(ctx, `
SELECT id, project_id, assigned_to, client, tax_form, documents, status, description, due_date, created_at
FROM tasks WHERE id=$1`, id).
		Scan(&t.ID, &t.ProjectID, &t.AssignedTo, &t.Client, &t.TaxForm, pq.Array(&t.Documents), &t.Status, &t.Description, &t.DueDate, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Task{}, models.ErrTaskNotFound
	}
	return t, err
}

// ListTasks returns every task, optionally filtered by assignee.
func (s *Store) ListTasks(ctx context.Context, assignedTo string) ([]models.Task, error) {
	query := `
SELECT id, project_id, assigned_to, client, tax_form, documents, status, description, due_date, created_at
FROM tasks`
	var args []interface{}
	if assignedTo != "" {
		query += ` WHERE assigned_to=$1`
		args = append(args, assignedTo)
	}
	query += ` ORDER BY created_at, id`
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.AssignedTo, &t.Client, &t.TaxForm, pq.Array(&t.Documents), &t.Status, &t.Description, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) ListTasksByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, project_id, assigned_to, client, tax_form, documents, status, description, due_date, created_at
FROM tasks WHERE project_id=$1 ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.AssignedTo, &t.Client, &t.TaxForm, pq.Array(&t.Documents), &t.Status, &t.Description, &t.DueDate, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) UpdateTask(ctx context.Context, t models.Task) error {
	res, err := s.DB.ExecContext(ctx, `
UPDATE tasks SET project_id=$2, assigned_to=$3, client=$4, tax_form=$5, documents=$6, status=$7, description=$8, due_date=$9
WHERE id=$1`,
		t.ID, t.ProjectID, t.AssignedTo, t.Client, t.TaxForm, pq.Array(t.Documents), string(t.Status), t.Description, t.DueDate)
	if err != nil {
		return err
	}
	return checkFound(res, models.ErrTaskNotFound)
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id string, status models.TaskStatus) error {
	res, err := s.DB.ExecContext(ctx, `UPDATE tasks SET status=$2 WHERE id=$1`, id, string(status))
	if err != nil {
		return err
	}
	return checkFound(res, models.ErrTaskNotFound)
}

func (s *Store) DeleteTask(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return checkFound(res, models.ErrTaskNotFound)
}

// Document operations. Metadata and raw bytes live in one table; the bytes
// column is only selected by GetDocumentContent.

func (s *Store) CreateDocument(ctx context.Context, d models.Document, content []byte) (models.Document, error) {
	if d.ID == "" {
		d.ID = newID("doc")
	}
	d.SizeBytes = int64(len(content))
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO documents (id, file_name, file_type, project_id, size_bytes, description, content)
VALUES ($1,$2,$3,$4,$5,$6,$7)
RETURNING last_modified`,
		d.ID, d.FileName, d.FileType, d.ProjectID, d.SizeBytes, d.Description, content).
		Scan(&d.LastModified)
	return d, err
}

func (s *Store) GetDocument(ctx context.Context, id string) (models.Document, error) {
	var d models.Document
	err := s.DB.QueryRowContext(ctx, `
SELECT id, file_name, file_type, project_id, size_bytes, description, last_modified
FROM documents WHERE id=$1`, id).
		Scan(&d.ID, &d.FileName, &d.FileType, &d.ProjectID, &d.SizeBytes, &d.Description, &d.LastModified)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Document{}, models.ErrDocumentNotFound
	}
	return d, err
}

func (s *Store) GetDocumentContent(ctx context.Context, id string) ([]byte, error) {
	var content []byte
	err := s.DB.QueryRowContext(ctx, `SELECT content FROM documents WHERE id=$1`, id).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrDocumentNotFound
	}
	return content, err
}

func (s *Store) ListDocuments(ctx context.Context, projectID string) ([]models.Document, error) {
	query := `
SELECT id, file_name, file_type, project_id, size_bytes, description, last_modified
FROM documents`
	var args []interface{}
	if projectID != "" {
		query += ` WHERE project_id=$1`
		args = append(args, projectID)
	}
	query += ` ORDER BY last_modified, id`
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// GetDocumentsByIDs preserves the order of ids, which carries through to
// context assembly and on to tie-breaking between equal-scoring snippets.
func (s *Store) GetDocumentsByIDs(ctx context.Context, ids []string) ([]models.Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, file_name, file_type, project_id, size_bytes, description, last_modified
FROM documents WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	docs, err := scanDocuments(rows)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	out := make([]models.Document, 0, len(ids))
	for _, id := range ids {
		if d, ok := byID[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) UpdateDocument(ctx context.Context, d models.Document) error {
	res, err := s.DB.ExecContext(ctx, `
UPDATE documents SET file_name=$2, file_type=$3, project_id=$4, description=$5, last_modified=NOW()
WHERE id=$1`,
		d.ID, d.FileName, d.FileType, d.ProjectID, d.Description)
	if err != nil {
		return err
	}
	return checkFound(res, models.ErrDocumentNotFound)
}

func (s *Store) DeleteDocument(ctx context.Context, id string) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM documents WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return checkFound(res, models.ErrDocumentNotFound)
}

func scanDocuments(rows *sql.Rows) ([]models.Document, error) {
	var out []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(&d.ID, &d.FileName, &d.FileType, &d.ProjectID, &d.SizeBytes, &d.Description, &d.LastModified); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func checkFound(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
