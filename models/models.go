package models

import (
	"errors"
	"time"
)

// ErrTaskNotFound is returned when a task is not found.
var ErrTaskNotFound = errors.New("task not found")

// ErrProjectNotFound is returned when a project is not found.
var ErrProjectNotFound = errors.New("project not found")

// ErrDocumentNotFound is returned when a document is not found.
var ErrDocumentNotFound = errors.New("document not found")

// Project groups the tasks and documents of one client engagement.
type Project struct {
	ID        string    `json:"project_id"`
	Name      string    `json:"name"`
	Clients   []string  `json:"clients"`
	Services  []string  `json:"services"`
	Documents []string  `json:"documents"`
	Tasks     []string  `json:"tasks"`
	CreatedAt time.Time `json:"created_at"`
}

type TaskStatus string

const (
	TaskStatusNotStarted     TaskStatus = "Not Started"
	TaskStatusInProgress     TaskStatus = "In Progress"
	TaskStatusReadyForReview TaskStatus = "Ready for Review"
	TaskStatusUnderReview    TaskStatus = "Under Review"
	TaskStatusCompleted      TaskStatus = "Completed"
)

// Task is a single filing engagement item assigned to a preparer or reviewer.
type Task struct {
	ID          string     `json:"task_id"`
	ProjectID   string     `json:"project_id"`
	AssignedTo  string     `json:"assigned_to"`
	Client      string     `json:"client"`
	TaxForm     string     `json:"tax_form"`
	Documents   []string   `json:"documents"`
	Status      TaskStatus `json:"status"`
	Description string     `json:"description,omitempty"`
	DueDate     string     `json:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Document is the metadata record for an uploaded engagement file. The raw
// bytes live in the store and are fetched per call; nothing here holds them.
type Document struct {
	ID           string    `json:"doc_id"`
	FileName     string    `json:"file_name"`
	FileType     string    `json:"file_type"`
	ProjectID    string    `json:"project_id"`
	SizeBytes    int64     `json:"size_bytes,omitempty"`
	LastModified time.Time `json:"last_modified"`
	Description  string    `json:"description,omitempty"`
}

// User roles. The login shim only distinguishes these two.
const (
	RolePreparer = "Preparer"
	RoleReviewer = "Reviewer"
)

type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// ChatMessage is one turn of a language-model conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Suggested action identifiers. This is a closed set: the response parser
// maps free-form model text onto exactly these four ids.
const (
	ActionGenerateMissingInfo   = "generate_missing_info"
	ActionTriggerRiskReview     = "trigger_risk_review"
	ActionGenerateClientSummary = "generate_client_summary"
	ActionSendToTaxReview       = "send_to_tax_review"
)

// SuggestedAction is a structured recommendation recovered from the language
// model's reply text.
type SuggestedAction struct {
	ID          string            `json:"action_id"`
	Name        string            `json:"action_name"`
	Description string            `json:"description"`
	Params      map[string]string `json:"params"`
}

// Reference points the chat caller back at a document that contributed
// context to the reply.
type Reference struct {
	Source       string    `json:"source"`
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	LastModified time.Time `json:"last_modified"`
}
