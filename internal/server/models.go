package server

import "github.com/preparly/taxassist/models"

// HTTPError is a generic error envelope returned by the server.
type HTTPError struct {
	Error string `json:"error"`
}

// AuthSignupRequest represents the signup payload.
type AuthSignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

// AuthLoginRequest represents the login payload. Username is an id or email.
type AuthLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token and the authenticated user.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// CreateProjectRequest represents a new project payload.
type CreateProjectRequest struct {
	Name     string   `json:"name"`
	Clients  []string `json:"clients"`
	Services []string `json:"services"`
}

// CreateTaskRequest represents a new task payload.
type CreateTaskRequest struct {
	ProjectID   string   `json:"project_id"`
	AssignedTo  string   `json:"assigned_to"`
	Client      string   `json:"client"`
	TaxForm     string   `json:"tax_form"`
	Documents   []string `json:"documents"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
}

// UpdateTaskStatusRequest changes only the workflow status.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}

// ChatRequest is one user message to the task assistant.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the assistant reply with provenance and suggestions.
type ChatResponse struct {
	Message          string                   `json:"message"`
	SuggestedActions []models.SuggestedAction `json:"suggested_actions"`
	References       []models.Reference       `json:"references"`
}

// ActionRequest asks the server to execute one suggested action.
type ActionRequest struct {
	ActionID string            `json:"action_id"`
	Params   map[string]string `json:"params"`
}
