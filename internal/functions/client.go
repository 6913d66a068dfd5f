// Package functions executes suggested actions against an Azure Functions
// host, with a mock mode that returns canned payloads for local development.
package functions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/preparly/taxassist/config"
	"github.com/preparly/taxassist/models"
)

// Definition describes one executable action and the function behind it.
type Definition struct {
	ID             string   `json:"action_id"`
	Name           string   `json:"action_name"`
	Description    string   `json:"description"`
	FunctionPath   string   `json:"function_path"`
	RequiredParams []string `json:"required_params"`
}

// actionOrder fixes the presentation order of Available.
var actionOrder = []string{
	models.ActionGenerateMissingInfo,
	models.ActionTriggerRiskReview,
	models.ActionGenerateClientSummary,
	models.ActionSendToTaxReview,
}

var definitions = map[string]Definition{
	models.ActionGenerateMissingInfo: {
		ID:             models.ActionGenerateMissingInfo,
		Name:           "Generate Missing Information Letter",
		Description:    "Create a letter to request missing information from the client",
		FunctionPath:   "generateMissingInfoLetter",
		RequiredParams: []string{"client_name"},
	},
	models.ActionTriggerRiskReview: {
		ID:             models.ActionTriggerRiskReview,
		Name:           "Trigger Risk Review",
		Description:    "Send task for risk assessment review",
		FunctionPath:   "triggerRiskReviewAPI",
		RequiredParams: []string{},
	},
	models.ActionGenerateClientSummary: {
		ID:             models.ActionGenerateClientSummary,
		Name:           "Generate Client Summary",
		Description:    "Create a summary report for the client",
		FunctionPath:   "generateClientSummary",
		RequiredParams: []string{"project_id"},
	},
	models.ActionSendToTaxReview: {
		ID:             models.ActionSendToTaxReview,
		Name:           "Send to Tax Review",
		Description:    "Submit documents for tax review",
		FunctionPath:   "sendDocumentToTaxReview",
		RequiredParams: []string{"document_ids"},
	},
}

// Available lists every action definition in presentation order. The
// prototype offers all actions for every task.
func Available() []Definition {
	out := make([]Definition, 0, len(actionOrder))
	for _, id := range actionOrder {
		out = append(out, definitions[id])
	}
	return out
}

// Result is the outcome of one action execution.
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Result  map[string]any `json:"result"`
}

// Client calls the Azure Functions host that backs action execution.
type Client struct {
	baseURL    string
	key        string
	mock       bool
	httpClient *http.Client
}

// NewClient creates an action executor from configuration.
func NewClient(cfg config.FunctionsConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		key:        cfg.Key,
		mock:       cfg.Mock,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Execute runs one action for a task. Validation failures and downstream
// errors come back as an unsuccessful Result rather than an error: the chat
// surface reports them to the user, it does not retry them.
func (c *Client) Execute(ctx context.Context, actionID string, params map[string]string, task models.Task, docs []models.Document) Result {
	def, ok := definitions[actionID]
	if !ok {
		return Result{Message: fmt.Sprintf("Action %s not found", actionID)}
	}
	if params == nil {
		params = map[string]string{}
	}
	for _, p := range def.RequiredParams {
		if _, ok := params[p]; !ok {
			return Result{Message: fmt.Sprintf("Missing required parameter: %s", p)}
		}
	}

	if c.mock {
		return Result{
			Success: true,
			Message: fmt.Sprintf("Action %s executed successfully", def.Name),
			Result:  mockPayload(def, task, docs),
		}
	}

	payload := map[string]any{
		"taskId":  task.ID,
		"client":  task.Client,
		"taxForm": task.TaxForm,
		"params":  params,
	}
	if len(docs) > 0 {
		ids := make([]string, len(docs))
		for i, d := range docs {
			ids[i] = d.ID
		}
		payload["documentIds"] = ids
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Message: fmt.Sprintf("Error executing action: %v", err)}
	}
	url := fmt.Sprintf("%s/%s", c.baseURL, def.FunctionPath)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return Result{Message: fmt.Sprintf("Error executing action: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.key != "" {
		req.Header.Set("x-functions-key", c.key)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{Message: fmt.Sprintf("Error executing action: %v", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{Message: fmt.Sprintf("Error from function host: %d", resp.StatusCode)}
	}
	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{Message: fmt.Sprintf("Error executing action: %v", err)}
	}
	return Result{
		Success: true,
		Message: fmt.Sprintf("Action %s executed successfully", def.Name),
		Result:  result,
	}
}

// mockPayload mirrors the shapes the real functions return.
func mockPayload(def Definition, task models.Task, docs []models.Document) map[string]any {
	switch def.ID {
	case models.ActionGenerateMissingInfo:
		return map[string]any{
			"status":     "success",
			"fileUrl":    fmt.Sprintf("https://mock-storage.local/missing-info-letter-%s.pdf", task.ID),
			"fileName":   fmt.Sprintf("Missing_Info_Letter_%s.pdf", task.ID),
			"expiryDate": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
			"message":    "Missing information letter generated successfully",
		}
	case models.ActionTriggerRiskReview:
		return map[string]any{
			"status":    "success",
			"reviewId":  fmt.Sprintf("risk-review-%s", task.ID),
			"riskScore": 75,
			"message":   "Risk review triggered successfully",
			"reviewUrl": fmt.Sprintf("https://mock-risk-review.local/review/%s", task.ID),
		}
	case models.ActionGenerateClientSummary:
		return map[string]any{
			"status":     "success",
			"fileUrl":    fmt.Sprintf("https://mock-storage.local/client-summary-%s.pdf", task.ProjectID),
			"fileName":   fmt.Sprintf("Client_Summary_%s.pdf", task.ProjectID),
			"expiryDate": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
			"message":    "Client summary generated successfully",
		}
	case models.ActionSendToTaxReview:
		docID := ""
		if len(docs) > 0 {
			docID = docs[0].ID
		}
		return map[string]any{
			"status":                  "success",
			"submissionId":            fmt.Sprintf("tax-review-%s-%s", task.ID, docID),
			"reviewerName":            "Mock Reviewer",
			"estimatedCompletionDate": time.Now().Add(72 * time.Hour).Format(time.RFC3339),
			"message":                 "Document sent to tax review successfully",
		}
	}
	return map[string]any{"status": "success"}
}
