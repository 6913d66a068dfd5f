package rag

import (
	"regexp"
	"strings"

	"github.com/preparly/taxassist/models"
)

// recommendPattern matches free-text recommendation phrasing such as
// "I recommend generating a missing information letter."
var recommendPattern = regexp.MustCompile(
	`(?i)(?:I recommend|I suggest|You could|Consider|You may want to)\s+` +
		`(?:generating|creating|sending|triggering)\s+(?:a|the)\s+([^.\n]+)`)

// actionLinePattern matches the structured "Action: <label>" marker the
// system prompt instructs the model to emit.
var actionLinePattern = regexp.MustCompile(`Action:\s*([^\n]+)`)

// ParseActions scans a model reply for suggested actions, in two passes:
// free-text recommendation phrasing, then structured Action markers. Each
// match is mapped onto the fixed action-id set by keyword; unmatched text
// produces no action. Duplicate ids are collapsed, first occurrence wins.
// The function is pure, so repeated calls on the same text are idempotent.
func ParseActions(response string) []models.SuggestedAction {
	var actions []models.SuggestedAction
	seen := make(map[string]bool)

	add := func(id, name, description string) {
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		actions = append(actions, models.SuggestedAction{
			ID:          id,
			Name:        name,
			Description: description,
			Params:      map[string]string{},
		})
	}

	for _, m := range recommendPattern.FindAllStringSubmatch(response, -1) {
		object := strings.TrimSpace(m[1])
		add(classifyAction(object), object, "AI suggested: "+strings.TrimSpace(m[0]))
	}
	for _, m := range actionLinePattern.FindAllStringSubmatch(response, -1) {
		text := strings.TrimSpace(m[1])
		add(classifyAction(text), text, "AI suggested: "+text)
	}
	return actions
}

// classifyAction maps free text onto one of the four action ids by
// characteristic keywords. Overlapping keyword sets resolve in this fixed
// order; text matching none yields "".
func classifyAction(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "missing") &&
		(strings.Contains(lower, "info") || strings.Contains(lower, "letter")):
		return models.ActionGenerateMissingInfo
	case strings.Contains(lower, "risk") && strings.Contains(lower, "review"):
		return models.ActionTriggerRiskReview
	case strings.Contains(lower, "summary"):
		return models.ActionGenerateClientSummary
	case strings.Contains(lower, "tax review"):
		return models.ActionSendToTaxReview
	}
	return ""
}
