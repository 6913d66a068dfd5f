package rag

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/preparly/taxassist/models"
)

// Prompt composition limits.
const (
	maxPromptSnippets    = 5
	snippetCharLimit     = 1000
	templateCharLimit    = 500
	contentTruncatedMark = "... [content truncated]"
)

// ActionLabels enumerates the human-readable labels the model is told to use
// when recommending an action, in presentation order.
var ActionLabels = []string{
	"Generate Missing Information Letter",
	"Trigger Risk Review",
	"Generate Client Summary",
	"Send to Tax Review",
}

// ComposeSystemPrompt renders the fixed system instruction template with task
// and project context, the current calendar year and the prior filing year.
func ComposeSystemPrompt(task models.Task, project models.Project) string {
	year := time.Now().Year()

	var b strings.Builder
	b.WriteString("You are an AI Tax Assistant helping preparers and reviewers complete tax projects.\n")
	b.WriteString("You have access to project documents, prior year returns, financials, and client information.\n\n")
	b.WriteString("Current context:\n")
	fmt.Fprintf(&b, "- Task: %s (%s)\n", task.ID, task.Status)
	fmt.Fprintf(&b, "- Project: %s - %s\n", project.ID, project.Name)
	fmt.Fprintf(&b, "- Client: %s\n", task.Client)
	fmt.Fprintf(&b, "- Tax Form: %s\n", task.TaxForm)
	fmt.Fprintf(&b, "- Assigned to: %s\n", task.AssignedTo)
	fmt.Fprintf(&b, "- Current year: %d\n", year)
	fmt.Fprintf(&b, "- Prior filing year: %d\n\n", year-1)
	b.WriteString("When providing answers:\n")
	b.WriteString("1. Reference specific documents when possible\n")
	b.WriteString("2. Be clear about what information might be missing\n")
	b.WriteString("3. Suggest appropriate actions when helpful\n")
	b.WriteString("4. Use professional tax terminology\n")
	b.WriteString("5. If you suggest an action, format it as a single line \"Action: <action name>\"\n\n")
	b.WriteString("Available actions you can suggest:\n")
	for _, label := range ActionLabels {
		fmt.Fprintf(&b, "- %s\n", label)
	}
	b.WriteString("\nOnly suggest actions when they are appropriate based on the user's question and task context.\n")
	return b.String()
}

// ComposeUserPrompt builds the user message: the verbatim question, then up
// to five snippets in descending score order (ties keep encounter order),
// each truncated to the snippet character limit and prefixed by its source
// document name, then an optional tax-form template excerpt.
func ComposeUserPrompt(question string, snippets []Snippet, template *Snippet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Question: %s\n", question)

	if len(snippets) > 0 {
		ordered := make([]Snippet, len(snippets))
		copy(ordered, snippets)
		sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Score > ordered[j].Score })
		if len(ordered) > maxPromptSnippets {
			ordered = ordered[:maxPromptSnippets]
		}

		b.WriteString("\nRelevant Document Information:\n")
		for _, s := range ordered {
			fmt.Fprintf(&b, "\n[Document: %s]\n", s.DocName)
			b.WriteString(truncateWithMarker(s.Text, snippetCharLimit, contentTruncatedMark))
			b.WriteString("\n")
		}
	}

	if template != nil {
		fmt.Fprintf(&b, "\nTax Form Template (%s):\n", template.DocName)
		b.WriteString(truncateWithMarker(template.Text, templateCharLimit, contentTruncatedMark))
		b.WriteString("\n")
	}

	b.WriteString("\nPlease provide a helpful response based on the available information.\n")
	return b.String()
}

func truncateWithMarker(text string, limit int, marker string) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit] + marker
}
