package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/preparly/taxassist/internal/rag"
	"github.com/preparly/taxassist/internal/store"
	"github.com/preparly/taxassist/models"
	"github.com/preparly/taxassist/provider"
)

// ChatHandler answers task questions by assembling document context and
// sending it to the language model.
type ChatHandler struct {
	Store     *store.Store
	Extractor rag.TextExtractor
	LLM       provider.Provider

	MaxContextTokens int
	MaxResults       int
	ChunkSize        int
	ChunkOverlap     int
}

// maxReferences caps the provenance list in chat responses.
const maxReferences = 3

func (h *ChatHandler) Register(g *echo.Group, secret []byte) {
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, secret) })
	g.POST("/:id/chat", h.chat)
}

func (h *ChatHandler) chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil || req.Message == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message required")
	}

	ctx := c.Request().Context()
	task, err := h.Store.GetTask(ctx, c.Param("id"))
	if errors.Is(err, models.ErrTaskNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	project, err := h.Store.GetProject(ctx, task.ProjectID)
	if err != nil && !errors.Is(err, models.ErrProjectNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	docs, err := h.Store.GetDocumentsByIDs(ctx, task.Documents)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	sources := make([]rag.Source, len(docs))
	byID := make(map[string]models.Document, len(docs))
	for i, d := range docs {
		sources[i] = docSource(h.Store, c, d)
		byID[d.ID] = d
	}

	assembler := rag.Assembler{
		Retriever: rag.Retriever{Extractor: h.Extractor, ChunkSize: h.ChunkSize, ChunkOverlap: h.ChunkOverlap},
		Extractor: h.Extractor,
	}
	snippets := assembler.Assemble(sources, req.Message, h.MaxContextTokens)
	if h.MaxResults > 0 && len(snippets) > h.MaxResults {
		snippets = snippets[:h.MaxResults]
	}

	system := rag.ComposeSystemPrompt(task, project)
	user := rag.ComposeUserPrompt(req.Message, snippets, h.formTemplate(c, task))

	reply, err := h.LLM.ChatCompletion(ctx, []models.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	})
	if err != nil {
		chatRequestsTotal.WithLabelValues("error").Inc()
		return echo.NewHTTPError(http.StatusBadGateway, fmt.Sprintf("AI processing error: %v", err))
	}
	chatRequestsTotal.WithLabelValues("success").Inc()

	// References point back at the documents that actually contributed
	// snippets: first 3 distinct, in snippet order.
	var refs []models.Reference
	seen := make(map[string]bool)
	for _, s := range snippets {
		if len(refs) == maxReferences {
			break
		}
		if s.DocID == "" || seen[s.DocID] {
			continue
		}
		seen[s.DocID] = true
		d := byID[s.DocID]
		refs = append(refs, models.Reference{
			Source:       d.FileName,
			ID:           d.ID,
			Type:         d.FileType,
			LastModified: d.LastModified,
		})
	}

	actions := rag.ParseActions(reply)
	if actions == nil {
		actions = []models.SuggestedAction{}
	}
	if refs == nil {
		refs = []models.Reference{}
	}
	return c.JSON(http.StatusOK, ChatResponse{
		Message:          reply,
		SuggestedActions: actions,
		References:       refs,
	})
}

// formTemplate extracts the tax form template for the task's form type. It
// prefers an uploaded project document with the template file name and falls
// back to the extractor's fixture set; a placeholder result means there is
// no template to include.
func (h *ChatHandler) formTemplate(c echo.Context, task models.Task) *rag.Snippet {
	if task.TaxForm == "" {
		return nil
	}
	name := fmt.Sprintf("form_%s_template.docx", task.TaxForm)

	if task.ProjectID != "" {
		if docs, err := h.Store.ListDocuments(c.Request().Context(), task.ProjectID); err == nil {
			for _, d := range docs {
				if d.FileName != name {
					continue
				}
				if text := h.Extractor.Extract(docSource(h.Store, c, d)); !rag.IsPlaceholder(text) {
					return &rag.Snippet{DocID: d.ID, DocName: name, DocType: d.FileType, Text: text}
				}
			}
		}
	}

	text := h.Extractor.Extract(rag.Source{Name: name, Type: "docx"})
	if rag.IsPlaceholder(text) {
		return nil
	}
	return &rag.Snippet{DocName: name, DocType: "docx", Text: text}
}
