package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/preparly/taxassist/internal/rag"
	"github.com/preparly/taxassist/internal/store"
	"github.com/preparly/taxassist/models"
)

// maxUploadBytes caps multipart document uploads.
const maxUploadBytes = 25 << 20

type DocumentsHandler struct {
	Store     *store.Store
	Extractor rag.TextExtractor
}

func (h *DocumentsHandler) Register(g *echo.Group, secret []byte) {
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, secret) })
	g.GET("", h.list)
	g.POST("", h.upload)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/download", h.download)
}

func (h *DocumentsHandler) list(c echo.Context) error {
	docs, err := h.Store.ListDocuments(c.Request().Context(), c.QueryParam("project_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// upload accepts a multipart form with a "file" part plus project_id and
// optional description fields.
func (h *DocumentsHandler) upload(c echo.Context) error {
	// Path param wins on the project-scoped route.
	projectID := c.Param("id")
	if projectID == "" {
		projectID = c.FormValue("project_id")
	}
	if projectID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project_id required")
	}
	if _, err := h.Store.GetProject(c.Request().Context(), projectID); err != nil {
		if errors.Is(err, models.ErrProjectNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file required")
	}
	if fh.Size > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}
	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	defer f.Close()
	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if len(content) > maxUploadBytes {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "file too large")
	}

	doc, err := h.Store.CreateDocument(c.Request().Context(), models.Document{
		FileName:    fh.Filename,
		FileType:    strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), "."),
		ProjectID:   projectID,
		Description: c.FormValue("description"),
	}, content)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, doc)
}

// get returns document metadata, or the extracted plain text when the
// text_only query flag is set.
func (h *DocumentsHandler) get(c echo.Context) error {
	doc, err := h.Store.GetDocument(c.Request().Context(), c.Param("id"))
	if errors.Is(err, models.ErrDocumentNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if c.QueryParam("download") == "true" {
		return h.sendContent(c, doc)
	}
	if c.QueryParam("text_only") == "true" {
		text := h.Extractor.Extract(docSource(h.Store, c, doc))
		return c.JSON(http.StatusOK, map[string]string{
			"doc_id":    doc.ID,
			"file_name": doc.FileName,
			"text":      text,
		})
	}
	return c.JSON(http.StatusOK, doc)
}

func (h *DocumentsHandler) download(c echo.Context) error {
	doc, err := h.Store.GetDocument(c.Request().Context(), c.Param("id"))
	if errors.Is(err, models.ErrDocumentNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return h.sendContent(c, doc)
}

func (h *DocumentsHandler) sendContent(c echo.Context, doc models.Document) error {
	content, err := h.Store.GetDocumentContent(c.Request().Context(), doc.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.FileName+`"`)
	return c.Blob(http.StatusOK, "application/octet-stream", content)
}

func (h *DocumentsHandler) update(c echo.Context) error {
	var d models.Document
	if err := c.Bind(&d); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	d.ID = c.Param("id")
	err := h.Store.UpdateDocument(c.Request().Context(), d)
	if errors.Is(err, models.ErrDocumentNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, d)
}

func (h *DocumentsHandler) delete(c echo.Context) error {
	err := h.Store.DeleteDocument(c.Request().Context(), c.Param("id"))
	if errors.Is(err, models.ErrDocumentNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// docSource adapts a stored document into an extraction source with lazy
// byte loading.
func docSource(st *store.Store, c echo.Context, doc models.Document) rag.Source {
	ctx := c.Request().Context()
	return rag.Source{
		ID:           doc.ID,
		Name:         doc.FileName,
		Type:         doc.FileType,
		LastModified: doc.LastModified,
		Raw: func() ([]byte, error) {
			return st.GetDocumentContent(ctx, doc.ID)
		},
	}
}
