package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/preparly/taxassist/internal/store"
	"github.com/preparly/taxassist/models"
)

type ProjectsHandler struct {
	Store *store.Store
}

func (h *ProjectsHandler) Register(g *echo.Group, secret []byte) {
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, secret) })
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/documents", h.documents)
}

func (h *ProjectsHandler) list(c echo.Context) error {
	items, err := h.Store.ListProjects(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []models.Project{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *ProjectsHandler) create(c echo.Context) error {
	var req CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name required")
	}
	p, err := h.Store.CreateProject(c.Request().Context(), models.Project{
		Name:     req.Name,
		Clients:  req.Clients,
		Services: req.Services,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *ProjectsHandler) get(c echo.Context) error {
	p, err := h.Store.GetProject(c.Request().Context(), c.Param("id"))
	if errors.Is(err, models.ErrProjectNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectsHandler) update(c echo.Context) error {
	var p models.Project
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = c.Param("id")
	err := h.Store.UpdateProject(c.Request().Context(), p)
	if errors.Is(err, models.ErrProjectNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProjectsHandler) delete(c echo.Context) error {
	err := h.Store.DeleteProject(c.Request().Context(), c.Param("id"))
	if errors.Is(err, models.ErrProjectNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProjectsHandler) documents(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.Store.GetProject(c.Request().Context(), id); err != nil {
		if errors.Is(err, models.ErrProjectNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	docs, err := h.Store.ListDocuments(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}
