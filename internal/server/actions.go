package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/preparly/taxassist/internal/functions"
	"github.com/preparly/taxassist/internal/store"
	"github.com/preparly/taxassist/models"
)

// ActionsHandler executes and lists the suggested actions for a task.
type ActionsHandler struct {
	Store     *store.Store
	Functions *functions.Client
}

func (h *ActionsHandler) Register(g *echo.Group, secret []byte) {
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, secret) })
	g.POST("/:id/action", h.execute)
	g.GET("/:id/available-actions", h.available)
}

func (h *ActionsHandler) execute(c echo.Context) error {
	var req ActionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ActionID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "action_id required")
	}

	ctx := c.Request().Context()
	task, err := h.Store.GetTask(ctx, c.Param("id"))
	if errors.Is(err, models.ErrTaskNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	docs, err := h.Store.GetDocumentsByIDs(ctx, task.Documents)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	result := h.Functions.Execute(ctx, req.ActionID, req.Params, task, docs)
	actionExecutionsTotal.WithLabelValues(req.ActionID, outcomeLabel(result.Success)).Inc()
	return c.JSON(http.StatusOK, result)
}

func (h *ActionsHandler) available(c echo.Context) error {
	if _, err := h.Store.GetTask(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, models.ErrTaskNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string][]functions.Definition{"actions": functions.Available()})
}
