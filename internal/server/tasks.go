package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/preparly/taxassist/internal/fixtures"
	"github.com/preparly/taxassist/internal/store"
	"github.com/preparly/taxassist/models"
)

type TasksHandler struct {
	Store *store.Store
}

func (h *TasksHandler) Register(g *echo.Group, secret []byte) {
	g.Use(func(next echo.HandlerFunc) echo.HandlerFunc { return withAuth(next, secret) })
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.PUT("/:id/status", h.updateStatus)
	g.DELETE("/:id", h.delete)
	g.GET("/:id/documents", h.documents)
	g.GET("/:id/preset-questions", h.presetQuestions)
}

func (h *TasksHandler) list(c echo.Context) error {
	items, err := h.Store.ListTasks(c.Request().Context(), c.QueryParam("assigned_to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []models.Task{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *TasksHandler) create(c echo.Context) error {
	var req CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.ProjectID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "project_id required")
	}
	if _, err := h.Store.GetProject(c.Request().Context(), req.ProjectID); err != nil {
		if errors.Is(err, models.ErrProjectNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	t, err := h.Store.CreateTask(c.Request().Context(), models.Task{
		ProjectID:   req.ProjectID,
		AssignedTo:  req.AssignedTo,
		Client:      req.Client,
		TaxForm:     req.TaxForm,
		Documents:   req.Documents,
		Description: req.Description,
		DueDate:     req.DueDate,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TasksHandler) get(c echo.Context) error {
	t, err := h.Store.GetTask(c.Request().Context(), c.Param("id"))
	if errors.Is(err, models.ErrTaskNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TasksHandler) update(c echo.Context) error {
	var t models.Task
	if err := c.Bind(&t); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	t.ID = c.Param("id")
	if t.Status != "" && !validStatus(t.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	err := h.Store.UpdateTask(c.Request().Context(), t)
	if errors.Is(err, models.ErrTaskNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TasksHandler) updateStatus(c echo.Context) error {
	var req UpdateTaskStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	status := models.TaskStatus(req.Status)
	if !validStatus(status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	err := h.Store.UpdateTaskStatus(c.Request().Context(), c.Param("id"), status)
	if errors.Is(err, models.ErrTaskNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]string{"task_id": c.Param("id"), "status": req.Status})
}

func (h *TasksHandler) delete(c echo.Context) error {
	err := h.Store.DeleteTask(c.Request().Context(), c.Param("id"))
	if errors.Is(err, models.ErrTaskNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

// documents resolves the task's attached document ids to metadata records,
// preserving the task's id order.
func (h *TasksHandler) documents(c echo.Context) error {
	t, err := h.Store.GetTask(c.Request().Context(), c.Param("id"))
	if errors.Is(err, models.ErrTaskNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	docs, err := h.Store.GetDocumentsByIDs(c.Request().Context(), t.Documents)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if docs == nil {
		docs = []models.Document{}
	}
	return c.JSON(http.StatusOK, docs)
}

// byProject lists the tasks belonging to one project.
func (h *TasksHandler) byProject(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.Store.GetProject(c.Request().Context(), id); err != nil {
		if errors.Is(err, models.ErrProjectNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	items, err := h.Store.ListTasksByProject(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if items == nil {
		items = []models.Task{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *TasksHandler) presetQuestions(c echo.Context) error {
	t, err := h.Store.GetTask(c.Request().Context(), c.Param("id"))
	if errors.Is(err, models.ErrTaskNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string][]string{"questions": fixtures.PresetQuestions(t.TaxForm)})
}

func validStatus(s models.TaskStatus) bool {
	switch s {
	case models.TaskStatusNotStarted, models.TaskStatusInProgress, models.TaskStatusReadyForReview,
		models.TaskStatusUnderReview, models.TaskStatusCompleted:
		return true
	}
	return false
}
