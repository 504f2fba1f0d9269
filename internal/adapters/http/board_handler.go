package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flowboard/core/internal/application/services"
	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// BoardHandler handles the kanban board endpoints
type BoardHandler struct {
	boardService *services.BoardService
	logger       *logger.Logger
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService *services.BoardService, logger *logger.Logger) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		logger:       logger,
	}
}

// GetBoard loads a project's board from storage and returns the three
// columns. Loading resets any session ordering.
func (h *BoardHandler) GetBoard(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	cols, err := h.boardService.Load(c.Request().Context(), projectID)
	if err != nil {
		h.logger.Error("Load board failed", "error", err, "project_id", projectID)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, cols)
}

// MoveTask handles a drag between board positions. The response carries the
// settled board and whether the move was applied, reverted or discarded.
func (h *BoardHandler) MoveTask(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.MoveTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.boardService.MoveTask(c.Request().Context(), projectID, req)
	if err != nil {
		h.logger.Error("Move task failed", "error", err, "task_id", req.TaskID)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// FilterBoard returns a filtered view of the loaded board without touching
// the underlying ordering.
func (h *BoardHandler) FilterBoard(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	spec := entities.TaskFilterSpec{
		Stage:    entities.Stage(c.QueryParam("stage")),
		Status:   entities.ReviewStatus(c.QueryParam("status")),
		Priority: entities.Priority(c.QueryParam("priority")),
		Search:   c.QueryParam("search"),
	}

	if spec.Stage != "" && !spec.Stage.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid stage parameter")
	}
	if spec.Status != "" && !spec.Status.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid status parameter")
	}
	if spec.Priority != "" && !spec.Priority.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid priority parameter")
	}

	cols, err := h.boardService.Filter(projectID, spec)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, cols)
}
