package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flowboard/core/internal/application/services"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// TaskHandler handles task CRUD and the review workflow
type TaskHandler struct {
	taskService     *services.TaskService
	approvalService *services.ApprovalService
	boardService    *services.BoardService
	logger          *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, approvalService *services.ApprovalService, boardService *services.BoardService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService:     taskService,
		approvalService: approvalService,
		boardService:    boardService,
		logger:          logger,
	}
}

// CreateTask handles task creation
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create task failed", "error", err)
		return mapServiceError(err)
	}

	h.boardService.Refresh(task.ProjectID, task)
	return c.JSON(http.StatusCreated, task)
}

// GetTask handles getting a task by ID
func (h *TaskHandler) GetTask(c echo.Context) error {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), taskID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, task)
}

// ListProjectTasks handles listing a project's tasks
func (h *TaskHandler) ListProjectTasks(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	tasks, err := h.taskService.ListProjectTasks(c.Request().Context(), projectID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}

// UpdateTask handles a content edit. The review status resets to pending.
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), taskID, req)
	if err != nil {
		h.logger.Error("Update task failed", "error", err, "task_id", taskID)
		return mapServiceError(err)
	}

	h.boardService.Refresh(task.ProjectID, task)
	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task permanently
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.GetTask(c.Request().Context(), taskID)
	if err != nil {
		return mapServiceError(err)
	}

	if _, err := h.boardService.DeleteTask(c.Request().Context(), task.ProjectID, taskID); err != nil {
		h.logger.Error("Delete task failed", "error", err, "task_id", taskID)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, ports.MessageResponse{Message: "Task deleted successfully"})
}

// ApproveTask advances a task one pipeline stage. Admin only.
func (h *TaskHandler) ApproveTask(c echo.Context) error {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	task, err := h.approvalService.Approve(c.Request().Context(), getUserIDFromContext(c), taskID)
	if err != nil {
		h.logger.Error("Approve task failed", "error", err, "task_id", taskID)
		return mapServiceError(err)
	}

	h.boardService.Refresh(task.ProjectID, task)
	return c.JSON(http.StatusOK, task)
}

// RejectTask marks the current stage rejected. Admin only, comment required.
func (h *TaskHandler) RejectTask(c echo.Context) error {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.RejectTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.approvalService.Reject(c.Request().Context(), getUserIDFromContext(c), taskID, req.Comment)
	if err != nil {
		h.logger.Error("Reject task failed", "error", err, "task_id", taskID)
		return mapServiceError(err)
	}

	h.boardService.Refresh(task.ProjectID, task)
	return c.JSON(http.StatusOK, task)
}

// ReapplyTask puts a rejected task back into the review queue
func (h *TaskHandler) ReapplyTask(c echo.Context) error {
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	task, err := h.approvalService.Reapply(c.Request().Context(), taskID)
	if err != nil {
		h.logger.Error("Reapply task failed", "error", err, "task_id", taskID)
		return mapServiceError(err)
	}

	h.boardService.Refresh(task.ProjectID, task)
	return c.JSON(http.StatusOK, task)
}

// PendingReview lists a project's tasks awaiting an admin decision
func (h *TaskHandler) PendingReview(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	tasks, err := h.approvalService.PendingReview(c.Request().Context(), projectID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, tasks)
}
