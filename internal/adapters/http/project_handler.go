package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flowboard/core/internal/application/services"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// ProjectHandler handles project-related requests
type ProjectHandler struct {
	projectService *services.ProjectService
	logger         *logger.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(projectService *services.ProjectService, logger *logger.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// CreateProject handles project creation
func (h *ProjectHandler) CreateProject(c echo.Context) error {
	var req ports.CreateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project, err := h.projectService.CreateProject(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create project failed", "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusCreated, project)
}

// GetProject handles getting a project by ID
func (h *ProjectHandler) GetProject(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	project, err := h.projectService.GetProject(c.Request().Context(), projectID)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, project)
}

// ListProjects handles listing projects. Archived projects are hidden
// unless include_archived=true.
func (h *ProjectHandler) ListProjects(c echo.Context) error {
	includeArchived := c.QueryParam("include_archived") == "true"

	projects, err := h.projectService.ListProjects(c.Request().Context(), includeArchived)
	if err != nil {
		h.logger.Error("List projects failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to retrieve projects")
	}

	return c.JSON(http.StatusOK, projects)
}

// UpdateProject handles a partial project update
func (h *ProjectHandler) UpdateProject(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req ports.UpdateProjectRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project, err := h.projectService.UpdateProject(c.Request().Context(), projectID, req)
	if err != nil {
		h.logger.Error("Update project failed", "error", err, "project_id", projectID)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, project)
}

// ArchiveProject hides a project from active listings
func (h *ProjectHandler) ArchiveProject(c echo.Context) error {
	return h.setArchived(c, true)
}

// UnarchiveProject restores an archived project
func (h *ProjectHandler) UnarchiveProject(c echo.Context) error {
	return h.setArchived(c, false)
}

func (h *ProjectHandler) setArchived(c echo.Context, archived bool) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	project, err := h.projectService.SetArchived(c.Request().Context(), projectID, archived)
	if err != nil {
		h.logger.Error("Set project archive state failed", "error", err, "project_id", projectID)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, project)
}
