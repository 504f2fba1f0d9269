package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/flowboard/core/internal/application/services"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// ReportHandler handles dashboard, export and timeline requests
type ReportHandler struct {
	reportService *services.ReportService
	logger        *logger.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// Dashboard returns the metrics panel, optionally narrowed to a project
// and/or an assignee.
func (h *ReportHandler) Dashboard(c echo.Context) error {
	filter := ports.DashboardFilter{}

	if p := c.QueryParam("project_id"); p != "" {
		projectID, err := uuid.Parse(p)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid project_id parameter")
		}
		filter.ProjectID = &projectID
	}

	if m := c.QueryParam("member"); m != "" {
		filter.Member = &m
	}

	report, err := h.reportService.Dashboard(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("Dashboard report failed", "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, report)
}

// ExportCSV streams a project's tasks as a CSV attachment
func (h *ReportHandler) ExportCSV(c echo.Context) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	data, err := h.reportService.ExportCSV(c.Request().Context(), projectID)
	if err != nil {
		h.logger.Error("CSV export failed", "error", err, "project_id", projectID)
		return mapServiceError(err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="tasks.csv"`)
	return c.Blob(http.StatusOK, "text/csv", data)
}

// Timeline returns Gantt bars for a month, given as ?month=2026-08.
// Defaults to the current month.
func (h *ReportHandler) Timeline(c echo.Context) error {
	month := time.Now()
	if m := c.QueryParam("month"); m != "" {
		parsed, err := time.Parse("2006-01", m)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid month parameter, expected YYYY-MM")
		}
		month = parsed
	}

	var projectID *uuid.UUID
	if p := c.QueryParam("project_id"); p != "" {
		id, err := uuid.Parse(p)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid project_id parameter")
		}
		projectID = &id
	}

	report, err := h.reportService.Timeline(c.Request().Context(), month, projectID)
	if err != nil {
		h.logger.Error("Timeline report failed", "error", err)
		return mapServiceError(err)
	}

	return c.JSON(http.StatusOK, report)
}
