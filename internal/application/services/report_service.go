package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// ReportService produces the dashboard aggregates, the CSV export and the
// timeline bars. Everything here is a pure projection over the task store.
type ReportService struct {
	taskRepo    ports.TaskRepository
	projectRepo ports.ProjectRepository
	logger      *logger.Logger
}

// NewReportService creates a new report service
func NewReportService(taskRepo ports.TaskRepository, projectRepo ports.ProjectRepository, logger *logger.Logger) *ReportService {
	return &ReportService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// Dashboard computes the metrics panel: totals, completion percentage,
// stage-bucket distribution, upcoming deadlines and per-member workload.
// Completion counts the pipeline stage, not the board column, so a task
// dragged into the completed column does not count as done.
func (s *ReportService) Dashboard(ctx context.Context, filter ports.DashboardFilter) (*ports.DashboardReport, error) {
	tasks, err := s.collectTasks(ctx, filter.ProjectID)
	if err != nil {
		return nil, err
	}

	if filter.Member != nil && *filter.Member != "" {
		filtered := tasks[:0]
		for _, t := range tasks {
			if assignedTo(t, *filter.Member) {
				filtered = append(filtered, t)
			}
		}
		tasks = filtered
	}

	report := &ports.DashboardReport{}
	report.TotalTasks = len(tasks)

	buckets := map[entities.DisplayBucket]int{}
	workload := map[string]*ports.MemberWorkload{}

	for _, t := range tasks {
		if t.Stage == entities.StageCompleted {
			report.CompletedTasks++
		}
		buckets[t.Stage.Bucket()]++

		if t.IsDueSoon() {
			report.UpcomingDeadlines = append(report.UpcomingDeadlines, t)
		}

		for _, member := range t.AssignedTo {
			w, ok := workload[member]
			if !ok {
				w = &ports.MemberWorkload{Name: member}
				workload[member] = w
			}
			w.Total++
			if t.Stage == entities.StageCompleted {
				w.Completed++
			}
		}
	}

	if report.TotalTasks > 0 {
		report.CompletionPercentage = report.CompletedTasks * 100 / report.TotalTasks
	}

	for _, bucket := range []entities.DisplayBucket{entities.BucketTodo, entities.BucketInProgress, entities.BucketCompleted} {
		report.StatusDistribution = append(report.StatusDistribution, ports.StatusSlice{
			Name:  string(bucket),
			Value: buckets[bucket],
		})
	}

	sort.Slice(report.UpcomingDeadlines, func(i, j int) bool {
		return report.UpcomingDeadlines[i].DueDate.Before(*report.UpcomingDeadlines[j].DueDate)
	})

	for _, w := range workload {
		report.MemberWorkload = append(report.MemberWorkload, *w)
	}
	sort.Slice(report.MemberWorkload, func(i, j int) bool {
		return report.MemberWorkload[i].Name < report.MemberWorkload[j].Name
	})

	return report, nil
}

// ExportCSV renders a project's tasks as a CSV document with a fixed header
// row. Multi-valued fields are joined with "; ".
func (s *ReportService) ExportCSV(ctx context.Context, projectID uuid.UUID) ([]byte, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"Task", "Description", "Stage", "Progress", "Status", "Priority", "Due Date", "Assigned To", "Created At"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, t := range tasks {
		dueDate := ""
		if t.DueDate != nil {
			dueDate = t.DueDate.Format("2006-01-02")
		}
		record := []string{
			t.Content,
			t.Description,
			string(t.Stage),
			string(t.Progress),
			string(t.Status),
			string(t.Priority),
			dueDate,
			strings.Join(t.AssignedTo, "; "),
			t.CreatedAt.Format("2006-01-02"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	s.logger.Info("CSV export generated", "project_id", projectID, "project", project.Name, "tasks", len(tasks))
	return buf.Bytes(), nil
}

// Timeline builds Gantt bars for the given month. Each task with a due date
// gets a bar from its creation day to its due day, clamped to the month;
// tasks that do not intersect the month come back hidden so clients can
// still list them. Day offsets are zero-based.
func (s *ReportService) Timeline(ctx context.Context, month time.Time, projectID *uuid.UUID) (*ports.TimelineReport, error) {
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)
	totalDays := int(monthEnd.Sub(monthStart).Hours() / 24)

	var projects []*entities.Project
	if projectID != nil {
		project, err := s.projectRepo.GetByID(ctx, *projectID)
		if err != nil {
			return nil, err
		}
		projects = []*entities.Project{project}
	} else {
		all, err := s.projectRepo.List(ctx, false)
		if err != nil {
			return nil, err
		}
		projects = all
	}

	report := &ports.TimelineReport{
		Month:     monthStart,
		TotalDays: totalDays,
	}

	for _, p := range projects {
		tasks, err := s.taskRepo.GetByProject(ctx, p.ID)
		if err != nil {
			return nil, err
		}

		tp := ports.TimelineProject{ProjectID: p.ID, ProjectName: p.Name}
		for _, t := range tasks {
			if t.DueDate == nil {
				continue
			}
			tp.Bars = append(tp.Bars, buildBar(t, monthStart, monthEnd, totalDays))
		}

		if len(tp.Bars) > 0 {
			report.Projects = append(report.Projects, tp)
		}
	}

	return report, nil
}

func buildBar(t *entities.Task, monthStart, monthEnd time.Time, totalDays int) ports.TimelineBar {
	bar := ports.TimelineBar{
		TaskID:   t.ID,
		Name:     t.Content,
		Priority: t.Priority,
	}

	start := t.CreatedAt
	end := *t.DueDate
	if end.Before(start) {
		end = start
	}

	if end.Before(monthStart) || !start.Before(monthEnd) {
		bar.Hidden = true
		return bar
	}

	if start.Before(monthStart) {
		start = monthStart
	}
	if !end.Before(monthEnd) {
		end = monthEnd.Add(-24 * time.Hour)
	}

	bar.OffsetDays = dayOfMonth(start, monthStart)
	bar.SpanDays = dayOfMonth(end, monthStart) - bar.OffsetDays + 1
	if bar.OffsetDays+bar.SpanDays > totalDays {
		bar.SpanDays = totalDays - bar.OffsetDays
	}
	return bar
}

func dayOfMonth(t, monthStart time.Time) int {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return int(day.Sub(monthStart).Hours() / 24)
}

func (s *ReportService) collectTasks(ctx context.Context, projectID *uuid.UUID) ([]*entities.Task, error) {
	if projectID != nil {
		return s.taskRepo.GetByProject(ctx, *projectID)
	}
	return s.taskRepo.List(ctx)
}

func assignedTo(t *entities.Task, member string) bool {
	for _, m := range t.AssignedTo {
		if strings.EqualFold(m, member) {
			return true
		}
	}
	return false
}
