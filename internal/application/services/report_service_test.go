package services

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

func newReportFixture(t *testing.T) (*ReportService, *fakeTaskRepo, *fakeProjectRepo, *entities.Project) {
	t.Helper()
	taskRepo := newFakeTaskRepo()
	projectRepo := newFakeProjectRepo()
	project := &entities.Project{ID: uuid.New(), Name: "Launch"}
	if err := projectRepo.Create(context.Background(), project); err != nil {
		t.Fatal(err)
	}
	svc := NewReportService(taskRepo, projectRepo, logger.Nop())
	return svc, taskRepo, projectRepo, project
}

func addReportTask(t *testing.T, repo *fakeTaskRepo, projectID uuid.UUID, content string, stage entities.Stage, assignees ...string) *entities.Task {
	t.Helper()
	task, err := entities.NewTask(projectID, content)
	if err != nil {
		t.Fatal(err)
	}
	task.Stage = stage
	task.Progress = stage.Column()
	task.AssignedTo = pq.StringArray(assignees)
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	return task
}

func TestDashboardCountsStageNotColumn(t *testing.T) {
	svc, taskRepo, _, project := newReportFixture(t)

	addReportTask(t, taskRepo, project.ID, "done", entities.StageCompleted)
	// Dragged into the completed column but still mid-pipeline.
	parked := addReportTask(t, taskRepo, project.ID, "parked", entities.StageCoding)
	if err := taskRepo.UpdateProgress(context.Background(), parked.ID, entities.ProgressCompleted); err != nil {
		t.Fatal(err)
	}
	addReportTask(t, taskRepo, project.ID, "fresh", entities.StageRequirement)
	addReportTask(t, taskRepo, project.ID, "review", entities.StageReview)

	report, err := svc.Dashboard(context.Background(), ports.DashboardFilter{ProjectID: &project.ID})
	if err != nil {
		t.Fatalf("Dashboard() error = %v", err)
	}

	if report.TotalTasks != 4 {
		t.Errorf("TotalTasks = %d, want 4", report.TotalTasks)
	}
	if report.CompletedTasks != 1 {
		t.Errorf("CompletedTasks = %d, want 1 (column drag must not count)", report.CompletedTasks)
	}
	if report.CompletionPercentage != 25 {
		t.Errorf("CompletionPercentage = %d, want 25", report.CompletionPercentage)
	}

	dist := map[string]int{}
	for _, s := range report.StatusDistribution {
		dist[s.Name] = s.Value
	}
	if dist[string(entities.BucketTodo)] != 1 {
		t.Errorf("To Do bucket = %d, want 1", dist[string(entities.BucketTodo)])
	}
	if dist[string(entities.BucketInProgress)] != 2 {
		t.Errorf("In Progress bucket = %d, want 2", dist[string(entities.BucketInProgress)])
	}
	if dist[string(entities.BucketCompleted)] != 1 {
		t.Errorf("Completed bucket = %d, want 1", dist[string(entities.BucketCompleted)])
	}
}

func TestDashboardMemberWorkload(t *testing.T) {
	svc, taskRepo, _, project := newReportFixture(t)

	addReportTask(t, taskRepo, project.ID, "one", entities.StageCompleted, "ada")
	addReportTask(t, taskRepo, project.ID, "two", entities.StageCoding, "ada", "bob")
	addReportTask(t, taskRepo, project.ID, "three", entities.StageDesign, "bob")

	report, err := svc.Dashboard(context.Background(), ports.DashboardFilter{ProjectID: &project.ID})
	if err != nil {
		t.Fatal(err)
	}

	if len(report.MemberWorkload) != 2 {
		t.Fatalf("MemberWorkload len = %d, want 2", len(report.MemberWorkload))
	}
	// Sorted by name: ada first.
	ada := report.MemberWorkload[0]
	if ada.Name != "ada" || ada.Total != 2 || ada.Completed != 1 {
		t.Errorf("ada workload = %+v", ada)
	}
	bob := report.MemberWorkload[1]
	if bob.Name != "bob" || bob.Total != 2 || bob.Completed != 0 {
		t.Errorf("bob workload = %+v", bob)
	}
}

func TestDashboardMemberFilter(t *testing.T) {
	svc, taskRepo, _, project := newReportFixture(t)

	addReportTask(t, taskRepo, project.ID, "one", entities.StageCoding, "ada")
	addReportTask(t, taskRepo, project.ID, "two", entities.StageCoding, "bob")

	member := "Ada" // case-insensitive
	report, err := svc.Dashboard(context.Background(), ports.DashboardFilter{ProjectID: &project.ID, Member: &member})
	if err != nil {
		t.Fatal(err)
	}

	if report.TotalTasks != 1 {
		t.Errorf("TotalTasks = %d, want 1", report.TotalTasks)
	}
}

func TestDashboardUpcomingDeadlinesSorted(t *testing.T) {
	svc, taskRepo, _, project := newReportFixture(t)

	later := addReportTask(t, taskRepo, project.ID, "later", entities.StageCoding)
	soon := addReportTask(t, taskRepo, project.ID, "soon", entities.StageCoding)
	overdue := addReportTask(t, taskRepo, project.ID, "overdue", entities.StageCoding)

	in5 := time.Now().AddDate(0, 0, 5)
	in2 := time.Now().AddDate(0, 0, 2)
	past := time.Now().AddDate(0, 0, -1)
	later.DueDate, soon.DueDate, overdue.DueDate = &in5, &in2, &past
	for _, task := range []*entities.Task{later, soon, overdue} {
		if err := taskRepo.Update(context.Background(), task); err != nil {
			t.Fatal(err)
		}
	}

	report, err := svc.Dashboard(context.Background(), ports.DashboardFilter{ProjectID: &project.ID})
	if err != nil {
		t.Fatal(err)
	}

	if len(report.UpcomingDeadlines) != 2 {
		t.Fatalf("UpcomingDeadlines len = %d, want 2 (overdue excluded)", len(report.UpcomingDeadlines))
	}
	if report.UpcomingDeadlines[0].ID != soon.ID {
		t.Error("deadlines not sorted soonest-first")
	}
}

func TestExportCSV(t *testing.T) {
	svc, taskRepo, _, project := newReportFixture(t)

	task := addReportTask(t, taskRepo, project.ID, "Ship it, now", entities.StageTesting, "ada", "bob")
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	task.DueDate = &due
	if err := taskRepo.Update(context.Background(), task); err != nil {
		t.Fatal(err)
	}

	data, err := svc.ExportCSV(context.Background(), project.ID)
	if err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("records = %d, want header + 1 row", len(records))
	}
	if records[0][0] != "Task" {
		t.Errorf("header = %v", records[0])
	}
	row := records[1]
	if row[0] != "Ship it, now" {
		t.Errorf("content cell = %q, comma must survive quoting", row[0])
	}
	if row[2] != "testing" {
		t.Errorf("stage cell = %q", row[2])
	}
	if row[6] != "2026-09-15" {
		t.Errorf("due date cell = %q", row[6])
	}
	if row[7] != "ada; bob" {
		t.Errorf("assignees cell = %q", row[7])
	}
}

func TestExportCSVUnknownProject(t *testing.T) {
	svc, _, _, _ := newReportFixture(t)
	if _, err := svc.ExportCSV(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error for unknown project")
	}
}

func TestTimelineBars(t *testing.T) {
	svc, taskRepo, _, project := newReportFixture(t)

	month := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	inside := addReportTask(t, taskRepo, project.ID, "inside", entities.StageCoding)
	inside.CreatedAt = time.Date(2026, 8, 5, 10, 0, 0, 0, time.UTC)
	due1 := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)
	inside.DueDate = &due1

	spanning := addReportTask(t, taskRepo, project.ID, "spanning", entities.StageCoding)
	spanning.CreatedAt = time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC)
	due2 := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	spanning.DueDate = &due2

	outside := addReportTask(t, taskRepo, project.ID, "outside", entities.StageCoding)
	outside.CreatedAt = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	due3 := time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC)
	outside.DueDate = &due3

	noDue := addReportTask(t, taskRepo, project.ID, "no due date", entities.StageCoding)

	for _, task := range []*entities.Task{inside, spanning, outside, noDue} {
		if err := taskRepo.Update(context.Background(), task); err != nil {
			t.Fatal(err)
		}
	}

	report, err := svc.Timeline(context.Background(), month, &project.ID)
	if err != nil {
		t.Fatalf("Timeline() error = %v", err)
	}

	if report.TotalDays != 31 {
		t.Errorf("TotalDays = %d, want 31", report.TotalDays)
	}
	if len(report.Projects) != 1 {
		t.Fatalf("Projects len = %d, want 1", len(report.Projects))
	}

	bars := map[string]ports.TimelineBar{}
	for _, b := range report.Projects[0].Bars {
		bars[b.Name] = b
	}

	if len(bars) != 3 {
		t.Fatalf("bars = %d, want 3 (task without due date skipped)", len(bars))
	}

	b := bars["inside"]
	if b.Hidden {
		t.Error("inside bar hidden")
	}
	if b.OffsetDays != 4 || b.SpanDays != 8 {
		t.Errorf("inside bar = offset %d span %d, want offset 4 span 8", b.OffsetDays, b.SpanDays)
	}

	b = bars["spanning"]
	if b.Hidden {
		t.Error("spanning bar hidden")
	}
	if b.OffsetDays != 0 || b.SpanDays != 31 {
		t.Errorf("spanning bar = offset %d span %d, want clamped to full month", b.OffsetDays, b.SpanDays)
	}

	if !bars["outside"].Hidden {
		t.Error("bar outside the month must be hidden")
	}
}
