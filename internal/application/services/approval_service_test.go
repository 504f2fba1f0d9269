package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/infrastructure/logger"
)

func seedUser(t *testing.T, repo *fakeUserRepo, role entities.UserRole, status entities.UserStatus) *entities.User {
	t.Helper()
	user := &entities.User{
		ID:        uuid.New(),
		FirstName: "Test",
		LastName:  "User",
		Email:     uuid.NewString() + "@example.com",
		Role:      role,
		Status:    status,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatal(err)
	}
	return user
}

func seedTask(t *testing.T, repo *fakeTaskRepo, stage entities.Stage, status entities.ReviewStatus) *entities.Task {
	t.Helper()
	task, err := entities.NewTask(uuid.New(), "task at "+string(stage))
	if err != nil {
		t.Fatal(err)
	}
	task.Stage = stage
	task.Progress = stage.Column()
	task.Status = status
	if err := repo.Create(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	return task
}

func newApprovalFixture(t *testing.T) (*ApprovalService, *fakeTaskRepo, *fakeUserRepo, *entities.User) {
	t.Helper()
	taskRepo := newFakeTaskRepo()
	userRepo := newFakeUserRepo()
	admin := seedUser(t, userRepo, entities.UserRoleAdmin, entities.UserStatusActive)
	svc := NewApprovalService(taskRepo, userRepo, logger.Nop())
	return svc, taskRepo, userRepo, admin
}

func TestApproveAdvancesStage(t *testing.T) {
	tests := []struct {
		stage        entities.Stage
		wantStage    entities.Stage
		wantProgress entities.Progress
	}{
		{entities.StageRequirement, entities.StageDesign, entities.ProgressInProgress},
		{entities.StageDesign, entities.StageCoding, entities.ProgressInProgress},
		{entities.StageCoding, entities.StageReview, entities.ProgressInProgress},
		{entities.StageReview, entities.StageTesting, entities.ProgressInProgress},
		{entities.StageTesting, entities.StageDocumentation, entities.ProgressInProgress},
		{entities.StageDocumentation, entities.StageCompleted, entities.ProgressCompleted},
	}

	for _, tt := range tests {
		t.Run(string(tt.stage), func(t *testing.T) {
			svc, taskRepo, _, admin := newApprovalFixture(t)
			task := seedTask(t, taskRepo, tt.stage, entities.ReviewPending)

			got, err := svc.Approve(context.Background(), admin.ID, task.ID)
			if err != nil {
				t.Fatalf("Approve() error = %v", err)
			}

			if got.Stage != tt.wantStage {
				t.Errorf("Stage = %q, want %q", got.Stage, tt.wantStage)
			}
			if got.Progress != tt.wantProgress {
				t.Errorf("Progress = %q, want %q", got.Progress, tt.wantProgress)
			}
			if got.Status != entities.ReviewApproved {
				t.Errorf("Status = %q, want approved", got.Status)
			}

			stored, err := taskRepo.GetByID(context.Background(), task.ID)
			if err != nil {
				t.Fatal(err)
			}
			if stored.Stage != tt.wantStage || stored.Progress != tt.wantProgress {
				t.Errorf("stored (stage, progress) = (%q, %q), want (%q, %q)",
					stored.Stage, stored.Progress, tt.wantStage, tt.wantProgress)
			}
		})
	}
}

func TestApproveCompletedTaskFails(t *testing.T) {
	svc, taskRepo, _, admin := newApprovalFixture(t)
	task := seedTask(t, taskRepo, entities.StageCompleted, entities.ReviewApproved)

	if _, err := svc.Approve(context.Background(), admin.ID, task.ID); !errors.Is(err, entities.ErrStageTerminal) {
		t.Errorf("error = %v, want ErrStageTerminal", err)
	}
}

func TestApproveRequiresAdmin(t *testing.T) {
	svc, taskRepo, userRepo, _ := newApprovalFixture(t)
	task := seedTask(t, taskRepo, entities.StageCoding, entities.ReviewPending)

	staff := seedUser(t, userRepo, entities.UserRoleStaff, entities.UserStatusActive)
	if _, err := svc.Approve(context.Background(), staff.ID, task.ID); !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("staff approve error = %v, want ErrUnauthorized", err)
	}

	inactiveAdmin := seedUser(t, userRepo, entities.UserRoleAdmin, entities.UserStatusInactive)
	if _, err := svc.Approve(context.Background(), inactiveAdmin.ID, task.ID); !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("inactive admin approve error = %v, want ErrUnauthorized", err)
	}

	if _, err := svc.Approve(context.Background(), uuid.New(), task.ID); !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("unknown actor approve error = %v, want ErrUnauthorized", err)
	}

	stored, err := taskRepo.GetByID(context.Background(), task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Stage != entities.StageCoding || stored.Status != entities.ReviewPending {
		t.Error("refused approval must not change the task")
	}
}

func TestApproveChecksRoleFreshly(t *testing.T) {
	svc, taskRepo, userRepo, admin := newApprovalFixture(t)
	task := seedTask(t, taskRepo, entities.StageDesign, entities.ReviewPending)

	// Demote the admin after the fixture handed out their ID; the demotion
	// must bite immediately without any token invalidation.
	admin.Role = entities.UserRoleStaff
	if err := userRepo.Update(context.Background(), admin); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Approve(context.Background(), admin.ID, task.ID); !errors.Is(err, entities.ErrUnauthorized) {
		t.Errorf("demoted admin approve error = %v, want ErrUnauthorized", err)
	}
}

func TestRejectRequiresComment(t *testing.T) {
	svc, taskRepo, _, admin := newApprovalFixture(t)
	task := seedTask(t, taskRepo, entities.StageReview, entities.ReviewPending)

	for _, comment := range []string{"", "   ", "\n"} {
		if _, err := svc.Reject(context.Background(), admin.ID, task.ID, comment); !errors.Is(err, entities.ErrEmptyComment) {
			t.Errorf("Reject(%q) error = %v, want ErrEmptyComment", comment, err)
		}
	}

	stored, err := taskRepo.GetByID(context.Background(), task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.Status != entities.ReviewPending {
		t.Error("refused rejection must not change the task")
	}
}

func TestRejectKeepsStageAndProgress(t *testing.T) {
	svc, taskRepo, _, admin := newApprovalFixture(t)
	task := seedTask(t, taskRepo, entities.StageTesting, entities.ReviewPending)

	got, err := svc.Reject(context.Background(), admin.ID, task.ID, "flaky on CI")
	if err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	if got.Status != entities.ReviewRejected {
		t.Errorf("Status = %q, want rejected", got.Status)
	}
	if got.RejectionComment == nil || *got.RejectionComment != "flaky on CI" {
		t.Error("rejection comment not recorded")
	}
	if got.Stage != entities.StageTesting {
		t.Errorf("Stage = %q, rejection must not move the stage", got.Stage)
	}
	if got.Progress != entities.ProgressInProgress {
		t.Errorf("Progress = %q, rejection must not move the column", got.Progress)
	}
}

func TestReapplyResetsRejectedTask(t *testing.T) {
	svc, taskRepo, _, admin := newApprovalFixture(t)
	task := seedTask(t, taskRepo, entities.StageCoding, entities.ReviewPending)

	if _, err := svc.Reject(context.Background(), admin.ID, task.ID, "missing tests"); err != nil {
		t.Fatal(err)
	}

	got, err := svc.Reapply(context.Background(), task.ID)
	if err != nil {
		t.Fatalf("Reapply() error = %v", err)
	}

	if got.Status != entities.ReviewPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if got.RejectionComment != nil {
		t.Error("rejection comment not cleared on reapply")
	}
	if got.Stage != entities.StageCoding {
		t.Errorf("Stage = %q, reapply must not move the stage", got.Stage)
	}
}

func TestReapplyNonRejectedTaskFails(t *testing.T) {
	svc, taskRepo, _, _ := newApprovalFixture(t)
	task := seedTask(t, taskRepo, entities.StageCoding, entities.ReviewPending)

	if _, err := svc.Reapply(context.Background(), task.ID); err == nil {
		t.Fatal("expected error reapplying a non-rejected task")
	}
}

func TestPendingReviewExcludesCompleted(t *testing.T) {
	svc, taskRepo, _, _ := newApprovalFixture(t)

	projectID := uuid.New()
	pending, _ := entities.NewTask(projectID, "pending one")
	pending.Stage = entities.StageCoding
	done, _ := entities.NewTask(projectID, "done one")
	done.Stage = entities.StageCompleted
	done.Status = entities.ReviewApproved
	rejected, _ := entities.NewTask(projectID, "rejected one")
	rejected.Status = entities.ReviewRejected

	for _, task := range []*entities.Task{pending, done, rejected} {
		if err := taskRepo.Create(context.Background(), task); err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.PendingReview(context.Background(), projectID)
	if err != nil {
		t.Fatalf("PendingReview() error = %v", err)
	}

	if len(got) != 1 || got[0].ID != pending.ID {
		t.Errorf("PendingReview() returned %d tasks, want only the pending one", len(got))
	}
}
