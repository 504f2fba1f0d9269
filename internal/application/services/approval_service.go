package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// ApprovalService is the admin gate of the pipeline. Approving a pending
// task advances its stage (and realigns progress); rejecting records a
// mandatory comment; reapplying puts a rejected task back in the review
// queue. The admin check fetches the acting user fresh on every call so a
// demoted or deactivated admin loses the gate immediately.
type ApprovalService struct {
	taskRepo ports.TaskRepository
	userRepo ports.UserRepository
	logger   *logger.Logger
}

// NewApprovalService creates a new approval service
func NewApprovalService(taskRepo ports.TaskRepository, userRepo ports.UserRepository, logger *logger.Logger) *ApprovalService {
	return &ApprovalService{
		taskRepo: taskRepo,
		userRepo: userRepo,
		logger:   logger,
	}
}

// Approve advances a task one pipeline stage.
//
// At the documentation stage approval completes the task: stage becomes
// completed, review status approved, progress completed. At every earlier
// stage the task moves to the next stage with status approved and progress
// inProgress. A completed task cannot be approved again.
func (s *ApprovalService) Approve(ctx context.Context, actorID, taskID uuid.UUID) (*entities.Task, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.Stage.IsTerminal() {
		return nil, entities.ErrStageTerminal
	}

	nextStage, err := task.Stage.Next()
	if err != nil {
		return nil, err
	}

	var progress entities.Progress
	if nextStage.IsTerminal() {
		progress = entities.ProgressCompleted
	} else {
		progress = entities.ProgressInProgress
	}

	if err := s.taskRepo.UpdateReview(ctx, taskID, nextStage, progress, entities.ReviewApproved, nil); err != nil {
		return nil, fmt.Errorf("failed to approve task: %w", err)
	}

	task.Stage = nextStage
	task.Progress = progress
	task.Status = entities.ReviewApproved
	task.RejectionComment = nil

	s.logger.Info("Task approved", "task_id", taskID, "stage", nextStage, "approved_by", actorID)
	return task, nil
}

// Reject marks a task's current stage as rejected with a mandatory comment.
// Stage and progress stay where they are.
func (s *ApprovalService) Reject(ctx context.Context, actorID, taskID uuid.UUID, comment string) (*entities.Task, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(comment) == "" {
		return nil, entities.ErrEmptyComment
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.Stage.IsTerminal() {
		return nil, entities.ErrStageTerminal
	}

	if err := s.taskRepo.UpdateReview(ctx, taskID, task.Stage, task.Progress, entities.ReviewRejected, &comment); err != nil {
		return nil, fmt.Errorf("failed to reject task: %w", err)
	}

	task.Status = entities.ReviewRejected
	task.RejectionComment = &comment

	s.logger.Info("Task rejected", "task_id", taskID, "stage", task.Stage, "rejected_by", actorID)
	return task, nil
}

// Reapply resets a rejected task to pending so it re-enters the review
// queue at its current stage. Any signed-in user may reapply.
func (s *ApprovalService) Reapply(ctx context.Context, taskID uuid.UUID) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.Status != entities.ReviewRejected {
		return nil, fmt.Errorf("task is not rejected: %w", entities.ErrInvalidStatus)
	}

	if err := s.taskRepo.UpdateReview(ctx, taskID, task.Stage, task.Progress, entities.ReviewPending, nil); err != nil {
		return nil, fmt.Errorf("failed to reapply task: %w", err)
	}

	task.Status = entities.ReviewPending
	task.RejectionComment = nil

	s.logger.Info("Task resubmitted for review", "task_id", taskID, "stage", task.Stage)
	return task, nil
}

// PendingReview lists a project's tasks awaiting an admin decision.
func (s *ApprovalService) PendingReview(ctx context.Context, projectID uuid.UUID) ([]*entities.Task, error) {
	tasks, err := s.taskRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	pending := make([]*entities.Task, 0)
	for _, t := range tasks {
		if t.Status == entities.ReviewPending && !t.Stage.IsTerminal() {
			pending = append(pending, t)
		}
	}
	return pending, nil
}

// requireAdmin verifies against the user store, not the token, so a role
// change takes effect without waiting for the token to expire.
func (s *ApprovalService) requireAdmin(ctx context.Context, actorID uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return entities.ErrUnauthorized
	}
	if !user.IsAdmin() || !user.IsActive() {
		s.logger.LogSecurityEvent("approval_denied", actorID.String(), "", map[string]interface{}{
			"role":   user.Role,
			"status": user.Status,
		})
		return entities.ErrUnauthorized
	}
	return nil
}
