package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// TaskService handles task CRUD. Stage transitions live in ApprovalService
// and column moves in BoardService; this service never touches either field
// after creation.
type TaskService struct {
	taskRepo    ports.TaskRepository
	projectRepo ports.ProjectRepository
	logger      *logger.Logger
}

// NewTaskService creates a new task service
func NewTaskService(taskRepo ports.TaskRepository, projectRepo ports.ProjectRepository, logger *logger.Logger) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// CreateTask creates a task in its fixed starting state: requirement stage,
// todo column, pending review.
func (s *TaskService) CreateTask(ctx context.Context, req ports.CreateTaskRequest) (*entities.Task, error) {
	project, err := s.projectRepo.GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.IsArchived {
		return nil, entities.ErrProjectArchived
	}

	task, err := entities.NewTask(req.ProjectID, req.Content)
	if err != nil {
		return nil, err
	}

	task.Description = req.Description
	if req.Priority != "" {
		if !req.Priority.IsValid() {
			return nil, fmt.Errorf("invalid priority: %s", req.Priority)
		}
		task.Priority = req.Priority
	}
	task.DueDate = req.DueDate
	if req.AssignedTo != nil {
		task.AssignedTo = pq.StringArray(req.AssignedTo)
	}
	if req.FileLinks != nil {
		task.FileLinks = pq.StringArray(req.FileLinks)
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	s.logger.Info("Task created", "task_id", task.ID, "project_id", task.ProjectID)
	return task, nil
}

// GetTask returns a single task by ID.
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*entities.Task, error) {
	return s.taskRepo.GetByID(ctx, id)
}

// ListProjectTasks returns all tasks of a project in creation order.
func (s *TaskService) ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]*entities.Task, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.taskRepo.GetByProject(ctx, projectID)
}

// UpdateTask applies a content edit. Any edit resets the review status to
// pending and clears a rejection comment; stage and progress are untouched.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, req ports.UpdateTaskRequest) (*entities.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	project, err := s.projectRepo.GetByID(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	if project.IsArchived {
		return nil, entities.ErrProjectArchived
	}

	if req.Content != nil {
		if *req.Content == "" {
			return nil, entities.ErrEmptyTitle
		}
		task.Content = *req.Content
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		if !req.Priority.IsValid() {
			return nil, fmt.Errorf("invalid priority: %s", *req.Priority)
		}
		task.Priority = *req.Priority
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.AssignedTo != nil {
		task.AssignedTo = pq.StringArray(req.AssignedTo)
	}
	if req.FileLinks != nil {
		task.FileLinks = pq.StringArray(req.FileLinks)
	}

	task.MarkEdited()

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	s.logger.Info("Task updated, review status reset", "task_id", task.ID)
	return task, nil
}

// DeleteTask removes a task permanently.
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("Task deleted", "task_id", id)
	return nil
}
