package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/flowboard/core/internal/domain/entities"
	"github.com/flowboard/core/internal/infrastructure/logger"
	"github.com/flowboard/core/internal/ports"
)

// ProjectService handles project operations
type ProjectService struct {
	projectRepo ports.ProjectRepository
	logger      *logger.Logger
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo ports.ProjectRepository, logger *logger.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		logger:      logger,
	}
}

// CreateProject creates a new project
func (s *ProjectService) CreateProject(ctx context.Context, req ports.CreateProjectRequest) (*entities.Project, error) {
	project := &entities.Project{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.logger.Info("Project created", "project_id", project.ID, "name", project.Name)
	return project, nil
}

// GetProject returns a single project by ID.
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*entities.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects returns projects, hiding archived ones unless asked.
func (s *ProjectService) ListProjects(ctx context.Context, includeArchived bool) ([]*entities.Project, error) {
	projects, err := s.projectRepo.List(ctx, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// UpdateProject applies a partial update to a project's name and description.
// Archived projects are read-only.
func (s *ProjectService) UpdateProject(ctx context.Context, id uuid.UUID, req ports.UpdateProjectRequest) (*entities.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if project.IsArchived {
		return nil, entities.ErrProjectArchived
	}

	if req.Name != nil {
		project.Name = *req.Name
	}
	if req.Description != nil {
		project.Description = *req.Description
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.logger.Info("Project updated", "project_id", id)
	return project, nil
}

// SetArchived toggles a project's archived flag. Archiving hides the project
// and freezes its tasks; unarchiving restores both.
func (s *ProjectService) SetArchived(ctx context.Context, id uuid.UUID, archived bool) (*entities.Project, error) {
	if err := s.projectRepo.SetArchived(ctx, id, archived); err != nil {
		return nil, err
	}

	s.logger.Info("Project archive state changed", "project_id", id, "archived", archived)
	return s.projectRepo.GetByID(ctx, id)
}
