package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/teamnest/teamnest/internal/access"
	"github.com/teamnest/teamnest/internal/domain"
)

// ProjectRepository is the project store, scoped to workspaces
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Project, error)
	ListByWorkspace(ctx context.Context, workspaceID primitive.ObjectID) ([]domain.Project, error)
	Update(ctx context.Context, id primitive.ObjectID, update *domain.ProjectUpdate) error
	SetArchived(ctx context.Context, id primitive.ObjectID, archived bool) error
}

// ProjectService handles project operations. Project access derives
// entirely from workspace membership; project-level roles are stored
// but deliberately not enforced as access restrictions.
type ProjectService struct {
	projectRepo   ProjectRepository
	workspaceRepo WorkspaceRepository
}

// NewProjectService creates a new project service
func NewProjectService(projectRepo ProjectRepository, workspaceRepo WorkspaceRepository) *ProjectService {
	return &ProjectService{
		projectRepo:   projectRepo,
		workspaceRepo: workspaceRepo,
	}
}

// Create creates a project inside a workspace. Only workspace members
// may create projects; the workspace binding is immutable afterwards.
func (s *ProjectService) Create(ctx context.Context, userID, workspaceID primitive.ObjectID, input domain.ProjectCreate) (*domain.Project, error) {
	status := input.Status
	if status == "" {
		status = domain.StatusPlanning
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	for _, m := range input.Members {
		if !m.Role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	workspace, err := s.loadWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !access.IsMember(workspace, userID) {
		return nil, ErrNotMember
	}

	now := time.Now()
	project := &domain.Project{
		Title:       input.Title,
		Description: input.Description,
		WorkspaceID: workspaceID,
		Status:      status,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		Tags:        input.Tags,
		Members:     input.Members,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return project, nil
}

// GetByID retrieves a project, gated on workspace membership
func (s *ProjectService) GetByID(ctx context.Context, userID, projectID primitive.ObjectID) (*domain.Project, error) {
	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	workspace, err := s.loadWorkspace(ctx, project.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if !access.CanAccessProject(workspace, project, userID) {
		return nil, ErrNotMember
	}

	return project, nil
}

// ListByWorkspace retrieves the workspace's non-archived projects
func (s *ProjectService) ListByWorkspace(ctx context.Context, userID, workspaceID primitive.ObjectID) ([]domain.Project, error) {
	workspace, err := s.loadWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if !access.IsMember(workspace, userID) {
		return nil, ErrNotMember
	}

	projects, err := s.projectRepo.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// Update applies a partial update to a project
func (s *ProjectService) Update(ctx context.Context, userID, projectID primitive.ObjectID, input domain.ProjectUpdate) (*domain.Project, error) {
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	project, err := s.GetByID(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.Update(ctx, project.ID, &input); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.loadProject(ctx, projectID)
}

// Archive soft-deletes a project from default listings
func (s *ProjectService) Archive(ctx context.Context, userID, projectID primitive.ObjectID) error {
	project, err := s.GetByID(ctx, userID, projectID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.SetArchived(ctx, project.ID, true); err != nil {
		return fmt.Errorf("failed to archive project: %w", err)
	}
	return nil
}

func (s *ProjectService) loadProject(ctx context.Context, projectID primitive.ObjectID) (*domain.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return project, nil
}

func (s *ProjectService) loadWorkspace(ctx context.Context, workspaceID primitive.ObjectID) (*domain.Workspace, error) {
	workspace, err := s.workspaceRepo.GetByID(ctx, workspaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	if workspace == nil {
		return nil, ErrWorkspaceNotFound
	}
	return workspace, nil
}
