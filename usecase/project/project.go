package project

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// UseCase owns project CRUD and the direct ownership guard.
type UseCase struct {
	projects repository.ProjectRepository
	logger   *zap.Logger
}

func New(projects repository.ProjectRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		projects: projects,
		logger:   logger,
	}
}

// Changes describes a partial project update. Nil fields keep the stored
// value; non-nil fields replace it.
type Changes struct {
	Name        *string
	Description *string
}

// Authorize loads the project and verifies the caller owns it. An absent
// project answers NOT_FOUND; an existing project under another owner
// answers FORBIDDEN.
func (uc *UseCase) Authorize(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	project, err := uc.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.OwnedBy(userID) {
		return nil, domain.ErrNotProjectOwner
	}
	return project, nil
}

func (uc *UseCase) List(ctx context.Context, userID string) ([]domain.Project, error) {
	return uc.projects.ListByOwner(ctx, userID)
}

func (uc *UseCase) Create(ctx context.Context, userID, name, description string) (*domain.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" || description == "" {
		return nil, domain.ErrInvalidPayload
	}

	project := &domain.Project{
		UserID:      userID,
		Name:        name,
		Description: description,
	}

	if err := uc.projects.CreateUnderQuota(ctx, project, domain.MaxProjectsPerUser); err != nil {
		return nil, err
	}

	uc.logger.Info("project created", zap.String("project_id", project.ID), zap.String("user_id", userID))
	return project, nil
}

func (uc *UseCase) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	return uc.Authorize(ctx, userID, projectID)
}

func (uc *UseCase) Update(ctx context.Context, userID, projectID string, changes Changes) (*domain.Project, error) {
	project, err := uc.Authorize(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			return nil, domain.ErrInvalidPayload
		}
		project.Name = name
	}
	if changes.Description != nil {
		project.Description = *changes.Description
	}

	if err := uc.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (uc *UseCase) Delete(ctx context.Context, userID, projectID string) error {
	if _, err := uc.Authorize(ctx, userID, projectID); err != nil {
		return err
	}

	if err := uc.projects.Delete(ctx, projectID); err != nil {
		return err
	}

	uc.logger.Info("project deleted", zap.String("project_id", projectID), zap.String("user_id", userID))
	return nil
}
