package task

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// ProjectAuthorizer verifies that a user owns a project before any task
// operation runs. Task ownership is only ever derived from the project.
type ProjectAuthorizer interface {
	Authorize(ctx context.Context, userID, projectID string) (*domain.Project, error)
}

// UseCase owns task CRUD under a project, including the set-once
// completion stamp.
type UseCase struct {
	tasks    repository.TaskRepository
	projects ProjectAuthorizer
	logger   *zap.Logger
}

func New(tasks repository.TaskRepository, projects ProjectAuthorizer, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		projects: projects,
		logger:   logger,
	}
}

// CreateInput carries the fields accepted at task creation.
type CreateInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
}

// Changes describes a partial task update. Nil fields keep the stored
// value; non-nil fields replace it.
type Changes struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
}

func (uc *UseCase) List(ctx context.Context, userID, projectID string) ([]domain.Task, error) {
	if _, err := uc.projects.Authorize(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return uc.tasks.ListByProject(ctx, projectID)
}

func (uc *UseCase) Create(ctx context.Context, userID, projectID string, input CreateInput) (*domain.Task, error) {
	if _, err := uc.projects.Authorize(ctx, userID, projectID); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	if input.Status == "" {
		input.Status = domain.StatusToDo
	}
	if input.Title == "" || input.Description == "" || !input.Status.Valid() {
		return nil, domain.ErrInvalidPayload
	}

	task := &domain.Task{
		ProjectID:   projectID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
	}
	if task.Status == domain.StatusCompleted {
		now := time.Now()
		task.CompletedAt = &now
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("task created", zap.String("task_id", created.ID), zap.String("project_id", projectID))
	return created, nil
}

func (uc *UseCase) Get(ctx context.Context, userID, projectID, taskID string) (*domain.Task, error) {
	if _, err := uc.projects.Authorize(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return uc.tasks.GetByID(ctx, projectID, taskID)
}

func (uc *UseCase) Update(ctx context.Context, userID, projectID, taskID string, changes Changes) (*domain.Task, error) {
	if _, err := uc.projects.Authorize(ctx, userID, projectID); err != nil {
		return nil, err
	}

	task, err := uc.tasks.GetByID(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if title == "" {
			return nil, domain.ErrInvalidPayload
		}
		task.Title = title
	}
	if changes.Description != nil {
		task.Description = *changes.Description
	}
	if changes.Status != nil {
		if !changes.Status.Valid() {
			return nil, domain.ErrInvalidPayload
		}
		task.Status = *changes.Status
		// The stamp records the first completion only; later status
		// changes never clear or move it.
		if task.Status == domain.StatusCompleted && task.CompletedAt == nil {
			now := time.Now()
			task.CompletedAt = &now
		}
	}

	if err := uc.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) Delete(ctx context.Context, userID, projectID, taskID string) error {
	if _, err := uc.projects.Authorize(ctx, userID, projectID); err != nil {
		return err
	}

	if err := uc.tasks.Delete(ctx, projectID, taskID); err != nil {
		return err
	}

	uc.logger.Info("task deleted", zap.String("task_id", taskID), zap.String("project_id", projectID))
	return nil
}
