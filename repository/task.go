package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// TaskRepository scopes every single-task lookup by project id, so a task
// id that exists under a different project behaves as absent.
type TaskRepository interface {
	GetByID(ctx context.Context, projectID, taskID string) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, projectID, taskID string) error
	// DeleteOrphans removes tasks whose project row no longer exists and
	// reports how many were swept.
	DeleteOrphans(ctx context.Context) (int64, error)
}
