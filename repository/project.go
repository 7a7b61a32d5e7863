package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

type ProjectRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	ListByOwner(ctx context.Context, userID string) ([]domain.Project, error)
	// CreateUnderQuota inserts the project only while the owner holds fewer
	// than maxPerOwner projects. The count and insert run as one statement,
	// so concurrent creations cannot overshoot the quota.
	CreateUnderQuota(ctx context.Context, project *domain.Project, maxPerOwner int) error
	Update(ctx context.Context, project *domain.Project) error
	// Delete removes the project and all of its tasks in one transaction.
	Delete(ctx context.Context, id string) error
}
