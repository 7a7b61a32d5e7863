package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// IdentityCache holds short-lived copies of user records so the auth
// middleware does not hit the primary store on every request.
type IdentityCache interface {
	Get(ctx context.Context, userID string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) error
}
