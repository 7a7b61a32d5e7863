package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type identityCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewIdentityCache creates a Redis-backed identity cache. Entries expire
// after ttl so a deleted user stops authenticating within that window.
func NewIdentityCache(client *redislib.Client, ttl time.Duration) repository.IdentityCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &identityCache{
		client: client,
		prefix: "identity:",
		ttl:    ttl,
	}
}

func (c *identityCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	result, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	var user domain.User
	if err := json.Unmarshal([]byte(result), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *identityCache) Save(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(user.ID), payload, c.ttl).Err()
}

func (c *identityCache) key(userID string) string {
	return fmt.Sprintf("%s%s", c.prefix, userID)
}
