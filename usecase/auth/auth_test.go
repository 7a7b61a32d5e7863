package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/backend/domain"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[user.Email]; exists {
		return domain.ErrEmailTaken
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user := r.byID[id]
	return &user, nil
}

func (r *fakeUserRepo) delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.byID[id]; ok {
		delete(r.byEmail, user.Email)
		delete(r.byID, id)
	}
}

type fakeIdentityCache struct {
	mu    sync.Mutex
	users map[string]domain.User
	gets  int
	hits  int
}

func newFakeIdentityCache() *fakeIdentityCache {
	return &fakeIdentityCache{users: make(map[string]domain.User)}
}

func (c *fakeIdentityCache) Get(_ context.Context, userID string) (*domain.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	user, ok := c.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c.hits++
	return &user, nil
}

func (c *fakeIdentityCache) Save(_ context.Context, user *domain.User) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.users[user.ID] = *user
	return nil
}

func (c *fakeIdentityCache) drop(userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.users, userID)
}

func newTestUseCase(t *testing.T) (*UseCase, *fakeUserRepo, *fakeIdentityCache) {
	t.Helper()
	repo := newFakeUserRepo()
	cache := newFakeIdentityCache()
	tokens := NewTokenManager("test-secret", "taskhive-test", time.Hour)
	hasher := NewPasswordHasher(4) // minimum cost keeps the suite fast
	return New(repo, cache, tokens, hasher, nil), repo, cache
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:     "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "secret1",
		Country:  "UK",
	}
}

func TestRegister(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	user, token, err := uc.Register(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "secret1", user.PasswordHash)
	assert.NotEmpty(t, user.PasswordHash)

	subject, err := uc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, subject)
}

func TestRegisterNormalizesEmail(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	input := validInput()
	input.Email = "  Ada@Example.COM "
	user, _, err := uc.Register(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, _, err := uc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, _, err = uc.Register(context.Background(), validInput())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))
}

func TestRegisterShortPassword(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	input := validInput()
	input.Password = "short"
	_, _, err := uc.Register(context.Background(), input)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestLogin(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	registered, _, err := uc.Register(context.Background(), validInput())
	require.NoError(t, err)

	user, token, err := uc.Login(context.Background(), "ada@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	subject, err := uc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, subject)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, _, err := uc.Register(context.Background(), validInput())
	require.NoError(t, err)

	_, _, wrongPassword := uc.Login(context.Background(), "ada@example.com", "wrong-password")
	_, _, unknownEmail := uc.Login(context.Background(), "nobody@example.com", "secret1")

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.True(t, domain.IsDomainError(wrongPassword, domain.ErrCodeUnauthorized))
	assert.True(t, domain.IsDomainError(unknownEmail, domain.ErrCodeUnauthorized))
}

func TestResolveUserUsesCache(t *testing.T) {
	uc, repo, cache := newTestUseCase(t)

	user, _, err := uc.Register(context.Background(), validInput())
	require.NoError(t, err)

	// Registration warms the cache, so resolution should hit it.
	resolved, err := uc.ResolveUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
	assert.Equal(t, 1, cache.hits)

	// A cold cache falls back to the repository and re-populates.
	cache.drop(user.ID)
	resolved, err = uc.ResolveUser(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	repo.delete(user.ID)
	_, err = uc.ResolveUser(context.Background(), user.ID)
	require.NoError(t, err) // still cached

	cache.drop(user.ID)
	_, err = uc.ResolveUser(context.Background(), user.ID)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}

func TestProfile(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	user, _, err := uc.Register(context.Background(), validInput())
	require.NoError(t, err)

	profile, err := uc.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, profile.Email)

	_, err = uc.Profile(context.Background(), "missing")
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeNotFound))
}
