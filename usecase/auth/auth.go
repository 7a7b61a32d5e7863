package auth

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// UseCase is the credential issuer: it registers accounts, verifies
// logins and resolves token subjects back to live user records.
type UseCase struct {
	users  repository.UserRepository
	cache  repository.IdentityCache
	tokens *TokenManager
	hasher *PasswordHasher
	logger *zap.Logger
}

func New(users repository.UserRepository, cache repository.IdentityCache, tokens *TokenManager, hasher *PasswordHasher, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		users:  users,
		cache:  cache,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
	}
}

// RegisterInput carries the registration fields after transport validation.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Country  string
}

// Register creates the account and issues its first token. Duplicate
// emails surface as domain.ErrEmailTaken via the unique index.
func (uc *UseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Country = strings.TrimSpace(input.Country)

	if input.Name == "" || input.Email == "" || input.Country == "" || len(input.Password) < 6 {
		return nil, "", domain.ErrInvalidPayload
	}

	hash, err := uc.hasher.Hash(input.Password)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Country:      input.Country,
	}

	if err := uc.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	uc.cacheIdentity(ctx, user)
	uc.logger.Info("user registered", zap.String("user_id", user.ID))
	return user, token, nil
}

// Login verifies the credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (uc *UseCase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := uc.users.GetByEmail(ctx, email)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.hasher.Verify(password, dummyHash)
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !uc.hasher.Verify(password, user.PasswordHash) {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	uc.cacheIdentity(ctx, user)
	return user, token, nil
}

// Profile returns the live user record for the given id.
func (uc *UseCase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	return uc.users.GetByID(ctx, userID)
}

// VerifyToken validates the token signature and expiry and returns the
// embedded user id.
func (uc *UseCase) VerifyToken(token string) (string, error) {
	return uc.tokens.Verify(token)
}

// ResolveUser maps a token subject to a live user, consulting the
// identity cache before the primary store. A user that no longer exists
// resolves to domain.ErrUserNotFound.
func (uc *UseCase) ResolveUser(ctx context.Context, userID string) (*domain.User, error) {
	if uc.cache != nil {
		if user, err := uc.cache.Get(ctx, userID); err == nil {
			return user, nil
		} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			uc.logger.Warn("identity cache lookup failed", zap.Error(err))
		}
	}

	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	uc.cacheIdentity(ctx, user)
	return user, nil
}

func (uc *UseCase) cacheIdentity(ctx context.Context, user *domain.User) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Save(ctx, user); err != nil {
		uc.logger.Warn("identity cache save failed", zap.Error(err))
	}
}
