package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/gallery-service/internal/auth"
	"github.com/spec-kit/gallery-service/internal/config"
	"github.com/spec-kit/gallery-service/internal/domain"
	"github.com/spec-kit/gallery-service/internal/events"
	"github.com/spec-kit/gallery-service/internal/repository"
	apperrors "github.com/spec-kit/gallery-service/pkg/util"
)

// UserService coordinates account registration, login and admin management.
type UserService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(cfg config.Config, users repository.UserRepository, dispatcher events.Dispatcher) *UserService {
	return &UserService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL()),
		dispatcher: dispatcher,
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Register creates a new account with a hashed password. The unique index on
// email is the authority on duplicates; a violation surfaces as DuplicateEmail
// even when two registrations race.
func (s *UserService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.PublicUser, error) {
	if role == "" {
		role = domain.RoleUser
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicateEmail()
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Role:  user.Role,
	})
	return user.Public(), nil
}

// Login authenticates by email and password and mints a bearer token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*domain.PublicUser, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokenMgr.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	return user.Public(), token, exp, nil
}

// GetByID returns the public projection of one account.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.PublicUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.MapError(err)
	}
	return user.Public(), nil
}

// UpdateProfile applies a partial update, re-checking email uniqueness via
// the storage constraint when email changes.
func (s *UserService) UpdateProfile(ctx context.Context, id string, update repository.ProfileUpdate) (*domain.PublicUser, error) {
	user, err := s.users.UpdateProfile(ctx, id, update)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicateEmail()
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.MapError(err)
	}
	return user.Public(), nil
}

// UpdateRole sets the role of an account.
func (s *UserService) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.PublicUser, error) {
	user, err := s.users.UpdateRole(ctx, id, role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.MapError(err)
	}
	return user.Public(), nil
}

// ChangePassword verifies the current password before storing the new hash.
// The stored hash is untouched when verification fails.
func (s *UserService) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user")
		}
		return apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewIncorrectPassword()
	}
	return s.setPassword(ctx, id, newPassword)
}

// ResetPassword stores a new password without verifying the old one. The
// value may be plaintext or an already computed bcrypt digest.
func (s *UserService) ResetPassword(ctx context.Context, id, newPassword string) error {
	return s.setPassword(ctx, id, newPassword)
}

func (s *UserService) setPassword(ctx context.Context, id, newPassword string) error {
	hash := newPassword
	if !auth.IsBcryptHash(newPassword) {
		var err error
		hash, err = auth.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Delete hard-deletes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// List returns public projections plus the total row count for pagination.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.PublicUser, int64, error) {
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	result := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		result = append(result, *users[i].Public())
	}
	return result, total, nil
}

// Stats returns aggregate account counts.
func (s *UserService) Stats(ctx context.Context) (*domain.UserStats, error) {
	stats, err := s.users.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *UserService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *UserService) publish(ctx context.Context, eventType events.EventType, subjectID string, payload any) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
