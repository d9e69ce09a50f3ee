package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/gallery-service/internal/config"
	"github.com/spec-kit/gallery-service/internal/domain"
	"github.com/spec-kit/gallery-service/internal/repository"
	apperrors "github.com/spec-kit/gallery-service/pkg/util"
)

// memoryUserRepo mimics the Postgres-backed store, including email
// normalization, id assignment and the unique-email violation.
type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	clock time.Time
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]*domain.User), clock: time.Now()}
}

func (r *memoryUserRepo) nextTime() time.Time {
	r.clock = r.clock.Add(time.Millisecond)
	return r.clock
}

func (r *memoryUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = repository.NormalizeEmail(user.Email)
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := r.nextTime()
	user.CreatedAt = now
	user.UpdatedAt = now

	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email = repository.NormalizeEmail(email)
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memoryUserRepo) UpdateProfile(_ context.Context, id string, update repository.ProfileUpdate) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if update.Email != nil {
		email := repository.NormalizeEmail(*update.Email)
		for otherID, other := range r.users {
			if otherID != id && other.Email == email {
				return nil, repository.ErrDuplicateEmail
			}
		}
		user.Email = email
	}
	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Phone != nil {
		user.Phone = update.Phone
	}
	if update.Address != nil {
		user.Address = update.Address
	}
	user.UpdatedAt = r.nextTime()

	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.Role = role
	user.UpdatedAt = r.nextTime()

	clone := *user
	return &clone, nil
}

func (r *memoryUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = r.nextTime()
	return nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.User
	for _, user := range r.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		matched = append(matched, *user)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page, limit := repository.NormalizePaging(filter.Page, filter.Limit)
	start := (page - 1) * limit
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *memoryUserRepo) Stats(_ context.Context) (*domain.UserStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := &domain.UserStats{}
	for _, user := range r.users {
		stats.TotalUsers++
		switch user.Role {
		case domain.RoleAdmin:
			stats.AdminCount++
		case domain.RoleUser:
			stats.UserCount++
		case domain.RoleModerator:
			stats.ModeratorCount++
		}
		if user.EmailVerified {
			stats.VerifiedUsers++
		}
	}
	return stats, nil
}

func newTestUserService(repo repository.UserRepository) *UserService {
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 1,
			BcryptCost:    bcrypt.MinCost,
		},
	}
	return NewUserService(cfg, repo, nil)
}

func TestRegister_HashesPasswordAndNormalizesEmail(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.Register(context.Background(), "Ada", "ADA@X.COM", "secret1", "")
	require.NoError(t, err)
	assert.Equal(t, "ada@x.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEmpty(t, user.ID)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret1")))
}

func TestRegister_DuplicateEmailCaseInsensitive(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(newMemoryUserRepo())

	_, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret1", "")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "Ada Again", "ADA@x.com", "secret2", "")
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_EMAIL", domainErr.Code)
	assert.Equal(t, 409, domainErr.HTTPStatus)
}

func TestLogin_RoundTripsTokenClaims(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(newMemoryUserRepo())

	registered, err := svc.Register(context.Background(), "Ada", "ADA@X.COM", "secret1", "")
	require.NoError(t, err)

	user, token, exp, err := svc.Login(context.Background(), "ada@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.True(t, exp.After(time.Now()))

	claims, err := svc.TokenManager().Verify(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(newMemoryUserRepo())

	_, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret1", "")
	require.NoError(t, err)

	var domainErr *apperrors.DomainError

	_, _, _, err = svc.Login(context.Background(), "ada@x.com", "wrong")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)

	_, _, _, err = svc.Login(context.Background(), "nobody@x.com", "secret1")
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret1", "")
	require.NoError(t, err)

	before, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)

	// wrong current password leaves the stored hash untouched
	err = svc.ChangePassword(context.Background(), user.ID, "wrong", "newsecret")
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INCORRECT_PASSWORD", domainErr.Code)

	after, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, before.PasswordHash, after.PasswordHash)

	// correct current password rotates the hash
	require.NoError(t, svc.ChangePassword(context.Background(), user.ID, "secret1", "newsecret"))

	_, _, _, err = svc.Login(context.Background(), "ada@x.com", "secret1")
	require.Error(t, err)
	_, _, _, err = svc.Login(context.Background(), "ada@x.com", "newsecret")
	require.NoError(t, err)
}

func TestResetPassword_DoesNotRehashExistingDigest(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestUserService(repo)

	user, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret1", "")
	require.NoError(t, err)

	precomputed, err := bcrypt.GenerateFromPassword([]byte("rotated-by-admin"), bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), user.ID, string(precomputed)))

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, string(precomputed), stored.PasswordHash)
}

func TestUpdateProfile_EmailCollision(t *testing.T) {
	t.Parallel()

	svc := newTestUserService(newMemoryUserRepo())

	_, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret1", "")
	require.NoError(t, err)
	bob, err := svc.Register(context.Background(), "Bob", "bob@x.com", "secret1", "")
	require.NoError(t, err)

	taken := "ada@x.com"
	_, err = svc.UpdateProfile(context.Background(), bob.ID, repository.ProfileUpdate{Email: &taken})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "DUPLICATE_EMAIL", domainErr.Code)
}

func TestList_Pagination(t *testing.T) {
	t.Parallel()

	repo := newMemoryUserRepo()
	svc := newTestUserService(repo)

	for i := 0; i < 25; i++ {
		_, err := svc.Register(context.Background(), "User", fmt.Sprintf("user%02d@x.com", i), "secret1", "")
		require.NoError(t, err)
	}

	rows, total, err := svc.List(context.Background(), repository.UserFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 10)
	assert.EqualValues(t, 25, total)

	rows, total, err = svc.List(context.Background(), repository.UserFilter{Page: 3, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, rows, 5)
	assert.EqualValues(t, 25, total)
}
