package http_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/gallery-service/internal/domain"
	"github.com/spec-kit/gallery-service/internal/repository"
)

// fakeUserRepo backs the test server with an in-memory user store that
// behaves like the Postgres repository: ids and timestamps are assigned
// on insert, emails are normalized, and duplicates surface as
// ErrDuplicateEmail.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
	clock time.Time
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User), clock: time.Now()}
}

func (r *fakeUserRepo) nextTime() time.Time {
	r.clock = r.clock.Add(time.Millisecond)
	return r.clock
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
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

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
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

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id string, update repository.ProfileUpdate) (*domain.User, error) {
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

func (r *fakeUserRepo) UpdateRole(_ context.Context, id string, role domain.Role) (*domain.User, error) {
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

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
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

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.User
	for _, user := range r.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
			if !strings.Contains(strings.ToLower(user.Name), search) &&
				!strings.Contains(user.Email, search) {
				continue
			}
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

func (r *fakeUserRepo) Stats(_ context.Context) (*domain.UserStats, error) {
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

// fakeProductRepo holds catalog rows in memory.
type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *fakeProductRepo) Update(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return pgx.ErrNoRows
	}
	product.UpdatedAt = time.Now()
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *product
	return &clone, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]domain.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Product
	for _, product := range r.products {
		if filter.Featured != nil && product.Featured != *filter.Featured {
			continue
		}
		if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
			if !strings.Contains(strings.ToLower(product.Name), search) &&
				!strings.Contains(strings.ToLower(product.Description), search) {
				continue
			}
		}
		matched = append(matched, *product)
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

func (r *fakeProductRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.products)), nil
}

// fakeInquiryRepo holds inquiries in memory.
type fakeInquiryRepo struct {
	mu        sync.Mutex
	inquiries map[string]*domain.Inquiry
}

func newFakeInquiryRepo() *fakeInquiryRepo {
	return &fakeInquiryRepo{inquiries: make(map[string]*domain.Inquiry)}
}

func (r *fakeInquiryRepo) Create(_ context.Context, inquiry *domain.Inquiry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if inquiry.ID == "" {
		inquiry.ID = uuid.NewString()
	}
	if inquiry.ReferenceKey == "" {
		inquiry.ReferenceKey = "INQ-" + strings.ToUpper(uuid.NewString()[:8])
	}
	if inquiry.Status == "" {
		inquiry.Status = domain.InquiryStatusPending
	}
	inquiry.Email = repository.NormalizeEmail(inquiry.Email)
	now := time.Now()
	inquiry.CreatedAt = now
	inquiry.UpdatedAt = now

	clone := *inquiry
	r.inquiries[inquiry.ID] = &clone
	return nil
}

func (r *fakeInquiryRepo) GetByID(_ context.Context, id string) (*domain.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inquiry, ok := r.inquiries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *inquiry
	return &clone, nil
}

func (r *fakeInquiryRepo) UpdateStatus(_ context.Context, id string, status domain.InquiryStatus) (*domain.Inquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	inquiry, ok := r.inquiries[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	inquiry.Status = status
	inquiry.UpdatedAt = time.Now()

	clone := *inquiry
	return &clone, nil
}

func (r *fakeInquiryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.inquiries[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.inquiries, id)
	return nil
}

func (r *fakeInquiryRepo) List(_ context.Context, filter repository.InquiryFilter) ([]domain.Inquiry, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.Inquiry
	for _, inquiry := range r.inquiries {
		if filter.Status != nil && inquiry.Status != *filter.Status {
			continue
		}
		matched = append(matched, *inquiry)
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

func (r *fakeInquiryRepo) CountByStatus(_ context.Context, status domain.InquiryStatus) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, inquiry := range r.inquiries {
		if inquiry.Status == status {
			count++
		}
	}
	return count, nil
}

func (r *fakeInquiryRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.inquiries)), nil
}
