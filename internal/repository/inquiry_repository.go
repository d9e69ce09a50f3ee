package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gallery-service/internal/domain"
)

// InquiryFilter defines query params for inquiry triage listing.
type InquiryFilter struct {
	Status *domain.InquiryStatus
	Search string
	Page   int
	Limit  int
}

// InquiryRepository encapsulates inquiry persistence.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *domain.Inquiry) error
	GetByID(ctx context.Context, id string) (*domain.Inquiry, error)
	UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus) (*domain.Inquiry, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, int64, error)
	CountByStatus(ctx context.Context, status domain.InquiryStatus) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type inquiryRepository struct {
	pool *pgxpool.Pool
}

// NewInquiryRepository instantiates the repository.
func NewInquiryRepository(pool *pgxpool.Pool) InquiryRepository {
	return &inquiryRepository{pool: pool}
}

const inquiryColumns = `id, reference_key, user_id, name, email, phone, product_id, message, status, created_at, updated_at`

func (r *inquiryRepository) Create(ctx context.Context, inquiry *domain.Inquiry) error {
	if inquiry.ID == "" {
		inquiry.ID = uuid.NewString()
	}
	if inquiry.ReferenceKey == "" {
		inquiry.ReferenceKey = "INQ-" + strings.ToUpper(uuid.NewString()[:8])
	}
	if inquiry.Status == "" {
		inquiry.Status = domain.InquiryStatusPending
	}
	inquiry.Email = NormalizeEmail(inquiry.Email)

	const query = `
        INSERT INTO inquiries (id, reference_key, user_id, name, email, phone, product_id, message, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		inquiry.ID,
		inquiry.ReferenceKey,
		inquiry.UserID,
		inquiry.Name,
		inquiry.Email,
		inquiry.Phone,
		inquiry.ProductID,
		inquiry.Message,
		inquiry.Status,
	).Scan(&inquiry.CreatedAt, &inquiry.UpdatedAt)
}

func (r *inquiryRepository) GetByID(ctx context.Context, id string) (*domain.Inquiry, error) {
	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE id=$1`, inquiryColumns)

	var inquiry domain.Inquiry
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&inquiry.ID,
		&inquiry.ReferenceKey,
		&inquiry.UserID,
		&inquiry.Name,
		&inquiry.Email,
		&inquiry.Phone,
		&inquiry.ProductID,
		&inquiry.Message,
		&inquiry.Status,
		&inquiry.CreatedAt,
		&inquiry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepository) UpdateStatus(ctx context.Context, id string, status domain.InquiryStatus) (*domain.Inquiry, error) {
	query := fmt.Sprintf(`UPDATE inquiries SET status=$1, updated_at=NOW() WHERE id=$2 RETURNING %s`, inquiryColumns)

	var inquiry domain.Inquiry
	if err := r.pool.QueryRow(ctx, query, status, id).Scan(
		&inquiry.ID,
		&inquiry.ReferenceKey,
		&inquiry.UserID,
		&inquiry.Name,
		&inquiry.Email,
		&inquiry.Phone,
		&inquiry.ProductID,
		&inquiry.Message,
		&inquiry.Status,
		&inquiry.CreatedAt,
		&inquiry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inquiry, nil
}

func (r *inquiryRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM inquiries WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *inquiryRepository) List(ctx context.Context, filter InquiryFilter) ([]domain.Inquiry, int64, error) {
	page, limit := NormalizePaging(filter.Page, filter.Limit)

	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(email) LIKE %s OR LOWER(message) LIKE %s)",
			placeholder, placeholder, placeholder))
	}

	where := strings.Join(clauses, " AND ")

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM inquiries WHERE %s`, where)
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	query := fmt.Sprintf(`SELECT %s FROM inquiries WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		inquiryColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.Inquiry
	for rows.Next() {
		var inquiry domain.Inquiry
		if err := rows.Scan(
			&inquiry.ID,
			&inquiry.ReferenceKey,
			&inquiry.UserID,
			&inquiry.Name,
			&inquiry.Email,
			&inquiry.Phone,
			&inquiry.ProductID,
			&inquiry.Message,
			&inquiry.Status,
			&inquiry.CreatedAt,
			&inquiry.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, inquiry)
	}
	return result, total, rows.Err()
}

func (r *inquiryRepository) CountByStatus(ctx context.Context, status domain.InquiryStatus) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inquiries WHERE status=$1`, status).Scan(&total)
	return total, err
}

func (r *inquiryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM inquiries`).Scan(&total)
	return total, err
}
