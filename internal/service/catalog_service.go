package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/gallery-service/internal/domain"
	"github.com/spec-kit/gallery-service/internal/repository"
	apperrors "github.com/spec-kit/gallery-service/pkg/util"
)

const (
	productKeyPrefix   = "product:"
	featuredProductKey = "products:featured"
)

// CatalogService serves the public product catalog with a redis
// read-through cache and handles admin catalog writes.
type CatalogService struct {
	products repository.ProductRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCatalogService builds the service. cache may be nil, in which case
// every read goes to the database.
func NewCatalogService(products repository.ProductRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		products: products,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// GetByID fetches one product, preferring the cache.
func (s *CatalogService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if cached, ok := s.cacheGet(ctx, productKeyPrefix+id); ok {
		var product domain.Product
		if err := json.Unmarshal(cached, &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product")
		}
		return nil, apperrors.MapError(err)
	}

	s.cacheSet(ctx, productKeyPrefix+id, product)
	return product, nil
}

// List returns a catalog page. The featured first page is the hot path for
// the storefront, so only that window is cached.
func (s *CatalogService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int64, error) {
	cacheable := filter.Search == "" && filter.Featured != nil && *filter.Featured && filter.Page <= 1

	if cacheable {
		if cached, ok := s.cacheGet(ctx, featuredProductKey); ok {
			var page cachedProductPage
			if err := json.Unmarshal(cached, &page); err == nil {
				return page.Rows, page.Total, nil
			}
		}
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}

	if cacheable {
		s.cacheSet(ctx, featuredProductKey, cachedProductPage{Rows: products, Total: total})
	}
	return products, total, nil
}

// Create adds a catalog item and drops stale cache entries.
func (s *CatalogService) Create(ctx context.Context, product *domain.Product) error {
	if err := s.products.Create(ctx, product); err != nil {
		return apperrors.MapError(err)
	}
	s.invalidate(ctx, product.ID)
	return nil
}

// Update replaces a catalog item and drops stale cache entries.
func (s *CatalogService) Update(ctx context.Context, product *domain.Product) error {
	if err := s.products.Update(ctx, product); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product")
		}
		return apperrors.MapError(err)
	}
	s.invalidate(ctx, product.ID)
	return nil
}

// Delete removes a catalog item and drops stale cache entries.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product")
		}
		return apperrors.MapError(err)
	}
	s.invalidate(ctx, id)
	return nil
}

// Count reports the catalog size for the admin dashboard.
func (s *CatalogService) Count(ctx context.Context) (int64, error) {
	total, err := s.products.Count(ctx)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return total, nil
}

type cachedProductPage struct {
	Rows  []domain.Product `json:"rows"`
	Total int64            `json:"total"`
}

func (s *CatalogService) cacheGet(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	val, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Debug("cache get failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return val, true
}

func (s *CatalogService) cacheSet(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Debug("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *CatalogService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, productKeyPrefix+id, featuredProductKey).Err(); err != nil {
		s.logger.Debug("cache invalidate failed", zap.String("product_id", id), zap.Error(err))
	}
}
