package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gallery-service/internal/api/dto"
	"github.com/spec-kit/gallery-service/internal/domain"
	"github.com/spec-kit/gallery-service/internal/repository"
	"github.com/spec-kit/gallery-service/internal/service"
	apperrors "github.com/spec-kit/gallery-service/pkg/util"
)

// ProductsHandler exposes the public catalog and admin catalog management.
type ProductsHandler struct {
	catalog *service.CatalogService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalog *service.CatalogService) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := strings.TrimSpace(c.Query("search"))

	filter := repository.ProductFilter{Search: search, Page: page, Limit: limit}
	if featuredStr := c.Query("featured"); featuredStr != "" {
		featured, err := strconv.ParseBool(featuredStr)
		if err != nil {
			return apperrors.NewValidationError("featured must be a boolean", nil)
		}
		filter.Featured = &featured
	}

	products, total, err := h.catalog.List(c.Context(), filter)
	if err != nil {
		return err
	}

	page, limit = repository.NormalizePaging(page, limit)
	return c.JSON(dto.OK(dto.ListResponse{
		Rows:       products,
		Pagination: dto.NewPagination(page, limit, total),
	}))
}

// GetByID handles GET /products/:id.
func (h *ProductsHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validUserID(id) {
		return apperrors.NewValidationError("invalid product ID format", nil)
	}

	product, err := h.catalog.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(product))
}

// Create handles POST /products (admin).
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}

	product := &domain.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PriceCents:  req.PriceCents,
		Featured:    req.Featured,
	}
	if err := h.catalog.Create(c.Context(), product); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OKMessage("Product created successfully", product))
}

// Update handles PUT /products/:id (admin).
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validUserID(id) {
		return apperrors.NewValidationError("invalid product ID format", nil)
	}

	req, err := parseProductRequest(c)
	if err != nil {
		return err
	}

	product := &domain.Product{
		ID:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PriceCents:  req.PriceCents,
		Featured:    req.Featured,
	}
	if err := h.catalog.Update(c.Context(), product); err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("Product updated successfully", product))
}

// Delete handles DELETE /products/:id (admin).
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validUserID(id) {
		return apperrors.NewValidationError("invalid product ID format", nil)
	}

	if err := h.catalog.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("Product deleted successfully", nil))
}

func parseProductRequest(c *fiber.Ctx) (*dto.ProductRequest, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, apperrors.NewValidationError("invalid payload", nil)
	}

	var problems []string
	if strings.TrimSpace(req.Name) == "" {
		problems = append(problems, "name is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		problems = append(problems, "description is required")
	}
	if req.PriceCents < 0 {
		problems = append(problems, "price cannot be negative")
	}
	if len(problems) > 0 {
		return nil, apperrors.NewValidationError("validation errors", problems)
	}
	return &req, nil
}
