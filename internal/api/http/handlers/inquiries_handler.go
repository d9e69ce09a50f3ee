package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gallery-service/internal/api/dto"
	"github.com/spec-kit/gallery-service/internal/auth"
	"github.com/spec-kit/gallery-service/internal/domain"
	"github.com/spec-kit/gallery-service/internal/repository"
	"github.com/spec-kit/gallery-service/internal/service"
	apperrors "github.com/spec-kit/gallery-service/pkg/util"
)

// InquiriesHandler exposes contact-form submission and admin triage.
type InquiriesHandler struct {
	inquiries *service.InquiryService
}

// NewInquiriesHandler constructs handler.
func NewInquiriesHandler(inquiries *service.InquiryService) *InquiriesHandler {
	return &InquiriesHandler{inquiries: inquiries}
}

// Submit handles POST /inquiries. The route uses optional auth: anonymous
// submissions are accepted, and a signed-in caller's inquiry is linked to
// their account.
func (h *InquiriesHandler) Submit(c *fiber.Ctx) error {
	var req dto.InquiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var problems []string
	if strings.TrimSpace(req.Name) == "" {
		problems = append(problems, "name is required")
	}
	if !validEmail(req.Email) {
		problems = append(problems, "valid email is required")
	}
	if strings.TrimSpace(req.Message) == "" {
		problems = append(problems, "message is required")
	}
	if req.ProductID != nil && !validUserID(*req.ProductID) {
		problems = append(problems, "invalid product ID format")
	}
	if len(problems) > 0 {
		return apperrors.NewValidationError("validation errors", problems)
	}

	inquiry := &domain.Inquiry{
		Name:      strings.TrimSpace(req.Name),
		Email:     req.Email,
		Phone:     req.Phone,
		ProductID: req.ProductID,
		Message:   strings.TrimSpace(req.Message),
	}
	if principal, ok := auth.PrincipalFromContext(c); ok {
		inquiry.UserID = &principal.User.ID
	}

	created, err := h.inquiries.Submit(c.Context(), inquiry)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OKMessage("Inquiry submitted successfully", created))
}

// List handles GET /inquiries (admin).
func (h *InquiriesHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := strings.TrimSpace(c.Query("search"))

	filter := repository.InquiryFilter{Search: search, Page: page, Limit: limit}
	if statusStr := c.Query("status"); statusStr != "" {
		status := domain.InquiryStatus(statusStr)
		if !domain.ValidInquiryStatus(status) {
			return apperrors.NewValidationError("status must be pending, answered, or closed", nil)
		}
		filter.Status = &status
	}

	inquiries, total, err := h.inquiries.List(c.Context(), filter)
	if err != nil {
		return err
	}

	page, limit = repository.NormalizePaging(page, limit)
	return c.JSON(dto.OK(dto.ListResponse{
		Rows:       inquiries,
		Pagination: dto.NewPagination(page, limit, total),
	}))
}

// UpdateStatus handles PUT /inquiries/:id/status (admin).
func (h *InquiriesHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validUserID(id) {
		return apperrors.NewValidationError("invalid inquiry ID format", nil)
	}

	var req dto.InquiryStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !domain.ValidInquiryStatus(req.Status) {
		return apperrors.NewValidationError("status must be pending, answered, or closed", nil)
	}

	inquiry, err := h.inquiries.UpdateStatus(c.Context(), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("Inquiry status updated successfully", inquiry))
}

// Delete handles DELETE /inquiries/:id (admin).
func (h *InquiriesHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validUserID(id) {
		return apperrors.NewValidationError("invalid inquiry ID format", nil)
	}

	if err := h.inquiries.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("Inquiry deleted successfully", nil))
}
