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

// UsersHandler exposes registration, login, profile and admin user management.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Register handles POST /users.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
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
	if len(req.Password) < minPasswordLength {
		problems = append(problems, "password must be at least 6 characters")
	}
	if req.Role != "" && !domain.ValidRole(req.Role) {
		problems = append(problems, "role must be admin, user, or moderator")
	}
	if len(problems) > 0 {
		return apperrors.NewValidationError("validation errors", problems)
	}

	user, err := h.users.Register(c.Context(), strings.TrimSpace(req.Name), req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.OKMessage("User created successfully", user))
}

// Login handles POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !validEmail(req.Email) || req.Password == "" {
		return apperrors.NewValidationError("email and password are required", nil)
	}

	user, token, exp, err := h.users.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"message":    "Login successful",
		"token":      token,
		"expires_at": exp,
		"user":       user,
	})
}

// Logout handles POST /users/logout. Tokens are stateless, so the server
// only acknowledges; the client discards its copy.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	return c.JSON(dto.OKMessage("Logged out", nil))
}

// GetProfile handles GET /users/profile.
func (h *UsersHandler) GetProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	user, err := h.users.GetByID(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(user))
}

// UpdateProfile handles PUT /users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if req.Email != nil && !validEmail(*req.Email) {
		return apperrors.NewValidationError("valid email is required", nil)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return apperrors.NewValidationError("name cannot be empty", nil)
	}

	update := repository.ProfileUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	user, err := h.users.UpdateProfile(c.Context(), principal.User.ID, update)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("Profile updated successfully", user))
}

// ChangePassword handles PUT /users/change-password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("current password and new password are required", nil)
	}
	if len(req.NewPassword) < minPasswordLength {
		return apperrors.NewValidationError("new password must be at least 6 characters", nil)
	}

	if err := h.users.ChangePassword(c.Context(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("Password changed successfully", nil))
}

// List handles GET /users (admin).
func (h *UsersHandler) List(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	search := strings.TrimSpace(c.Query("search"))

	filter := repository.UserFilter{Search: search, Page: page, Limit: limit}
	if roleStr := c.Query("role"); roleStr != "" {
		role := domain.Role(roleStr)
		if !domain.ValidRole(role) {
			return apperrors.NewValidationError("role must be admin, user, or moderator", nil)
		}
		filter.Role = &role
	}

	users, total, err := h.users.List(c.Context(), filter)
	if err != nil {
		return err
	}

	page, limit = repository.NormalizePaging(page, limit)
	return c.JSON(dto.OK(dto.ListResponse{
		Rows:       users,
		Pagination: dto.NewPagination(page, limit, total),
	}))
}

// Stats handles GET /users/stats (admin).
func (h *UsersHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.users.Stats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(stats))
}

// GetByID handles GET /users/:id (admin).
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validUserID(id) {
		return apperrors.NewValidationError("invalid user ID format", nil)
	}

	user, err := h.users.GetByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK(user))
}

// UpdateRole handles PUT /users/:id/role (admin). Admins cannot change
// their own role.
func (h *UsersHandler) UpdateRole(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validUserID(id) {
		return apperrors.NewValidationError("invalid user ID format", nil)
	}

	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if !domain.ValidRole(req.Role) {
		return apperrors.NewValidationError("role must be admin, user, or moderator", nil)
	}

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.User.ID == id {
		return apperrors.NewValidationError("cannot change your own role", nil)
	}

	user, err := h.users.UpdateRole(c.Context(), id, req.Role)
	if err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("User role updated successfully", user))
}

// ResetPassword handles PUT /users/:id/reset-password (admin).
func (h *UsersHandler) ResetPassword(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validUserID(id) {
		return apperrors.NewValidationError("invalid user ID format", nil)
	}

	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.NewPassword) < minPasswordLength {
		return apperrors.NewValidationError("new password must be at least 6 characters", nil)
	}

	if err := h.users.ResetPassword(c.Context(), id, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("User password reset successfully", nil))
}

// Delete handles DELETE /users/:id (admin). Admins cannot delete their
// own account.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if !validUserID(id) {
		return apperrors.NewValidationError("invalid user ID format", nil)
	}

	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.User.ID == id {
		return apperrors.NewValidationError("cannot delete your own account", nil)
	}

	if err := h.users.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(dto.OKMessage("User deleted successfully", nil))
}
