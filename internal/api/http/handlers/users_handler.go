package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/brainscan1980/anonaddy/internal/api/dto"
	"github.com/brainscan1980/anonaddy/internal/auth"
	"github.com/brainscan1980/anonaddy/internal/service"
	apperrors "github.com/brainscan1980/anonaddy/pkg/util"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth *service.AuthService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService) *UsersHandler {
	return &UsersHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewBadRequest("username, email, password required")
	}

	user, token, exp, err := h.auth.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return apperrors.NewBadRequest(err.Error())
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":       user.ID,
				"username": user.Username,
				"email":    user.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewBadRequest("email and password required")
	}

	user, token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return apperrors.NewUnauthorized("invalid credentials")
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":       user.ID,
				"username": user.Username,
				"email":    user.Email,
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *UsersHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Email == "" {
		return apperrors.NewBadRequest("email required")
	}

	// The response never reveals whether the account exists.
	if _, err := h.auth.RequestPasswordReset(c.Context(), req.Email); err != nil {
		return c.JSON(fiber.Map{"data": fiber.Map{"message": "If the email exists, a reset link was sent."}})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "If the email exists, a reset link was sent."}})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *UsersHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirmRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return apperrors.NewBadRequest("token and new_password required")
	}

	if err := h.auth.ConfirmPasswordReset(c.Context(), req.Token, req.NewPassword); err != nil {
		return apperrors.NewBadRequest("invalid or expired token")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Password updated."}})
}

// ChangePassword handles POST /auth/password/change.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return apperrors.NewBadRequest("current_password and new_password required")
	}

	if err := h.auth.ChangePassword(c.Context(), principal.User.ID, req.CurrentPassword, req.NewPassword); err != nil {
		return apperrors.NewBadRequest("invalid credentials")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Password updated."}})
}
