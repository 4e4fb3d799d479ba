package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/brainscan1980/anonaddy/internal/api/dto"
	"github.com/brainscan1980/anonaddy/internal/auth"
	"github.com/brainscan1980/anonaddy/internal/domain"
	"github.com/brainscan1980/anonaddy/internal/service"
	apperrors "github.com/brainscan1980/anonaddy/pkg/util"
)

// RecipientsHandler manages recipient endpoints.
type RecipientsHandler struct {
	service *service.RecipientService
}

// NewRecipientsHandler constructs handler.
func NewRecipientsHandler(recipientService *service.RecipientService) *RecipientsHandler {
	return &RecipientsHandler{service: recipientService}
}

// List GET /api/v1/recipients.
func (h *RecipientsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	recipients, err := h.service.ListRecipients(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.RecipientResponse, 0, len(recipients))
	for i := range recipients {
		items = append(items, recipientResponse(&recipients[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/v1/recipients/:id.
func (h *RecipientsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	rec, err := h.service.GetRecipient(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": recipientResponse(rec)})
}

// Create POST /api/v1/recipients.
func (h *RecipientsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateRecipientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	rec, _, err := h.service.CreateRecipient(c.Context(), principal.User.ID, req.Email)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": recipientResponse(rec)})
}

// Delete DELETE /api/v1/recipients/:id.
func (h *RecipientsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.DeleteRecipient(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Resend POST /api/v1/recipients/:id/resend.
func (h *RecipientsHandler) Resend(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if _, err := h.service.ResendVerification(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Verification email resent."}})
}

// Verify GET /api/v1/recipients/verify/:token. Public; the token arrives via
// the verification email.
func (h *RecipientsHandler) Verify(c *fiber.Ctx) error {
	rec, err := h.service.VerifyByToken(c.Context(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": recipientResponse(rec)})
}

func recipientResponse(rec *domain.Recipient) dto.RecipientResponse {
	return dto.RecipientResponse{
		ID:              rec.ID,
		Email:           rec.Email,
		EmailVerifiedAt: rec.EmailVerifiedAt,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}
}
