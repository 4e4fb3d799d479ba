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

// DomainsHandler manages custom-domain endpoints.
type DomainsHandler struct {
	service *service.DomainService
}

// NewDomainsHandler constructs handler.
func NewDomainsHandler(domainService *service.DomainService) *DomainsHandler {
	return &DomainsHandler{service: domainService}
}

// List GET /api/v1/domains.
func (h *DomainsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	domains, err := h.service.ListDomains(c.Context(), principal.User.ID)
	if err != nil {
		return err
	}
	items := make([]dto.DomainResponse, 0, len(domains))
	for i := range domains {
		resp, err := h.domainResponse(c, &domains[i])
		if err != nil {
			return err
		}
		items = append(items, resp)
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/v1/domains/:id.
func (h *DomainsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	d, err := h.service.GetDomain(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	resp, err := h.domainResponse(c, d)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create POST /api/v1/domains.
func (h *DomainsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CreateDomainRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	d, err := h.service.CreateDomain(c.Context(), principal.User.ID, service.DomainCreateInput{
		Domain:      req.Domain,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	resp, err := h.domainResponse(c, d)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
}

// Update PATCH /api/v1/domains/:id.
func (h *DomainsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateDomainRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	d, err := h.service.UpdateDomain(c.Context(), principal.User.ID, c.Params("id"), req.Description)
	if err != nil {
		return err
	}
	resp, err := h.domainResponse(c, d)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resp})
}

// UpdateDefaultRecipient PATCH /api/v1/domains/:id/default-recipient.
func (h *DomainsHandler) UpdateDefaultRecipient(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.UpdateDefaultRecipientRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	d, err := h.service.SetDefaultRecipient(c.Context(), principal.User.ID, c.Params("id"), req.DefaultRecipient)
	if err != nil {
		return err
	}
	resp, err := h.domainResponse(c, d)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Delete DELETE /api/v1/domains/:id.
func (h *DomainsHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.DeleteDomain(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CheckVerification GET /api/v1/domains/:id/check-verification.
func (h *DomainsHandler) CheckVerification(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	_, verified, err := h.service.CheckVerification(c.Context(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.DomainVerificationResponse{Success: verified}
	if verified {
		resp.Message = "Domain verified."
	} else {
		resp.Message = "Verification record not found."
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Activate POST /api/v1/active-domains.
func (h *DomainsHandler) Activate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ToggleDomainRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.ID == "" {
		return apperrors.NewFieldError("id", "The id field is required.")
	}

	d, err := h.service.ActivateDomain(c.Context(), principal.User.ID, req.ID)
	if err != nil {
		return err
	}
	resp, err := h.domainResponse(c, d)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Deactivate DELETE /api/v1/active-domains/:id.
func (h *DomainsHandler) Deactivate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.DeactivateDomain(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// EnableCatchAll POST /api/v1/catch-all-domains.
func (h *DomainsHandler) EnableCatchAll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.ToggleDomainRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.ID == "" {
		return apperrors.NewFieldError("id", "The id field is required.")
	}

	d, err := h.service.EnableCatchAll(c.Context(), principal.User.ID, req.ID)
	if err != nil {
		return err
	}
	resp, err := h.domainResponse(c, d)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resp})
}

// DisableCatchAll DELETE /api/v1/catch-all-domains/:id.
func (h *DomainsHandler) DisableCatchAll(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	if err := h.service.DisableCatchAll(c.Context(), principal.User.ID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *DomainsHandler) domainResponse(c *fiber.Ctx, d *domain.Domain) (dto.DomainResponse, error) {
	resp := dto.DomainResponse{
		ID:               d.ID,
		Domain:           d.Name,
		Description:      d.Description,
		Active:           d.Active,
		CatchAll:         d.CatchAll,
		DomainVerifiedAt: d.VerifiedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
	rec, err := h.service.DefaultRecipient(c.Context(), d)
	if err != nil {
		return dto.DomainResponse{}, err
	}
	if rec != nil {
		recipient := recipientResponse(rec)
		resp.DefaultRecipient = &recipient
	}
	return resp, nil
}
