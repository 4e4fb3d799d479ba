package dto

import "time"

// CreateDomainRequest payload.
type CreateDomainRequest struct {
	Domain      string  `json:"domain"`
	Description *string `json:"description"`
}

// UpdateDomainRequest payload for partial updates.
type UpdateDomainRequest struct {
	Description *string `json:"description"`
}

// UpdateDefaultRecipientRequest payload. An empty value clears the default.
type UpdateDefaultRecipientRequest struct {
	DefaultRecipient string `json:"default_recipient"`
}

// ToggleDomainRequest payload for the active/catch-all toggle resources.
type ToggleDomainRequest struct {
	ID string `json:"id"`
}

// DomainResponse represents a custom domain.
type DomainResponse struct {
	ID               string             `json:"id"`
	Domain           string             `json:"domain"`
	Description      *string            `json:"description"`
	Active           bool               `json:"active"`
	CatchAll         bool               `json:"catch_all"`
	DefaultRecipient *RecipientResponse `json:"default_recipient"`
	DomainVerifiedAt *time.Time         `json:"domain_verified_at"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// DomainVerificationResponse reports a DNS ownership check result.
type DomainVerificationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
