package dto

import "time"

// CreateRecipientRequest payload.
type CreateRecipientRequest struct {
	Email string `json:"email"`
}

// RecipientResponse represents a forwarding destination.
type RecipientResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
