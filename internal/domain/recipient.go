package domain

import "time"

// Recipient is a forwarding destination owned by a user. A recipient must
// confirm its email address before any domain may use it as a default.
type Recipient struct {
	ID              string
	UserID          string
	Email           string
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsVerified reports whether the recipient confirmed its email address.
func (r *Recipient) IsVerified() bool {
	return r.EmailVerifiedAt != nil
}
