package domain

import "time"

// Domain is a custom email domain a user attaches to the forwarding service.
// Aliases under the domain forward to its default recipient unless a more
// specific recipient exists.
type Domain struct {
	ID                 string
	UserID             string
	Name               string
	Description        *string
	Active             bool
	CatchAll           bool
	DefaultRecipientID *string
	VerificationToken  string
	VerifiedAt         *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsVerified reports whether domain ownership has been confirmed via DNS.
func (d *Domain) IsVerified() bool {
	return d.VerifiedAt != nil
}
