package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/brainscan1980/anonaddy/internal/domain"
	"github.com/brainscan1980/anonaddy/internal/events"
	"github.com/brainscan1980/anonaddy/internal/repository"
	apperrors "github.com/brainscan1980/anonaddy/pkg/util"
)

// RecipientService coordinates recipient lifecycle and email verification.
type RecipientService struct {
	recipients repository.RecipientRepository
	verifier   *VerificationService
	dispatcher events.Dispatcher
}

// RecipientDependencies bundles collaborators for the recipient service.
type RecipientDependencies struct {
	RecipientRepo repository.RecipientRepository
	Verifier      *VerificationService
	Dispatcher    events.Dispatcher
}

// NewRecipientService constructs the service.
func NewRecipientService(deps RecipientDependencies) *RecipientService {
	return &RecipientService{
		recipients: deps.RecipientRepo,
		verifier:   deps.Verifier,
		dispatcher: deps.Dispatcher,
	}
}

// CreateRecipient persists an unverified recipient and issues a verification
// token. The token travels in the verification email; it is returned here so
// handlers can expose it to outgoing notifications.
func (s *RecipientService) CreateRecipient(ctx context.Context, userID, email string) (*domain.Recipient, string, error) {
	address := strings.ToLower(strings.TrimSpace(email))
	if address == "" {
		return nil, "", apperrors.NewFieldError("email", "The email field is required.")
	}
	if _, err := mail.ParseAddress(address); err != nil {
		return nil, "", apperrors.NewFieldError("email", "The email must be a valid email address.")
	}

	exists, err := s.recipients.ExistsByEmail(ctx, userID, address)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", apperrors.NewFieldError("email", "The email has already been taken.")
	}

	rec := &domain.Recipient{UserID: userID, Email: address}
	if err := s.recipients.Create(ctx, rec); err != nil {
		return nil, "", err
	}

	token, err := s.verifier.IssueRecipientToken(ctx, rec.ID)
	if err != nil {
		return nil, "", err
	}

	s.publishEvent(ctx, events.EventRecipientCreated, userID,
		events.RecipientPayload{RecipientID: rec.ID, Email: rec.Email})
	return rec, token, nil
}

// ListRecipients returns all recipients owned by the user.
func (s *RecipientService) ListRecipients(ctx context.Context, userID string) ([]domain.Recipient, error) {
	return s.recipients.ListByUser(ctx, userID)
}

// GetRecipient fetches one recipient ensuring ownership.
func (s *RecipientService) GetRecipient(ctx context.Context, userID, recipientID string) (*domain.Recipient, error) {
	return s.getOwned(ctx, userID, recipientID)
}

// DeleteRecipient removes the recipient. Domains referencing it as default
// fall back to null through the schema's ON DELETE SET NULL.
func (s *RecipientService) DeleteRecipient(ctx context.Context, userID, recipientID string) error {
	rec, err := s.getOwned(ctx, userID, recipientID)
	if err != nil {
		return err
	}
	if err := s.recipients.Delete(ctx, rec.ID); err != nil {
		return err
	}
	s.publishEvent(ctx, events.EventRecipientDeleted, userID,
		events.RecipientPayload{RecipientID: rec.ID, Email: rec.Email})
	return nil
}

// ResendVerification issues a fresh token for an unverified recipient.
func (s *RecipientService) ResendVerification(ctx context.Context, userID, recipientID string) (string, error) {
	rec, err := s.getOwned(ctx, userID, recipientID)
	if err != nil {
		return "", err
	}
	if rec.IsVerified() {
		return "", apperrors.NewFieldError("email", "The email is already verified.")
	}
	token, err := s.verifier.IssueRecipientToken(ctx, rec.ID)
	if err != nil {
		return "", err
	}
	s.publishEvent(ctx, events.EventRecipientCreated, userID,
		events.RecipientPayload{RecipientID: rec.ID, Email: rec.Email})
	return token, nil
}

// VerifyByToken consumes a verification token and stamps the recipient.
func (s *RecipientService) VerifyByToken(ctx context.Context, token string) (*domain.Recipient, error) {
	recipientID, err := s.verifier.ConsumeRecipientToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, apperrors.NewNotFound("verification token")
		}
		return nil, err
	}

	rec, err := s.recipients.GetByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("recipient")
		}
		return nil, err
	}
	if rec.IsVerified() {
		return rec, nil
	}

	now := time.Now()
	if err := s.recipients.MarkVerified(ctx, rec.ID, now); err != nil {
		return nil, err
	}
	rec.EmailVerifiedAt = &now
	s.publishEvent(ctx, events.EventRecipientVerified, rec.UserID,
		events.RecipientPayload{RecipientID: rec.ID, Email: rec.Email})
	return rec, nil
}

func (s *RecipientService) getOwned(ctx context.Context, userID, recipientID string) (*domain.Recipient, error) {
	rec, err := s.recipients.GetByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("recipient")
		}
		return nil, err
	}
	if rec.UserID != userID {
		return nil, apperrors.NewNotFound("recipient")
	}
	return rec, nil
}

func (s *RecipientService) publishEvent(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
