package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/brainscan1980/anonaddy/internal/config"
	"github.com/brainscan1980/anonaddy/internal/domain"
	"github.com/brainscan1980/anonaddy/internal/events"
	"github.com/brainscan1980/anonaddy/internal/repository"
	"github.com/brainscan1980/anonaddy/internal/validation"
	apperrors "github.com/brainscan1980/anonaddy/pkg/util"
)

// DomainService coordinates custom-domain workflows.
type DomainService struct {
	domains    repository.DomainRepository
	recipients repository.RecipientRepository
	verifier   *VerificationService
	dispatcher events.Dispatcher
	cfg        config.AddyConfig
}

// DomainDependencies bundles collaborators for the domain service.
type DomainDependencies struct {
	DomainRepo    repository.DomainRepository
	RecipientRepo repository.RecipientRepository
	Verifier      *VerificationService
	Dispatcher    events.Dispatcher
}

// DomainCreateInput describes domain creation payload.
type DomainCreateInput struct {
	Domain      string
	Description *string
}

// NewDomainService constructs the service.
func NewDomainService(cfg config.AddyConfig, deps DomainDependencies) *DomainService {
	return &DomainService{
		domains:    deps.DomainRepo,
		recipients: deps.RecipientRepo,
		verifier:   deps.Verifier,
		dispatcher: deps.Dispatcher,
		cfg:        cfg,
	}
}

// CreateDomain validates and persists a new custom domain for the user. New
// domains start inactive and unverified.
func (s *DomainService) CreateDomain(ctx context.Context, userID string, input DomainCreateInput) (*domain.Domain, error) {
	name := strings.ToLower(strings.TrimSpace(input.Domain))
	if msg := validation.CheckDomainName(name, s.cfg.Domain); msg != "" {
		return nil, apperrors.NewFieldError("domain", msg)
	}

	exists, err := s.domains.ExistsByName(ctx, userID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewFieldError("domain", "The domain has already been taken.")
	}

	d := &domain.Domain{
		UserID:            userID,
		Name:              name,
		Description:       input.Description,
		Active:            false,
		CatchAll:          false,
		VerificationToken: uuid.NewString(),
	}
	if err := s.domains.Create(ctx, d); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.EventDomainCreated, userID, events.DomainPayload{DomainID: d.ID, Name: d.Name})
	return d, nil
}

// ListDomains returns all domains owned by the user.
func (s *DomainService) ListDomains(ctx context.Context, userID string) ([]domain.Domain, error) {
	return s.domains.ListByUser(ctx, userID)
}

// GetDomain fetches one domain ensuring ownership.
func (s *DomainService) GetDomain(ctx context.Context, userID, domainID string) (*domain.Domain, error) {
	return s.getOwned(ctx, userID, domainID)
}

// UpdateDomain applies a partial update to the description.
func (s *DomainService) UpdateDomain(ctx context.Context, userID, domainID string, description *string) (*domain.Domain, error) {
	d, err := s.getOwned(ctx, userID, domainID)
	if err != nil {
		return nil, err
	}
	d.Description = description
	if err := s.domains.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDomain removes the domain row entirely.
func (s *DomainService) DeleteDomain(ctx context.Context, userID, domainID string) error {
	d, err := s.getOwned(ctx, userID, domainID)
	if err != nil {
		return err
	}
	if err := s.domains.Delete(ctx, d.ID); err != nil {
		return err
	}
	s.publishEvent(ctx, events.EventDomainDeleted, userID, events.DomainPayload{DomainID: d.ID, Name: d.Name})
	return nil
}

// ActivateDomain marks the domain eligible for forwarding.
func (s *DomainService) ActivateDomain(ctx context.Context, userID, domainID string) (*domain.Domain, error) {
	d, err := s.getOwned(ctx, userID, domainID)
	if err != nil {
		return nil, err
	}
	d.Active = true
	if err := s.domains.Update(ctx, d); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.EventDomainActivated, userID, events.DomainPayload{DomainID: d.ID, Name: d.Name})
	return d, nil
}

// DeactivateDomain clears the active flag without deleting the row.
func (s *DomainService) DeactivateDomain(ctx context.Context, userID, domainID string) error {
	d, err := s.getOwned(ctx, userID, domainID)
	if err != nil {
		return err
	}
	d.Active = false
	if err := s.domains.Update(ctx, d); err != nil {
		return err
	}
	s.publishEvent(ctx, events.EventDomainDeactivated, userID, events.DomainPayload{DomainID: d.ID, Name: d.Name})
	return nil
}

// EnableCatchAll turns on catch-all aliasing for the domain.
func (s *DomainService) EnableCatchAll(ctx context.Context, userID, domainID string) (*domain.Domain, error) {
	d, err := s.getOwned(ctx, userID, domainID)
	if err != nil {
		return nil, err
	}
	d.CatchAll = true
	if err := s.domains.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DisableCatchAll turns off catch-all aliasing for the domain.
func (s *DomainService) DisableCatchAll(ctx context.Context, userID, domainID string) error {
	d, err := s.getOwned(ctx, userID, domainID)
	if err != nil {
		return err
	}
	d.CatchAll = false
	return s.domains.Update(ctx, d)
}

// SetDefaultRecipient sets or clears the domain's default recipient. An empty
// recipientID clears the association. A recipient that does not exist, is
// owned by someone else, or is unverified yields not-found so callers cannot
// probe for unverified recipients.
func (s *DomainService) SetDefaultRecipient(ctx context.Context, userID, domainID, recipientID string) (*domain.Domain, error) {
	d, err := s.getOwned(ctx, userID, domainID)
	if err != nil {
		return nil, err
	}

	if recipientID == "" {
		d.DefaultRecipientID = nil
		if err := s.domains.Update(ctx, d); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.EventDefaultRecipientUpdated, userID,
			events.DefaultRecipientPayload{DomainID: d.ID})
		return d, nil
	}

	rec, err := s.recipients.GetByID(ctx, recipientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("recipient")
		}
		return nil, err
	}
	if rec.UserID != userID || !rec.IsVerified() {
		return nil, apperrors.NewNotFound("recipient")
	}

	d.DefaultRecipientID = &rec.ID
	if err := s.domains.Update(ctx, d); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.EventDefaultRecipientUpdated, userID,
		events.DefaultRecipientPayload{DomainID: d.ID, RecipientID: &rec.ID})
	return d, nil
}

// DefaultRecipient resolves the domain's default recipient, if any.
func (s *DomainService) DefaultRecipient(ctx context.Context, d *domain.Domain) (*domain.Recipient, error) {
	if d.DefaultRecipientID == nil {
		return nil, nil
	}
	rec, err := s.recipients.GetByID(ctx, *d.DefaultRecipientID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// CheckVerification resolves the domain's TXT records and stamps the
// verification timestamp when the expected record is present.
func (s *DomainService) CheckVerification(ctx context.Context, userID, domainID string) (*domain.Domain, bool, error) {
	d, err := s.getOwned(ctx, userID, domainID)
	if err != nil {
		return nil, false, err
	}
	if d.IsVerified() {
		return d, true, nil
	}

	found, err := s.verifier.CheckDomainOwnership(ctx, d.Name, d.VerificationToken)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return d, false, nil
	}

	now := time.Now()
	d.VerifiedAt = &now
	if err := s.domains.Update(ctx, d); err != nil {
		return nil, false, err
	}
	s.publishEvent(ctx, events.EventDomainVerified, userID, events.DomainPayload{DomainID: d.ID, Name: d.Name})
	return d, true, nil
}

func (s *DomainService) getOwned(ctx context.Context, userID, domainID string) (*domain.Domain, error) {
	d, err := s.domains.GetByID(ctx, domainID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("domain")
		}
		return nil, err
	}
	if d.UserID != userID {
		return nil, apperrors.NewNotFound("domain")
	}
	return d, nil
}

func (s *DomainService) publishEvent(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
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
