package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainscan1980/anonaddy/internal/config"
	"github.com/brainscan1980/anonaddy/internal/domain"
	"github.com/brainscan1980/anonaddy/internal/repository"
	apperrors "github.com/brainscan1980/anonaddy/pkg/util"
)

const (
	ownerID = "owner"
	otherID = "other"
)

func testAddyConfig() config.AddyConfig {
	return config.AddyConfig{Domain: "anonaddy.com"}
}

func newDomainService() (*DomainService, *repository.MemoryDomainRepository, *repository.MemoryRecipientRepository) {
	domains := repository.NewMemoryDomainRepository()
	recipients := repository.NewMemoryRecipientRepository(domains)
	svc := NewDomainService(testAddyConfig(), DomainDependencies{
		DomainRepo:    domains,
		RecipientRepo: recipients,
	})
	return svc, domains, recipients
}

func seedRecipient(t *testing.T, recipients *repository.MemoryRecipientRepository, userID string, verified bool) *domain.Recipient {
	t.Helper()
	rec := &domain.Recipient{UserID: userID, Email: userID + "@example.com"}
	require.NoError(t, recipients.Create(context.Background(), rec))
	if verified {
		now := time.Now()
		require.NoError(t, recipients.MarkVerified(context.Background(), rec.ID, now))
		rec.EmailVerifiedAt = &now
	}
	return rec
}

func TestCreateDomain(t *testing.T) {
	svc, _, _ := newDomainService()
	ctx := context.Background()

	d, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "Example.COM"})
	require.NoError(t, err)
	assert.Equal(t, "example.com", d.Name)
	assert.False(t, d.Active)
	assert.Nil(t, d.VerifiedAt)
	assert.NotEmpty(t, d.VerificationToken)
}

func TestCreateDomainValidation(t *testing.T) {
	svc, _, _ := newDomainService()
	ctx := context.Background()

	_, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "example.com"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		domain string
	}{
		{"duplicate for same user", "example.com"},
		{"duplicate different case", "EXAMPLE.com"},
		{"trailing dot", "example."},
		{"with protocol", "https://example.com"},
		{"local domain", "anonaddy.com"},
		{"subdomain of local domain", "subdomain.anonaddy.com"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: tt.domain})
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, http.StatusUnprocessableEntity, domainErr.HTTPStatus)
			assert.Contains(t, domainErr.Fields, "domain")
		})
	}

	// Same name under a different user is not constrained.
	_, err = svc.CreateDomain(ctx, otherID, DomainCreateInput{Domain: "example.com"})
	assert.NoError(t, err)
}

func TestGetDomainOwnership(t *testing.T) {
	svc, _, _ := newDomainService()
	ctx := context.Background()

	d, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "example.com"})
	require.NoError(t, err)

	_, err = svc.GetDomain(ctx, otherID, d.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)

	_, err = svc.GetDomain(ctx, ownerID, "missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}

func TestActivateAndDeactivateDomain(t *testing.T) {
	svc, domains, _ := newDomainService()
	ctx := context.Background()

	d, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "example.com"})
	require.NoError(t, err)

	activated, err := svc.ActivateDomain(ctx, ownerID, d.ID)
	require.NoError(t, err)
	assert.True(t, activated.Active)

	require.NoError(t, svc.DeactivateDomain(ctx, ownerID, d.ID))

	// Deactivation clears the flag without removing the row.
	stored, err := domains.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestDeleteDomain(t *testing.T) {
	svc, _, _ := newDomainService()
	ctx := context.Background()

	d, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "example.com"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteDomain(ctx, ownerID, d.ID))

	listed, err := svc.ListDomains(ctx, ownerID)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSetDefaultRecipient(t *testing.T) {
	svc, domains, recipients := newDomainService()
	ctx := context.Background()

	d, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "example.com"})
	require.NoError(t, err)
	verified := seedRecipient(t, recipients, ownerID, true)

	updated, err := svc.SetDefaultRecipient(ctx, ownerID, d.ID, verified.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.DefaultRecipientID)
	assert.Equal(t, verified.ID, *updated.DefaultRecipientID)

	stored, err := domains.GetByID(ctx, d.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.DefaultRecipientID)
	assert.Equal(t, verified.ID, *stored.DefaultRecipientID)
}

func TestSetDefaultRecipientUnverified(t *testing.T) {
	svc, domains, recipients := newDomainService()
	ctx := context.Background()

	d, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "example.com"})
	require.NoError(t, err)
	unverified := seedRecipient(t, recipients, ownerID, false)

	_, err = svc.SetDefaultRecipient(ctx, ownerID, d.ID, unverified.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)

	// Column left unchanged.
	stored, err := domains.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DefaultRecipientID)
}

func TestSetDefaultRecipientForeign(t *testing.T) {
	svc, _, recipients := newDomainService()
	ctx := context.Background()

	d, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "example.com"})
	require.NoError(t, err)
	foreign := seedRecipient(t, recipients, otherID, true)

	_, err = svc.SetDefaultRecipient(ctx, ownerID, d.ID, foreign.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}

func TestClearDefaultRecipient(t *testing.T) {
	svc, domains, recipients := newDomainService()
	ctx := context.Background()

	d, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "example.com"})
	require.NoError(t, err)
	verified := seedRecipient(t, recipients, ownerID, true)

	_, err = svc.SetDefaultRecipient(ctx, ownerID, d.ID, verified.ID)
	require.NoError(t, err)

	cleared, err := svc.SetDefaultRecipient(ctx, ownerID, d.ID, "")
	require.NoError(t, err)
	assert.Nil(t, cleared.DefaultRecipientID)

	stored, err := domains.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DefaultRecipientID)
}

func TestCatchAllToggle(t *testing.T) {
	svc, domains, _ := newDomainService()
	ctx := context.Background()

	d, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "example.com"})
	require.NoError(t, err)

	enabled, err := svc.EnableCatchAll(ctx, ownerID, d.ID)
	require.NoError(t, err)
	assert.True(t, enabled.CatchAll)

	require.NoError(t, svc.DisableCatchAll(ctx, ownerID, d.ID))
	stored, err := domains.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, stored.CatchAll)
}

func TestListDomainsScopedToOwner(t *testing.T) {
	svc, _, _ := newDomainService()
	ctx := context.Background()

	_, err := svc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "mine.com"})
	require.NoError(t, err)
	_, err = svc.CreateDomain(ctx, otherID, DomainCreateInput{Domain: "theirs.com"})
	require.NoError(t, err)

	listed, err := svc.ListDomains(ctx, ownerID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "mine.com", listed[0].Name)
}
