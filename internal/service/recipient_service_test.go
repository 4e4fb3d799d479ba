package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainscan1980/anonaddy/internal/repository"
	apperrors "github.com/brainscan1980/anonaddy/pkg/util"
)

func newRecipientService(t *testing.T) (*RecipientService, *repository.MemoryRecipientRepository) {
	t.Helper()
	domains := repository.NewMemoryDomainRepository()
	recipients := repository.NewMemoryRecipientRepository(domains)
	svc := NewRecipientService(RecipientDependencies{
		RecipientRepo: recipients,
		Verifier:      newVerifier(t, nil),
	})
	return svc, recipients
}

func TestCreateRecipientIssuesToken(t *testing.T) {
	svc, _ := newRecipientService(t)
	ctx := context.Background()

	rec, token, err := svc.CreateRecipient(ctx, ownerID, " Someone@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", rec.Email)
	assert.Nil(t, rec.EmailVerifiedAt)
	assert.NotEmpty(t, token)
}

func TestCreateRecipientValidation(t *testing.T) {
	svc, _ := newRecipientService(t)
	ctx := context.Background()

	_, _, err := svc.CreateRecipient(ctx, ownerID, "someone@example.com")
	require.NoError(t, err)

	tests := []struct {
		name  string
		email string
	}{
		{"empty", ""},
		{"not an address", "not-an-email"},
		{"duplicate", "someone@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.CreateRecipient(ctx, ownerID, tt.email)
			require.Error(t, err)
			domainErr := apperrors.ToDomainError(err)
			assert.Equal(t, http.StatusUnprocessableEntity, domainErr.HTTPStatus)
			assert.Contains(t, domainErr.Fields, "email")
		})
	}
}

func TestVerifyByToken(t *testing.T) {
	svc, recipients := newRecipientService(t)
	ctx := context.Background()

	rec, token, err := svc.CreateRecipient(ctx, ownerID, "someone@example.com")
	require.NoError(t, err)

	verified, err := svc.VerifyByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, verified.ID)
	require.NotNil(t, verified.EmailVerifiedAt)

	stored, err := recipients.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.EmailVerifiedAt)

	// Consumed tokens no longer resolve.
	_, err = svc.VerifyByToken(ctx, token)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}

func TestResendVerification(t *testing.T) {
	svc, _ := newRecipientService(t)
	ctx := context.Background()

	rec, _, err := svc.CreateRecipient(ctx, ownerID, "someone@example.com")
	require.NoError(t, err)

	token, err := svc.ResendVerification(ctx, ownerID, rec.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = svc.VerifyByToken(ctx, token)
	require.NoError(t, err)

	// Already verified recipients cannot request another link.
	_, err = svc.ResendVerification(ctx, ownerID, rec.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, apperrors.ToDomainError(err).HTTPStatus)
}

func TestDeleteRecipientClearsDomainDefault(t *testing.T) {
	domains := repository.NewMemoryDomainRepository()
	recipients := repository.NewMemoryRecipientRepository(domains)
	recSvc := NewRecipientService(RecipientDependencies{
		RecipientRepo: recipients,
		Verifier:      newVerifier(t, nil),
	})
	domSvc := NewDomainService(testAddyConfig(), DomainDependencies{
		DomainRepo:    domains,
		RecipientRepo: recipients,
	})
	ctx := context.Background()

	rec := seedRecipient(t, recipients, ownerID, true)
	d, err := domSvc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "example.com"})
	require.NoError(t, err)
	_, err = domSvc.SetDefaultRecipient(ctx, ownerID, d.ID, rec.ID)
	require.NoError(t, err)

	require.NoError(t, recSvc.DeleteRecipient(ctx, ownerID, rec.ID))

	stored, err := domains.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.DefaultRecipientID)
}

func TestDeleteRecipientOwnership(t *testing.T) {
	svc, _ := newRecipientService(t)
	ctx := context.Background()

	rec, _, err := svc.CreateRecipient(ctx, ownerID, "someone@example.com")
	require.NoError(t, err)

	err = svc.DeleteRecipient(ctx, otherID, rec.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)
}
