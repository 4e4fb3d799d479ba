package service

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brainscan1980/anonaddy/internal/config"
)

type fakeResolver struct {
	records map[string][]string
	err     error
}

func (f *fakeResolver) LookupTXT(_ context.Context, name string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	records, ok := f.records[name]
	if !ok {
		return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
	}
	return records, nil
}

func newVerifier(t *testing.T, resolver TXTResolver) *VerificationService {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewVerificationService(client, resolver, config.AddyConfig{Domain: "anonaddy.com"})
}

func TestRecipientTokenRoundTrip(t *testing.T) {
	verifier := newVerifier(t, nil)
	ctx := context.Background()

	token, err := verifier.IssueRecipientToken(ctx, "rec-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	recipientID, err := verifier.ConsumeRecipientToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "rec-1", recipientID)

	// Tokens are single use.
	_, err = verifier.ConsumeRecipientToken(ctx, token)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestConsumeUnknownToken(t *testing.T) {
	verifier := newVerifier(t, nil)

	_, err := verifier.ConsumeRecipientToken(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestCheckDomainOwnership(t *testing.T) {
	resolver := &fakeResolver{records: map[string][]string{
		"example.com": {"v=spf1 -all", "aa-verify=tok-123"},
		"other.com":   {"v=spf1 -all"},
	}}
	verifier := newVerifier(t, resolver)
	ctx := context.Background()

	found, err := verifier.CheckDomainOwnership(ctx, "example.com", "tok-123")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = verifier.CheckDomainOwnership(ctx, "example.com", "tok-999")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = verifier.CheckDomainOwnership(ctx, "other.com", "tok-123")
	require.NoError(t, err)
	assert.False(t, found)

	// NXDOMAIN is a clean "not verified", not an error.
	found, err = verifier.CheckDomainOwnership(ctx, "missing.com", "tok-123")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCheckDomainOwnershipResolverFailure(t *testing.T) {
	verifier := newVerifier(t, &fakeResolver{err: errors.New("dns timeout")})

	_, err := verifier.CheckDomainOwnership(context.Background(), "example.com", "tok")
	assert.Error(t, err)
}

func TestDomainCheckVerificationStampsTimestamp(t *testing.T) {
	domainsSvc, domains, _ := newDomainService()
	ctx := context.Background()

	d, err := domainsSvc.CreateDomain(ctx, ownerID, DomainCreateInput{Domain: "example.com"})
	require.NoError(t, err)

	resolver := &fakeResolver{records: map[string][]string{
		"example.com": {"aa-verify=" + d.VerificationToken},
	}}
	domainsSvc.verifier = NewVerificationService(nil, resolver, config.AddyConfig{Domain: "anonaddy.com"})

	checked, verified, err := domainsSvc.CheckVerification(ctx, ownerID, d.ID)
	require.NoError(t, err)
	assert.True(t, verified)
	require.NotNil(t, checked.VerifiedAt)

	stored, err := domains.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.VerifiedAt)
}
