package service

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/brainscan1980/anonaddy/internal/config"
)

const recipientTokenPrefix = "verify:recipient:"

// ErrTokenNotFound indicates an unknown or expired verification token.
var ErrTokenNotFound = errors.New("verification token not found")

// TXTResolver resolves TXT records; *net.Resolver satisfies it.
type TXTResolver interface {
	LookupTXT(ctx context.Context, name string) ([]string, error)
}

// VerificationService issues recipient email-verification tokens backed by
// Redis and checks domain ownership through DNS TXT records.
type VerificationService struct {
	redis    *redis.Client
	resolver TXTResolver
	cfg      config.AddyConfig
}

// NewVerificationService constructs the service. A nil resolver falls back to
// the default system resolver.
func NewVerificationService(client *redis.Client, resolver TXTResolver, cfg config.AddyConfig) *VerificationService {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &VerificationService{redis: client, resolver: resolver, cfg: cfg}
}

// IssueRecipientToken stores a fresh single-use token for the recipient.
func (s *VerificationService) IssueRecipientToken(ctx context.Context, recipientID string) (string, error) {
	token := uuid.NewString()
	key := recipientTokenPrefix + token
	if err := s.redis.Set(ctx, key, recipientID, s.cfg.VerificationTokenTTL()).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// ConsumeRecipientToken resolves a token to its recipient and invalidates it.
func (s *VerificationService) ConsumeRecipientToken(ctx context.Context, token string) (string, error) {
	key := recipientTokenPrefix + token
	recipientID, err := s.redis.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", err
	}
	return recipientID, nil
}

// CheckDomainOwnership looks for the aa-verify TXT record carrying the
// domain's verification token.
func (s *VerificationService) CheckDomainOwnership(ctx context.Context, domainName, token string) (bool, error) {
	lookupCtx, cancel := context.WithTimeout(ctx, s.cfg.DNSCheckTimeout())
	defer cancel()

	records, err := s.resolver.LookupTXT(lookupCtx, domainName)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return false, nil
		}
		return false, err
	}

	expected := "aa-verify=" + token
	for _, record := range records {
		if strings.TrimSpace(record) == expected {
			return true, nil
		}
	}
	return false, nil
}
