package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/brainscan1980/anonaddy/internal/domain"
)

// In-memory repository implementations backing tests and local development
// without a database. They mirror the Postgres behavior, including
// pgx.ErrNoRows for missing rows and SET NULL semantics on recipient delete.

// MemoryDomainRepository is a map-backed DomainRepository.
type MemoryDomainRepository struct {
	mu      sync.RWMutex
	domains map[string]domain.Domain
}

// NewMemoryDomainRepository builds an empty store.
func NewMemoryDomainRepository() *MemoryDomainRepository {
	return &MemoryDomainRepository{domains: make(map[string]domain.Domain)}
}

func (r *MemoryDomainRepository) Create(_ context.Context, d *domain.Domain) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = uuid.NewString()
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now
	r.domains[d.ID] = *d
	return nil
}

func (r *MemoryDomainRepository) Update(_ context.Context, d *domain.Domain) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.domains[d.ID]; !ok {
		return pgx.ErrNoRows
	}
	d.UpdatedAt = time.Now()
	r.domains[d.ID] = *d
	return nil
}

func (r *MemoryDomainRepository) GetByID(_ context.Context, id string) (*domain.Domain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.domains[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := d
	return &copied, nil
}

func (r *MemoryDomainRepository) ListByUser(_ context.Context, userID string) ([]domain.Domain, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Domain
	for _, d := range r.domains {
		if d.UserID == userID {
			result = append(result, d)
		}
	}
	return result, nil
}

func (r *MemoryDomainRepository) ExistsByName(_ context.Context, userID, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.domains {
		if d.UserID == userID && strings.EqualFold(d.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryDomainRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.domains[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.domains, id)
	return nil
}

// MemoryRecipientRepository is a map-backed RecipientRepository.
type MemoryRecipientRepository struct {
	mu         sync.RWMutex
	recipients map[string]domain.Recipient
	domains    *MemoryDomainRepository
}

// NewMemoryRecipientRepository builds an empty store. When domains is
// non-nil, deleting a recipient clears matching default_recipient references.
func NewMemoryRecipientRepository(domains *MemoryDomainRepository) *MemoryRecipientRepository {
	return &MemoryRecipientRepository{
		recipients: make(map[string]domain.Recipient),
		domains:    domains,
	}
}

func (r *MemoryRecipientRepository) Create(_ context.Context, rec *domain.Recipient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec.ID = uuid.NewString()
	now := time.Now()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	r.recipients[rec.ID] = *rec
	return nil
}

func (r *MemoryRecipientRepository) GetByID(_ context.Context, id string) (*domain.Recipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recipients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := rec
	return &copied, nil
}

func (r *MemoryRecipientRepository) ListByUser(_ context.Context, userID string) ([]domain.Recipient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Recipient
	for _, rec := range r.recipients {
		if rec.UserID == userID {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (r *MemoryRecipientRepository) ExistsByEmail(_ context.Context, userID, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.recipients {
		if rec.UserID == userID && strings.EqualFold(rec.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRecipientRepository) MarkVerified(_ context.Context, id string, verifiedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recipients[id]
	if !ok {
		return pgx.ErrNoRows
	}
	rec.EmailVerifiedAt = &verifiedAt
	rec.UpdatedAt = time.Now()
	r.recipients[id] = rec
	return nil
}

func (r *MemoryRecipientRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.recipients[id]; !ok {
		r.mu.Unlock()
		return pgx.ErrNoRows
	}
	delete(r.recipients, id)
	r.mu.Unlock()

	if r.domains != nil {
		r.domains.mu.Lock()
		for key, d := range r.domains.domains {
			if d.DefaultRecipientID != nil && *d.DefaultRecipientID == id {
				d.DefaultRecipientID = nil
				r.domains.domains[key] = d
			}
		}
		r.domains.mu.Unlock()
	}
	return nil
}

// MemoryPasswordResetRepository is a map-backed PasswordResetRepository.
type MemoryPasswordResetRepository struct {
	mu     sync.Mutex
	tokens map[string]PasswordResetToken
}

// NewMemoryPasswordResetRepository builds an empty store.
func NewMemoryPasswordResetRepository() *MemoryPasswordResetRepository {
	return &MemoryPasswordResetRepository{tokens: make(map[string]PasswordResetToken)}
}

func (r *MemoryPasswordResetRepository) Create(_ context.Context, token *PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = uuid.NewString()
	token.CreatedAt = time.Now()
	r.tokens[token.ID] = *token
	return nil
}

func (r *MemoryPasswordResetRepository) GetByToken(_ context.Context, tokenStr string) (*PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.Token == tokenStr {
			copied := token
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *MemoryPasswordResetRepository) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	token.UsedAt = &now
	r.tokens[id] = token
	return nil
}

// MemoryUserRepository is a map-backed UserRepository.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

// NewMemoryUserRepository builds an empty store.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]domain.User)}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := user
	return &copied, nil
}

func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if strings.EqualFold(user.Email, email) {
			copied := user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}
