package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brainscan1980/anonaddy/internal/domain"
)

// RecipientRepository encapsulates recipient persistence.
type RecipientRepository interface {
	Create(ctx context.Context, rec *domain.Recipient) error
	GetByID(ctx context.Context, id string) (*domain.Recipient, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Recipient, error)
	ExistsByEmail(ctx context.Context, userID, email string) (bool, error)
	MarkVerified(ctx context.Context, id string, verifiedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

type recipientRepository struct {
	pool *pgxpool.Pool
}

// NewRecipientRepository instantiates repository.
func NewRecipientRepository(pool *pgxpool.Pool) RecipientRepository {
	return &recipientRepository{pool: pool}
}

func (r *recipientRepository) Create(ctx context.Context, rec *domain.Recipient) error {
	const query = `
        INSERT INTO recipients (user_id, email)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		rec.UserID,
		rec.Email,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *recipientRepository) GetByID(ctx context.Context, id string) (*domain.Recipient, error) {
	const query = `
        SELECT id, user_id, email, email_verified_at, created_at, updated_at
        FROM recipients WHERE id=$1`
	var rec domain.Recipient
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Email,
		&rec.EmailVerifiedAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recipientRepository) ListByUser(ctx context.Context, userID string) ([]domain.Recipient, error) {
	const query = `
        SELECT id, user_id, email, email_verified_at, created_at, updated_at
        FROM recipients WHERE user_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Recipient
	for rows.Next() {
		var rec domain.Recipient
		if err := rows.Scan(
			&rec.ID,
			&rec.UserID,
			&rec.Email,
			&rec.EmailVerifiedAt,
			&rec.CreatedAt,
			&rec.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func (r *recipientRepository) ExistsByEmail(ctx context.Context, userID, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM recipients WHERE user_id=$1 AND LOWER(email)=LOWER($2))`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *recipientRepository) MarkVerified(ctx context.Context, id string, verifiedAt time.Time) error {
	const query = `UPDATE recipients SET email_verified_at=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, verifiedAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *recipientRepository) Delete(ctx context.Context, id string) error {
	// Domains pointing at the recipient fall back to null via ON DELETE SET NULL.
	cmd, err := r.pool.Exec(ctx, `DELETE FROM recipients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
