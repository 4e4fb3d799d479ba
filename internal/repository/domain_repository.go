package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/brainscan1980/anonaddy/internal/domain"
)

// DomainRepository encapsulates custom-domain persistence.
type DomainRepository interface {
	Create(ctx context.Context, d *domain.Domain) error
	Update(ctx context.Context, d *domain.Domain) error
	GetByID(ctx context.Context, id string) (*domain.Domain, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Domain, error)
	ExistsByName(ctx context.Context, userID, name string) (bool, error)
	Delete(ctx context.Context, id string) error
}

type domainRepository struct {
	pool *pgxpool.Pool
}

// NewDomainRepository instantiates repository.
func NewDomainRepository(pool *pgxpool.Pool) DomainRepository {
	return &domainRepository{pool: pool}
}

const domainColumns = `id, user_id, domain, description, active, catch_all,
               default_recipient_id, verification_token, domain_verified_at, created_at, updated_at`

func (r *domainRepository) Create(ctx context.Context, d *domain.Domain) error {
	const query = `
        INSERT INTO domains (user_id, domain, description, active, catch_all, verification_token)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		d.UserID,
		d.Name,
		d.Description,
		d.Active,
		d.CatchAll,
		d.VerificationToken,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *domainRepository) Update(ctx context.Context, d *domain.Domain) error {
	const query = `
        UPDATE domains SET description=$1, active=$2, catch_all=$3, default_recipient_id=$4,
            domain_verified_at=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		d.Description,
		d.Active,
		d.CatchAll,
		d.DefaultRecipientID,
		d.VerifiedAt,
		d.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *domainRepository) GetByID(ctx context.Context, id string) (*domain.Domain, error) {
	const query = `
        SELECT ` + domainColumns + `
        FROM domains WHERE id=$1`
	var d domain.Domain
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID,
		&d.UserID,
		&d.Name,
		&d.Description,
		&d.Active,
		&d.CatchAll,
		&d.DefaultRecipientID,
		&d.VerificationToken,
		&d.VerifiedAt,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *domainRepository) ListByUser(ctx context.Context, userID string) ([]domain.Domain, error) {
	const query = `
        SELECT ` + domainColumns + `
        FROM domains WHERE user_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDomains(rows)
}

func (r *domainRepository) ExistsByName(ctx context.Context, userID, name string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM domains WHERE user_id=$1 AND LOWER(domain)=LOWER($2))`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *domainRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM domains WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanDomains(rows pgx.Rows) ([]domain.Domain, error) {
	var result []domain.Domain
	for rows.Next() {
		var d domain.Domain
		if err := rows.Scan(
			&d.ID,
			&d.UserID,
			&d.Name,
			&d.Description,
			&d.Active,
			&d.CatchAll,
			&d.DefaultRecipientID,
			&d.VerificationToken,
			&d.VerifiedAt,
			&d.CreatedAt,
			&d.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
