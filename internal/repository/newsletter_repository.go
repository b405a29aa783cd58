package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commerce-kit/backoffice-service/internal/domain"
)

// NewsletterRepository handles persistence for newsletter subscribers.
type NewsletterRepository interface {
	Create(ctx context.Context, sub *domain.NewsletterSubscriber) error
	GetByEmail(ctx context.Context, email string) (*domain.NewsletterSubscriber, error)
	MarkVerified(ctx context.Context, email string) error
	DeleteByEmail(ctx context.Context, email string) error
}

type newsletterRepository struct {
	pool *pgxpool.Pool
}

// NewNewsletterRepository instantiates the repository.
func NewNewsletterRepository(pool *pgxpool.Pool) NewsletterRepository {
	return &newsletterRepository{pool: pool}
}

func (r *newsletterRepository) Create(ctx context.Context, sub *domain.NewsletterSubscriber) error {
	const query = `
        INSERT INTO newsletter_subscribers (email, verified)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query, sub.Email, sub.Verified).
		Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *newsletterRepository) GetByEmail(ctx context.Context, email string) (*domain.NewsletterSubscriber, error) {
	const query = `
        SELECT id, email, verified, created_at, updated_at
        FROM newsletter_subscribers WHERE email=$1`

	var sub domain.NewsletterSubscriber
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&sub.ID,
		&sub.Email,
		&sub.Verified,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *newsletterRepository) MarkVerified(ctx context.Context, email string) error {
	const query = `UPDATE newsletter_subscribers SET verified=TRUE, updated_at=NOW() WHERE email=$1`

	cmd, err := r.pool.Exec(ctx, query, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *newsletterRepository) DeleteByEmail(ctx context.Context, email string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM newsletter_subscribers WHERE email=$1`, email)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
