package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/commerce-kit/backoffice-service/internal/domain"
)

// CouponRepository handles persistence for discount coupons.
type CouponRepository interface {
	Create(ctx context.Context, coupon *domain.Coupon) error
	Update(ctx context.Context, coupon *domain.Coupon) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	List(ctx context.Context, limit, offset int) ([]domain.Coupon, error)
}

type couponRepository struct {
	pool *pgxpool.Pool
}

// NewCouponRepository instantiates the repository.
func NewCouponRepository(pool *pgxpool.Pool) CouponRepository {
	return &couponRepository{pool: pool}
}

func (r *couponRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	const query = `
        INSERT INTO coupons (code, discount_percentage, usage_limit, expires_at)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		coupon.Code,
		coupon.DiscountPercentage,
		coupon.UsageLimit,
		coupon.ExpiresAt,
	).Scan(&coupon.ID, &coupon.CreatedAt, &coupon.UpdatedAt)
}

func (r *couponRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	const query = `
        UPDATE coupons
        SET code=$1, discount_percentage=$2, usage_limit=$3, expires_at=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		coupon.Code,
		coupon.DiscountPercentage,
		coupon.UsageLimit,
		coupon.ExpiresAt,
		coupon.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *couponRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM coupons WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *couponRepository) GetByID(ctx context.Context, id string) (*domain.Coupon, error) {
	const query = `
        SELECT id, code, discount_percentage, usage_limit, expires_at, created_at, updated_at
        FROM coupons WHERE id=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	const query = `
        SELECT id, code, discount_percentage, usage_limit, expires_at, created_at, updated_at
        FROM coupons WHERE code=$1`

	return r.scanOne(r.pool.QueryRow(ctx, query, code))
}

func (r *couponRepository) List(ctx context.Context, limit, offset int) ([]domain.Coupon, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	const query = `
        SELECT id, code, discount_percentage, usage_limit, expires_at, created_at, updated_at
        FROM coupons ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Coupon
	for rows.Next() {
		coupon, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *coupon)
	}
	return result, rows.Err()
}

func (r *couponRepository) scanOne(row pgx.Row) (*domain.Coupon, error) {
	var coupon domain.Coupon
	if err := row.Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.DiscountPercentage,
		&coupon.UsageLimit,
		&coupon.ExpiresAt,
		&coupon.CreatedAt,
		&coupon.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &coupon, nil
}
