package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/commerce-kit/backoffice-service/internal/domain"
	"github.com/commerce-kit/backoffice-service/internal/repository"
)

// CouponService manages discount coupons.
type CouponService struct {
	coupons repository.CouponRepository
}

// NewCouponService builds the service.
func NewCouponService(coupons repository.CouponRepository) *CouponService {
	return &CouponService{coupons: coupons}
}

// CreateCoupon registers a new coupon code.
func (s *CouponService) CreateCoupon(ctx context.Context, code string, discount float64, usageLimit int, expiresAt time.Time) (*domain.Coupon, error) {
	if discount <= 0 || discount > 100 {
		return nil, errors.New("discount percentage out of range")
	}
	if _, err := s.coupons.GetByCode(ctx, code); err == nil {
		return nil, errors.New("coupon code already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	coupon := &domain.Coupon{
		Code:               code,
		DiscountPercentage: discount,
		UsageLimit:         usageLimit,
		ExpiresAt:          expiresAt,
	}
	if err := s.coupons.Create(ctx, coupon); err != nil {
		return nil, err
	}
	return coupon, nil
}

// GetCoupon fetches one coupon by id.
func (s *CouponService) GetCoupon(ctx context.Context, id string) (*domain.Coupon, error) {
	return s.coupons.GetByID(ctx, id)
}

// ListCoupons returns a page of coupons.
func (s *CouponService) ListCoupons(ctx context.Context, limit, offset int) ([]domain.Coupon, error) {
	return s.coupons.List(ctx, limit, offset)
}

// UpdateCoupon rewrites a coupon.
func (s *CouponService) UpdateCoupon(ctx context.Context, coupon *domain.Coupon) error {
	if coupon.DiscountPercentage <= 0 || coupon.DiscountPercentage > 100 {
		return errors.New("discount percentage out of range")
	}
	return s.coupons.Update(ctx, coupon)
}

// DeleteCoupon removes a coupon.
func (s *CouponService) DeleteCoupon(ctx context.Context, id string) error {
	return s.coupons.Delete(ctx, id)
}
