package service

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerce-kit/backoffice-service/internal/domain"
)

type memCouponRepo struct {
	byCode map[string]*domain.Coupon
}

func newMemCouponRepo() *memCouponRepo {
	return &memCouponRepo{byCode: make(map[string]*domain.Coupon)}
}

func (r *memCouponRepo) Create(_ context.Context, coupon *domain.Coupon) error {
	coupon.ID = "coupon-" + coupon.Code
	r.byCode[coupon.Code] = coupon
	return nil
}

func (r *memCouponRepo) Update(_ context.Context, coupon *domain.Coupon) error {
	r.byCode[coupon.Code] = coupon
	return nil
}

func (r *memCouponRepo) Delete(_ context.Context, id string) error {
	for code, c := range r.byCode {
		if c.ID == id {
			delete(r.byCode, code)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *memCouponRepo) GetByID(_ context.Context, id string) (*domain.Coupon, error) {
	for _, c := range r.byCode {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memCouponRepo) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	if c, ok := r.byCode[code]; ok {
		return c, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memCouponRepo) List(_ context.Context, _, _ int) ([]domain.Coupon, error) {
	var out []domain.Coupon
	for _, c := range r.byCode {
		out = append(out, *c)
	}
	return out, nil
}

func TestCreateCouponRejectsOutOfRangeDiscount(t *testing.T) {
	svc := NewCouponService(newMemCouponRepo())
	expires := time.Now().Add(time.Hour)

	_, err := svc.CreateCoupon(context.Background(), "SAVE0", 0, 10, expires)
	assert.Error(t, err)

	_, err = svc.CreateCoupon(context.Background(), "SAVE200", 200, 10, expires)
	assert.Error(t, err)
}

func TestCreateCouponRejectsDuplicateCode(t *testing.T) {
	repo := newMemCouponRepo()
	svc := NewCouponService(repo)
	expires := time.Now().Add(time.Hour)

	_, err := svc.CreateCoupon(context.Background(), "SAVE10", 10, 100, expires)
	require.NoError(t, err)

	_, err = svc.CreateCoupon(context.Background(), "SAVE10", 15, 100, expires)
	assert.Error(t, err)
}

func TestCreateCouponPersists(t *testing.T) {
	repo := newMemCouponRepo()
	svc := NewCouponService(repo)
	expires := time.Now().Add(time.Hour)

	coupon, err := svc.CreateCoupon(context.Background(), "SAVE25", 25, 50, expires)
	require.NoError(t, err)
	assert.NotEmpty(t, coupon.ID)

	stored, err := repo.GetByCode(context.Background(), "SAVE25")
	require.NoError(t, err)
	assert.Equal(t, 25.0, stored.DiscountPercentage)
	assert.Equal(t, 50, stored.UsageLimit)
}

func TestUpdateCouponValidatesDiscount(t *testing.T) {
	svc := NewCouponService(newMemCouponRepo())

	err := svc.UpdateCoupon(context.Background(), &domain.Coupon{Code: "X", DiscountPercentage: 101})
	assert.Error(t, err)
}
