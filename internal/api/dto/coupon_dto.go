package dto

import "time"

// CouponRequest payload for creating or updating a coupon.
type CouponRequest struct {
	Code               string    `json:"code" validate:"required,min=3"`
	DiscountPercentage float64   `json:"discount_percentage" validate:"required,gt=0,lte=100"`
	UsageLimit         int       `json:"usage_limit" validate:"gte=0"`
	ExpiresAt          time.Time `json:"expires_at" validate:"required"`
}

// CouponResponse is the API view of a coupon.
type CouponResponse struct {
	ID                 string    `json:"id"`
	Code               string    `json:"code"`
	DiscountPercentage float64   `json:"discount_percentage"`
	UsageLimit         int       `json:"usage_limit"`
	ExpiresAt          time.Time `json:"expires_at"`
}
