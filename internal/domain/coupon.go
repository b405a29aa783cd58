package domain

import "time"

// Coupon models a discount code redeemable at checkout.
type Coupon struct {
	ID                 string
	Code               string
	DiscountPercentage float64
	UsageLimit         int
	ExpiresAt          time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
