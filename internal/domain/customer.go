package domain

import "time"

// Customer models a storefront customer account.
type Customer struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Verified     bool
	TokenEpoch   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
