package domain

import "time"

// Admin models a back-office administrator account.
type Admin struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	TokenEpoch   int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
