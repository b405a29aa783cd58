package domain

import "time"

// NewsletterSubscriber models a newsletter signup.
type NewsletterSubscriber struct {
	ID        string
	Email     string
	Verified  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
