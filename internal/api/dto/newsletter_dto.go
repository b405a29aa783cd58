package dto

// NewsletterSubscribeRequest payload for newsletter signup.
type NewsletterSubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// NewsletterVerifyRequest payload for confirming a subscription.
type NewsletterVerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// NewsletterUnsubscribeRequest payload for leaving the newsletter.
type NewsletterUnsubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}
