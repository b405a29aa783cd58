package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"

	"github.com/commerce-kit/backoffice-service/internal/domain"
	"github.com/commerce-kit/backoffice-service/internal/repository"
)

const newsletterVerifyPrefix = "newsletter:verify:"

// ErrVerificationToken is returned for unknown or expired verification tokens.
var ErrVerificationToken = errors.New("verification token invalid or expired")

// NewsletterService manages the subscription flow. Verification tokens live
// in Redis with a TTL; delivering them by email is out of scope, so the
// token is handed back to the caller.
type NewsletterService struct {
	subscribers repository.NewsletterRepository
	redis       *redis.Client
	tokenTTL    time.Duration
}

// NewNewsletterService builds the service.
func NewNewsletterService(subscribers repository.NewsletterRepository, redisClient *redis.Client, tokenTTL time.Duration) *NewsletterService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &NewsletterService{subscribers: subscribers, redis: redisClient, tokenTTL: tokenTTL}
}

// Subscribe records the email (unverified) and issues a verification token.
// Re-subscribing an unverified email issues a fresh token.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (string, error) {
	sub, err := s.subscribers.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if sub.Verified {
			return "", errors.New("email already subscribed")
		}
	case errors.Is(err, pgx.ErrNoRows):
		if err := s.subscribers.Create(ctx, &domain.NewsletterSubscriber{Email: email}); err != nil {
			return "", err
		}
	default:
		return "", err
	}

	token := uuid.NewString()
	if err := s.redis.Set(ctx, newsletterVerifyPrefix+token, email, s.tokenTTL).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Verify consumes a verification token and marks the subscriber verified.
func (s *NewsletterService) Verify(ctx context.Context, token string) error {
	key := newsletterVerifyPrefix + token

	email, err := s.redis.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrVerificationToken
		}
		return err
	}

	if err := s.subscribers.MarkVerified(ctx, email); err != nil {
		return err
	}
	return s.redis.Del(ctx, key).Err()
}

// Unsubscribe removes the subscriber.
func (s *NewsletterService) Unsubscribe(ctx context.Context, email string) error {
	return s.subscribers.DeleteByEmail(ctx, email)
}
