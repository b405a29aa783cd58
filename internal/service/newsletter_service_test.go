package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerce-kit/backoffice-service/internal/domain"
)

type memNewsletterRepo struct {
	subs map[string]*domain.NewsletterSubscriber
}

func newMemNewsletterRepo() *memNewsletterRepo {
	return &memNewsletterRepo{subs: make(map[string]*domain.NewsletterSubscriber)}
}

func (r *memNewsletterRepo) Create(_ context.Context, sub *domain.NewsletterSubscriber) error {
	r.subs[sub.Email] = sub
	return nil
}

func (r *memNewsletterRepo) GetByEmail(_ context.Context, email string) (*domain.NewsletterSubscriber, error) {
	if sub, ok := r.subs[email]; ok {
		return sub, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memNewsletterRepo) MarkVerified(_ context.Context, email string) error {
	sub, ok := r.subs[email]
	if !ok {
		return pgx.ErrNoRows
	}
	sub.Verified = true
	return nil
}

func (r *memNewsletterRepo) DeleteByEmail(_ context.Context, email string) error {
	if _, ok := r.subs[email]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.subs, email)
	return nil
}

func newNewsletterFixture(t *testing.T, ttl time.Duration) (*NewsletterService, *memNewsletterRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := newMemNewsletterRepo()
	return NewNewsletterService(repo, client, ttl), repo, mr
}

func TestSubscribeIssuesVerificationToken(t *testing.T) {
	svc, repo, mr := newNewsletterFixture(t, time.Hour)
	ctx := context.Background()

	token, err := svc.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sub, err := repo.GetByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.False(t, sub.Verified)

	email, err := mr.Get("newsletter:verify:" + token)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", email)
}

func TestSubscribeVerifiedEmailFails(t *testing.T) {
	svc, repo, _ := newNewsletterFixture(t, time.Hour)
	ctx := context.Background()

	repo.subs["reader@example.com"] = &domain.NewsletterSubscriber{Email: "reader@example.com", Verified: true}

	_, err := svc.Subscribe(ctx, "reader@example.com")
	assert.Error(t, err)
}

func TestSubscribeUnverifiedEmailReissuesToken(t *testing.T) {
	svc, _, mr := newNewsletterFixture(t, time.Hour)
	ctx := context.Background()

	first, err := svc.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	second, err := svc.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, mr.Exists("newsletter:verify:"+second))
}

func TestVerifyConsumesToken(t *testing.T) {
	svc, repo, mr := newNewsletterFixture(t, time.Hour)
	ctx := context.Background()

	token, err := svc.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.Verify(ctx, token))

	sub, err := repo.GetByEmail(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.True(t, sub.Verified)
	assert.False(t, mr.Exists("newsletter:verify:"+token))

	// Tokens are single use.
	assert.ErrorIs(t, svc.Verify(ctx, token), ErrVerificationToken)
}

func TestVerifyUnknownToken(t *testing.T) {
	svc, _, _ := newNewsletterFixture(t, time.Hour)

	err := svc.Verify(context.Background(), "never-issued")
	assert.ErrorIs(t, err, ErrVerificationToken)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc, _, mr := newNewsletterFixture(t, time.Minute)
	ctx := context.Background()

	token, err := svc.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	assert.ErrorIs(t, svc.Verify(ctx, token), ErrVerificationToken)
}

func TestUnsubscribeRemovesSubscriber(t *testing.T) {
	svc, repo, _ := newNewsletterFixture(t, time.Hour)
	ctx := context.Background()

	repo.subs["reader@example.com"] = &domain.NewsletterSubscriber{Email: "reader@example.com", Verified: true}

	require.NoError(t, svc.Unsubscribe(ctx, "reader@example.com"))
	_, err := repo.GetByEmail(ctx, "reader@example.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
