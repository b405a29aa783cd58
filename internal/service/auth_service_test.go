package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerce-kit/backoffice-service/internal/auth"
	"github.com/commerce-kit/backoffice-service/internal/config"
	"github.com/commerce-kit/backoffice-service/internal/domain"
	"github.com/commerce-kit/backoffice-service/internal/events"
	"github.com/commerce-kit/backoffice-service/internal/repository"
)

type fakeAdminRepo struct {
	admin *domain.Admin
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	admin.ID = "admin-1"
	r.admin = admin
	return nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	if r.admin != nil && r.admin.ID == id {
		return r.admin, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	if r.admin != nil && r.admin.Email == email {
		return r.admin, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) UpdatePassword(_ context.Context, id, hash string) error {
	if r.admin == nil || r.admin.ID != id {
		return pgx.ErrNoRows
	}
	r.admin.PasswordHash = hash
	r.admin.TokenEpoch++
	return nil
}

type fakeStaffRepo struct {
	record *domain.Staff
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.Staff) error {
	staff.ID = "staff-1"
	r.record = staff
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, staff *domain.Staff) error {
	staff.TokenEpoch++
	r.record = staff
	return nil
}

func (r *fakeStaffRepo) UpdatePassword(_ context.Context, id, hash string) error {
	if r.record == nil || r.record.ID != id {
		return pgx.ErrNoRows
	}
	r.record.PasswordHash = hash
	r.record.TokenEpoch++
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	if r.record != nil && r.record.ID == id {
		return r.record, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.Staff, error) {
	if r.record != nil && r.record.Email == email {
		return r.record, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) GetByEmailAndRole(_ context.Context, email string, role domain.StaffRole) (*domain.Staff, error) {
	if r.record != nil && r.record.Email == email && r.record.Role == role {
		return r.record, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) SetStatus(context.Context, string, domain.StaffStatus) error { return nil }

func (r *fakeStaffRepo) List(context.Context, repository.StaffFilter) ([]domain.Staff, error) {
	if r.record == nil {
		return nil, nil
	}
	return []domain.Staff{*r.record}, nil
}

type fakeCustomerRepo struct {
	customer *domain.Customer
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	customer.ID = "customer-1"
	r.customer = customer
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if r.customer != nil && r.customer.ID == id {
		return r.customer, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	if r.customer != nil && r.customer.Email == email {
		return r.customer, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) UpdatePassword(_ context.Context, id, hash string) error {
	if r.customer == nil || r.customer.ID != id {
		return pgx.ErrNoRows
	}
	r.customer.PasswordHash = hash
	r.customer.TokenEpoch++
	return nil
}

func (r *fakeCustomerRepo) MarkVerified(context.Context, string) error { return nil }

type authFixture struct {
	svc        *AuthService
	admins     *fakeAdminRepo
	staff      *fakeStaffRepo
	customers  *fakeCustomerRepo
	dispatcher events.Dispatcher
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		admins:     &fakeAdminRepo{},
		staff:      &fakeStaffRepo{},
		customers:  &fakeCustomerRepo{},
		dispatcher: events.NewInMemoryDispatcher(),
	}
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}}
	f.svc = NewAuthService(cfg, AuthDependencies{
		AdminRepo:    f.admins,
		StaffRepo:    f.staff,
		CustomerRepo: f.customers,
		Dispatcher:   f.dispatcher,
	})
	return f
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password, 4)
	require.NoError(t, err)
	return hash
}

func TestLoginAdminMintsTokenWithCurrentEpoch(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	f.admins.admin = &domain.Admin{
		ID:           "admin-1",
		Email:        "root@example.com",
		PasswordHash: mustHash(t, "correct horse"),
		TokenEpoch:   4,
	}

	admin, token, _, err := f.svc.LoginAdmin(ctx, "root@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, "admin-1", admin.ID)

	claims, err := f.svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(4), claims.TokenEpoch)
	assert.Nil(t, claims.Role)
}

func TestLoginAdminWrongPassword(t *testing.T) {
	f := newAuthFixture()
	f.admins.admin = &domain.Admin{
		ID:           "admin-1",
		Email:        "root@example.com",
		PasswordHash: mustHash(t, "correct horse"),
	}

	_, _, _, err := f.svc.LoginAdmin(context.Background(), "root@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginAdminUnknownEmail(t *testing.T) {
	f := newAuthFixture()

	_, _, _, err := f.svc.LoginAdmin(context.Background(), "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginStaffTokenCarriesRole(t *testing.T) {
	f := newAuthFixture()
	f.staff.record = &domain.Staff{
		ID:           "staff-1",
		Email:        "kit@example.com",
		PasswordHash: mustHash(t, "secret pass"),
		Role:         domain.StaffRoleAgent,
		TokenEpoch:   1,
	}

	_, token, _, err := f.svc.LoginStaff(context.Background(), "kit@example.com", "secret pass")
	require.NoError(t, err)

	claims, err := f.svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.NotNil(t, claims.Role)
	assert.Equal(t, domain.StaffRoleAgent, *claims.Role)
	assert.Equal(t, int64(1), claims.TokenEpoch)
}

func TestRegisterAdminRejectsStaffEmail(t *testing.T) {
	f := newAuthFixture()
	f.staff.record = &domain.Staff{ID: "staff-1", Email: "taken@example.com"}

	_, _, _, err := f.svc.RegisterAdmin(context.Background(), "New", "taken@example.com", "555", "password1")
	assert.Error(t, err)
}

func TestRegisterCustomerDuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.customers.customer = &domain.Customer{ID: "customer-1", Email: "dup@example.com"}

	_, _, _, err := f.svc.RegisterCustomer(context.Background(), "Dup", "dup@example.com", "password1")
	assert.Error(t, err)
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	f := newAuthFixture()
	f.customers.customer = &domain.Customer{
		ID:           "customer-1",
		Email:        "c@example.com",
		PasswordHash: mustHash(t, "old pass"),
	}

	err := f.svc.ChangePassword(context.Background(),
		AuthSubject{Kind: auth.KindCustomer, ID: "customer-1"}, "not old pass", "new pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, int64(0), f.customers.customer.TokenEpoch)
}

func TestChangePasswordBumpsEpochAndPublishes(t *testing.T) {
	f := newAuthFixture()
	f.staff.record = &domain.Staff{
		ID:           "staff-1",
		Email:        "kit@example.com",
		PasswordHash: mustHash(t, "old pass"),
		Role:         domain.StaffRoleDesigner,
		TokenEpoch:   2,
	}

	var published []events.Event
	f.dispatcher.Subscribe(events.EventPasswordChanged, func(_ context.Context, evt events.Event) error {
		published = append(published, evt)
		return nil
	})

	err := f.svc.ChangePassword(context.Background(),
		AuthSubject{Kind: auth.KindDesigner, ID: "staff-1"}, "old pass", "new pass")
	require.NoError(t, err)

	assert.Equal(t, int64(3), f.staff.record.TokenEpoch)
	assert.NoError(t, auth.ComparePassword(f.staff.record.PasswordHash, "new pass"))
	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.PasswordChangedPayload)
	require.True(t, ok)
	assert.Equal(t, "staff-1", payload.SubjectID)
}
