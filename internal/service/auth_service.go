package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/commerce-kit/backoffice-service/internal/auth"
	"github.com/commerce-kit/backoffice-service/internal/config"
	"github.com/commerce-kit/backoffice-service/internal/domain"
	"github.com/commerce-kit/backoffice-service/internal/events"
	"github.com/commerce-kit/backoffice-service/internal/repository"
)

// ErrInvalidCredentials is returned for any wrong email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthSubject identifies the caller when changing password.
type AuthSubject struct {
	Kind auth.PrincipalKind
	ID   string
}

// AuthService coordinates registration and login flows. Tokens are minted
// with the principal's current token epoch; password changes bump the stored
// epoch, which invalidates every previously issued token for that principal.
type AuthService struct {
	admins     repository.AdminRepository
	staff      repository.StaffRepository
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AdminRepo    repository.AdminRepository
	StaffRepo    repository.StaffRepository
	CustomerRepo repository.CustomerRepository
	Dispatcher   events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		admins:     deps.AdminRepo,
		staff:      deps.StaffRepo,
		customers:  deps.CustomerRepo,
		dispatcher: deps.Dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// RegisterAdmin creates a new administrator account. Admin and staff emails
// are mutually exclusive.
func (s *AuthService) RegisterAdmin(ctx context.Context, name, email, phone, password string) (*domain.Admin, string, time.Time, error) {
	if err := s.ensureEmailFreeForBackoffice(ctx, email); err != nil {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	admin := &domain.Admin{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(admin.ID, admin.Name, admin.Email, nil, admin.TokenEpoch)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, exp, nil
}

// LoginAdmin authenticates an administrator.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.GenerateToken(admin.ID, admin.Name, admin.Email, nil, admin.TokenEpoch)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, exp, nil
}

// LoginStaff authenticates a staff member and returns a role-bearing token.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*domain.Staff, string, time.Time, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, staff.Name, staff.Email, &staff.Role, staff.TokenEpoch)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return staff, token, exp, nil
}

// RegisterCustomer creates a new customer account.
func (s *AuthService) RegisterCustomer(ctx context.Context, name, email, password string) (*domain.Customer, string, time.Time, error) {
	if _, err := s.customers.GetByEmail(ctx, email); err == nil {
		return nil, "", time.Time{}, errors.New("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	customer := &domain.Customer{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(customer.ID, customer.Name, customer.Email, nil, customer.TokenEpoch)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return customer, token, exp, nil
}

// LoginCustomer authenticates a customer.
func (s *AuthService) LoginCustomer(ctx context.Context, email, password string) (*domain.Customer, string, time.Time, error) {
	customer, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(customer.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.tokenMgr.GenerateToken(customer.ID, customer.Name, customer.Email, nil, customer.TokenEpoch)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return customer, token, exp, nil
}

// ChangePassword verifies the current password before swapping the hash.
// The repository write bumps the subject's token epoch, so the caller's own
// token stops validating along with everyone else's.
func (s *AuthService) ChangePassword(ctx context.Context, subject AuthSubject, currentPassword, newPassword string) error {
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	switch subject.Kind {
	case auth.KindAdmin:
		admin, err := s.admins.GetByID(ctx, subject.ID)
		if err != nil {
			return err
		}
		if err := auth.ComparePassword(admin.PasswordHash, currentPassword); err != nil {
			return ErrInvalidCredentials
		}
		if err := s.admins.UpdatePassword(ctx, admin.ID, hash); err != nil {
			return err
		}
	case auth.KindAgent, auth.KindDesigner:
		staff, err := s.staff.GetByID(ctx, subject.ID)
		if err != nil {
			return err
		}
		if err := auth.ComparePassword(staff.PasswordHash, currentPassword); err != nil {
			return ErrInvalidCredentials
		}
		if err := s.staff.UpdatePassword(ctx, staff.ID, hash); err != nil {
			return err
		}
	case auth.KindCustomer:
		customer, err := s.customers.GetByID(ctx, subject.ID)
		if err != nil {
			return err
		}
		if err := auth.ComparePassword(customer.PasswordHash, currentPassword); err != nil {
			return ErrInvalidCredentials
		}
		if err := s.customers.UpdatePassword(ctx, customer.ID, hash); err != nil {
			return err
		}
	default:
		return errors.New("unknown subject kind")
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPasswordChanged,
			Timestamp: time.Now(),
			Payload: events.PasswordChangedPayload{
				SubjectKind: string(subject.Kind),
				SubjectID:   subject.ID,
			},
		})
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) ensureEmailFreeForBackoffice(ctx context.Context, email string) error {
	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return errors.New("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return errors.New("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return nil
}
