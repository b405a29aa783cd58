package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/commerce-kit/backoffice-service/internal/auth"
	"github.com/commerce-kit/backoffice-service/internal/domain"
	"github.com/commerce-kit/backoffice-service/internal/presence"
	"github.com/commerce-kit/backoffice-service/internal/repository"
)

// StaffService covers admin-side staff management and presence reads.
type StaffService struct {
	staff      repository.StaffRepository
	admins     repository.AdminRepository
	tracker    *presence.Tracker
	bcryptCost int
}

// NewStaffService builds the service.
func NewStaffService(staff repository.StaffRepository, admins repository.AdminRepository, tracker *presence.Tracker, bcryptCost int) *StaffService {
	return &StaffService{staff: staff, admins: admins, tracker: tracker, bcryptCost: bcryptCost}
}

// StaffUpdate carries optional staff profile changes.
type StaffUpdate struct {
	Name                 *string
	Email                *string
	Role                 *domain.StaffRole
	CommissionPercentage *float64
}

// CreateStaff registers a new agent or designer. Staff and admin emails are
// mutually exclusive.
func (s *StaffService) CreateStaff(ctx context.Context, name, email, password string, role domain.StaffRole, commission float64) (*domain.Staff, error) {
	if role != domain.StaffRoleAgent && role != domain.StaffRoleDesigner {
		return nil, errors.New("unknown staff role")
	}

	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if _, err := s.admins.GetByEmail(ctx, email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	staff := &domain.Staff{
		Name:                 name,
		Email:                email,
		PasswordHash:         hash,
		Role:                 role,
		CommissionPercentage: commission,
		Status:               domain.StaffStatusOffline,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// ListStaff returns staff members matching the filter.
func (s *StaffService) ListStaff(ctx context.Context, filter repository.StaffFilter) ([]domain.Staff, error) {
	return s.staff.List(ctx, filter)
}

// GetStaff fetches one staff member.
func (s *StaffService) GetStaff(ctx context.Context, id string) (*domain.Staff, error) {
	return s.staff.GetByID(ctx, id)
}

// UpdateStaff applies profile changes. The repository write bumps the token
// epoch, so tokens issued before the update stop validating.
func (s *StaffService) UpdateStaff(ctx context.Context, id string, update StaffUpdate) (*domain.Staff, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		staff.Name = *update.Name
	}
	if update.Email != nil {
		staff.Email = *update.Email
	}
	if update.Role != nil {
		if *update.Role != domain.StaffRoleAgent && *update.Role != domain.StaffRoleDesigner {
			return nil, errors.New("unknown staff role")
		}
		staff.Role = *update.Role
	}
	if update.CommissionPercentage != nil {
		staff.CommissionPercentage = *update.CommissionPercentage
	}

	if err := s.staff.Update(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}

// OnlineStaffIDs reports which staff members currently hold at least one
// live connection, straight from the in-memory registry.
func (s *StaffService) OnlineStaffIDs() []string {
	if s.tracker == nil {
		return nil
	}
	return s.tracker.OnlineStaff()
}
