package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commerce-kit/backoffice-service/internal/auth"
	"github.com/commerce-kit/backoffice-service/internal/domain"
	"github.com/commerce-kit/backoffice-service/internal/presence"
)

func newStaffFixture() (*StaffService, *fakeStaffRepo, *fakeAdminRepo, *presence.Tracker) {
	staff := &fakeStaffRepo{}
	admins := &fakeAdminRepo{}
	tracker := presence.NewTracker(staff, nil, nil, zap.NewNop())
	return NewStaffService(staff, admins, tracker, 4), staff, admins, tracker
}

func TestCreateStaffRejectsUnknownRole(t *testing.T) {
	svc, _, _, _ := newStaffFixture()

	_, err := svc.CreateStaff(context.Background(), "Kit", "kit@example.com", "password1", "MANAGER", 10)
	assert.Error(t, err)
}

func TestCreateStaffRejectsAdminEmail(t *testing.T) {
	svc, _, admins, _ := newStaffFixture()
	admins.admin = &domain.Admin{ID: "admin-1", Email: "taken@example.com"}

	_, err := svc.CreateStaff(context.Background(), "Kit", "taken@example.com", "password1", domain.StaffRoleAgent, 10)
	assert.Error(t, err)
}

func TestCreateStaffHashesPassword(t *testing.T) {
	svc, repo, _, _ := newStaffFixture()

	staff, err := svc.CreateStaff(context.Background(), "Kit", "kit@example.com", "password1", domain.StaffRoleDesigner, 12.5)
	require.NoError(t, err)

	assert.Equal(t, domain.StaffRoleDesigner, staff.Role)
	assert.Equal(t, domain.StaffStatusOffline, staff.Status)
	assert.NotEqual(t, "password1", repo.record.PasswordHash)
	assert.NoError(t, auth.ComparePassword(repo.record.PasswordHash, "password1"))
}

func TestUpdateStaffBumpsTokenEpoch(t *testing.T) {
	svc, repo, _, _ := newStaffFixture()
	repo.record = &domain.Staff{
		ID:         "staff-1",
		Name:       "Kit",
		Email:      "kit@example.com",
		Role:       domain.StaffRoleAgent,
		TokenEpoch: 2,
	}

	newRole := domain.StaffRoleDesigner
	updated, err := svc.UpdateStaff(context.Background(), "staff-1", StaffUpdate{Role: &newRole})
	require.NoError(t, err)

	assert.Equal(t, domain.StaffRoleDesigner, updated.Role)
	assert.Equal(t, int64(3), updated.TokenEpoch)
}

func TestUpdateStaffRejectsUnknownRole(t *testing.T) {
	svc, repo, _, _ := newStaffFixture()
	repo.record = &domain.Staff{ID: "staff-1", Role: domain.StaffRoleAgent}

	badRole := domain.StaffRole("INTERN")
	_, err := svc.UpdateStaff(context.Background(), "staff-1", StaffUpdate{Role: &badRole})
	assert.Error(t, err)
}

func TestOnlineStaffIDsReadsTracker(t *testing.T) {
	svc, _, _, tracker := newStaffFixture()
	ctx := context.Background()

	assert.Empty(t, svc.OnlineStaffIDs())

	tracker.HandleLogin(ctx, "staff-2", "conn-a")
	tracker.HandleLogin(ctx, "staff-1", "conn-b")

	assert.Equal(t, []string{"staff-1", "staff-2"}, svc.OnlineStaffIDs())
}
