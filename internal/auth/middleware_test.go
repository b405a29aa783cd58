package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerce-kit/backoffice-service/internal/domain"
	"github.com/commerce-kit/backoffice-service/internal/repository"
	"github.com/commerce-kit/backoffice-service/pkg/util/errorutil"
)

type stubAdminRepo struct {
	admin *domain.Admin
}

func (r *stubAdminRepo) Create(context.Context, *domain.Admin) error { return nil }

func (r *stubAdminRepo) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	if r.admin != nil && r.admin.ID == id {
		return r.admin, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubAdminRepo) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	if r.admin != nil && r.admin.Email == email {
		return r.admin, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubAdminRepo) UpdatePassword(context.Context, string, string) error { return nil }

type stubStaffRepo struct {
	staff []*domain.Staff
}

func (r *stubStaffRepo) Create(context.Context, *domain.Staff) error          { return nil }
func (r *stubStaffRepo) Update(context.Context, *domain.Staff) error          { return nil }
func (r *stubStaffRepo) UpdatePassword(context.Context, string, string) error { return nil }

func (r *stubStaffRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	for _, s := range r.staff {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubStaffRepo) GetByEmail(_ context.Context, email string) (*domain.Staff, error) {
	for _, s := range r.staff {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubStaffRepo) GetByEmailAndRole(_ context.Context, email string, role domain.StaffRole) (*domain.Staff, error) {
	for _, s := range r.staff {
		if s.Email == email && s.Role == role {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *stubStaffRepo) SetStatus(context.Context, string, domain.StaffStatus) error { return nil }

func (r *stubStaffRepo) List(context.Context, repository.StaffFilter) ([]domain.Staff, error) {
	return nil, nil
}

type stubCustomerRepo struct {
	customer *domain.Customer
}

func (r *stubCustomerRepo) Create(context.Context, *domain.Customer) error { return nil }

func (r *stubCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	if r.customer != nil && r.customer.ID == id {
		return r.customer, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	if r.customer != nil && r.customer.Email == email {
		return r.customer, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *stubCustomerRepo) UpdatePassword(context.Context, string, string) error { return nil }
func (r *stubCustomerRepo) MarkVerified(context.Context, string) error           { return nil }

type gateFixture struct {
	tokens    *TokenManager
	admins    *stubAdminRepo
	staff     *stubStaffRepo
	customers *stubCustomerRepo
	gate      *AuthGate
}

func newGateFixture() *gateFixture {
	f := &gateFixture{
		tokens:    NewTokenManager("test-secret", 60),
		admins:    &stubAdminRepo{},
		staff:     &stubStaffRepo{},
		customers: &stubCustomerRepo{},
	}
	f.gate = NewAuthGate(f.tokens, f.admins, f.staff, f.customers)
	return f
}

// newGateApp mounts a probe route behind the gate. The handler reports which
// slot the claims landed in, so tests can assert on slot assignment.
func newGateApp(f *gateFixture, kinds ...PrincipalKind) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := errorutil.ToDomainError(err)
			return c.Status(de.HTTPStatus).JSON(fiber.Map{"error": de.Code})
		},
	})
	app.Get("/probe", f.gate.Authenticate(kinds...), func(c *fiber.Ctx) error {
		slot := "none"
		var email string
		if claims, ok := AdminFromContext(c); ok {
			slot, email = "admin", claims.Email
		} else if claims, ok := StaffFromContext(c); ok {
			slot, email = "staff", claims.Email
		} else if claims, ok := CustomerFromContext(c); ok {
			slot, email = "customer", claims.Email
		}
		return c.JSON(fiber.Map{"slot": slot, "email": email})
	})
	return app
}

func probe(t *testing.T, app *fiber.App, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAuthenticateMissingHeader(t *testing.T) {
	f := newGateFixture()
	app := newGateApp(f, KindAdmin)

	resp := probe(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	f := newGateFixture()
	app := newGateApp(f, KindAdmin)

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Token abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateGarbledToken(t *testing.T) {
	f := newGateFixture()
	app := newGateApp(f, KindAdmin)

	resp := probe(t, app, "garbage.token.value")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateAdminSuccess(t *testing.T) {
	f := newGateFixture()
	f.admins.admin = &domain.Admin{ID: "a1", Email: "root@example.com", TokenEpoch: 3}
	app := newGateApp(f, KindAdmin)

	token, _, err := f.tokens.GenerateToken("a1", "Root", "root@example.com", nil, 3)
	require.NoError(t, err)

	resp := probe(t, app, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthenticateEpochMismatch(t *testing.T) {
	f := newGateFixture()
	f.admins.admin = &domain.Admin{ID: "a1", Email: "root@example.com", TokenEpoch: 3}
	app := newGateApp(f, KindAdmin)

	token, _, err := f.tokens.GenerateToken("a1", "Root", "root@example.com", nil, 2)
	require.NoError(t, err)

	resp := probe(t, app, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateNoMatchingPrincipal(t *testing.T) {
	f := newGateFixture()
	app := newGateApp(f, KindCustomer, KindAdmin, KindAgent, KindDesigner)

	token, _, err := f.tokens.GenerateToken("x", "Ghost", "ghost@example.com", nil, 0)
	require.NoError(t, err)

	resp := probe(t, app, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateKindOrderDefinesPrecedence(t *testing.T) {
	f := newGateFixture()
	f.customers.customer = &domain.Customer{ID: "c1", Email: "dual@example.com", TokenEpoch: 1}
	f.admins.admin = &domain.Admin{ID: "a1", Email: "dual@example.com", TokenEpoch: 1}

	token, _, err := f.tokens.GenerateToken("c1", "Dual", "dual@example.com", nil, 1)
	require.NoError(t, err)

	app := newGateApp(f, KindCustomer, KindAdmin)
	resp := probe(t, app, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "customer", decodeSlot(t, resp))

	app = newGateApp(f, KindAdmin, KindCustomer)
	resp = probe(t, app, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin", decodeSlot(t, resp))
}

func TestAuthenticateFallsThroughToLaterKind(t *testing.T) {
	f := newGateFixture()
	f.staff.staff = []*domain.Staff{
		{ID: "s1", Email: "kit@example.com", Role: domain.StaffRoleDesigner, TokenEpoch: 5},
	}
	role := domain.StaffRoleDesigner
	token, _, err := f.tokens.GenerateToken("s1", "Kit", "kit@example.com", &role, 5)
	require.NoError(t, err)

	app := newGateApp(f, KindAgent, KindDesigner)
	resp := probe(t, app, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "staff", decodeSlot(t, resp))
}

func TestAuthenticateStaffRoleScopedLookup(t *testing.T) {
	f := newGateFixture()
	f.staff.staff = []*domain.Staff{
		{ID: "s1", Email: "kit@example.com", Role: domain.StaffRoleDesigner, TokenEpoch: 0},
	}
	role := domain.StaffRoleDesigner
	token, _, err := f.tokens.GenerateToken("s1", "Kit", "kit@example.com", &role, 0)
	require.NoError(t, err)

	// A designer must not pass a gate that only admits agents.
	app := newGateApp(f, KindAgent)
	resp := probe(t, app, token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func decodeSlot(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var body struct {
		Slot string `json:"slot"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Slot
}
