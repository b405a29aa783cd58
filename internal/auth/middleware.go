package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/commerce-kit/backoffice-service/internal/repository"
	"github.com/commerce-kit/backoffice-service/pkg/util/errorutil"
)

// AuthGate resolves bearer tokens into exactly one principal of an
// acceptable kind, or rejects the request with 401.
type AuthGate struct {
	tokens    *TokenManager
	admins    repository.AdminRepository
	staff     repository.StaffRepository
	customers repository.CustomerRepository
}

// NewAuthGate constructs the gate.
func NewAuthGate(tokens *TokenManager, admins repository.AdminRepository, staff repository.StaffRepository, customers repository.CustomerRepository) *AuthGate {
	return &AuthGate{tokens: tokens, admins: admins, staff: staff, customers: customers}
}

// lookupResult carries what the gate needs from a repository match: the
// stored epoch to compare against the token, and the slot to attach under.
type lookupResult struct {
	tokenEpoch int64
	slot       string
}

type principalLookup func(ctx context.Context, email string) (*lookupResult, error)

func (g *AuthGate) lookupFor(kind PrincipalKind) principalLookup {
	switch kind {
	case KindCustomer:
		return func(ctx context.Context, email string) (*lookupResult, error) {
			customer, err := g.customers.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			return &lookupResult{tokenEpoch: customer.TokenEpoch, slot: customerKey}, nil
		}
	case KindAdmin:
		return func(ctx context.Context, email string) (*lookupResult, error) {
			admin, err := g.admins.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			return &lookupResult{tokenEpoch: admin.TokenEpoch, slot: adminKey}, nil
		}
	case KindAgent, KindDesigner:
		role, _ := kind.StaffRole()
		return func(ctx context.Context, email string) (*lookupResult, error) {
			staff, err := g.staff.GetByEmailAndRole(ctx, email, role)
			if err != nil {
				return nil, err
			}
			return &lookupResult{tokenEpoch: staff.TokenEpoch, slot: staffKey}, nil
		}
	default:
		return nil
	}
}

// Authenticate returns a handler that admits requests bearing a valid token
// for one of the given kinds, tried in the caller-supplied order. The first
// kind whose repository yields a match wins; the decoded claims are attached
// under that kind's slot. All auth failures map to 401.
func (g *AuthGate) Authenticate(kinds ...PrincipalKind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return errorutil.NewUnauthorized("authorization token is missing")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			return errorutil.NewUnauthorized("authorization token is missing")
		}

		claims, err := g.tokens.ParseToken(parts[1])
		if err != nil {
			return errorutil.NewUnauthorized("invalid authorization token")
		}

		for _, kind := range kinds {
			lookup := g.lookupFor(kind)
			if lookup == nil {
				continue
			}

			match, err := lookup(c.Context(), claims.Email)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					continue
				}
				return errorutil.MapError(err)
			}

			if claims.TokenEpoch != match.tokenEpoch {
				return errorutil.NewUnauthorized("invalid authorization token")
			}

			c.Locals(match.slot, claims)
			return c.Next()
		}

		return errorutil.NewUnauthorized("invalid authorization token")
	}
}

// AdminFromContext returns claims attached under the admin slot.
func AdminFromContext(c *fiber.Ctx) (*Claims, bool) {
	return claimsFromLocals(c, adminKey)
}

// StaffFromContext returns claims attached under the staff slot.
func StaffFromContext(c *fiber.Ctx) (*Claims, bool) {
	return claimsFromLocals(c, staffKey)
}

// CustomerFromContext returns claims attached under the customer slot.
func CustomerFromContext(c *fiber.Ctx) (*Claims, bool) {
	return claimsFromLocals(c, customerKey)
}

func claimsFromLocals(c *fiber.Ctx, key string) (*Claims, bool) {
	val := c.Locals(key)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
