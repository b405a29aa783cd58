package auth

import "github.com/commerce-kit/backoffice-service/internal/domain"

// PrincipalKind names one variant of the closed set of authenticatable
// identities. The order in which kinds are passed to Authenticate defines
// lookup precedence.
type PrincipalKind string

const (
	KindCustomer PrincipalKind = "customer"
	KindAdmin    PrincipalKind = "admin"
	KindAgent    PrincipalKind = "agent"
	KindDesigner PrincipalKind = "designer"
)

// StaffRole maps the agent/designer kinds onto the staff role they select.
func (k PrincipalKind) StaffRole() (domain.StaffRole, bool) {
	switch k {
	case KindAgent:
		return domain.StaffRoleAgent, true
	case KindDesigner:
		return domain.StaffRoleDesigner, true
	default:
		return "", false
	}
}

// Request-local slots the gate attaches resolved claims under. Staff kinds
// share one slot; a request is authenticated as exactly one principal.
const (
	adminKey    = "auth_admin"
	staffKey    = "auth_staff"
	customerKey = "auth_customer"
)
