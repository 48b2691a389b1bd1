// Package routing is the pure role-to-destination resolver shared by the
// login flow, the generic dashboard redirector, and the route guard. It has
// no side effects and no dependencies beyond the domain types, so every
// caller applies exactly the same mapping.
package routing

import "github.com/fitmarket/session-gateway/internal/core/domain"

const (
	// LoginPath is where unauthenticated navigations are redirected.
	LoginPath = "/auth/login"

	homeAdmin    = "/dashboard/admin"
	homeGymStaff = "/dashboard/gym-staff"
	homePT       = "/dashboard/pt"
	homeClient   = "/dashboard"
)

// HomeFor returns the canonical dashboard path for a role. This is the
// destination the guard redirects to when a session holds a role that is
// not authorized for the requested path.
func HomeFor(role domain.Role) (string, error) {
	switch role {
	case domain.RoleAdmin:
		return homeAdmin, nil
	case domain.RoleGymStaff:
		return homeGymStaff, nil
	case domain.RolePT:
		return homePT, nil
	case domain.RoleClient:
		return homeClient, nil
	}
	return "", domain.ErrUnknownRole
}

// LoginLandingFor returns the destination applied immediately after a
// successful login. It differs from HomeFor in exactly one case: client
// users landing from login go to the public landing page "/", while the
// shared /dashboard page visited directly by a client user stays put.
// The asymmetry is deliberate and must not be unified without product
// sign-off.
func LoginLandingFor(role domain.Role) (string, error) {
	if role == domain.RoleClient {
		return "/", nil
	}
	return HomeFor(role)
}
