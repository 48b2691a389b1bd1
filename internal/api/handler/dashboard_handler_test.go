package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fitmarket/session-gateway/internal/api/middleware"
	"github.com/fitmarket/session-gateway/internal/core/domain"
)

func dashboardContext(t *testing.T, path string, identity *domain.Identity) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(middleware.CtxIdentity, identity)
	}
	return c, rec
}

func TestDashboard_ClientStaysPut(t *testing.T) {
	h := NewDashboardHandler()
	identity := &domain.Identity{ID: "id-1", Role: domain.RoleClient}

	c, rec := dashboardContext(t, "/dashboard", identity)
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	// Deliberately not a redirect: the client user's post-login landing is
	// "/", but a direct /dashboard visit stays on /dashboard.
	if rec.Code != http.StatusOK {
		t.Fatalf("client on /dashboard should get 200, got %d", rec.Code)
	}
}

func TestDashboard_StaffRolesForwarded(t *testing.T) {
	h := NewDashboardHandler()
	cases := map[domain.Role]string{
		domain.RoleAdmin:    "/dashboard/admin",
		domain.RoleGymStaff: "/dashboard/gym-staff",
		domain.RolePT:       "/dashboard/pt",
	}

	for role, want := range cases {
		c, rec := dashboardContext(t, "/dashboard", &domain.Identity{ID: "id-1", Role: role})
		if err := h.Dashboard(c); err != nil {
			t.Fatalf("handler error for %s: %v", role, err)
		}
		if rec.Code != http.StatusFound {
			t.Fatalf("%s on /dashboard should get 302, got %d", role, rec.Code)
		}
		if loc := rec.Header().Get(echo.HeaderLocation); loc != want {
			t.Fatalf("%s forwarded to %q, want %q", role, loc, want)
		}
	}
}

func TestDashboard_MissingIdentityFastFails(t *testing.T) {
	h := NewDashboardHandler()
	c, _ := dashboardContext(t, "/dashboard", nil)

	err := h.Dashboard(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without guard-injected identity, got %v", err)
	}
}

func TestProfile_AnyRole(t *testing.T) {
	h := NewDashboardHandler()
	for _, role := range []domain.Role{domain.RoleClient, domain.RolePT, domain.RoleGymStaff, domain.RoleAdmin} {
		c, rec := dashboardContext(t, "/profile", &domain.Identity{ID: "id-1", Role: role})
		if err := h.Profile(c); err != nil {
			t.Fatalf("handler error for %s: %v", role, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%s should reach /profile, got %d", role, rec.Code)
		}
	}
}
