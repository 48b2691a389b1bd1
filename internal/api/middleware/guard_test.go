package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fitmarket/session-gateway/internal/core/domain"
	"github.com/fitmarket/session-gateway/internal/core/ports"
	"github.com/fitmarket/session-gateway/internal/infrastructure/token"
)

const testSecret = "guard-test-secret"

func newGuard(t *testing.T) (echo.MiddlewareFunc, ports.SnapshotCodec) {
	t.Helper()
	codec := token.NewCodec(testSecret, time.Hour)
	return Guard(codec, nil, zerolog.Nop()), codec
}

func sessionCookieFor(t *testing.T, codec ports.SnapshotCodec, role domain.Role) *http.Cookie {
	t.Helper()
	snap := domain.Snapshot{
		Identity:        &domain.Identity{ID: "id-1", Email: "user@example.com", Role: role},
		IsAuthenticated: true,
	}
	encoded, err := codec.Encode(snap, "rec-1")
	if err != nil {
		t.Fatalf("encode snapshot: %v", err)
	}
	return &http.Cookie{Name: SessionCookie, Value: encoded}
}

func navigate(t *testing.T, mw echo.MiddlewareFunc, path string, cookie *http.Cookie) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	reached := false
	handler := mw(func(c echo.Context) error {
		reached = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("guard returned error: %v", err)
	}
	return rec, reached
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, reached bool, target string) {
	t.Helper()
	if reached {
		t.Fatalf("handler should not be reached")
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != target {
		t.Fatalf("redirect location = %q, want %q", loc, target)
	}
}

func TestGuard_PublicPathWithoutSession(t *testing.T) {
	mw, _ := newGuard(t)
	rec, reached := navigate(t, mw, "/gyms", nil)
	if !reached || rec.Code != http.StatusOK {
		t.Fatalf("public path must pass without identity lookup, code=%d reached=%v", rec.Code, reached)
	}
}

func TestGuard_NoSessionRedirectsToLogin(t *testing.T) {
	mw, _ := newGuard(t)
	rec, reached := navigate(t, mw, "/dashboard/admin", nil)
	assertRedirect(t, rec, reached, "/auth/login")
}

func TestGuard_WrongRoleRedirectsToOwnHome(t *testing.T) {
	mw, codec := newGuard(t)
	rec, reached := navigate(t, mw, "/dashboard/admin", sessionCookieFor(t, codec, domain.RolePT))
	assertRedirect(t, rec, reached, "/dashboard/pt")
}

func TestGuard_MatchingRoleAllowed(t *testing.T) {
	mw, codec := newGuard(t)
	rec, reached := navigate(t, mw, "/dashboard/admin", sessionCookieFor(t, codec, domain.RoleAdmin))
	if !reached || rec.Code != http.StatusOK {
		t.Fatalf("admin should reach /dashboard/admin, code=%d reached=%v", rec.Code, reached)
	}
}

func TestGuard_ClientAllowedOnSharedDashboard(t *testing.T) {
	mw, codec := newGuard(t)
	rec, reached := navigate(t, mw, "/dashboard", sessionCookieFor(t, codec, domain.RoleClient))
	if !reached || rec.Code != http.StatusOK {
		t.Fatalf("client should reach /dashboard, code=%d reached=%v", rec.Code, reached)
	}
}

func TestGuard_AnyAuthenticatedPath(t *testing.T) {
	mw, codec := newGuard(t)
	for _, role := range []domain.Role{domain.RoleClient, domain.RolePT, domain.RoleGymStaff, domain.RoleAdmin} {
		rec, reached := navigate(t, mw, "/profile", sessionCookieFor(t, codec, role))
		if !reached || rec.Code != http.StatusOK {
			t.Fatalf("role %s should reach /profile, code=%d reached=%v", role, rec.Code, reached)
		}
	}
}

func TestGuard_TamperedCookieFailsClosed(t *testing.T) {
	mw, _ := newGuard(t)
	// Signed by a different secret: structurally a JWT, cryptographically garbage.
	other := token.NewCodec("some-other-secret", time.Hour)
	snap := domain.Snapshot{
		Identity:        &domain.Identity{ID: "id-1", Email: "user@example.com", Role: domain.RoleAdmin},
		IsAuthenticated: true,
	}
	forged, err := other.Encode(snap, "rec-1")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	rec, reached := navigate(t, mw, "/dashboard/admin", &http.Cookie{Name: SessionCookie, Value: forged})
	assertRedirect(t, rec, reached, "/auth/login")
}

func TestGuard_GarbageCookieFailsClosed(t *testing.T) {
	mw, _ := newGuard(t)
	rec, reached := navigate(t, mw, "/profile", &http.Cookie{Name: SessionCookie, Value: "not-a-token"})
	assertRedirect(t, rec, reached, "/auth/login")
}

type captureAudit struct {
	events []ports.AuditEvent
}

func (c *captureAudit) Enqueue(event ports.AuditEvent) {
	c.events = append(c.events, event)
}

func TestGuard_DeniedNavigationIsAudited(t *testing.T) {
	codec := token.NewCodec(testSecret, time.Hour)
	audit := &captureAudit{}
	mw := Guard(codec, audit, zerolog.Nop())

	rec, reached := navigate(t, mw, "/dashboard/admin", sessionCookieFor(t, codec, domain.RolePT))
	assertRedirect(t, rec, reached, "/dashboard/pt")

	if len(audit.events) != 1 {
		t.Fatalf("expected one audit event, got %d", len(audit.events))
	}
	ev := audit.events[0]
	if ev.Kind != "navigation_denied" || ev.IdentityID != "id-1" || ev.Path != "/dashboard/admin" {
		t.Fatalf("unexpected audit event: %+v", ev)
	}
}

func TestGuard_SetsIdentityForHandlers(t *testing.T) {
	_, codec := newGuard(t)
	mw := Guard(codec, nil, zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.AddCookie(sessionCookieFor(t, codec, domain.RoleGymStaff))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		identity, ok := c.Get(CtxIdentity).(*domain.Identity)
		if !ok || identity == nil {
			t.Fatalf("identity not injected")
		}
		if identity.Role != domain.RoleGymStaff {
			t.Fatalf("unexpected role: %s", identity.Role)
		}
		if tok, _ := c.Get(CtxRecordToken).(string); tok != "rec-1" {
			t.Fatalf("record token not injected")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
