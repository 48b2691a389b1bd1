package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fitmarket/session-gateway/internal/api/middleware"
	"github.com/fitmarket/session-gateway/internal/core/domain"
	"github.com/fitmarket/session-gateway/internal/core/ports"
)

type stubSessionService struct {
	loginFn      func(ctx context.Context, email, password string) (*ports.LoginResult, error)
	registerFn   func(ctx context.Context, input ports.SignUpInput) (*domain.Identity, error)
	initFn       func(ctx context.Context, encoded string) (domain.Session, error)
	session      domain.Session
	logoutCalled bool
}

func (s *stubSessionService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubSessionService) Logout(ctx context.Context) error {
	s.logoutCalled = true
	return nil
}

func (s *stubSessionService) Register(ctx context.Context, input ports.SignUpInput) (*domain.Identity, error) {
	return s.registerFn(ctx, input)
}

func (s *stubSessionService) InitializeAuth(ctx context.Context, encoded string) (domain.Session, error) {
	if s.initFn == nil {
		return domain.Session{}, nil
	}
	return s.initFn(ctx, encoded)
}

func (s *stubSessionService) ConfirmSignUp(ctx context.Context, email, code string) error { return nil }
func (s *stubSessionService) ForgotPassword(ctx context.Context, email string) error      { return nil }
func (s *stubSessionService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return nil
}

func (s *stubSessionService) HasRole(role domain.Role) bool        { return false }
func (s *stubSessionService) HasAnyRole(roles ...domain.Role) bool { return false }
func (s *stubSessionService) Session() domain.Session              { return s.session }

func newAuthContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubSessionService{
		loginFn: func(_ context.Context, email, password string) (*ports.LoginResult, error) {
			if email != "pt@example.com" || password != "s3cret" {
				t.Fatalf("unexpected credentials: %s %s", email, password)
			}
			return &ports.LoginResult{
				Identity:        &domain.Identity{ID: "id-1", Email: email, Role: domain.RolePT},
				EncodedSnapshot: "signed-snapshot",
				RedirectTo:      "/dashboard/pt",
			}, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/login", `{"email":"pt@example.com","password":"s3cret"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["redirect_to"] != "/dashboard/pt" {
		t.Fatalf("redirect_to = %v", resp["redirect_to"])
	}

	cookies := rec.Result().Cookies()
	found := false
	for _, ck := range cookies {
		if ck.Name == middleware.SessionCookie {
			found = true
			if ck.Value != "signed-snapshot" {
				t.Fatalf("cookie value = %q", ck.Value)
			}
			if !ck.HttpOnly {
				t.Fatalf("session cookie must be http-only")
			}
		}
	}
	if !found {
		t.Fatalf("session cookie not set")
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	h := NewAuthHandler(&stubSessionService{}, time.Hour)

	c, _ := newAuthContext(t, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":"x"}`)
	err := h.Login(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %v", err)
	}
}

func TestAuthHandler_Login_BackendFailurePropagates(t *testing.T) {
	stub := &stubSessionService{
		loginFn: func(_ context.Context, _, _ string) (*ports.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	c, _ := newAuthContext(t, http.MethodPost, "/auth/login", `{"email":"pt@example.com","password":"wrong"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for the central error handler, got %v", err)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	stub := &stubSessionService{}
	h := NewAuthHandler(stub, time.Hour)

	c, rec := newAuthContext(t, http.MethodPost, "/auth/logout", "")
	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if !stub.logoutCalled {
		t.Fatalf("service logout not called")
	}

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			if ck.Value != "" || ck.MaxAge >= 0 {
				t.Fatalf("cookie not cleared: value=%q maxAge=%d", ck.Value, ck.MaxAge)
			}
			return
		}
	}
	t.Fatalf("expiring session cookie not set")
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubSessionService{
		registerFn: func(_ context.Context, input ports.SignUpInput) (*domain.Identity, error) {
			if input.Role != domain.RoleGymStaff {
				t.Fatalf("unexpected role: %s", input.Role)
			}
			return &domain.Identity{ID: "id-2", Email: input.Email, Role: input.Role}, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	body := `{"email":"staff@example.com","password":"longenough","first_name":"Gym","last_name":"Staff","role":"GYM_STAFF"}`
	c, rec := newAuthContext(t, http.MethodPost, "/auth/register", body)
	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_RejectsUnknownRole(t *testing.T) {
	h := NewAuthHandler(&stubSessionService{}, time.Hour)

	body := `{"email":"x@example.com","password":"longenough","first_name":"A","last_name":"B","role":"SOME_GARBAGE"}`
	c, _ := newAuthContext(t, http.MethodPost, "/auth/register", body)
	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for garbage role, got %v", err)
	}
}

func TestAuthHandler_Me_RecoversSession(t *testing.T) {
	identity := &domain.Identity{ID: "id-3", Email: "client@example.com", Role: domain.RoleClient}
	var sawEncoded string
	stub := &stubSessionService{
		initFn: func(_ context.Context, encoded string) (domain.Session, error) {
			sawEncoded = encoded
			return domain.Session{Identity: identity, IsAuthenticated: true}, nil
		},
	}
	h := NewAuthHandler(stub, time.Hour)

	c, rec := newAuthContext(t, http.MethodGet, "/auth/me", "")
	c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "persisted-snapshot"})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if sawEncoded != "persisted-snapshot" {
		t.Fatalf("InitializeAuth got %q", sawEncoded)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["is_authenticated"] != true {
		t.Fatalf("expected authenticated session in response: %v", resp)
	}
}

// The response must carry the caller's own recovery result. When another
// visitor's request has since overwritten the shared session, the shared
// state and the caller's result disagree; the caller's wins.
func TestAuthHandler_Me_UsesCallerRecoveryNotSharedState(t *testing.T) {
	caller := &domain.Identity{ID: "id-caller", Email: "caller@example.com", Role: domain.RolePT}
	other := &domain.Identity{ID: "id-other", Email: "other@example.com", Role: domain.RoleAdmin}
	stub := &stubSessionService{
		initFn: func(_ context.Context, _ string) (domain.Session, error) {
			return domain.Session{Identity: caller, IsAuthenticated: true}, nil
		},
		session: domain.Session{Identity: other, IsAuthenticated: true},
	}
	h := NewAuthHandler(stub, time.Hour)

	c, rec := newAuthContext(t, http.MethodGet, "/auth/me", "")
	c.Request().AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "caller-snapshot"})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp struct {
		Identity *domain.Identity `json:"identity"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Identity == nil || resp.Identity.ID != caller.ID || resp.Identity.Email != caller.Email {
		t.Fatalf("response must carry the caller's identity, got %+v", resp.Identity)
	}
}

func TestAuthHandler_Me_NoCookieIsNotAnError(t *testing.T) {
	stub := &stubSessionService{session: domain.Session{}}
	h := NewAuthHandler(stub, time.Hour)

	c, rec := newAuthContext(t, http.MethodGet, "/auth/me", "")
	if err := h.Me(c); err != nil {
		t.Fatalf("no prior session must not be an error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["is_authenticated"] != false {
		t.Fatalf("expected unauthenticated session: %v", resp)
	}
}
