package ports

import (
	"context"

	"github.com/fitmarket/session-gateway/internal/core/domain"
)

// LoginResult is returned by a committed login.
type LoginResult struct {
	Identity *domain.Identity
	// EncodedSnapshot is the signed claim the HTTP layer hands to the
	// browser (cookie value). It is the guard's trust boundary.
	EncodedSnapshot string
	// RedirectTo is the post-login landing path for the identity's role.
	RedirectTo string
}

// SessionService is the single source of truth for "who is using this
// client right now" and the only component allowed to mutate session state.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	Register(ctx context.Context, input SignUpInput) (*domain.Identity, error)
	// InitializeAuth recovers a previously-authenticated identity from the
	// persisted snapshot (page-reload path) and returns the caller's own
	// recovery result. A missing or invalid snapshot yields an empty,
	// unauthenticated session and a nil error. Callers serving concurrent
	// visitors must use the returned session, not the shared state.
	InitializeAuth(ctx context.Context, encodedSnapshot string) (domain.Session, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	HasRole(role domain.Role) bool
	HasAnyRole(roles ...domain.Role) bool
	// Session returns a copy of the current session state.
	Session() domain.Session
}

// AuditEvent describes a session lifecycle occurrence worth recording.
type AuditEvent struct {
	Kind       string
	IdentityID string
	Email      string
	Path       string
}

// AuditSink persists audit events. Sinks run best-effort off the hot path;
// errors are logged by the dispatcher, never propagated to the caller.
type AuditSink interface {
	Record(ctx context.Context, event AuditEvent) error
}
