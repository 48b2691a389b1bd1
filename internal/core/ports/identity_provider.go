package ports

import (
	"context"

	"github.com/fitmarket/session-gateway/internal/core/domain"
)

// SignUpInput carries everything needed to create a new principal.
type SignUpInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	Role      domain.Role
}

// IdentityProvider is the identity backend consumed by the session service.
// Implementations are expected to fail routinely (bad credentials, network,
// expired sessions); callers convert those failures into session state.
type IdentityProvider interface {
	SignUp(ctx context.Context, input SignUpInput) (*domain.Identity, error)
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)
	SignOut(ctx context.Context, identityID string) error
	// CurrentUser re-fetches the principal by id, used to refresh a
	// recovered session. Returns domain.ErrIdentityNotFound when the
	// principal no longer exists.
	CurrentUser(ctx context.Context, identityID string) (*domain.Identity, error)
	ConfirmSignUp(ctx context.Context, email, code string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}
