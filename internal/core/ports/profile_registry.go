package ports

import (
	"context"

	"github.com/fitmarket/session-gateway/internal/core/domain"
)

// ProfileRegistry upserts the marketplace profile for a signed-in identity.
// The call is idempotent on the backend side and best-effort on ours:
// failures are logged and never surfaced as a login failure.
type ProfileRegistry interface {
	Upsert(ctx context.Context, identity *domain.Identity) error
}
