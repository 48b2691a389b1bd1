package ports

import (
	"context"

	"github.com/fitmarket/session-gateway/internal/core/domain"
)

// SessionRecordStore is the server-side record of active sessions. It is a
// single-writer resource: only the session service writes it; the route
// guard and other readers re-read rather than cache.
type SessionRecordStore interface {
	// Create persists a snapshot under a fresh opaque token, invalidating
	// any previous session of the same identity first (single active
	// session per principal).
	Create(ctx context.Context, snap domain.Snapshot) (token string, err error)
	// Get returns the snapshot stored under token, or domain.ErrNoSession
	// when the token is unknown, expired, or invalidated.
	Get(ctx context.Context, token string) (domain.Snapshot, error)
	// Invalidate removes the session record. Unknown tokens are not an error.
	Invalidate(ctx context.Context, token string) error
}

// SnapshotCodec encodes a session snapshot into the independently
// verifiable claim handed to the browser, and decodes it back. Decode must
// fail closed: any tampering, signature mismatch, or invariant violation is
// an error, never a partially trusted snapshot.
type SnapshotCodec interface {
	Encode(snap domain.Snapshot, recordToken string) (string, error)
	Decode(encoded string) (domain.Snapshot, string, error)
}
