package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fitmarket/session-gateway/internal/core/domain"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// Key layout:
//
//	session:<token>           -> snapshot JSON
//	identity_session:<id>     -> token (reverse index, single session per identity)
const (
	sessionKeyPrefix  = "session:"
	identityKeyPrefix = "identity_session:"
)

// SessionStore is the server-side session record store. The session service
// is its only writer; the guard and recovery paths only read.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &SessionStore{client: client, ttl: ttl}
}

// Create stores the snapshot under a fresh opaque token. Any previous
// session of the same identity is invalidated first, so each principal
// holds at most one active session and a new login restarts the TTL.
func (s *SessionStore) Create(ctx context.Context, snap domain.Snapshot) (string, error) {
	if !snap.Consistent() || !snap.IsAuthenticated {
		return "", fmt.Errorf("session store: refusing to persist an unauthenticated snapshot")
	}

	identityKey := identityKeyPrefix + snap.Identity.ID
	if old, err := s.client.Get(ctx, identityKey).Result(); err == nil && old != "" {
		_ = s.client.Del(ctx, sessionKeyPrefix+old).Err()
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := s.client.Set(ctx, sessionKeyPrefix+token, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	if err := s.client.Set(ctx, identityKey, token, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session index: %w", err)
	}

	return token, nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (domain.Snapshot, error) {
	if token == "" {
		return domain.EmptySnapshot(), domain.ErrNoSession
	}

	payload, err := s.client.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.EmptySnapshot(), domain.ErrNoSession
		}
		return domain.EmptySnapshot(), fmt.Errorf("load session: %w", err)
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return domain.EmptySnapshot(), fmt.Errorf("decode session record: %w", err)
	}
	if !snap.Consistent() || !snap.IsAuthenticated {
		return domain.EmptySnapshot(), domain.ErrNoSession
	}
	return snap, nil
}

func (s *SessionStore) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	snap, err := s.Get(ctx, token)
	if err == nil && snap.Identity != nil {
		_ = s.client.Del(ctx, identityKeyPrefix+snap.Identity.ID).Err()
	}
	if err := s.client.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

func generateToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.URLEncoding.EncodeToString(raw), nil
}
