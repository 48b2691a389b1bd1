package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitmarket/session-gateway/internal/api/metrics"
	"github.com/fitmarket/session-gateway/internal/core/domain"
	"github.com/fitmarket/session-gateway/internal/core/ports"
	"github.com/fitmarket/session-gateway/internal/core/routing"
)

const defaultBackendTimeout = 10 * time.Second

// AuditEnqueuer is the async audit entry point. Nil disables auditing.
type AuditEnqueuer interface {
	Enqueue(event ports.AuditEvent)
}

// SessionService owns the session: it is the only component that mutates
// identity state, and it alone writes the persisted snapshot.
//
// Every login attempt is tagged with a monotonically increasing sequence
// number at issue time; a backend response commits only if its attempt is
// still the highest seen. Logout bumps the same counter, so a login
// resolving after a logout has lost its right to commit. Session recovery
// participates too: it tags itself with the sequence at entry and discards
// its commit if any newer action has moved the counter. This replaces the
// unsafe last-response-wins behavior where a slow stale response could
// overwrite a newer session.
type SessionService struct {
	provider ports.IdentityProvider
	records  ports.SessionRecordStore
	codec    ports.SnapshotCodec
	registry ports.ProfileRegistry
	audit    AuditEnqueuer
	logger   zerolog.Logger
	timeout  time.Duration

	mu          sync.Mutex
	seq         uint64
	session     domain.Session
	recordToken string
}

func NewSessionService(
	provider ports.IdentityProvider,
	records ports.SessionRecordStore,
	codec ports.SnapshotCodec,
	registry ports.ProfileRegistry,
	audit AuditEnqueuer,
	logger zerolog.Logger,
	timeout time.Duration,
) *SessionService {
	if timeout <= 0 {
		timeout = defaultBackendTimeout
	}
	return &SessionService{
		provider: provider,
		records:  records,
		codec:    codec,
		registry: registry,
		audit:    audit,
		logger:   logger,
		timeout:  timeout,
	}
}

// Login authenticates against the identity backend and, on success,
// replaces the session wholesale, persists the snapshot, and returns the
// signed claim plus the role's post-login landing path. On failure the
// error is captured into session state and also returned, so callers can
// branch without inspecting state.
func (s *SessionService) Login(ctx context.Context, email, password string) (*ports.LoginResult, error) {
	s.mu.Lock()
	s.seq++
	attempt := s.seq
	s.session.IsLoading = true
	s.session.Error = ""
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	identity, err := s.provider.SignIn(callCtx, email, password)
	metrics.BackendCallDuration.WithLabelValues("sign_in").Observe(time.Since(start).Seconds())

	s.mu.Lock()
	if attempt != s.seq {
		// A newer attempt or a logout owns the session now; this result
		// must not clobber it.
		s.mu.Unlock()
		metrics.LoginsTotal.WithLabelValues("superseded").Inc()
		return nil, domain.ErrLoginSuperseded
	}

	if err != nil {
		s.fail(err)
		s.mu.Unlock()
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		s.recordAudit("login_failed", "", email, "")
		return nil, err
	}

	if !identity.Role.Valid() {
		s.fail(domain.ErrUnknownRole)
		s.mu.Unlock()
		metrics.LoginsTotal.WithLabelValues("unknown_role").Inc()
		s.logger.Error().Str("identity_id", identity.ID).Str("role", string(identity.Role)).Msg("backend returned unrecognized role")
		return nil, domain.ErrUnknownRole
	}

	redirect, err := routing.LoginLandingFor(identity.Role)
	if err != nil {
		s.fail(err)
		s.mu.Unlock()
		return nil, err
	}
	s.mu.Unlock()

	// Record-store and codec IO run outside the mutex so a slow store never
	// blocks concurrent Session/HasRole/Logout callers. The attempt is
	// re-checked before committing.
	snap := domain.Snapshot{Identity: identity, IsAuthenticated: true}
	token, err := s.records.Create(callCtx, snap)
	if err != nil {
		s.failIfCurrent(attempt, err)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	encoded, err := s.codec.Encode(snap, token)
	if err != nil {
		s.failIfCurrent(attempt, err)
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	s.mu.Lock()
	if attempt != s.seq {
		s.mu.Unlock()
		// A logout or newer attempt won while the record was being written;
		// the freshly created record must not outlive the lost attempt.
		if err := s.records.Invalidate(callCtx, token); err != nil {
			s.logger.Warn().Err(err).Msg("orphaned session record invalidation failed")
		}
		metrics.LoginsTotal.WithLabelValues("superseded").Inc()
		return nil, domain.ErrLoginSuperseded
	}
	s.session = domain.Session{Identity: identity, IsAuthenticated: true}
	s.recordToken = token
	s.recordAudit("login_succeeded", identity.ID, identity.Email, "")
	s.mu.Unlock()

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.logger.Info().Str("identity_id", identity.ID).Str("role", string(identity.Role)).Msg("login committed")

	// Secondary, best-effort: make sure the marketplace profile exists.
	// The primary authentication already succeeded, so a failure here is
	// logged and swallowed, never surfaced as a login failure.
	go s.upsertProfile(identity)

	return &ports.LoginResult{Identity: identity, EncodedSnapshot: encoded, RedirectTo: redirect}, nil
}

// Logout signs out of the backend and clears local state. Local state
// clears even when the backend call fails, otherwise the user appears
// stuck logged-in. Calling Logout on an already-empty session is a no-op.
func (s *SessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	attempt := s.seq
	identity := s.session.Identity
	token := s.recordToken
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if identity != nil {
		if err := s.provider.SignOut(callCtx, identity.ID); err != nil {
			s.logger.Warn().Err(err).Str("identity_id", identity.ID).Msg("backend sign-out failed, clearing session anyway")
		}
	}
	if token != "" {
		if err := s.records.Invalidate(callCtx, token); err != nil {
			s.logger.Warn().Err(err).Msg("session record invalidation failed")
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt != s.seq {
		// A newer action committed while the backend call was in flight.
		return nil
	}
	s.session = domain.Session{}
	s.recordToken = ""
	if identity != nil {
		s.recordAudit("logout", identity.ID, identity.Email, "")
	}
	return nil
}

// Register signs up a new principal. It does not authenticate the caller:
// registration and login are separate steps, with email confirmation in
// between.
func (s *SessionService) Register(ctx context.Context, input ports.SignUpInput) (*domain.Identity, error) {
	s.mu.Lock()
	s.session.IsLoading = true
	s.session.Error = ""
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	identity, err := s.provider.SignUp(callCtx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.fail(err)
		return nil, err
	}
	s.session.IsLoading = false
	s.session.Error = ""
	return identity, nil
}

// ConfirmSignUp completes email verification for a registered account.
func (s *SessionService) ConfirmSignUp(ctx context.Context, email, code string) error {
	return s.passthrough(ctx, func(callCtx context.Context) error {
		return s.provider.ConfirmSignUp(callCtx, email, code)
	})
}

// ForgotPassword asks the backend to issue a password-reset code.
func (s *SessionService) ForgotPassword(ctx context.Context, email string) error {
	return s.passthrough(ctx, func(callCtx context.Context) error {
		return s.provider.ForgotPassword(callCtx, email)
	})
}

// ResetPassword sets a new password given a valid reset code.
func (s *SessionService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return s.passthrough(ctx, func(callCtx context.Context) error {
		return s.provider.ResetPassword(callCtx, email, code, newPassword)
	})
}

// passthrough runs a backend call that touches no identity state, capturing
// any failure into the session's error field the same way login does.
func (s *SessionService) passthrough(ctx context.Context, call func(context.Context) error) error {
	s.mu.Lock()
	s.session.IsLoading = true
	s.session.Error = ""
	s.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	err := call(callCtx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.fail(err)
		return err
	}
	s.session.IsLoading = false
	return nil
}

// InitializeAuth recovers a previously-authenticated session from the
// persisted snapshot, the page-reload path. "No prior session" is a normal
// outcome: the result is an empty unauthenticated session and a nil error,
// never an error state.
//
// The recovered session is returned to the caller directly. The in-memory
// session is updated as a side effect, but only when no newer action (a
// login or a logout) has moved the sequence counter in the meantime; callers
// serving concurrent visitors must build responses from the return value,
// never from the shared state.
func (s *SessionService) InitializeAuth(ctx context.Context, encodedSnapshot string) (domain.Session, error) {
	s.mu.Lock()
	attempt := s.seq
	s.mu.Unlock()

	if encodedSnapshot == "" {
		s.commitEmpty(attempt)
		return domain.Session{}, nil
	}

	snap, token, err := s.codec.Decode(encodedSnapshot)
	if err != nil || !snap.Consistent() || !snap.IsAuthenticated {
		if err != nil {
			s.logger.Warn().Err(err).Msg("persisted snapshot rejected")
		}
		metrics.SessionRecoveriesTotal.WithLabelValues("rejected").Inc()
		s.commitEmpty(attempt)
		return domain.Session{}, nil
	}

	if _, parseErr := domain.ParseRole(string(snap.Identity.Role)); parseErr != nil {
		// Fail closed: a corrupt role is treated as no session.
		metrics.SessionRecoveriesTotal.WithLabelValues("rejected").Inc()
		s.commitEmpty(attempt)
		return domain.Session{}, nil
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// Revocation check against the server-side record. When the record
	// store is unreachable the signed claim is still trusted: availability
	// of the store must not log everyone out.
	if _, err := s.records.Get(callCtx, token); err != nil {
		if errors.Is(err, domain.ErrNoSession) {
			metrics.SessionRecoveriesTotal.WithLabelValues("revoked").Inc()
			s.commitEmpty(attempt)
			return domain.Session{}, nil
		}
		s.logger.Warn().Err(err).Msg("session record store unreachable, trusting signed snapshot")
	}

	identity := snap.Identity
	if fresh, err := s.provider.CurrentUser(callCtx, identity.ID); err == nil {
		identity = fresh
	} else if errors.Is(err, domain.ErrIdentityNotFound) {
		metrics.SessionRecoveriesTotal.WithLabelValues("gone").Inc()
		s.commitEmpty(attempt)
		return domain.Session{}, nil
	} else {
		s.logger.Warn().Err(err).Str("identity_id", identity.ID).Msg("identity refresh failed, using persisted snapshot")
	}

	recovered := domain.Session{Identity: identity, IsAuthenticated: true}

	s.mu.Lock()
	if attempt != s.seq {
		// A logout or a fresh login resolved while this recovery was in
		// flight; the newer action keeps the shared state. The caller still
		// receives its own recovery result.
		s.mu.Unlock()
		metrics.SessionRecoveriesTotal.WithLabelValues("superseded").Inc()
		return recovered, nil
	}
	s.session = recovered
	s.recordToken = token
	s.recordAudit("session_recovered", identity.ID, identity.Email, "")
	s.mu.Unlock()

	metrics.SessionRecoveriesTotal.WithLabelValues("recovered").Inc()
	return recovered, nil
}

// HasRole reports whether the current identity holds exactly role.
// False when no identity is present; never panics.
func (s *SessionService) HasRole(role domain.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session.Identity != nil && s.session.Identity.Role == role
}

// HasAnyRole reports whether the current identity holds any of roles.
func (s *SessionService) HasAnyRole(roles ...domain.Role) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Identity == nil {
		return false
	}
	for _, r := range roles {
		if s.session.Identity.Role == r {
			return true
		}
	}
	return false
}

// Session returns a copy of the current session state.
func (s *SessionService) Session() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := s.session
	if s.session.Identity != nil {
		identity := *s.session.Identity
		copied.Identity = &identity
	}
	return copied
}

// fail captures a backend failure into session state. Identity is left
// unchanged: there is no partial login and no partial logout here.
// Callers must hold s.mu.
func (s *SessionService) fail(err error) {
	s.session.IsLoading = false
	s.session.Error = humanMessage(err)
}

// commitEmpty clears the shared session unless a newer action has moved the
// sequence counter since attempt was taken.
func (s *SessionService) commitEmpty(attempt uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt != s.seq {
		return
	}
	s.session = domain.Session{}
	s.recordToken = ""
}

// failIfCurrent captures err into session state unless the attempt has been
// superseded, in which case the newer action's state is left alone.
func (s *SessionService) failIfCurrent(attempt uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt != s.seq {
		return
	}
	s.fail(err)
}

func (s *SessionService) upsertProfile(identity *domain.Identity) {
	if s.registry == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.registry.Upsert(ctx, identity); err != nil {
		s.logger.Warn().Err(err).Str("identity_id", identity.ID).Msg("profile upsert failed after sign-in")
	}
}

func (s *SessionService) recordAudit(kind, identityID, email, path string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(ports.AuditEvent{Kind: kind, IdentityID: identityID, Email: email, Path: path})
}

// humanMessage converts a backend error into the message stored in the
// session's Error field.
func humanMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, domain.ErrIdentityNotFound):
		return "no account found for that email"
	case errors.Is(err, domain.ErrNotConfirmed):
		return "account not confirmed yet, check your email for the verification code"
	case errors.Is(err, domain.ErrUnknownRole):
		return "account role is not recognized"
	case errors.Is(err, domain.ErrEmailTaken):
		return "an account with that email already exists"
	case errors.Is(err, context.DeadlineExceeded):
		return "the sign-in service did not respond in time"
	default:
		return err.Error()
	}
}
