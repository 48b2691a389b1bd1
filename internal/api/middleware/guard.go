package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fitmarket/session-gateway/internal/api/metrics"
	"github.com/fitmarket/session-gateway/internal/core/domain"
	"github.com/fitmarket/session-gateway/internal/core/ports"
	"github.com/fitmarket/session-gateway/internal/core/routing"
)

// SessionCookie is the cookie carrying the signed session snapshot.
const SessionCookie = "fm_session"

// Context keys set by the guard for downstream handlers.
const (
	CtxIdentity    = "identity"
	CtxRecordToken = "record_token"
)

// AuditEnqueuer receives denied-navigation events. Nil disables auditing.
type AuditEnqueuer interface {
	Enqueue(event ports.AuditEvent)
}

// Guard enforces route authorization on every navigation. It reads only the
// signed snapshot cookie, never the in-memory session service: the guard is
// the far side of the trust boundary and must re-derive the role from the
// persisted claim on each navigation.
//
// Per navigation: public paths pass with no identity lookup; no resolvable
// session redirects to the login page (with no return-to target); an
// authorized role passes; an unauthorized role is redirected to its own
// home rather than a forbidden page. A corrupt or unknown role fails
// closed as "no session". The guard never mutates session state.
func Guard(codec ports.SnapshotCodec, audit AuditEnqueuer, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			access := routing.Resolve(path)

			if access.Kind == routing.Public {
				metrics.GuardDecisionsTotal.WithLabelValues("allow", "public").Inc()
				return next(c)
			}

			snap, recordToken, ok := readSnapshot(c, codec, log)
			if !ok {
				metrics.GuardDecisionsTotal.WithLabelValues("redirect", "no_session").Inc()
				return c.Redirect(http.StatusFound, routing.LoginPath)
			}

			role := snap.Identity.Role
			if access.Allows(role) {
				c.Set(CtxIdentity, snap.Identity)
				c.Set(CtxRecordToken, recordToken)
				metrics.GuardDecisionsTotal.WithLabelValues("allow", "authorized").Inc()
				return next(c)
			}

			home, err := routing.HomeFor(role)
			if err != nil {
				// Unknown role at this point means the snapshot predates a
				// role change; treat as no session.
				metrics.GuardDecisionsTotal.WithLabelValues("redirect", "no_session").Inc()
				return c.Redirect(http.StatusFound, routing.LoginPath)
			}

			log.Debug().
				Str("path", path).
				Str("role", string(role)).
				Str("redirect", home).
				Msg("navigation denied, redirecting to role home")
			metrics.GuardDecisionsTotal.WithLabelValues("redirect", "unauthorized_role").Inc()
			if audit != nil {
				audit.Enqueue(ports.AuditEvent{
					Kind:       "navigation_denied",
					IdentityID: snap.Identity.ID,
					Email:      snap.Identity.Email,
					Path:       path,
				})
			}
			return c.Redirect(http.StatusFound, home)
		}
	}
}

// readSnapshot extracts and verifies the persisted session claim. Any
// failure (missing cookie, bad signature, inconsistent snapshot, garbage
// role) yields ok=false; the guard never guesses.
func readSnapshot(c echo.Context, codec ports.SnapshotCodec, log zerolog.Logger) (domain.Snapshot, string, bool) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return domain.EmptySnapshot(), "", false
	}

	snap, recordToken, err := codec.Decode(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Msg("rejected session cookie")
		return domain.EmptySnapshot(), "", false
	}
	if !snap.Consistent() || !snap.IsAuthenticated || !snap.Identity.Role.Valid() {
		return domain.EmptySnapshot(), "", false
	}
	return snap, recordToken, true
}
