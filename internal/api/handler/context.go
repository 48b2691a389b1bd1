package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitmarket/session-gateway/internal/api/middleware"
	"github.com/fitmarket/session-gateway/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the route guard and
// performs a fast-fail check before any page logic: presence proves the
// guard ran and the snapshot verified. A guarded handler reached without an
// identity is a wiring bug, surfaced as 401 rather than a panic downstream.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	identity, _ := c.Get(middleware.CtxIdentity).(*domain.Identity)
	if identity == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session identity")
	}
	return identity, nil
}
