package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fitmarket/session-gateway/internal/api/middleware"
	"github.com/fitmarket/session-gateway/internal/core/domain"
	"github.com/fitmarket/session-gateway/internal/core/ports"
)

// AuthHandler exposes the session service over HTTP. It owns the session
// cookie: the signed snapshot produced by the service is set here and
// cleared here, nowhere else.
type AuthHandler struct {
	sessions   ports.SessionService
	sessionTTL time.Duration
}

func NewAuthHandler(sessions ports.SessionService, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{sessions: sessions, sessionTTL: sessionTTL}
}

// Login authenticates a visitor and establishes the session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(result.EncodedSnapshot, h.sessionTTL))
	return c.JSON(http.StatusOK, loginResponse{Identity: result.Identity, RedirectTo: result.RedirectTo})
}

// Logout clears the session. The cookie is removed even when the backend
// sign-out fails; a visitor must never appear stuck logged-in.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	_ = h.sessions.Logout(c.Request().Context())
	c.SetCookie(h.sessionCookie("", -time.Hour))
	return c.NoContent(http.StatusNoContent)
}

// Register creates a new account. Registration does not authenticate:
// the visitor confirms their email and then logs in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		return err
	}

	identity, err := h.sessions.Register(c.Request().Context(), ports.SignUpInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Role:      role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{Identity: identity})
}

// Confirm completes email verification.
//
// @Summary      Confirm sign-up
// @Tags         auth
// @Accept       json
// @Param        body  body  confirmRequest  true  "Email and verification code"
// @Success      204
// @Failure      422   {object}  map[string]string
// @Router       /auth/confirm [post]
func (h *AuthHandler) Confirm(c echo.Context) error {
	var req confirmRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.sessions.ConfirmSignUp(c.Request().Context(), req.Email, req.Code); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ForgotPassword issues a password-reset code.
//
// @Summary      Request a password reset code
// @Tags         auth
// @Accept       json
// @Param        body  body  forgotPasswordRequest  true  "Account email"
// @Success      204
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.sessions.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ResetPassword sets a new password using a reset code.
//
// @Summary      Reset password
// @Tags         auth
// @Accept       json
// @Param        body  body  resetPasswordRequest  true  "Email, code, new password"
// @Success      204
// @Failure      422   {object}  map[string]string
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.sessions.ResetPassword(c.Request().Context(), req.Email, req.Code, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me recovers the session from the persisted snapshot, the page-reload
// path. A missing or invalid snapshot is a normal outcome: the response is
// an empty unauthenticated session, never an error. The response is built
// from the caller's own recovery result, so concurrent visitors never see
// each other's identity through the shared service.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	encoded := ""
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		encoded = cookie.Value
	}

	session, err := h.sessions.InitializeAuth(c.Request().Context(), encoded)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, sessionResponse{
		Identity:        session.Identity,
		IsAuthenticated: session.IsAuthenticated,
		Error:           session.Error,
	})
}

func (h *AuthHandler) sessionCookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
