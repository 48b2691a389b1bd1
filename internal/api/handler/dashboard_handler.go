package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fitmarket/session-gateway/internal/core/domain"
	"github.com/fitmarket/session-gateway/internal/core/routing"
)

// DashboardHandler serves the guarded dashboard and profile pages. The
// guard has already authorized the navigation by the time these run; the
// only logic left here is the generic /dashboard redirector.
type DashboardHandler struct{}

func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

type pageResponse struct {
	Area     string           `json:"area"`
	Identity *domain.Identity `json:"identity,omitempty"`
}

// Dashboard is the shared dashboard entry point. Staff roles are forwarded
// to their own dashboards; a client user visiting /dashboard directly stays
// put (this intentionally differs from the post-login landing, which sends
// client users to "/").
//
// @Summary      Shared dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /dashboard [get]
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if identity.Role != domain.RoleClient {
		home, err := routing.HomeFor(identity.Role)
		if err != nil {
			return c.Redirect(http.StatusFound, routing.LoginPath)
		}
		return c.Redirect(http.StatusFound, home)
	}

	return c.JSON(http.StatusOK, pageResponse{Area: "dashboard", Identity: identity})
}

// Admin serves the admin dashboard.
//
// @Summary      Admin dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /dashboard/admin [get]
func (h *DashboardHandler) Admin(c echo.Context) error {
	return h.area(c, "admin")
}

// GymStaff serves the gym staff dashboard.
//
// @Summary      Gym staff dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /dashboard/gym-staff [get]
func (h *DashboardHandler) GymStaff(c echo.Context) error {
	return h.area(c, "gym-staff")
}

// PT serves the personal trainer dashboard.
//
// @Summary      Personal trainer dashboard
// @Tags         dashboard
// @Produce     json
// @Success      200  {object}  pageResponse
// @Router       /dashboard/pt [get]
func (h *DashboardHandler) PT(c echo.Context) error {
	return h.area(c, "pt")
}

// Profile serves the profile page, available to any authenticated role.
//
// @Summary      Profile page
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  pageResponse
// @Router       /profile [get]
func (h *DashboardHandler) Profile(c echo.Context) error {
	return h.area(c, "profile")
}

func (h *DashboardHandler) area(c echo.Context, area string) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pageResponse{Area: area, Identity: identity})
}

// PageHandler serves the public marketplace landing pages. The gateway only
// needs them to exist as navigable targets; content comes from elsewhere.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) Landing(page string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, pageResponse{Area: page})
	}
}
