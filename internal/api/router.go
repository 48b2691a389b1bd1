package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/fitmarket/session-gateway/docs"
	"github.com/fitmarket/session-gateway/internal/api/handler"
	"github.com/fitmarket/session-gateway/internal/api/middleware"
	"github.com/fitmarket/session-gateway/internal/core/ports"
	"github.com/fitmarket/session-gateway/internal/core/service"
	"github.com/fitmarket/session-gateway/internal/infrastructure/config"
	mongodb "github.com/fitmarket/session-gateway/internal/infrastructure/db/mongo"
	redisdb "github.com/fitmarket/session-gateway/internal/infrastructure/db/redis"
	"github.com/fitmarket/session-gateway/internal/infrastructure/registry"
	"github.com/fitmarket/session-gateway/internal/infrastructure/token"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, audit service.AuditEnqueuer, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("session_gateway"))

	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Dependencies ---
	provider := mongodb.NewIdentityProvider(db)
	records := redisdb.NewSessionStore(rdb, cfg.SessionTTL)
	codec := token.NewCodec(cfg.SessionSecret, cfg.SessionTTL)

	var profiles ports.ProfileRegistry
	if cfg.ProfileAPIURL != "" {
		profiles = registry.NewHTTPProfileRegistry(cfg.ProfileAPIURL, cfg.BackendTimeout)
	}

	sessions := service.NewSessionService(provider, records, codec, profiles, audit, log, cfg.BackendTimeout)

	authHandler := handler.NewAuthHandler(sessions, cfg.SessionTTL)
	dashHandler := handler.NewDashboardHandler()
	pageHandler := handler.NewPageHandler()

	// The guard intercepts every navigation; public paths are allowed by
	// the resolver's rule table, so it can run globally.
	e.Use(middleware.Guard(codec, audit, log))

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/register", authHandler.Register)
	auth.POST("/confirm", authHandler.Confirm)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)
	auth.GET("/me", authHandler.Me)

	// --- Public marketplace pages ---
	e.GET("/", pageHandler.Landing("home"))
	e.GET("/gyms", pageHandler.Landing("gyms"))
	e.GET("/trainers", pageHandler.Landing("trainers"))
	e.GET("/offers", pageHandler.Landing("offers"))

	// --- Guarded pages ---
	e.GET("/dashboard", dashHandler.Dashboard)
	e.GET("/dashboard/admin", dashHandler.Admin)
	e.GET("/dashboard/gym-staff", dashHandler.GymStaff)
	e.GET("/dashboard/pt", dashHandler.PT)
	e.GET("/profile", dashHandler.Profile)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
