package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tiendafast/identity-service/internal/api/handler"
	"github.com/tiendafast/identity-service/internal/api/middleware"
	"github.com/tiendafast/identity-service/internal/core/ports"
	"github.com/tiendafast/identity-service/internal/infrastructure/http/handlers"
)

// Services bundles the core services the router wires into handlers.
type Services struct {
	Accounts     ports.AccountService
	Verification ports.VerificationService
	Federated    ports.FederatedService
	Admin        ports.AdminService
	Tokens       ports.TokenService
	Repo         ports.AccountRepository
}

// NewRouter builds the Echo instance with all routes registered.
func NewRouter(svc Services, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	auth := middleware.Auth(svc.Tokens, svc.Repo)

	// --- Auth flow (no session required) ---
	authHandler := handler.NewAuthHandler(svc.Accounts, svc.Verification, svc.Federated)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/verify", authHandler.Verify)
	e.POST("/auth/resend", authHandler.Resend)
	e.POST("/auth/google", authHandler.FederatedLogin)

	// --- Self-service profile ---
	accountHandler := handler.NewAccountHandler(svc.Accounts)
	e.GET("/me", accountHandler.Me, auth)
	e.PUT("/me", accountHandler.Update, auth)

	// --- Governed admin surface ---
	adminHandler := handler.NewAdminHandler(svc.Admin)
	admin := e.Group("/admin", auth, middleware.RequireAdmin())
	admin.GET("/accounts", adminHandler.List)
	admin.PUT("/accounts/:id/role", adminHandler.SetRole)
	admin.DELETE("/accounts/:id", adminHandler.Delete)
	admin.PUT("/accounts/:id/admin", adminHandler.SetAdminFlag, middleware.RequireSuperAdmin())

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
