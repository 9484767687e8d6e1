// Package api assembles the HTTP surface: routing, request gating, the
// error envelope and request-level instrumentation.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/strumline/catalog-api/docs" // swagger spec registration

	"github.com/strumline/catalog-api/internal/api/handler"
	"github.com/strumline/catalog-api/internal/api/middleware"
	"github.com/strumline/catalog-api/internal/core/domain"
	"github.com/strumline/catalog-api/internal/core/ports"
)

// Deps carries everything the router wires into handlers and gates. Mongo
// and Redis are only needed by the readiness probe; tests that exercise the
// routes with stubbed services leave them nil.
type Deps struct {
	Auth    ports.AuthService
	Catalog ports.CatalogService
	Limiter ports.LoginLimiter
	Mongo   *mongo.Database
	Redis   *redis.Client
	Log     zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("catalog"))

	// --- Gates ---
	authed := middleware.RequireAuth(deps.Auth)
	adminOnly := middleware.RequireRole(deps.Auth, domain.RoleAdmin)
	adminOrModerator := middleware.RequireAnyRole(deps.Auth, domain.RoleAdmin, domain.RoleModerator)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Limiter, deps.Log)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authed)

	// --- Catalog routes ---
	productHandler := handler.NewProductHandler(deps.Catalog)
	e.GET("/v1/products", productHandler.List, authed)
	e.GET("/v1/products/:id", productHandler.Get, authed)
	e.POST("/v1/products", productHandler.Create, adminOnly)
	e.PUT("/v1/products/:id", productHandler.Update, adminOrModerator)
	e.DELETE("/v1/products/:id", productHandler.Delete, adminOnly)

	// --- Observability ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	if deps.Mongo != nil && deps.Redis != nil {
		healthHandler := handler.NewHealthHandler(deps.Mongo, deps.Redis)
		e.GET("/health", healthHandler.Liveness)
		e.GET("/health/ready", healthHandler.Readiness)
	}

	return e
}
