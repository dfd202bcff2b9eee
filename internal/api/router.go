package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/vpnservice/access-system/docs"
	"github.com/vpnservice/access-system/internal/api/handler"
	"github.com/vpnservice/access-system/internal/api/middleware"
	"github.com/vpnservice/access-system/internal/core/domain"
	"github.com/vpnservice/access-system/internal/core/ports"
)

// RouterConfig carries everything the HTTP surface needs. Services are built
// in main so the router stays free of persistence concerns.
type RouterConfig struct {
	Log       zerolog.Logger
	JWTSecret string

	DB    *mongo.Database
	Redis *redis.Client

	Auth         ports.AuthService
	Users        ports.UserService
	Plans        ports.PlanService
	Entitlements ports.EntitlementService
	Credentials  ports.CredentialService
	Servers      ports.ServerService
	Events       ports.EventRepository
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("vpnaccess"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.Auth)
	planHandler := handler.NewPlanHandler(cfg.Plans)
	subscriptionHandler := handler.NewSubscriptionHandler(cfg.Entitlements)
	configHandler := handler.NewConfigHandler(cfg.Credentials)
	userHandler := handler.NewUserHandler(cfg.Users, cfg.Events)
	serverHandler := handler.NewServerHandler(cfg.Servers)

	authMW := middleware.Auth(cfg.JWTSecret)
	adminMW := middleware.RBAC(domain.RoleAdmin)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/v1/plans", planHandler.ListPublic)
	e.GET("/v1/servers", serverHandler.ListPublic)

	// --- Authenticated self-service routes ---
	me := e.Group("/v1/me", authMW)
	me.GET("/entitlements", subscriptionHandler.ListMine)
	me.GET("/config", configHandler.GetDescriptor)
	me.GET("/config/link", configHandler.GetLink)
	me.GET("/config/file", configHandler.GetFile)

	// --- Admin routes ---
	admin := e.Group("/v1/admin", authMW, adminMW)
	admin.GET("/plans", planHandler.ListAdmin)
	admin.GET("/plans/:id", planHandler.Get)
	admin.POST("/plans", planHandler.Create)
	admin.PUT("/plans/:id", planHandler.Update)
	admin.DELETE("/plans/:id", planHandler.Deactivate)
	admin.POST("/subscriptions", subscriptionHandler.Subscribe)
	admin.GET("/users", userHandler.List)
	admin.POST("/users/:id/toggle", userHandler.Toggle)
	admin.POST("/users/:id/credential/rotate", configHandler.Rotate)
	admin.GET("/users/:id/events", userHandler.Events)
	admin.GET("/servers", serverHandler.ListAdmin)
	admin.POST("/servers", serverHandler.Create)
	admin.PUT("/servers/:id", serverHandler.Update)
	admin.DELETE("/servers/:id", serverHandler.Delete)
	admin.POST("/servers/:id/toggle", serverHandler.Toggle)

	// --- Observability and docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.DB, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
