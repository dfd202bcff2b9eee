package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vpnservice/access-system/internal/api"
	"github.com/vpnservice/access-system/internal/core/service"
	"github.com/vpnservice/access-system/internal/infrastructure/config"
	mongodb "github.com/vpnservice/access-system/internal/infrastructure/db/mongo"
	redisdb "github.com/vpnservice/access-system/internal/infrastructure/db/redis"
	"github.com/vpnservice/access-system/internal/infrastructure/queue"
	"github.com/vpnservice/access-system/pkg/logger"
)

// @title        VPN Access API
// @version      1.0
// @description  Subscription entitlement and credential lifecycle API.
//
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Storage ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	// --- Repositories ---
	planRepo := mongodb.NewPlanRepository(db)
	entitlementRepo := mongodb.NewEntitlementRepository(db)
	credentialRepo := mongodb.NewCredentialRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	serverRepo := mongodb.NewServerRepository(db)
	eventRepo := mongodb.NewEventRepository(db)

	for name, ensure := range map[string]func(context.Context) error{
		"plans":        planRepo.EnsureIndexes,
		"entitlements": entitlementRepo.EnsureIndexes,
		"credentials":  credentialRepo.EnsureIndexes,
		"users":        userRepo.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			log.Fatal().Err(err).Str("collection", name).Msg("index creation failed")
		}
	}

	// --- Audit pipeline ---
	dedup := redisdb.NewDedupChecker(rdb)
	eventService := service.NewEventService(eventRepo, dedup, logger.Component("audit"))
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, eventService, logger.Component("audit"))
	dispatcher.Start(ctx)

	// --- Services ---
	locker := redisdb.NewUserLocker(rdb)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	planService := service.NewPlanService(planRepo, logger.Component("plans"))
	entitlementService := service.NewEntitlementService(planRepo, entitlementRepo, userRepo, dispatcher, logger.Component("entitlements"))
	credentialService := service.NewCredentialService(
		credentialRepo,
		entitlementService,
		locker,
		dispatcher,
		service.DescriptorDefaults{
			Server:   cfg.VPN.Server,
			Port:     cfg.VPN.Port,
			Protocol: cfg.VPN.Protocol,
		},
		logger.Component("credentials"),
	)
	userService := service.NewUserService(userRepo, entitlementRepo, dispatcher, logger.Component("users"))
	serverService := service.NewServerService(serverRepo, logger.Component("servers"))

	// --- HTTP ---
	e := api.NewRouter(api.RouterConfig{
		Log:          logger.Component("api"),
		JWTSecret:    cfg.JWTSecret,
		DB:           db,
		Redis:        rdb,
		Auth:         authService,
		Users:        userService,
		Plans:        planService,
		Entitlements: entitlementService,
		Credentials:  credentialService,
		Servers:      serverService,
		Events:       eventRepo,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info().Msg("shutdown signal received")

	// Stop taking requests first, then stop the audit workers.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	cancel()

	log.Info().Msg("server stopped")
}
