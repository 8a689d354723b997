package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"stempelwerk/loyalty/internal/config"
	"stempelwerk/loyalty/internal/handler"
	"stempelwerk/loyalty/internal/model"
	"stempelwerk/loyalty/internal/notify"
	"stempelwerk/loyalty/internal/repository"
	"stempelwerk/loyalty/internal/service"
	jwtpkg "stempelwerk/loyalty/pkg/jwt"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// 2. Initialize logger
	var logger *zap.Logger
	if cfg.Log.Format == "json" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	// 3. Connect to PostgreSQL
	db, err := config.NewPostgresDB(cfg.Database.Postgres)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}

	// 4. Auto-migrate if enabled
	if cfg.Database.Postgres.AutoMigrate {
		if err := model.AutoMigrate(db); err != nil {
			logger.Fatal("failed to auto-migrate", zap.Error(err))
		}
		logger.Info("database migration completed")
	}

	// 5. Initialize state store (Redis or in-memory)
	var stateStore repository.StateStore
	switch cfg.State.Backend {
	case "redis":
		redisClient, err := config.NewRedisClient(cfg.Database.Redis)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		stateStore = repository.NewRedisStateStore(redisClient)
		logger.Info("using Redis state store")
	case "memory":
		stateStore = repository.NewMemoryStateStore()
		logger.Info("using in-memory state store")
	default:
		logger.Fatal("unknown state backend", zap.String("backend", cfg.State.Backend))
	}

	// 6. Initialize repositories
	userRepo := repository.NewPGUserRepository(db)
	companyRepo := repository.NewPGCompanyRepository(db)
	defRepo := repository.NewPGCardDefinitionRepository(db)
	instRepo := repository.NewPGCardInstanceRepository(db)
	levelRepo := repository.NewPGCustomerLevelRepository(db)

	// 7. Initialize JWT manager
	jwtManager := jwtpkg.NewManager(
		cfg.JWT.SigningKey,
		cfg.JWT.Issuer,
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.GrantTokenTTL,
		cfg.JWT.RedemptionTokenTTL,
	)

	// 8. Notification hub + services
	hub := notify.NewHub()
	authz := service.NewAuthorizer()

	levelService := service.NewLevelService(levelRepo, userRepo, authz, logger)
	redemptionService := service.NewRedemptionService(userRepo, defRepo, instRepo, jwtManager, authz, hub, logger)
	ledgerService := service.NewLedgerService(defRepo, instRepo, redemptionService, levelService, logger)
	grantService := service.NewGrantTokenService(userRepo, defRepo, stateStore, jwtManager, ledgerService, authz, hub, logger)
	defService := service.NewCardDefinitionService(defRepo, instRepo, userRepo, companyRepo, authz)
	instService := service.NewCardInstanceService(defRepo, instRepo)
	analyticsService := service.NewAnalyticsService(userRepo, defRepo, instRepo, authz)

	// 9. Initialize handlers
	cardHandler := handler.NewCardHandler(defService, levelService)
	instanceHandler := handler.NewInstanceHandler(instService)
	tokenHandler := handler.NewTokenHandler(grantService, redemptionService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	sseHandler := handler.NewSSEHandler(hub)

	// 10. Setup router
	router := handler.SetupRouter(cfg, logger, jwtManager, cardHandler, instanceHandler, tokenHandler, analyticsHandler, sseHandler)

	// 11. Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// 12. Start server with graceful shutdown
	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// 13. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited gracefully")
}
