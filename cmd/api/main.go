package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-inventory-history/internal/config"
	"go-inventory-history/internal/repository"
	"go-inventory-history/internal/router"
	"go-inventory-history/internal/service"
	"go-inventory-history/internal/ws"
	"go-inventory-history/pkg/database"
	"go-inventory-history/pkg/jwt"
	"go-inventory-history/pkg/logger"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	decimal.MarshalJSONWithoutQuotes = true

	// 2. Setup Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// 3. Setup WebSocket Hub
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	historyRepo := repository.NewHistoryRepo(db)
	userRepo := repository.NewUserRepo(db)
	dashRepo := repository.NewDashboardRepo(db)

	tokens := jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	invService := service.NewInventoryService(db, productRepo, historyRepo, wsHub, service.AuditPolicy(cfg.AuditMode))
	dashService := service.NewDashboardService(dashRepo, historyRepo)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo)

	// 5. Seed admin user
	if _, err := authService.EnsureAdmin(ctx, cfg.Admin); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up admin user")
	}

	// 6. Setup Fiber
	app := router.NewApp(cfg)
	router.Setup(app, router.Deps{
		Config:    cfg,
		DB:        db,
		Auth:      authService,
		Inventory: invService,
		Dashboard: dashService,
		Users:     userService,
		Hub:       wsHub,
	})

	// 7. Graceful Shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("audit_mode", cfg.AuditMode).Str("db_driver", cfg.Database.Driver).Msg("Server starting")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Error().Err(err).Msg("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	log.Info().Msg("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
