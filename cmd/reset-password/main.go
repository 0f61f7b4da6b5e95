package main

import (
	"context"
	"flag"
	"os"

	"go-inventory-history/internal/config"
	"go-inventory-history/internal/repository"
	"go-inventory-history/internal/service"
	"go-inventory-history/pkg/database"
	"go-inventory-history/pkg/jwt"
	"go-inventory-history/pkg/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)

	username := flag.String("username", cfg.Admin.Username, "account to update")
	password := flag.String("password", "", "new password (at least 6 characters)")
	enable := flag.Bool("enable", false, "reactivate the account")
	disable := flag.Bool("disable", false, "deactivate the account")
	flag.Parse()

	if *password == "" && !*enable && !*disable {
		flag.Usage()
		os.Exit(2)
	}
	if *enable && *disable {
		log.Fatal().Msg("-enable and -disable are mutually exclusive")
	}

	// 2. Setup Database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close(db)

	ctx := context.Background()
	auth := service.NewAuthService(repository.NewUserRepo(db), jwt.NewManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL))

	// 3. Update password
	if *password != "" {
		if err := auth.ResetPassword(ctx, *username, *password); err != nil {
			log.Fatal().Err(err).Str("username", *username).Msg("Failed to reset password")
		}
		log.Info().Str("username", *username).Msg("Password has been reset")
	}

	// 4. Update account state
	if *enable || *disable {
		if err := auth.SetActive(ctx, *username, *enable); err != nil {
			log.Fatal().Err(err).Str("username", *username).Msg("Failed to update account state")
		}
		log.Info().Str("username", *username).Bool("active", *enable).Msg("Account state updated")
	}
}
