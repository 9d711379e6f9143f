package main

import (
	"context"
	"flag"
	"os"

	"go-pos-inventory/internal/config"
	"go-pos-inventory/internal/repository"
	"go-pos-inventory/internal/service"
	"go-pos-inventory/pkg/database"
	"go-pos-inventory/pkg/jwt"
	"go-pos-inventory/pkg/logger"
)

func main() {
	email := flag.String("email", "admin@example.com", "account to reset")
	password := flag.String("password", os.Getenv("NEW_PASSWORD"), "new password (or NEW_PASSWORD)")
	flag.Parse()

	log := logger.Default().WithComponent("reset-password")

	// 1. Load Env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}
	if *password == "" {
		log.Fatalw("new password required: pass -password or set NEW_PASSWORD")
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseURL, log, false)
	if err != nil {
		log.Fatalw("database unavailable", "error", err)
	}

	// 3. Reset through the auth service so hashing matches login
	auth := service.NewAuthService(repository.NewUserRepo(db), jwt.NewManager(cfg.JWTSecret, cfg.JWTTTL), log)
	if err := auth.ResetPassword(context.Background(), *email, *password); err != nil {
		log.Fatalw("password reset failed", "email", *email, "error", err)
	}

	log.Infow("password reset", "email", *email)
}
