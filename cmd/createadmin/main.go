// Command createadmin stores an Admin account directly in the credential
// store. Registration over HTTP only ever creates Client accounts.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/advisory-portal/internal/config"
	"github.com/spec-kit/advisory-portal/internal/observability"
	"github.com/spec-kit/advisory-portal/internal/persistence"
	"github.com/spec-kit/advisory-portal/internal/repository"
	"github.com/spec-kit/advisory-portal/internal/service"
)

func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email address")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	if cfg.Postgres.DSN == "" {
		logger.Fatal("POSTGRES_DSN is required; the in-memory store does not outlive this command")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		AccountRepo: repository.NewAccountRepository(pg.PoolHandle()),
		Logger:      logger,
	})
	account, err := authService.CreateAdmin(ctx, *email, *password)
	if err != nil {
		logger.Fatal("failed to create admin", zap.Error(err))
	}
	logger.Info("admin account created", zap.String("account_id", account.ID), zap.String("email", account.Email))
}
