// Package bootstrap wires the runtime dependencies shared by the binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"folio/internal/cache"
	"folio/internal/config"
	"folio/internal/database"
	"folio/internal/middleware"
	"folio/internal/models"
	"folio/internal/seed"
	"folio/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SeedTimeline loads the embedded timeline into an empty table.
	SeedTimeline bool
	// SkipRedis leaves the Redis client nil, e.g. for one-shot commands.
	SkipRedis bool
}

// InitRuntime connects to the database and Redis, then ensures the admin
// account when SEED_ADMIN is set. Redis is optional and may be nil.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if err := EnsureAdmin(ctx, cfg, db); err != nil {
		_ = database.Close(db)
		return nil, nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	if opts.SeedTimeline {
		if _, err := seed.Timeline(db); err != nil {
			_ = database.Close(db)
			return nil, nil, err
		}
	}

	var rdb *redis.Client
	if !opts.SkipRedis {
		rdb = cache.Connect(ctx, cfg.RedisURL)
	}

	return db, rdb, nil
}

// EnsureAdmin creates the configured admin account if it does not exist yet.
// An existing account is left untouched; use cmd/admin passwd to rotate it.
func EnsureAdmin(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil || !cfg.SeedAdmin {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))
	if email == "" || cfg.AdminPassword == "" {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set when SEED_ADMIN is enabled")
	}
	name := strings.TrimSpace(cfg.AdminName)
	if name == "" {
		name = "Admin"
	}

	hash, err := service.HashPassword(cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	created := false
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Account
		findErr := tx.Where("email = ?", email).First(&existing).Error
		switch {
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			created = true
			return tx.Create(&models.Account{Name: name, Email: email, PasswordHash: hash}).Error
		case findErr != nil:
			return findErr
		default:
			return nil
		}
	})
	if err != nil {
		return err
	}

	if created {
		middleware.Logger.InfoContext(ctx, "admin account created", slog.String("email", email))
	}
	return nil
}
