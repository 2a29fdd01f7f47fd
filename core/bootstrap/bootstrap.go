// Package bootstrap brings shared infrastructure up and down in one
// place: logging, the Postgres pool and schema migrations.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cozyberries/opsbot/core/config"
	"github.com/cozyberries/opsbot/core/database"
	"github.com/cozyberries/opsbot/core/logger"
)

// Options selects which pieces of infrastructure to start.
type Options struct {
	Config   *config.Config
	Database database.Config

	// Migrate applies pending schema migrations after connecting.
	Migrate bool

	// WaitForDB blocks until Postgres accepts connections, useful
	// under docker compose where the bot starts first.
	WaitForDB time.Duration
}

// Runtime holds the started infrastructure.
type Runtime struct {
	DB *sqlx.DB
}

// Up starts infrastructure per opts. The returned shutdown func is
// safe to call exactly once and never nil.
func Up(ctx context.Context, opts Options) (*Runtime, func(), error) {
	if err := logger.InitLogger(opts.Config); err != nil {
		return nil, func() {}, fmt.Errorf("init logger: %w", err)
	}

	if err := opts.Database.Validate(); err != nil {
		return nil, func() { logger.Shutdown() }, fmt.Errorf("database config: %w", err)
	}

	if opts.WaitForDB > 0 {
		if err := database.WaitForPostgres(opts.Database.DSN(), opts.WaitForDB); err != nil {
			return nil, func() { logger.Shutdown() }, err
		}
	}

	db, err := database.Connect(opts.Database)
	if err != nil {
		return nil, func() { logger.Shutdown() }, err
	}

	if opts.Migrate {
		if err := database.RunMigrations(opts.Database); err != nil {
			db.Close()
			return nil, func() { logger.Shutdown() }, err
		}
	}

	shutdown := func() {
		if err := db.Close(); err != nil {
			logger.Error(ctx, logger.DB, "db.close.failed", "error", err)
		}
		logger.Shutdown()
	}
	return &Runtime{DB: db}, shutdown, nil
}
