package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/cozyberries/opsbot/core/logger"
)

// Connect opens the Postgres pool and verifies connectivity.
func Connect(cfg Config) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	took := time.Since(start)
	if err != nil {
		logger.Error(ctx, logger.DB, "db.connect.failed",
			"host", cfg.Host,
			"port", cfg.Port,
			"db", cfg.Name,
			"took", logger.RoundMS(took),
			"error", err,
		)
		return nil, fmt.Errorf("db connect: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxConnections)

	logger.Info(ctx, logger.DB, "db.connected",
		"host", cfg.Host,
		"port", cfg.Port,
		"db", cfg.Name,
		"pool_open", cfg.MaxConnections,
		"took", logger.RoundMS(took),
	)
	return db, nil
}

// WaitForPostgres blocks until the database accepts connections or
// the timeout elapses. Useful under compose where the bot container
// usually wins the race.
func WaitForPostgres(dsn string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for {
		db, err := sql.Open("postgres", dsn)
		if err == nil {
			err = db.Ping()
			_ = db.Close()
			if err == nil {
				return nil
			}
		}
		lastErr = err
		if time.Now().After(deadline) {
			return fmt.Errorf("waiting for database: %w", lastErr)
		}
		time.Sleep(2 * time.Second)
	}
}
