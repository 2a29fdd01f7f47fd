package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/cozyberries/opsbot/core/logger"
)

// RunMigrations applies every pending up migration from ./migrations.
// An already current schema is not an error.
func RunMigrations(cfg Config) error {
	ctx := context.Background()

	if err := WaitForPostgres(cfg.URL(), 30*time.Second); err != nil {
		logger.Error(ctx, logger.MIG, "db.migrate.not_ready", "error", err)
		return fmt.Errorf("database not ready: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	dir := filepath.Join(cwd, "migrations")

	files := listMigrationFiles(dir)
	preview, truncated := logger.SummarizeStrings(files, 6)
	logger.Debug(ctx, logger.MIG, "db.migrate.resolve",
		"path", dir,
		"files_total", len(files),
		"files_preview", preview,
		"files_truncated", truncated,
	)

	m, err := migrate.New("file://"+dir, cfg.URL())
	if err != nil {
		logger.Error(ctx, logger.MIG, "db.migrate.init_failed", "error", err)
		return fmt.Errorf("init migrations: %w", err)
	}

	fromVer, _, _ := m.Version()

	start := time.Now()
	err = m.Up()
	took := logger.Took(start)

	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info(ctx, logger.MIG, "db.migrate.summary",
			"version", fromVer,
			"applied", 0,
			"took", took,
		)
		return nil
	}
	if err != nil {
		logger.Error(ctx, logger.MIG, "db.migrate.failed", "error", err, "took", took)
		return fmt.Errorf("apply migrations: %w", err)
	}

	toVer, _, _ := m.Version()
	logger.Info(ctx, logger.MIG, "db.migrate.summary",
		"from_ver", fromVer,
		"to_ver", toVer,
		"took", took,
	)
	return nil
}

func listMigrationFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".up.sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names
}
