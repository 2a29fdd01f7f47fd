package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/cozyberries/opsbot/core/bootstrap"
	"github.com/cozyberries/opsbot/core/cmd"
	"github.com/cozyberries/opsbot/internal/bot"
)

func main() {
	// Missing .env is fine, container deployments inject real env.
	_ = godotenv.Load()

	cmd.Run("opsbot", func(ctx context.Context, configPath string) error {
		cfg, err := bot.LoadConfig(configPath)
		if err != nil {
			return err
		}

		rt, shutdown, err := bootstrap.Up(ctx, bootstrap.Options{
			Config:    &cfg.Config,
			Database:  cfg.Database,
			Migrate:   true,
			WaitForDB: 30 * time.Second,
		})
		if err != nil {
			return err
		}
		defer shutdown()

		app, err := bot.New(cfg, rt.DB)
		if err != nil {
			return err
		}
		return app.Run(ctx)
	})
}
