// Package bot assembles the application: configuration, services,
// conversation flows and the command/callback handlers behind the
// admin menu tree.
package bot

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/cozyberries/opsbot/core/telegram"
	"github.com/cozyberries/opsbot/core/telegram/state"
	"github.com/cozyberries/opsbot/internal/action"
	"github.com/cozyberries/opsbot/internal/service"
	"github.com/cozyberries/opsbot/internal/storage"
)

const transientFailureText = "⚠️ Something went wrong on our side. Please try again in a moment."

// App wires the bot together.
type App struct {
	cfg      *Config
	registry *telegram.Registry
	flows    *flowRunner

	expenses *service.Expenses
	products *service.Products
	orders   *service.Orders
	stats    *service.Stats
}

// New builds the application over an open database pool.
func New(cfg *Config, db *sqlx.DB) (*App, error) {
	store := storage.New(db)

	app := &App{
		cfg:      cfg,
		registry: telegram.NewRegistry(),
		expenses: service.NewExpenses(store.Expenses),
		products: service.NewProducts(store.Products),
		orders:   service.NewOrders(store.Orders),
	}
	app.stats = service.NewStats(app.expenses, app.products, app.orders)

	manager := state.NewManager(state.Options{
		IdleTTL: time.Duration(cfg.Flow.IdleTTLMinutes) * time.Minute,
	})
	manager.Register(newExpenseFlow(app.expenses))
	manager.Register(newAddProductFlow(app.products))
	manager.Register(newEditProductFlow(app.products))
	manager.Register(newSetStockFlow(app.products))
	app.flows = newFlowRunner(manager)

	app.registerCommands()
	app.registerCallbacks()
	return app, nil
}

// Run polls Telegram until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	adminIDs, err := a.cfg.AdminUserIDs()
	if err != nil {
		return err
	}
	return telegram.RunTelegram(ctx, telegram.RunOptions{
		Token: a.cfg.Telegram.Token,
		Poller: telegram.PollerOptions{
			RunMode:                a.cfg.Telegram.RunMode,
			LongPollTimeoutSeconds: a.cfg.Telegram.LongPollTimeoutSeconds,
			Webhook: telegram.WebhookOptions{
				Listen: a.cfg.Webhook.Listen,
				Port:   a.cfg.Webhook.Port,
				URL:    a.cfg.Webhook.URL,
			},
		},
		AdminIDs:       adminIDs,
		RateLimit:      a.cfg.RateLimit,
		Registry:       a.registry,
		Flows:          a.flows,
		CallbackKeyFor: action.KeyFor,
		CancelCommand:  "/cancel",
	})
}
