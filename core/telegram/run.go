package telegram

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/config"
	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/core/telegram/helpers"
	"github.com/cozyberries/opsbot/core/telegram/router"
	"github.com/cozyberries/opsbot/core/telegram/sender"
)

// RunOptions carries everything needed to stand the bot up.
type RunOptions struct {
	Token          string
	Poller         PollerOptions
	AdminIDs       []int64
	RateLimit      config.RateLimitConfig
	Registry       *Registry
	Flows          router.Flows
	CallbackKeyFor func(data string) string
	CancelCommand  string

	// SenderWorkers and SenderQueue size the outbound dispatcher.
	// Zero values pick the dispatcher defaults.
	SenderWorkers int
	SenderQueue   int

	// OnReady runs after the bot object exists but before polling
	// starts, for wiring that needs the bot instance.
	OnReady func(b *tele.Bot)
}

// NewBot constructs the Telebot instance with the retrying HTTP
// client and the configured poller.
func NewBot(opts RunOptions) (*tele.Bot, error) {
	pref := tele.Settings{
		Token:  opts.Token,
		Poller: BuildPoller(opts.Poller),
		Client: NewHTTPClient(),
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return b, nil
}

// RunTelegram wires routers and middleware onto a new bot and polls
// until ctx is cancelled.
func RunTelegram(ctx context.Context, opts RunOptions) error {
	if opts.Registry == nil {
		return fmt.Errorf("run telegram: registry is required")
	}

	b, err := NewBot(opts)
	if err != nil {
		return err
	}

	disp := sender.New(opts.SenderWorkers, opts.SenderQueue)
	helpers.SetDispatcher(disp)
	defer disp.Stop()

	for _, mw := range DefaultMiddlewares(opts.AdminIDs, opts.RateLimit) {
		b.Use(mw)
	}

	msgRouter := router.NewMessageRouter(opts.Registry, opts.Flows, opts.CancelCommand)
	cbRouter := router.NewCallbackRouter(opts.Registry, opts.CallbackKeyFor)
	b.Handle(tele.OnText, msgRouter.Handle)
	b.Handle(tele.OnCallback, cbRouter.Handle)

	InitBotCommands(b, opts.Registry)

	if opts.OnReady != nil {
		opts.OnReady(b)
	}

	go func() {
		<-ctx.Done()
		logger.Info(ctx, logger.TG, "tg.stopping")
		b.Stop()
	}()

	logger.Info(ctx, logger.TG, "tg.started",
		"bot", b.Me.Username,
		"run_mode", opts.Poller.RunMode,
	)
	b.Start()
	return nil
}
