package telegram

import (
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/config"
	"github.com/cozyberries/opsbot/core/telegram/middleware"
)

// DefaultMiddlewares returns the standard chain applied to every
// update: panic recovery, summary logging, reply counting, the admin
// gate and the per chat rate limit. Order matters, recovery sits
// outermost.
func DefaultMiddlewares(adminIDs []int64, rl config.RateLimitConfig) []tele.MiddlewareFunc {
	opts := middleware.RateLimitOptions{
		Interval: time.Duration(rl.IntervalMS) * time.Millisecond,
	}
	for _, kind := range rl.ExcludeUpdates {
		switch kind {
		case config.UpdateCallback:
			opts.ExcludeCallbacks = true
		case config.UpdateMessage:
			opts.ExcludeMessages = true
		}
	}
	return []tele.MiddlewareFunc{
		middleware.Recover,
		middleware.Logger,
		middleware.Counters,
		middleware.AdminOnly(adminIDs),
		middleware.RateLimit(opts),
	}
}
