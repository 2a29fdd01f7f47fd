package middleware

import (
	"sync"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/core/telegram/helpers"
)

// RateLimitOptions tunes the per chat limiter.
type RateLimitOptions struct {
	// Interval is the minimum spacing between handled updates from
	// one chat. Zero disables limiting.
	Interval time.Duration

	// ExcludeCallbacks exempts button presses from the limit.
	ExcludeCallbacks bool

	// ExcludeMessages exempts plain messages from the limit.
	ExcludeMessages bool
}

// RateLimit drops updates from a chat arriving faster than the
// configured interval.
func RateLimit(opts RateLimitOptions) tele.MiddlewareFunc {
	if opts.Interval <= 0 {
		return func(next tele.HandlerFunc) tele.HandlerFunc { return next }
	}

	var mu sync.Mutex
	lastSeen := make(map[int64]time.Time)

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Callback() != nil && opts.ExcludeCallbacks {
				return next(c)
			}
			if c.Callback() == nil && opts.ExcludeMessages {
				return next(c)
			}
			chat := c.Chat()
			if chat == nil {
				return next(c)
			}

			now := time.Now()
			mu.Lock()
			last, seen := lastSeen[chat.ID]
			limited := seen && now.Sub(last) < opts.Interval
			if !limited {
				lastSeen[chat.ID] = now
			}
			mu.Unlock()

			if limited {
				logger.Warn(helpers.Ctx(c), logger.TG, "tg.rate.limited",
					"chat_id", chat.ID,
				)
				helpers.Answer(c, "Too many requests, slow down.")
				return nil
			}
			return next(c)
		}
	}
}
