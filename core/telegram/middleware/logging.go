package middleware

import (
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/core/telegram/helpers"
)

// Logger builds the request context for each update and emits one
// summary line per handled update.
func Logger(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := helpers.BuildContext(c)
		helpers.StoreContext(c, ctx)

		start := time.Now()
		err := next(c)

		attrs := []any{
			"status", logger.Status(err),
			"took_ms", logger.Took(start),
			"sent", SentCount(c),
		}
		if cb := c.Callback(); cb != nil {
			attrs = append(attrs, "kind", "callback", "data", logger.SanitizeLimit(cb.Data, 64))
		} else if msg := c.Message(); msg != nil {
			attrs = append(attrs, "kind", "message", "text", logger.SanitizeLimit(msg.Text, 64))
		}
		if err != nil {
			attrs = append(attrs, "error", err)
			logger.Warn(helpers.Ctx(c), logger.TG, "tg.update.handled", attrs...)
			return err
		}
		logger.Info(helpers.Ctx(c), logger.TG, "tg.update.handled", attrs...)
		return nil
	}
}
