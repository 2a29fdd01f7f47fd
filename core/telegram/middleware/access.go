package middleware

import (
	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/core/telegram/helpers"
)

// AdminOnly rejects updates from users outside the allow list. Every
// operation this bot exposes mutates or reads back office data, so the
// gate applies globally rather than per command.
func AdminOnly(adminIDs []int64) tele.MiddlewareFunc {
	allowed := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		allowed[id] = struct{}{}
	}

	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}
			if _, ok := allowed[sender.ID]; !ok {
				logger.Warn(helpers.Ctx(c), logger.TG, "tg.access.denied",
					"user_id", sender.ID,
				)
				if c.Callback() != nil {
					helpers.Answer(c, "Not authorized.")
					return nil
				}
				return c.Send("You are not authorized to use this bot.")
			}
			return next(c)
		}
	}
}
