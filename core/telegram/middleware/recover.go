// Package middleware holds the handler wrappers applied to every
// route: panic recovery, per update logging, admin access control and
// a per chat rate limit.
package middleware

import (
	"fmt"
	"runtime/debug"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/core/telegram/helpers"
)

// Recover converts handler panics into logged errors so one bad
// update cannot take the poller down.
func Recover(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error(helpers.Ctx(c), logger.TG, "tg.handler.panic",
					"panic", fmt.Sprint(r),
					"stack", string(debug.Stack()),
				)
				err = fmt.Errorf("handler panic: %v", r)
			}
		}()
		return next(c)
	}
}
