package helpers

import (
	"strings"
	"sync/atomic"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/core/telegram/sender"
)

var globalDispatcher atomic.Pointer[sender.Dispatcher]

// SetDispatcher wires the asynchronous sender used by SendMD. Nil
// disables it; sends then run inline.
func SetDispatcher(d *sender.Dispatcher) {
	globalDispatcher.Store(d)
}

// SendMD sends text with Markdown formatting. With a dispatcher wired
// the send runs on the worker pool and failures surface in the log,
// not to the caller.
func SendMD(c tele.Context, text string, opts ...interface{}) error {
	opts = append(opts, tele.ModeMarkdown)
	if d := globalDispatcher.Load(); d != nil {
		d.Dispatch(func() error { return c.Send(text, opts...) })
		return nil
	}
	return c.Send(text, opts...)
}

// EditOrSendMD edits the callback message in place when possible and
// falls back to a fresh send. Telegram rejects edits of identical
// content with "message is not modified"; that case is treated as
// success so menu taps stay quiet.
func EditOrSendMD(c tele.Context, text string, opts ...interface{}) error {
	opts = append(opts, tele.ModeMarkdown)
	if c.Callback() == nil {
		return c.Send(text, opts...)
	}
	err := c.Edit(text, opts...)
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "message is not modified") {
		return nil
	}
	logger.Debug(Ctx(c), logger.TG, "tg.edit.fallback", "error", err)
	return c.Send(text, opts...)
}

// Answer acknowledges a callback query so the client spinner stops.
// Text, when non empty, shows as a toast.
func Answer(c tele.Context, text string) {
	if c.Callback() == nil {
		return
	}
	_ = c.Respond(&tele.CallbackResponse{Text: text})
}
