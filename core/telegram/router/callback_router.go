package router

import (
	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/core/telegram/callbacks"
	"github.com/cozyberries/opsbot/core/telegram/helpers"
)

// CallbackSource resolves callback keys to handlers. Satisfied by
// telegram.Registry.
type CallbackSource interface {
	GetCallback(key string) (tele.HandlerFunc, bool)
	CallbackNotFound() tele.HandlerFunc
}

// CallbackRouter routes callback queries. KeyFor collapses a concrete
// payload such as "product_delete_42" to its registered key so one
// handler serves the whole family.
type CallbackRouter struct {
	source CallbackSource
	keyFor func(data string) string
}

// NewCallbackRouter builds a CallbackRouter. keyFor defaults to the
// identity function.
func NewCallbackRouter(source CallbackSource, keyFor func(data string) string) *CallbackRouter {
	if keyFor == nil {
		keyFor = func(data string) string { return data }
	}
	return &CallbackRouter{source: source, keyFor: keyFor}
}

// Handle is the single OnCallback handler.
func (r *CallbackRouter) Handle(c tele.Context) error {
	data := callbacks.Data(c)
	if data == "" {
		helpers.Answer(c, "")
		return nil
	}

	key := r.keyFor(data)
	if h, ok := r.source.GetCallback(key); ok {
		helpers.WithHandler(c, "cb."+key)
		return h(c)
	}

	logger.Warn(helpers.Ctx(c), logger.TWire, "router.callback.unrouted",
		"data", logger.SanitizeLimit(data, 64),
		"key", key,
	)
	if nf := r.source.CallbackNotFound(); nf != nil {
		helpers.WithHandler(c, "cb.not_found")
		return nf(c)
	}
	helpers.Answer(c, "")
	return nil
}
