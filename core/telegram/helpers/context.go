// Package helpers bridges Telebot contexts with the logger context
// plumbing and provides small send wrappers used by every handler.
package helpers

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/logger"
)

// BuildContext derives a context.Context carrying the RID and update
// metadata for the given Telebot context.
func BuildContext(c tele.Context) context.Context {
	ctx := logger.Background()

	var updateID int
	var chatID, userID int64
	if u := c.Update(); u.ID != 0 {
		updateID = u.ID
	}
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if sender := c.Sender(); sender != nil {
		userID = sender.ID
	}

	ctx = logger.WithRID(ctx, logger.BuildRID(updateID, chatID, userID))
	ctx = logger.WithUpdateMeta(ctx, updateID, chatID, userID)
	return ctx
}

// StoreContext stashes ctx on the Telebot context for later retrieval.
func StoreContext(c tele.Context, ctx context.Context) {
	c.Set("ctx", ctx)
}

// Ctx returns the stored context, or a fresh one when middleware has
// not run yet.
func Ctx(c tele.Context) context.Context {
	if v := c.Get("ctx"); v != nil {
		if ctx, ok := v.(context.Context); ok {
			return ctx
		}
	}
	return BuildContext(c)
}

// WithHandler annotates the stored context with the handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := logger.WithHandler(Ctx(c), handler)
	StoreContext(c, ctx)
	return ctx
}
