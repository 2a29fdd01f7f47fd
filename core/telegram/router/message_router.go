// Package router dispatches incoming updates. All text, slash
// commands included, funnels through one OnText route so an active
// conversation always sees the next message first.
package router

import (
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/core/telegram/commands"
	"github.com/cozyberries/opsbot/core/telegram/helpers"
)

// CommandSource resolves command text to handlers. Satisfied by
// telegram.Registry.
type CommandSource interface {
	LookupCommand(text string) (string, commands.Command, bool)
	TextFallback() tele.HandlerFunc
}

// Flows is the conversation hook consulted before command dispatch.
type Flows interface {
	// Active reports whether the chat has a running conversation.
	Active(chatID int64) bool
	// HandleText feeds the message into the running conversation.
	HandleText(c tele.Context) error
	// Cancel aborts any running conversation and replies accordingly.
	Cancel(c tele.Context) error
}

// MessageRouter routes plain messages: cancel first, then an active
// flow, then registered commands, then the fallback.
type MessageRouter struct {
	commands      CommandSource
	flows         Flows
	cancelCommand string
}

// NewMessageRouter builds a MessageRouter. flows may be nil when the
// bot has no conversations.
func NewMessageRouter(commands CommandSource, flows Flows, cancelCommand string) *MessageRouter {
	if cancelCommand == "" {
		cancelCommand = "/cancel"
	}
	return &MessageRouter{
		commands:      commands,
		flows:         flows,
		cancelCommand: cancelCommand,
	}
}

// Handle is the single OnText handler.
func (r *MessageRouter) Handle(c tele.Context) error {
	text := strings.TrimSpace(c.Text())

	if r.flows != nil {
		if r.isCancel(text) {
			helpers.WithHandler(c, "flow.cancel")
			return r.flows.Cancel(c)
		}
		// A running conversation consumes every message, command
		// shaped or not, so answers like "-" or "/tmp/x" survive.
		if chat := c.Chat(); chat != nil && r.flows.Active(chat.ID) {
			helpers.WithHandler(c, "flow.text")
			return r.flows.HandleText(c)
		}
	}

	if name, cmd, ok := r.commands.LookupCommand(text); ok {
		helpers.WithHandler(c, "cmd."+strings.TrimPrefix(name, "/"))
		return cmd.Handler(c)
	}

	if fb := r.commands.TextFallback(); fb != nil {
		helpers.WithHandler(c, "text.fallback")
		return fb(c)
	}
	logger.Debug(helpers.Ctx(c), logger.TWire, "router.text.unrouted",
		"text", logger.SanitizeLimit(text, 48),
	)
	return nil
}

func (r *MessageRouter) isCancel(text string) bool {
	cmd, _, _ := strings.Cut(text, " ")
	cmd, _, _ = strings.Cut(cmd, "@")
	return cmd == r.cancelCommand
}
