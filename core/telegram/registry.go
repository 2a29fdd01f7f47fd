package telegram

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/core/telegram/commands"
)

// Registry is the dispatch table for slash commands and callback
// handlers.
//
// Callback handlers are keyed by action kind: the callback router
// collapses every inbound payload to one key through a single parsing
// function, so each button family registers exactly one handler.
type Registry struct {
	commands map[string]commands.Command

	callbacksMu      sync.RWMutex
	callbacks        map[string]tele.HandlerFunc
	callbackNotFound tele.HandlerFunc
	textFallback     tele.HandlerFunc
}

// NewRegistry returns an empty Registry. Commands are registered
// during startup only; callbacks get their own lock because test
// harnesses register them late.
func NewRegistry() *Registry {
	return &Registry{
		commands:  make(map[string]commands.Command),
		callbacks: make(map[string]tele.HandlerFunc),
		// Unroutable callbacks are logged upstream; the default just
		// stops the client spinner without replying.
		callbackNotFound: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{})
		},
	}
}

// RegisterCommand adds one slash command. Invalid or duplicate
// registrations are logged and dropped rather than failing startup.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	ctx := context.Background()
	switch {
	case r == nil || name == "" || cmd.Handler == nil || cmd.Description == "":
		logger.Warn(ctx, logger.TWire, "register.command.skip", "name", name, "reason", "invalid")
	case name[0] != '/':
		logger.Warn(ctx, logger.TWire, "register.command.skip", "name", name, "reason", "no_slash_prefix")
	default:
		if _, exists := r.commands[name]; exists {
			logger.Warn(ctx, logger.TWire, "register.command.duplicate", "name", name)
			return
		}
		r.commands[name] = cmd
	}
}

// ListCommands returns the commands sorted by name, without the slash
// prefix as the Telegram command menu expects. visibleOnly drops
// hidden commands.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for name, meta := range r.commands {
		if visibleOnly && meta.Hidden {
			continue
		}
		list = append(list, tele.Command{
			Text:        strings.TrimPrefix(name, "/"),
			Description: meta.Description,
		})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand resolves message text to a registered command. The
// command word may carry arguments ("/expense abc123") or a bot
// mention ("/menu@opsbot"); aliases resolve to their canonical name.
func (r *Registry) LookupCommand(text string) (string, commands.Command, bool) {
	name := strings.TrimSpace(text)
	if name == "" || name[0] != '/' {
		return "", commands.Command{}, false
	}
	name, _, _ = strings.Cut(name, " ")
	name, _, _ = strings.Cut(name, "@")

	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if alias == name || "/"+alias == name {
				return key, cmd, true
			}
		}
	}
	return "", commands.Command{}, false
}

// Commands exposes the registered command table.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// RegisterCallback maps an action kind key to its handler.
func (r *Registry) RegisterCallback(key string, handler tele.HandlerFunc) error {
	if r == nil || key == "" || handler == nil {
		logger.Warn(context.Background(), logger.TWire, "register.callback.skip",
			"key", key,
			"handler_nil", handler == nil,
		)
		return errors.New("invalid callback registration")
	}
	r.callbacksMu.Lock()
	defer r.callbacksMu.Unlock()
	if _, exists := r.callbacks[key]; exists {
		logger.Warn(context.Background(), logger.TWire, "register.callback.duplicate", "key", key)
		return fmt.Errorf("callback already registered: %s", key)
	}
	r.callbacks[key] = handler
	return nil
}

// GetCallback returns the handler for key.
func (r *Registry) GetCallback(key string) (tele.HandlerFunc, bool) {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	h, ok := r.callbacks[key]
	return h, ok
}

// ListCallbacks returns the registered keys sorted, for diagnostics.
func (r *Registry) ListCallbacks() []string {
	r.callbacksMu.RLock()
	defer r.callbacksMu.RUnlock()
	keys := make([]string, 0, len(r.callbacks))
	for k := range r.callbacks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SetCallbackNotFound replaces the handler for unroutable callbacks.
func (r *Registry) SetCallbackNotFound(h tele.HandlerFunc) {
	if h != nil {
		r.callbackNotFound = h
	}
}

// CallbackNotFound returns the unroutable callback handler.
func (r *Registry) CallbackNotFound() tele.HandlerFunc {
	return r.callbackNotFound
}

// SetTextFallback sets the handler for text no command or flow claims.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.textFallback = h
}

// TextFallback returns the free text handler, nil when unset.
func (r *Registry) TextFallback() tele.HandlerFunc {
	return r.textFallback
}

// InitBotCommands publishes the visible command list to Telegram so
// clients can offer completion.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	if err := bot.SetCommands(reg.ListCommands(true)); err != nil {
		logger.Error(context.Background(), logger.TWire, "register.commands.set_failed", "error", err)
	}
}
