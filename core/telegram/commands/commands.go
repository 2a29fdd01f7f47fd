// Package commands defines the registration shape for slash commands.
package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command binds a handler to one slash command. Hidden commands stay
// routable but are left out of the Telegram command list. Aliases are
// extra names resolving to the same handler.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	Hidden      bool
	Aliases     []string
}
