// Package callbacks normalizes Telegram callback payloads. Buttons
// built by this bot carry raw action identifiers, but Telebot's own
// button types prepend "\f<unique>|", so both shapes are accepted.
package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// Data extracts the callback payload from a Telebot context.
func Data(c tele.Context) string {
	cb := c.Callback()
	if cb == nil {
		return ""
	}
	return Clean(cb.Data)
}

// Clean strips Telebot's "\f<unique>|<payload>" framing when present
// and returns the payload as sent.
func Clean(data string) string {
	data = strings.TrimSpace(data)
	if !strings.HasPrefix(data, "\f") {
		return data
	}
	data = strings.TrimPrefix(data, "\f")
	if unique, payload, ok := strings.Cut(data, "|"); ok {
		if payload != "" {
			return payload
		}
		return unique
	}
	return data
}
