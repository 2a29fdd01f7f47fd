// Package format escapes user supplied text for Telegram Markdown.
package format

import "strings"

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"[", "\\[",
	"]", "\\]",
	"`", "\\`",
)

// EscapeMarkdown escapes Telegram Markdown control characters so user
// provided strings render literally inside formatted messages.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
