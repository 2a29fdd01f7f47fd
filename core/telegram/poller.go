package telegram

import (
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"
)

const (
	RunModeWebhook  = "webhook"
	RunModeLongpoll = "longpoll"
)

// allowedUpdates narrows the update stream to what the bot actually
// routes. Everything else is dropped server side.
var allowedUpdates = []string{"message", "callback_query"}

// WebhookOptions is the listener half of webhook mode.
type WebhookOptions struct {
	Listen string
	Port   int
	URL    string
}

// PollerOptions selects and tunes the update source.
type PollerOptions struct {
	RunMode                string
	LongPollTimeoutSeconds int
	Webhook                WebhookOptions
}

// BuildPoller returns the Telebot poller for the configured run mode.
// Anything other than webhook falls back to long polling.
func BuildPoller(opts PollerOptions) tele.Poller {
	if strings.ToLower(strings.TrimSpace(opts.RunMode)) == RunModeWebhook {
		return &tele.Webhook{
			Listen:         fmt.Sprintf("%s:%d", opts.Webhook.Listen, opts.Webhook.Port),
			AllowedUpdates: allowedUpdates,
			Endpoint:       &tele.WebhookEndpoint{PublicURL: opts.Webhook.URL},
		}
	}

	timeout := opts.LongPollTimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &tele.LongPoller{
		Timeout:        time.Duration(timeout) * time.Second,
		AllowedUpdates: allowedUpdates,
	}
}
