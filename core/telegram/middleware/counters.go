package middleware

import (
	tele "gopkg.in/telebot.v4"
)

const sentCounterKey = "sent_count"

// countingContext proxies the outbound send family so the logging
// middleware can report how many replies one update produced. The
// count covers synchronous sends only: replies handed to the sender
// dispatcher run after the summary line and are not included, their
// failures are logged by the dispatcher itself.
type countingContext struct{ tele.Context }

func (m countingContext) bump() {
	n := 0
	if v := m.Get(sentCounterKey); v != nil {
		if nv, ok := v.(int); ok {
			n = nv
		}
	}
	m.Set(sentCounterKey, n+1)
}

func (m countingContext) Send(what interface{}, opts ...interface{}) error {
	err := m.Context.Send(what, opts...)
	if err == nil {
		m.bump()
	}
	return err
}

func (m countingContext) Reply(what interface{}, opts ...interface{}) error {
	err := m.Context.Reply(what, opts...)
	if err == nil {
		m.bump()
	}
	return err
}

func (m countingContext) Edit(what interface{}, opts ...interface{}) error {
	err := m.Context.Edit(what, opts...)
	if err == nil {
		m.bump()
	}
	return err
}

func (m countingContext) EditOrSend(what interface{}, opts ...interface{}) error {
	err := m.Context.EditOrSend(what, opts...)
	if err == nil {
		m.bump()
	}
	return err
}

// Counters wraps the context so outbound replies are counted.
func Counters(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		c.Set(sentCounterKey, 0)
		return next(countingContext{Context: c})
	}
}

// SentCount reads the reply counter, zero when absent.
func SentCount(c tele.Context) int {
	if v := c.Get(sentCounterKey); v != nil {
		if n, ok := v.(int); ok {
			return n
		}
	}
	return 0
}
