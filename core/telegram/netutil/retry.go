// Package netutil holds small network helpers shared by the Telegram client.
package netutil

import (
	"errors"
	"io"
	"net"
	"strings"
	"syscall"
)

// IsRetryableNetErr reports whether err looks like a transient network
// failure worth retrying (timeouts, resets, abrupt closes).
func IsRetryableNetErr(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection reset by peer"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "use of closed network connection"):
		return true
	}
	return false
}
