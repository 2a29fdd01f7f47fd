// Package service implements the business operations behind the bot.
// Each method performs one storage round trip and returns typed
// results; routing and presentation stay out of this layer.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/internal/storage"
)

var (
	// ErrNotFound reports a missing record.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidTransition reports an order status move the chain
	// forbids. The wrapped message names the violated rule.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// DefaultPageSize is the list page size used by the menus.
const DefaultPageSize = 5

// LowStockThreshold marks products needing restock.
const LowStockThreshold = 10

// parseID converts a callback carried identifier. Anything that is
// not a UUID cannot name a record, so it maps to ErrNotFound rather
// than a distinct error class.
func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad id %q", ErrNotFound, raw)
	}
	return id, nil
}

// storeErr translates storage failures: missing rows become
// ErrNotFound, everything else is logged with the operation and ids
// and passed through for the generic transient failure reply.
func storeErr(ctx context.Context, log *slog.Logger, op string, err error, attrs ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNoRow) {
		return ErrNotFound
	}
	logAttrs := append([]any{"op", op, "error", err}, attrs...)
	logger.Error(ctx, log, "store.failed", logAttrs...)
	return fmt.Errorf("%s: %w", op, err)
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
