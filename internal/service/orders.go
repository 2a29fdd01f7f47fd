package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/internal/models"
	"github.com/cozyberries/opsbot/internal/schema"
)

// OrderStore is the storage surface the order service needs.
type OrderStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (models.Order, error)
	List(ctx context.Context, limit, offset int, status string) ([]models.Order, int, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Stats(ctx context.Context) (models.OrderStats, error)
}

// Orders implements order operations.
type Orders struct {
	store OrderStore
}

// NewOrders builds the order service.
func NewOrders(store OrderStore) *Orders {
	return &Orders{store: store}
}

var statusRank = map[string]int{
	models.OrderPending:    0,
	models.OrderConfirmed:  1,
	models.OrderProcessing: 2,
	models.OrderShipped:    3,
	models.OrderDelivered:  4,
}

// CanTransition reports whether an order may move from current to
// next: forward along the chain only, or to cancelled from any non
// terminal status. The returned error names the violated rule.
func CanTransition(current, next string) error {
	if next == models.OrderCancelled {
		if models.IsTerminalOrderStatus(current) {
			return fmt.Errorf("%w: %q orders cannot be cancelled", ErrInvalidTransition, current)
		}
		return nil
	}
	from, okFrom := statusRank[current]
	to, okTo := statusRank[next]
	if !okFrom || !okTo {
		return fmt.Errorf("%w: %q to %q is not a chain move", ErrInvalidTransition, current, next)
	}
	if to <= from {
		return fmt.Errorf("%w: the chain only moves forward, %q comes before %q", ErrInvalidTransition, next, current)
	}
	return nil
}

// Get fetches one order by its string identifier.
func (s *Orders) Get(ctx context.Context, rawID string) (models.Order, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.Order{}, err
	}
	o, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Order{}, storeErr(ctx, logger.SVCOrders, "order.get", err, "id", rawID)
	}
	return o, nil
}

// List returns one page of orders, optionally filtered by status,
// plus pagination metadata.
func (s *Orders) List(ctx context.Context, limit, offset int, status string) ([]models.Order, models.ListMeta, error) {
	limit, offset = clampPage(limit, offset)
	if status != "" {
		var err error
		if status, err = schema.ValidateOrderStatus(status); err != nil {
			return nil, models.ListMeta{}, err
		}
	}
	items, total, err := s.store.List(ctx, limit, offset, status)
	if err != nil {
		return nil, models.ListMeta{}, storeErr(ctx, logger.SVCOrders, "order.list", err, "status", status)
	}
	return items, models.NewListMeta(total, limit, offset), nil
}

// UpdateStatus moves an order along the status chain and returns the
// updated record.
func (s *Orders) UpdateStatus(ctx context.Context, rawID, status string) (models.Order, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.Order{}, err
	}
	status, err = schema.ValidateOrderStatus(status)
	if err != nil {
		return models.Order{}, err
	}

	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Order{}, storeErr(ctx, logger.SVCOrders, "order.status.read", err, "id", rawID)
	}
	if err := CanTransition(current.Status, status); err != nil {
		return models.Order{}, err
	}

	if err := s.store.SetStatus(ctx, id, status); err != nil {
		return models.Order{}, storeErr(ctx, logger.SVCOrders, "order.status.write", err, "id", rawID, "status", status)
	}
	logger.Info(ctx, logger.SVCOrders, "order.status.changed",
		"id", rawID,
		"from", current.Status,
		"to", status,
	)
	current.Status = status
	return current, nil
}

// Delete removes one order.
func (s *Orders) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return storeErr(ctx, logger.SVCOrders, "order.delete", err, "id", rawID)
	}
	logger.Info(ctx, logger.SVCOrders, "order.deleted", "id", rawID)
	return nil
}

// Stats aggregates the order table.
func (s *Orders) Stats(ctx context.Context) (models.OrderStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return models.OrderStats{}, storeErr(ctx, logger.SVCOrders, "order.stats", err)
	}
	return stats, nil
}
