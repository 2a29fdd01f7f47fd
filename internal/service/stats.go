package service

import (
	"context"
	"time"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/internal/models"
)

// Stats assembles the cross entity overview behind /stats.
type Stats struct {
	expenses *Expenses
	products *Products
	orders   *Orders
}

// NewStats builds the overview service.
func NewStats(expenses *Expenses, products *Products, orders *Orders) *Stats {
	return &Stats{expenses: expenses, products: products, orders: orders}
}

// Overall aggregates orders, expenses and the catalog into one
// summary. Net is delivered revenue minus all non rejected expenses.
func (s *Stats) Overall(ctx context.Context) (models.OverallStats, error) {
	orderStats, err := s.orders.Stats(ctx)
	if err != nil {
		return models.OverallStats{}, err
	}
	expenseStats, err := s.expenses.Stats(ctx)
	if err != nil {
		return models.OverallStats{}, err
	}
	spent, err := s.expenses.SpentTotal(ctx, time.Time{})
	if err != nil {
		return models.OverallStats{}, err
	}
	productCount, err := s.products.Count(ctx)
	if err != nil {
		return models.OverallStats{}, err
	}
	low, err := s.products.LowStock(ctx, LowStockThreshold)
	if err != nil {
		return models.OverallStats{}, err
	}

	out := models.OverallStats{
		Orders:   orderStats,
		Expenses: expenseStats,
		Products: productCount,
		LowStock: len(low),
		Net:      orderStats.Revenue.Sub(spent),
	}
	logger.Debug(ctx, logger.SVCStats, "stats.overall",
		"orders", orderStats.Count,
		"expenses", expenseStats.Count,
		"net", out.Net,
	)
	return out, nil
}
