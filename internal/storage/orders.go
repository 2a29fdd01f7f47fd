package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/cozyberries/opsbot/internal/models"
)

// OrderRepo persists orders.
type OrderRepo struct {
	db *sqlx.DB
}

const orderColumns = `id, customer_name, items_count, total, status, created_at, updated_at`

// GetByID fetches one order.
func (r *OrderRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Order, error) {
	var o models.Order
	err := r.db.GetContext(ctx, &o,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	return o, noRow(err)
}

// List returns one page, newest first, optionally filtered by status,
// plus the total count under the same filter. Empty status means no
// filter.
func (r *OrderRepo) List(ctx context.Context, limit, offset int, status string) ([]models.Order, int, error) {
	var (
		total int
		err   error
	)
	if status == "" {
		total, err = countQuery(ctx, r.db, `SELECT COUNT(*) FROM orders`)
	} else {
		total, err = countQuery(ctx, r.db, `SELECT COUNT(*) FROM orders WHERE status = $1`, status)
	}
	if err != nil {
		return nil, 0, err
	}

	var items []models.Order
	if status == "" {
		err = r.db.SelectContext(ctx, &items, `
			SELECT `+orderColumns+` FROM orders
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2`,
			limit, offset,
		)
	} else {
		err = r.db.SelectContext(ctx, &items, `
			SELECT `+orderColumns+` FROM orders
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3`,
			status, limit, offset,
		)
	}
	return items, total, err
}

// SetStatus moves an order to a new status.
func (r *OrderRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	))
}

// Delete removes one order.
func (r *OrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id))
}

type orderStatsRow struct {
	Status  string          `db:"status"`
	Count   int             `db:"count"`
	Revenue decimal.Decimal `db:"revenue"`
}

// Stats aggregates order counts and revenue per status. Revenue and
// the average order value count only delivered orders.
func (r *OrderRepo) Stats(ctx context.Context) (models.OrderStats, error) {
	var rows []orderStatsRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(total), 0) AS revenue
		FROM orders
		GROUP BY status`)
	if err != nil {
		return models.OrderStats{}, err
	}

	stats := models.OrderStats{
		ByStatus:     make(map[string]int, len(rows)),
		Revenue:      decimal.Zero,
		AverageValue: decimal.Zero,
	}
	delivered := 0
	for _, row := range rows {
		stats.Count += row.Count
		stats.ByStatus[row.Status] = row.Count
		if row.Status == models.OrderDelivered {
			stats.Revenue = row.Revenue
			delivered = row.Count
		}
	}
	if delivered > 0 {
		stats.AverageValue = stats.Revenue.DivRound(decimal.NewFromInt(int64(delivered)), 2)
	}
	return stats, nil
}
