package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/cozyberries/opsbot/internal/models"
)

// ExpenseRepo persists expenses.
type ExpenseRepo struct {
	db *sqlx.DB
}

const expenseColumns = `id, title, description, amount, category, transaction_date, status, paid_by, created_at, updated_at`

// Insert stores a new expense and returns the stored row.
func (r *ExpenseRepo) Insert(ctx context.Context, e models.Expense) (models.Expense, error) {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	var out models.Expense
	err := r.db.GetContext(ctx, &out, `
		INSERT INTO expenses (id, title, description, amount, category, transaction_date, status, paid_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+expenseColumns,
		e.ID, e.Title, e.Description, e.Amount, e.Category, e.Date, e.Status, e.PaidBy,
	)
	return out, err
}

// GetByID fetches one expense.
func (r *ExpenseRepo) GetByID(ctx context.Context, id uuid.UUID) (models.Expense, error) {
	var e models.Expense
	err := r.db.GetContext(ctx, &e,
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	return e, noRow(err)
}

// List returns one page, newest first, plus the total count.
func (r *ExpenseRepo) List(ctx context.Context, limit, offset int) ([]models.Expense, int, error) {
	total, err := countQuery(ctx, r.db, `SELECT COUNT(*) FROM expenses`)
	if err != nil {
		return nil, 0, err
	}
	var items []models.Expense
	err = r.db.SelectContext(ctx, &items, `
		SELECT `+expenseColumns+` FROM expenses
		ORDER BY transaction_date DESC, created_at DESC
		LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	return items, total, err
}

// Update rewrites the mutable fields of one expense.
func (r *ExpenseRepo) Update(ctx context.Context, e models.Expense) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE expenses
		SET title = $2, description = $3, amount = $4, category = $5,
		    transaction_date = $6, updated_at = now()
		WHERE id = $1`,
		e.ID, e.Title, e.Description, e.Amount, e.Category, e.Date,
	))
}

// SetStatus moves an expense to a new lifecycle status.
func (r *ExpenseRepo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	return affected(r.db.ExecContext(ctx, `
		UPDATE expenses SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	))
}

// Delete removes an expense and returns the removed row.
func (r *ExpenseRepo) Delete(ctx context.Context, id uuid.UUID) (models.Expense, error) {
	var e models.Expense
	err := r.db.GetContext(ctx, &e,
		`DELETE FROM expenses WHERE id = $1 RETURNING `+expenseColumns, id)
	return e, noRow(err)
}

type expenseStatsRow struct {
	Count    int             `db:"count"`
	Total    decimal.Decimal `db:"total"`
	Pending  int             `db:"pending"`
	Approved int             `db:"approved"`
	Rejected int             `db:"rejected"`
}

// Stats aggregates the whole table in one query.
func (r *ExpenseRepo) Stats(ctx context.Context) (models.ExpenseStats, error) {
	var row expenseStatsRow
	err := r.db.GetContext(ctx, &row, `
		SELECT COUNT(*)                                           AS count,
		       COALESCE(SUM(amount), 0)                           AS total,
		       COUNT(*) FILTER (WHERE status = 'pending')         AS pending,
		       COUNT(*) FILTER (WHERE status = 'approved')        AS approved,
		       COUNT(*) FILTER (WHERE status = 'rejected')        AS rejected
		FROM expenses`)
	if err != nil {
		return models.ExpenseStats{}, err
	}

	stats := models.ExpenseStats{
		Count:         row.Count,
		Total:         row.Total,
		Average:       decimal.Zero,
		PendingCount:  row.Pending,
		ApprovedCount: row.Approved,
		RejectedCount: row.Rejected,
	}
	if row.Count > 0 {
		stats.Average = row.Total.DivRound(decimal.NewFromInt(int64(row.Count)), 2)
	}
	return stats, nil
}

// SumSince totals approved and pending expenses since a cutoff; a
// zero cutoff covers everything.
func (r *ExpenseRepo) SumSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(amount), 0) FROM expenses
		WHERE status <> 'rejected' AND transaction_date >= $1`,
		since,
	)
	return total, err
}
