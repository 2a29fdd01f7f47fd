// Package storage holds the sqlx repositories. Each method is one
// round trip to Postgres; business rules live a layer up in service.
package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// ErrNoRow marks a lookup that matched nothing. Service code
// translates it to its user facing not-found error.
var ErrNoRow = errors.New("storage: no matching row")

// Store bundles the repositories over one connection pool.
type Store struct {
	Expenses *ExpenseRepo
	Products *ProductRepo
	Orders   *OrderRepo
}

// New builds a Store.
func New(db *sqlx.DB) *Store {
	return &Store{
		Expenses: &ExpenseRepo{db: db},
		Products: &ProductRepo{db: db},
		Orders:   &OrderRepo{db: db},
	}
}

func noRow(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRow
	}
	return err
}

// affected converts an exec result into ErrNoRow when nothing matched.
func affected(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoRow
	}
	return nil
}

// countQuery runs a scalar count.
func countQuery(ctx context.Context, db *sqlx.DB, query string, args ...any) (int, error) {
	var n int
	if err := db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}
