// Package models holds the domain records exchanged between the
// storage, service and presentation layers. Records are plain
// validated data; the database owns them, the bot only ever holds a
// request scoped copy.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Expense lifecycle statuses.
const (
	ExpensePending  = "pending"
	ExpenseApproved = "approved"
	ExpenseRejected = "rejected"
)

// Order statuses. The first five form a forward only chain; cancelled
// is reachable from any non terminal status.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

// OrderStatuses lists the valid order statuses in chain order,
// cancelled last.
var OrderStatuses = []string{
	OrderPending,
	OrderConfirmed,
	OrderProcessing,
	OrderShipped,
	OrderDelivered,
	OrderCancelled,
}

// Expense is one recorded business expense. PaidBy is a free text
// reference, deliberately not a foreign key, so expense history
// survives user table churn.
type Expense struct {
	ID          uuid.UUID       `db:"id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Amount      decimal.Decimal `db:"amount"`
	Category    string          `db:"category"`
	Date        time.Time       `db:"transaction_date"`
	Status      string          `db:"status"`
	PaidBy      string          `db:"paid_by"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Product is one catalog item.
type Product struct {
	ID          uuid.UUID       `db:"id"`
	Name        string          `db:"name"`
	Slug        string          `db:"slug"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Stock       int             `db:"stock_quantity"`
	Category    string          `db:"category"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

// Order is one customer order. Items are stored denormalized as a
// count; line item detail stays in the backing store.
type Order struct {
	ID         uuid.UUID       `db:"id"`
	Customer   string          `db:"customer_name"`
	ItemsCount int             `db:"items_count"`
	Total      decimal.Decimal `db:"total"`
	Status     string          `db:"status"`
	CreatedAt  time.Time       `db:"created_at"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

// ListMeta is the pagination envelope returned by every list
// operation.
type ListMeta struct {
	Total  int
	Limit  int
	Offset int
	// HasMore is true when another page exists past this one.
	HasMore bool
}

// NewListMeta derives the pagination envelope for one page.
func NewListMeta(total, limit, offset int) ListMeta {
	return ListMeta{
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: offset+limit < total,
	}
}

// ExpenseStats aggregates the expense table.
type ExpenseStats struct {
	Count         int
	Total         decimal.Decimal
	Average       decimal.Decimal
	PendingCount  int
	ApprovedCount int
	RejectedCount int
}

// OrderStats aggregates the order table.
type OrderStats struct {
	Count        int
	ByStatus     map[string]int
	Revenue      decimal.Decimal
	AverageValue decimal.Decimal
}

// OverallStats backs the /stats summary.
type OverallStats struct {
	Orders   OrderStats
	Expenses ExpenseStats
	Products int
	LowStock int
	// Net is delivered revenue minus approved and pending expenses.
	Net decimal.Decimal
}

// IsTerminalOrderStatus reports whether status ends the order
// lifecycle.
func IsTerminalOrderStatus(status string) bool {
	return status == OrderDelivered || status == OrderCancelled
}

// IsOrderStatus reports whether status is one of the known values.
func IsOrderStatus(status string) bool {
	for _, s := range OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}
