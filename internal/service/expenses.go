package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cozyberries/opsbot/core/logger"
	"github.com/cozyberries/opsbot/internal/models"
	"github.com/cozyberries/opsbot/internal/schema"
)

// ExpenseStore is the storage surface the expense service needs.
// storage.ExpenseRepo satisfies it; tests stub it.
type ExpenseStore interface {
	Insert(ctx context.Context, e models.Expense) (models.Expense, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.Expense, error)
	List(ctx context.Context, limit, offset int) ([]models.Expense, int, error)
	Update(ctx context.Context, e models.Expense) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	Delete(ctx context.Context, id uuid.UUID) (models.Expense, error)
	Stats(ctx context.Context) (models.ExpenseStats, error)
	SumSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
}

// Expenses implements expense operations.
type Expenses struct {
	store ExpenseStore
}

// NewExpenses builds the expense service.
func NewExpenses(store ExpenseStore) *Expenses {
	return &Expenses{store: store}
}

// Create persists a validated expense with pending status.
func (s *Expenses) Create(ctx context.Context, in *schema.ExpenseInput) (models.Expense, error) {
	e := models.Expense{
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        in.Date,
		Status:      models.ExpensePending,
		PaidBy:      in.PaidBy,
	}
	out, err := s.store.Insert(ctx, e)
	if err != nil {
		return models.Expense{}, storeErr(ctx, logger.SVCExpenses, "expense.create", err)
	}
	logger.Info(ctx, logger.SVCExpenses, "expense.created",
		"id", out.ID,
		"amount", out.Amount,
	)
	return out, nil
}

// Get fetches one expense by its string identifier.
func (s *Expenses) Get(ctx context.Context, rawID string) (models.Expense, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.Expense{}, err
	}
	e, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Expense{}, storeErr(ctx, logger.SVCExpenses, "expense.get", err, "id", rawID)
	}
	return e, nil
}

// List returns one page of expenses plus pagination metadata.
func (s *Expenses) List(ctx context.Context, limit, offset int) ([]models.Expense, models.ListMeta, error) {
	limit, offset = clampPage(limit, offset)
	items, total, err := s.store.List(ctx, limit, offset)
	if err != nil {
		return nil, models.ListMeta{}, storeErr(ctx, logger.SVCExpenses, "expense.list", err)
	}
	return items, models.NewListMeta(total, limit, offset), nil
}

// Update rewrites an expense from newly validated input, keeping its
// status.
func (s *Expenses) Update(ctx context.Context, rawID string, in *schema.ExpenseInput) (models.Expense, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.Expense{}, err
	}
	e := models.Expense{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Amount:      in.Amount,
		Category:    in.Category,
		Date:        in.Date,
	}
	if err := s.store.Update(ctx, e); err != nil {
		return models.Expense{}, storeErr(ctx, logger.SVCExpenses, "expense.update", err, "id", rawID)
	}
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return models.Expense{}, storeErr(ctx, logger.SVCExpenses, "expense.update.readback", err, "id", rawID)
	}
	return out, nil
}

// Approve moves an expense to approved.
func (s *Expenses) Approve(ctx context.Context, rawID string) error {
	return s.setStatus(ctx, rawID, models.ExpenseApproved)
}

// Reject moves an expense to rejected.
func (s *Expenses) Reject(ctx context.Context, rawID string) error {
	return s.setStatus(ctx, rawID, models.ExpenseRejected)
}

func (s *Expenses) setStatus(ctx context.Context, rawID, status string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.store.SetStatus(ctx, id, status); err != nil {
		return storeErr(ctx, logger.SVCExpenses, "expense.status", err, "id", rawID, "status", status)
	}
	logger.Info(ctx, logger.SVCExpenses, "expense.status.changed",
		"id", rawID,
		"status", status,
	)
	return nil
}

// Delete removes an expense and returns the removed record so the
// confirmation can name what was deleted.
func (s *Expenses) Delete(ctx context.Context, rawID string) (models.Expense, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.Expense{}, err
	}
	e, err := s.store.Delete(ctx, id)
	if err != nil {
		return models.Expense{}, storeErr(ctx, logger.SVCExpenses, "expense.delete", err, "id", rawID)
	}
	logger.Info(ctx, logger.SVCExpenses, "expense.deleted",
		"id", rawID,
		"amount", e.Amount,
	)
	return e, nil
}

// Stats aggregates the expense table.
func (s *Expenses) Stats(ctx context.Context) (models.ExpenseStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return models.ExpenseStats{}, storeErr(ctx, logger.SVCExpenses, "expense.stats", err)
	}
	return stats, nil
}

// SpentTotal sums approved and pending expenses since the cutoff; a
// zero cutoff covers everything.
func (s *Expenses) SpentTotal(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	total, err := s.store.SumSince(ctx, since)
	if err != nil {
		return decimal.Zero, storeErr(ctx, logger.SVCExpenses, "expense.sum", err)
	}
	return total, nil
}

// ValidateAndCreate runs raw parsed fields through the schema and
// persists on success, keeping validation and storage in one place
// for the flow and message handlers.
func (s *Expenses) ValidateAndCreate(ctx context.Context, fields map[string]string, paidBy string) (models.Expense, error) {
	in, err := schema.ValidateExpense(fields, time.Now().UTC())
	if err != nil {
		return models.Expense{}, err
	}
	in.PaidBy = paidBy
	return s.Create(ctx, in)
}
