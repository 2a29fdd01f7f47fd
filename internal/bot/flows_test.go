package bot

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cozyberries/opsbot/core/telegram/state"
	"github.com/cozyberries/opsbot/internal/models"
	"github.com/cozyberries/opsbot/internal/service"
)

type recordingExpenseStore struct {
	inserted []models.Expense
}

func (s *recordingExpenseStore) Insert(_ context.Context, e models.Expense) (models.Expense, error) {
	e.ID = uuid.New()
	s.inserted = append(s.inserted, e)
	return e, nil
}

func (s *recordingExpenseStore) GetByID(context.Context, uuid.UUID) (models.Expense, error) {
	return models.Expense{}, nil
}

func (s *recordingExpenseStore) List(context.Context, int, int) ([]models.Expense, int, error) {
	return nil, 0, nil
}

func (s *recordingExpenseStore) Update(context.Context, models.Expense) error { return nil }

func (s *recordingExpenseStore) SetStatus(context.Context, uuid.UUID, string) error { return nil }

func (s *recordingExpenseStore) Delete(context.Context, uuid.UUID) (models.Expense, error) {
	return models.Expense{}, nil
}

func (s *recordingExpenseStore) Stats(context.Context) (models.ExpenseStats, error) {
	return models.ExpenseStats{}, nil
}

func (s *recordingExpenseStore) SumSince(context.Context, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func newDraft() *state.Draft {
	return &state.Draft{ChatID: 1, UserID: 7, Data: map[string]any{}}
}

func TestExpenseApplyAmount(t *testing.T) {
	d := newDraft()

	require.NoError(t, expenseApply(stepAmount, "₹2,500.00", d))
	got := d.Data[string(stepAmount)].(decimal.Decimal)
	assert.True(t, got.Equal(decimal.NewFromInt(2500)))

	assert.Error(t, expenseApply(stepAmount, "0", newDraft()))
	assert.Error(t, expenseApply(stepAmount, "-12", newDraft()))
	assert.Error(t, expenseApply(stepAmount, "20000001", newDraft()))
	assert.Error(t, expenseApply(stepAmount, "twelve", newDraft()))
}

func TestExpenseApplyDescription(t *testing.T) {
	d := newDraft()
	require.NoError(t, expenseApply(stepDescription, "  Fabric order  ", d))
	assert.Equal(t, "Fabric order", d.Data[string(stepDescription)])

	assert.Error(t, expenseApply(stepDescription, "ab", newDraft()))
}

func TestExpenseApplyDate(t *testing.T) {
	d := newDraft()
	require.NoError(t, expenseApply(stepDate, "2026-03-15", d))
	got := d.Data[string(stepDate)].(time.Time)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got)

	d = newDraft()
	require.NoError(t, expenseApply(stepDate, "Today", d))
	assert.False(t, d.Data[string(stepDate)].(time.Time).After(time.Now().UTC()))

	assert.Error(t, expenseApply(stepDate, "someday", newDraft()))
}

func TestProductApplyCategorySkip(t *testing.T) {
	for _, input := range []string{"skip", "SKIP", "-"} {
		d := newDraft()
		require.NoError(t, productApply(stepCategory, input, d))
		assert.Equal(t, "", d.Data[string(stepCategory)])
	}

	d := newDraft()
	require.NoError(t, productApply(stepCategory, "clothing", d))
	assert.Equal(t, "clothing", d.Data[string(stepCategory)])
}

func TestAddExpenseFlowCompletesAfterDate(t *testing.T) {
	store := &recordingExpenseStore{}
	manager := state.NewManager(state.Options{})
	manager.Register(newExpenseFlow(service.NewExpenses(store)))

	const chatID, userID = int64(10), int64(7)
	_, err := manager.Start(chatID, userID, FlowAddExpense)
	require.NoError(t, err)

	ctx := context.Background()
	_, done, err := manager.HandleText(ctx, chatID, "1500")
	require.NoError(t, err)
	require.False(t, done)

	_, done, err = manager.HandleText(ctx, chatID, "Office supplies")
	require.NoError(t, err)
	require.False(t, done)

	reply, done, err := manager.HandleText(ctx, chatID, "2025-12-14")
	require.NoError(t, err)
	require.True(t, done, "the date reply must complete the flow")
	assert.Contains(t, reply, "Expense recorded")

	require.Len(t, store.inserted, 1)
	e := store.inserted[0]
	assert.True(t, e.Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "Office supplies", e.Description)
	assert.Equal(t, models.ExpensePending, e.Status)
	assert.Equal(t, "tg:7", e.PaidBy)
	assert.False(t, manager.Active(chatID))
}

func TestProductApply(t *testing.T) {
	d := newDraft()
	require.NoError(t, productApply(stepName, "Muslin swaddle", d))
	require.NoError(t, productApply(stepPrice, "₹1,299", d))
	require.NoError(t, productApply(stepStock, "40", d))

	in := productInputFromDraft(d)
	assert.Equal(t, "Muslin swaddle", in.Name)
	assert.True(t, in.Price.Equal(decimal.NewFromInt(1299)))
	assert.Equal(t, 40, in.Stock)

	assert.Error(t, productApply(stepName, "x", newDraft()))
	assert.Error(t, productApply(stepPrice, "-5", newDraft()))
	assert.Error(t, productApply(stepStock, "many", newDraft()))
	assert.Error(t, productApply(stepQuantity, "-1", newDraft()))
}
