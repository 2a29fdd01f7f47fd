package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cozyberries/opsbot/internal/models"
	"github.com/cozyberries/opsbot/internal/schema"
	"github.com/cozyberries/opsbot/internal/storage"
)

// stubExpenseStore keeps expenses in a map.
type stubExpenseStore struct {
	byID map[uuid.UUID]models.Expense
	list []models.Expense
	err  error
}

func newStubExpenseStore() *stubExpenseStore {
	return &stubExpenseStore{byID: make(map[uuid.UUID]models.Expense)}
}

func (s *stubExpenseStore) Insert(_ context.Context, e models.Expense) (models.Expense, error) {
	if s.err != nil {
		return models.Expense{}, s.err
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	s.byID[e.ID] = e
	s.list = append(s.list, e)
	return e, nil
}

func (s *stubExpenseStore) GetByID(_ context.Context, id uuid.UUID) (models.Expense, error) {
	if s.err != nil {
		return models.Expense{}, s.err
	}
	e, ok := s.byID[id]
	if !ok {
		return models.Expense{}, storage.ErrNoRow
	}
	return e, nil
}

func (s *stubExpenseStore) List(_ context.Context, limit, offset int) ([]models.Expense, int, error) {
	if s.err != nil {
		return nil, 0, s.err
	}
	total := len(s.list)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return s.list[offset:end], total, nil
}

func (s *stubExpenseStore) Update(_ context.Context, e models.Expense) error {
	if _, ok := s.byID[e.ID]; !ok {
		return storage.ErrNoRow
	}
	s.byID[e.ID] = e
	return nil
}

func (s *stubExpenseStore) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	e, ok := s.byID[id]
	if !ok {
		return storage.ErrNoRow
	}
	e.Status = status
	s.byID[id] = e
	return nil
}

func (s *stubExpenseStore) Delete(_ context.Context, id uuid.UUID) (models.Expense, error) {
	e, ok := s.byID[id]
	if !ok {
		return models.Expense{}, storage.ErrNoRow
	}
	delete(s.byID, id)
	return e, nil
}

func (s *stubExpenseStore) Stats(_ context.Context) (models.ExpenseStats, error) {
	stats := models.ExpenseStats{Total: decimal.Zero, Average: decimal.Zero}
	for _, e := range s.byID {
		stats.Count++
		stats.Total = stats.Total.Add(e.Amount)
		switch e.Status {
		case models.ExpensePending:
			stats.PendingCount++
		case models.ExpenseApproved:
			stats.ApprovedCount++
		case models.ExpenseRejected:
			stats.RejectedCount++
		}
	}
	if stats.Count > 0 {
		stats.Average = stats.Total.DivRound(decimal.NewFromInt(int64(stats.Count)), 2)
	}
	return stats, nil
}

func (s *stubExpenseStore) SumSince(_ context.Context, _ time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range s.byID {
		if e.Status != models.ExpenseRejected {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func expenseInput(amount, desc string) *schema.ExpenseInput {
	return &schema.ExpenseInput{
		Title:       schema.Title(desc),
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Date:        time.Date(2025, 12, 14, 0, 0, 0, 0, time.UTC),
	}
}

func TestExpenseCreateAndGet(t *testing.T) {
	t.Parallel()

	store := newStubExpenseStore()
	svc := NewExpenses(store)

	created, err := svc.Create(context.Background(), expenseInput("1500", "Office supplies"))
	require.NoError(t, err)
	require.Equal(t, models.ExpensePending, created.Status)

	got, err := svc.Get(context.Background(), created.ID.String())
	require.NoError(t, err)
	require.True(t, got.Amount.Equal(decimal.NewFromInt(1500)))
}

func TestExpenseGetNotFound(t *testing.T) {
	t.Parallel()

	svc := NewExpenses(newStubExpenseStore())

	_, err := svc.Get(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrNotFound)

	// Non UUID identifiers can never name a record.
	_, err = svc.Get(context.Background(), "42")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestExpenseListMeta(t *testing.T) {
	t.Parallel()

	store := newStubExpenseStore()
	svc := NewExpenses(store)
	for i := 0; i < 12; i++ {
		_, err := svc.Create(context.Background(), expenseInput("10", "item number three"))
		require.NoError(t, err)
	}

	items, meta, err := svc.List(context.Background(), 5, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, models.ListMeta{Total: 12, Limit: 5, Offset: 10, HasMore: false}, meta)

	_, meta, err = svc.List(context.Background(), 5, 5)
	require.NoError(t, err)
	require.True(t, meta.HasMore)
}

func TestExpenseApproveRejectDelete(t *testing.T) {
	t.Parallel()

	store := newStubExpenseStore()
	svc := NewExpenses(store)
	created, err := svc.Create(context.Background(), expenseInput("99.50", "printer ink"))
	require.NoError(t, err)
	id := created.ID.String()

	require.NoError(t, svc.Approve(context.Background(), id))
	got, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, models.ExpenseApproved, got.Status)

	deleted, err := svc.Delete(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "printer ink", deleted.Description)

	_, err = svc.Get(context.Background(), id)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to string
		ok       bool
	}{
		{models.OrderPending, models.OrderConfirmed, true},
		{models.OrderConfirmed, models.OrderProcessing, true},
		{models.OrderPending, models.OrderShipped, true},
		{models.OrderShipped, models.OrderDelivered, true},
		{models.OrderShipped, models.OrderConfirmed, false},
		{models.OrderDelivered, models.OrderShipped, false},
		{models.OrderPending, models.OrderPending, false},
		{models.OrderPending, models.OrderCancelled, true},
		{models.OrderShipped, models.OrderCancelled, true},
		{models.OrderDelivered, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderCancelled, false},
		{models.OrderCancelled, models.OrderConfirmed, false},
	}
	for _, tt := range tests {
		err := CanTransition(tt.from, tt.to)
		if tt.ok {
			require.NoError(t, err, "%s -> %s", tt.from, tt.to)
		} else {
			require.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tt.from, tt.to)
		}
	}
}

// stubOrderStore keeps orders in a map.
type stubOrderStore struct {
	byID map[uuid.UUID]models.Order
}

func (s *stubOrderStore) GetByID(_ context.Context, id uuid.UUID) (models.Order, error) {
	o, ok := s.byID[id]
	if !ok {
		return models.Order{}, storage.ErrNoRow
	}
	return o, nil
}

func (s *stubOrderStore) List(_ context.Context, limit, offset int, status string) ([]models.Order, int, error) {
	var all []models.Order
	for _, o := range s.byID {
		if status == "" || o.Status == status {
			all = append(all, o)
		}
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *stubOrderStore) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	o, ok := s.byID[id]
	if !ok {
		return storage.ErrNoRow
	}
	o.Status = status
	s.byID[id] = o
	return nil
}

func (s *stubOrderStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.byID[id]; !ok {
		return storage.ErrNoRow
	}
	delete(s.byID, id)
	return nil
}

func (s *stubOrderStore) Stats(_ context.Context) (models.OrderStats, error) {
	stats := models.OrderStats{
		ByStatus:     make(map[string]int),
		Revenue:      decimal.Zero,
		AverageValue: decimal.Zero,
	}
	delivered := 0
	for _, o := range s.byID {
		stats.Count++
		stats.ByStatus[o.Status]++
		if o.Status == models.OrderDelivered {
			stats.Revenue = stats.Revenue.Add(o.Total)
			delivered++
		}
	}
	if delivered > 0 {
		stats.AverageValue = stats.Revenue.DivRound(decimal.NewFromInt(int64(delivered)), 2)
	}
	return stats, nil
}

func TestOrderUpdateStatus(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	store := &stubOrderStore{byID: map[uuid.UUID]models.Order{
		id: {ID: id, Customer: "Asha", Total: decimal.NewFromInt(900), Status: models.OrderPending},
	}}
	svc := NewOrders(store)

	updated, err := svc.UpdateStatus(context.Background(), id.String(), models.OrderConfirmed)
	require.NoError(t, err)
	require.Equal(t, models.OrderConfirmed, updated.Status)

	// Backward move is rejected and nothing changes.
	_, err = svc.UpdateStatus(context.Background(), id.String(), models.OrderPending)
	require.ErrorIs(t, err, ErrInvalidTransition)
	got, err := svc.Get(context.Background(), id.String())
	require.NoError(t, err)
	require.Equal(t, models.OrderConfirmed, got.Status)

	_, err = svc.UpdateStatus(context.Background(), id.String(), "teleported")
	require.Error(t, err)
}

// stubProductStore keeps products in a map.
type stubProductStore struct {
	byID map[uuid.UUID]models.Product
}

func (s *stubProductStore) Insert(_ context.Context, p models.Product) (models.Product, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	s.byID[p.ID] = p
	return p, nil
}

func (s *stubProductStore) GetByID(_ context.Context, id uuid.UUID) (models.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return models.Product{}, storage.ErrNoRow
	}
	return p, nil
}

func (s *stubProductStore) List(_ context.Context, limit, offset int) ([]models.Product, int, error) {
	var all []models.Product
	for _, p := range s.byID {
		all = append(all, p)
	}
	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (s *stubProductStore) Update(_ context.Context, p models.Product) error {
	if _, ok := s.byID[p.ID]; !ok {
		return storage.ErrNoRow
	}
	s.byID[p.ID] = p
	return nil
}

func (s *stubProductStore) UpdateStock(_ context.Context, id uuid.UUID, qty int) error {
	p, ok := s.byID[id]
	if !ok {
		return storage.ErrNoRow
	}
	p.Stock = qty
	s.byID[id] = p
	return nil
}

func (s *stubProductStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.byID[id]; !ok {
		return storage.ErrNoRow
	}
	delete(s.byID, id)
	return nil
}

func (s *stubProductStore) LowStock(_ context.Context, threshold int) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.byID {
		if p.Stock <= threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductStore) Count(_ context.Context) (int, error) {
	return len(s.byID), nil
}

func TestProductCreateAndStock(t *testing.T) {
	t.Parallel()

	store := &stubProductStore{byID: make(map[uuid.UUID]models.Product)}
	svc := NewProducts(store)

	created, err := svc.Create(context.Background(), schema.ProductInput{
		Name:  "Baby Blanket",
		Price: decimal.RequireFromString("499"),
		Stock: 4,
	})
	require.NoError(t, err)
	require.Equal(t, "baby-blanket", created.Slug)

	require.NoError(t, svc.UpdateStock(context.Background(), created.ID.String(), 30))
	got, err := svc.Get(context.Background(), created.ID.String())
	require.NoError(t, err)
	require.Equal(t, 30, got.Stock)

	err = svc.UpdateStock(context.Background(), created.ID.String(), -1)
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)

	low, err := svc.LowStock(context.Background(), 0)
	require.NoError(t, err)
	require.Empty(t, low)
}

func TestOverallStats(t *testing.T) {
	t.Parallel()

	expStore := newStubExpenseStore()
	expenses := NewExpenses(expStore)
	_, err := expenses.Create(context.Background(), expenseInput("400", "packaging rolls"))
	require.NoError(t, err)

	orderID := uuid.New()
	orders := NewOrders(&stubOrderStore{byID: map[uuid.UUID]models.Order{
		orderID: {ID: orderID, Total: decimal.NewFromInt(1000), Status: models.OrderDelivered},
	}})

	prodStore := &stubProductStore{byID: make(map[uuid.UUID]models.Product)}
	products := NewProducts(prodStore)
	_, err = products.Create(context.Background(), schema.ProductInput{
		Name:  "Onesie",
		Price: decimal.NewFromInt(300),
		Stock: 2,
	})
	require.NoError(t, err)

	stats, err := NewStats(expenses, products, orders).Overall(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Orders.Count)
	require.Equal(t, 1, stats.Products)
	require.Equal(t, 1, stats.LowStock)
	require.True(t, stats.Net.Equal(decimal.NewFromInt(600)), "net %s", stats.Net)
}
