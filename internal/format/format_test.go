package format

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cozyberries/opsbot/internal/models"
)

func TestCurrency(t *testing.T) {
	t.Parallel()

	require.Equal(t, "₹1,500.00", Currency(decimal.RequireFromString("1500")))
	require.Equal(t, "₹2,500.50", Currency(decimal.RequireFromString("2500.5")))
	require.Equal(t, "₹1,234,567.89", Currency(decimal.RequireFromString("1234567.89")))
	require.Equal(t, "-₹42.00", Currency(decimal.RequireFromString("-42")))
	require.Equal(t, "₹0.00", Currency(decimal.Zero))
}

func TestDate(t *testing.T) {
	t.Parallel()
	require.Equal(t, "14 Dec 2025", Date(time.Date(2025, 12, 14, 0, 0, 0, 0, time.UTC)))
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", Truncate("short", 10))
	require.Equal(t, "exact", Truncate("exact", 5))
	require.Equal(t, "long…", Truncate("longer", 5))
}

func TestStatusEmoji(t *testing.T) {
	t.Parallel()

	require.Equal(t, "⏳ pending", ExpenseStatus(models.ExpensePending))
	require.Equal(t, "🚚 shipped", OrderStatus(models.OrderShipped))
	require.Equal(t, "weird", OrderStatus("weird"))
}

func TestListHeader(t *testing.T) {
	t.Parallel()

	meta := models.NewListMeta(37, 5, 10)
	require.Equal(t, "*Expenses* (11–15 of 37)", ListHeader("Expenses", meta))

	last := models.NewListMeta(12, 5, 10)
	require.Equal(t, "*Expenses* (11–12 of 12)", ListHeader("Expenses", last))

	empty := models.NewListMeta(0, 5, 0)
	require.Contains(t, ListHeader("Expenses", empty), "Nothing here yet")
}

func TestExpenseDetailsEscapesMarkdown(t *testing.T) {
	t.Parallel()

	e := models.Expense{
		Description: "snacks_for_todo [team]",
		Amount:      decimal.RequireFromString("250"),
		Date:        time.Date(2025, 12, 14, 0, 0, 0, 0, time.UTC),
		Status:      models.ExpensePending,
	}
	out := ExpenseDetails(e)
	require.Contains(t, out, `snacks\_for\_todo \[team\]`)
	require.Contains(t, out, "₹250.00")
	require.Contains(t, out, "14 Dec 2025")
}
