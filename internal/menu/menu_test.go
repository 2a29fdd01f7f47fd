package menu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cozyberries/opsbot/internal/action"
	"github.com/cozyberries/opsbot/internal/models"
)

// Every builder action must parse under the callback convention.
func TestBuiltActionsParse(t *testing.T) {
	t.Parallel()

	var rows [][]Button
	rows = append(rows, Main()...)
	rows = append(rows, Products()...)
	rows = append(rows, Orders()...)
	rows = append(rows, Expenses()...)
	rows = append(rows, Stock()...)
	rows = append(rows, Help()...)
	rows = append(rows, ItemActions(action.EntityProduct, "42", "menu_products")...)
	rows = append(rows, ItemActions(action.EntityExpense, "42", "menu_expenses")...)
	rows = append(rows, ItemActions(action.EntityOrder, "42", "menu_orders")...)
	rows = append(rows, Confirm("delete_product", "42", "menu_products")...)
	rows = append(rows, Pagination("products", 2, 5))
	rows = append(rows, OrderStatusActions("42", models.OrderPending))

	for _, row := range rows {
		for _, b := range row {
			got := action.Parse(b.Action)
			require.NotEqual(t, action.KindUnknown, got.Kind,
				"action %q does not parse", b.Action)
		}
	}
}

func TestPagination(t *testing.T) {
	t.Parallel()

	// Middle page: prev, indicator, next.
	row := Pagination("products", 2, 4)
	require.Len(t, row, 3)
	require.Equal(t, "products_page_1", row[0].Action)
	require.Equal(t, "3/4", row[1].Label)
	require.Equal(t, "noop", row[1].Action)
	require.Equal(t, "products_page_3", row[2].Action)

	// First page has no prev.
	row = Pagination("expenses", 0, 3)
	require.Len(t, row, 2)
	require.Equal(t, "1/3", row[0].Label)
	require.Equal(t, "expenses_page_1", row[1].Action)

	// Last page has no next.
	row = Pagination("orders", 2, 3)
	require.Len(t, row, 2)
	require.Equal(t, "orders_page_1", row[0].Action)
	require.Equal(t, "3/3", row[1].Label)
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, TotalPages(0, 5))
	require.Equal(t, 1, TotalPages(5, 5))
	require.Equal(t, 2, TotalPages(6, 5))
	require.Equal(t, 8, TotalPages(37, 5))
}

func TestOrderStatusActions(t *testing.T) {
	t.Parallel()

	row := OrderStatusActions("42", models.OrderPending)
	require.Len(t, row, 2)
	require.Equal(t, "order_status_42_confirmed", row[0].Action)
	require.Equal(t, "order_status_42_cancelled", row[1].Action)

	row = OrderStatusActions("42", models.OrderShipped)
	require.Equal(t, "order_status_42_delivered", row[0].Action)

	require.Empty(t, OrderStatusActions("42", models.OrderDelivered))
	require.Empty(t, OrderStatusActions("42", models.OrderCancelled))
}

func TestMarkupCarriesRawData(t *testing.T) {
	t.Parallel()

	markup := Markup(Main())
	require.Len(t, markup.InlineKeyboard, 3)
	require.Equal(t, "menu_products", markup.InlineKeyboard[0][0].Data)
	require.Equal(t, "🛍 Products", markup.InlineKeyboard[0][0].Text)
}
