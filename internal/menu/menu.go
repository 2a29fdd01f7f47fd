// Package menu builds the bot's inline menus. Builders are pure and
// deterministic: given a navigation context they return rows of
// labelled buttons whose actions follow the callback identifier
// convention parsed by the action package.
package menu

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/telegram/keyboard"
	"github.com/cozyberries/opsbot/internal/action"
	"github.com/cozyberries/opsbot/internal/models"
)

// Button pairs a label with its callback action identifier.
type Button struct {
	Label  string
	Action string
}

func btn(label, act string) Button {
	return Button{Label: label, Action: act}
}

// Main is the top level menu.
func Main() [][]Button {
	return [][]Button{
		{btn("🛍 Products", "menu_products"), btn("📦 Orders", "menu_orders")},
		{btn("💰 Expenses", "menu_expenses"), btn("📊 Stock", "menu_stock")},
		{btn("❓ Help", "menu_help")},
	}
}

// Products is the product submenu.
func Products() [][]Button {
	return [][]Button{
		{btn("📋 List products", "products_page_0")},
		{btn("➕ Add product", "products_create"), btn("📉 Low stock", "menu_stock")},
		{btn("⬅️ Back", "menu_main")},
	}
}

// Orders is the order submenu.
func Orders() [][]Button {
	return [][]Button{
		{btn("📋 All orders", "orders_page_0")},
		{btn("⏳ Pending", "order_filter_pending"), btn("🚚 Shipped", "order_filter_shipped")},
		{btn("📦 Delivered", "order_filter_delivered"), btn("❌ Cancelled", "order_filter_cancelled")},
		{btn("⬅️ Back", "menu_main")},
	}
}

// Expenses is the expense submenu.
func Expenses() [][]Button {
	return [][]Button{
		{btn("📋 List expenses", "expenses_page_0")},
		{btn("➕ Add expense", "start_add_expense"), btn("📈 Stats", "expenses_stats")},
		{btn("⬅️ Back", "menu_main")},
	}
}

// Stock is the stock submenu.
func Stock() [][]Button {
	return [][]Button{
		{btn("🛍 All products", "products_page_0")},
		{btn("⬅️ Back to products", "menu_products")},
		{btn("⬅️ Back", "menu_main")},
	}
}

// Help is the help screen keyboard.
func Help() [][]Button {
	return [][]Button{
		{btn("⬅️ Back", "menu_main")},
	}
}

// Pagination builds the Prev / indicator / Next row. prefix is the
// plural entity ("products"), page is 0 based, the indicator button is
// inert.
func Pagination(prefix string, page, totalPages int) []Button {
	row := make([]Button, 0, 3)
	if page > 0 {
		row = append(row, btn("⬅️ Prev", fmt.Sprintf("%s_page_%d", prefix, page-1)))
	}
	row = append(row, btn(fmt.Sprintf("%d/%d", page+1, maxInt(totalPages, 1)), "noop"))
	if page+1 < totalPages {
		row = append(row, btn("Next ➡️", fmt.Sprintf("%s_page_%d", prefix, page+1)))
	}
	return row
}

// TotalPages computes the page count for a list.
func TotalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// ItemActions builds the action rows for one item's detail card. back
// is the menu to return to.
func ItemActions(entity, id, back string) [][]Button {
	var rows [][]Button
	switch entity {
	case action.EntityProduct:
		rows = append(rows,
			[]Button{
				btn("✏️ Edit", "product_edit_"+id),
				btn("📊 Stock", "product_stock_"+id),
			},
			[]Button{btn("🗑 Delete", "product_delete_"+id)},
		)
	case action.EntityExpense:
		rows = append(rows,
			[]Button{
				btn("✅ Approve", "expense_approve_"+id),
				btn("❌ Reject", "expense_reject_"+id),
			},
			[]Button{btn("🗑 Delete", "expense_delete_"+id)},
		)
	case action.EntityOrder:
		rows = append(rows, []Button{btn("🗑 Delete", "order_delete_"+id)})
	}
	rows = append(rows, []Button{btn("⬅️ Back", back)})
	return rows
}

// OrderStatusActions builds the transition buttons for an order in
// its current status: the next chain step plus cancel, nothing for
// terminal orders.
func OrderStatusActions(id, current string) []Button {
	var row []Button
	if next, ok := NextOrderStatus(current); ok {
		row = append(row, btn("➡️ "+next, fmt.Sprintf("order_status_%s_%s", id, next)))
	}
	if !models.IsTerminalOrderStatus(current) {
		row = append(row, btn("❌ Cancel order", fmt.Sprintf("order_status_%s_%s", id, models.OrderCancelled)))
	}
	return row
}

// NextOrderStatus returns the next status in the forward chain.
func NextOrderStatus(current string) (string, bool) {
	chain := []string{
		models.OrderPending,
		models.OrderConfirmed,
		models.OrderProcessing,
		models.OrderShipped,
		models.OrderDelivered,
	}
	for i, s := range chain[:len(chain)-1] {
		if s == current {
			return chain[i+1], true
		}
	}
	return "", false
}

// Confirm builds the yes/no row for a destructive action.
func Confirm(verb, id, back string) [][]Button {
	return [][]Button{
		{
			btn("✅ Yes", fmt.Sprintf("confirm_%s_%s", verb, id)),
			btn("❌ No", back),
		},
	}
}

// Markup converts builder rows into a Telebot inline keyboard. Action
// identifiers are sent as raw callback data so they round trip bit
// for bit.
func Markup(rows [][]Button) *tele.ReplyMarkup {
	kb := make([][]keyboard.Button, 0, len(rows))
	for _, row := range rows {
		line := make([]keyboard.Button, 0, len(row))
		for _, b := range row {
			line = append(line, keyboard.Btn(b.Label, b.Action))
		}
		kb = append(kb, line)
	}
	return keyboard.Inline(kb...)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
