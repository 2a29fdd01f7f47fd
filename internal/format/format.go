// Package format renders domain records as Telegram Markdown.
package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	teleformat "github.com/cozyberries/opsbot/core/telegram/format"
	"github.com/cozyberries/opsbot/internal/models"
)

const dateLayout = "02 Jan 2006"

var expenseStatusEmoji = map[string]string{
	models.ExpensePending:  "⏳",
	models.ExpenseApproved: "✅",
	models.ExpenseRejected: "❌",
}

var orderStatusEmoji = map[string]string{
	models.OrderPending:    "⏳",
	models.OrderConfirmed:  "☑️",
	models.OrderProcessing: "⚙️",
	models.OrderShipped:    "🚚",
	models.OrderDelivered:  "📦",
	models.OrderCancelled:  "❌",
}

// Currency renders a money amount as ₹1,234.56.
func Currency(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	out := "₹" + b.String() + "." + frac
	if neg {
		out = "-" + out
	}
	return out
}

// Date renders a date as "02 Jan 2006".
func Date(t time.Time) string {
	return t.Format(dateLayout)
}

// ExpenseStatus renders a status with its emoji.
func ExpenseStatus(status string) string {
	if e, ok := expenseStatusEmoji[status]; ok {
		return e + " " + status
	}
	return status
}

// OrderStatus renders a status with its emoji.
func OrderStatus(status string) string {
	if e, ok := orderStatusEmoji[status]; ok {
		return e + " " + status
	}
	return status
}

// Truncate shortens s to max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return "…"
	}
	return string(runes[:max-1]) + "…"
}

func escape(s string) string {
	return teleformat.EscapeMarkdown(s)
}

// ExpenseLine is the one line list entry for an expense.
func ExpenseLine(e models.Expense) string {
	return fmt.Sprintf("%s *%s* — %s (%s)",
		ExpenseStatus(e.Status),
		escape(Truncate(e.Title, 40)),
		Currency(e.Amount),
		Date(e.Date),
	)
}

// ExpenseDetails is the full expense card.
func ExpenseDetails(e models.Expense) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Expense*\n\n")
	fmt.Fprintf(&b, "*Amount:* %s\n", Currency(e.Amount))
	fmt.Fprintf(&b, "*Description:* %s\n", escape(e.Description))
	fmt.Fprintf(&b, "*Date:* %s\n", Date(e.Date))
	if e.Category != "" {
		fmt.Fprintf(&b, "*Category:* %s\n", escape(e.Category))
	}
	fmt.Fprintf(&b, "*Status:* %s\n", ExpenseStatus(e.Status))
	if e.PaidBy != "" {
		fmt.Fprintf(&b, "*Paid by:* %s\n", escape(e.PaidBy))
	}
	fmt.Fprintf(&b, "\n_ID: %s_", e.ID)
	return b.String()
}

// ProductLine is the one line list entry for a product.
func ProductLine(p models.Product) string {
	return fmt.Sprintf("*%s* — %s, stock %d",
		escape(Truncate(p.Name, 40)),
		Currency(p.Price),
		p.Stock,
	)
}

// ProductDetails is the full product card.
func ProductDetails(p models.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", escape(p.Name))
	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", escape(Truncate(p.Description, 200)))
	}
	fmt.Fprintf(&b, "*Price:* %s\n", Currency(p.Price))
	fmt.Fprintf(&b, "*Stock:* %d\n", p.Stock)
	if p.Category != "" {
		fmt.Fprintf(&b, "*Category:* %s\n", escape(p.Category))
	}
	fmt.Fprintf(&b, "\n_ID: %s_", p.ID)
	return b.String()
}

// OrderLine is the one line list entry for an order.
func OrderLine(o models.Order) string {
	return fmt.Sprintf("%s *%s* — %s (%d items)",
		OrderStatus(o.Status),
		escape(Truncate(o.Customer, 30)),
		Currency(o.Total),
		o.ItemsCount,
	)
}

// OrderDetails is the full order card.
func OrderDetails(o models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Order*\n\n")
	fmt.Fprintf(&b, "*Customer:* %s\n", escape(o.Customer))
	fmt.Fprintf(&b, "*Items:* %d\n", o.ItemsCount)
	fmt.Fprintf(&b, "*Total:* %s\n", Currency(o.Total))
	fmt.Fprintf(&b, "*Status:* %s\n", OrderStatus(o.Status))
	fmt.Fprintf(&b, "*Placed:* %s\n", Date(o.CreatedAt))
	fmt.Fprintf(&b, "\n_ID: %s_", o.ID)
	return b.String()
}

// ListHeader renders the "Expenses (11–15 of 37)" style header.
func ListHeader(title string, meta models.ListMeta) string {
	if meta.Total == 0 {
		return fmt.Sprintf("*%s*\n\nNothing here yet.", title)
	}
	from := meta.Offset + 1
	to := meta.Offset + meta.Limit
	if to > meta.Total {
		to = meta.Total
	}
	return fmt.Sprintf("*%s* (%d–%d of %d)", title, from, to, meta.Total)
}

// ExpenseStatsText renders the expense aggregate card.
func ExpenseStatsText(s models.ExpenseStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Expense stats*\n\n")
	fmt.Fprintf(&b, "*Count:* %d\n", s.Count)
	fmt.Fprintf(&b, "*Total:* %s\n", Currency(s.Total))
	fmt.Fprintf(&b, "*Average:* %s\n", Currency(s.Average))
	fmt.Fprintf(&b, "\n⏳ pending %d · ✅ approved %d · ❌ rejected %d",
		s.PendingCount, s.ApprovedCount, s.RejectedCount)
	return b.String()
}

// OverallStatsText renders the /stats summary.
func OverallStatsText(s models.OverallStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Business overview*\n\n")
	fmt.Fprintf(&b, "*Orders:* %d\n", s.Orders.Count)
	fmt.Fprintf(&b, "*Revenue:* %s\n", Currency(s.Orders.Revenue))
	fmt.Fprintf(&b, "*Avg order:* %s\n", Currency(s.Orders.AverageValue))
	for _, status := range models.OrderStatuses {
		if n := s.Orders.ByStatus[status]; n > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", OrderStatus(status), n)
		}
	}
	fmt.Fprintf(&b, "\n*Expenses:* %d totalling %s\n", s.Expenses.Count, Currency(s.Expenses.Total))
	fmt.Fprintf(&b, "*Products:* %d (%d low on stock)\n", s.Products, s.LowStock)
	fmt.Fprintf(&b, "\n*Net:* %s", Currency(s.Net))
	return b.String()
}
