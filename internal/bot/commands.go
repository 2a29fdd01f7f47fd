package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/telegram/commands"
	"github.com/cozyberries/opsbot/core/telegram/helpers"
	"github.com/cozyberries/opsbot/internal/action"
	"github.com/cozyberries/opsbot/internal/format"
	"github.com/cozyberries/opsbot/internal/menu"
	"github.com/cozyberries/opsbot/internal/parser"
	"github.com/cozyberries/opsbot/internal/schema"
	"github.com/cozyberries/opsbot/internal/service"
)

const mainMenuText = "🧸 *CozyBerries admin*\n\nWhat would you like to manage?"

func (a *App) registerCommands() {
	reg := a.registry

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.cmdMenu,
		Description: "Open the main menu",
	})
	reg.RegisterCommand("/menu", commands.Command{
		Handler:     a.cmdMenu,
		Description: "Open the main menu",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     a.cmdHelp,
		Description: "Show available commands",
	})
	reg.RegisterCommand("/products", commands.Command{
		Handler:     func(c tele.Context) error { return a.showMenu(c, action.MenuProducts) },
		Description: "Manage products",
	})
	reg.RegisterCommand("/orders", commands.Command{
		Handler:     func(c tele.Context) error { return a.showMenu(c, action.MenuOrders) },
		Description: "Manage orders",
	})
	reg.RegisterCommand("/expenses", commands.Command{
		Handler:     func(c tele.Context) error { return a.showMenu(c, action.MenuExpenses) },
		Description: "Manage expenses",
	})
	reg.RegisterCommand("/stock", commands.Command{
		Handler:     func(c tele.Context) error { return a.showMenu(c, action.MenuStock) },
		Description: "Stock overview",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     a.cmdStats,
		Description: "Business overview",
	})
	reg.RegisterCommand("/add_expense", commands.Command{
		Handler:     func(c tele.Context) error { return a.flows.Start(c, FlowAddExpense) },
		Description: "Record a new expense",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     a.flows.Cancel,
		Description: "Abort the current conversation",
	})

	// Legacy direct lookups, hidden from the command list.
	reg.RegisterCommand("/product", commands.Command{
		Handler:     a.cmdProductByID,
		Description: "Show one product by id",
		Hidden:      true,
	})
	reg.RegisterCommand("/order", commands.Command{
		Handler:     a.cmdOrderByID,
		Description: "Show one order by id",
		Hidden:      true,
	})
	reg.RegisterCommand("/expense", commands.Command{
		Handler:     a.cmdExpenseByID,
		Description: "Show one expense by id",
		Hidden:      true,
	})
	reg.RegisterCommand("/delete_expense", commands.Command{
		Handler:     a.cmdDeleteExpense,
		Description: "Delete an expense by id",
		Hidden:      true,
	})
	reg.RegisterCommand("/order_status", commands.Command{
		Handler:     a.cmdOrderStatus,
		Description: "Move an order to a new status",
		Hidden:      true,
	})
	reg.RegisterCommand("/update_stock", commands.Command{
		Handler:     a.cmdUpdateStock,
		Description: "Set a product's stock quantity",
		Hidden:      true,
	})
	reg.RegisterCommand("/low_stock", commands.Command{
		Handler:     a.cmdLowStock,
		Description: "List products low on stock",
		Hidden:      true,
	})

	reg.SetTextFallback(a.textFallback)
}

func (a *App) cmdMenu(c tele.Context) error {
	return helpers.SendMD(c, mainMenuText, menu.Markup(menu.Main()))
}

func (a *App) cmdHelp(c tele.Context) error {
	var b strings.Builder
	b.WriteString("*Commands*\n\n")
	for _, cmd := range a.registry.ListCommands(true) {
		fmt.Fprintf(&b, "/%s — %s\n", cmd.Text, cmd.Description)
	}
	b.WriteString("\nYou can also record an expense by sending lines like:\n")
	b.WriteString("`Amount: 1500`\n`Description: Office supplies`\n`Date: 2025-12-14`")
	return helpers.SendMD(c, b.String(), menu.Markup(menu.Help()))
}

func (a *App) cmdStats(c tele.Context) error {
	stats, err := a.stats.Overall(helpers.Ctx(c))
	if err != nil {
		return helpers.SendMD(c, transientFailureText)
	}
	return helpers.SendMD(c, format.OverallStatsText(stats), menu.Markup(menu.Help()))
}

func (a *App) cmdProductByID(c tele.Context) error {
	id, ok := singleArg(c)
	if !ok {
		return helpers.SendMD(c, "Usage: `/product <id>`")
	}
	return a.sendProductCard(c, id)
}

func (a *App) cmdOrderByID(c tele.Context) error {
	id, ok := singleArg(c)
	if !ok {
		return helpers.SendMD(c, "Usage: `/order <id>`")
	}
	return a.sendOrderCard(c, id)
}

func (a *App) cmdExpenseByID(c tele.Context) error {
	id, ok := singleArg(c)
	if !ok {
		return helpers.SendMD(c, "Usage: `/expense <id>`")
	}
	return a.sendExpenseCard(c, id)
}

func (a *App) cmdDeleteExpense(c tele.Context) error {
	id, ok := singleArg(c)
	if !ok {
		return helpers.SendMD(c, "Usage: `/delete_expense <id>`")
	}
	e, err := a.expenses.Get(helpers.Ctx(c), id)
	if err != nil {
		return a.replyServiceError(c, err, "No expense with that id.")
	}
	text := "Delete this expense?\n\n" + format.ExpenseDetails(e)
	return helpers.SendMD(c, text, menu.Markup(menu.Confirm("delete_expense", id, "menu_expenses")))
}

func (a *App) cmdOrderStatus(c tele.Context) error {
	args := parser.SplitCommandArgs(c.Text())
	if len(args) != 2 {
		return helpers.SendMD(c, "Usage: `/order_status <id> <status>`")
	}
	o, err := a.orders.UpdateStatus(helpers.Ctx(c), args[0], args[1])
	if err != nil {
		return a.replyServiceError(c, err, "No order with that id.")
	}
	return helpers.SendMD(c, "✅ Status updated.\n\n"+format.OrderDetails(o))
}

func (a *App) cmdUpdateStock(c tele.Context) error {
	args := parser.SplitCommandArgs(c.Text())
	if len(args) != 2 {
		return helpers.SendMD(c, "Usage: `/update_stock <id> <quantity>`")
	}
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return helpers.SendMD(c, "Quantity must be a whole number.")
	}
	if err := a.products.UpdateStock(helpers.Ctx(c), args[0], qty); err != nil {
		return a.replyServiceError(c, err, "No product with that id.")
	}
	return helpers.SendMD(c, fmt.Sprintf("✅ Stock set to %d.", qty))
}

func (a *App) cmdLowStock(c tele.Context) error {
	items, err := a.products.LowStock(helpers.Ctx(c), 0)
	if err != nil {
		return helpers.SendMD(c, transientFailureText)
	}
	if len(items) == 0 {
		return helpers.SendMD(c, "All products are sufficiently stocked. 🎉")
	}
	var b strings.Builder
	b.WriteString("*Low stock*\n\n")
	for _, p := range items {
		fmt.Fprintf(&b, "• %s\n", format.ProductLine(p))
	}
	return helpers.SendMD(c, b.String(), menu.Markup(menu.Stock()))
}

// textFallback handles free text outside any conversation. A message
// with recognizable expense fields records an expense directly;
// anything else gets a nudge toward the menu.
func (a *App) textFallback(c tele.Context) error {
	fields := parser.ParseKeyValues(c.Text())
	if len(fields) == 0 {
		return helpers.SendMD(c, "I didn't catch that. Try /menu or /help.")
	}

	sender := c.Sender()
	paidBy := ""
	if sender != nil {
		paidBy = fmt.Sprintf("tg:%d", sender.ID)
	}
	e, err := a.expenses.ValidateAndCreate(helpers.Ctx(c), fields, paidBy)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			return helpers.SendMD(c, "⚠️ "+verr.Error())
		}
		return helpers.SendMD(c, transientFailureText)
	}
	return helpers.SendMD(c, "✅ Expense recorded.\n\n"+format.ExpenseDetails(e))
}

func (a *App) replyServiceError(c tele.Context, err error, notFoundText string) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return helpers.SendMD(c, notFoundText)
	case errors.Is(err, service.ErrInvalidTransition):
		return helpers.SendMD(c, "⚠️ "+err.Error())
	default:
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			return helpers.SendMD(c, "⚠️ "+verr.Error())
		}
		return helpers.SendMD(c, transientFailureText)
	}
}

func singleArg(c tele.Context) (string, bool) {
	args := parser.SplitCommandArgs(c.Text())
	if len(args) != 1 {
		return "", false
	}
	return args[0], true
}
