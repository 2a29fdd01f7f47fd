package bot

import (
	"fmt"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/telegram/callbacks"
	"github.com/cozyberries/opsbot/core/telegram/helpers"
	"github.com/cozyberries/opsbot/internal/action"
	"github.com/cozyberries/opsbot/internal/format"
	"github.com/cozyberries/opsbot/internal/menu"
	"github.com/cozyberries/opsbot/internal/models"
	"github.com/cozyberries/opsbot/internal/service"
)

func (a *App) registerCallbacks() {
	reg := a.registry

	reg.RegisterCallback("menu", a.cbMenu)
	reg.RegisterCallback("page", a.cbPage)
	reg.RegisterCallback("list_all", a.cbListAll)
	reg.RegisterCallback("create", a.cbCreate)
	reg.RegisterCallback("details", a.cbDetails)
	reg.RegisterCallback("edit", a.cbEdit)
	reg.RegisterCallback("stock", a.cbStock)
	reg.RegisterCallback("delete", a.cbDelete)
	reg.RegisterCallback("approve", a.cbApprove)
	reg.RegisterCallback("reject", a.cbReject)
	reg.RegisterCallback("order_status", a.cbOrderStatus)
	reg.RegisterCallback("order_filter", a.cbOrderFilter)
	reg.RegisterCallback("expense_stats", a.cbExpenseStats)
	reg.RegisterCallback("confirm", a.cbConfirm)
	reg.RegisterCallback("start_flow", a.cbStartFlow)
	reg.RegisterCallback("flow_cancel", a.cbFlowCancel)
	reg.RegisterCallback("noop", func(c tele.Context) error {
		helpers.Answer(c, "")
		return nil
	})

	// Unknown actions are already logged by the router; the user only
	// sees the spinner stop.
	reg.SetCallbackNotFound(func(c tele.Context) error {
		helpers.Answer(c, "")
		return nil
	})
}

func parsed(c tele.Context) action.Action {
	return action.Parse(callbacks.Data(c))
}

func (a *App) cbMenu(c tele.Context) error {
	helpers.Answer(c, "")
	return a.showMenu(c, parsed(c).Entity)
}

// showMenu renders one menu screen, shared by the slash commands and
// the navigation buttons.
func (a *App) showMenu(c tele.Context, screen string) error {
	switch screen {
	case action.MenuMain:
		return helpers.EditOrSendMD(c, mainMenuText, menu.Markup(menu.Main()))
	case action.MenuProducts:
		return helpers.EditOrSendMD(c, "🛍 *Products*", menu.Markup(menu.Products()))
	case action.MenuOrders:
		return helpers.EditOrSendMD(c, "📦 *Orders*", menu.Markup(menu.Orders()))
	case action.MenuExpenses:
		return helpers.EditOrSendMD(c, "💰 *Expenses*", menu.Markup(menu.Expenses()))
	case action.MenuStock:
		return a.showStockScreen(c)
	case action.MenuHelp:
		return a.cmdHelp(c)
	default:
		return helpers.EditOrSendMD(c, mainMenuText, menu.Markup(menu.Main()))
	}
}

// showStockScreen summarizes low stock inline rather than behind
// another tap.
func (a *App) showStockScreen(c tele.Context) error {
	items, err := a.products.LowStock(helpers.Ctx(c), 0)
	if err != nil {
		return helpers.EditOrSendMD(c, transientFailureText)
	}
	var b strings.Builder
	b.WriteString("📊 *Stock*\n\n")
	if len(items) == 0 {
		b.WriteString("All products are sufficiently stocked. 🎉")
	} else {
		fmt.Fprintf(&b, "%d product(s) low on stock:\n\n", len(items))
		for _, p := range items {
			fmt.Fprintf(&b, "• %s\n", format.ProductLine(p))
		}
	}
	return helpers.EditOrSendMD(c, b.String(), menu.Markup(menu.Stock()))
}

func (a *App) cbPage(c tele.Context) error {
	act := parsed(c)
	helpers.Answer(c, "")
	return a.showListPage(c, act.Entity, act.Page, "")
}

func (a *App) cbListAll(c tele.Context) error {
	act := parsed(c)
	helpers.Answer(c, "")
	// One oversized page; browsing beyond it goes through pagination.
	return a.showListPage(c, act.Entity, 0, "")
}

func (a *App) cbOrderFilter(c tele.Context) error {
	act := parsed(c)
	helpers.Answer(c, "")
	return a.showListPage(c, action.EntityOrder, 0, act.Status)
}

// showListPage renders page (0 based) of an entity list: header,
// per item detail buttons, pagination row and a back button.
func (a *App) showListPage(c tele.Context, entity string, page int, statusFilter string) error {
	ctx := helpers.Ctx(c)
	limit := service.DefaultPageSize
	offset := page * limit

	var (
		title   string
		back    string
		lines   []menu.Button
		meta    models.ListMeta
		listErr error
	)

	switch entity {
	case action.EntityProduct:
		title, back = "Products", "menu_products"
		var items []models.Product
		items, meta, listErr = a.products.List(ctx, limit, offset)
		for _, p := range items {
			lines = append(lines, menu.Button{
				Label:  fmt.Sprintf("%s · %s", format.Truncate(p.Name, 24), format.Currency(p.Price)),
				Action: "product_details_" + p.ID.String(),
			})
		}
	case action.EntityOrder:
		title, back = "Orders", "menu_orders"
		if statusFilter != "" {
			title = "Orders · " + statusFilter
		}
		var items []models.Order
		items, meta, listErr = a.orders.List(ctx, limit, offset, statusFilter)
		for _, o := range items {
			lines = append(lines, menu.Button{
				Label:  fmt.Sprintf("%s · %s", format.Truncate(o.Customer, 20), format.Currency(o.Total)),
				Action: "order_details_" + o.ID.String(),
			})
		}
	case action.EntityExpense:
		title, back = "Expenses", "menu_expenses"
		var items []models.Expense
		items, meta, listErr = a.expenses.List(ctx, limit, offset)
		for _, e := range items {
			lines = append(lines, menu.Button{
				Label:  fmt.Sprintf("%s · %s", format.Truncate(e.Title, 24), format.Currency(e.Amount)),
				Action: "expense_details_" + e.ID.String(),
			})
		}
	default:
		helpers.Answer(c, "")
		return nil
	}

	if listErr != nil {
		return helpers.EditOrSendMD(c, transientFailureText)
	}

	rows := make([][]menu.Button, 0, len(lines)+2)
	for _, b := range lines {
		rows = append(rows, []menu.Button{b})
	}
	if statusFilter == "" {
		if totalPages := menu.TotalPages(meta.Total, limit); totalPages > 1 {
			rows = append(rows, menu.Pagination(entity+"s", page, totalPages))
		}
	}
	rows = append(rows, []menu.Button{{Label: "⬅️ Back", Action: back}})

	return helpers.EditOrSendMD(c, format.ListHeader(title, meta), menu.Markup(rows))
}

func (a *App) cbCreate(c tele.Context) error {
	act := parsed(c)
	helpers.Answer(c, "")
	switch act.Entity {
	case action.EntityExpense:
		return a.flows.Start(c, FlowAddExpense)
	case action.EntityProduct:
		return a.flows.Start(c, FlowAddProduct)
	default:
		return helpers.SendMD(c, "Orders are created by the storefront, not from here.")
	}
}

func (a *App) cbDetails(c tele.Context) error {
	act := parsed(c)
	helpers.Answer(c, "")
	switch act.Entity {
	case action.EntityProduct:
		return a.sendProductCard(c, act.ID)
	case action.EntityOrder:
		return a.sendOrderCard(c, act.ID)
	case action.EntityExpense:
		return a.sendExpenseCard(c, act.ID)
	}
	return nil
}

func (a *App) sendProductCard(c tele.Context, id string) error {
	p, err := a.products.Get(helpers.Ctx(c), id)
	if err != nil {
		return a.replyServiceError(c, err, "No product with that id.")
	}
	rows := menu.ItemActions(action.EntityProduct, id, "menu_products")
	return helpers.EditOrSendMD(c, format.ProductDetails(p), menu.Markup(rows))
}

func (a *App) sendOrderCard(c tele.Context, id string) error {
	o, err := a.orders.Get(helpers.Ctx(c), id)
	if err != nil {
		return a.replyServiceError(c, err, "No order with that id.")
	}
	var rows [][]menu.Button
	if statusRow := menu.OrderStatusActions(id, o.Status); len(statusRow) > 0 {
		rows = append(rows, statusRow)
	}
	rows = append(rows, menu.ItemActions(action.EntityOrder, id, "menu_orders")...)
	return helpers.EditOrSendMD(c, format.OrderDetails(o), menu.Markup(rows))
}

func (a *App) sendExpenseCard(c tele.Context, id string) error {
	e, err := a.expenses.Get(helpers.Ctx(c), id)
	if err != nil {
		return a.replyServiceError(c, err, "No expense with that id.")
	}
	rows := menu.ItemActions(action.EntityExpense, id, "menu_expenses")
	return helpers.EditOrSendMD(c, format.ExpenseDetails(e), menu.Markup(rows))
}

func (a *App) cbEdit(c tele.Context) error {
	act := parsed(c)
	helpers.Answer(c, "")
	return a.flows.StartWith(c, FlowEditProduct, map[string]any{seedProductID: act.ID})
}

func (a *App) cbStock(c tele.Context) error {
	act := parsed(c)
	helpers.Answer(c, "")
	return a.flows.StartWith(c, FlowSetStock, map[string]any{seedProductID: act.ID})
}

// cbDelete renders the confirmation screen; the destructive call only
// happens from the confirm action.
func (a *App) cbDelete(c tele.Context) error {
	act := parsed(c)
	helpers.Answer(c, "")
	back := "menu_" + act.Entity + "s"
	text := fmt.Sprintf("Delete this %s? This cannot be undone.", act.Entity)
	return helpers.EditOrSendMD(c, text, menu.Markup(menu.Confirm("delete_"+act.Entity, act.ID, back)))
}

func (a *App) cbConfirm(c tele.Context) error {
	act := parsed(c)
	ctx := helpers.Ctx(c)
	switch act.Verb {
	case "delete_expense":
		e, err := a.expenses.Delete(ctx, act.ID)
		if err != nil {
			helpers.Answer(c, "")
			return a.replyServiceError(c, err, "No expense with that id.")
		}
		helpers.Answer(c, "Deleted")
		msg := fmt.Sprintf("🗑 Deleted expense *%s* (%s).", e.Title, format.Currency(e.Amount))
		return helpers.EditOrSendMD(c, msg, menu.Markup(menu.Expenses()))
	case "delete_product":
		if err := a.products.Delete(ctx, act.ID); err != nil {
			helpers.Answer(c, "")
			return a.replyServiceError(c, err, "No product with that id.")
		}
		helpers.Answer(c, "Deleted")
		return helpers.EditOrSendMD(c, "🗑 Product deleted.", menu.Markup(menu.Products()))
	case "delete_order":
		if err := a.orders.Delete(ctx, act.ID); err != nil {
			helpers.Answer(c, "")
			return a.replyServiceError(c, err, "No order with that id.")
		}
		helpers.Answer(c, "Deleted")
		return helpers.EditOrSendMD(c, "🗑 Order deleted.", menu.Markup(menu.Orders()))
	default:
		helpers.Answer(c, "")
		return nil
	}
}

func (a *App) cbApprove(c tele.Context) error {
	act := parsed(c)
	if err := a.expenses.Approve(helpers.Ctx(c), act.ID); err != nil {
		helpers.Answer(c, "")
		return a.replyServiceError(c, err, "No expense with that id.")
	}
	helpers.Answer(c, "Approved")
	return a.sendExpenseCard(c, act.ID)
}

func (a *App) cbReject(c tele.Context) error {
	act := parsed(c)
	if err := a.expenses.Reject(helpers.Ctx(c), act.ID); err != nil {
		helpers.Answer(c, "")
		return a.replyServiceError(c, err, "No expense with that id.")
	}
	helpers.Answer(c, "Rejected")
	return a.sendExpenseCard(c, act.ID)
}

func (a *App) cbOrderStatus(c tele.Context) error {
	act := parsed(c)
	if _, err := a.orders.UpdateStatus(helpers.Ctx(c), act.ID, act.Status); err != nil {
		helpers.Answer(c, "")
		return a.replyServiceError(c, err, "No order with that id.")
	}
	helpers.Answer(c, "Updated")
	return a.sendOrderCard(c, act.ID)
}

func (a *App) cbExpenseStats(c tele.Context) error {
	helpers.Answer(c, "")
	stats, err := a.expenses.Stats(helpers.Ctx(c))
	if err != nil {
		return helpers.EditOrSendMD(c, transientFailureText)
	}
	return helpers.EditOrSendMD(c, format.ExpenseStatsText(stats), menu.Markup(menu.Expenses()))
}

func (a *App) cbStartFlow(c tele.Context) error {
	act := parsed(c)
	helpers.Answer(c, "")
	return a.flows.Start(c, act.Flow)
}

func (a *App) cbFlowCancel(c tele.Context) error {
	helpers.Answer(c, "")
	return a.flows.Cancel(c)
}
