// Package action parses the opaque callback identifiers carried by
// inline buttons. The string convention is the wire format between
// the menu builder and the router and is preserved bit for bit;
// parsing happens once at the router boundary and produces a tagged
// Action so handlers switch on a kind instead of prefix matching
// strings.
package action

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the parsed action variant.
type Kind int

const (
	KindUnknown Kind = iota
	KindMenu
	KindListAll
	KindPage
	KindCreate
	KindDetails
	KindEdit
	KindStock
	KindDelete
	KindApprove
	KindReject
	KindOrderStatus
	KindOrderFilter
	KindExpenseStats
	KindConfirm
	KindStartFlow
	KindFlowCancel
	KindNoop
)

var kindNames = map[Kind]string{
	KindUnknown:      "unknown",
	KindMenu:         "menu",
	KindListAll:      "list_all",
	KindPage:         "page",
	KindCreate:       "create",
	KindDetails:      "details",
	KindEdit:         "edit",
	KindStock:        "stock",
	KindDelete:       "delete",
	KindApprove:      "approve",
	KindReject:       "reject",
	KindOrderStatus:  "order_status",
	KindOrderFilter:  "order_filter",
	KindExpenseStats: "expense_stats",
	KindConfirm:      "confirm",
	KindStartFlow:    "start_flow",
	KindFlowCancel:   "flow_cancel",
	KindNoop:         "noop",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Entities understood by the convention, singular form.
const (
	EntityProduct = "product"
	EntityOrder   = "order"
	EntityExpense = "expense"
)

var entities = map[string]bool{
	EntityProduct: true,
	EntityOrder:   true,
	EntityExpense: true,
}

// Menu screen names.
const (
	MenuMain     = "main"
	MenuProducts = "products"
	MenuOrders   = "orders"
	MenuExpenses = "expenses"
	MenuStock    = "stock"
	MenuHelp     = "help"
)

var menus = map[string]bool{
	MenuMain:     true,
	MenuProducts: true,
	MenuOrders:   true,
	MenuExpenses: true,
	MenuStock:    true,
	MenuHelp:     true,
}

// Action is the parsed form of one callback identifier. Fields beyond
// Kind are populated per variant: Entity for entity scoped actions,
// ID for item actions, Page for pagination, Status for order status
// actions and filters, Verb for confirmations, Flow for flow starts.
type Action struct {
	Kind   Kind
	Entity string
	ID     string
	Page   int
	Status string
	Verb   string
	Flow   string

	// Raw keeps the identifier exactly as received.
	Raw string
}

// Key returns the dispatch key handlers register under.
func (a Action) Key() string {
	return a.Kind.String()
}

// Parse decodes one callback identifier. Unrecognized input yields
// KindUnknown, never an error; the router logs and drops those.
func Parse(data string) Action {
	a := Action{Kind: KindUnknown, Raw: data}

	switch data {
	case "noop":
		a.Kind = KindNoop
		return a
	case "flow_cancel":
		a.Kind = KindFlowCancel
		return a
	case "start_add_expense":
		a.Kind = KindStartFlow
		a.Flow = "add_expense"
		return a
	case "expenses_stats":
		a.Kind = KindExpenseStats
		return a
	}

	if name, ok := strings.CutPrefix(data, "menu_"); ok {
		if menus[name] {
			a.Kind = KindMenu
			a.Entity = name
		}
		return a
	}

	if rest, ok := strings.CutPrefix(data, "confirm_"); ok {
		idx := strings.LastIndex(rest, "_")
		if idx <= 0 || idx == len(rest)-1 {
			return a
		}
		a.Kind = KindConfirm
		a.Verb = rest[:idx]
		a.ID = rest[idx+1:]
		return a
	}

	if rest, ok := strings.CutPrefix(data, "order_status_"); ok {
		idx := strings.LastIndex(rest, "_")
		if idx <= 0 || idx == len(rest)-1 {
			return a
		}
		a.Kind = KindOrderStatus
		a.Entity = EntityOrder
		a.ID = rest[:idx]
		a.Status = rest[idx+1:]
		return a
	}

	if status, ok := strings.CutPrefix(data, "order_filter_"); ok {
		if status == "" {
			return a
		}
		a.Kind = KindOrderFilter
		a.Entity = EntityOrder
		a.Status = status
		return a
	}

	// Plural entity collections: {entity}s_list_all, {entity}s_page_{n},
	// {entity}s_create.
	for entity := range entities {
		plural := entity + "s_"
		rest, ok := strings.CutPrefix(data, plural)
		if !ok {
			continue
		}
		switch {
		case rest == "list_all":
			a.Kind = KindListAll
			a.Entity = entity
		case rest == "create":
			a.Kind = KindCreate
			a.Entity = entity
		case strings.HasPrefix(rest, "page_"):
			page, err := strconv.Atoi(strings.TrimPrefix(rest, "page_"))
			if err != nil || page < 0 {
				return a
			}
			a.Kind = KindPage
			a.Entity = entity
			a.Page = page
		}
		return a
	}

	// Singular item actions: {entity}_details_{id}, {entity}_delete_{id},
	// product_edit_{id}, product_stock_{id}, expense_approve_{id},
	// expense_reject_{id}.
	for entity := range entities {
		rest, ok := strings.CutPrefix(data, entity+"_")
		if !ok {
			continue
		}
		verb, id, found := strings.Cut(rest, "_")
		if !found || id == "" {
			return a
		}
		switch {
		case verb == "details":
			a.Kind = KindDetails
		case verb == "delete":
			a.Kind = KindDelete
		case verb == "edit" && entity == EntityProduct:
			a.Kind = KindEdit
		case verb == "stock" && entity == EntityProduct:
			a.Kind = KindStock
		case verb == "approve" && entity == EntityExpense:
			a.Kind = KindApprove
		case verb == "reject" && entity == EntityExpense:
			a.Kind = KindReject
		default:
			return a
		}
		a.Entity = entity
		a.ID = id
		return a
	}

	return a
}

// String rebuilds the wire identifier for a well formed Action.
func (a Action) String() string {
	switch a.Kind {
	case KindNoop:
		return "noop"
	case KindFlowCancel:
		return "flow_cancel"
	case KindStartFlow:
		return "start_" + a.Flow
	case KindExpenseStats:
		return "expenses_stats"
	case KindMenu:
		return "menu_" + a.Entity
	case KindListAll:
		return a.Entity + "s_list_all"
	case KindCreate:
		return a.Entity + "s_create"
	case KindPage:
		return fmt.Sprintf("%ss_page_%d", a.Entity, a.Page)
	case KindDetails:
		return a.Entity + "_details_" + a.ID
	case KindEdit:
		return a.Entity + "_edit_" + a.ID
	case KindStock:
		return a.Entity + "_stock_" + a.ID
	case KindDelete:
		return a.Entity + "_delete_" + a.ID
	case KindApprove:
		return a.Entity + "_approve_" + a.ID
	case KindReject:
		return a.Entity + "_reject_" + a.ID
	case KindOrderStatus:
		return "order_status_" + a.ID + "_" + a.Status
	case KindOrderFilter:
		return "order_filter_" + a.Status
	case KindConfirm:
		return "confirm_" + a.Verb + "_" + a.ID
	default:
		return a.Raw
	}
}

// KeyFor is the callback router hook: it maps raw payloads to the
// dispatch key in one parse.
func KeyFor(data string) string {
	return Parse(data).Key()
}
