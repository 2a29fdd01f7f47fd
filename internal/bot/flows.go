package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	tele "gopkg.in/telebot.v4"

	"github.com/cozyberries/opsbot/core/telegram/helpers"
	"github.com/cozyberries/opsbot/core/telegram/state"
	"github.com/cozyberries/opsbot/internal/format"
	"github.com/cozyberries/opsbot/internal/menu"
	"github.com/cozyberries/opsbot/internal/parser"
	"github.com/cozyberries/opsbot/internal/schema"
	"github.com/cozyberries/opsbot/internal/service"
)

// FlowAddExpense names the expense creation conversation.
const FlowAddExpense = "add_expense"

const (
	stepAmount      state.Step = "amount"
	stepDescription state.Step = "description"
	stepDate        state.Step = "date"
	stepCategory    state.Step = "category"
)

// newExpenseFlow declares the add-expense conversation: amount,
// description, date, then persist with pending status. The date
// answer completes the flow; a category can be attached through the
// key-value message path instead.
func newExpenseFlow(expenses *service.Expenses) *state.Flow {
	return &state.Flow{
		Name: FlowAddExpense,
		Steps: []state.Step{
			stepAmount,
			stepDescription,
			stepDate,
		},
		Prompt: expensePrompt,
		Apply:  expenseApply,
		Finish: func(ctx context.Context, d *state.Draft) (string, error) {
			in := &schema.ExpenseInput{
				Amount:      d.Data[string(stepAmount)].(decimal.Decimal),
				Description: d.Data[string(stepDescription)].(string),
				PaidBy:      fmt.Sprintf("tg:%d", d.UserID),
			}
			in.Title = schema.Title(in.Description)
			in.Date = d.Data[string(stepDate)].(time.Time)

			e, err := expenses.Create(ctx, in)
			if err != nil {
				return "", err
			}
			return "✅ Expense recorded.\n\n" + format.ExpenseDetails(e), nil
		},
	}
}

func expensePrompt(step state.Step, _ *state.Draft) string {
	switch step {
	case stepAmount:
		return "💰 Adding a new expense.\n\nHow much was it? (e.g. 1500 or ₹2,500.00)\n\nSend /cancel to abort."
	case stepDescription:
		return "What was it for? (3–500 characters)"
	case stepDate:
		return "When was it? (YYYY-MM-DD, or `today`)"
	default:
		return ""
	}
}

func expenseApply(step state.Step, input string, d *state.Draft) error {
	input = strings.TrimSpace(input)
	switch step {
	case stepAmount:
		amount, err := parser.ParseAmount(input)
		if err != nil {
			return err
		}
		if !amount.IsPositive() {
			return fmt.Errorf("amount must be greater than zero")
		}
		if amount.GreaterThan(schema.MaxAmount) {
			return fmt.Errorf("amount must not exceed %s", schema.MaxAmount)
		}
		d.Data[string(stepAmount)] = amount

	case stepDescription:
		if len(input) < schema.DescriptionMin || len(input) > schema.DescriptionMax {
			return fmt.Errorf("description must be between %d and %d characters",
				schema.DescriptionMin, schema.DescriptionMax)
		}
		d.Data[string(stepDescription)] = input

	case stepDate:
		if strings.EqualFold(input, "today") {
			d.Data[string(stepDate)] = todayUTC()
			return nil
		}
		date, err := parser.ParseDate(input)
		if err != nil {
			return err
		}
		d.Data[string(stepDate)] = date
	}
	return nil
}

func todayUTC() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

// flowRunner adapts the state manager to the router's conversation
// hook and owns the flow related replies.
type flowRunner struct {
	manager *state.Manager
}

func newFlowRunner(manager *state.Manager) *flowRunner {
	return &flowRunner{manager: manager}
}

// Start begins a flow for the chat. It is the single entry point used
// by both the command and the menu button.
func (f *flowRunner) Start(c tele.Context, flowName string) error {
	return f.StartWith(c, flowName, nil)
}

// StartWith begins a flow with seeded draft data, used by item card
// buttons that bind the flow to a record.
func (f *flowRunner) StartWith(c tele.Context, flowName string, seed map[string]any) error {
	chat, sender := c.Chat(), c.Sender()
	if chat == nil || sender == nil {
		return nil
	}
	prompt, err := f.manager.StartWith(chat.ID, sender.ID, flowName, seed)
	if errors.Is(err, state.ErrFlowActive) {
		return helpers.SendMD(c, "You already have something in progress. Finish it or send /cancel first.")
	}
	if err != nil {
		return err
	}
	return helpers.SendMD(c, prompt)
}

// Active reports whether the chat has a running conversation.
func (f *flowRunner) Active(chatID int64) bool {
	return f.manager.Active(chatID)
}

// HandleText feeds a message into the chat's running conversation.
func (f *flowRunner) HandleText(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	reply, _, err := f.manager.HandleText(helpers.Ctx(c), chat.ID, c.Text())
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			return helpers.SendMD(c, "⚠️ "+verr.Error())
		}
		return helpers.SendMD(c, transientFailureText)
	}
	return helpers.SendMD(c, reply)
}

// Cancel aborts any running conversation; partial data is dropped.
func (f *flowRunner) Cancel(c tele.Context) error {
	chat := c.Chat()
	if chat == nil {
		return nil
	}
	if f.manager.Cancel(chat.ID) {
		return helpers.SendMD(c, "Cancelled, nothing was saved.", menu.Markup(menu.Main()))
	}
	return helpers.SendMD(c, "Nothing to cancel.", menu.Markup(menu.Main()))
}
