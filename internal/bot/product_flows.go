package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cozyberries/opsbot/core/telegram/state"
	"github.com/cozyberries/opsbot/internal/format"
	"github.com/cozyberries/opsbot/internal/parser"
	"github.com/cozyberries/opsbot/internal/schema"
	"github.com/cozyberries/opsbot/internal/service"
)

// Conversation names for the catalog flows.
const (
	FlowAddProduct  = "add_product"
	FlowEditProduct = "edit_product"
	FlowSetStock    = "set_stock"
)

const (
	stepName     state.Step = "name"
	stepPrice    state.Step = "price"
	stepStock    state.Step = "stock"
	stepQuantity state.Step = "quantity"

	// seedProductID is the draft key carrying the target product id
	// for flows started from an item card.
	seedProductID = "product_id"
)

func productPrompt(step state.Step, _ *state.Draft) string {
	switch step {
	case stepName:
		return "🛍 Product name? (2–200 characters)\n\nSend /cancel to abort."
	case stepPrice:
		return "Price? (e.g. 499 or ₹1,299.00)"
	case stepStock:
		return "Stock quantity?"
	case stepCategory:
		return "Category? (send `skip` or `-` for none)"
	default:
		return ""
	}
}

func productApply(step state.Step, input string, d *state.Draft) error {
	input = strings.TrimSpace(input)
	switch step {
	case stepName:
		if len(input) < schema.NameMin || len(input) > schema.NameMax {
			return fmt.Errorf("name must be between %d and %d characters", schema.NameMin, schema.NameMax)
		}
		d.Data[string(stepName)] = input

	case stepPrice:
		price, err := parser.ParseAmount(input)
		if err != nil {
			return err
		}
		if !price.IsPositive() {
			return fmt.Errorf("price must be greater than zero")
		}
		if price.GreaterThan(schema.MaxAmount) {
			return fmt.Errorf("price must not exceed %s", schema.MaxAmount)
		}
		d.Data[string(stepPrice)] = price

	case stepStock, stepQuantity:
		qty, err := strconv.Atoi(input)
		if err != nil {
			return fmt.Errorf("quantity %q is not a whole number", input)
		}
		if err := schema.ValidateQuantity(qty); err != nil {
			return fmt.Errorf("quantity %s", err)
		}
		d.Data[string(step)] = qty

	case stepCategory:
		if strings.EqualFold(input, "skip") || input == "-" {
			d.Data[string(stepCategory)] = ""
			return nil
		}
		d.Data[string(stepCategory)] = input
	}
	return nil
}

func productInputFromDraft(d *state.Draft) schema.ProductInput {
	in := schema.ProductInput{
		Name:  d.Data[string(stepName)].(string),
		Price: d.Data[string(stepPrice)].(decimal.Decimal),
		Stock: d.Data[string(stepStock)].(int),
	}
	if cat, ok := d.Data[string(stepCategory)].(string); ok {
		in.Category = cat
	}
	return in
}

// newAddProductFlow declares the product creation conversation.
func newAddProductFlow(products *service.Products) *state.Flow {
	return &state.Flow{
		Name:   FlowAddProduct,
		Steps:  []state.Step{stepName, stepPrice, stepStock, stepCategory},
		Prompt: productPrompt,
		Apply:  productApply,
		Finish: func(ctx context.Context, d *state.Draft) (string, error) {
			p, err := products.Create(ctx, productInputFromDraft(d))
			if err != nil {
				return "", err
			}
			return "✅ Product added.\n\n" + format.ProductDetails(p), nil
		},
	}
}

// newEditProductFlow declares the product edit conversation. The
// draft is seeded with the target product id.
func newEditProductFlow(products *service.Products) *state.Flow {
	return &state.Flow{
		Name:   FlowEditProduct,
		Steps:  []state.Step{stepName, stepPrice, stepStock, stepCategory},
		Prompt: productPrompt,
		Apply:  productApply,
		Finish: func(ctx context.Context, d *state.Draft) (string, error) {
			id := d.Data[seedProductID].(string)
			p, err := products.Update(ctx, id, productInputFromDraft(d))
			if err != nil {
				return "", err
			}
			return "✅ Product updated.\n\n" + format.ProductDetails(p), nil
		},
	}
}

// newSetStockFlow declares the single step stock adjustment
// conversation, seeded with the target product id.
func newSetStockFlow(products *service.Products) *state.Flow {
	return &state.Flow{
		Name:  FlowSetStock,
		Steps: []state.Step{stepQuantity},
		Prompt: func(step state.Step, _ *state.Draft) string {
			return "📊 New stock quantity?\n\nSend /cancel to abort."
		},
		Apply: productApply,
		Finish: func(ctx context.Context, d *state.Draft) (string, error) {
			id := d.Data[seedProductID].(string)
			qty := d.Data[string(stepQuantity)].(int)
			if err := products.UpdateStock(ctx, id, qty); err != nil {
				return "", err
			}
			return fmt.Sprintf("✅ Stock updated to %d.", qty), nil
		},
	}
}
