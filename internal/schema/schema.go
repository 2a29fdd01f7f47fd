// Package schema validates raw field sets into typed inputs. A failed
// validation reports every violated field at once so the user can fix
// the whole message in one edit.
package schema

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cozyberries/opsbot/internal/models"
	"github.com/cozyberries/opsbot/internal/parser"
)

const (
	DescriptionMin = 3
	DescriptionMax = 500
	TitleMax       = 100
	NameMin        = 2
	NameMax        = 200
	QuantityMax    = 1_000_000
)

// MaxAmount bounds any money field.
var MaxAmount = decimal.NewFromInt(10_000_000)

// FieldError is one violated rule.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError carries every violated field with its reason.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Reason))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Reason: reason})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	sort.SliceStable(e.Fields, func(i, j int) bool { return e.Fields[i].Field < e.Fields[j].Field })
	return e
}

// ExpenseInput is a validated expense ready for storage.
type ExpenseInput struct {
	Title       string
	Description string
	Amount      decimal.Decimal
	Category    string
	Date        time.Time
	PaidBy      string
}

// ValidateExpense builds an ExpenseInput from raw parsed fields. A
// missing date defaults to today at validation time.
func ValidateExpense(fields map[string]string, now time.Time) (*ExpenseInput, error) {
	verr := &ValidationError{}
	in := &ExpenseInput{}

	rawAmount, ok := fields[parser.FieldAmount]
	if !ok {
		verr.add("amount", "is required")
	} else if amount, err := parser.ParseAmount(rawAmount); err != nil {
		verr.add("amount", err.Error())
	} else if !amount.IsPositive() {
		verr.add("amount", "must be greater than zero")
	} else if amount.GreaterThan(MaxAmount) {
		verr.add("amount", fmt.Sprintf("must not exceed %s", MaxAmount))
	} else {
		in.Amount = amount
	}

	desc := strings.TrimSpace(fields[parser.FieldDescription])
	if desc == "" {
		verr.add("description", "is required")
	} else if len(desc) < DescriptionMin || len(desc) > DescriptionMax {
		verr.add("description", fmt.Sprintf("must be between %d and %d characters", DescriptionMin, DescriptionMax))
	} else {
		in.Description = desc
		in.Title = Title(desc)
	}

	if rawDate, ok := fields[parser.FieldDate]; ok {
		date, err := parser.ParseDate(rawDate)
		if err != nil {
			verr.add("date", err.Error())
		} else {
			in.Date = date
		}
	} else {
		in.Date = now.Truncate(24 * time.Hour)
	}

	in.Category = strings.TrimSpace(fields[parser.FieldCategory])

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	return in, nil
}

// Title derives the stored expense title from a description.
func Title(description string) string {
	runes := []rune(description)
	if len(runes) <= TitleMax {
		return description
	}
	return string(runes[:TitleMax])
}

// ProductInput is a validated product ready for storage.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
}

// ValidateProduct checks product fields.
func ValidateProduct(in ProductInput) (*ProductInput, error) {
	verr := &ValidationError{}

	name := strings.TrimSpace(in.Name)
	if len(name) < NameMin || len(name) > NameMax {
		verr.add("name", fmt.Sprintf("must be between %d and %d characters", NameMin, NameMax))
	}
	if !in.Price.IsPositive() {
		verr.add("price", "must be greater than zero")
	} else if in.Price.GreaterThan(MaxAmount) {
		verr.add("price", fmt.Sprintf("must not exceed %s", MaxAmount))
	}
	if err := ValidateQuantity(in.Stock); err != nil {
		verr.add("stock", err.Error())
	}

	if err := verr.orNil(); err != nil {
		return nil, err
	}
	out := in
	out.Name = name
	out.Description = strings.TrimSpace(in.Description)
	out.Category = strings.TrimSpace(in.Category)
	return &out, nil
}

// ValidateQuantity bounds a stock count.
func ValidateQuantity(qty int) error {
	if qty < 0 {
		return fmt.Errorf("must not be negative")
	}
	if qty > QuantityMax {
		return fmt.Errorf("must not exceed %d", QuantityMax)
	}
	return nil
}

// ValidateOrderStatus checks a status string against the known set.
func ValidateOrderStatus(status string) (string, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.IsOrderStatus(status) {
		return "", fmt.Errorf("unknown status %q (one of %s)", status, strings.Join(models.OrderStatuses, ", "))
	}
	return status, nil
}

// Slug derives a URL safe slug from a product name.
func Slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
