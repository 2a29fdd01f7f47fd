package schema

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cozyberries/opsbot/internal/parser"
)

var testNow = time.Date(2025, 12, 14, 15, 30, 0, 0, time.UTC)

func TestValidateExpenseHappyPath(t *testing.T) {
	t.Parallel()

	fields := map[string]string{
		parser.FieldAmount:      "₹2,500.00",
		parser.FieldDescription: "Office supplies",
		parser.FieldDate:        "2025-12-01",
		parser.FieldCategory:    "stationery",
	}
	in, err := ValidateExpense(fields, testNow)
	require.NoError(t, err)
	require.True(t, in.Amount.Equal(decimal.RequireFromString("2500")))
	require.Equal(t, "Office supplies", in.Description)
	require.Equal(t, "Office supplies", in.Title)
	require.Equal(t, "stationery", in.Category)
	require.Equal(t, time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC), in.Date)
}

func TestValidateExpenseMissingDateDefaultsToToday(t *testing.T) {
	t.Parallel()

	fields := map[string]string{
		parser.FieldAmount:      "100",
		parser.FieldDescription: "Tape",
	}
	in, err := ValidateExpense(fields, testNow)
	require.NoError(t, err)
	require.Equal(t, testNow.Truncate(24*time.Hour), in.Date)
}

func TestValidateExpenseCollectsAllViolations(t *testing.T) {
	t.Parallel()

	fields := map[string]string{
		parser.FieldAmount:      "-5",
		parser.FieldDescription: "ab",
		parser.FieldDate:        "someday",
	}
	_, err := ValidateExpense(fields, testNow)
	require.Error(t, err)

	verr, ok := err.(*ValidationError)
	require.True(t, ok)
	require.Len(t, verr.Fields, 3)
	require.Contains(t, err.Error(), "amount")
	require.Contains(t, err.Error(), "description")
	require.Contains(t, err.Error(), "date")
}

func TestValidateExpenseBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields map[string]string
		field  string
	}{
		{
			name: "amount over cap",
			fields: map[string]string{
				parser.FieldAmount:      "10000001",
				parser.FieldDescription: "big purchase",
			},
			field: "amount",
		},
		{
			name: "description too long",
			fields: map[string]string{
				parser.FieldAmount:      "10",
				parser.FieldDescription: strings.Repeat("x", DescriptionMax+1),
			},
			field: "description",
		},
		{
			name: "missing amount",
			fields: map[string]string{
				parser.FieldDescription: "pens",
			},
			field: "amount",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ValidateExpense(tt.fields, testNow)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestTitleTruncation(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("d", TitleMax+50)
	require.Len(t, Title(long), TitleMax)
	require.Equal(t, "short", Title("short"))
}

func TestValidateProduct(t *testing.T) {
	t.Parallel()

	in, err := ValidateProduct(ProductInput{
		Name:  "  Baby Blanket  ",
		Price: decimal.RequireFromString("499.00"),
		Stock: 25,
	})
	require.NoError(t, err)
	require.Equal(t, "Baby Blanket", in.Name)

	_, err = ValidateProduct(ProductInput{
		Name:  "x",
		Price: decimal.Zero,
		Stock: -1,
	})
	require.Error(t, err)
	verr := err.(*ValidationError)
	require.Len(t, verr.Fields, 3)
}

func TestValidateQuantity(t *testing.T) {
	t.Parallel()

	require.NoError(t, ValidateQuantity(0))
	require.NoError(t, ValidateQuantity(QuantityMax))
	require.Error(t, ValidateQuantity(-1))
	require.Error(t, ValidateQuantity(QuantityMax+1))
}

func TestValidateOrderStatus(t *testing.T) {
	t.Parallel()

	got, err := ValidateOrderStatus(" Shipped ")
	require.NoError(t, err)
	require.Equal(t, "shipped", got)

	_, err = ValidateOrderStatus("teleported")
	require.Error(t, err)
}

func TestSlug(t *testing.T) {
	t.Parallel()

	require.Equal(t, "baby-blanket", Slug("Baby Blanket"))
	require.Equal(t, "organic-cotton-onesie-0-3m", Slug("Organic Cotton Onesie (0-3m)"))
	require.Equal(t, "a1", Slug("  A1!  "))
}
