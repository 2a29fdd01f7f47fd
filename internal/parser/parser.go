// Package parser turns free form admin messages into raw field sets.
// Messages carry one "Label: value" pair per line; each canonical
// field accepts a fixed list of label aliases. Everything here works
// on strings, typed validation lives in the schema package.
package parser

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Canonical field names produced by ParseKeyValues.
const (
	FieldAmount      = "amount"
	FieldDescription = "description"
	FieldDate        = "date"
	FieldCategory    = "category"
)

var fieldAliases = map[string]string{
	"amount": FieldAmount,
	"amt":    FieldAmount,
	"price":  FieldAmount,
	"cost":   FieldAmount,
	"total":  FieldAmount,

	"description": FieldDescription,
	"desc":        FieldDescription,
	"detail":      FieldDescription,
	"details":     FieldDescription,
	"title":       FieldDescription,

	"date":             FieldDate,
	"transaction date": FieldDate,
	"expense date":     FieldDate,
	"when":             FieldDate,

	"category": FieldCategory,
	"cat":      FieldCategory,
	"type":     FieldCategory,
	"tag":      FieldCategory,
}

// dateFormats are tried in order; the first successful parse wins.
var dateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2006/01/02",
}

var currencyStripper = strings.NewReplacer(
	"₹", "",
	"$", "",
	"€", "",
	"£", "",
	",", "",
	" ", "",
)

// ParseKeyValues extracts canonical field values from multi line
// "Label: value" text. Lines with unrecognized labels or no colon are
// skipped, not errors. When a field repeats, the last line wins.
func ParseKeyValues(text string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(text, "\n") {
		label, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		canonical, known := fieldAliases[strings.ToLower(strings.TrimSpace(label))]
		if !known {
			continue
		}
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		fields[canonical] = value
	}
	return fields
}

// ParseAmount parses a money value, tolerating currency symbols and
// thousands separators ("₹2,500.00" parses as 2500.00).
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := currencyStripper.Replace(strings.TrimSpace(raw))
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("amount %q is not a number", raw)
	}
	return d, nil
}

// ParseDate parses a date in one of the accepted formats.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q is not in a recognized format (try YYYY-MM-DD)", raw)
}

// SplitCommandArgs splits "/command arg1 arg2" into its arguments,
// dropping the command itself.
func SplitCommandArgs(text string) []string {
	parts := strings.Fields(strings.TrimSpace(text))
	if len(parts) <= 1 {
		return nil
	}
	return parts[1:]
}
