package pipeline

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// coerceAmount turns a model-provided amount value into a decimal.
// Thousands separators are stripped before parsing; a missing or
// unparsable value becomes zero, never an error.
func coerceAmount(v interface{}) decimal.Decimal {
	switch val := v.(type) {
	case nil:
		return decimal.Zero
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		return parseAmountString(val)
	default:
		return parseAmountString(fmt.Sprint(val))
	}
}

func parseAmountString(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// stringField reads a string-valued key. Missing and null values become the
// empty string; non-string scalars are stringified rather than dropped.
func stringField(obj map[string]interface{}, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
