package validate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"kalaur/internal/domain"
)

// MaxQuantity is the largest quantity of one product a cart may hold.
// Larger requests are rejected at checkout, never reduced.
const MaxQuantity = 999

// MaxTimestamp is the last millisecond of year 9999.
const MaxTimestamp = 253402300799999

// number converts a decoded JSON value into a finite float. Strings are
// parsed the way a browser's Number() would for plain decimals.
func number(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		n, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, false
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Quantity floors a requested quantity with a minimum of 1. Missing or
// non-numeric input counts as 1. Values beyond int32 saturate so the
// caller can still reject them.
func Quantity(v any) int {
	f, ok := number(v)
	if !ok {
		return 1
	}
	f = math.Floor(f)
	if f < 1 {
		return 1
	}
	if f > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(f)
}

// NonNegativeInt truncates toward zero and rejects negatives.
func NonNegativeInt(v any) (int, bool) {
	f, ok := number(v)
	if !ok {
		return 0, false
	}
	f = math.Trunc(f)
	if f < 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// NonNegativeAmount accepts any finite value >= 0.
func NonNegativeAmount(v any) (float64, bool) {
	f, ok := number(v)
	if !ok || f < 0 {
		return 0, false
	}
	return f, true
}

// PositiveInt truncates and requires a result > 0.
func PositiveInt(v any) (int, bool) {
	f, ok := number(v)
	if !ok {
		return 0, false
	}
	f = math.Trunc(f)
	if f <= 0 || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Timestamp accepts epoch milliseconds in (0, MaxTimestamp].
func Timestamp(v any) (int64, bool) {
	f, ok := number(v)
	if !ok || f <= 0 || f > MaxTimestamp {
		return 0, false
	}
	return int64(f), true
}

// String accepts only string values that are non-empty after trimming.
// The trimmed value is returned.
func String(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// Text coerces strings and numbers to a trimmed string capped at max runes.
func Text(v any, max int) string {
	var s string
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		s = x
	case float64:
		s = strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		s = x.String()
	case bool:
		s = strconv.FormatBool(x)
	default:
		return ""
	}
	return Cap(strings.TrimSpace(s), max)
}

// Cap truncates s to at most max runes.
func Cap(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}

// Condition validates the part condition enum.
func Condition(v any) (domain.Condition, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	c := domain.Condition(s)
	return c, c.Valid()
}

// Year keeps plausible model years only.
func Year(v any) *int {
	f, ok := number(v)
	if !ok {
		return nil
	}
	y := int(math.Trunc(f))
	if y < 1900 || y > 2100 {
		return nil
	}
	return &y
}
