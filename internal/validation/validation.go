package validation

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Violations maps a field name to a human-readable reason.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Error renders the violations in a stable order.
func (v Violations) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return strings.Join(parts, "; ")
}

// Basic validators. Each records at most one reason per field; the first
// failing check wins.

func Required(field, value string, v Violations) bool {
	if strings.TrimSpace(value) == "" {
		v[field] = "is required"
		return false
	}
	return true
}

func Length(field, value string, minLen, maxLen int, v Violations) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	switch {
	case n < minLen:
		v[field] = "must be at least " + strconv.Itoa(minLen) + " characters"
		return false
	case maxLen > 0 && n > maxLen:
		v[field] = "must be at most " + strconv.Itoa(maxLen) + " characters"
		return false
	}
	return true
}

func Digits(field, value string, v Violations) bool {
	if value == "" {
		v[field] = "is required"
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			v[field] = "must contain digits only"
			return false
		}
	}
	return true
}

func PositiveDecimal(field string, val decimal.Decimal, v Violations) bool {
	if !val.IsPositive() {
		v[field] = "must be greater than zero"
		return false
	}
	return true
}

func MaxDecimal(field string, val, maxVal decimal.Decimal, v Violations) bool {
	if val.GreaterThan(maxVal) {
		v[field] = "must not exceed " + maxVal.StringFixed(2)
		return false
	}
	return true
}

func Scale(field string, val decimal.Decimal, places int32, v Violations) bool {
	if !val.Equal(val.Truncate(places)) {
		v[field] = "must have at most " + strconv.Itoa(int(places)) + " decimal places"
		return false
	}
	return true
}

// OneOf records a violation unless ok is true; callers pass the result of
// the enum's Valid method.
func OneOf(field string, ok bool, allowed []string, v Violations) bool {
	if !ok {
		v[field] = "must be one of " + strings.Join(allowed, ", ")
		return false
	}
	return true
}
