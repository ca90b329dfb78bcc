package parse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// amountRe accepts plain or thousands-grouped amounts with up to two
// decimals, e.g. "1234", "1,234.5", "$ 1,234.50".
var amountRe = regexp.MustCompile(`^(\d{1,3}(?:,\d{3})+|\d+)(?:\.(\d{1,2}))?$`)

// ParseAmount converts a clerk-entered amount into a decimal. A leading
// currency sign and surrounding spaces are ignored.
func ParseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimPrefix(s, "$"))
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}

	m := amountRe.FindStringSubmatch(s)
	if m == nil {
		return decimal.Decimal{}, fmt.Errorf("unable to parse amount: %q", raw)
	}

	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unable to parse amount %q: %w", raw, err)
	}
	return d, nil
}
