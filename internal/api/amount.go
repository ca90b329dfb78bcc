package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"water-billing-backend/internal/parse"
)

// errInvalidAmount marks bind failures caused by the amount field.
var errInvalidAmount = errors.New("invalid amount")

// amountInput accepts an amount either as a JSON number or as a string in
// the clerk's notation, e.g. "1,234.50".
type amountInput struct {
	decimal.Decimal
	set bool
}

func (a *amountInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("%w: %v", errInvalidAmount, err)
		}
	}
	d, err := parse.ParseAmount(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidAmount, err)
	}
	a.Decimal, a.set = d, true
	return nil
}
