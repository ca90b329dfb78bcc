package store

import (
	"strings"

	"water-billing-backend/internal/model"
	"water-billing-backend/internal/validation"
)

const (
	minNameLen    = 2
	maxNameLen    = 100
	minAddressLen = 5
	maxAddressLen = 200
	minPinLen     = 4
	maxPinLen     = 8
	maxNotesLen   = 500
)

var (
	clientStatuses   = []string{string(model.ClientActive), string(model.ClientInactive)}
	paymentStatuses  = []string{string(model.PaymentPaid), string(model.PaymentPending)}
	consumptionTypes = []string{string(model.ConsumptionNormal), string(model.ConsumptionExcess)}
)

func validateClient(name, address string, v validation.Violations) {
	if validation.Required("name", name, v) {
		validation.Length("name", name, minNameLen, maxNameLen, v)
	}
	if validation.Required("address", address, v) {
		validation.Length("address", address, minAddressLen, maxAddressLen, v)
	}
}

func validateNotes(notes string, v validation.Violations) {
	validation.Length("notes", notes, 0, maxNotesLen, v)
}

func validatePayment(p NewPayment) error {
	v := validation.Violations{}
	if validation.PositiveDecimal("amount", p.Amount, v) &&
		validation.MaxDecimal("amount", p.Amount, model.MaxPaymentAmount, v) {
		validation.Scale("amount", p.Amount, 2, v)
	}
	validation.OneOf("status", p.Status.Valid(), paymentStatuses, v)
	validateNotes(p.Notes, v)
	return invalid(v)
}

func validateConsumption(c NewConsumption) error {
	v := validation.Violations{}
	validation.OneOf("type", c.Type.Valid(), consumptionTypes, v)
	validateNotes(c.Notes, v)
	return invalid(v)
}

// ValidatePin checks the PIN format: digits only, 4 to 8 characters.
func ValidatePin(pin string) error {
	v := validation.Violations{}
	if validation.Digits("pin", pin, v) {
		validation.Length("pin", pin, minPinLen, maxPinLen, v)
	}
	return invalid(v)
}

func clean(s string) string {
	return strings.TrimSpace(s)
}
