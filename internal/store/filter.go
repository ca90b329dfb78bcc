package store

import (
	"strconv"
	"strings"

	"water-billing-backend/internal/model"
)

// StatusFilter selects rows of the derived-status dashboard.
type StatusFilter string

const (
	FilterAll    StatusFilter = "all"
	FilterDebt   StatusFilter = "debt"
	FilterPaid   StatusFilter = "paid"
	FilterExcess StatusFilter = "excess"
)

// ParseStatusFilter maps a query value to a filter. Blank means all.
func ParseStatusFilter(raw string) (StatusFilter, bool) {
	switch f := StatusFilter(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FilterAll, true
	case FilterAll, FilterDebt, FilterPaid, FilterExcess:
		return f, true
	default:
		return "", false
	}
}

// FilterClients keeps the rows matching f. Debt and paid look at the latest
// payment; excess looks at the latest consumption record.
func FilterClients(rows []ClientWithStatus, f StatusFilter) []ClientWithStatus {
	if f == FilterAll || f == "" {
		return rows
	}
	out := make([]ClientWithStatus, 0, len(rows))
	for _, r := range rows {
		var keep bool
		switch f {
		case FilterDebt:
			keep = r.PaymentStatus == model.PaymentPending
		case FilterPaid:
			keep = r.PaymentStatus == model.PaymentPaid
		case FilterExcess:
			keep = r.ConsumptionType == model.ConsumptionExcess
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

// MatchClients applies the client search rule to already loaded rows:
// case-insensitive substring of name, address or decimal id.
func MatchClients(rows []ClientWithStatus, term string) []ClientWithStatus {
	term = foldTerm(term)
	if term == "" {
		return rows
	}
	out := make([]ClientWithStatus, 0, len(rows))
	for _, r := range rows {
		if matchesClient(r.ID, r.Name, r.Address, term) {
			out = append(out, r)
		}
	}
	return out
}

func foldTerm(term string) string {
	return strings.ToLower(clean(term))
}

// matchesClient expects term already folded by foldTerm.
func matchesClient(id int64, name, address, term string) bool {
	return strings.Contains(strings.ToLower(name), term) ||
		strings.Contains(strings.ToLower(address), term) ||
		strings.Contains(strconv.FormatInt(id, 10), term)
}
