package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"water-billing-backend/internal/model"
	"water-billing-backend/internal/store"
)

const dayLayout = "2006-01-02"

// RenderReport formats a client's history as a plain-text report. Dates are
// shown in loc.
func RenderReport(r store.ClientReport, loc *time.Location, generatedAt time.Time) []byte {
	var b bytes.Buffer
	rule := strings.Repeat("=", 50)

	b.WriteString("CLIENT REPORT\n")
	b.WriteString(rule + "\n\n")

	b.WriteString("CLIENT\n")
	b.WriteString(strings.Repeat("-", 25) + "\n")
	fmt.Fprintf(&b, "ID: %d\n", r.Client.ID)
	fmt.Fprintf(&b, "Name: %s\n", r.Client.Name)
	fmt.Fprintf(&b, "Address: %s\n", r.Client.Address)
	fmt.Fprintf(&b, "Status: %s\n", r.Client.Status)
	fmt.Fprintf(&b, "Registered: %s\n\n", r.Client.CreatedAt.In(loc).Format(dayLayout))

	b.WriteString("PAYMENTS\n")
	b.WriteString(strings.Repeat("-", 20) + "\n")
	if len(r.Payments) == 0 {
		b.WriteString("No payments recorded\n")
	} else {
		fmt.Fprintf(&b, "Total paid: $%s\n", r.TotalPaid.StringFixed(2))
		fmt.Fprintf(&b, "Payments: %d\n\n", len(r.Payments))
		for _, p := range r.Payments {
			mark := "[ ]"
			if p.Status == model.PaymentPaid {
				mark = "[x]"
			}
			fmt.Fprintf(&b, "%s $%s - %s (%s)\n", mark, p.Amount.StringFixed(2),
				p.PaymentDate.In(loc).Format(dayLayout), p.Status)
			if p.Notes != "" {
				fmt.Fprintf(&b, "    Notes: %s\n", p.Notes)
			}
		}
	}
	b.WriteString("\n")

	b.WriteString("CONSUMPTION\n")
	b.WriteString(strings.Repeat("-", 22) + "\n")
	if len(r.Consumption) == 0 {
		b.WriteString("No consumption records\n")
	} else {
		fmt.Fprintf(&b, "Excess records: %d\n", r.ExcessRecords)
		fmt.Fprintf(&b, "Total records: %d\n\n", len(r.Consumption))
		for _, c := range r.Consumption {
			fmt.Fprintf(&b, "%-6s - %s\n", c.Type, c.RecordedAt.In(loc).Format(dayLayout))
			if c.Notes != "" {
				fmt.Fprintf(&b, "    Notes: %s\n", c.Notes)
			}
		}
	}

	b.WriteString("\n" + rule + "\n")
	fmt.Fprintf(&b, "Generated: %s\n", generatedAt.In(loc).Format("2006-01-02 15:04:05"))
	return b.Bytes()
}
