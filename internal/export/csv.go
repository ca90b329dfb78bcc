package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"water-billing-backend/internal/store"
)

var clientColumns = []string{"id", "name", "address", "status", "payment_status", "consumption_type"}

// WriteClientsCSV writes the dashboard rows as CSV with a header line.
func WriteClientsCSV(w io.Writer, rows []store.ClientWithStatus) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(clientColumns); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.Address,
			string(r.Status),
			string(r.PaymentStatus),
			string(r.ConsumptionType),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
