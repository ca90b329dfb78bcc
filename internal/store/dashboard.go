package store

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"water-billing-backend/internal/model"
	"water-billing-backend/internal/validation"
)

const maxReportMonths = 60

// derivedStatusQuery picks, per client, the latest payment and the latest
// consumption record. Ties on the timestamp go to the highest id.
const derivedStatusQuery = `
SELECT c.id, c.name, c.address, c.status,
	COALESCE(p.status, 'no_payments') AS payment_status,
	COALESCE(w.consumption_type, 'normal') AS consumption_type
FROM clients c
LEFT JOIN (
	SELECT client_id, status,
		ROW_NUMBER() OVER (PARTITION BY client_id ORDER BY payment_date DESC, id DESC) AS rn
	FROM payments
) p ON p.client_id = c.id AND p.rn = 1
LEFT JOIN (
	SELECT client_id, consumption_type,
		ROW_NUMBER() OVER (PARTITION BY client_id ORDER BY recorded_at DESC, id DESC) AS rn
	FROM water_consumption
) w ON w.client_id = c.id AND w.rn = 1
ORDER BY c.name ASC, c.id ASC`

// ClientsWithDerivedStatus returns every client with the status of its
// latest payment and the type of its latest consumption record.
func (s *gormStore) ClientsWithDerivedStatus(ctx context.Context) ([]ClientWithStatus, error) {
	var rows []ClientWithStatus
	if err := s.db.WithContext(ctx).Raw(derivedStatusQuery).Scan(&rows).Error; err != nil {
		return nil, s.storageError("derive client status", err)
	}
	return rows, nil
}

// ComputeStatistics counts the dashboard figures. Monthly figures use the
// calendar month of the store clock.
func (s *gormStore) ComputeStatistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	db := s.db.WithContext(ctx)
	start, end := s.monthRange(s.now())

	if err := db.Model(&model.Client{}).
		Where("status = ?", model.ClientActive).
		Count(&stats.ActiveClients).Error; err != nil {
		return Statistics{}, s.storageError("count active clients", err)
	}

	if err := db.Model(&model.Payment{}).
		Where("status = ?", model.PaymentPending).
		Distinct("client_id").
		Count(&stats.ClientsWithDebt).Error; err != nil {
		return Statistics{}, s.storageError("count clients with debt", err)
	}

	if err := db.Model(&model.Payment{}).
		Where("status = ? AND payment_date >= ? AND payment_date < ?", model.PaymentPaid, start, end).
		Count(&stats.PaymentsThisMonth).Error; err != nil {
		return Statistics{}, s.storageError("count payments this month", err)
	}

	if err := db.Model(&model.ConsumptionRecord{}).
		Where("consumption_type = ? AND recorded_at >= ? AND recorded_at < ?", model.ConsumptionExcess, start, end).
		Distinct("client_id").
		Count(&stats.ExcessConsumption).Error; err != nil {
		return Statistics{}, s.storageError("count excess consumption", err)
	}

	return stats, nil
}

// MonthlyPayments totals the paid payments of the last months calendar
// months, oldest first. Months without payments are reported as zero.
func (s *gormStore) MonthlyPayments(ctx context.Context, months int) ([]MonthlyTotal, error) {
	v := validation.Violations{}
	if months < 1 || months > maxReportMonths {
		v["months"] = fmt.Sprintf("must be between 1 and %d", maxReportMonths)
	}
	if err := invalid(v); err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	first := now.AddDate(0, -(months - 1), 1-now.Day())
	start, _ := s.monthRange(first)
	_, end := s.monthRange(now)

	totals := make([]MonthlyTotal, months)
	index := make(map[string]int, months)
	for i := range totals {
		month := first.AddDate(0, i, 0).Format("2006-01")
		totals[i] = MonthlyTotal{Month: month, TotalAmount: decimal.Zero}
		index[month] = i
	}

	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Select("amount", "payment_date").
		Where("status = ? AND payment_date >= ? AND payment_date < ?", model.PaymentPaid, start, end).
		Find(&payments).Error
	if err != nil {
		return nil, s.storageError("load monthly payments", err)
	}

	for _, p := range payments {
		i, ok := index[p.PaymentDate.In(s.loc).Format("2006-01")]
		if !ok {
			continue
		}
		totals[i].TotalAmount = totals[i].TotalAmount.Add(p.Amount)
		totals[i].PaymentCount++
	}
	return totals, nil
}

// PaymentStatusSummary splits the active clients into those up to date and
// those with a pending payment.
func (s *gormStore) PaymentStatusSummary(ctx context.Context) (StatusSummary, error) {
	stats, err := s.ComputeStatistics(ctx)
	if err != nil {
		return StatusSummary{}, err
	}
	paid := stats.ActiveClients - stats.ClientsWithDebt
	if paid < 0 {
		paid = 0
	}
	return StatusSummary{Paid: paid, Pending: stats.ClientsWithDebt}, nil
}

// ClientReport collects a client's full history for export.
func (s *gormStore) ClientReport(ctx context.Context, clientID int64) (ClientReport, error) {
	client, err := s.GetClient(ctx, clientID)
	if err != nil {
		return ClientReport{}, err
	}
	payments, err := s.ListPaymentsForClient(ctx, clientID)
	if err != nil {
		return ClientReport{}, err
	}
	consumption, err := s.ListConsumptionForClient(ctx, clientID)
	if err != nil {
		return ClientReport{}, err
	}

	report := ClientReport{
		Client:      client,
		Payments:    payments,
		Consumption: consumption,
		TotalPaid:   decimal.Zero,
	}
	for _, p := range payments {
		if p.Status == model.PaymentPaid {
			report.TotalPaid = report.TotalPaid.Add(p.Amount)
		}
	}
	for _, c := range consumption {
		if c.Type == model.ConsumptionExcess {
			report.ExcessRecords++
		}
	}
	return report, nil
}
