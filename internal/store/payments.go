package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"water-billing-backend/internal/model"
	"water-billing-backend/internal/validation"
)

// AddPayment records a payment for an existing client. Input is validated
// before anything is written; the client check and the insert share one
// transaction.
func (s *gormStore) AddPayment(ctx context.Context, p NewPayment) (model.Payment, error) {
	if err := validatePayment(p); err != nil {
		return model.Payment{}, err
	}

	now := s.timestamp()
	paidAt := p.PaymentDate
	if paidAt.IsZero() {
		paidAt = now
	}
	payment := model.Payment{
		ClientID:    p.ClientID,
		Amount:      p.Amount,
		PaymentDate: paidAt.UTC(),
		Status:      p.Status,
		Notes:       clean(p.Notes),
		CreatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := clientExists(tx, p.ClientID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("client %d: %w", p.ClientID, ErrNotFound)
		}
		return tx.Omit(clause.Associations).Create(&payment).Error
	})
	if err != nil {
		if isOutcome(err) {
			return model.Payment{}, err
		}
		return model.Payment{}, s.storageError("add payment", err)
	}

	s.log.Info("payment added",
		zap.Int64("payment_id", payment.ID),
		zap.Int64("client_id", payment.ClientID),
		zap.String("status", string(payment.Status)))
	return payment, nil
}

// ListPaymentsForClient returns the client's payments, newest first.
func (s *gormStore) ListPaymentsForClient(ctx context.Context, clientID int64) ([]model.Payment, error) {
	var payments []model.Payment
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("payment_date DESC, id DESC").
		Find(&payments).Error
	if err != nil {
		return nil, s.storageError("list payments", err)
	}
	return payments, nil
}

// ListPaymentsByDate returns the payments made on the calendar day of day,
// in the store's time zone, joined with the owning client.
func (s *gormStore) ListPaymentsByDate(ctx context.Context, day time.Time) ([]PaymentWithClient, error) {
	start, end := s.dayRange(day)

	var rows []PaymentWithClient
	err := s.db.WithContext(ctx).
		Model(&model.Payment{}).
		Select("payments.*, clients.name AS client_name, clients.address AS client_address").
		Joins("JOIN clients ON clients.id = payments.client_id").
		Where("payments.payment_date >= ? AND payments.payment_date < ?", start, end).
		Order("payments.payment_date DESC, payments.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, s.storageError("list payments by date", err)
	}
	return rows, nil
}

// UpdatePaymentStatus changes only the status of a payment.
func (s *gormStore) UpdatePaymentStatus(ctx context.Context, id int64, status model.PaymentStatus) error {
	v := validation.Violations{}
	validation.OneOf("status", status.Valid(), paymentStatuses, v)
	if err := invalid(v); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).Model(&model.Payment{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return s.storageError("update payment status", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment %d: %w", id, ErrNotFound)
	}

	s.log.Info("payment status updated", zap.Int64("payment_id", id), zap.String("status", string(status)))
	return nil
}
