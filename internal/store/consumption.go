package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"water-billing-backend/internal/model"
)

// AddConsumptionRecord records a consumption reading for an existing client.
func (s *gormStore) AddConsumptionRecord(ctx context.Context, c NewConsumption) (model.ConsumptionRecord, error) {
	if err := validateConsumption(c); err != nil {
		return model.ConsumptionRecord{}, err
	}

	now := s.timestamp()
	recordedAt := c.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = now
	}
	record := model.ConsumptionRecord{
		ClientID:   c.ClientID,
		Type:       c.Type,
		RecordedAt: recordedAt.UTC(),
		Notes:      clean(c.Notes),
		CreatedAt:  now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := clientExists(tx, c.ClientID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("client %d: %w", c.ClientID, ErrNotFound)
		}
		return tx.Omit(clause.Associations).Create(&record).Error
	})
	if err != nil {
		if isOutcome(err) {
			return model.ConsumptionRecord{}, err
		}
		return model.ConsumptionRecord{}, s.storageError("add consumption record", err)
	}

	s.log.Info("consumption recorded",
		zap.Int64("record_id", record.ID),
		zap.Int64("client_id", record.ClientID),
		zap.String("type", string(record.Type)))
	return record, nil
}

// ListConsumptionForClient returns the client's readings, newest first.
func (s *gormStore) ListConsumptionForClient(ctx context.Context, clientID int64) ([]model.ConsumptionRecord, error) {
	var records []model.ConsumptionRecord
	err := s.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("recorded_at DESC, id DESC").
		Find(&records).Error
	if err != nil {
		return nil, s.storageError("list consumption", err)
	}
	return records, nil
}
