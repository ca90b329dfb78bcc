package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"water-billing-backend/internal/model"
	"water-billing-backend/internal/validation"
)

// AddClient creates an active client after validating name and address.
func (s *gormStore) AddClient(ctx context.Context, name, address string) (model.Client, error) {
	v := validation.Violations{}
	validateClient(name, address, v)
	if err := invalid(v); err != nil {
		return model.Client{}, err
	}

	now := s.timestamp()
	client := model.Client{
		Name:      clean(name),
		Address:   clean(address),
		Status:    model.ClientActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&client).Error; err != nil {
		return model.Client{}, s.storageError("add client", err)
	}

	s.log.Info("client added", zap.Int64("client_id", client.ID))
	return client, nil
}

// GetClient returns the client with the given id or ErrNotFound.
func (s *gormStore) GetClient(ctx context.Context, id int64) (model.Client, error) {
	var client model.Client
	err := s.db.WithContext(ctx).First(&client, id).Error
	if notFound(err) {
		return model.Client{}, fmt.Errorf("client %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Client{}, s.storageError("get client", err)
	}
	return client, nil
}

// ListClients returns every client ordered by name.
func (s *gormStore) ListClients(ctx context.Context) ([]model.Client, error) {
	var clients []model.Client
	if err := s.db.WithContext(ctx).Order("name ASC, id ASC").Find(&clients).Error; err != nil {
		return nil, s.storageError("list clients", err)
	}
	return clients, nil
}

// SearchClients matches the term, case-insensitively, against name, address
// and the decimal id. A blank term matches every client. Matching runs in Go
// because SQLite's LOWER and LIKE only fold ASCII letters.
func (s *gormStore) SearchClients(ctx context.Context, term string) ([]model.Client, error) {
	clients, err := s.ListClients(ctx)
	if err != nil {
		return nil, err
	}
	term = foldTerm(term)
	if term == "" {
		return clients, nil
	}

	out := make([]model.Client, 0, len(clients))
	for _, c := range clients {
		if matchesClient(c.ID, c.Name, c.Address, term) {
			out = append(out, c)
		}
	}
	return out, nil
}

// UpdateClient replaces name, address and status and refreshes updated_at.
func (s *gormStore) UpdateClient(ctx context.Context, id int64, upd ClientUpdate) (model.Client, error) {
	v := validation.Violations{}
	validateClient(upd.Name, upd.Address, v)
	validation.OneOf("status", upd.Status.Valid(), clientStatuses, v)
	if err := invalid(v); err != nil {
		return model.Client{}, err
	}

	var updated model.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Client{}).Where("id = ?", id).Updates(map[string]any{
			"name":       clean(upd.Name),
			"address":    clean(upd.Address),
			"status":     upd.Status,
			"updated_at": s.timestamp(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("client %d: %w", id, ErrNotFound)
		}
		return tx.First(&updated, id).Error
	})
	if err != nil {
		if isOutcome(err) {
			return model.Client{}, err
		}
		return model.Client{}, s.storageError("update client", err)
	}

	s.log.Info("client updated", zap.Int64("client_id", id))
	return updated, nil
}

// DeleteClient removes a client that owns no payments. Its consumption
// history goes with it.
func (s *gormStore) DeleteClient(ctx context.Context, id int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payments int64
		if err := tx.Model(&model.Payment{}).Where("client_id = ?", id).Count(&payments).Error; err != nil {
			return err
		}
		if payments > 0 {
			return fmt.Errorf("client %d has %d payments: %w", id, payments, ErrHasPayments)
		}

		if err := tx.Where("client_id = ?", id).Delete(&model.ConsumptionRecord{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Client{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("client %d: %w", id, ErrNotFound)
		}
		return nil
	})
	if err != nil {
		if isOutcome(err) {
			return err
		}
		return s.storageError("delete client", err)
	}

	s.log.Info("client deleted", zap.Int64("client_id", id))
	return nil
}

// clientExists reports whether id names a client, inside tx.
func clientExists(tx *gorm.DB, id int64) (bool, error) {
	var n int64
	if err := tx.Model(&model.Client{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
