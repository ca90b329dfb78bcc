package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"

	"water-billing-backend/internal/model"
)

// EnsureCredential seeds the administrator credential with defaultPin when
// none exists. An existing credential is left untouched.
func (s *gormStore) EnsureCredential(ctx context.Context, defaultPin string) error {
	if err := ValidatePin(defaultPin); err != nil {
		return fmt.Errorf("default pin: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPin), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}

	now := s.timestamp()
	cred := model.AdminCredential{
		ID:        model.AdminCredentialID,
		PinHash:   string(hash),
		CreatedAt: now,
		UpdatedAt: now,
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&cred)
	if res.Error != nil {
		return s.storageError("seed credential", res.Error)
	}
	if res.RowsAffected > 0 {
		s.log.Info("administrator credential seeded with the default pin")
	}
	return nil
}

// VerifyPin reports whether candidate matches the stored PIN. A missing
// credential verifies nothing.
func (s *gormStore) VerifyPin(ctx context.Context, candidate string) (bool, error) {
	var cred model.AdminCredential
	err := s.db.WithContext(ctx).First(&cred, model.AdminCredentialID).Error
	if notFound(err) {
		s.log.Warn("pin verification without a stored credential")
		return false, nil
	}
	if err != nil {
		return false, s.storageError("load credential", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(cred.PinHash), []byte(candidate))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("failed to compare pin: %w", err)
	}
}

// UpdatePin replaces the stored PIN after checking its format.
func (s *gormStore) UpdatePin(ctx context.Context, newPin string) error {
	if err := ValidatePin(newPin); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPin), s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash pin: %w", err)
	}

	res := s.db.WithContext(ctx).
		Model(&model.AdminCredential{}).
		Where("id = ?", model.AdminCredentialID).
		Updates(map[string]any{"pin_hash": string(hash), "updated_at": s.timestamp()})
	if res.Error != nil {
		return s.storageError("update pin", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("administrator credential: %w", ErrNotFound)
	}

	s.log.Info("administrator pin updated")
	return nil
}

// ChangePin replaces the PIN only when currentPin matches the stored one.
func (s *gormStore) ChangePin(ctx context.Context, currentPin, newPin string) error {
	if err := ValidatePin(newPin); err != nil {
		return err
	}
	ok, err := s.VerifyPin(ctx, currentPin)
	if err != nil {
		return err
	}
	if !ok {
		s.log.Warn("pin change rejected", zap.String("reason", "wrong current pin"))
		return ErrWrongPin
	}
	return s.UpdatePin(ctx, newPin)
}
