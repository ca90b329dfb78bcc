package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"water-billing-backend/internal/model"
)

// Store defines the interface for all database operations.
type Store interface {
	AddClient(ctx context.Context, name, address string) (model.Client, error)
	GetClient(ctx context.Context, id int64) (model.Client, error)
	ListClients(ctx context.Context) ([]model.Client, error)
	SearchClients(ctx context.Context, term string) ([]model.Client, error)
	UpdateClient(ctx context.Context, id int64, upd ClientUpdate) (model.Client, error)
	DeleteClient(ctx context.Context, id int64) error

	AddPayment(ctx context.Context, p NewPayment) (model.Payment, error)
	ListPaymentsForClient(ctx context.Context, clientID int64) ([]model.Payment, error)
	ListPaymentsByDate(ctx context.Context, day time.Time) ([]PaymentWithClient, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status model.PaymentStatus) error

	AddConsumptionRecord(ctx context.Context, c NewConsumption) (model.ConsumptionRecord, error)
	ListConsumptionForClient(ctx context.Context, clientID int64) ([]model.ConsumptionRecord, error)

	ClientsWithDerivedStatus(ctx context.Context) ([]ClientWithStatus, error)
	ComputeStatistics(ctx context.Context) (Statistics, error)
	MonthlyPayments(ctx context.Context, months int) ([]MonthlyTotal, error)
	PaymentStatusSummary(ctx context.Context) (StatusSummary, error)
	ClientReport(ctx context.Context, clientID int64) (ClientReport, error)

	EnsureCredential(ctx context.Context, defaultPin string) error
	VerifyPin(ctx context.Context, candidate string) (bool, error)
	UpdatePin(ctx context.Context, newPin string) error
	ChangePin(ctx context.Context, currentPin, newPin string) error

	Ping(ctx context.Context) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db         *gorm.DB
	log        *zap.Logger
	now        func() time.Time
	loc        *time.Location
	bcryptCost int
}

// Option customizes a gormStore.
type Option func(*gormStore)

// WithLogger sets the logger used for storage failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *gormStore) { s.log = l }
}

// WithClock replaces the wall clock, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *gormStore) { s.now = now }
}

// WithLocation sets the time zone that defines calendar days and months.
func WithLocation(loc *time.Location) Option {
	return func(s *gormStore) { s.loc = loc }
}

// WithBcryptCost sets the cost used when hashing a new PIN.
func WithBcryptCost(cost int) Option {
	return func(s *gormStore) { s.bcryptCost = cost }
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, opts ...Option) Store {
	s := &gormStore{
		db:         db,
		log:        zap.NewNop(),
		now:        time.Now,
		loc:        time.Local,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping verifies the database connection is still alive.
func (s *gormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// timestamp returns the current instant normalized to UTC, so stored values
// compare and sort consistently.
func (s *gormStore) timestamp() time.Time {
	return s.now().UTC()
}

// dayRange returns the UTC bounds [start, end) of the calendar day containing t.
func (s *gormStore) dayRange(t time.Time) (time.Time, time.Time) {
	local := t.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

// monthRange returns the UTC bounds [start, end) of the calendar month
// containing t.
func (s *gormStore) monthRange(t time.Time) (time.Time, time.Time) {
	local := t.In(s.loc)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, s.loc)
	return start.UTC(), start.AddDate(0, 1, 0).UTC()
}

// storageError logs and wraps an unexpected database failure.
func (s *gormStore) storageError(op string, err error) error {
	s.log.Error("storage failure", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("failed to %s: %w", op, err)
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
