package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	bunrepo "github.com/goliatone/go-leadcards/internal/storage/bun"
	"github.com/goliatone/go-leadcards/internal/storage/memory"
	"github.com/goliatone/go-leadcards/pkg/domain"
	"github.com/goliatone/go-leadcards/pkg/interfaces/store"
	persistence "github.com/goliatone/go-persistence-bun"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrUnknownDriver = errors.New("storage: unknown driver")
	ErrMissingDSN    = errors.New("storage: dsn is required")
)

// Providers exposes the delivery log repositories.
type Providers struct {
	Notifications store.LeadNotificationRepository
	Attempts      store.DeliveryAttemptRepository
	Transaction   store.TransactionManager

	closer func() error
}

// DeliveryLog bundles the providers for the notifier.
func (p Providers) DeliveryLog() store.DeliveryLog {
	return store.DeliveryLog{
		Notifications: p.Notifications,
		Attempts:      p.Attempts,
		Transaction:   p.Transaction,
	}
}

// Close releases the underlying database, if any.
func (p Providers) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}

// NewMemoryProviders returns in-memory repositories. Writes are applied
// directly, without a transaction.
func NewMemoryProviders() Providers {
	return Providers{
		Notifications: memory.NewNotificationRepository(),
		Attempts:      memory.NewDeliveryRepository(),
	}
}

// NewBunProviders wires Bun-backed repositories using go-repository-bun.
// The caller owns the *bun.DB lifecycle.
func NewBunProviders(db *bun.DB) Providers {
	if db == nil {
		panic("storage: bun DB is required")
	}

	// Register models so go-persistence-bun migrations can pick them up.
	persistence.RegisterModel(domain.Models()...)

	return Providers{
		Notifications: bunrepo.NewNotificationRepository(db),
		Attempts:      bunrepo.NewDeliveryRepository(db),
		Transaction:   bunrepo.NewTxManager(db),
	}
}

// OpenDB opens a bun database for the sqlite or postgres driver.
func OpenDB(driver, dsn string) (*bun.DB, error) {
	dsn = strings.TrimSpace(dsn)
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite:
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		sqldb, err := sql.Open(sqliteshim.DriverName(), dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	case DriverPostgres:
		if dsn == "" {
			return nil, ErrMissingDSN
		}
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// CreateSchema creates the delivery log tables when missing.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	for _, model := range domain.Models() {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("storage: create table: %w", err)
		}
	}
	return nil
}

// Open builds providers for driver: memory needs no DSN, sqlite and
// postgres open a database and create the schema.
func Open(ctx context.Context, driver, dsn string) (Providers, error) {
	if driver == "" || strings.EqualFold(driver, DriverMemory) {
		return NewMemoryProviders(), nil
	}
	db, err := OpenDB(driver, dsn)
	if err != nil {
		return Providers{}, err
	}
	if err := CreateSchema(ctx, db); err != nil {
		_ = db.Close()
		return Providers{}, err
	}
	providers := NewBunProviders(db)
	providers.closer = db.Close
	return providers, nil
}
