// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/deskboard/internal/model"
	"github.com/groblegark/deskboard/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) LoadLedger(ctx context.Context) (*model.Ledger, error) {
	return queryLoadLedger(ctx, s.db)
}

func (s *PostgresStore) PutWorker(ctx context.Context, w *model.Worker) error {
	return queryPutWorker(ctx, s.db, w)
}

func (s *PostgresStore) SetResetEpoch(ctx context.Context, epoch string) error {
	return querySetResetEpoch(ctx, s.db, epoch)
}

// ResetBoard wipes every worker back to its creation values and advances the
// reset epoch, all in one transaction so readers never observe a half-reset
// board.
func (s *PostgresStore) ResetBoard(ctx context.Context, epoch string) error {
	return s.RunInTransaction(ctx, func(tx store.Store) error {
		return tx.(*txStore).resetBoard(ctx, epoch)
	})
}

func (s *PostgresStore) CreateWorker(ctx context.Context, w *model.Worker) error {
	return queryCreateWorker(ctx, s.db, w)
}

func (s *PostgresStore) DeleteWorker(ctx context.Context, id string) error {
	return queryDeleteWorker(ctx, s.db, id)
}

func (s *PostgresStore) GetWorker(ctx context.Context, id string) (*model.Worker, error) {
	return queryGetWorker(ctx, s.db, id)
}

func (s *PostgresStore) ListWorkers(ctx context.Context) ([]*model.Worker, error) {
	return queryListWorkers(ctx, s.db)
}

func (s *PostgresStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.db, event)
}

func (s *PostgresStore) ListEvents(ctx context.Context, workerID string, limit int) ([]*model.Event, error) {
	return queryListEvents(ctx, s.db, workerID, limit)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) LoadLedger(ctx context.Context) (*model.Ledger, error) {
	return queryLoadLedger(ctx, s.tx)
}

func (s *txStore) PutWorker(ctx context.Context, w *model.Worker) error {
	return queryPutWorker(ctx, s.tx, w)
}

func (s *txStore) SetResetEpoch(ctx context.Context, epoch string) error {
	return querySetResetEpoch(ctx, s.tx, epoch)
}

func (s *txStore) ResetBoard(ctx context.Context, epoch string) error {
	return s.resetBoard(ctx, epoch)
}

func (s *txStore) resetBoard(ctx context.Context, epoch string) error {
	if err := queryWipeWorkers(ctx, s.tx); err != nil {
		return err
	}
	return querySetResetEpoch(ctx, s.tx, epoch)
}

func (s *txStore) CreateWorker(ctx context.Context, w *model.Worker) error {
	return queryCreateWorker(ctx, s.tx, w)
}

func (s *txStore) DeleteWorker(ctx context.Context, id string) error {
	return queryDeleteWorker(ctx, s.tx, id)
}

func (s *txStore) GetWorker(ctx context.Context, id string) (*model.Worker, error) {
	return queryGetWorker(ctx, s.tx, id)
}

func (s *txStore) ListWorkers(ctx context.Context) ([]*model.Worker, error) {
	return queryListWorkers(ctx, s.tx)
}

func (s *txStore) RecordEvent(ctx context.Context, event *model.Event) error {
	return queryRecordEvent(ctx, s.tx, event)
}

func (s *txStore) ListEvents(ctx context.Context, workerID string, limit int) ([]*model.Event, error) {
	return queryListEvents(ctx, s.tx, workerID, limit)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
