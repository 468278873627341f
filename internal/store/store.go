package store

import (
	"context"
	"errors"

	"github.com/groblegark/deskboard/internal/model"
)

// ErrNotFound is returned when a worker or meta key does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for the board. Writes are
// per-record whole-row upserts; the only multi-record write is ResetBoard,
// which wipes every worker and advances the reset epoch in one transaction.
type Store interface {
	// Ledger
	LoadLedger(ctx context.Context) (*model.Ledger, error)
	PutWorker(ctx context.Context, w *model.Worker) error
	SetResetEpoch(ctx context.Context, epoch string) error
	ResetBoard(ctx context.Context, epoch string) error

	// Worker admin
	CreateWorker(ctx context.Context, w *model.Worker) error
	DeleteWorker(ctx context.Context, id string) error
	GetWorker(ctx context.Context, id string) (*model.Worker, error)
	ListWorkers(ctx context.Context) ([]*model.Worker, error)

	// Audit trail
	RecordEvent(ctx context.Context, event *model.Event) error
	ListEvents(ctx context.Context, workerID string, limit int) ([]*model.Event, error)

	// Transaction support
	RunInTransaction(ctx context.Context, fn func(tx Store) error) error

	// Lifecycle
	Close() error
}
