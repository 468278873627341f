package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/groblegark/deskboard/internal/authz"
	"github.com/groblegark/deskboard/internal/board"
	"github.com/groblegark/deskboard/internal/clock"
	"github.com/groblegark/deskboard/internal/model"
)

// Session is an optimistic local view of the board for a single actor.
//
// Mutations are gated locally (the same authorization rules the server
// enforces), applied to the local ledger immediately so the caller sees the
// result without waiting for the round trip, and then written through. When
// the write fails after retries, the session reloads the full board from the
// server; the local optimistic change is discarded in favor of whatever the
// server has.
type Session struct {
	client BoardClient
	actor  model.Actor
	clock  clock.Clock

	mu              sync.Mutex
	ledger          *model.Ledger
	countersVisible bool
}

// NewSession creates a session for the given actor. Call Refresh before the
// first read.
func NewSession(c BoardClient, actorID string, clk clock.Clock) *Session {
	return &Session{
		client: c,
		actor:  model.Actor{ID: actorID},
		clock:  clk,
		ledger: model.NewLedger(),
	}
}

// Refresh replaces the local ledger with the server's current board. The
// actor's role is taken from their own row in the directory.
func (s *Session) Refresh(ctx context.Context) error {
	resp, err := s.client.GetBoard(ctx, s.actor.ID)
	if err != nil {
		return fmt.Errorf("loading board: %w", err)
	}

	self, err := s.client.GetWorker(ctx, s.actor.ID, s.actor.ID)
	if err != nil {
		return fmt.Errorf("resolving actor role: %w", err)
	}

	ledger := model.NewLedger()
	ledger.LastResetEpoch = resp.Epoch
	countersVisible := false
	for _, row := range resp.Workers {
		w := &model.Worker{
			ID:                 row.ID,
			DisplayName:        row.DisplayName,
			Role:               row.Role,
			Status:             row.Status,
			StatusChangedAt:    row.StatusChangedAt,
			StatusChangedLabel: row.StatusChangedLabel,
		}
		if row.Counter != nil {
			w.Counter = *row.Counter
			countersVisible = true
		}
		ledger.Put(w)
	}

	s.mu.Lock()
	s.actor.Role = self.Role
	s.ledger = ledger
	s.countersVisible = countersVisible
	s.mu.Unlock()

	return nil
}

// Actor returns the session's resolved actor.
func (s *Session) Actor() model.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.actor
}

// Epoch returns the civil date of the board currently held locally.
func (s *Session) Epoch() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.LastResetEpoch
}

// CountersVisible reports whether the server included counters in the last
// refresh (it redacts them for non-assigners).
func (s *Session) CountersVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countersVisible
}

// Board returns the local ledger in display order.
func (s *Session) Board() []*model.Worker {
	s.mu.Lock()
	defer s.mu.Unlock()
	sorted := board.SortForDisplay(s.ledger)
	out := make([]*model.Worker, len(sorted))
	for i, w := range sorted {
		out[i] = w.Clone()
	}
	return out
}

// ToggleStatus applies the status toggle for a worker: locally first, then
// written through to the server. The gate is checked before any I/O.
func (s *Session) ToggleStatus(ctx context.Context, workerID string, status model.Status) error {
	s.mu.Lock()
	if !authz.CanEditStatus(s.actor, workerID) {
		s.mu.Unlock()
		return board.ErrUnauthorized
	}
	worker := s.ledger.Get(workerID)
	if worker == nil {
		s.mu.Unlock()
		return board.ErrUnknownWorker
	}
	changed, err := board.Toggle(worker, status, s.clock.Now())
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	updated, err := s.client.SetStatus(ctx, s.actor.ID, workerID, status)
	if err != nil {
		return s.reconcile(ctx, "status toggle", err)
	}

	s.adopt(updated)
	return nil
}

// AdjustCounter applies a counter delta for a worker: locally first, then
// written through to the server. Deltas clamped to a no-op issue no write.
func (s *Session) AdjustCounter(ctx context.Context, workerID string, delta int) error {
	s.mu.Lock()
	if !authz.CanEditCounter(s.actor) {
		s.mu.Unlock()
		return board.ErrUnauthorized
	}
	worker := s.ledger.Get(workerID)
	if worker == nil {
		s.mu.Unlock()
		return board.ErrUnknownWorker
	}
	changed := board.Adjust(worker, delta)
	s.mu.Unlock()
	if !changed {
		return nil
	}

	updated, err := s.client.AdjustCounter(ctx, s.actor.ID, workerID, delta)
	if err != nil {
		return s.reconcile(ctx, "counter adjust", err)
	}

	s.adopt(updated)
	return nil
}

// adopt replaces the local copy of a worker with the server's authoritative
// version.
func (s *Session) adopt(w *model.Worker) {
	if w == nil {
		return
	}
	s.mu.Lock()
	s.ledger.Put(w.Clone())
	s.mu.Unlock()
}

// reconcile handles a write that failed after retries: the full board is
// reloaded so the local ledger stops reflecting the discarded optimistic
// change. The original failure is reported as a persistence error either way.
func (s *Session) reconcile(ctx context.Context, op string, cause error) error {
	if err := s.Refresh(ctx); err != nil {
		return &board.PersistenceError{Op: op + " (reload failed)", Err: cause}
	}
	return &board.PersistenceError{Op: op, Err: cause}
}
