package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/groblegark/deskboard/internal/authz"
	"github.com/groblegark/deskboard/internal/board"
	"github.com/groblegark/deskboard/internal/clock"
	"github.com/groblegark/deskboard/internal/directory"
	"github.com/groblegark/deskboard/internal/events"
	"github.com/groblegark/deskboard/internal/idgen"
	"github.com/groblegark/deskboard/internal/model"
	"github.com/groblegark/deskboard/internal/store"
)

// BoardServer serves the availability board over HTTP and SSE.
type BoardServer struct {
	store     store.Store
	publisher events.Publisher
	directory directory.Service
	clock     clock.Clock
	sseHub    *sseHub

	// resetMu serializes the reset check so concurrent board loads at the
	// day boundary produce exactly one reset.
	resetMu sync.Mutex
}

// NewBoardServer returns a new BoardServer backed by the given store and publisher.
func NewBoardServer(s store.Store, p events.Publisher, c clock.Clock) *BoardServer {
	return &BoardServer{
		store:     s,
		publisher: p,
		directory: directory.New(s),
		clock:     c,
		sseHub:    newSSEHub(),
	}
}

// recordAndPublish persists an event to the store and publishes it to NATS
// and the SSE hub. The store keeps the full payload for the audit trail; the
// wire copy has counter values stripped, since NATS subjects and the event
// stream are not gated per actor. Both operations are best-effort; failures
// are logged but do not block the caller.
func (s *BoardServer) recordAndPublish(ctx context.Context, topic, workerID, actor string, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "worker_id", workerID, "error", err)
		return
	}
	id, err := idgen.Generate()
	if err != nil {
		slog.Warn("failed to generate event id", "topic", topic, "error", err)
		return
	}
	if err := s.store.RecordEvent(ctx, &model.Event{
		ID:        id,
		Topic:     topic,
		WorkerID:  workerID,
		Actor:     actor,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		slog.Warn("failed to record event", "topic", topic, "worker_id", workerID, "error", err)
	}
	wire := events.RedactCounters(topic, payload)
	if err := s.publisher.Publish(ctx, topic, json.RawMessage(wire)); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "worker_id", workerID, "error", err)
	}
	s.broadcastEvent(topic, wire)
}

// loadBoard loads the ledger and applies the daily reset if the civil date
// has rolled over since the last one. Every read and mutation path goes
// through here, so the first request after 02:00 board time performs the
// reset on behalf of everyone.
func (s *BoardServer) loadBoard(ctx context.Context) (*model.Ledger, error) {
	s.resetMu.Lock()
	defer s.resetMu.Unlock()

	ledger, err := s.store.LoadLedger(ctx)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	if !board.CheckAndReset(ledger, today) {
		return ledger, nil
	}

	if err := s.store.ResetBoard(ctx, today); err != nil {
		return nil, err
	}
	slog.Info("daily board reset applied", "epoch", today)
	s.recordAndPublish(ctx, events.TopicBoardReset, "", "", events.BoardReset{Epoch: today})

	return ledger, nil
}

// resolveActor maps an identity string to an Actor via the directory.
// Returns directory.ErrUnknownUser for identities with no worker record.
func (s *BoardServer) resolveActor(ctx context.Context, id string) (model.Actor, error) {
	if id == "" {
		return model.Actor{}, inputError("actor is required")
	}
	role, err := s.directory.RoleOf(ctx, id)
	if err != nil {
		return model.Actor{}, err
	}
	return model.Actor{ID: id, Role: role}, nil
}

// inputError indicates invalid user input.
// Transport layers map this to 400.
type inputError string

func (e inputError) Error() string { return string(e) }

// workerView is the per-actor rendering of a worker row. Counter is omitted
// for actors who are not allowed to see it.
type workerView struct {
	ID                 string       `json:"id"`
	DisplayName        string       `json:"display_name"`
	Role               model.Role   `json:"role"`
	Status             model.Status `json:"status"`
	StatusChangedAt    *time.Time   `json:"status_changed_at,omitempty"`
	StatusChangedLabel string       `json:"status_changed_label,omitempty"`
	Counter            *int         `json:"counter,omitempty"`
}

// boardView is the GET /v1/board response body.
type boardView struct {
	Epoch   string       `json:"epoch"`
	Workers []workerView `json:"workers"`
}

// renderWorker renders a single worker for an actor, redacting the counter
// when CanViewCounter denies it. Every response body that carries a worker
// goes through here.
func renderWorker(w *model.Worker, actor model.Actor) workerView {
	v := workerView{
		ID:                 w.ID,
		DisplayName:        w.DisplayName,
		Role:               w.Role,
		Status:             w.Status,
		StatusChangedAt:    w.StatusChangedAt,
		StatusChangedLabel: w.StatusChangedLabel,
	}
	if authz.CanViewCounter(actor) {
		n := w.Counter
		v.Counter = &n
	}
	return v
}

// renderBoard sorts the ledger for display and redacts counters the actor
// may not see.
func renderBoard(ledger *model.Ledger, actor model.Actor) boardView {
	sorted := board.SortForDisplay(ledger)

	views := make([]workerView, 0, len(sorted))
	for _, w := range sorted {
		views = append(views, renderWorker(w, actor))
	}

	return boardView{Epoch: ledger.LastResetEpoch, Workers: views}
}
