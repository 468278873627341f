package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/groblegark/deskboard/internal/clock"
	"github.com/groblegark/deskboard/internal/events"
	"github.com/groblegark/deskboard/internal/model"
	"github.com/groblegark/deskboard/internal/store"
)

// testInstant is 11:00 AM board time on 2024-01-15. Frozen clocks in these
// tests tick from here.
var testInstant = time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)

// mockStore is an in-memory store.Store for handler tests.
type mockStore struct {
	mu      sync.Mutex
	workers map[string]*model.Worker
	epoch   string
	events  []*model.Event

	putErr     error
	resetCalls int
}

var _ store.Store = (*mockStore)(nil)

func newMockStore(workers ...*model.Worker) *mockStore {
	m := &mockStore{
		workers: make(map[string]*model.Worker),
		epoch:   clock.CivilDate(testInstant),
	}
	for _, w := range workers {
		m.workers[w.ID] = w.Clone()
	}
	return m
}

func (m *mockStore) LoadLedger(ctx context.Context) (*model.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ledger := model.NewLedger()
	for _, w := range m.workers {
		ledger.Put(w.Clone())
	}
	ledger.LastResetEpoch = m.epoch
	return ledger, nil
}

func (m *mockStore) PutWorker(ctx context.Context, w *model.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	if _, ok := m.workers[w.ID]; !ok {
		return store.ErrNotFound
	}
	m.workers[w.ID] = w.Clone()
	return nil
}

func (m *mockStore) SetResetEpoch(ctx context.Context, epoch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch = epoch
	return nil
}

func (m *mockStore) ResetBoard(ctx context.Context, epoch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resetCalls++
	for _, w := range m.workers {
		w.Status = model.StatusNeutral
		w.Counter = 0
		w.StatusChangedAt = nil
		w.StatusChangedLabel = ""
	}
	m.epoch = epoch
	return nil
}

func (m *mockStore) CreateWorker(ctx context.Context, w *model.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers[w.ID] = w.Clone()
	return nil
}

func (m *mockStore) DeleteWorker(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workers[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.workers, id)
	return nil
}

func (m *mockStore) GetWorker(ctx context.Context, id string) (*model.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return w.Clone(), nil
}

func (m *mockStore) ListWorkers(ctx context.Context) ([]*model.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Worker
	for _, w := range m.workers {
		out = append(out, w.Clone())
	}
	return out, nil
}

func (m *mockStore) RecordEvent(ctx context.Context, event *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockStore) ListEvents(ctx context.Context, workerID string, limit int) ([]*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Event
	for _, e := range m.events {
		if workerID != "" && e.WorkerID != workerID {
			continue
		}
		out = append(out, e)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }

// eventTopics returns the topics of all recorded events, in order.
func (m *mockStore) eventTopics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	topics := make([]string, 0, len(m.events))
	for _, e := range m.events {
		topics = append(topics, e.Topic)
	}
	return topics
}

// newTestServer returns a BoardServer with a seeded mock store, a noop
// publisher, and a frozen clock, plus its HTTP handler with auth disabled.
func newTestServer(workers ...*model.Worker) (*BoardServer, *mockStore, http.Handler) {
	if len(workers) == 0 {
		workers = []*model.Worker{
			model.NewWorker("amy@example.com", "Amy", model.RoleUnderwriter, testInstant),
			model.NewWorker("ben@example.com", "Ben", model.RoleUnderwriter, testInstant),
			model.NewWorker("boss@example.com", "Boss", model.RoleAssigner, testInstant),
		}
	}
	ms := newMockStore(workers...)
	srv := NewBoardServer(ms, &events.NoopPublisher{}, clock.Frozen{At: testInstant})
	return srv, ms, srv.NewHTTPHandler("")
}
