package sync

import (
	"context"
	"sync"

	"github.com/groblegark/deskboard/internal/model"
	"github.com/groblegark/deskboard/internal/store"
)

// mockStore is a minimal in-memory store for sync tests.
type mockStore struct {
	mu      sync.Mutex
	workers map[string]*model.Worker
	epoch   string
	events  []*model.Event

	resetCalls int
}

var _ store.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{workers: make(map[string]*model.Worker)}
}

func (m *mockStore) LoadLedger(_ context.Context) (*model.Ledger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ledger := model.NewLedger()
	for _, w := range m.workers {
		ledger.Put(w.Clone())
	}
	ledger.LastResetEpoch = m.epoch
	return ledger, nil
}

func (m *mockStore) PutWorker(_ context.Context, w *model.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.workers[w.ID]; !ok {
		return store.ErrNotFound
	}
	m.workers[w.ID] = w.Clone()
	return nil
}

func (m *mockStore) SetResetEpoch(_ context.Context, epoch string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.epoch = epoch
	return nil
}

func (m *mockStore) ResetBoard(_ context.Context, epoch string) error {
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

func (m *mockStore) CreateWorker(_ context.Context, w *model.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers[w.ID] = w.Clone()
	return nil
}

func (m *mockStore) DeleteWorker(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.workers, id)
	return nil
}

func (m *mockStore) GetWorker(_ context.Context, id string) (*model.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.workers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return w.Clone(), nil
}

func (m *mockStore) ListWorkers(_ context.Context) ([]*model.Worker, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Worker
	for _, w := range m.workers {
		out = append(out, w.Clone())
	}
	return out, nil
}

func (m *mockStore) RecordEvent(_ context.Context, event *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockStore) ListEvents(_ context.Context, workerID string, limit int) ([]*model.Event, error) {
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

func (m *mockStore) RunInTransaction(_ context.Context, fn func(tx store.Store) error) error {
	return fn(m)
}

func (m *mockStore) Close() error { return nil }
