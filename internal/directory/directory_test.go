package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/groblegark/deskboard/internal/model"
	"github.com/groblegark/deskboard/internal/store"
)

// fakeStore implements the store methods the directory uses and counts calls.
type fakeStore struct {
	store.Store
	workers  map[string]*model.Worker
	getCalls int
}

func newFakeStore(workers ...*model.Worker) *fakeStore {
	m := make(map[string]*model.Worker)
	for _, w := range workers {
		m[w.ID] = w
	}
	return &fakeStore{workers: m}
}

func (f *fakeStore) GetWorker(ctx context.Context, id string) (*model.Worker, error) {
	f.getCalls++
	w, ok := f.workers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return w.Clone(), nil
}

func (f *fakeStore) ListWorkers(ctx context.Context) ([]*model.Worker, error) {
	var out []*model.Worker
	for _, w := range f.workers {
		out = append(out, w.Clone())
	}
	return out, nil
}

func TestRoleOf(t *testing.T) {
	now := time.Now().UTC()
	fs := newFakeStore(
		model.NewWorker("amy@example.com", "Amy", model.RoleUnderwriter, now),
		model.NewWorker("boss@example.com", "Boss", model.RoleAssigner, now),
	)
	d := New(fs)
	ctx := context.Background()

	role, err := d.RoleOf(ctx, "boss@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != model.RoleAssigner {
		t.Errorf("role = %q, want assigner", role)
	}

	if _, err := d.RoleOf(ctx, "stranger@example.com"); !errors.Is(err, ErrUnknownUser) {
		t.Errorf("err = %v, want ErrUnknownUser", err)
	}
}

func TestResolveCaches(t *testing.T) {
	now := time.Now().UTC()
	fs := newFakeStore(model.NewWorker("amy@example.com", "Amy", model.RoleUnderwriter, now))
	d := New(fs)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := d.Resolve(ctx, "amy@example.com"); err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
	}
	if fs.getCalls != 1 {
		t.Errorf("getCalls = %d, want 1 (cached)", fs.getCalls)
	}
}

func TestInvalidateDropsCache(t *testing.T) {
	now := time.Now().UTC()
	fs := newFakeStore(model.NewWorker("amy@example.com", "Amy", model.RoleUnderwriter, now))
	d := New(fs)
	ctx := context.Background()

	if _, err := d.Resolve(ctx, "amy@example.com"); err != nil {
		t.Fatal(err)
	}
	d.Invalidate("amy@example.com")
	if _, err := d.Resolve(ctx, "amy@example.com"); err != nil {
		t.Fatal(err)
	}
	if fs.getCalls != 2 {
		t.Errorf("getCalls = %d, want 2 after invalidate", fs.getCalls)
	}
}

func TestListUsersWarmsCache(t *testing.T) {
	now := time.Now().UTC()
	fs := newFakeStore(
		model.NewWorker("amy@example.com", "Amy", model.RoleUnderwriter, now),
		model.NewWorker("boss@example.com", "Boss", model.RoleAssigner, now),
	)
	d := New(fs)
	ctx := context.Background()

	users, err := d.ListUsers(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}

	if _, err := d.Resolve(ctx, "amy@example.com"); err != nil {
		t.Fatal(err)
	}
	if fs.getCalls != 0 {
		t.Errorf("getCalls = %d, want 0 (warmed by ListUsers)", fs.getCalls)
	}
}
