// Package directory resolves user identities and roles for the board.
//
// The canonical record lives in the workers table; Directory adds a
// read-through cache so hot paths (authorization checks on every request)
// don't hit the database.
package directory

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/groblegark/deskboard/internal/model"
	"github.com/groblegark/deskboard/internal/store"
)

// ErrUnknownUser is returned when an identity has no worker record.
var ErrUnknownUser = errors.New("unknown user")

// User is a directory entry: an identity plus its display name and role.
type User struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Role        model.Role `json:"role"`
}

// Service answers identity and role lookups.
type Service interface {
	// ListUsers returns every known user.
	ListUsers(ctx context.Context) ([]User, error)
	// RoleOf returns the role of the given identity, or ErrUnknownUser.
	RoleOf(ctx context.Context, id string) (model.Role, error)
	// Resolve returns the full directory entry for an identity.
	Resolve(ctx context.Context, id string) (User, error)
}

// cacheTTL bounds how stale a cached role can be. Role changes are rare
// (they require a worker record update) so a short TTL is plenty.
const cacheTTL = 30 * time.Second

type cachedUser struct {
	user    User
	fetched time.Time
}

// StoreDirectory implements Service on top of the worker store.
type StoreDirectory struct {
	store store.Store

	mu    sync.RWMutex
	cache map[string]cachedUser
}

var _ Service = (*StoreDirectory)(nil)

// New creates a StoreDirectory backed by the given store.
func New(s store.Store) *StoreDirectory {
	return &StoreDirectory{
		store: s,
		cache: make(map[string]cachedUser),
	}
}

func (d *StoreDirectory) ListUsers(ctx context.Context) ([]User, error) {
	workers, err := d.store.ListWorkers(ctx)
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(workers))
	now := time.Now()

	d.mu.Lock()
	for _, w := range workers {
		u := User{ID: w.ID, DisplayName: w.DisplayName, Role: w.Role}
		d.cache[u.ID] = cachedUser{user: u, fetched: now}
		users = append(users, u)
	}
	d.mu.Unlock()

	return users, nil
}

func (d *StoreDirectory) RoleOf(ctx context.Context, id string) (model.Role, error) {
	u, err := d.Resolve(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

func (d *StoreDirectory) Resolve(ctx context.Context, id string) (User, error) {
	d.mu.RLock()
	entry, ok := d.cache[id]
	d.mu.RUnlock()
	if ok && time.Since(entry.fetched) < cacheTTL {
		return entry.user, nil
	}

	w, err := d.store.GetWorker(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return User{}, ErrUnknownUser
	}
	if err != nil {
		return User{}, err
	}

	u := User{ID: w.ID, DisplayName: w.DisplayName, Role: w.Role}
	d.mu.Lock()
	d.cache[id] = cachedUser{user: u, fetched: time.Now()}
	d.mu.Unlock()

	return u, nil
}

// Invalidate drops the cached entry for an identity. Called after worker
// create/update/delete so role changes take effect immediately on this node.
func (d *StoreDirectory) Invalidate(id string) {
	d.mu.Lock()
	delete(d.cache, id)
	d.mu.Unlock()
}
