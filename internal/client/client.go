// Package client provides a transport-agnostic interface for the deskboard
// service, an HTTP/JSON implementation with retry, and an optimistic local
// session for interactive use.
package client

import (
	"context"
	"time"

	"github.com/groblegark/deskboard/internal/model"
)

// BoardClient is the interface that all desk CLI commands use to communicate
// with the board server. It is implemented by HTTPClient (default) and can be
// backed by any transport.
type BoardClient interface {
	// Board
	GetBoard(ctx context.Context, actor string) (*BoardResponse, error)
	SetStatus(ctx context.Context, actor, workerID string, status model.Status) (*model.Worker, error)
	AdjustCounter(ctx context.Context, actor, workerID string, delta int) (*model.Worker, error)

	// Workers. Reads return BoardRow: the server renders workers per actor
	// and redacts counters the actor may not see.
	CreateWorker(ctx context.Context, req *CreateWorkerRequest) (*model.Worker, error)
	GetWorker(ctx context.Context, actor, id string) (*BoardRow, error)
	ListWorkers(ctx context.Context, actor string) ([]BoardRow, error)
	DeleteWorker(ctx context.Context, actor, id string) error

	// Directory
	ListUsers(ctx context.Context) ([]User, error)

	// Audit
	ListEvents(ctx context.Context, actor, workerID string, limit int) ([]*model.Event, error)

	// Health
	Health(ctx context.Context) (string, error)

	// Lifecycle
	Close() error
}

// CreateWorkerRequest holds parameters for adding a worker to the board.
type CreateWorkerRequest struct {
	Actor       string     `json:"actor"`
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Role        model.Role `json:"role,omitempty"`
}

// BoardRow is one worker as rendered by the server for a particular actor.
// Counter is nil when the server redacted it.
type BoardRow struct {
	ID                 string       `json:"id"`
	DisplayName        string       `json:"display_name"`
	Role               model.Role   `json:"role"`
	Status             model.Status `json:"status"`
	StatusChangedAt    *time.Time   `json:"status_changed_at,omitempty"`
	StatusChangedLabel string       `json:"status_changed_label,omitempty"`
	Counter            *int         `json:"counter,omitempty"`
}

// BoardResponse is the GET /v1/board response: rows already in display order.
type BoardResponse struct {
	Epoch   string     `json:"epoch"`
	Workers []BoardRow `json:"workers"`
}

// User is a directory entry returned by ListUsers.
type User struct {
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
	Role        model.Role `json:"role"`
}
