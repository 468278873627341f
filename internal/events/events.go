package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/groblegark/deskboard/internal/model"
)

// Event topic constants
const (
	TopicStatusChanged  = "board.status.changed"
	TopicCounterChanged = "board.counter.changed"
	TopicBoardReset     = "board.reset"
	TopicWorkerAdded    = "board.worker.added"
	TopicWorkerRemoved  = "board.worker.removed"
)

// WorkerRef is the worker snapshot embedded in event payloads. It carries no
// counter: counter values appear only as top-level CounterChanged fields so
// RedactCounters can strip them before a payload reaches consumers who may
// not view counters.
type WorkerRef struct {
	ID                 string       `json:"id"`
	DisplayName        string       `json:"display_name"`
	Role               model.Role   `json:"role"`
	Status             model.Status `json:"status"`
	StatusChangedAt    *time.Time   `json:"status_changed_at,omitempty"`
	StatusChangedLabel string       `json:"status_changed_label,omitempty"`
}

// RefOf snapshots a worker for embedding in an event payload.
func RefOf(w *model.Worker) WorkerRef {
	return WorkerRef{
		ID:                 w.ID,
		DisplayName:        w.DisplayName,
		Role:               w.Role,
		Status:             w.Status,
		StatusChangedAt:    w.StatusChangedAt,
		StatusChangedLabel: w.StatusChangedLabel,
	}
}

// Event types

type StatusChanged struct {
	Worker   WorkerRef    `json:"worker"`
	Previous model.Status `json:"previous"`
	Actor    string       `json:"actor,omitempty"`
}

type CounterChanged struct {
	Worker   WorkerRef `json:"worker"`
	Counter  int       `json:"counter"`
	Previous int       `json:"previous"`
	Delta    int       `json:"delta"`
	Actor    string    `json:"actor,omitempty"`
}

type BoardReset struct {
	Epoch string `json:"epoch"` // civil date the board rolled into
}

type WorkerAdded struct {
	Worker WorkerRef `json:"worker"`
	Actor  string    `json:"actor,omitempty"`
}

type WorkerRemoved struct {
	WorkerID string `json:"worker_id"`
	Actor    string `json:"actor,omitempty"`
}

// counterPayloadFields are the CounterChanged fields hidden from consumers
// who may not view counters.
var counterPayloadFields = []string{"counter", "previous", "delta"}

// RedactCounters returns the serialized payload with counter values stripped
// when the topic carries them. Payloads for other topics pass through
// unchanged. A counter payload that cannot be parsed is replaced with an
// empty object rather than passed along.
func RedactCounters(topic string, payload []byte) []byte {
	if topic != TopicCounterChanged || len(payload) == 0 {
		return payload
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return []byte("{}")
	}
	for _, f := range counterPayloadFields {
		delete(fields, f)
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return []byte("{}")
	}
	return out
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
