package model

import (
	"encoding/json"
	"time"
)

// Event is one audit-trail entry recording a board mutation.
type Event struct {
	ID        string          `json:"id"`
	Topic     string          `json:"topic"`
	WorkerID  string          `json:"worker_id,omitempty"`
	Actor     string          `json:"actor,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
