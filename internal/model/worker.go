package model

import "time"

// Status is the three-state availability toggle shown on the board.
type Status string

const (
	// StatusGreen means the worker is ready to receive files.
	StatusGreen Status = "green"
	// StatusNeutral is the cleared state every worker starts (and resets) in.
	StatusNeutral Status = "neutral"
	// StatusRed means the worker is unavailable.
	StatusRed Status = "red"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsValid checks whether the status is a known value.
func (s Status) IsValid() bool {
	switch s {
	case StatusGreen, StatusNeutral, StatusRed:
		return true
	}
	return false
}

// MaxCounter is the inclusive upper bound for a worker's file counter.
const MaxCounter = 99

// Worker is one row on the board: a tracked underwriter's current state.
//
// Invariants maintained by the board package:
//   - Status == StatusNeutral exactly when StatusChangedAt is nil.
//   - 0 <= Counter <= MaxCounter.
//
// StatusChangedAt is the sortable instant of the last non-neutral toggle;
// StatusChangedLabel is the human-readable rendering of the same instant in
// the board's fixed timezone.
type Worker struct {
	ID                 string     `json:"id"`
	DisplayName        string     `json:"display_name"`
	Role               Role       `json:"role"`
	Status             Status     `json:"status"`
	Counter            int        `json:"counter"`
	StatusChangedAt    *time.Time `json:"status_changed_at,omitempty"`
	StatusChangedLabel string     `json:"status_changed_label,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewWorker returns a worker in its creation state: neutral, zero counter,
// no status timestamp.
func NewWorker(id, displayName string, role Role, now time.Time) *Worker {
	return &Worker{
		ID:          id,
		DisplayName: displayName,
		Role:        role,
		Status:      StatusNeutral,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Clone returns a deep copy of the worker.
func (w *Worker) Clone() *Worker {
	c := *w
	if w.StatusChangedAt != nil {
		t := *w.StatusChangedAt
		c.StatusChangedAt = &t
	}
	return &c
}
