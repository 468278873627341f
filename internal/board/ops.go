// Package board holds the board's core logic: status toggling, counter
// clamping, the daily reset policy, and the display sort order. Everything
// here is synchronous and free of I/O; persistence and push updates happen
// around these functions, in the server and the client session.
package board

import (
	"fmt"

	"github.com/groblegark/deskboard/internal/clock"
	"github.com/groblegark/deskboard/internal/model"
)

// Toggle applies the status-toggle semantics to a worker in place:
// requesting the status the worker already has clears it back to neutral
// (second click), any other status is set directly in one step. There is no
// three-click cycle; setting green while red is active overwrites to green.
//
// The now stamp is recorded on transitions to a non-neutral status and
// cleared on transitions to neutral. Returns false when the worker was
// already neutral and the toggle resolves to neutral again (nothing to
// persist).
func Toggle(w *model.Worker, requested model.Status, now clock.Stamp) (bool, error) {
	if !requested.IsValid() {
		return false, fmt.Errorf("invalid status %q", requested)
	}

	next := requested
	if w.Status == requested {
		next = model.StatusNeutral
	}
	if next == w.Status {
		return false, nil
	}

	w.Status = next
	if next == model.StatusNeutral {
		w.StatusChangedAt = nil
		w.StatusChangedLabel = ""
	} else {
		t := now.AsTime()
		w.StatusChangedAt = &t
		w.StatusChangedLabel = now.Display
	}
	return true, nil
}

// Adjust applies a counter delta to a worker in place, clamped to
// [0, model.MaxCounter]. Returns false when the clamped result equals the
// current value (e.g. decrementing below zero), in which case no write
// should be issued.
func Adjust(w *model.Worker, delta int) bool {
	next := clamp(w.Counter+delta, 0, model.MaxCounter)
	if next == w.Counter {
		return false
	}
	w.Counter = next
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
