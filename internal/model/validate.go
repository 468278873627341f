package model

import "fmt"

// ValidateWorker checks the record-level invariants that every stored worker
// must satisfy.
func ValidateWorker(w *Worker) error {
	if w.ID == "" {
		return fmt.Errorf("worker id is required")
	}
	if w.DisplayName == "" {
		return fmt.Errorf("worker %s: display name is required", w.ID)
	}
	if !w.Role.IsValid() {
		return fmt.Errorf("worker %s: invalid role %q", w.ID, w.Role)
	}
	if !w.Status.IsValid() {
		return fmt.Errorf("worker %s: invalid status %q", w.ID, w.Status)
	}
	if w.Counter < 0 || w.Counter > MaxCounter {
		return fmt.Errorf("worker %s: counter %d out of range [0,%d]", w.ID, w.Counter, MaxCounter)
	}
	if (w.Status == StatusNeutral) != (w.StatusChangedAt == nil) {
		return fmt.Errorf("worker %s: status %q inconsistent with status timestamp", w.ID, w.Status)
	}
	return nil
}
