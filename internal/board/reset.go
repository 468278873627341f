package board

import "github.com/groblegark/deskboard/internal/model"

// CheckAndReset applies the daily reset policy to the ledger in place. When
// the ledger's epoch already matches today it is a no-op. Otherwise every
// worker is wiped back to its creation values (neutral, zero counter, no
// status timestamp) and the epoch is set to today.
//
// Returns whether a reset occurred; when it did, the caller owes the store
// exactly one full-ledger write. Calling twice with the same date yields the
// same ledger as calling once.
func CheckAndReset(l *model.Ledger, today string) bool {
	if l.LastResetEpoch == today {
		return false
	}

	for _, w := range l.Workers {
		w.Status = model.StatusNeutral
		w.Counter = 0
		w.StatusChangedAt = nil
		w.StatusChangedLabel = ""
	}
	l.LastResetEpoch = today
	return true
}
