// Package authz is the authorization gate for board mutations. All checks
// are pure functions of the actor and target; they are evaluated on every
// mutating call (the target varies per call even though the role is fixed
// per session) and always before any I/O is attempted.
package authz

import "github.com/groblegark/deskboard/internal/model"

// CanEditStatus reports whether the actor may toggle the status of the
// worker with the given id. Assigners may edit anyone; underwriters may only
// edit their own record.
func CanEditStatus(actor model.Actor, targetID string) bool {
	return actor.IsAssigner() || actor.ID == targetID
}

// CanEditCounter reports whether the actor may adjust any counter.
// Counters are assigner-only.
func CanEditCounter(actor model.Actor) bool {
	return actor.IsAssigner()
}

// CanViewCounter reports whether the actor may read counters. The read and
// write rules are identical: counters are assigner-only in both directions.
func CanViewCounter(actor model.Actor) bool {
	return CanEditCounter(actor)
}

// CanManageWorkers reports whether the actor may add or remove workers.
func CanManageWorkers(actor model.Actor) bool {
	return actor.IsAssigner()
}
