package board

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is returned when the authorization gate rejects an
// operation. The rejection happens locally, before any store I/O.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUnknownWorker is returned when an operation targets a worker that is
// not on the board.
var ErrUnknownWorker = errors.New("unknown worker")

// PersistenceError wraps a store failure that survived the transport retry
// policy. Callers must treat it as a signal to reload the full ledger from
// the store rather than retrying the same logical operation.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceFailure reports whether err is (or wraps) a PersistenceError.
func IsPersistenceFailure(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
