package model

// Ledger is the complete current state of the board: every tracked worker
// plus the civil date of the last daily reset. It is the single shared
// mutable resource; writes go to the store one record at a time, so there is
// no cross-record transactionality outside the daily reset.
type Ledger struct {
	Workers        map[string]*Worker `json:"workers"`
	LastResetEpoch string             `json:"last_reset_epoch"`
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{Workers: make(map[string]*Worker)}
}

// Get returns the worker with the given id, or nil.
func (l *Ledger) Get(id string) *Worker {
	return l.Workers[id]
}

// Put inserts or replaces a worker record.
func (l *Ledger) Put(w *Worker) {
	if l.Workers == nil {
		l.Workers = make(map[string]*Worker)
	}
	l.Workers[w.ID] = w
}

// Remove deletes a worker record.
func (l *Ledger) Remove(id string) {
	delete(l.Workers, id)
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{
		Workers:        make(map[string]*Worker, len(l.Workers)),
		LastResetEpoch: l.LastResetEpoch,
	}
	for id, w := range l.Workers {
		c.Workers[id] = w.Clone()
	}
	return c
}
