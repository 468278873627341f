package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/groblegark/deskboard/internal/store"
)

// eventExportLimit caps how many recent audit events each export carries.
const eventExportLimit = 1000

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version     string    `json:"version"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Epoch       string    `json:"epoch"`
	WorkerCount int       `json:"worker_count"`
	EventCount  int       `json:"event_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ExportJSONL writes the board snapshot and recent audit events from the
// store as JSONL to w. Workers are sorted by ID so successive exports of an
// unchanged board are byte-identical.
func ExportJSONL(ctx context.Context, s store.Store, w io.Writer) error {
	ledger, err := s.LoadLedger(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	workers := make([]string, 0, len(ledger.Workers))
	for id := range ledger.Workers {
		workers = append(workers, id)
	}
	sort.Strings(workers)

	events, err := s.ListEvents(ctx, "", eventExportLimit)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:     "1",
		Type:        "header",
		Timestamp:   time.Now().UTC(),
		Epoch:       ledger.LastResetEpoch,
		WorkerCount: len(workers),
		EventCount:  len(events),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for _, id := range workers {
		if err := enc.Encode(record{Type: "worker", Data: ledger.Workers[id]}); err != nil {
			return fmt.Errorf("encode worker %s: %w", id, err)
		}
	}

	for _, e := range events {
		if err := enc.Encode(record{Type: "event", Data: e}); err != nil {
			return fmt.Errorf("encode event %s: %w", e.ID, err)
		}
	}

	return nil
}
