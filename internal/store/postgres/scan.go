package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/groblegark/deskboard/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanWorker scans a single row into a model.Worker.
// The row must contain columns in the order defined by workerColumns.
func scanWorker(row scannable) (*model.Worker, error) {
	var w model.Worker
	var (
		changedAt    sql.NullTime
		changedLabel sql.NullString
	)

	err := row.Scan(
		&w.ID,
		&w.DisplayName,
		&w.Role,
		&w.Status,
		&w.Counter,
		&changedAt,
		&changedLabel,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if changedAt.Valid {
		t := changedAt.Time
		w.StatusChangedAt = &t
	}
	w.StatusChangedLabel = changedLabel.String

	return &w, nil
}

// scanWorkers scans multiple rows into a slice of model.Worker pointers.
func scanWorkers(rows *sql.Rows) ([]*model.Worker, error) {
	var workers []*model.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return workers, nil
}

// scanEvent scans a single row into a model.Event.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var (
		workerID sql.NullString
		actor    sql.NullString
		payload  []byte
	)
	err := row.Scan(&e.ID, &e.Topic, &workerID, &actor, &payload, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.WorkerID = workerID.String
	e.Actor = actor.String
	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	return &e, nil
}

// scanEvents scans multiple rows into a slice of model.Event pointers.
func scanEvents(rows *sql.Rows) ([]*model.Event, error) {
	var events []*model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// nullTimePtr converts a *time.Time to a sql.NullTime.
func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullString converts a string to sql.NullString; empty string is null.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// jsonbBytes converts json.RawMessage to a []byte suitable for JSONB columns.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}
