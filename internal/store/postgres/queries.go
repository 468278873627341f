package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/groblegark/deskboard/internal/model"
	"github.com/groblegark/deskboard/internal/store"
)

// workerColumns is the column list used for SELECT statements on the workers table.
const workerColumns = `id, display_name, role, status, counter,
	status_changed_at, status_changed_label, created_at, updated_at`

// epochMetaKey is the board_meta key holding the civil date of the last reset.
const epochMetaKey = "last_reset_epoch"

// executor is the interface satisfied by both *sql.DB and *sql.Tx.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func queryLoadLedger(ctx context.Context, db executor) (*model.Ledger, error) {
	workers, err := queryListWorkers(ctx, db)
	if err != nil {
		return nil, err
	}

	ledger := model.NewLedger()
	for _, w := range workers {
		ledger.Put(w)
	}

	epoch, err := queryGetMeta(ctx, db, epochMetaKey)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	ledger.LastResetEpoch = epoch

	return ledger, nil
}

func queryListWorkers(ctx context.Context, db executor) ([]*model.Worker, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+workerColumns+` FROM workers ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list workers: %w", err)
	}
	defer rows.Close()
	return scanWorkers(rows)
}

func queryGetWorker(ctx context.Context, db executor, id string) (*model.Worker, error) {
	row := db.QueryRowContext(ctx, `SELECT `+workerColumns+` FROM workers WHERE id = $1`, id)
	w, err := scanWorker(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return w, err
}

func queryCreateWorker(ctx context.Context, db executor, w *model.Worker) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO workers (
			id, display_name, role, status, counter,
			status_changed_at, status_changed_label, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		w.ID,
		w.DisplayName,
		string(w.Role),
		string(w.Status),
		w.Counter,
		nullTimePtr(w.StatusChangedAt),
		nullString(w.StatusChangedLabel),
		w.CreatedAt,
		w.UpdatedAt,
	)
	return err
}

// queryPutWorker upserts the mutable board fields of a single worker. This
// is the whole-record write granularity every status and counter change goes
// through; last write wins.
func queryPutWorker(ctx context.Context, db executor, w *model.Worker) error {
	res, err := db.ExecContext(ctx, `
		UPDATE workers SET
			display_name = $2,
			role = $3,
			status = $4,
			counter = $5,
			status_changed_at = $6,
			status_changed_label = $7,
			updated_at = $8
		WHERE id = $1`,
		w.ID,
		w.DisplayName,
		string(w.Role),
		string(w.Status),
		w.Counter,
		nullTimePtr(w.StatusChangedAt),
		nullString(w.StatusChangedLabel),
		w.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func queryDeleteWorker(ctx context.Context, db executor, id string) error {
	res, err := db.ExecContext(ctx, `DELETE FROM workers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// queryWipeWorkers returns every worker to its creation state. Part of the
// daily reset transaction.
func queryWipeWorkers(ctx context.Context, db executor) error {
	_, err := db.ExecContext(ctx, `
		UPDATE workers SET
			status = 'neutral',
			counter = 0,
			status_changed_at = NULL,
			status_changed_label = NULL,
			updated_at = now()`)
	return err
}

func queryGetMeta(ctx context.Context, db executor, key string) (string, error) {
	var value string
	err := db.QueryRowContext(ctx, `SELECT value FROM board_meta WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

func querySetResetEpoch(ctx context.Context, db executor, epoch string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO board_meta (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		epochMetaKey, epoch)
	return err
}

func queryRecordEvent(ctx context.Context, db executor, e *model.Event) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO audit_events (id, topic, worker_id, actor, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID,
		e.Topic,
		nullString(e.WorkerID),
		nullString(e.Actor),
		jsonbBytes(e.Payload),
		e.CreatedAt,
	)
	return err
}

func queryListEvents(ctx context.Context, db executor, workerID string, limit int) ([]*model.Event, error) {
	query := `SELECT id, topic, worker_id, actor, payload, created_at FROM audit_events`
	var args []any
	if workerID != "" {
		query += ` WHERE worker_id = $1`
		args = append(args, workerID)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, len(args)+1)
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}
