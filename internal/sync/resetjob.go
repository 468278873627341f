package sync

import (
	"context"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/groblegark/deskboard/internal/board"
	"github.com/groblegark/deskboard/internal/clock"
	"github.com/groblegark/deskboard/internal/events"
	"github.com/groblegark/deskboard/internal/store"
)

// ResetJob is a safety net for the daily reset: the server applies the reset
// lazily on the first board load after the day boundary, but on a quiet
// morning that load may come hours late. The job polls the civil date and
// applies the reset as soon as it rolls over, so subscribers see a fresh
// board at the boundary rather than whenever someone first looks.
//
// Running it alongside the lazy reset is safe: resetting an already-reset
// board is a no-op.
type ResetJob struct {
	store     store.Store
	publisher events.Publisher
	clock     clock.Clock
	interval  time.Duration
	logger    *slog.Logger

	cancel context.CancelFunc
	wg     gosync.WaitGroup
}

// NewResetJob creates a reset job that checks the civil date at the given
// interval.
func NewResetJob(s store.Store, p events.Publisher, c clock.Clock, interval time.Duration, logger *slog.Logger) *ResetJob {
	return &ResetJob{
		store:     s,
		publisher: p,
		clock:     c,
		interval:  interval,
		logger:    logger,
	}
}

// Start begins the periodic check. It checks once immediately.
func (j *ResetJob) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	j.cancel = cancel

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		j.run(ctx)
	}()
}

// Stop cancels the job and waits for the current check (if any) to finish.
func (j *ResetJob) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
}

func (j *ResetJob) run(ctx context.Context) {
	j.checkOnce(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.checkOnce(ctx)
		}
	}
}

func (j *ResetJob) checkOnce(ctx context.Context) {
	ledger, err := j.store.LoadLedger(ctx)
	if err != nil {
		j.logger.Error("reset job load failed", "err", err)
		return
	}

	today := j.clock.Today()
	if !board.CheckAndReset(ledger, today) {
		return
	}

	if err := j.store.ResetBoard(ctx, today); err != nil {
		j.logger.Error("reset job failed", "epoch", today, "err", err)
		return
	}
	j.logger.Info("daily board reset applied by reset job", "epoch", today)

	if err := j.publisher.Publish(ctx, events.TopicBoardReset, events.BoardReset{Epoch: today}); err != nil {
		j.logger.Error("reset job publish failed", "err", err)
	}
}
