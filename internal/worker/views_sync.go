package worker

import (
	"context"
	"log/slog"
	"time"
)

// ViewFlusher drains buffered view counters.
type ViewFlusher interface {
	Flush(ctx context.Context, apply func(ctx context.Context, articleID, delta int64) error) (int, error)
}

// ViewStore persists flushed view deltas.
type ViewStore interface {
	AddViews(ctx context.Context, id, delta int64) error
}

// ViewsSync periodically moves view counts from the cache into the database.
type ViewsSync struct {
	counter  ViewFlusher
	store    ViewStore
	interval time.Duration
	logger   *slog.Logger
}

func NewViewsSync(counter ViewFlusher, store ViewStore, interval time.Duration, logger *slog.Logger) *ViewsSync {
	return &ViewsSync{
		counter:  counter,
		store:    store,
		interval: interval,
		logger:   logger.With("component", "views_sync"),
	}
}

// Run blocks until ctx is cancelled. A last flush runs on the way out so that
// views counted since the previous tick are not lost on shutdown.
func (w *ViewsSync) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("views sync started", "interval", w.interval)
	for {
		select {
		case <-ctx.Done():
			finalCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			w.SyncOnce(finalCtx)
			cancel()
			w.logger.Info("views sync stopped")
			return nil
		case <-ticker.C:
			w.SyncOnce(ctx)
		}
	}
}

// SyncOnce flushes all pending counters and returns how many articles were updated.
func (w *ViewsSync) SyncOnce(ctx context.Context) int {
	flushed, err := w.counter.Flush(ctx, w.store.AddViews)
	if err != nil {
		w.logger.Error("views sync error", "error", err)
	}
	if flushed > 0 {
		w.logger.Debug("views flushed", "articles", flushed)
	}
	return flushed
}
