package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MediaFacade exposes the subset of application functionality required by the janitor.
type MediaFacade interface {
	OrphanedMedia(ctx context.Context, cutoff time.Time) ([]string, error)
	RemoveMedia(ctx context.Context, name string) error
}

// MediaJanitor periodically removes stored files that no listing references.
// Such files are left behind when a crash interrupts cleanup of a failed listing.
type MediaJanitor struct {
	facade   MediaFacade
	interval time.Duration
	grace    time.Duration
	workers  int
	logger   *slog.Logger
	now      func() time.Time

	jobs   chan string
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewMediaJanitor constructs the janitor worker pool.
func NewMediaJanitor(facade MediaFacade, interval, grace time.Duration, workers int, logger *slog.Logger) *MediaJanitor {
	if workers <= 0 {
		workers = 1
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &MediaJanitor{
		facade:   facade,
		interval: interval,
		grace:    grace,
		workers:  workers,
		logger:   logger,
		now:      time.Now,
		jobs:     make(chan string, workers*4),
	}
}

// Start launches background sweeping.
func (j *MediaJanitor) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	for i := 0; i < j.workers; i++ {
		j.wg.Add(1)
		go j.worker(runCtx)
	}

	j.wg.Add(1)
	go j.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (j *MediaJanitor) Stop() {
	j.mu.Lock()
	if j.cancel != nil {
		j.cancel()
		j.cancel = nil
	}
	j.mu.Unlock()

	j.wg.Wait()
}

func (j *MediaJanitor) dispatch(ctx context.Context) {
	defer j.wg.Done()
	defer close(j.jobs)
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *MediaJanitor) sweep(ctx context.Context) {
	cutoff := j.now().Add(-j.grace)
	names, err := j.facade.OrphanedMedia(ctx, cutoff)
	if err != nil {
		j.logger.Error("list orphaned media failed", slog.String("error", err.Error()))
		return
	}
	if len(names) > 0 {
		j.logger.Info("removing orphaned media", slog.Int("count", len(names)), slog.Time("cutoff", cutoff))
	}
	for _, name := range names {
		select {
		case <-ctx.Done():
			return
		case j.jobs <- name:
		}
	}
}

func (j *MediaJanitor) worker(ctx context.Context) {
	defer j.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-j.jobs:
			if !ok {
				return
			}
			if err := j.facade.RemoveMedia(ctx, name); err != nil {
				j.logger.Error("remove orphaned media failed", slog.String("name", name), slog.String("error", err.Error()))
			}
		}
	}
}
