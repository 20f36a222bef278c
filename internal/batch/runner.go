// Package batch drives the recurring catalog maintenance passes: classifying
// pending subjects and resolving pools that have no work assignment.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/NYPL-Simplified/circulation-core/internal/config"
	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/service"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
)

// Stats summarizes one maintenance pass.
type Stats struct {
	SubjectsClassified int
	PoolsResolved      int
	PoolsDetached      int
	Failures           int
}

// Empty reports whether the pass found nothing to do.
func (s Stats) Empty() bool {
	return s.SubjectsClassified == 0 && s.PoolsResolved == 0 &&
		s.PoolsDetached == 0 && s.Failures == 0
}

// Runner executes maintenance passes on an interval until its context is
// cancelled. Pool resolution fans out over a worker pool; subject
// classification is cheap and runs inline.
type Runner struct {
	store    store.Store
	subjects *service.SubjectService
	works    *service.WorkService
	logger   *slog.Logger

	workers  int
	size     int
	interval time.Duration
}

// New creates a runner from batch configuration.
func New(cfg config.BatchConfig, st store.Store, subjects *service.SubjectService, works *service.WorkService, logger *slog.Logger) *Runner {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	size := cfg.Size
	if size < 1 {
		size = 100
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}
	return &Runner{
		store:    st,
		subjects: subjects,
		works:    works,
		logger:   logger,
		workers:  workers,
		size:     size,
		interval: interval,
	}
}

// Run loops maintenance passes until the context is cancelled. A pass that
// processed a full batch is followed immediately by another; an idle pass
// sleeps for the configured interval.
func (r *Runner) Run(ctx context.Context) error {
	for {
		stats, err := r.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			r.logger.Error("maintenance pass failed", "error", err)
		} else if !stats.Empty() {
			r.logger.Info("maintenance pass complete",
				"subjects_classified", stats.SubjectsClassified,
				"pools_resolved", stats.PoolsResolved,
				"pools_detached", stats.PoolsDetached,
				"failures", stats.Failures,
			)
		}

		wait := r.interval
		if stats.SubjectsClassified+stats.PoolsResolved >= r.size {
			// More work is probably queued; go straight back in.
			wait = 0
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// RunOnce executes one maintenance pass: classify up to one batch of
// unchecked subjects, then resolve up to one batch of unassigned pools.
func (r *Runner) RunOnce(ctx context.Context) (Stats, error) {
	var stats Stats

	classified, err := r.subjects.ClassifyPending(ctx, r.size)
	if err != nil {
		return stats, err
	}
	stats.SubjectsClassified = classified

	pools, err := r.store.ListPoolsWithoutWork(ctx, r.size)
	if err != nil {
		return stats, err
	}
	if len(pools) == 0 {
		return stats, nil
	}

	var resolved, detached, failures atomic.Int64

	jobs := make(chan *domain.LicensePool)
	var wg sync.WaitGroup
	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pool := range jobs {
				work, _, err := r.works.CalculateWork(ctx, pool.ID)
				switch {
				case err != nil:
					failures.Add(1)
					r.logger.Error("resolve pool failed", "pool_id", pool.ID, "error", err)
				case work == nil:
					detached.Add(1)
				default:
					resolved.Add(1)
				}
			}
		}()
	}

	for _, pool := range pools {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return stats, ctx.Err()
		case jobs <- pool:
		}
	}
	close(jobs)
	wg.Wait()

	stats.PoolsResolved = int(resolved.Load())
	stats.PoolsDetached = int(detached.Load())
	stats.Failures = int(failures.Load())
	return stats, nil
}
