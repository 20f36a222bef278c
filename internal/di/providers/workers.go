package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/NYPL-Simplified/circulation-core/internal/batch"
	"github.com/NYPL-Simplified/circulation-core/internal/config"
	"github.com/NYPL-Simplified/circulation-core/internal/logger"
	"github.com/NYPL-Simplified/circulation-core/internal/service"
)

const (
	// shutdownTimeout is the maximum time to wait for a running maintenance
	// pass to finish on shutdown.
	shutdownTimeout = 30 * time.Second
)

// BatchRunnerHandle wraps the batch runner with its context for lifecycle
// management.
type BatchRunnerHandle struct {
	*batch.Runner
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (h *BatchRunnerHandle) Shutdown() error {
	h.cancel()
	select {
	case <-h.done:
		return nil
	case <-time.After(shutdownTimeout):
		return context.DeadlineExceeded
	}
}

// ProvideBatchRunner provides the background maintenance runner, started.
func ProvideBatchRunner(i do.Injector) (*BatchRunnerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	subjects := do.MustInvoke[*service.SubjectService](i)
	works := do.MustInvoke[*service.WorkService](i)
	log := do.MustInvoke[*logger.Logger](i)

	runner := batch.New(cfg.Batch, storeHandle.Store, subjects, works, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = runner.Run(ctx)
	}()

	log.Info("Batch runner started",
		"workers", cfg.Batch.Workers,
		"batch_size", cfg.Batch.Size,
		"interval", cfg.Batch.Interval,
	)

	return &BatchRunnerHandle{
		Runner: runner,
		cancel: cancel,
		done:   done,
	}, nil
}
