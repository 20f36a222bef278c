package batch_test

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/NYPL-Simplified/circulation-core/internal/batch"
	"github.com/NYPL-Simplified/circulation-core/internal/classification"
	"github.com/NYPL-Simplified/circulation-core/internal/config"
	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
	"github.com/NYPL-Simplified/circulation-core/internal/service"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
	"github.com/NYPL-Simplified/circulation-core/internal/store/sqlite"
)

func newTestRunner(t *testing.T) (*batch.Runner, store.Store) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(discard{}, nil))
	st, err := sqlite.Open(filepath.Join(t.TempDir(), "catalog.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	registry := classification.NewRegistry(genres.Load())
	subjects := service.NewSubjectService(st, nil, registry, logger)
	works := service.NewWorkService(st, nil, registry, logger)

	runner := batch.New(config.BatchConfig{
		Workers:  2,
		Size:     10,
		Interval: time.Minute,
	}, st, subjects, works, logger)
	return runner, st
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestRunOnceResolvesUnassignedPools(t *testing.T) {
	runner, st := newTestRunner(t)
	ctx := context.Background()

	for i, title := range []string{"Moby Dick", "Typee", "Omoo"} {
		ed := &domain.Edition{
			Title:      title,
			Author:     "Melville, Herman",
			Medium:     domain.MediumBook,
			Language:   "eng",
			DataSource: domain.SourceGutenberg,
		}
		ed.ID = "ed-" + string(rune('a'+i))
		ed.InitTimestamps()
		ed.CalculatePermanentWorkID()
		require.NoError(t, st.CreateEdition(ctx, ed))

		pool := &domain.LicensePool{
			DataSource:            domain.SourceGutenberg,
			Identifier:            "ident-" + ed.ID,
			OpenAccess:            true,
			LicensesOwned:         1,
			HasDeliverable:        true,
			PresentationEditionID: ed.ID,
		}
		pool.ID = "pool-" + string(rune('a'+i))
		pool.InitTimestamps()
		require.NoError(t, st.CreatePool(ctx, pool))
	}

	// One pool with no edition resolves to no work.
	orphan := &domain.LicensePool{
		DataSource:     domain.SourceGutenberg,
		Identifier:     "ident-orphan",
		OpenAccess:     true,
		LicensesOwned:  1,
		HasDeliverable: true,
	}
	orphan.ID = "pool-orphan"
	orphan.InitTimestamps()
	require.NoError(t, st.CreatePool(ctx, orphan))

	sub := &domain.Subject{Scheme: domain.SchemeTag, Identifier: "Sea Stories"}
	sub.ID = "sub-1"
	sub.InitTimestamps()
	require.NoError(t, st.CreateSubject(ctx, sub))

	stats, err := runner.RunOnce(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats.SubjectsClassified)
	require.Equal(t, 3, stats.PoolsResolved)
	require.Equal(t, 1, stats.PoolsDetached)
	require.Zero(t, stats.Failures)

	// A second pass re-sees only the detached pool; everything else is
	// settled.
	stats, err = runner.RunOnce(ctx)
	require.NoError(t, err)
	require.Zero(t, stats.SubjectsClassified)
	require.Zero(t, stats.PoolsResolved)
	require.Equal(t, 1, stats.PoolsDetached)
}

func TestRunStopsOnCancel(t *testing.T) {
	runner, _ := newTestRunner(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runner.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop on cancel")
	}
}
