package service_test

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NYPL-Simplified/circulation-core/internal/classification"
	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	domainerrors "github.com/NYPL-Simplified/circulation-core/internal/errors"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
	"github.com/NYPL-Simplified/circulation-core/internal/service"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
	"github.com/NYPL-Simplified/circulation-core/internal/store/sqlite"
)

type testEnv struct {
	store    store.Store
	coverage *store.CoverageStore
	works    *service.WorkService
	subjects *service.SubjectService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	dir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(dir, "catalog.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	coverage, err := store.OpenCoverage(filepath.Join(dir, "coverage"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { coverage.Close() })

	registry := classification.NewRegistry(genres.Load())

	return &testEnv{
		store:    st,
		coverage: coverage,
		works:    service.NewWorkService(st, coverage, registry, logger),
		subjects: service.NewSubjectService(st, coverage, registry, logger),
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func seedEdition(t *testing.T, env *testEnv, id, title, author string) *domain.Edition {
	t.Helper()
	ed := &domain.Edition{
		Title:      title,
		Author:     author,
		Medium:     domain.MediumBook,
		Language:   "eng",
		DataSource: domain.SourceGutenberg,
	}
	ed.ID = id
	ed.InitTimestamps()
	ed.CalculatePermanentWorkID()
	require.NoError(t, env.store.CreateEdition(context.Background(), ed))
	return ed
}

func seedPool(t *testing.T, env *testEnv, id string, ed *domain.Edition, openAccess bool, source string) *domain.LicensePool {
	t.Helper()
	pool := &domain.LicensePool{
		DataSource:     source,
		Identifier:     "ident-" + id,
		OpenAccess:     openAccess,
		LicensesOwned:  1,
		HasDeliverable: true,
	}
	if ed != nil {
		pool.PresentationEditionID = ed.ID
	}
	pool.ID = id
	pool.InitTimestamps()
	require.NoError(t, env.store.CreatePool(context.Background(), pool))
	return pool
}

func seedWork(t *testing.T, env *testEnv, id, pwid string, openAccess bool) *domain.Work {
	t.Helper()
	work := &domain.Work{
		PermanentWorkID: pwid,
		Medium:          domain.MediumBook,
		Language:        "eng",
		OpenAccess:      openAccess,
	}
	work.ID = id
	work.InitTimestamps()
	require.NoError(t, env.store.CreateWork(context.Background(), work))
	return work
}

func attachPool(t *testing.T, env *testEnv, pool *domain.LicensePool, workID string) {
	t.Helper()
	pool.WorkID = workID
	pool.Touch()
	require.NoError(t, env.store.UpdatePool(context.Background(), pool))
}

func TestCalculateWorkCreatesOpenAccessWork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ed := seedEdition(t, env, "ed-1", "Moby Dick", "Melville, Herman")
	pool := seedPool(t, env, "pool-1", ed, true, domain.SourceGutenberg)

	work, isNew, err := env.works.CalculateWork(ctx, pool.ID)
	require.NoError(t, err)
	require.True(t, isNew)
	require.NotNil(t, work)
	require.True(t, work.OpenAccess)
	require.Equal(t, ed.PermanentWorkID, work.PermanentWorkID)
	require.Equal(t, "Moby Dick", work.Title)
	require.True(t, work.PresentationReady)

	got, err := env.store.GetPool(ctx, pool.ID)
	require.NoError(t, err)
	require.Equal(t, work.ID, got.WorkID)
	require.False(t, got.Superceded)

	rec, err := env.coverage.Lookup(pool.ID, domain.CoverageCalculateWork)
	require.NoError(t, err)
	require.True(t, rec.Succeeded())
}

func TestCalculateWorkIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ed := seedEdition(t, env, "ed-1", "Moby Dick", "Melville, Herman")
	pool := seedPool(t, env, "pool-1", ed, true, domain.SourceGutenberg)

	first, isNew, err := env.works.CalculateWork(ctx, pool.ID)
	require.NoError(t, err)
	require.True(t, isNew)

	second, isNew, err := env.works.CalculateWork(ctx, pool.ID)
	require.NoError(t, err)
	require.False(t, isNew)
	require.Equal(t, first.ID, second.ID)
}

func TestOpenAccessPoolsShareOneWork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	edA := seedEdition(t, env, "ed-a", "Moby Dick", "Melville, Herman")
	edB := seedEdition(t, env, "ed-b", "Moby Dick", "Melville, Herman")
	require.Equal(t, edA.PermanentWorkID, edB.PermanentWorkID)

	poolA := seedPool(t, env, "pool-a", edA, true, domain.SourceGutenberg)
	poolB := seedPool(t, env, "pool-b", edB, true, domain.SourceContentServer)

	workA, _, err := env.works.CalculateWork(ctx, poolA.ID)
	require.NoError(t, err)
	workB, isNew, err := env.works.CalculateWork(ctx, poolB.ID)
	require.NoError(t, err)
	require.False(t, isNew)
	require.Equal(t, workA.ID, workB.ID)

	pools, err := env.store.ListPoolsForWork(ctx, workA.ID)
	require.NoError(t, err)
	require.Len(t, pools, 2)

	// Exactly one pool is the representative.
	var superceded int
	for _, p := range pools {
		if p.Superceded {
			superceded++
		}
	}
	require.Equal(t, 1, superceded)
}

func TestCommercialPoolsGetSeparateWorks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	edA := seedEdition(t, env, "ed-a", "Moby Dick", "Melville, Herman")
	edB := seedEdition(t, env, "ed-b", "Moby Dick", "Melville, Herman")

	poolA := seedPool(t, env, "pool-a", edA, false, domain.SourceOverdrive)
	poolB := seedPool(t, env, "pool-b", edB, false, domain.SourceBibliotheca)

	workA, isNew, err := env.works.CalculateWork(ctx, poolA.ID)
	require.NoError(t, err)
	require.True(t, isNew)
	workB, isNew, err := env.works.CalculateWork(ctx, poolB.ID)
	require.NoError(t, err)
	require.True(t, isNew)

	require.NotEqual(t, workA.ID, workB.ID)
	require.False(t, workA.OpenAccess)
	require.False(t, workB.OpenAccess)
}

func TestCalculateWorkDetachesPoolWithoutIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// No presentation edition at all.
	orphan := seedPool(t, env, "pool-orphan", nil, true, domain.SourceGutenberg)
	work, isNew, err := env.works.CalculateWork(ctx, orphan.ID)
	require.NoError(t, err)
	require.Nil(t, work)
	require.False(t, isNew)

	rec, err := env.coverage.Lookup(orphan.ID, domain.CoverageCalculateWork)
	require.NoError(t, err)
	require.False(t, rec.Succeeded())
	require.Contains(t, rec.Exception, "no presentation edition")

	// An edition with no title yields no permanent work ID.
	ed := seedEdition(t, env, "ed-untitled", "", "Anonymous")
	untitled := seedPool(t, env, "pool-untitled", ed, true, domain.SourceGutenberg)
	work, _, err = env.works.CalculateWork(ctx, untitled.ID)
	require.NoError(t, err)
	require.Nil(t, work)

	rec, err = env.coverage.Lookup(untitled.ID, domain.CoverageCalculateWork)
	require.NoError(t, err)
	require.Contains(t, rec.Exception, "no title")
}

func TestCalculateWorkSplitsInconsistentWork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	edA := seedEdition(t, env, "ed-a", "Moby Dick", "Melville, Herman")
	edB := seedEdition(t, env, "ed-b", "Moby Dick", "Melville, Herman")
	edC := seedEdition(t, env, "ed-c", "Typee", "Melville, Herman")
	require.NotEqual(t, edA.PermanentWorkID, edC.PermanentWorkID)

	// One work wrongly holding an open-access pool, a commercial pool of
	// the same title, and an open-access pool of a different title.
	shared := seedWork(t, env, "work-shared", edA.PermanentWorkID, true)
	poolA := seedPool(t, env, "pool-a", edA, true, domain.SourceGutenberg)
	poolB := seedPool(t, env, "pool-b", edB, false, domain.SourceOverdrive)
	poolC := seedPool(t, env, "pool-c", edC, true, domain.SourceGutenberg)
	attachPool(t, env, poolA, shared.ID)
	attachPool(t, env, poolB, shared.ID)
	attachPool(t, env, poolC, shared.ID)

	work, _, err := env.works.CalculateWork(ctx, poolA.ID)
	require.NoError(t, err)
	require.Equal(t, shared.ID, work.ID)

	gotA, err := env.store.GetPool(ctx, poolA.ID)
	require.NoError(t, err)
	gotB, err := env.store.GetPool(ctx, poolB.ID)
	require.NoError(t, err)
	gotC, err := env.store.GetPool(ctx, poolC.ID)
	require.NoError(t, err)

	// The triggering pool stays; the others each get their own work.
	require.Equal(t, shared.ID, gotA.WorkID)
	require.NotEqual(t, shared.ID, gotB.WorkID)
	require.NotEqual(t, shared.ID, gotC.WorkID)
	require.NotEqual(t, gotB.WorkID, gotC.WorkID)

	workB, err := env.store.GetWork(ctx, gotB.WorkID)
	require.NoError(t, err)
	require.False(t, workB.OpenAccess)

	workC, err := env.store.GetWork(ctx, gotC.WorkID)
	require.NoError(t, err)
	require.True(t, workC.OpenAccess)
	require.Equal(t, edC.PermanentWorkID, workC.PermanentWorkID)
}

func TestCalculateWorkMergesDuplicateWorks(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	edA := seedEdition(t, env, "ed-a", "Moby Dick", "Melville, Herman")
	edB := seedEdition(t, env, "ed-b", "Moby Dick", "Melville, Herman")
	edC := seedEdition(t, env, "ed-c", "Moby Dick", "Melville, Herman")

	// Two historical works cover the same identity key.
	w1 := seedWork(t, env, "work-1", edA.PermanentWorkID, false)
	w2 := seedWork(t, env, "work-2", edA.PermanentWorkID, false)
	poolA := seedPool(t, env, "pool-a", edA, true, domain.SourceGutenberg)
	poolB := seedPool(t, env, "pool-b", edB, true, domain.SourceContentServer)
	attachPool(t, env, poolA, w1.ID)
	attachPool(t, env, poolB, w2.ID)

	poolC := seedPool(t, env, "pool-c", edC, true, domain.SourceGutenberg)
	work, isNew, err := env.works.CalculateWork(ctx, poolC.ID)
	require.NoError(t, err)
	require.False(t, isNew)

	pools, err := env.store.ListPoolsForWork(ctx, work.ID)
	require.NoError(t, err)
	require.Len(t, pools, 3)
	require.True(t, work.OpenAccess)

	// Exactly one of the two old works survived.
	_, err1 := env.store.GetWork(ctx, w1.ID)
	_, err2 := env.store.GetWork(ctx, w2.ID)
	if work.ID == w1.ID {
		require.ErrorIs(t, err2, store.ErrNotFound)
	} else {
		require.Equal(t, w2.ID, work.ID)
		require.ErrorIs(t, err1, store.ErrNotFound)
	}
}

func TestMergeIntoRejectsMixedOpenAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ed := seedEdition(t, env, "ed-a", "Moby Dick", "Melville, Herman")
	oa := seedWork(t, env, "work-oa", ed.PermanentWorkID, true)
	commercial := seedWork(t, env, "work-comm", ed.PermanentWorkID, false)

	err := env.works.MergeInto(ctx, oa.ID, commercial.ID)
	require.Error(t, err)
	require.ErrorIs(t, err, domainerrors.ErrInvariantViolation)
	require.Contains(t, err.Error(), oa.ID)
	require.Contains(t, err.Error(), commercial.ID)
}

func TestMergeIntoRejectsDifferentIdentity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	edA := seedEdition(t, env, "ed-a", "Moby Dick", "Melville, Herman")
	edB := seedEdition(t, env, "ed-b", "Typee", "Melville, Herman")
	w1 := seedWork(t, env, "work-1", edA.PermanentWorkID, false)
	w2 := seedWork(t, env, "work-2", edB.PermanentWorkID, false)

	err := env.works.MergeInto(ctx, w1.ID, w2.ID)
	require.Error(t, err)
	require.ErrorIs(t, err, domainerrors.ErrInvariantViolation)
	require.Contains(t, err.Error(), edA.PermanentWorkID)
	require.Contains(t, err.Error(), edB.PermanentWorkID)
}

func TestMergeIntoMovesPoolsAndCoverage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	edA := seedEdition(t, env, "ed-a", "Moby Dick", "Melville, Herman")
	edB := seedEdition(t, env, "ed-b", "Moby Dick", "Melville, Herman")
	loser := seedWork(t, env, "work-loser", edA.PermanentWorkID, false)
	winner := seedWork(t, env, "work-winner", edA.PermanentWorkID, false)
	poolA := seedPool(t, env, "pool-a", edA, false, domain.SourceOverdrive)
	poolB := seedPool(t, env, "pool-b", edB, false, domain.SourceBibliotheca)
	attachPool(t, env, poolA, loser.ID)
	attachPool(t, env, poolB, winner.ID)

	require.NoError(t, env.coverage.Record(&domain.CoverageRecord{
		EntityID:  loser.ID,
		Operation: domain.CoverageUpdateSearchDoc,
	}))

	require.NoError(t, env.works.MergeInto(ctx, loser.ID, winner.ID))

	_, err := env.store.GetWork(ctx, loser.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	pools, err := env.store.ListPoolsForWork(ctx, winner.ID)
	require.NoError(t, err)
	require.Len(t, pools, 2)

	// The loser's coverage records moved to the winner.
	rec, err := env.coverage.Lookup(winner.ID, domain.CoverageUpdateSearchDoc)
	require.NoError(t, err)
	require.Equal(t, winner.ID, rec.EntityID)
	_, err = env.coverage.Lookup(loser.ID, domain.CoverageUpdateSearchDoc)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestMakeExclusiveOpenAccess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	edA := seedEdition(t, env, "ed-a", "Moby Dick", "Melville, Herman")
	edB := seedEdition(t, env, "ed-b", "Moby Dick", "Melville, Herman")
	edC := seedEdition(t, env, "ed-c", "Typee", "Melville, Herman")

	work := seedWork(t, env, "work-oa", edA.PermanentWorkID, true)
	keeper := seedPool(t, env, "pool-keeper", edA, true, domain.SourceGutenberg)
	commercial := seedPool(t, env, "pool-comm", edB, false, domain.SourceOverdrive)
	stranger := seedPool(t, env, "pool-stranger", edC, true, domain.SourceGutenberg)
	attachPool(t, env, keeper, work.ID)
	attachPool(t, env, commercial, work.ID)
	attachPool(t, env, stranger, work.ID)

	require.NoError(t, env.works.MakeExclusiveOpenAccess(ctx, edA.PermanentWorkID, domain.MediumBook, "eng"))

	pools, err := env.store.ListPoolsForWork(ctx, work.ID)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.Equal(t, keeper.ID, pools[0].ID)

	gotComm, err := env.store.GetPool(ctx, commercial.ID)
	require.NoError(t, err)
	require.NotEqual(t, work.ID, gotComm.WorkID)
	require.NotEmpty(t, gotComm.WorkID)

	gotStranger, err := env.store.GetPool(ctx, stranger.ID)
	require.NoError(t, err)
	require.NotEqual(t, work.ID, gotStranger.WorkID)
	require.NotEmpty(t, gotStranger.WorkID)
}

func TestChooseActive(t *testing.T) {
	mk := func(id string, suppressed, openAccess, deliverable bool, owned int, source string) *domain.LicensePool {
		p := &domain.LicensePool{
			DataSource:     source,
			Suppressed:     suppressed,
			OpenAccess:     openAccess,
			HasDeliverable: deliverable,
			LicensesOwned:  owned,
		}
		p.ID = id
		return p
	}
	titles := map[string]string{"a": "Moby Dick", "b": "Moby Dick"}

	t.Run("suppression loses", func(t *testing.T) {
		got := service.ChooseActive([]*domain.LicensePool{
			mk("a", true, true, true, 5, domain.SourceStaff),
			mk("b", false, false, false, 0, domain.SourceGutenberg),
		}, titles)
		require.Equal(t, "b", got.ID)
	})

	t.Run("open access wins", func(t *testing.T) {
		got := service.ChooseActive([]*domain.LicensePool{
			mk("a", false, false, true, 5, domain.SourceStaff),
			mk("b", false, true, false, 0, domain.SourceGutenberg),
		}, titles)
		require.Equal(t, "b", got.ID)
	})

	t.Run("more licenses win", func(t *testing.T) {
		got := service.ChooseActive([]*domain.LicensePool{
			mk("a", false, false, true, 1, domain.SourceOverdrive),
			mk("b", false, false, true, 3, domain.SourceOverdrive),
		}, titles)
		require.Equal(t, "b", got.ID)
	})

	t.Run("better source breaks ties", func(t *testing.T) {
		got := service.ChooseActive([]*domain.LicensePool{
			mk("a", false, true, true, 1, domain.SourceGutenberg),
			mk("b", false, true, true, 1, domain.SourceStaff),
		}, titles)
		require.Equal(t, "b", got.ID)
	})

	t.Run("lone pool always wins", func(t *testing.T) {
		got := service.ChooseActive([]*domain.LicensePool{
			mk("a", true, false, false, 0, domain.SourceGutenberg),
		}, nil)
		require.Equal(t, "a", got.ID)
	})

	t.Run("ties keep discovery order", func(t *testing.T) {
		got := service.ChooseActive([]*domain.LicensePool{
			mk("a", false, true, true, 1, domain.SourceGutenberg),
			mk("b", false, true, true, 1, domain.SourceGutenberg),
		}, titles)
		require.Equal(t, "a", got.ID)
	})
}

func TestReclassifyConsolidates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ed := seedEdition(t, env, "ed-1", "The Stars My Destination", "Bester, Alfred")
	pool := seedPool(t, env, "pool-1", ed, true, domain.SourceGutenberg)
	work, _, err := env.works.CalculateWork(ctx, pool.ID)
	require.NoError(t, err)

	sub := &domain.Subject{
		Scheme:     domain.SchemeTag,
		Identifier: "Science Fiction",
	}
	sub.ID = "sub-1"
	sub.InitTimestamps()
	require.NoError(t, env.store.CreateSubject(ctx, sub))

	cls := &domain.Classification{
		SubjectID:  sub.ID,
		EditionID:  ed.ID,
		DataSource: domain.SourceGutenberg,
		Weight:     10,
	}
	cls.ID = "cls-1"
	cls.InitTimestamps()
	require.NoError(t, env.store.CreateClassification(ctx, cls))

	require.NoError(t, env.works.Reclassify(ctx, work.ID))

	got, err := env.store.GetWork(ctx, work.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Fiction)
	require.True(t, *got.Fiction)
	require.Equal(t, domain.AudienceAdult, got.Audience)

	affinities, err := env.store.ListWorkGenres(ctx, work.ID)
	require.NoError(t, err)
	require.Len(t, affinities, 1)
	require.Equal(t, "Science Fiction", affinities[0].GenreName)
	require.InDelta(t, 1.0, affinities[0].Affinity, 0.001)

	// Classifying through a work marks the subject checked.
	gotSub, err := env.store.GetSubject(ctx, sub.ID)
	require.NoError(t, err)
	require.True(t, gotSub.Checked)
	require.Equal(t, "Science Fiction", gotSub.GenreName)
}

func TestCalculateWorkRetiresEmptiedWork(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ed := seedEdition(t, env, "ed-1", "Moby Dick", "Melville, Herman")
	work := seedWork(t, env, "work-1", ed.PermanentWorkID, true)
	pool := seedPool(t, env, "pool-1", ed, true, domain.SourceGutenberg)
	attachPool(t, env, pool, work.ID)

	// The pool loses its presentation edition; the work empties out.
	pool.PresentationEditionID = ""
	pool.Touch()
	require.NoError(t, env.store.UpdatePool(ctx, pool))

	got, _, err := env.works.CalculateWork(ctx, pool.ID)
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = env.store.GetWork(ctx, work.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCalculateWorkMissingPool(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.works.CalculateWork(context.Background(), "pool-missing")
	require.Error(t, err)
	require.True(t, errors.Is(err, store.ErrNotFound))
}
