package store_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
)

func setupCoverageStore(t *testing.T) *store.CoverageStore {
	t.Helper()

	s, err := store.OpenCoverage(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestCoverage_RecordAndLookup(t *testing.T) {
	s := setupCoverageStore(t)

	err := s.Record(&domain.CoverageRecord{
		EntityID:  "sub-1",
		Operation: domain.CoverageClassify,
	})
	require.NoError(t, err)

	rec, err := s.Lookup("sub-1", domain.CoverageClassify)
	require.NoError(t, err)
	require.True(t, rec.Succeeded())
	require.False(t, rec.Timestamp.IsZero())

	_, err = s.Lookup("sub-2", domain.CoverageClassify)
	require.True(t, errors.Is(err, store.ErrNotFound))
}

func TestCoverage_CoveredTracksFailures(t *testing.T) {
	s := setupCoverageStore(t)

	err := s.Record(&domain.CoverageRecord{
		EntityID:  "pool-1",
		Operation: domain.CoverageCalculateWork,
		Exception: "no presentation edition",
	})
	require.NoError(t, err)

	covered, err := s.Covered("pool-1", domain.CoverageCalculateWork)
	require.NoError(t, err)
	require.False(t, covered)

	failures, err := s.Failures(domain.CoverageCalculateWork)
	require.NoError(t, err)
	require.Len(t, failures, 1)
	require.Equal(t, "pool-1", failures[0].EntityID)

	// A later success overwrites the failure.
	err = s.Record(&domain.CoverageRecord{
		EntityID:  "pool-1",
		Operation: domain.CoverageCalculateWork,
	})
	require.NoError(t, err)

	covered, err = s.Covered("pool-1", domain.CoverageCalculateWork)
	require.NoError(t, err)
	require.True(t, covered)
}

func TestCoverage_Transfer(t *testing.T) {
	s := setupCoverageStore(t)

	require.NoError(t, s.Record(&domain.CoverageRecord{
		EntityID:  "work-loser",
		Operation: domain.CoverageCalculateWork,
	}))
	require.NoError(t, s.Record(&domain.CoverageRecord{
		EntityID:  "work-loser",
		Operation: domain.CoverageUpdateSearchDoc,
	}))
	// The winner already has this one; the loser's copy is dropped.
	require.NoError(t, s.Record(&domain.CoverageRecord{
		EntityID:  "work-winner",
		Operation: domain.CoverageCalculateWork,
		Exception: "stale failure",
	}))

	require.NoError(t, s.Transfer("work-loser", "work-winner"))

	_, err := s.Lookup("work-loser", domain.CoverageCalculateWork)
	require.True(t, errors.Is(err, store.ErrNotFound))
	_, err = s.Lookup("work-loser", domain.CoverageUpdateSearchDoc)
	require.True(t, errors.Is(err, store.ErrNotFound))

	// Existing winner record untouched.
	rec, err := s.Lookup("work-winner", domain.CoverageCalculateWork)
	require.NoError(t, err)
	require.Equal(t, "stale failure", rec.Exception)

	// Moved record rewritten under the winner's ID.
	rec, err = s.Lookup("work-winner", domain.CoverageUpdateSearchDoc)
	require.NoError(t, err)
	require.Equal(t, "work-winner", rec.EntityID)
}

func TestCoverage_DeleteEntity(t *testing.T) {
	s := setupCoverageStore(t)

	require.NoError(t, s.Record(&domain.CoverageRecord{
		EntityID:  "work-1",
		Operation: domain.CoverageCalculateWork,
	}))

	require.NoError(t, s.DeleteEntity("work-1"))

	_, err := s.Lookup("work-1", domain.CoverageCalculateWork)
	require.True(t, errors.Is(err, store.ErrNotFound))
}
