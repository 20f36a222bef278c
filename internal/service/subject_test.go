package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/service"
)

func TestEnsureClassifiedCreatesAndClassifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sub, err := env.subjects.EnsureClassified(ctx, service.EnsureClassifiedRequest{
		Scheme:     string(domain.SchemeTag),
		Identifier: "Science Fiction",
	})
	require.NoError(t, err)
	require.True(t, sub.Checked)
	require.Equal(t, "Science Fiction", sub.GenreName)
	require.NotNil(t, sub.Fiction)
	require.True(t, *sub.Fiction)

	// The decision is persisted, not just returned.
	got, err := env.store.GetSubjectByKey(ctx, domain.SchemeTag, "Science Fiction")
	require.NoError(t, err)
	require.True(t, got.Checked)
	require.Equal(t, "Science Fiction", got.GenreName)

	rec, err := env.coverage.Lookup(sub.ID, domain.CoverageClassify)
	require.NoError(t, err)
	require.True(t, rec.Succeeded())
}

func TestEnsureClassifiedUsesCachedDecision(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.subjects.EnsureClassified(ctx, service.EnsureClassifiedRequest{
		Scheme:     string(domain.SchemeDDC),
		Identifier: "813",
	})
	require.NoError(t, err)
	require.True(t, first.Checked)

	second, err := env.subjects.EnsureClassified(ctx, service.EnsureClassifiedRequest{
		Scheme:     string(domain.SchemeDDC),
		Identifier: "813",
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.GenreName, second.GenreName)
	require.True(t, first.UpdatedAt.Equal(second.UpdatedAt))
}

func TestEnsureClassifiedValidates(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.subjects.EnsureClassified(context.Background(), service.EnsureClassifiedRequest{
		Scheme:     string(domain.SchemeTag),
		Identifier: "",
	})
	require.Error(t, err)
}

func TestReclassifySubjectForcesRecomputation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// A subject with a stale manual decision.
	sub := &domain.Subject{
		Scheme:     domain.SchemeTag,
		Identifier: "Science Fiction",
		GenreName:  "Romance",
		Checked:    true,
	}
	sub.ID = "sub-stale"
	sub.InitTimestamps()
	require.NoError(t, env.store.CreateSubject(ctx, sub))

	got, err := env.subjects.Reclassify(ctx, domain.SchemeTag, "Science Fiction")
	require.NoError(t, err)
	require.Equal(t, "Science Fiction", got.GenreName)
}

func TestClassifyPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	identifiers := []string{"Science Fiction", "True Crime", "Cooking"}
	for i, ident := range identifiers {
		sub := &domain.Subject{
			Scheme:     domain.SchemeTag,
			Identifier: ident,
		}
		sub.ID = "sub-" + string(rune('a'+i))
		sub.InitTimestamps()
		require.NoError(t, env.store.CreateSubject(ctx, sub))
	}

	n, err := env.subjects.ClassifyPending(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, len(identifiers), n)

	remaining, err := env.store.ListUncheckedSubjects(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, remaining)

	// A second pass finds nothing to do.
	n, err = env.subjects.ClassifyPending(ctx, 10)
	require.NoError(t, err)
	require.Zero(t, n)
}
