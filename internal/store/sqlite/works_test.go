package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
)

func TestCreateAndGetWork(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	w := makeTestWork("work-1", "abcd1234", true)
	w.Title = "Moby Dick"
	w.Author = "Melville, Herman"

	if err := s.CreateWork(ctx, w); err != nil {
		t.Fatalf("CreateWork: %v", err)
	}

	got, err := s.GetWork(ctx, "work-1")
	if err != nil {
		t.Fatalf("GetWork: %v", err)
	}
	if got.PermanentWorkID != "abcd1234" || !got.OpenAccess {
		t.Errorf("unexpected work: %+v", got)
	}
	if got.Title != "Moby Dick" {
		t.Errorf("expected title round-trip, got %q", got.Title)
	}
}

func TestOpenAccessIdentityIsUnique(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateWork(ctx, makeTestWork("work-1", "abcd1234", true)); err != nil {
		t.Fatalf("CreateWork: %v", err)
	}

	// Second open-access work with the same identity key must be refused.
	err := s.CreateWork(ctx, makeTestWork("work-2", "abcd1234", true))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}

	// Commercial works never group, so the same key is fine.
	if err := s.CreateWork(ctx, makeTestWork("work-3", "abcd1234", false)); err != nil {
		t.Errorf("commercial work with duplicate key: %v", err)
	}
	if err := s.CreateWork(ctx, makeTestWork("work-4", "abcd1234", false)); err != nil {
		t.Errorf("second commercial work with duplicate key: %v", err)
	}
}

func TestFindOpenAccessWork(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateWork(ctx, makeTestWork("work-1", "abcd1234", true)); err != nil {
		t.Fatalf("CreateWork: %v", err)
	}
	if err := s.CreateWork(ctx, makeTestWork("work-2", "abcd1234", false)); err != nil {
		t.Fatalf("CreateWork: %v", err)
	}

	got, err := s.FindOpenAccessWork(ctx, "abcd1234", domain.MediumBook, "eng")
	if err != nil {
		t.Fatalf("FindOpenAccessWork: %v", err)
	}
	if got.ID != "work-1" {
		t.Errorf("expected work-1, got %s", got.ID)
	}

	_, err = s.FindOpenAccessWork(ctx, "abcd1234", domain.MediumAudio, "eng")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for different medium, got %v", err)
	}
}

func TestDeleteWorkCascades(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateWork(ctx, makeTestWork("work-1", "abcd1234", true)); err != nil {
		t.Fatalf("CreateWork: %v", err)
	}

	e := makeTestEdition("ed-1", "Moby Dick", "Melville, Herman")
	if err := s.CreateEdition(ctx, e); err != nil {
		t.Fatalf("CreateEdition: %v", err)
	}
	p := makeTestPool("pool-1", "ed-1", true)
	p.WorkID = "work-1"
	if err := s.CreatePool(ctx, p); err != nil {
		t.Fatalf("CreatePool: %v", err)
	}

	genres := []domain.WorkGenre{{WorkID: "work-1", GenreName: "Sea Stories", Affinity: 1.0}}
	if err := s.SetWorkGenres(ctx, "work-1", genres); err != nil {
		t.Fatalf("SetWorkGenres: %v", err)
	}

	if err := s.DeleteWork(ctx, "work-1"); err != nil {
		t.Fatalf("DeleteWork: %v", err)
	}

	// Genre rows are gone.
	left, err := s.ListWorkGenres(ctx, "work-1")
	if err != nil {
		t.Fatalf("ListWorkGenres: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("expected no genre rows, got %d", len(left))
	}

	// The pool survives with its work assignment cleared.
	pool, err := s.GetPool(ctx, "pool-1")
	if err != nil {
		t.Fatalf("GetPool: %v", err)
	}
	if pool.WorkID != "" {
		t.Errorf("expected cleared work assignment, got %q", pool.WorkID)
	}
}

func TestSetWorkGenresReplaces(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateWork(ctx, makeTestWork("work-1", "abcd1234", true)); err != nil {
		t.Fatalf("CreateWork: %v", err)
	}

	first := []domain.WorkGenre{
		{WorkID: "work-1", GenreName: "Mystery", Affinity: 0.7},
		{WorkID: "work-1", GenreName: "Horror", Affinity: 0.3},
	}
	if err := s.SetWorkGenres(ctx, "work-1", first); err != nil {
		t.Fatalf("SetWorkGenres: %v", err)
	}

	second := []domain.WorkGenre{
		{WorkID: "work-1", GenreName: "Science Fiction", Affinity: 1.0},
	}
	if err := s.SetWorkGenres(ctx, "work-1", second); err != nil {
		t.Fatalf("SetWorkGenres: %v", err)
	}

	got, err := s.ListWorkGenres(ctx, "work-1")
	if err != nil {
		t.Fatalf("ListWorkGenres: %v", err)
	}
	if len(got) != 1 || got[0].GenreName != "Science Fiction" {
		t.Errorf("expected only Science Fiction, got %+v", got)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx store.Tx) error {
		if err := tx.CreateWork(ctx, makeTestWork("work-1", "abcd1234", true)); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	_, err = s.GetWork(ctx, "work-1")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected rollback, got %v", err)
	}
}

func TestInTxCommits(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx store.Tx) error {
		return tx.CreateWork(ctx, makeTestWork("work-1", "abcd1234", true))
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}

	if _, err := s.GetWork(ctx, "work-1"); err != nil {
		t.Errorf("expected committed work, got %v", err)
	}
}
