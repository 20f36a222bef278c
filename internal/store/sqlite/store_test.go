package sqlite

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// makeTestEdition creates an edition with identity fields filled in.
func makeTestEdition(id, title, author string) *domain.Edition {
	now := time.Now()
	e := &domain.Edition{
		Title:      title,
		Author:     author,
		Medium:     domain.MediumBook,
		Language:   "eng",
		DataSource: domain.SourceGutenberg,
	}
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	e.CalculatePermanentWorkID()
	return e
}

func makeTestPool(id, editionID string, openAccess bool) *domain.LicensePool {
	now := time.Now()
	p := &domain.LicensePool{
		DataSource:            domain.SourceGutenberg,
		Identifier:            "ident-" + id,
		OpenAccess:            openAccess,
		LicensesOwned:         1,
		HasDeliverable:        true,
		PresentationEditionID: editionID,
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return p
}

func makeTestWork(id, pwid string, openAccess bool) *domain.Work {
	now := time.Now()
	w := &domain.Work{
		PermanentWorkID: pwid,
		Medium:          domain.MediumBook,
		Language:        "eng",
		OpenAccess:      openAccess,
	}
	w.ID = id
	w.CreatedAt = now
	w.UpdatedAt = now
	return w
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{
		"subjects", "editions", "classifications",
		"works", "license_pools", "work_genres",
	}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}
