// Package main provides a tool to seed the catalog with sample data.
//
// It creates a handful of open-access and commercial offerings with vendor
// classifications, then runs them through work resolution and
// reclassification so the resulting catalog is fully resolved.
//
// Usage:
//
//	DATA_PATH=~/circulation go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/NYPL-Simplified/circulation-core/internal/classification"
	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
	"github.com/NYPL-Simplified/circulation-core/internal/id"
	"github.com/NYPL-Simplified/circulation-core/internal/service"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
	"github.com/NYPL-Simplified/circulation-core/internal/store/sqlite"
)

type sample struct {
	title      string
	author     string
	dataSource string
	openAccess bool
	subjects   []subjectSpec
}

type subjectSpec struct {
	scheme     domain.Scheme
	identifier string
	weight     int
}

var samples = []sample{
	{
		title: "The Hound of the Baskervilles", author: "Doyle, Arthur Conan",
		dataSource: domain.SourceGutenberg, openAccess: true,
		subjects: []subjectSpec{
			{domain.SchemeTag, "Detective and mystery stories", 5},
			{domain.SchemeDDC, "823", 1},
		},
	},
	{
		title: "The Hound of the Baskervilles", author: "Doyle, Arthur Conan",
		dataSource: domain.SourceContentServer, openAccess: true,
		subjects: []subjectSpec{
			{domain.SchemeLCSH, "Private investigators -- Fiction", 3},
		},
	},
	{
		title: "A Study in Scarlet", author: "Doyle, Arthur Conan",
		dataSource: domain.SourceOverdrive, openAccess: false,
		subjects: []subjectSpec{
			{domain.SchemeOverdrive, "Mystery", 10},
		},
	},
	{
		title: "On the Origin of Species", author: "Darwin, Charles",
		dataSource: domain.SourceGutenberg, openAccess: true,
		subjects: []subjectSpec{
			{domain.SchemeDDC, "576", 1},
			{domain.SchemeTag, "Evolution", 2},
		},
	},
	{
		title: "The Time Machine", author: "Wells, H. G.",
		dataSource: domain.SourceGutenberg, openAccess: true,
		subjects: []subjectSpec{
			{domain.SchemeTag, "Science fiction", 5},
			{domain.SchemeBISAC, "FICTION / Science Fiction / General", 3},
		},
	},
}

func main() {
	basePath := os.Getenv("DATA_PATH")
	if basePath == "" {
		basePath = os.ExpandEnv("$HOME/circulation")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	st, err := sqlite.Open(filepath.Join(basePath, "catalog.db"), logger)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer st.Close()

	coverage, err := store.OpenCoverage(filepath.Join(basePath, "coverage"), logger)
	if err != nil {
		log.Fatalf("Failed to open coverage store: %v", err)
	}
	defer coverage.Close()

	registry := classification.NewRegistry(genres.Load())
	subjects := service.NewSubjectService(st, coverage, registry, logger)
	works := service.NewWorkService(st, coverage, registry, logger)

	ctx := context.Background()

	var poolIDs []string
	for _, s := range samples {
		poolID, err := seedSample(ctx, st, subjects, s)
		if err != nil {
			log.Fatalf("Failed to seed %q: %v", s.title, err)
		}
		poolIDs = append(poolIDs, poolID)
		fmt.Printf("Seeded %q (%s)\n", s.title, s.dataSource)
	}

	workIDs := make(map[string]bool)
	for _, poolID := range poolIDs {
		work, _, err := works.CalculateWork(ctx, poolID)
		if err != nil {
			log.Fatalf("Failed to resolve pool %s: %v", poolID, err)
		}
		if work != nil {
			workIDs[work.ID] = true
		}
	}
	fmt.Printf("Resolved %d pools into %d works\n", len(poolIDs), len(workIDs))

	for workID := range workIDs {
		if err := works.Reclassify(ctx, workID); err != nil {
			log.Fatalf("Failed to reclassify work %s: %v", workID, err)
		}
	}
	fmt.Printf("Reclassified %d works\n", len(workIDs))
}

func seedSample(ctx context.Context, st store.Store, subjects *service.SubjectService, s sample) (string, error) {
	editionID, err := id.Generate("ed")
	if err != nil {
		return "", err
	}
	ed := &domain.Edition{
		Title:      s.title,
		SortAuthor: s.author,
		Medium:     domain.MediumBook,
		Language:   "eng",
		DataSource: s.dataSource,
	}
	ed.ID = editionID
	ed.InitTimestamps()
	ed.CalculatePermanentWorkID()
	if err := st.CreateEdition(ctx, ed); err != nil {
		return "", err
	}

	poolID, err := id.Generate("pool")
	if err != nil {
		return "", err
	}
	pool := &domain.LicensePool{
		DataSource:            s.dataSource,
		Identifier:            fmt.Sprintf("%s-%s", s.dataSource, editionID),
		OpenAccess:            s.openAccess,
		LicensesOwned:         1,
		HasDeliverable:        true,
		PresentationEditionID: ed.ID,
	}
	pool.ID = poolID
	pool.InitTimestamps()
	if err := st.CreatePool(ctx, pool); err != nil {
		return "", err
	}

	for _, spec := range s.subjects {
		sub, err := subjects.EnsureClassified(ctx, service.EnsureClassifiedRequest{
			Scheme:     string(spec.scheme),
			Identifier: spec.identifier,
		})
		if err != nil {
			return "", err
		}

		clsID, err := id.Generate("cls")
		if err != nil {
			return "", err
		}
		cls := &domain.Classification{
			SubjectID:  sub.ID,
			EditionID:  ed.ID,
			DataSource: s.dataSource,
			Weight:     spec.weight,
		}
		cls.ID = clsID
		cls.InitTimestamps()
		if err := st.CreateClassification(ctx, cls); err != nil {
			return "", err
		}
	}

	return poolID, nil
}
