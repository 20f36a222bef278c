// Package main provides a maintenance tool that re-runs classification
// consolidation over every work in the catalog.
//
// Run it after changing the genre taxonomy or classifier rules so cached
// work-level decisions catch up with the new behavior. Individual failures
// are reported and skipped; the exit code is non-zero if any work failed.
//
// Usage:
//
//	DATA_PATH=~/circulation go run ./cmd/reclassify
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/NYPL-Simplified/circulation-core/internal/classification"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
	"github.com/NYPL-Simplified/circulation-core/internal/service"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
	"github.com/NYPL-Simplified/circulation-core/internal/store/sqlite"
)

func main() {
	basePath := os.Getenv("DATA_PATH")
	if basePath == "" {
		basePath = os.ExpandEnv("$HOME/circulation")
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
	works := service.NewWorkService(st, coverage, registry, logger)

	ctx := context.Background()

	workIDs, err := st.ListWorkIDs(ctx)
	if err != nil {
		log.Fatalf("Failed to list works: %v", err)
	}
	if len(workIDs) == 0 {
		fmt.Println("No works in catalog")
		return
	}

	failed := 0
	for i, workID := range workIDs {
		if err := works.Reclassify(ctx, workID); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to reclassify work %s: %v\n", workID, err)
			failed++
			continue
		}
		if (i+1)%100 == 0 {
			fmt.Printf("Reclassified %d/%d works\n", i+1, len(workIDs))
		}
	}

	fmt.Printf("Reclassified %d works, %d failures\n", len(workIDs)-failed, failed)
	if failed > 0 {
		os.Exit(1)
	}
}
