// Package main provides a read-only inspection tool for the catalog
// database and the coverage-record store.
//
// Usage:
//
//	DATA_PATH=~/circulation go run ./cmd/dbinspect
package main

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/store/sqlite"
)

func main() {
	basePath := os.Getenv("DATA_PATH")
	if basePath == "" {
		basePath = os.ExpandEnv("$HOME/circulation")
	}

	inspectCatalog(filepath.Join(basePath, "catalog.db"))

	fmt.Println("=== Coverage Store Inspection ===")
	fmt.Println()

	opts := badger.DefaultOptions(filepath.Join(basePath, "coverage")).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		log.Fatalf("Failed to open coverage store: %v", err)
	}
	defer db.Close()

	perOperation := make(map[string]int)
	perOperationFailed := make(map[string]int)
	total := 0
	failed := 0

	err = db.View(func(txn *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = []byte("cov:")
		it := txn.NewIterator(iterOpts)
		defer it.Close()

		for it.Seek([]byte("cov:")); it.ValidForPrefix([]byte("cov:")); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// Key layout is cov:{operation}:{entity_id}.
			parts := strings.SplitN(key, ":", 3)
			if len(parts) != 3 {
				continue
			}
			operation := parts[1]

			err := item.Value(func(val []byte) error {
				var rec domain.CoverageRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}

				total++
				perOperation[operation]++
				if !rec.Succeeded() {
					failed++
					perOperationFailed[operation]++
					if perOperationFailed[operation] <= 3 {
						fmt.Printf("Failed %s: %s\n", operation, rec.EntityID)
						fmt.Printf("  At: %s\n", rec.Timestamp.Format("2006-01-02 15:04:05"))
						fmt.Printf("  Exception: %s\n", rec.Exception)
						fmt.Println()
					}
				}
				return nil
			})
			if err != nil {
				log.Printf("Error reading record %s: %v", key, err)
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Error iterating coverage store: %v", err)
	}

	fmt.Println("=== Summary ===")
	fmt.Printf("Total records: %d\n", total)
	fmt.Printf("Failed records: %d\n", failed)
	for operation, count := range perOperation {
		fmt.Printf("  %s: %d (%d failed)\n", operation, count, perOperationFailed[operation])
	}
}

// inspectCatalog dumps a summary of the works in the catalog, showing the
// first few with their pools and genre affinities.
func inspectCatalog(dbPath string) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open catalog database: %v", err)
	}
	defer st.Close()

	ctx := context.Background()

	workIDs, err := st.ListWorkIDs(ctx)
	if err != nil {
		log.Fatalf("Failed to list works: %v", err)
	}

	fmt.Println("=== Catalog Inspection ===")
	fmt.Println()

	presentationReady := 0
	openAccess := 0
	for i, workID := range workIDs {
		work, err := st.GetWork(ctx, workID)
		if err != nil {
			log.Printf("Error reading work %s: %v", workID, err)
			continue
		}
		if work.PresentationReady {
			presentationReady++
		}
		if work.OpenAccess {
			openAccess++
		}

		if i >= 5 {
			continue
		}
		fmt.Printf("Work: %s\n", work.Title)
		fmt.Printf("  ID: %s\n", work.ID)
		fmt.Printf("  Author: %s\n", work.Author)
		fmt.Printf("  Identity: %s / %s / %s\n", work.PermanentWorkID, work.Medium, work.Language)
		fmt.Printf("  Open access: %t\n", work.OpenAccess)
		if work.Fiction != nil {
			fmt.Printf("  Fiction: %t\n", *work.Fiction)
		}
		if work.Audience != "" {
			fmt.Printf("  Audience: %s\n", work.Audience)
		}

		pools, err := st.ListPoolsForWork(ctx, work.ID)
		if err == nil {
			for _, pool := range pools {
				marker := ""
				if pool.Superceded {
					marker = " (superceded)"
				}
				fmt.Printf("  Pool: %s [%s]%s\n", pool.Identifier, pool.DataSource, marker)
			}
		}

		affinities, err := st.ListWorkGenres(ctx, work.ID)
		if err == nil {
			for _, wg := range affinities {
				fmt.Printf("  Genre: %s (%.2f)\n", wg.GenreName, wg.Affinity)
			}
		}
		fmt.Println()
	}

	fmt.Printf("Total works: %d (%d presentation ready, %d open access)\n", len(workIDs), presentationReady, openAccess)
	fmt.Println()
}
