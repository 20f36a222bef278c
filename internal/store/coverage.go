package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
)

// coverageKeyPrefix namespaces coverage records inside the badger keyspace.
// Keys are "cov:{operation}:{entity_id}" so a batch pass over one operation
// is a single prefix iteration.
const coverageKeyPrefix = "cov:"

// knownOperations lists every operation coverage is tracked for. Used when
// moving or deleting per-entity records, where the operation is not known
// up front.
var knownOperations = []string{
	domain.CoverageClassify,
	domain.CoverageCalculateWork,
	domain.CoverageChooseEdition,
	domain.CoverageUpdateSearchDoc,
}

// CoverageStore records which batch operations have already run for which
// entities, so restartable passes can skip covered items and retry failures.
type CoverageStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// OpenCoverage opens the badger database backing coverage records.
func OpenCoverage(path string, logger *slog.Logger) (*CoverageStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.SyncWrites = true
	opts.CompactL0OnClose = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("coverage database opened", "path", path)
	}

	return &CoverageStore{db: db, logger: logger}, nil
}

// Close gracefully closes the database.
func (s *CoverageStore) Close() error {
	return s.db.Close()
}

func coverageKey(operation, entityID string) []byte {
	return []byte(coverageKeyPrefix + operation + ":" + entityID)
}

// Record upserts a coverage record. A zero timestamp is filled with now.
func (s *CoverageStore) Record(rec *domain.CoverageRecord) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal coverage record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(coverageKey(rec.Operation, rec.EntityID), data)
	})
}

// Lookup returns the coverage record for an entity and operation, or
// ErrNotFound when the operation has never been recorded for it.
func (s *CoverageStore) Lookup(entityID, operation string) (*domain.CoverageRecord, error) {
	var rec domain.CoverageRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(coverageKey(operation, entityID))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Covered reports whether the operation has already succeeded for the entity.
func (s *CoverageStore) Covered(entityID, operation string) (bool, error) {
	rec, err := s.Lookup(entityID, operation)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rec.Succeeded(), nil
}

// Failures returns every failed record under one operation.
func (s *CoverageStore) Failures(operation string) ([]*domain.CoverageRecord, error) {
	prefix := []byte(coverageKeyPrefix + operation + ":")

	var failures []*domain.CoverageRecord
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			var rec domain.CoverageRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			if !rec.Succeeded() {
				failures = append(failures, &rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return failures, nil
}

// Transfer moves an entity's records onto another entity. Used when a work
// merge deletes the losing row: records the winner already has are dropped,
// the rest are rewritten under the winner's ID.
func (s *CoverageStore) Transfer(fromEntityID, toEntityID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, op := range knownOperations {
			fromKey := coverageKey(op, fromEntityID)
			item, err := txn.Get(fromKey)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}

			toKey := coverageKey(op, toEntityID)
			if _, err := txn.Get(toKey); errors.Is(err, badger.ErrKeyNotFound) {
				var rec domain.CoverageRecord
				err := item.Value(func(val []byte) error {
					return json.Unmarshal(val, &rec)
				})
				if err != nil {
					return err
				}
				rec.EntityID = toEntityID
				data, err := json.Marshal(&rec)
				if err != nil {
					return err
				}
				if err := txn.Set(toKey, data); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			if err := txn.Delete(fromKey); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteEntity removes all coverage records for an entity.
func (s *CoverageStore) DeleteEntity(entityID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, op := range knownOperations {
			err := txn.Delete(coverageKey(op, entityID))
			if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
		}
		return nil
	})
}
