package service

import (
	"context"
	"log/slog"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/search"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
)

// SearchService fronts the bleve index: query delegation plus full
// rebuilds from the store.
type SearchService struct {
	store    store.Store
	coverage *store.CoverageStore
	index    *search.Index
	logger   *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(st store.Store, coverage *store.CoverageStore, index *search.Index, logger *slog.Logger) *SearchService {
	return &SearchService{
		store:    st,
		coverage: coverage,
		index:    index,
		logger:   logger,
	}
}

// Search runs a catalog query against the index.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	return s.index.Search(ctx, params)
}

// ReindexAll wipes the index and reprojects every work from the store.
// Returns the number of works indexed.
func (s *SearchService) ReindexAll(ctx context.Context) (int, error) {
	if err := s.index.Rebuild(); err != nil {
		return 0, err
	}

	workIDs, err := s.store.ListWorkIDs(ctx)
	if err != nil {
		return 0, err
	}

	docs := make([]*search.WorkDocument, 0, len(workIDs))
	for _, workID := range workIDs {
		work, err := s.store.GetWork(ctx, workID)
		if err != nil {
			s.recordCoverage(workID, err)
			continue
		}
		workGenres, err := s.store.ListWorkGenres(ctx, workID)
		if err != nil {
			s.recordCoverage(workID, err)
			continue
		}
		docs = append(docs, search.WorkToDocument(work, workGenres))
	}

	if err := s.index.IndexWorks(docs); err != nil {
		return 0, err
	}

	for _, doc := range docs {
		s.recordCoverage(doc.ID, nil)
	}

	s.logger.Info("search index rebuilt", "works", len(docs))
	return len(docs), nil
}

func (s *SearchService) recordCoverage(workID string, opErr error) {
	if s.coverage == nil {
		return
	}
	rec := &domain.CoverageRecord{
		EntityID:  workID,
		Operation: domain.CoverageUpdateSearchDoc,
	}
	if opErr != nil {
		rec.Exception = opErr.Error()
	}
	if err := s.coverage.Record(rec); err != nil {
		s.logger.Warn("record coverage failed", "work_id", workID, "error", err)
	}
}
