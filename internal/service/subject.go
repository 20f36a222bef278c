// Package service orchestrates the catalog operations: subject
// classification, work identity resolution and the search projection.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/NYPL-Simplified/circulation-core/internal/classification"
	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/id"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
	"github.com/NYPL-Simplified/circulation-core/internal/validation"
)

// SubjectService looks up or creates subjects and runs them through the
// classification engine, caching the decision on the subject row.
type SubjectService struct {
	store     store.Store
	coverage  *store.CoverageStore
	registry  *classification.Registry
	logger    *slog.Logger
	validator *validation.Validator
}

// NewSubjectService creates a new subject service.
func NewSubjectService(st store.Store, coverage *store.CoverageStore, registry *classification.Registry, logger *slog.Logger) *SubjectService {
	return &SubjectService{
		store:     st,
		coverage:  coverage,
		registry:  registry,
		logger:    logger,
		validator: validation.New(),
	}
}

// EnsureClassifiedRequest identifies a vendor subject to look up or create.
type EnsureClassifiedRequest struct {
	Scheme     string `json:"scheme" validate:"required"`
	Identifier string `json:"identifier" validate:"required,max=512"`
	Name       string `json:"name"`
}

// EnsureClassified returns the subject for a scheme/identifier pair,
// creating it if needed and classifying it on first use. A subject that has
// already been checked short-circuits; its cached decision stands.
func (s *SubjectService) EnsureClassified(ctx context.Context, req EnsureClassifiedRequest) (*domain.Subject, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	scheme := domain.Scheme(req.Scheme)

	sub, err := s.store.GetSubjectByKey(ctx, scheme, req.Identifier)
	if errors.Is(err, store.ErrNotFound) {
		sub, err = s.createSubject(ctx, scheme, req.Identifier, req.Name)
	}
	if err != nil {
		return nil, err
	}

	if sub.Checked {
		return sub, nil
	}

	return s.classify(ctx, sub, false)
}

// Reclassify forces a fresh classification of an existing subject,
// discarding its cached decision. Used after classifier table updates.
func (s *SubjectService) Reclassify(ctx context.Context, scheme domain.Scheme, identifier string) (*domain.Subject, error) {
	sub, err := s.store.GetSubjectByKey(ctx, scheme, identifier)
	if err != nil {
		return nil, err
	}
	return s.classify(ctx, sub, true)
}

// ClassifyPending classifies up to limit unchecked subjects. Returns the
// number processed. Failed subjects get a failure coverage record and are
// left unchecked for the next pass.
func (s *SubjectService) ClassifyPending(ctx context.Context, limit int) (int, error) {
	pending, err := s.store.ListUncheckedSubjects(ctx, limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, sub := range pending {
		if _, err := s.classify(ctx, sub, false); err != nil {
			s.logger.Error("classify subject failed",
				"scheme", sub.Scheme,
				"identifier", sub.Identifier,
				"error", err,
			)
			s.recordCoverage(sub.ID, err)
			continue
		}
		processed++
	}
	return processed, nil
}

func (s *SubjectService) createSubject(ctx context.Context, scheme domain.Scheme, identifier, name string) (*domain.Subject, error) {
	subjectID, err := id.Generate("sub")
	if err != nil {
		return nil, err
	}

	sub := &domain.Subject{
		Scheme:     scheme,
		Identifier: identifier,
		Name:       name,
	}
	sub.ID = subjectID
	sub.InitTimestamps()

	err = s.store.CreateSubject(ctx, sub)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a creation race; the winner's row is authoritative.
		return s.store.GetSubjectByKey(ctx, scheme, identifier)
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubjectService) classify(ctx context.Context, sub *domain.Subject, force bool) (*domain.Subject, error) {
	s.registry.ClassifySubject(sub, force)
	sub.Touch()

	if err := s.store.UpdateSubject(ctx, sub); err != nil {
		return nil, err
	}

	s.recordCoverage(sub.ID, nil)
	return sub, nil
}

func (s *SubjectService) recordCoverage(entityID string, opErr error) {
	if s.coverage == nil {
		return
	}
	rec := &domain.CoverageRecord{
		EntityID:  entityID,
		Operation: domain.CoverageClassify,
	}
	if opErr != nil {
		rec.Exception = opErr.Error()
	}
	if err := s.coverage.Record(rec); err != nil {
		s.logger.Warn("record coverage failed", "entity_id", entityID, "error", err)
	}
}
