package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/store"
)

func makeTestSubject(id string, scheme domain.Scheme, identifier string) *domain.Subject {
	now := time.Now()
	sub := &domain.Subject{
		Scheme:     scheme,
		Identifier: identifier,
	}
	sub.ID = id
	sub.CreatedAt = now
	sub.UpdatedAt = now
	return sub
}

func TestCreateAndGetSubject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := makeTestSubject("sub-1", domain.SchemeDDC, "813")
	sub.Name = "American fiction"

	if err := s.CreateSubject(ctx, sub); err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}

	got, err := s.GetSubject(ctx, "sub-1")
	if err != nil {
		t.Fatalf("GetSubject: %v", err)
	}
	if got.Scheme != domain.SchemeDDC || got.Identifier != "813" {
		t.Errorf("unexpected subject: %+v", got)
	}
	if got.Name != "American fiction" {
		t.Errorf("expected name round-trip, got %q", got.Name)
	}
	if got.Checked {
		t.Error("new subject should be unchecked")
	}
	if got.Fiction != nil {
		t.Error("fiction should be nil before classification")
	}
}

func TestGetSubjectByKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateSubject(ctx, makeTestSubject("sub-1", domain.SchemeLCC, "PS3561")); err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}

	got, err := s.GetSubjectByKey(ctx, domain.SchemeLCC, "PS3561")
	if err != nil {
		t.Fatalf("GetSubjectByKey: %v", err)
	}
	if got.ID != "sub-1" {
		t.Errorf("expected sub-1, got %s", got.ID)
	}

	_, err = s.GetSubjectByKey(ctx, domain.SchemeLCC, "QA76")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateSubjectDuplicateKey(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateSubject(ctx, makeTestSubject("sub-1", domain.SchemeTag, "vampires")); err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}

	err := s.CreateSubject(ctx, makeTestSubject("sub-2", domain.SchemeTag, "vampires"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestUpdateSubjectCachesDecision(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := makeTestSubject("sub-1", domain.SchemeOverdrive, "Juvenile Fiction")
	if err := s.CreateSubject(ctx, sub); err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}

	fiction := true
	sub.GenreName = "Fantasy"
	sub.Audience = domain.AudienceChildren
	sub.TargetAge = domain.NewAgeRange(9, 12)
	sub.Fiction = &fiction
	sub.Checked = true
	sub.Touch()

	if err := s.UpdateSubject(ctx, sub); err != nil {
		t.Fatalf("UpdateSubject: %v", err)
	}

	got, err := s.GetSubject(ctx, "sub-1")
	if err != nil {
		t.Fatalf("GetSubject: %v", err)
	}
	if !got.Checked {
		t.Error("expected checked after update")
	}
	if got.GenreName != "Fantasy" {
		t.Errorf("expected Fantasy, got %q", got.GenreName)
	}
	if got.Audience != domain.AudienceChildren {
		t.Errorf("expected Children, got %q", got.Audience)
	}
	if got.TargetAge.Lower == nil || *got.TargetAge.Lower != 9 {
		t.Errorf("expected lower bound 9, got %v", got.TargetAge.Lower)
	}
	if got.TargetAge.Upper == nil || *got.TargetAge.Upper != 12 {
		t.Errorf("expected upper bound 12, got %v", got.TargetAge.Upper)
	}
	if got.Fiction == nil || !*got.Fiction {
		t.Error("expected fiction=true round-trip")
	}
}

func TestListUncheckedSubjects(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	checked := makeTestSubject("sub-1", domain.SchemeTag, "checked")
	checked.Checked = true
	if err := s.CreateSubject(ctx, checked); err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}
	if err := s.CreateSubject(ctx, makeTestSubject("sub-2", domain.SchemeTag, "unchecked")); err != nil {
		t.Fatalf("CreateSubject: %v", err)
	}

	unchecked, err := s.ListUncheckedSubjects(ctx, 10)
	if err != nil {
		t.Fatalf("ListUncheckedSubjects: %v", err)
	}
	if len(unchecked) != 1 || unchecked[0].ID != "sub-2" {
		t.Errorf("expected only sub-2, got %+v", unchecked)
	}
}
