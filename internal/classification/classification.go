// Package classification maps vendor-supplied subject codes and free-text
// tags onto the genre taxonomy, and consolidates many weighted per-subject
// decisions into one decision per work.
//
// One Classifier strategy exists per classification scheme. Each decomposes
// into independently overridable hooks (scrub, fiction, audience, target age,
// genre) so a scheme only implements the parts its vocabulary can answer.
package classification

import (
	"strings"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
)

// Lowered is a lowercased-for-matching string that remembers its original
// form. Matching is case-insensitive but acronym detection ("YA") needs the
// original casing.
type Lowered struct {
	Original string
	value    string
}

// Lower scrubs a raw identifier or name: trims whitespace, lowercases, and
// drops a single trailing period (a common cataloging artifact).
func Lower(s string) Lowered {
	original := strings.TrimSpace(s)
	value := strings.ToLower(original)
	value = strings.TrimSuffix(value, ".")
	return Lowered{Original: original, value: value}
}

func (l Lowered) String() string { return l.value }

// Empty reports whether there is nothing to match against.
func (l Lowered) Empty() bool { return l.value == "" }

// Contains reports whether the lowered form contains substr.
func (l Lowered) Contains(substr string) bool {
	return strings.Contains(l.value, substr)
}

// Decision is the classification outcome for one subject.
type Decision struct {
	Genre     *genres.Genre
	Audience  domain.Audience
	TargetAge domain.AgeRange
	Fiction   *bool
}

// Classifier is the per-scheme strategy interface. Implementations return
// zero values (nil genre, "" audience, empty range, nil fiction) for
// questions their vocabulary cannot answer; absence of a decision is a
// normal outcome, never an error.
type Classifier interface {
	ScrubIdentifier(identifier string) Lowered
	ScrubName(name string) Lowered
	Fiction(identifier, name Lowered) *bool
	Audience(identifier, name Lowered) domain.Audience
	TargetAge(identifier, name Lowered) domain.AgeRange
	Genre(identifier, name Lowered, fiction *bool, audience domain.Audience) *genres.Genre
}

// base supplies the default hook behavior schemes embed and override.
type base struct{}

func (base) ScrubIdentifier(identifier string) Lowered { return Lower(identifier) }

func (base) ScrubName(name string) Lowered { return Lower(name) }

// Fiction applies the generic substring heuristic. "Nonfiction" is checked
// first because it contains "fiction".
func (base) Fiction(identifier, name Lowered) *bool {
	for _, text := range []Lowered{identifier, name} {
		switch {
		case text.Contains("nonfiction") || text.Contains("non-fiction"):
			return domain.Bool(false)
		case text.Contains("fiction"):
			return domain.Bool(true)
		}
	}
	return nil
}

// Audience applies the generic keyword heuristic.
func (base) Audience(identifier, name Lowered) domain.Audience {
	for _, text := range []Lowered{identifier, name} {
		switch {
		case text.Contains("juvenile") || text.Contains("children"):
			return domain.AudienceChildren
		case text.Contains("young adult") || text.Contains("teen"):
			return domain.AudienceYoungAdult
		case text.Contains("erotic"):
			return domain.AudienceAdultsOnly
		}
	}
	return ""
}

func (base) TargetAge(identifier, name Lowered) domain.AgeRange {
	return domain.AgeRange{}
}

func (base) Genre(identifier, name Lowered, fiction *bool, audience domain.Audience) *genres.Genre {
	return nil
}

// Registry maps scheme names to classifier strategies. Built once at process
// start against one taxonomy; read-only afterwards.
type Registry struct {
	taxonomy    *genres.Taxonomy
	classifiers map[domain.Scheme]Classifier
}

// NewRegistry builds the registry for a taxonomy.
func NewRegistry(taxonomy *genres.Taxonomy) *Registry {
	keywords := newKeywordClassifier(taxonomy)
	bibliotheca := newBibliothecaClassifier(taxonomy)
	age := ageClassifier{requireExplicitAgeMarker: true}
	r := &Registry{
		taxonomy: taxonomy,
		classifiers: map[domain.Scheme]Classifier{
			domain.SchemeDDC:                newDeweyClassifier(taxonomy),
			domain.SchemeLCC:                newLCCClassifier(taxonomy),
			domain.SchemeLCSH:               keywords,
			domain.SchemeFAST:               keywords,
			domain.SchemeTag:                keywords,
			domain.SchemeOverdrive:          newOverdriveClassifier(taxonomy),
			domain.SchemeBibliotheca:        bibliotheca,
			domain.SchemeBISAC:              bisacClassifier{bibliotheca},
			domain.SchemeGradeLevel:         gradeLevelClassifier{},
			domain.SchemeAgeRange:           age,
			domain.SchemeInterestLevel:      interestLevelClassifier{},
			domain.SchemeAxis360Audience:    axis360AudienceClassifier{},
			domain.SchemeFreeformAudience:   freeformAudienceClassifier{},
			domain.SchemeGutenbergBookshelf: newGutenbergBookshelfClassifier(taxonomy),
		},
	}
	return r
}

// Taxonomy returns the taxonomy this registry resolves genres against.
func (r *Registry) Taxonomy() *genres.Taxonomy { return r.taxonomy }

// Lookup returns the classifier for a scheme.
func (r *Registry) Lookup(scheme domain.Scheme) (Classifier, bool) {
	c, ok := r.classifiers[scheme]
	return c, ok
}

// Classify runs the full scrub/fiction/audience/age/genre pipeline for one
// subject. An unknown scheme yields an empty decision.
func (r *Registry) Classify(scheme domain.Scheme, identifier, name string) Decision {
	c, ok := r.Lookup(scheme)
	if !ok {
		return Decision{}
	}
	id := c.ScrubIdentifier(identifier)
	nm := c.ScrubName(name)
	fiction := c.Fiction(id, nm)
	audience := c.Audience(id, nm)
	return Decision{
		Genre:     c.Genre(id, nm, fiction, audience),
		Audience:  audience,
		TargetAge: c.TargetAge(id, nm),
		Fiction:   fiction,
	}
}

// ClassifySubject classifies a subject record and writes the decision back
// into its cached fields. Safe to call repeatedly; a checked subject is
// returned as-is unless force is set.
func (r *Registry) ClassifySubject(s *domain.Subject, force bool) Decision {
	if s.Checked && !force {
		return r.cachedDecision(s)
	}
	d := r.Classify(s.Scheme, s.Identifier, s.Name)
	s.GenreName = ""
	if d.Genre != nil {
		s.GenreName = d.Genre.Name
	}
	s.Audience = d.Audience
	s.TargetAge = d.TargetAge
	s.Fiction = d.Fiction
	s.Checked = true
	return d
}

func (r *Registry) cachedDecision(s *domain.Subject) Decision {
	d := Decision{
		Audience:  s.Audience,
		TargetAge: s.TargetAge,
		Fiction:   s.Fiction,
	}
	if s.GenreName != "" {
		if g, ok := r.taxonomy.ByName(s.GenreName); ok {
			d.Genre = g
		}
	}
	return d
}
