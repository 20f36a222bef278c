// Package domain contains the core catalog entities: subjects, classifications,
// editions, license pools and works.
package domain

import "strings"

// Scheme identifies a vendor- or standard-defined classification vocabulary.
type Scheme string

// Known classification schemes.
const (
	SchemeDDC                Scheme = "DDC"
	SchemeLCC                Scheme = "LCC"
	SchemeLCSH               Scheme = "LCSH"
	SchemeFAST               Scheme = "FAST"
	SchemeOverdrive          Scheme = "Overdrive"
	SchemeBibliotheca        Scheme = "Bibliotheca"
	SchemeBISAC              Scheme = "BISAC"
	SchemeTag                Scheme = "tag"
	SchemeNYPLAppeal         Scheme = "NYPL Appeal"
	SchemeGradeLevel         Scheme = "Grade level"
	SchemeAgeRange           Scheme = "schema:typicalAgeRange"
	SchemeInterestLevel      Scheme = "Interest Level"
	SchemeAxis360Audience    Scheme = "Axis 360 Audience"
	SchemeGutenbergBookshelf Scheme = "Gutenberg Bookshelf"
	SchemeFreeformAudience   Scheme = "schema:audience"
)

// Subject is a vendor-supplied classification code or tag, plus the cached
// decision of the classification engine.
type Subject struct {
	Record
	Scheme     Scheme `json:"scheme"`
	Identifier string `json:"identifier"`
	Name       string `json:"name,omitempty"`

	// Cached decision fields. Populated lazily on first use; immutable once
	// Checked is set unless re-classification is explicitly forced.
	GenreName string   `json:"genre_name,omitempty"`
	Audience  Audience `json:"audience,omitempty"`
	TargetAge AgeRange `json:"target_age"`
	Fiction   *bool    `json:"fiction,omitempty"`
	Checked   bool     `json:"checked"`
}

// formatMarkers are substrings that mark a subject as describing the physical
// or presentational format of a book rather than its content.
var formatMarkers = []string{
	"comic book",
	"comic books",
	"graphic novel",
	"graphic novels",
	"comics & graphic novels",
	"large print",
	"large type",
	"board book",
	"audiobook",
}

// DescribesFormat reports whether this subject describes a format rather than
// the content of a work. Format tags from secondary sources are untrustworthy:
// a prose novel often carries a spurious "graphic novel" tag inherited from
// an adaptation.
func (s *Subject) DescribesFormat() bool {
	for _, text := range []string{s.Identifier, s.Name, s.GenreName} {
		lower := strings.ToLower(text)
		for _, marker := range formatMarkers {
			if strings.Contains(lower, marker) {
				return true
			}
		}
	}
	return false
}

// Key returns the scheme/identifier pair that uniquely identifies a subject.
func (s *Subject) Key() string {
	return string(s.Scheme) + "/" + s.Identifier
}
