// Package search provides full-text search over resolved works using Bleve.
// Works are indexed as denormalized documents carrying their consolidated
// classification: genres with affinities, audience, fiction and target age.
package search

import (
	"github.com/NYPL-Simplified/circulation-core/internal/domain"
)

// WorkDocument is the denormalized projection of a work in the Bleve index.
type WorkDocument struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author,omitempty"`

	Medium   string `json:"medium,omitempty"`
	Language string `json:"language,omitempty"`

	// Genre names sorted by descending affinity, plus the affinity of the
	// strongest genre for ranking boosts.
	Genres      []string `json:"genres,omitempty"`
	TopAffinity float64  `json:"top_affinity,omitempty"`

	Audience string `json:"audience,omitempty"`
	Fiction  *bool  `json:"fiction,omitempty"`

	TargetAgeLower int `json:"target_age_lower,omitempty"`
	TargetAgeUpper int `json:"target_age_upper,omitempty"`

	OpenAccess bool `json:"open_access"`

	// Unix millis, for sorting by recency.
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names matching
// the index mapping. Bleve would otherwise index Go field names.
func (d *WorkDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          d.ID,
		"title":       d.Title,
		"open_access": d.OpenAccess,
		"updated_at":  d.UpdatedAt,
	}

	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.Medium != "" {
		m["medium"] = d.Medium
	}
	if d.Language != "" {
		m["language"] = d.Language
	}
	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
		m["top_affinity"] = d.TopAffinity
	}
	if d.Audience != "" {
		m["audience"] = d.Audience
	}
	if d.Fiction != nil {
		m["fiction"] = *d.Fiction
	}
	if d.TargetAgeLower > 0 {
		m["target_age_lower"] = d.TargetAgeLower
	}
	if d.TargetAgeUpper > 0 {
		m["target_age_upper"] = d.TargetAgeUpper
	}

	return m
}

// WorkToDocument converts a work and its genre affinities to a WorkDocument.
// Genres must already be sorted strongest first, as ListWorkGenres returns
// them.
func WorkToDocument(work *domain.Work, genres []domain.WorkGenre) *WorkDocument {
	doc := &WorkDocument{
		ID:         work.ID,
		Title:      work.Title,
		Author:     work.Author,
		Medium:     string(work.Medium),
		Language:   work.Language,
		Audience:   string(work.Audience),
		Fiction:    work.Fiction,
		OpenAccess: work.OpenAccess,
		UpdatedAt:  work.UpdatedAt.UnixMilli(),
	}

	for _, wg := range genres {
		doc.Genres = append(doc.Genres, wg.GenreName)
	}
	if len(genres) > 0 {
		doc.TopAffinity = genres[0].Affinity
	}

	if work.TargetAge.Lower != nil {
		doc.TargetAgeLower = *work.TargetAge.Lower
	}
	if work.TargetAge.Upper != nil {
		doc.TargetAgeUpper = *work.TargetAge.Upper
	}

	return doc
}
