package domain

import "github.com/NYPL-Simplified/circulation-core/internal/normalize"

// Medium is the delivery format of an edition.
type Medium string

// Known media.
const (
	MediumBook       Medium = "Book"
	MediumAudio      Medium = "Audio"
	MediumPeriodical Medium = "Periodical"
)

// Edition is one source's bibliographic description of a work.
// A license pool's presentation edition provides the identity fields
// (title, author, medium, language) the work-identity resolver keys on.
type Edition struct {
	Record
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Author   string `json:"author,omitempty"`
	// SortAuthor is the normalized "Surname, Given" form when known.
	// Preferred over Author for identity computation.
	SortAuthor string `json:"sort_author,omitempty"`
	Medium     Medium `json:"medium"`
	Language   string `json:"language,omitempty"`
	Publisher  string `json:"publisher,omitempty"`
	Imprint    string `json:"imprint,omitempty"`
	DataSource string `json:"data_source"`

	// PermanentWorkID is the derived identity key. Empty when the edition
	// has no title.
	PermanentWorkID string `json:"permanent_work_id,omitempty"`
}

// AuthorForIdentity returns the author string used in identity computation.
func (e *Edition) AuthorForIdentity() string {
	if e.SortAuthor != "" {
		return e.SortAuthor
	}
	return e.Author
}

// CalculatePermanentWorkID recomputes the permanent work ID from the
// edition's current identity fields. Returns true if the value changed.
// An edition with no title gets an empty ID.
func (e *Edition) CalculatePermanentWorkID() bool {
	var pwid string
	if e.Title != "" {
		pwid = normalize.PermanentWorkID(e.Title, e.AuthorForIdentity(), string(e.Medium))
	}
	changed := pwid != e.PermanentWorkID
	e.PermanentWorkID = pwid
	return changed
}
