package domain

// Work is the canonical one-row-per-intellectual-work entity. Many license
// pools may share a work; the classification engine's consolidated decision
// is cached here.
type Work struct {
	Record
	PermanentWorkID string `json:"permanent_work_id,omitempty"`

	// OpenAccess means every member pool is open access. Open-access works
	// are unique per (permanent_work_id, medium, language); commercial
	// works never group by identity.
	OpenAccess bool `json:"open_access"`

	// Presentation fields copied from the representative pool's edition.
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Medium   Medium `json:"medium,omitempty"`
	Language string `json:"language,omitempty"`

	// The consolidated classification decision.
	Audience  Audience `json:"audience,omitempty"`
	Fiction   *bool    `json:"fiction,omitempty"`
	TargetAge AgeRange `json:"target_age"`

	// PresentationReady means the work has enough metadata to be shown
	// in the catalog.
	PresentationReady bool `json:"presentation_ready"`
}

// WorkGenre is a work's affinity for one genre: the genre's fractional share
// of the work's total classification weight after consolidation. Affinities
// for one work sum to at most 1.
type WorkGenre struct {
	WorkID    string  `json:"work_id"`
	GenreName string  `json:"genre_name"`
	Affinity  float64 `json:"affinity"`
}
