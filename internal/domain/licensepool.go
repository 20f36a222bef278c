package domain

// LicensePool is one vendor's or collection's offer of a work.
// Many pools may point to the same Work; ownership is many-to-one.
type LicensePool struct {
	Record
	DataSource string `json:"data_source"`
	// Identifier is the vendor's primary identifier for this offering.
	Identifier string `json:"identifier"`
	OpenAccess bool   `json:"open_access"`
	Suppressed bool   `json:"suppressed"`
	// LicensesOwned is the number of concurrent loans the collection has
	// paid for. Open-access pools report a nominal 1.
	LicensesOwned int `json:"licenses_owned"`
	// HasDeliverable reports whether the pool has a usable download or
	// fulfillment path.
	HasDeliverable bool `json:"has_deliverable"`

	// Superceded means this pool is not the chosen representative of its
	// work. Recomputed whenever the work's pool set changes.
	Superceded bool `json:"superceded"`

	// WorkID is the work this pool currently belongs to; empty when
	// unassigned.
	WorkID string `json:"work_id,omitempty"`
	// PresentationEditionID points at the edition providing this pool's
	// identity fields; empty when no presentation edition is resolved.
	PresentationEditionID string `json:"presentation_edition_id,omitempty"`
}
