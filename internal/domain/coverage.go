package domain

import "time"

// Coverage operations recorded against identifiers and works.
const (
	CoverageClassify        = "classify"
	CoverageCalculateWork   = "calculate-work"
	CoverageChooseEdition   = "choose-edition"
	CoverageUpdateSearchDoc = "update-search-document"
)

// CoverageRecord notes that an operation has been performed for an entity,
// so batch passes can skip already-covered items and re-run failed ones.
type CoverageRecord struct {
	// EntityID is the subject, pool or work the operation ran against.
	EntityID  string    `json:"entity_id"`
	Operation string    `json:"operation"`
	Timestamp time.Time `json:"timestamp"`
	// Exception holds the error message when the operation failed.
	Exception string `json:"exception,omitempty"`
}

// Succeeded reports whether the recorded operation completed without error.
func (c *CoverageRecord) Succeeded() bool {
	return c.Exception == ""
}
