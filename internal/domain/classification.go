package domain

import "math"

// Classification is a join record asserting that a data source applied a
// Subject to an edition's primary identifier with some confidence.
// Multiple classifications of the same subject accumulate.
type Classification struct {
	Record
	SubjectID  string `json:"subject_id"`
	EditionID  string `json:"edition_id"`
	DataSource string `json:"data_source"`
	Weight     int    `json:"weight"`
}

// Schemes whose subjects carry vendor-curated audience and age data. Their
// raw weights are trusted as-is.
var trustedWeightSchemes = map[Scheme]bool{
	SchemeOverdrive:       true,
	SchemeBibliotheca:     true,
	SchemeAxis360Audience: true,
	SchemeBISAC:           true,
}

// ScaledWeight returns a monotonic transform of the raw vendor weight used
// during consolidation. Weights from the license source, and weights on
// curated vendor vocabularies, count in full. Everything else is compressed
// so a pile of low-quality tag votes cannot outvote the license source.
func (c *Classification) ScaledWeight(scheme Scheme, fromLicenseSource bool) float64 {
	w := float64(c.Weight)
	if w <= 0 {
		return 0
	}
	if fromLicenseSource || trustedWeightSchemes[scheme] {
		return w
	}
	return math.Sqrt(w)
}

// TargetAgeReliability ranks how much a scheme's target-age bounds can be
// trusted. A vendor-native age range outranks a parsed grade string, which
// outranks anything inferred from free-form tags. Consolidation keeps only
// the single most reliable tier.
func TargetAgeReliability(scheme Scheme) int {
	switch scheme {
	case SchemeOverdrive, SchemeAxis360Audience, SchemeBibliotheca:
		return 10
	case SchemeAgeRange, SchemeGradeLevel, SchemeInterestLevel, SchemeFreeformAudience:
		return 5
	default:
		return 1
	}
}
