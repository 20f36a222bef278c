package domain

// Audience is the intended readership of a work.
type Audience string

// Audience values. Empty string means unknown.
const (
	AudienceAdult      Audience = "Adult"
	AudienceAdultsOnly Audience = "Adults Only"
	AudienceYoungAdult Audience = "Young Adult"
	AudienceChildren   Audience = "Children"
)

// Age at which a reader stops being a child and becomes a young adult,
// and the age at which a young adult becomes an adult. Used when deriving
// an audience from a parsed target age.
const (
	YoungAdultAgeCutoff = 14
	AdultAgeCutoff      = 18
)

// Valid reports whether a is one of the known audiences.
func (a Audience) Valid() bool {
	switch a {
	case AudienceAdult, AudienceAdultsOnly, AudienceYoungAdult, AudienceChildren:
		return true
	}
	return false
}

// Juvenile reports whether a names a non-adult readership.
func (a Audience) Juvenile() bool {
	return a == AudienceChildren || a == AudienceYoungAdult
}

// DefaultTargetAge returns the fixed age range implied by an audience when
// no explicit target-age data is available.
func (a Audience) DefaultTargetAge() AgeRange {
	switch a {
	case AudienceYoungAdult:
		return NewAgeRange(YoungAdultAgeCutoff, 17)
	case AudienceAdult, AudienceAdultsOnly:
		return AgeRange{Lower: Int(AdultAgeCutoff)}
	}
	return AgeRange{}
}

// AudienceForAge derives an audience from a target age range.
// Returns "" when the range carries no usable bound.
func AudienceForAge(r AgeRange) Audience {
	age := r.Lower
	if age == nil {
		age = r.Upper
	}
	if age == nil {
		return ""
	}
	switch {
	case *age >= AdultAgeCutoff:
		return AudienceAdult
	case *age >= YoungAdultAgeCutoff:
		return AudienceYoungAdult
	default:
		return AudienceChildren
	}
}

// AgeRange is an inclusive integer range describing intended reader age.
// A nil bound is open.
type AgeRange struct {
	Lower *int `json:"lower,omitempty"`
	Upper *int `json:"upper,omitempty"`
}

// NewAgeRange builds a closed age range.
func NewAgeRange(lower, upper int) AgeRange {
	return AgeRange{Lower: Int(lower), Upper: Int(upper)}
}

// Empty reports whether neither bound is set.
func (r AgeRange) Empty() bool {
	return r.Lower == nil && r.Upper == nil
}

// Normalize mirrors a missing bound from the present one and swaps
// inverted bounds.
func (r AgeRange) Normalize() AgeRange {
	out := r
	if out.Lower == nil && out.Upper != nil {
		out.Lower = Int(*out.Upper)
	}
	if out.Upper == nil && out.Lower != nil {
		out.Upper = Int(*out.Lower)
	}
	if out.Lower != nil && out.Upper != nil && *out.Lower > *out.Upper {
		out.Lower, out.Upper = out.Upper, out.Lower
	}
	return out
}

// Equal reports whether two ranges have the same bounds.
func (r AgeRange) Equal(o AgeRange) bool {
	return intPtrEqual(r.Lower, o.Lower) && intPtrEqual(r.Upper, o.Upper)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Int returns a pointer to v. Convenience for building ranges and
// tri-state fiction values.
func Int(v int) *int { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
