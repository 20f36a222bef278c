package classification

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
)

// American grade names to the age a student typically enters that grade.
var gradeToAge = map[string]int{
	"preschool":    3,
	"pre-school":   3,
	"p":            3,
	"pk":           4,
	"pre-k":        4,
	"kindergarten": 5,
	"k":            5,
	"first":        6,
	"second":       7,
	"third":        8,
	"fourth":       9,
	"fifth":        10,
	"sixth":        11,
	"seventh":      12,
	"eighth":       13,
	"ninth":        14,
	"tenth":        15,
	"eleventh":     16,
	"twelfth":      17,
}

func ageForGrade(token string) (int, bool) {
	token = strings.TrimSpace(token)
	if age, ok := gradeToAge[token]; ok {
		return age, true
	}
	if n, err := strconv.Atoi(token); err == nil && n >= 0 && n <= 12 {
		return n + 5, true
	}
	return 0, false
}

const gradeToken = `(?:pre-school|preschool|pre-k|kindergarten|first|second|third|fourth|fifth|sixth|seventh|eighth|ninth|tenth|eleventh|twelfth|\d{1,2}|pk|k|p)`

var gradePatterns = []*regexp.Regexp{
	regexp.MustCompile(`grades?:?\s*(` + gradeToken + `)(?:\s*(?:-|–|to|through|and)\s*(` + gradeToken + `))?`),
	regexp.MustCompile(`\bgr\.?\s*(` + gradeToken + `)(?:\s*(?:-|–|to|through)\s*(` + gradeToken + `))?`),
	regexp.MustCompile(`\b(` + gradeToken + `)(?:\s*(?:-|–|to|through)\s*(` + gradeToken + `))?(?:st|nd|rd|th)?[\s-]+grade\b`),
	regexp.MustCompile(`\b(kindergarten|preschool|pre-school|pre-k)\b(?:\s*(?:-|–|to|through)\s*(` + gradeToken + `))?`),
}

var andUpPattern = regexp.MustCompile(`(?:and|&)\s*up\b|\+\s*$`)

// gradeLevelClassifier parses American grade designations ("Grades 4-6",
// "gr. 2", "kindergarten") into target ages.
type gradeLevelClassifier struct {
	base
}

func parseGradeRange(text string) domain.AgeRange {
	// "fifth graders" is a book about students, "special education" a book
	// about schooling; neither marks a reading level.
	if strings.Contains(text, "grader") || strings.Contains(text, "education") {
		return domain.AgeRange{}
	}
	for _, re := range gradePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		lower, ok := ageForGrade(m[1])
		if !ok {
			continue
		}
		r := domain.AgeRange{Lower: domain.Int(lower)}
		if len(m) > 2 && m[2] != "" {
			if upper, ok := ageForGrade(m[2]); ok {
				r.Upper = domain.Int(upper)
			}
		}
		if r.Upper == nil && andUpPattern.MatchString(text) {
			r.Upper = domain.Int(lower + 2)
		}
		return r.Normalize()
	}
	return domain.AgeRange{}
}

func (c gradeLevelClassifier) TargetAge(identifier, name Lowered) domain.AgeRange {
	for _, text := range []Lowered{identifier, name} {
		if r := parseGradeRange(text.String()); !r.Empty() {
			return r
		}
	}
	return domain.AgeRange{}
}

func (c gradeLevelClassifier) Audience(identifier, name Lowered) domain.Audience {
	if r := c.TargetAge(identifier, name); !r.Empty() {
		return domain.AudienceForAge(r)
	}
	return c.base.Audience(identifier, name)
}

// ageClassifier parses explicit age designations ("Ages 9-12", "8 years
// and up"). With requireExplicitAgeMarker unset it also accepts bare
// numeric ranges, which is safe only when the input is known to be an age
// field rather than arbitrary text.
type ageClassifier struct {
	base
	requireExplicitAgeMarker bool
}

var (
	explicitAgePatterns = []*regexp.Regexp{
		regexp.MustCompile(`ages?:?\s*(\d+)(?:\s*(?:-|–|to|through|and)\s*(\d+))?`),
		regexp.MustCompile(`(\d+)(?:\s*(?:-|–|to|through)\s*(\d+))?\s*year`),
	}
	genericAgePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*(?:-|–|to|through)\s*(\d+)`),
		regexp.MustCompile(`(\d+)\s*(?:and|&)\s*up`),
	}
	babyPattern = regexp.MustCompile(`baby\s*(?:-|–|to|through)\s*(\d+)`)
)

func parseAgeRange(text string, explicitOnly bool) domain.AgeRange {
	if m := babyPattern.FindStringSubmatch(text); m != nil {
		if upper, err := strconv.Atoi(m[1]); err == nil && upper <= 99 {
			return domain.AgeRange{Lower: domain.Int(0), Upper: domain.Int(upper)}
		}
	}
	patterns := explicitAgePatterns
	if !explicitOnly {
		patterns = append(append([]*regexp.Regexp{}, explicitAgePatterns...), genericAgePatterns...)
	}
	for _, re := range patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		lower, err := strconv.Atoi(m[1])
		if err != nil || lower > 99 {
			continue
		}
		r := domain.AgeRange{Lower: domain.Int(lower)}
		if len(m) > 2 && m[2] != "" {
			if upper, err := strconv.Atoi(m[2]); err == nil && upper <= 99 {
				r.Upper = domain.Int(upper)
			}
		}
		if r.Upper == nil && andUpPattern.MatchString(text) {
			r.Upper = domain.Int(lower + 2)
		}
		return r.Normalize()
	}
	return domain.AgeRange{}
}

func (c ageClassifier) TargetAge(identifier, name Lowered) domain.AgeRange {
	for _, text := range []Lowered{identifier, name} {
		if r := parseAgeRange(text.String(), c.requireExplicitAgeMarker); !r.Empty() {
			return r
		}
	}
	return domain.AgeRange{}
}

func (c ageClassifier) Audience(identifier, name Lowered) domain.Audience {
	if r := c.TargetAge(identifier, name); !r.Empty() {
		return domain.AudienceForAge(r)
	}
	return c.base.Audience(identifier, name)
}

// interestLevelClassifier handles the three-code school interest level
// vocabulary: lower grades, middle grades, upper grades.
type interestLevelClassifier struct {
	base
}

func (interestLevelClassifier) Audience(identifier, name Lowered) domain.Audience {
	switch identifier.String() {
	case "lg", "mg", "mg+":
		return domain.AudienceChildren
	case "ug":
		return domain.AudienceYoungAdult
	}
	return ""
}

func (interestLevelClassifier) TargetAge(identifier, name Lowered) domain.AgeRange {
	switch identifier.String() {
	case "lg":
		return domain.NewAgeRange(5, 8)
	case "mg", "mg+":
		return domain.NewAgeRange(9, 13)
	case "ug":
		return domain.NewAgeRange(14, 17)
	}
	return domain.AgeRange{}
}

// axis360AudienceClassifier handles Axis 360 audience strings such as
// "Children's - Grade 4-6", "Teen - Grade 7-9", and "General Adult".
type axis360AudienceClassifier struct {
	base
}

func (axis360AudienceClassifier) Audience(identifier, name Lowered) domain.Audience {
	v := identifier.String()
	switch {
	case strings.HasPrefix(v, "children's"):
		return domain.AudienceChildren
	case strings.HasPrefix(v, "teen"):
		return domain.AudienceYoungAdult
	case strings.HasPrefix(v, "general adult") || strings.HasPrefix(v, "adult"):
		return domain.AudienceAdult
	}
	return ""
}

func (axis360AudienceClassifier) TargetAge(identifier, name Lowered) domain.AgeRange {
	return parseGradeRange(identifier.String())
}

// freeformAudienceClassifier handles uncontrolled audience values pulled
// from schema:audience metadata.
type freeformAudienceClassifier struct {
	base
}

func (freeformAudienceClassifier) Audience(identifier, name Lowered) domain.Audience {
	switch identifier.String() {
	case "children", "pre-adolescent", "juvenile", "beginning reader":
		return domain.AudienceChildren
	case "young adult", "ya", "teen", "teens", "teenagers", "adolescent", "early adolescents":
		return domain.AudienceYoungAdult
	case "adult", "adults":
		return domain.AudienceAdult
	case "adults only", "adult only", "mature":
		return domain.AudienceAdultsOnly
	}
	return ""
}

func (freeformAudienceClassifier) TargetAge(identifier, name Lowered) domain.AgeRange {
	switch identifier.String() {
	case "beginning reader":
		return domain.NewAgeRange(5, 8)
	case "pre-adolescent":
		return domain.NewAgeRange(9, 12)
	case "early adolescents":
		return domain.NewAgeRange(13, 14)
	}
	return domain.AgeRange{}
}
