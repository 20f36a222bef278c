package classification

import (
	"strconv"
	"strings"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
)

// deweyClassifier handles Dewey Decimal call numbers, including the letter
// codes libraries shelve alongside them (FIC, E, J, B).
type deweyClassifier struct {
	base
	ranges []deweyRange
}

// deweyRange maps an inclusive numeric range of Dewey classes to a genre.
// Tables are ordered most-specific first; first match wins.
type deweyRange struct {
	low, high int
	genre     *genres.Genre
}

func newDeweyClassifier(tax *genres.Taxonomy) deweyClassifier {
	g := tax.MustByName
	return deweyClassifier{
		ranges: []deweyRange{
			// Specific classes first.
			{398, 398, g("Folklore")},
			{741, 741, g(genres.ComicsGraphicNovels)},
			{791, 791, g("Film & TV")},
			{796, 799, g("Sports")},
			{811, 811, g("Poetry")},
			{812, 812, g("Drama")},
			{910, 919, g("Travel")},
			{920, 928, g("Biography & Memoir")},
			{940, 949, g("European History")},
			{950, 959, g("Asian History")},
			{960, 969, g("African History")},
			{970, 979, g("United States History")},
			{980, 989, g("Latin American History")},
			{355, 359, g("Military History")},
			{4, 6, g("Computers")},
			{130, 139, g("Body, Mind & Spirit")},
			{150, 159, g("Psychology")},
			{220, 289, g("Christianity")},
			{294, 294, g("Buddhism")},
			{296, 296, g("Judaism")},
			{297, 297, g("Islam")},
			{320, 329, g("Political Science")},
			{330, 339, g("Economics")},
			{340, 349, g("Law")},
			{370, 379, g("Education")},
			{400, 499, g("Foreign Language Study")},
			{510, 519, g("Mathematics")},
			{560, 599, g("Nature")},
			{610, 619, g("Medical")},
			{630, 639, g("Gardening")},
			{641, 641, g("Cooking")},
			{640, 649, g("House & Home")},
			{650, 659, g("Business")},
			{780, 789, g("Music")},
			// Broad classes last.
			{100, 199, g("Philosophy")},
			{200, 299, g("Religion & Spirituality")},
			{300, 319, g("Social Sciences")},
			{500, 599, g("Science")},
			{600, 699, g("Technology")},
			{700, 779, g("Art & Design")},
			{800, 899, g("Literary Criticism")},
			{900, 999, g("History")},
		},
	}
}

// Dewey classes consistently assigned to national literatures' fiction.
var deweyFictionClasses = map[int]bool{
	813: true, // American fiction
	823: true, // English fiction
	839: true, // Other Germanic literatures
	843: true, // French fiction
	853: true, // Italian fiction
	863: true, // Spanish fiction
	873: true, // Latin epic poetry & fiction
	883: true, // Greek epic poetry & fiction
}

// ScrubIdentifier strips the decorations libraries wrap around raw Dewey
// numbers: brackets, international variant prefixes (C for Canadian CIP, A
// for Australian, NZ for New Zealand), and everything after the first
// decimal point.
func (deweyClassifier) ScrubIdentifier(identifier string) Lowered {
	v := strings.ToUpper(strings.TrimSpace(identifier))
	v = strings.TrimPrefix(v, "[")
	v = strings.TrimSuffix(v, "]")

	switch {
	case strings.HasPrefix(v, "NZ"):
		v = v[2:]
	case len(v) > 1 && (v[0] == 'C' || v[0] == 'A') && v[1] >= '0' && v[1] <= '9':
		v = v[1:]
	}
	if i := strings.IndexByte(v, '.'); i >= 0 {
		v = v[:i]
	}
	v = strings.TrimSpace(v)
	return Lowered{Original: v, value: strings.ToLower(v)}
}

// number parses the scrubbed identifier as a Dewey class number. A leading
// collection letter (J398, E813, Y741) is ignored here; Audience reads it.
func (deweyClassifier) number(identifier Lowered) (int, bool) {
	v := identifier.String()
	if len(v) > 1 && (v[0] == 'j' || v[0] == 'y' || v[0] == 'e') && v[1] >= '0' && v[1] <= '9' {
		v = v[1:]
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Fiction: almost every Dewey class is nonfiction; the exceptions are the
// national-literature fiction classes and the letter codes FIC, E and F.
func (d deweyClassifier) Fiction(identifier, name Lowered) *bool {
	switch identifier.String() {
	case "fic", "e", "f":
		return domain.Bool(true)
	case "j", "b", "nf":
		return domain.Bool(false)
	case "y":
		// Youth collections hold both fiction and nonfiction.
		return nil
	}
	if n, ok := d.number(identifier); ok {
		return domain.Bool(deweyFictionClasses[n])
	}
	return nil
}

func (deweyClassifier) Audience(identifier, name Lowered) domain.Audience {
	v := identifier.String()
	if v == "" {
		return ""
	}
	trailingDigits := len(v) > 1 && v[1] >= '0' && v[1] <= '9'
	switch {
	case v == "e" || v == "j",
		trailingDigits && (v[0] == 'e' || v[0] == 'j'):
		return domain.AudienceChildren
	case v == "y", trailingDigits && v[0] == 'y':
		return domain.AudienceYoungAdult
	}
	return ""
}

func (d deweyClassifier) Genre(identifier, name Lowered, fiction *bool, audience domain.Audience) *genres.Genre {
	n, ok := d.number(identifier)
	if !ok {
		return nil
	}
	for _, r := range d.ranges {
		if n >= r.low && n <= r.high {
			return r.genre
		}
	}
	return nil
}
