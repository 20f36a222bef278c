package classification

import (
	"strings"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
)

// lccClassifier handles Library of Congress call numbers. Only the leading
// letter prefix is significant; the numeric part is ignored.
type lccClassifier struct {
	base
	// prefixes is the curated table, ordered longest-prefix-first so "PN"
	// wins over "P".
	prefixes []lccPrefix
	// leftovers maps bare single letters that the curated table does not
	// cover to their broadest genre.
	leftovers map[string]*genres.Genre
}

type lccPrefix struct {
	prefix string
	genre  *genres.Genre
}

// LCC subclasses that hold literature in the fictional sense.
var lccFictionPrefixes = map[string]bool{
	"PN": true,
	"PQ": true,
	"PR": true,
	"PS": true,
	"PT": true,
	"PZ": true,
}

func newLCCClassifier(tax *genres.Taxonomy) lccClassifier {
	g := tax.MustByName
	return lccClassifier{
		prefixes: []lccPrefix{
			{"BF", g("Psychology")},
			{"BL", g("Religion & Spirituality")},
			{"BM", g("Judaism")},
			{"BP", g("Islam")},
			{"BQ", g("Buddhism")},
			{"BR", g("Christianity")},
			{"BS", g("Christianity")},
			{"BT", g("Christianity")},
			{"BV", g("Christianity")},
			{"BX", g("Christianity")},
			{"DA", g("European History")},
			{"DB", g("European History")},
			{"DC", g("European History")},
			{"DD", g("European History")},
			{"DE", g("Ancient History")},
			{"DF", g("European History")},
			{"DG", g("European History")},
			{"DK", g("European History")},
			{"DS", g("Asian History")},
			{"DT", g("African History")},
			{"GN", g("Social Sciences")},
			{"GR", g("Folklore")},
			{"GV", g("Sports")},
			{"HB", g("Economics")},
			{"HC", g("Economics")},
			{"HD", g("Management & Leadership")},
			{"HF", g("Business")},
			{"HG", g("Personal Finance & Investing")},
			{"HQ", g("Family & Relationships")},
			{"ML", g("Music")},
			{"MT", g("Music")},
			{"ND", g("Art & Design")},
			{"PN", g("Literary Criticism")},
			{"QA", g("Mathematics")},
			{"QB", g("Science")},
			{"QC", g("Science")},
			{"QD", g("Science")},
			{"QH", g("Nature")},
			{"QK", g("Nature")},
			{"QL", g("Nature")},
			{"TR", g("Photography")},
			{"TX", g("Cooking")},
			{"UA", g("Military History")},
			{"VA", g("Military History")},
		},
		leftovers: map[string]*genres.Genre{
			"B": g("Philosophy"),
			"C": g("History"),
			"D": g("History"),
			"E": g("United States History"),
			"F": g("United States History"),
			"G": g("Travel"),
			"H": g("Social Sciences"),
			"J": g("Political Science"),
			"K": g("Law"),
			"L": g("Education"),
			"M": g("Music"),
			"N": g("Art & Design"),
			"Q": g("Science"),
			"R": g("Medical"),
			"S": g("Nature"),
			"T": g("Technology"),
			"U": g("Military History"),
			"V": g("Military History"),
			"Z": g("Reference & Study Aids"),
		},
	}
}

// ScrubIdentifier uppercases and keeps only the leading letter run.
func (lccClassifier) ScrubIdentifier(identifier string) Lowered {
	v := strings.ToUpper(strings.TrimSpace(identifier))
	end := 0
	for end < len(v) && v[end] >= 'A' && v[end] <= 'Z' {
		end++
	}
	v = v[:end]
	return Lowered{Original: v, value: strings.ToLower(v)}
}

// Fiction: a bare P, or any of the literature subclasses, is fiction;
// everything else in LCC is nonfiction.
func (lccClassifier) Fiction(identifier, name Lowered) *bool {
	prefix := identifier.Original
	if prefix == "P" || lccFictionPrefixes[prefix] {
		return domain.Bool(true)
	}
	if prefix == "" {
		return nil
	}
	return domain.Bool(false)
}

// Audience: PZ is juvenile belles lettres.
func (lccClassifier) Audience(identifier, name Lowered) domain.Audience {
	if identifier.Original == "PZ" {
		return domain.AudienceChildren
	}
	return ""
}

func (c lccClassifier) Genre(identifier, name Lowered, fiction *bool, audience domain.Audience) *genres.Genre {
	prefix := identifier.Original
	if prefix == "" {
		return nil
	}
	for _, p := range c.prefixes {
		if strings.HasPrefix(prefix, p.prefix) {
			return p.genre
		}
	}
	// Fall back to the broad single-letter class.
	return c.leftovers[prefix[:1]]
}
