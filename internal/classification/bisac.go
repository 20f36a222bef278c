package classification

import (
	"regexp"
	"strings"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
)

// bibliothecaClassifier handles hierarchical path identifiers like
// "FICTION/Horror/Occult/" (Bibliotheca) and, through the bisacClassifier
// wrapper, "FICTION / Horror / Occult" (BISAC heading names).
//
// Matching runs three prefix tables from most specific to least specific;
// the first match wins. Each table is also tried against a reduced
// identifier with the vendor's top-level segment stripped, so
// "FICTION/Mystery" and a bare "Mystery" land in the same place.
type bibliothecaClassifier struct {
	base
	level3 []pathRule
	level2 []pathRule
	level1 []pathRule
}

type pathRule struct {
	prefix []string
	genre  *genres.Genre
}

func rule(g *genres.Genre, segments ...string) pathRule {
	return pathRule{prefix: segments, genre: g}
}

func newBibliothecaClassifier(tax *genres.Taxonomy) bibliothecaClassifier {
	g := tax.MustByName
	return bibliothecaClassifier{
		// Three-segment paths: the rare, most specific headings.
		level3: []pathRule{
			rule(g("Occult Horror"), "fiction", "horror", "occult"),
			rule(g("Gothic Horror"), "fiction", "horror", "gothic"),
			rule(g("Cozy Mystery"), "fiction", "mystery & detective", "cozy"),
			rule(g("Hard-Boiled Mystery"), "fiction", "mystery & detective", "hard-boiled"),
			rule(g("Police Procedural"), "fiction", "mystery & detective", "police procedural"),
			rule(g("Women Detectives"), "fiction", "mystery & detective", "women sleuths"),
			rule(g("Military SF"), "fiction", "science fiction", "military"),
			rule(g("Space Opera"), "fiction", "science fiction", "space opera"),
			rule(g("Steampunk"), "fiction", "science fiction", "steampunk"),
			rule(g("Alternative History"), "fiction", "alternative history"),
			rule(g("Dystopian SF"), "fiction", "dystopian"),
			rule(g("Epic Fantasy"), "fiction", "fantasy", "epic"),
			rule(g("Historical Fantasy"), "fiction", "fantasy", "historical"),
			rule(g("Urban Fantasy"), "fiction", "fantasy", "urban"),
			rule(g("Contemporary Romance"), "fiction", "romance", "contemporary"),
			rule(g("Gothic Romance"), "fiction", "romance", "gothic"),
			rule(g("Historical Romance"), "fiction", "romance", "historical"),
			rule(g("Paranormal Romance"), "fiction", "romance", "paranormal"),
			rule(g("Romantic Suspense"), "fiction", "romance", "suspense"),
			rule(g("Western Romance"), "fiction", "romance", "western"),
			rule(g("Espionage"), "fiction", "thrillers", "espionage"),
			rule(g("Legal Thriller"), "fiction", "thrillers", "legal"),
			rule(g("Medical Thriller"), "fiction", "thrillers", "medical"),
			rule(g("Political Thriller"), "fiction", "thrillers", "political"),
			rule(g("Psychological Thriller"), "fiction", "thrillers", "psychological"),
			rule(g("Technothriller"), "fiction", "thrillers", "technological"),
			rule(g("Bartending & Cocktails"), "cooking", "beverages", "bartending"),
			rule(g("Vegetarian & Vegan"), "cooking", "vegetarian"),
			rule(g("Ancient History"), "history", "ancient"),
			rule(g("Medieval History"), "history", "medieval"),
			rule(g("Military History"), "history", "military"),
			rule(g("Modern History"), "history", "modern"),
			rule(g("African History"), "history", "africa"),
			rule(g("Asian History"), "history", "asia"),
			rule(g("European History"), "history", "europe"),
			rule(g("Latin American History"), "history", "latin america"),
			rule(g("United States History"), "history", "united states"),
			rule(g("World History"), "history", "world"),
			rule(g("Dictionaries"), "reference", "dictionaries"),
			rule(g("Foreign Language Study"), "foreign language study"),
			rule(g("Buddhism"), "religion", "buddhism"),
			rule(g("Christianity"), "religion", "christian life"),
			rule(g("Christianity"), "religion", "christianity"),
			rule(g("Hinduism"), "religion", "hinduism"),
			rule(g("Islam"), "religion", "islam"),
			rule(g("Judaism"), "religion", "judaism"),
			rule(g("Economics"), "business & economics", "economics"),
			rule(g("Management & Leadership"), "business & economics", "management"),
			rule(g("Management & Leadership"), "business & economics", "leadership"),
			rule(g("Personal Finance & Investing"), "business & economics", "personal finance"),
		},
		// Two-segment paths.
		level2: []pathRule{
			rule(g("Adventure"), "fiction", "action & adventure"),
			rule(g("Classics"), "fiction", "classics"),
			rule(g(genres.Erotica), "fiction", "erotica"),
			rule(g("Fantasy"), "fiction", "fantasy"),
			rule(g("Historical Fiction"), "fiction", "historical"),
			rule(g("Horror"), "fiction", "horror"),
			rule(g("Humorous Fiction"), "fiction", "humorous"),
			rule(g("Literary Fiction"), "fiction", "literary"),
			rule(g("LGBTQ Fiction"), "fiction", "gay"),
			rule(g("LGBTQ Fiction"), "fiction", "lesbian"),
			rule(g("Mystery"), "fiction", "mystery & detective"),
			rule(g("Religious Fiction"), "fiction", "christian"),
			rule(g("Religious Fiction"), "fiction", "religious"),
			rule(g("Romance"), "fiction", "romance"),
			rule(g("Science Fiction"), "fiction", "science fiction"),
			rule(g("Short Stories"), "fiction", "short stories"),
			rule(g("Suspense/Thriller"), "fiction", "suspense"),
			rule(g("Suspense/Thriller"), "fiction", "thrillers"),
			rule(g("Urban Fiction"), "fiction", "urban"),
			rule(g("Westerns"), "fiction", "westerns"),
			rule(g("Women's Fiction"), "fiction", "contemporary women"),
			rule(g("Poetry"), "poetry"),
			rule(g("Drama"), "drama"),
			rule(g(genres.ComicsGraphicNovels), "comics & graphic novels"),
		},
		// Single-segment catchalls.
		level1: []pathRule{
			rule(g("Art & Design"), "art"),
			rule(g("Architecture"), "architecture"),
			rule(g("Biography & Memoir"), "biography & autobiography"),
			rule(g("Body, Mind & Spirit"), "body, mind & spirit"),
			rule(g("Business"), "business & economics"),
			rule(g("Computers"), "computers"),
			rule(g("Cooking"), "cooking"),
			rule(g("Crafts & Hobbies"), "crafts & hobbies"),
			rule(g("Education"), "education"),
			rule(g("Family & Relationships"), "family & relationships"),
			rule(g("Games"), "games"),
			rule(g("Gardening"), "gardening"),
			rule(g("Health & Diet"), "health & fitness"),
			rule(g("History"), "history"),
			rule(g("House & Home"), "house & home"),
			rule(g("Humorous Nonfiction"), "humor"),
			rule(g("Law"), "law"),
			rule(g("Literary Criticism"), "literary criticism"),
			rule(g("Mathematics"), "mathematics"),
			rule(g("Medical"), "medical"),
			rule(g("Music"), "music"),
			rule(g("Nature"), "nature"),
			rule(g("Performing Arts"), "performing arts"),
			rule(g("Pets"), "pets"),
			rule(g("Philosophy"), "philosophy"),
			rule(g("Photography"), "photography"),
			rule(g("Political Science"), "political science"),
			rule(g("Psychology"), "psychology"),
			rule(g("Reference & Study Aids"), "reference"),
			rule(g("Religion & Spirituality"), "religion"),
			rule(g("Science"), "science"),
			rule(g("Self-Help"), "self-help"),
			rule(g("Social Sciences"), "social science"),
			rule(g("Sports"), "sports & recreation"),
			rule(g("Study Aids"), "study aids"),
			rule(g("Technology"), "technology & engineering"),
			rule(g("Travel"), "travel"),
			rule(g("True Crime"), "true crime"),
			rule(g("Vehicles"), "transportation"),
		},
	}
}

// ScrubIdentifier normalizes a slash-separated path: lowercased segments,
// trimmed whitespace, no empty trailing segment.
func (bibliothecaClassifier) ScrubIdentifier(identifier string) Lowered {
	v := strings.ToLower(strings.TrimSpace(identifier))
	segments := splitPath(v)
	v = strings.Join(segments, "/")
	return Lowered{Original: strings.TrimSpace(identifier), value: v}
}

func splitPath(v string) []string {
	var segments []string
	for _, seg := range strings.Split(v, "/") {
		seg = strings.Trim(seg, " .")
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// Vendor top-level segments that carry audience/fiction data but no genre.
var pathAudiencePrefixes = map[string]bool{
	"fiction":               true,
	"nonfiction":            true,
	"juvenile fiction":      true,
	"juvenile nonfiction":   true,
	"young adult fiction":   true,
	"young adult nonfiction": true,
}

func (bibliothecaClassifier) Fiction(identifier, name Lowered) *bool {
	segments := splitPath(identifier.String())
	if len(segments) == 0 {
		return nil
	}
	head := segments[0]
	switch {
	case strings.Contains(head, "nonfiction"):
		return domain.Bool(false)
	case strings.Contains(head, "fiction"):
		return domain.Bool(true)
	}
	// BISAC headings outside the FICTION hierarchies are nonfiction.
	return domain.Bool(false)
}

func (bibliothecaClassifier) Audience(identifier, name Lowered) domain.Audience {
	segments := splitPath(identifier.String())
	if len(segments) == 0 {
		return ""
	}
	head := segments[0]
	switch {
	case strings.HasPrefix(head, "juvenile"):
		return domain.AudienceChildren
	case strings.HasPrefix(head, "young adult"):
		return domain.AudienceYoungAdult
	case strings.HasPrefix(head, "erotica") || strings.Contains(identifier.String(), "/erotica"):
		return domain.AudienceAdultsOnly
	}
	return domain.AudienceAdult
}

func (c bibliothecaClassifier) Genre(identifier, name Lowered, fiction *bool, audience domain.Audience) *genres.Genre {
	segments := splitPath(identifier.String())
	if len(segments) == 0 {
		return nil
	}

	// Juvenile paths use the same genre vocabulary under a different root;
	// fold them onto the adult hierarchy.
	if strings.HasPrefix(segments[0], "juvenile") || strings.HasPrefix(segments[0], "young adult") {
		replacement := "fiction"
		if strings.Contains(segments[0], "nonfiction") {
			replacement = "nonfiction"
		}
		segments = append([]string{replacement}, segments[1:]...)
	}

	candidates := [][]string{segments}
	// Reduced identifier: vendor top-level prefix stripped.
	if len(segments) > 1 && pathAudiencePrefixes[segments[0]] {
		candidates = append(candidates, segments[1:])
	}

	for _, table := range [][]pathRule{c.level3, c.level2, c.level1} {
		for _, cand := range candidates {
			if g := matchPath(table, cand); g != nil {
				return g
			}
		}
	}
	return nil
}

func matchPath(table []pathRule, segments []string) *genres.Genre {
	for _, r := range table {
		if pathHasPrefix(segments, r.prefix) {
			return r.genre
		}
		// A rule anchored under a vendor top-level segment also matches an
		// identifier that arrived without one.
		if pathAudiencePrefixes[r.prefix[0]] && len(r.prefix) > 1 && pathHasPrefix(segments, r.prefix[1:]) {
			return r.genre
		}
	}
	return nil
}

func pathHasPrefix(segments, prefix []string) bool {
	if len(segments) < len(prefix) {
		return false
	}
	for i, p := range prefix {
		if segments[i] != p {
			return false
		}
	}
	return true
}

// bisacClassifier adapts official BISAC heading names ("FICTION / Romance /
// Suspense") onto the Bibliotheca path matcher by collapsing the spaced
// separators first.
type bisacClassifier struct {
	bibliothecaClassifier
}

var bisacSeparator = regexp.MustCompile(`\s*/\s*`)

func (b bisacClassifier) ScrubIdentifier(identifier string) Lowered {
	collapsed := bisacSeparator.ReplaceAllString(identifier, "/")
	return b.bibliothecaClassifier.ScrubIdentifier(collapsed)
}
