package classification

import (
	"strings"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
)

// overdriveClassifier handles Overdrive's curated category names. These are
// full phrases ("Juvenile Fiction", "Science Fiction & Fantasy"), so matching
// is by whole category with audience prefixes stripped, not by keyword.
type overdriveClassifier struct {
	base
	categories map[string]*genres.Genre
}

// Overdrive categories that are nonfiction despite not saying so.
var overdriveNonfiction = map[string]bool{
	"biography & autobiography": true,
	"business":                  true,
	"careers":                   true,
	"cooking & food":            true,
	"crafts":                    true,
	"current events":            true,
	"economics":                 true,
	"education":                 true,
	"finance":                   true,
	"gardening":                 true,
	"grammar & language usage":  true,
	"health & fitness":          true,
	"history":                   true,
	"home design & décor":       true,
	"judaica":                   true,
	"law":                       true,
	"management":                true,
	"medical":                   true,
	"military":                  true,
	"music":                     true,
	"nature":                    true,
	"new age":                   true,
	"outdoor recreation":        true,
	"parenting & family":        true,
	"pets":                      true,
	"philosophy":                true,
	"photography":               true,
	"politics":                  true,
	"psychology":                true,
	"reference":                 true,
	"religion & spirituality":   true,
	"self-improvement":          true,
	"science":                   true,
	"self help":                 true,
	"sociology":                 true,
	"sports & recreations":      true,
	"technology":                true,
	"travel":                    true,
	"true crime":                true,
}

func newOverdriveClassifier(tax *genres.Taxonomy) overdriveClassifier {
	g := tax.MustByName
	return overdriveClassifier{
		categories: map[string]*genres.Genre{
			"biography & autobiography": g("Biography & Memoir"),
			"business":                  g("Business"),
			"classic literature":        g("Classics"),
			"comic and graphic books":   g(genres.ComicsGraphicNovels),
			"cooking & food":            g("Cooking"),
			"crafts":                    g("Crafts & Hobbies"),
			"drama":                     g("Drama"),
			"economics":                 g("Economics"),
			"education":                 g("Education"),
			"erotic literature":         g(genres.Erotica),
			"fantasy":                   g("Fantasy"),
			"finance":                   g("Personal Finance & Investing"),
			"folklore":                  g("Folklore"),
			"gardening":                 g("Gardening"),
			"health & fitness":          g("Health & Diet"),
			"historical fiction":        g("Historical Fiction"),
			"history":                   g("History"),
			"home design & décor":       g("House & Home"),
			"horror":                    g("Horror"),
			"humor (fiction)":           g("Humorous Fiction"),
			"humor (nonfiction)":        g("Humorous Nonfiction"),
			"judaica":                   g("Judaism"),
			"law":                       g("Law"),
			"literary criticism":        g("Literary Criticism"),
			"literature":                g("Literary Fiction"),
			"management":                g("Management & Leadership"),
			"medical":                   g("Medical"),
			"military":                  g("Military History"),
			"music":                     g("Music"),
			"mystery":                   g("Mystery"),
			"nature":                    g("Nature"),
			"new age":                   g("Body, Mind & Spirit"),
			"parenting & family":        g("Parenting & Family"),
			"performing arts":           g("Performing Arts"),
			"pets":                      g("Pets"),
			"philosophy":                g("Philosophy"),
			"photography":               g("Photography"),
			"poetry":                    g("Poetry"),
			"politics":                  g("Political Science"),
			"psychology":                g("Psychology"),
			"reference":                 g("Reference & Study Aids"),
			"religion & spirituality":   g("Religion & Spirituality"),
			"romance":                   g("Romance"),
			"science":                   g("Science"),
			"science fiction":           g("Science Fiction"),
			"science fiction & fantasy": g("Science Fiction"),
			"self help":                 g("Self-Help"),
			"self-improvement":          g("Self-Help"),
			"short stories":             g("Short Stories"),
			"sociology":                 g("Social Sciences"),
			"sports & recreations":      g("Sports"),
			"suspense":                  g("Suspense/Thriller"),
			"technology":                g("Technology"),
			"thriller":                  g("Suspense/Thriller"),
			"travel":                    g("Travel"),
			"true crime":                g("True Crime"),
			"urban fiction":             g("Urban Fiction"),
			"western":                   g("Westerns"),
		},
	}
}

func (o overdriveClassifier) Fiction(identifier, name Lowered) *bool {
	v := identifier.String()
	switch {
	case strings.Contains(v, "nonfiction"):
		return domain.Bool(false)
	case strings.Contains(v, "fiction"):
		return domain.Bool(true)
	}
	if overdriveNonfiction[stripOverdriveAudience(v)] {
		return domain.Bool(false)
	}
	return nil
}

func (overdriveClassifier) Audience(identifier, name Lowered) domain.Audience {
	v := identifier.String()
	switch {
	case strings.HasPrefix(v, "juvenile"), strings.HasPrefix(v, "picture book"),
		strings.HasPrefix(v, "beginning reader"), strings.HasPrefix(v, "children"):
		return domain.AudienceChildren
	case strings.HasPrefix(v, "young adult"), strings.HasPrefix(v, "teen"):
		return domain.AudienceYoungAdult
	case strings.HasPrefix(v, "erotic"):
		return domain.AudienceAdultsOnly
	}
	return ""
}

// TargetAge: two Overdrive categories imply narrow age bands.
func (overdriveClassifier) TargetAge(identifier, name Lowered) domain.AgeRange {
	v := identifier.String()
	switch {
	case strings.HasPrefix(v, "picture book"):
		return domain.NewAgeRange(0, 4)
	case strings.HasPrefix(v, "beginning reader"):
		return domain.NewAgeRange(5, 8)
	}
	return domain.AgeRange{}
}

func (o overdriveClassifier) Genre(identifier, name Lowered, fiction *bool, audience domain.Audience) *genres.Genre {
	v := identifier.String()
	if g, ok := o.categories[v]; ok {
		return g
	}
	// "Juvenile Fiction - Mystery" and friends: strip the audience prefix
	// and the fiction marker, then retry.
	return o.categories[stripOverdriveAudience(v)]
}

// stripOverdriveAudience removes the audience/fiction wrapping Overdrive puts
// around a category name.
func stripOverdriveAudience(v string) string {
	for _, prefix := range []string{"juvenile", "young adult", "teen", "picture book", "beginning reader"} {
		v = strings.TrimPrefix(v, prefix)
	}
	for _, marker := range []string{"nonfiction", "fiction", "literature"} {
		v = strings.TrimPrefix(strings.TrimSpace(v), marker)
	}
	return strings.Trim(strings.TrimSpace(v), "- ")
}
