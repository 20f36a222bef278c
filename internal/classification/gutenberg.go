package classification

import (
	"strings"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
)

// gutenbergBookshelfClassifier maps Project Gutenberg bookshelf names onto
// the taxonomy. Bookshelves are human-curated exhibit titles, so matching is
// an exact-name lookup over a hand-maintained table rather than keywords.
type gutenbergBookshelfClassifier struct {
	base
	shelves map[string]*genres.Genre
}

func newGutenbergBookshelfClassifier(tax *genres.Taxonomy) gutenbergBookshelfClassifier {
	g := tax.MustByName
	return gutenbergBookshelfClassifier{
		shelves: map[string]*genres.Genre{
			"adventure":                      g("Adventure"),
			"biographies":                    g("Biography & Memoir"),
			"christianity":                   g("Christianity"),
			"detective fiction":              g("Mystery"),
			"crime fiction":                  g("Crime & Detective Stories"),
			"erotic fiction":                 g(genres.Erotica),
			"fantasy":                        g("Fantasy"),
			"ghost stories":                  g("Horror"),
			"gothic fiction":                 g("Gothic Horror"),
			"horror":                         g("Horror"),
			"humor":                          g("Humor"),
			"islam":                          g("Islam"),
			"judaism":                        g("Judaism"),
			"law":                            g("Law"),
			"mathematics":                    g("Mathematics"),
			"mystery fiction":                g("Mystery"),
			"philosophy":                     g("Philosophy"),
			"plays":                          g("Drama"),
			"poetry":                         g("Poetry"),
			"precursors of science fiction":  g("Science Fiction"),
			"psychology":                     g("Psychology"),
			"science fiction":                g("Science Fiction"),
			"short stories":                  g("Short Stories"),
			"travel":                         g("Travel"),
			"western":                        g("Westerns"),
			"children's literature":          g("Classics"),
			"children's fiction":             g("Classics"),
			"children's picture books":       g("Classics"),
			"world war i":                    g("Military History"),
			"world war ii":                   g("Military History"),
			"united states":                  g("United States History"),
			"cookery":                        g("Cooking"),
			"animal":                         g("Nature"),
			"botany":                         g("Science"),
			"physics":                        g("Science"),
			"astronomy":                      g("Science"),
			"mythology":                      g("Folklore"),
			"folklore":                       g("Folklore"),
			"opera":                          g("Music"),
			"music":                          g("Music"),
			"architecture":                   g("Architecture"),
			"art":                            g("Art & Design"),
		},
	}
}

func (c gutenbergBookshelfClassifier) Genre(identifier, name Lowered, fiction *bool, audience domain.Audience) *genres.Genre {
	for _, text := range []Lowered{identifier, name} {
		if g, ok := c.shelves[text.String()]; ok {
			return g
		}
	}
	return nil
}

func (c gutenbergBookshelfClassifier) Fiction(identifier, name Lowered) *bool {
	if f := c.base.Fiction(identifier, name); f != nil {
		return f
	}
	if g := c.Genre(identifier, name, nil, ""); g != nil {
		return g.DefaultFiction()
	}
	return nil
}

func (c gutenbergBookshelfClassifier) Audience(identifier, name Lowered) domain.Audience {
	for _, text := range []Lowered{identifier, name} {
		if strings.HasPrefix(text.String(), "children's") {
			return domain.AudienceChildren
		}
	}
	return c.base.Audience(identifier, name)
}
