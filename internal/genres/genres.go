// Package genres defines the static genre taxonomy: a fixed tree of genre
// definitions with default fiction status and audience restrictions. The tree
// is built once at process start and is immutable afterwards; classifiers and
// the consolidation engine share canonical *Genre handles from one Taxonomy.
package genres

import (
	"sort"
	"strings"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
)

// Genre is a node in the taxonomy tree.
type Genre struct {
	Name string
	// Fiction is the genre's default fiction status. Nil means the genre
	// plausibly appears on both sides (e.g. Humor).
	Fiction *bool
	// Audiences restricts the genre to certain audiences. Empty means any.
	Audiences []domain.Audience
	// Parent is a back-pointer; the parent owns its subgenres.
	Parent    *Genre
	Subgenres []*Genre
}

// SelfAndSubgenres returns this genre followed by its full subtree,
// depth-first.
func (g *Genre) SelfAndSubgenres() []*Genre {
	out := []*Genre{g}
	for _, sub := range g.Subgenres {
		out = append(out, sub.SelfAndSubgenres()...)
	}
	return out
}

// AllSubgenres returns the full subtree below this genre.
func (g *Genre) AllSubgenres() []*Genre {
	var out []*Genre
	for _, sub := range g.Subgenres {
		out = append(out, sub.SelfAndSubgenres()...)
	}
	return out
}

// HasSubgenre reports whether other appears anywhere below this genre.
func (g *Genre) HasSubgenre(other *Genre) bool {
	for _, sub := range g.AllSubgenres() {
		if sub == other {
			return true
		}
	}
	return false
}

// DefaultFiction resolves the genre's fiction status, inheriting from the
// nearest ancestor that declares one. Nil means genuinely ambiguous.
func (g *Genre) DefaultFiction() *bool {
	for node := g; node != nil; node = node.Parent {
		if node.Fiction != nil {
			return node.Fiction
		}
	}
	return nil
}

// RestrictedToAudiences resolves the genre's audience restriction, inheriting
// from the nearest restricted ancestor. Nil means unrestricted.
func (g *Genre) RestrictedToAudiences() []domain.Audience {
	for node := g; node != nil; node = node.Parent {
		if len(node.Audiences) > 0 {
			return node.Audiences
		}
	}
	return nil
}

// Taxonomy is the immutable process-wide genre tree.
type Taxonomy struct {
	roots  []*Genre
	byName map[string]*Genre
}

// Load builds the default taxonomy. Call once at process start.
func Load() *Taxonomy {
	t := &Taxonomy{byName: make(map[string]*Genre)}
	for _, s := range defaultTree {
		t.roots = append(t.roots, t.build(s, nil))
	}
	return t
}

func (t *Taxonomy) build(s seed, parent *Genre) *Genre {
	g := &Genre{
		Name:      s.name,
		Fiction:   s.fiction,
		Audiences: s.audiences,
		Parent:    parent,
	}
	t.byName[strings.ToLower(s.name)] = g
	for _, child := range s.children {
		g.Subgenres = append(g.Subgenres, t.build(child, g))
	}
	return g
}

// ByName looks up a genre by its canonical name, case-insensitively.
func (t *Taxonomy) ByName(name string) (*Genre, bool) {
	g, ok := t.byName[strings.ToLower(strings.TrimSpace(name))]
	return g, ok
}

// MustByName looks up a genre and panics when it is missing. For use in
// static tables whose entries are checked by tests.
func (t *Taxonomy) MustByName(name string) *Genre {
	g, ok := t.ByName(name)
	if !ok {
		panic("unknown genre: " + name)
	}
	return g
}

// All returns every genre in the taxonomy, sorted by name for deterministic
// iteration.
func (t *Taxonomy) All() []*Genre {
	out := make([]*Genre, 0, len(t.byName))
	for _, g := range t.byName {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Roots returns the top-level genres.
func (t *Taxonomy) Roots() []*Genre {
	return t.roots
}
