package classification

import (
	"regexp"
	"sort"
	"strings"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
)

// keywordClassifier matches free-text subject headings (LCSH, FAST, tags)
// against curated per-genre keyword lists.
//
// Keywords live in three tiers evaluated from most specific to least
// specific, stopping at the first tier that names a genre. The specific
// tiers exist to fix collisions in the broad one: "military science
// fiction" must land on Military SF before the catchall tier ever sees
// "military" and votes for Military History.
//
// A rule with a nil genre is a negative keyword: its matches are blanked
// out of the text before the rest of the tier is scored, so "ghost towns"
// never counts as a ghost story.
type keywordClassifier struct {
	base
	tiers [3][]keywordRule
}

type keywordRule struct {
	genre *genres.Genre
	re    *regexp.Regexp
}

type tierBuilder struct {
	rules []keywordRule
}

func (t *tierBuilder) add(g *genres.Genre, keywords ...string) {
	t.rules = append(t.rules, keywordRule{genre: g, re: keywordRegexp(keywords)})
}

func (t *tierBuilder) not(keywords ...string) {
	t.rules = append(t.rules, keywordRule{re: keywordRegexp(keywords)})
}

func keywordRegexp(keywords []string) *regexp.Regexp {
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, `|`) + `)\b`)
}

func newKeywordClassifier(tax *genres.Taxonomy) keywordClassifier {
	g := tax.MustByName

	// Tier 1: rare, highly specific phrases.
	var level3 tierBuilder
	level3.add(g("Military SF"), "military science fiction", "military sf")
	level3.add(g("Space Opera"), "space opera")
	level3.add(g("Alternative History"), "alternative history", "alternate history")
	level3.add(g("Steampunk"), "steampunk")
	level3.add(g("Cyberpunk"), "cyberpunk")
	level3.add(g("Dystopian SF"), "dystopia", "dystopias", "dystopian")
	level3.add(g("Epic Fantasy"), "epic fantasy", "high fantasy")
	level3.add(g("Urban Fantasy"), "urban fantasy")
	level3.add(g("Historical Fantasy"), "historical fantasy")
	level3.add(g("Historical Romance"), "historical romance", "regency romance")
	level3.add(g("Paranormal Romance"), "paranormal romance")
	level3.add(g("Romantic Suspense"), "romantic suspense")
	level3.add(g("Police Procedural"), "police procedural", "police procedurals")
	level3.add(g("Cozy Mystery"), "cozy mystery", "cozy mysteries")
	level3.add(g("Hard-Boiled Mystery"), "hard-boiled", "noir")
	level3.add(g("Women Detectives"), "women detectives", "women sleuths", "women private investigators")
	level3.add(g("Psychological Thriller"), "psychological thriller", "psychological thrillers")
	level3.add(g("Legal Thriller"), "legal thriller", "legal thrillers", "legal stories")
	level3.add(g("Medical Thriller"), "medical thriller", "medical thrillers")
	level3.add(g("Technothriller"), "technothriller", "technothrillers", "techno-thriller")
	level3.add(g("Gothic Horror"), "gothic horror")
	level3.add(g("Gothic Romance"), "gothic romance")
	level3.add(g("Occult Horror"), "occult horror")
	level3.add(g(genres.MediaTieInSF), "star trek", "star wars", "jedi")

	// Tier 2: disambiguators for words the catchall tier gets wrong.
	var level2 tierBuilder
	level2.not("children of", "ghost towns", "arts and crafts movement")
	level2.add(g("Military History"), "military history", "military campaigns")
	level2.add(g("True Crime"), "true crime")
	level2.add(g("Nature"), "natural history")
	level2.add(g("Literary Criticism"), "literary criticism", "criticism and interpretation", "history and criticism")
	level2.add(g(genres.ComicsGraphicNovels), "graphic novel", "graphic novels")
	level2.add(g("Historical Fiction"), "historical fiction")
	level2.add(g("Urban Fiction"), "urban fiction", "street lit", "street literature")
	level2.add(g("Women's Fiction"), "women's fiction", "chick lit")
	level2.add(g("Religious Fiction"), "christian fiction", "religious fiction")
	level2.add(g("Short Stories"), "short stories", "short story collections")
	level2.add(g("Foreign Language Study"), "foreign language study", "language and languages")
	level2.add(g("Study Aids"), "study guides", "examinations", "test preparation")

	// Tier 3: one broad entry per genre.
	var catchall tierBuilder
	catchall.add(g("Adventure"), "adventure", "adventurers", "adventure stories", "sea stories", "survival stories")
	catchall.add(g("Architecture"), "architecture", "architects")
	catchall.add(g("Art & Design"), "art", "arts", "painting", "drawing", "sculpture", "design")
	catchall.add(g("Biography & Memoir"), "biography", "biographies", "autobiography", "autobiographies", "memoir", "memoirs", "diaries")
	catchall.add(g("Buddhism"), "buddhism", "buddhist", "zen")
	catchall.add(g("Business"), "business", "entrepreneurship", "marketing", "advertising")
	catchall.add(g("Christianity"), "christianity", "christian", "bible", "theology")
	catchall.add(g("Classics"), "classics", "classic literature")
	catchall.add(g(genres.ComicsGraphicNovels), "comics", "comic books", "manga", "cartoons")
	catchall.add(g("Computers"), "computers", "computer science", "programming", "software")
	catchall.add(g("Cooking"), "cooking", "cookery", "cookbooks", "recipes", "baking")
	catchall.add(g("Crafts & Hobbies"), "crafts", "handicrafts", "knitting", "quilting", "woodworking", "hobbies")
	catchall.add(g("Crime & Detective Stories"), "crime", "crimes", "criminals")
	catchall.add(g("Dance"), "dance", "dancing", "dancers")
	catchall.add(g("Dictionaries"), "dictionaries", "dictionary")
	catchall.add(g("Drama"), "drama", "plays", "playwrights", "tragedies")
	catchall.add(g("Economics"), "economics", "economic conditions")
	catchall.add(g("Education"), "education", "teaching", "schools")
	catchall.add(g(genres.Erotica), "erotica", "erotic")
	catchall.add(g("Espionage"), "espionage", "spy", "spies", "spy stories", "intelligence officers")
	catchall.add(g("Family & Relationships"), "families", "interpersonal relations", "friendship", "marriage")
	catchall.add(g("Fantasy"), "fantasy", "fantasy fiction", "wizards", "dragons", "magic")
	catchall.add(g("Fashion"), "fashion", "clothing")
	catchall.add(g("Film & TV"), "motion pictures", "films", "movies", "television")
	catchall.add(g("Folklore"), "folklore", "fairy tales", "folk tales", "legends", "mythology", "myths")
	catchall.add(g("Games"), "games", "chess", "video games", "puzzles")
	catchall.add(g("Gardening"), "gardening", "gardens", "horticulture")
	catchall.add(g("Health & Diet"), "health", "diet", "dieting", "nutrition", "physical fitness")
	catchall.add(g("Hinduism"), "hinduism", "hindu")
	catchall.add(g("History"), "history", "historiography", "civilization")
	catchall.add(g("Horror"), "horror", "ghost stories", "haunted", "vampires", "werewolves", "zombies", "supernatural")
	catchall.add(g("House & Home"), "interior design", "home improvement", "home decoration")
	catchall.add(g("Humor"), "humor", "humour", "wit and humor", "satire", "jokes", "comedy")
	catchall.add(g("Islam"), "islam", "islamic", "muslim")
	catchall.add(g("Judaism"), "judaism", "jews", "jewish")
	catchall.add(g("Law"), "law", "lawyers", "legal")
	catchall.add(g("LGBTQ Fiction"), "gay", "lesbian", "lgbt", "lgbtq", "queer")
	catchall.add(g("Literary Criticism"), "criticism", "literature")
	catchall.add(g("Mathematics"), "mathematics", "algebra", "geometry", "arithmetic")
	catchall.add(g("Medical"), "medicine", "medical", "diseases", "physicians")
	catchall.add(g("Military History"), "military", "war", "wars", "warfare", "battles", "soldiers")
	catchall.add(g("Music"), "music", "musicians", "composers", "songs")
	catchall.add(g("Mystery"), "mystery", "mysteries", "detective", "detectives", "detective stories", "whodunit", "sleuth")
	catchall.add(g("Nature"), "nature", "animals", "birds", "wildlife", "ecology")
	catchall.add(g("Parenting"), "parenting", "child rearing")
	catchall.add(g("Performing Arts"), "theater", "theatre", "performing arts")
	catchall.add(g("Periodicals"), "periodicals", "magazines")
	catchall.add(g("Pets"), "pets", "dogs", "cats")
	catchall.add(g("Philosophy"), "philosophy", "philosophers", "ethics", "logic")
	catchall.add(g("Photography"), "photography", "photographs", "photographers")
	catchall.add(g("Poetry"), "poetry", "poems", "poets", "verse", "stories in rhyme")
	catchall.add(g("Political Science"), "politics", "political science", "government", "international relations")
	catchall.add(g("Psychology"), "psychology", "psychiatry", "psychoanalysis")
	catchall.add(g("Religion & Spirituality"), "religion", "religious", "spirituality", "prayer")
	catchall.add(g("Romance"), "romance", "romances", "love stories", "romantic fiction")
	catchall.add(g("Science"), "science", "physics", "chemistry", "biology", "evolution", "astronomy")
	catchall.add(g("Science Fiction"), "science fiction", "sci-fi", "time travel", "extraterrestrial beings")
	catchall.add(g("Self-Help"), "self-help", "self help", "self-improvement", "motivational")
	catchall.add(g("Social Sciences"), "sociology", "anthropology", "social science", "social conditions")
	catchall.add(g("Sports"), "sports", "baseball", "basketball", "football", "soccer", "athletes", "olympics")
	catchall.add(g("Suspense/Thriller"), "thriller", "thrillers", "suspense", "suspense fiction")
	catchall.add(g("Technology"), "technology", "engineering", "electronics", "inventions")
	catchall.add(g("Travel"), "travel", "voyages", "description and travel", "guidebooks")
	catchall.add(g("True Crime"), "serial killers", "murderers")
	catchall.add(g("Vehicles"), "automobiles", "railroads", "aviation", "ships", "aircraft")
	catchall.add(g("Westerns"), "westerns", "western stories", "cowboys", "frontier and pioneer life")
	catchall.add(g("Women's Fiction"), "women's fiction")

	return keywordClassifier{
		tiers: [3][]keywordRule{level3.rules, level2.rules, catchall.rules},
	}
}

func (c keywordClassifier) Genre(identifier, name Lowered, fiction *bool, audience domain.Audience) *genres.Genre {
	text := identifier.String()
	if !name.Empty() && name.String() != text {
		text = text + " " + name.String()
	}
	for _, tier := range c.tiers {
		if g := matchKeywordTier(tier, text); g != nil {
			return g
		}
	}
	return nil
}

// Audience blanks negative keywords before the generic keyword heuristic
// runs: "children of the night" names no children's book.
func (c keywordClassifier) Audience(identifier, name Lowered) domain.Audience {
	return c.base.Audience(c.blankNegatives(identifier), c.blankNegatives(name))
}

func (c keywordClassifier) blankNegatives(text Lowered) Lowered {
	v := text.String()
	for _, tier := range c.tiers {
		for _, r := range tier {
			if r.genre == nil {
				v = r.re.ReplaceAllString(v, " ")
			}
		}
	}
	return Lowered{Original: text.Original, value: v}
}

func matchKeywordTier(rules []keywordRule, text string) *genres.Genre {
	counts := make(map[*genres.Genre]int)
	for _, r := range rules {
		if r.genre == nil {
			text = r.re.ReplaceAllString(text, " ")
			continue
		}
		if n := len(r.re.FindAllStringIndex(text, -1)); n > 0 {
			counts[r.genre] += n
		}
	}
	if len(counts) == 0 {
		return nil
	}

	best := 0
	for _, n := range counts {
		if n > best {
			best = n
		}
	}
	var candidates []*genres.Genre
	for genre, n := range counts {
		if n == best {
			candidates = append(candidates, genre)
		}
	}

	// On an equal count a subgenre beats any of its matching ancestors.
	var winners []*genres.Genre
	for _, candidate := range candidates {
		shadowed := false
		for _, other := range candidates {
			if other != candidate && candidate.HasSubgenre(other) {
				shadowed = true
				break
			}
		}
		if !shadowed {
			winners = append(winners, candidate)
		}
	}
	sort.Slice(winners, func(i, j int) bool { return winners[i].Name < winners[j].Name })
	return winners[0]
}
