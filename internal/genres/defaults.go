package genres

import "github.com/NYPL-Simplified/circulation-core/internal/domain"

// seed defines a genre for building the default tree.
type seed struct {
	name      string
	fiction   *bool
	audiences []domain.Audience
	children  []seed
}

var (
	fic    = domain.Bool(true)
	nonfic = domain.Bool(false)
)

// defaultTree is the default genre taxonomy. Subgenre placement follows
// library practice rather than vendor categories: vendor categories are
// mapped onto this tree by the scheme classifiers.
var defaultTree = []seed{
	{name: "Adventure", fiction: fic},
	{name: "Classics", fiction: fic},
	{name: "Comics & Graphic Novels", fiction: fic},
	{name: "Drama", fiction: fic},
	{name: "Erotica", fiction: fic, audiences: []domain.Audience{domain.AudienceAdultsOnly}},
	{
		name: "Fantasy", fiction: fic,
		children: []seed{
			{name: "Epic Fantasy"},
			{name: "Historical Fantasy"},
			{name: "Urban Fantasy"},
		},
	},
	{name: "Folklore", fiction: fic},
	{name: "Historical Fiction", fiction: fic},
	{
		name: "Horror", fiction: fic,
		children: []seed{
			{name: "Gothic Horror"},
			{name: "Occult Horror"},
		},
	},
	{name: "Humorous Fiction", fiction: fic},
	{name: "Literary Fiction", fiction: fic},
	{name: "LGBTQ Fiction", fiction: fic},
	{
		name: "Mystery", fiction: fic,
		children: []seed{
			{name: "Cozy Mystery"},
			{name: "Crime & Detective Stories"},
			{name: "Hard-Boiled Mystery"},
			{name: "Police Procedural"},
			{name: "Women Detectives"},
		},
	},
	{name: "Poetry", fiction: fic},
	{name: "Religious Fiction", fiction: fic},
	{
		name: "Romance", fiction: fic,
		children: []seed{
			{name: "Contemporary Romance"},
			{name: "Gothic Romance"},
			{name: "Historical Romance"},
			{name: "Paranormal Romance"},
			{name: "Romantic Suspense"},
			{name: "Western Romance"},
		},
	},
	{
		name: "Science Fiction", fiction: fic,
		children: []seed{
			{name: "Alternative History"},
			{name: "Cyberpunk"},
			{name: "Dystopian SF"},
			{name: "Media Tie-in SF"},
			{name: "Military SF"},
			{name: "Space Opera"},
			{name: "Steampunk"},
		},
	},
	{name: "Short Stories", fiction: fic},
	{
		name: "Suspense/Thriller", fiction: fic,
		children: []seed{
			{name: "Espionage"},
			{name: "Legal Thriller"},
			{name: "Medical Thriller"},
			{name: "Political Thriller"},
			{name: "Psychological Thriller"},
			{name: "Technothriller"},
		},
	},
	{name: "Urban Fiction", fiction: fic},
	{name: "Westerns", fiction: fic},
	{name: "Women's Fiction", fiction: fic},

	{
		name: "Art & Design", fiction: nonfic,
		children: []seed{
			{name: "Architecture"},
			{name: "Fashion"},
			{name: "Photography"},
		},
	},
	{name: "Biography & Memoir", fiction: nonfic},
	{
		name: "Business", fiction: nonfic,
		children: []seed{
			{name: "Economics"},
			{name: "Management & Leadership"},
			{name: "Personal Finance & Investing"},
		},
	},
	{name: "Computers", fiction: nonfic},
	{
		name: "Cooking", fiction: nonfic,
		children: []seed{
			{name: "Bartending & Cocktails"},
			{name: "Vegetarian & Vegan"},
		},
	},
	{name: "Crafts & Hobbies", fiction: nonfic},
	{name: "Education", fiction: nonfic},
	{
		name: "Entertainment", fiction: nonfic,
		children: []seed{
			{name: "Dance"},
			{name: "Film & TV"},
			{name: "Music"},
			{name: "Performing Arts"},
		},
	},
	{name: "Games", fiction: nonfic},
	{name: "Gardening", fiction: nonfic},
	{name: "Health & Diet", fiction: nonfic},
	{
		name: "History", fiction: nonfic,
		children: []seed{
			{name: "African History"},
			{name: "Ancient History"},
			{name: "Asian History"},
			{name: "European History"},
			{name: "Latin American History"},
			{name: "Medieval History"},
			{name: "Military History"},
			{name: "Modern History"},
			{name: "United States History"},
			{name: "World History"},
		},
	},
	{name: "House & Home", fiction: nonfic},
	{name: "Humorous Nonfiction", fiction: nonfic},
	{name: "Law", fiction: nonfic},
	// Self-determination books aimed squarely at teenagers.
	{name: "Life Strategies", fiction: nonfic, audiences: []domain.Audience{domain.AudienceYoungAdult}},
	{name: "Literary Criticism", fiction: nonfic},
	{name: "Mathematics", fiction: nonfic},
	{name: "Medical", fiction: nonfic},
	{name: "Nature", fiction: nonfic},
	{
		name: "Parenting & Family", fiction: nonfic,
		children: []seed{
			{name: "Family & Relationships"},
			{name: "Parenting"},
		},
	},
	{name: "Periodicals", fiction: nonfic},
	{name: "Pets", fiction: nonfic},
	{name: "Philosophy", fiction: nonfic},
	{name: "Political Science", fiction: nonfic},
	{name: "Psychology", fiction: nonfic},
	{
		name: "Reference & Study Aids", fiction: nonfic,
		children: []seed{
			{name: "Dictionaries"},
			{name: "Foreign Language Study"},
			{name: "Study Aids"},
		},
	},
	{
		name: "Religion & Spirituality", fiction: nonfic,
		children: []seed{
			{name: "Body, Mind & Spirit"},
			{name: "Buddhism"},
			{name: "Christianity"},
			{name: "Hinduism"},
			{name: "Islam"},
			{name: "Judaism"},
		},
	},
	{name: "Science", fiction: nonfic},
	{name: "Self-Help", fiction: nonfic},
	{name: "Social Sciences", fiction: nonfic},
	{name: "Sports", fiction: nonfic},
	{name: "Technology", fiction: nonfic},
	{name: "Travel", fiction: nonfic},
	{name: "True Crime", fiction: nonfic},
	{name: "Vehicles", fiction: nonfic},

	// Ambiguous: appears on both sides of the fiction split.
	{name: "Humor"},
}

// SpecialGenres that other packages refer to by name.
const (
	Erotica             = "Erotica"
	MediaTieInSF        = "Media Tie-in SF"
	ComicsGraphicNovels = "Comics & Graphic Novels"
)
