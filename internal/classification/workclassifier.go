package classification

import (
	"sort"
	"strings"

	"github.com/NYPL-Simplified/circulation-core/internal/domain"
	"github.com/NYPL-Simplified/circulation-core/internal/genres"
)

// Input is one classification's contribution to a work-level decision:
// the per-subject decision plus the trust metadata consolidation needs.
// Weight is the already scaled weight of the classification.
type Input struct {
	Decision             Decision
	Weight               float64
	TargetAgeReliability int
	FromLicenseSource    bool
	DescribesFormat      bool
}

// Consolidated is the single authoritative decision for a work.
type Consolidated struct {
	Genres    map[*genres.Genre]float64
	Fiction   bool
	Audience  domain.Audience
	TargetAge domain.AgeRange
}

// WorkClassifier accumulates classifications and metadata hints for one
// work and consolidates them into one decision. Not safe for concurrent
// use; build one per work, feed it, call Classify once.
type WorkClassifier struct {
	taxonomy *genres.Taxonomy

	fictionWeights  map[int]float64
	genreWeights    map[*genres.Genre]float64
	audienceWeights map[domain.Audience]float64

	directFromLicense []Input
	targetAgeBearing  []Input
}

// NewWorkClassifier builds an empty classifier against a taxonomy.
func NewWorkClassifier(taxonomy *genres.Taxonomy) *WorkClassifier {
	return &WorkClassifier{
		taxonomy:        taxonomy,
		fictionWeights:  make(map[int]float64),
		genreWeights:    make(map[*genres.Genre]float64),
		audienceWeights: make(map[domain.Audience]float64),
	}
}

const (
	metadataVoteWeight = 100
	assumeAdultWeight  = 500
)

// Genre-associated publishers and imprints. Keys are lowercase.
var genrePublishers = map[string]string{
	"harlequin":     "Romance",
	"pocket books":  "Romance",
	"kensington":    "Romance",
	"severn house":  "Mystery",
	"wizards of the coast": "Fantasy",
}

var genreImprints = map[string]string{
	"harlequin intrigue":  "Romantic Suspense",
	"love inspired":       "Religious Fiction",
	"harlequin historical": "Historical Romance",
	"avon romance":        "Romance",
	"tor":                 "Science Fiction",
}

// Imprints whose whole catalog targets one audience.
var audienceImprints = map[string]domain.Audience{
	"harlequin teen":               domain.AudienceYoungAdult,
	"harperteen":                   domain.AudienceYoungAdult,
	"open road media teen & tween": domain.AudienceYoungAdult,
}

// Publishers and imprints that never publish adult material; their presence
// argues against an Adult audience without naming the juvenile one.
var notAdultPublishers = map[string]bool{
	"scholastic inc.":               true,
	"random house children's books": true,
	"little, brown books for young readers": true,
	"penguin young readers group":   true,
	"hachette children's books":     true,
	"nickelodeon publishing":        true,
}

var notAdultImprints = map[string]bool{
	"scholastic":                true,
	"puffin":                    true,
	"yearling books":            true,
	"random house books for young readers": true,
	"hmh books for young readers": true,
	"knopf books for young readers": true,
	"disney press":              true,
}

// Add records one classification. Format tags describe the container, not
// the content; trusted only when the license source itself says so.
func (c *WorkClassifier) Add(in Input) {
	if in.DescribesFormat && !in.FromLicenseSource {
		return
	}
	d := in.Decision
	c.fictionWeights[fictionBucket(d.Fiction)] += in.Weight
	if d.Genre != nil {
		c.genreWeights[d.Genre] += in.Weight
	}
	if d.Audience != "" {
		c.audienceWeights[d.Audience] += in.Weight
	}
	if in.FromLicenseSource {
		c.directFromLicense = append(c.directFromLicense, in)
	}
	if !d.TargetAge.Empty() {
		c.targetAgeBearing = append(c.targetAgeBearing, in)
	}
}

// AddEdition injects synthetic votes derived from publisher, imprint, and
// title metadata.
func (c *WorkClassifier) AddEdition(e *domain.Edition) {
	if e == nil {
		return
	}
	publisher := strings.ToLower(strings.TrimSpace(e.Publisher))
	imprint := strings.ToLower(strings.TrimSpace(e.Imprint))

	if name, ok := genreImprints[imprint]; ok {
		c.genreWeights[c.taxonomy.MustByName(name)] += metadataVoteWeight
	} else if name, ok := genrePublishers[publisher]; ok {
		c.genreWeights[c.taxonomy.MustByName(name)] += metadataVoteWeight
	}

	if notAdultImprints[imprint] || notAdultPublishers[publisher] {
		c.audienceWeights[domain.AudienceAdult] -= metadataVoteWeight
		c.audienceWeights[domain.AudienceAdultsOnly] -= metadataVoteWeight
	}
	if audience, ok := audienceImprints[imprint]; ok {
		c.audienceWeights[audience] += metadataVoteWeight
	}

	title := strings.ToLower(e.Title)
	if strings.Contains(title, "star trek:") ||
		strings.Contains(title, "star wars:") ||
		(strings.Contains(title, "jedi") && imprint == "del rey") {
		c.genreWeights[c.taxonomy.MustByName(genres.MediaTieInSF)] += metadataVoteWeight
	}
}

// Classify consolidates everything added so far.
func (c *WorkClassifier) Classify() Consolidated {
	fiction := c.fiction()
	genreAffinities := c.genres(fiction)
	audience := c.audience(genreAffinities)
	return Consolidated{
		Genres:    genreAffinities,
		Fiction:   fiction,
		Audience:  audience,
		TargetAge: c.targetAge(audience),
	}
}

func fictionBucket(f *bool) int {
	switch {
	case f == nil:
		return -1
	case *f:
		return 1
	}
	return 0
}

// fiction is a straight majority; ties and silence default to nonfiction.
func (c *WorkClassifier) fiction() bool {
	return c.fictionWeights[1] > c.fictionWeights[0]
}

func (c *WorkClassifier) audience(genreAffinities map[*genres.Genre]float64) domain.Audience {
	for genre := range genreAffinities {
		if restricted := genre.RestrictedToAudiences(); len(restricted) == 1 && restricted[0] == domain.AudienceAdultsOnly {
			return domain.AudienceAdultsOnly
		}
	}

	w := make(map[domain.Audience]float64, len(c.audienceWeights))
	for k, v := range c.audienceWeights {
		w[k] = v
	}

	// Vendors tag juvenile and explicit content reliably. When the license
	// source speaks with one voice and never says juvenile or explicit,
	// that silence is strong evidence of a general adult audience.
	if len(c.directFromLicense) > 0 {
		assumeAdult := true
		for _, in := range c.directFromLicense {
			a := in.Decision.Audience
			if a == "" || a == domain.AudienceChildren || a == domain.AudienceYoungAdult || a == domain.AudienceAdultsOnly {
				assumeAdult = false
				break
			}
		}
		if assumeAdult {
			w[domain.AudienceAdult] += assumeAdultWeight
		}
	}

	totalAdult := w[domain.AudienceAdult] + w[domain.AudienceAdultsOnly]
	threshold := 10.0
	if totalAdult > 0 {
		threshold = totalAdult * 2
	}

	children := w[domain.AudienceChildren]
	youngAdult := w[domain.AudienceYoungAdult]

	audience := domain.AudienceAdult
	switch {
	case children > threshold && children > youngAdult:
		audience = domain.AudienceChildren
	case youngAdult > threshold:
		audience = domain.AudienceYoungAdult
	case youngAdult+children > threshold:
		// An ambiguous juvenile signal lands in the broader bucket.
		audience = domain.AudienceYoungAdult
	}

	if audience == domain.AudienceAdult && w[domain.AudienceAdultsOnly] > totalAdult/4 {
		audience = domain.AudienceAdultsOnly
	}
	return audience
}

func (c *WorkClassifier) genres(fiction bool) map[*genres.Genre]float64 {
	weights := make(map[*genres.Genre]float64)
	for genre, weight := range c.genreWeights {
		if f := genre.DefaultFiction(); f != nil && *f != fiction {
			continue
		}
		weights[genre] = weight
	}

	consolidateHierarchy(weights)
	lowPassFilter(weights)

	total := 0.0
	for _, weight := range weights {
		total += weight
	}
	if total <= 0 {
		return map[*genres.Genre]float64{}
	}
	affinities := make(map[*genres.Genre]float64, len(weights))
	for genre, weight := range weights {
		affinities[genre] = weight / total
	}
	return affinities
}

const (
	consolidateRatio  = 0.03
	lowPassShareFloor = 0.15
)

// consolidateHierarchy folds parent weight onto the heaviest present
// subgenre, to a fixed point. A book tagged both "Mystery" and "Cozy
// Mystery" counts fully as the more specific genre.
func consolidateHierarchy(weights map[*genres.Genre]float64) {
	for {
		changed := false
		for _, parent := range sortedGenres(weights) {
			parentWeight, ok := weights[parent]
			if !ok {
				continue
			}
			var heaviest *genres.Genre
			for _, sub := range parent.AllSubgenres() {
				w, present := weights[sub]
				if !present {
					continue
				}
				if heaviest == nil || w > weights[heaviest] ||
					(w == weights[heaviest] && sub.Name < heaviest.Name) {
					heaviest = sub
				}
			}
			if heaviest == nil || weights[heaviest] <= parentWeight*consolidateRatio {
				continue
			}
			weights[heaviest] += parentWeight
			delete(weights, parent)
			changed = true
		}
		if !changed {
			return
		}
	}
}

// lowPassFilter drops genres below the share floor, lightest first,
// recomputing total share after each drop.
func lowPassFilter(weights map[*genres.Genre]float64) {
	for {
		total := 0.0
		for _, w := range weights {
			total += w
		}
		if total <= 0 {
			return
		}
		var lightest *genres.Genre
		for _, genre := range sortedGenres(weights) {
			if weights[genre]/total >= lowPassShareFloor {
				continue
			}
			if lightest == nil || weights[genre] < weights[lightest] {
				lightest = genre
			}
		}
		if lightest == nil {
			return
		}
		delete(weights, lightest)
	}
}

func sortedGenres(weights map[*genres.Genre]float64) []*genres.Genre {
	out := make([]*genres.Genre, 0, len(weights))
	for genre := range weights {
		out = append(out, genre)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (c *WorkClassifier) targetAge(audience domain.Audience) domain.AgeRange {
	if audience != domain.AudienceChildren && audience != domain.AudienceYoungAdult {
		return audience.DefaultTargetAge()
	}
	if len(c.targetAgeBearing) == 0 {
		return audience.DefaultTargetAge()
	}

	// Keep only the most reliable tier of evidence. One vendor-native age
	// range outranks any number of inferred tag ranges.
	top := 0
	for _, in := range c.targetAgeBearing {
		if in.TargetAgeReliability > top {
			top = in.TargetAgeReliability
		}
	}

	var lowers, uppers []int
	for _, in := range c.targetAgeBearing {
		if in.TargetAgeReliability != top {
			continue
		}
		// Bounds repeat once per unit of weight so the mode calculation
		// stays integral.
		n := int(in.Weight)
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			if in.Decision.TargetAge.Lower != nil {
				lowers = append(lowers, *in.Decision.TargetAge.Lower)
			}
			if in.Decision.TargetAge.Upper != nil {
				uppers = append(uppers, *in.Decision.TargetAge.Upper)
			}
		}
	}

	r := domain.AgeRange{}
	if v, ok := topTierMin(lowers); ok {
		r.Lower = domain.Int(v)
	}
	if v, ok := topTierMax(uppers); ok {
		r.Upper = domain.Int(v)
	}
	if r.Empty() {
		return audience.DefaultTargetAge()
	}
	return r.Normalize()
}

// topTierMin returns the minimum among the values tied for most frequent.
func topTierMin(values []int) (int, bool) {
	tier, ok := topTier(values)
	if !ok {
		return 0, false
	}
	best := tier[0]
	for _, v := range tier[1:] {
		if v < best {
			best = v
		}
	}
	return best, true
}

// topTierMax returns the maximum among the values tied for most frequent.
func topTierMax(values []int) (int, bool) {
	tier, ok := topTier(values)
	if !ok {
		return 0, false
	}
	best := tier[0]
	for _, v := range tier[1:] {
		if v > best {
			best = v
		}
	}
	return best, true
}

func topTier(values []int) ([]int, bool) {
	if len(values) == 0 {
		return nil, false
	}
	freq := make(map[int]int)
	max := 0
	for _, v := range values {
		freq[v]++
		if freq[v] > max {
			max = freq[v]
		}
	}
	var tier []int
	for v, n := range freq {
		if n == max {
			tier = append(tier, v)
		}
	}
	return tier, true
}
