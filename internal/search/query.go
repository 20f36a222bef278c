package search

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// Params configures a search query.
type Params struct {
	Query string // User's search query

	// Filters
	Genres   []string // Filter by exact genre names
	Audience string   // Filter by audience
	Fiction  *bool    // Filter by fiction/nonfiction
	Medium   string   // Filter by medium
	Language string   // Filter by language code
	MinAge   int      // Works whose target age range reaches down to MinAge
	MaxAge   int      // Works whose target age range reaches up to MaxAge

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "author", "recent"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool
	FacetFields   []string
}

// DefaultParams returns sensible defaults.
func DefaultParams() Params {
	return Params{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		FacetFields:   []string{"genres", "audience"},
	}
}

// Result represents the search results.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets,omitempty"`
}

// Hit represents a single matched work.
type Hit struct {
	ID       string   `json:"id"`
	Score    float64  `json:"score"`
	Title    string   `json:"title"`
	Author   string   `json:"author,omitempty"`
	Genres   []string `json:"genres,omitempty"`
	Audience string   `json:"audience,omitempty"`
	Medium   string   `json:"medium,omitempty"`
	Language string   `json:"language,omitempty"`
}

// Facets contains facet counts.
type Facets struct {
	Genres    []FacetCount `json:"genres,omitempty"`
	Audiences []FacetCount `json:"audiences,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *Index) Search(ctx context.Context, params Params) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.IncludeFacets {
		for _, field := range params.FacetFields {
			searchRequest.AddFacet(field, bleve.NewFacetRequest(field, 20))
		}
	}

	searchRequest.Fields = []string{
		"id", "title", "author", "genres", "audience", "medium", "language",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		h := Hit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["title"].(string); ok {
			h.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			h.Author = a
		}
		if aud, ok := hit.Fields["audience"].(string); ok {
			h.Audience = aud
		}
		if m, ok := hit.Fields["medium"].(string); ok {
			h.Medium = m
		}
		if l, ok := hit.Fields["language"].(string); ok {
			h.Language = l
		}
		// Multi-valued fields come back as a string or a []interface{}.
		switch g := hit.Fields["genres"].(type) {
		case string:
			h.Genres = []string{g}
		case []interface{}:
			for _, v := range g {
				if name, ok := v.(string); ok {
					h.Genres = append(h.Genres, name)
				}
			}
		}

		result.Hits = append(result.Hits, h)
	}

	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		textQueries := []query.Query{}

		// Title match with highest boost.
		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)
		textQueries = append(textQueries, titleMatch)

		authorMatch := bleve.NewMatchQuery(params.Query)
		authorMatch.SetField("author")
		authorMatch.SetBoost(1.5)
		textQueries = append(textQueries, authorMatch)

		// Fuzzy matching for typo tolerance on title.
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars).
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Genre filter (exact match, OR across names).
	if len(params.Genres) > 0 {
		genreQueries := make([]query.Query, len(params.Genres))
		for i, name := range params.Genres {
			gq := bleve.NewTermQuery(name)
			gq.SetField("genres")
			genreQueries[i] = gq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(genreQueries...))
	}

	if params.Audience != "" {
		aq := bleve.NewTermQuery(params.Audience)
		aq.SetField("audience")
		queries = append(queries, aq)
	}

	if params.Fiction != nil {
		fq := bleve.NewBoolFieldQuery(*params.Fiction)
		fq.SetField("fiction")
		queries = append(queries, fq)
	}

	if params.Medium != "" {
		mq := bleve.NewTermQuery(params.Medium)
		mq.SetField("medium")
		queries = append(queries, mq)
	}

	if params.Language != "" {
		lq := bleve.NewTermQuery(params.Language)
		lq.SetField("language")
		queries = append(queries, lq)
	}

	// Age window: the work's range must overlap [MinAge, MaxAge].
	if params.MinAge > 0 || params.MaxAge > 0 {
		if params.MaxAge > 0 {
			lower := float64(0)
			upper := float64(params.MaxAge)
			rq := bleve.NewNumericRangeQuery(&lower, &upper)
			rq.SetField("target_age_lower")
			queries = append(queries, rq)
		}
		if params.MinAge > 0 {
			lower := float64(params.MinAge)
			upper := math.MaxFloat64
			rq := bleve.NewNumericRangeQuery(&lower, &upper)
			rq.SetField("target_age_upper")
			queries = append(queries, rq)
		}
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params Params) {
	switch params.SortBy {
	case "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-title"})
		} else {
			req.SortBy([]string{"title"})
		}
	case "author":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-author", "-title"})
		} else {
			req.SortBy([]string{"author", "title"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"updated_at"})
		} else {
			req.SortBy([]string{"-updated_at"})
		}
	default:
		req.SortBy([]string{"-_score"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) Facets {
	facets := Facets{}

	if genreFacet, ok := result.Facets["genres"]; ok {
		for _, term := range genreFacet.Terms.Terms() {
			facets.Genres = append(facets.Genres, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if audienceFacet, ok := result.Facets["audience"]; ok {
		for _, term := range audienceFacet.Terms.Terms() {
			facets.Audiences = append(facets.Audiences, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
