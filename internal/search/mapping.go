package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for work documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search on titles and authors with English stemming
//  2. Exact keyword matching for genre, audience, medium and language filters
//  3. Numeric range queries over the target age bounds
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = en.AnalyzerName
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Genre names kept intact: "Historical Romance" is one term.
	genresFieldMapping := bleve.NewTextFieldMapping()
	genresFieldMapping.Analyzer = keyword.Name
	genresFieldMapping.Store = true
	genresFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("genres", genresFieldMapping)

	audienceFieldMapping := bleve.NewTextFieldMapping()
	audienceFieldMapping.Analyzer = keyword.Name
	audienceFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("audience", audienceFieldMapping)

	mediumFieldMapping := bleve.NewTextFieldMapping()
	mediumFieldMapping.Analyzer = keyword.Name
	mediumFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("medium", mediumFieldMapping)

	languageFieldMapping := bleve.NewTextFieldMapping()
	languageFieldMapping.Analyzer = keyword.Name
	languageFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("language", languageFieldMapping)

	// --- Boolean fields ---

	fictionFieldMapping := bleve.NewBooleanFieldMapping()
	fictionFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("fiction", fictionFieldMapping)

	openAccessFieldMapping := bleve.NewBooleanFieldMapping()
	openAccessFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("open_access", openAccessFieldMapping)

	// --- Numeric fields (range queries, sorting) ---

	ageLowerFieldMapping := bleve.NewNumericFieldMapping()
	ageLowerFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("target_age_lower", ageLowerFieldMapping)

	ageUpperFieldMapping := bleve.NewNumericFieldMapping()
	ageUpperFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("target_age_upper", ageUpperFieldMapping)

	affinityFieldMapping := bleve.NewNumericFieldMapping()
	affinityFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("top_affinity", affinityFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
