package domain

// Data source names for the vendors this catalog ingests from.
const (
	SourceOverdrive     = "Overdrive"
	SourceBibliotheca   = "Bibliotheca"
	SourceAxis360       = "Axis 360"
	SourceOCLC          = "OCLC Classify"
	SourceGutenberg     = "Gutenberg"
	SourceContentServer = "Library Simplified Open Access Content Server"
	SourceStaff         = "Library Staff"
	SourceMetadataWrang = "Library Simplified Metadata Wrangler"
)

// sourceQuality ranks data sources by the reliability of their bibliographic
// data. Higher is better. Unknown sources rank zero.
var sourceQuality = map[string]int{
	SourceStaff:         10,
	SourceOverdrive:     8,
	SourceBibliotheca:   7,
	SourceAxis360:       7,
	SourceMetadataWrang: 5,
	SourceOCLC:          4,
	SourceContentServer: 2,
	SourceGutenberg:     1,
}

// SourcePriority returns the quality ranking for a data source name.
func SourcePriority(source string) int {
	return sourceQuality[source]
}
