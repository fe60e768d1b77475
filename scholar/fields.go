package scholar

import "strings"

// Default field selections requested from the API. Narrow selections keep
// responses small; callers can override per call.
var (
	// DefaultPaperFields covers the common paper metadata.
	DefaultPaperFields = []string{
		"paperId", "title", "abstract", "year", "venue",
		"publicationTypes", "citationCount", "referenceCount",
		"influentialCitationCount", "fieldsOfStudy", "url",
		"externalIds", "authors",
	}

	// PaperFieldsWithTldr adds the generated summary to the defaults.
	PaperFieldsWithTldr = append(append([]string{}, DefaultPaperFields...), "tldr", "openAccessPdf", "journal", "publicationDate")

	// DefaultAuthorFields covers the common author metadata.
	DefaultAuthorFields = []string{
		"authorId", "name", "aliases", "affiliations", "homepage",
		"paperCount", "citationCount", "hIndex", "externalIds", "url",
	}
)

// joinFields renders a field list for the fields query parameter.
func joinFields(fields []string) string {
	return strings.Join(fields, ",")
}

// edgeFields prepends the edge metadata fields requested on citation and
// reference listings to a paper field selection.
func edgeFields(fields []string) string {
	return joinFields(append([]string{"contexts", "isInfluential"}, fields...))
}
