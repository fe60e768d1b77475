// Package scholar provides a typed facade over the Semantic Scholar Graph
// and Recommendations APIs.
package scholar

// AuthorRef is the compact author form embedded in paper records.
type AuthorRef struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

// Tldr is an AI-generated one-sentence paper summary.
type Tldr struct {
	Model string `json:"model,omitempty"`
	Text  string `json:"text"`
}

// OpenAccessPDF points at a freely available full-text PDF.
type OpenAccessPDF struct {
	URL    string `json:"url"`
	Status string `json:"status,omitempty"`
}

// Journal holds publication venue details.
type Journal struct {
	Name   string `json:"name,omitempty"`
	Volume string `json:"volume,omitempty"`
	Pages  string `json:"pages,omitempty"`
}

// Paper is a Semantic Scholar paper record. Fields are populated according
// to the fields parameter of the originating request.
type Paper struct {
	PaperID                  string         `json:"paperId"`
	CorpusID                 int64          `json:"corpusId,omitempty"`
	Title                    string         `json:"title"`
	Abstract                 string         `json:"abstract,omitempty"`
	Year                     int            `json:"year,omitempty"`
	Venue                    string         `json:"venue,omitempty"`
	PublicationDate          string         `json:"publicationDate,omitempty"`
	PublicationTypes         []string       `json:"publicationTypes,omitempty"`
	CitationCount            int            `json:"citationCount"`
	ReferenceCount           int            `json:"referenceCount,omitempty"`
	InfluentialCitationCount int            `json:"influentialCitationCount,omitempty"`
	FieldsOfStudy            []string       `json:"fieldsOfStudy,omitempty"`
	URL                      string         `json:"url,omitempty"`
	ExternalIDs              map[string]any `json:"externalIds,omitempty"`
	Authors                  []AuthorRef    `json:"authors,omitempty"`
	Tldr                     *Tldr          `json:"tldr,omitempty"`
	OpenAccessPDF            *OpenAccessPDF `json:"openAccessPdf,omitempty"`
	Journal                  *Journal       `json:"journal,omitempty"`
}

// AuthorExternalIDs holds an author's identifiers in other registries.
type AuthorExternalIDs struct {
	ORCID string `json:"ORCID,omitempty"`
	DBLP  string `json:"DBLP,omitempty"`
}

// Author is a full Semantic Scholar author record.
type Author struct {
	AuthorID      string             `json:"authorId"`
	Name          string             `json:"name"`
	Aliases       []string           `json:"aliases,omitempty"`
	Affiliations  []string           `json:"affiliations,omitempty"`
	Homepage      string             `json:"homepage,omitempty"`
	PaperCount    int                `json:"paperCount,omitempty"`
	CitationCount int                `json:"citationCount,omitempty"`
	HIndex        int                `json:"hIndex,omitempty"`
	ExternalIDs   *AuthorExternalIDs `json:"externalIds,omitempty"`
	URL           string             `json:"url,omitempty"`
}

// SearchResult is a paginated paper search response.
type SearchResult struct {
	Total  int     `json:"total"`
	Offset int     `json:"offset"`
	Next   int     `json:"next,omitempty"`
	Data   []Paper `json:"data"`
}

// AuthorSearchResult is a paginated author search response.
type AuthorSearchResult struct {
	Total  int      `json:"total"`
	Offset int      `json:"offset"`
	Next   int      `json:"next,omitempty"`
	Data   []Author `json:"data"`
}

// CitationEdge is one entry of a paper's citation listing.
type CitationEdge struct {
	CitingPaper   Paper    `json:"citingPaper"`
	Contexts      []string `json:"contexts,omitempty"`
	IsInfluential bool     `json:"isInfluential,omitempty"`
}

// ReferenceEdge is one entry of a paper's reference listing.
type ReferenceEdge struct {
	CitedPaper    Paper    `json:"citedPaper"`
	Contexts      []string `json:"contexts,omitempty"`
	IsInfluential bool     `json:"isInfluential,omitempty"`
}

// CitationsResult is a paginated citations response.
type CitationsResult struct {
	Offset int            `json:"offset"`
	Next   int            `json:"next,omitempty"`
	Data   []CitationEdge `json:"data"`
}

// ReferencesResult is a paginated references response.
type ReferencesResult struct {
	Offset int             `json:"offset"`
	Next   int             `json:"next,omitempty"`
	Data   []ReferenceEdge `json:"data"`
}

// AuthorPapersResult is a paginated author paper listing.
type AuthorPapersResult struct {
	Offset int     `json:"offset"`
	Next   int     `json:"next,omitempty"`
	Data   []Paper `json:"data"`
}

// RecommendationResult is the recommendations API response.
type RecommendationResult struct {
	RecommendedPapers []Paper `json:"recommendedPapers"`
}
