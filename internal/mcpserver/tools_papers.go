package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ambiyansyah-risyal/scholargo/scholar"
)

// SearchPapersInput is the search_papers tool input.
type SearchPapersInput struct {
	Query            string   `json:"query" jsonschema:"search query, e.g. machine learning"`
	Limit            int      `json:"limit,omitempty" jsonschema:"maximum results, 1-100, default 10"`
	Offset           int      `json:"offset,omitempty" jsonschema:"pagination offset"`
	Year             string   `json:"year,omitempty" jsonschema:"publication year or range, e.g. 2020 or 2018-2022"`
	MinCitationCount int      `json:"min_citation_count,omitempty" jsonschema:"only papers with at least this many citations"`
	FieldsOfStudy    []string `json:"fields_of_study,omitempty" jsonschema:"restrict to fields of study, e.g. Computer Science"`
	OpenAccessOnly   bool     `json:"open_access_only,omitempty" jsonschema:"only papers with an open access PDF"`
}

// SearchPapersOutput is the search_papers tool output.
type SearchPapersOutput struct {
	Total  int             `json:"total" jsonschema:"total matching papers"`
	Offset int             `json:"offset" jsonschema:"offset of this page"`
	Papers []scholar.Paper `json:"papers" jsonschema:"matching papers"`
}

func (s *Server) handleSearchPapers(ctx context.Context, _ *mcp.CallToolRequest, input SearchPapersInput) (*mcp.CallToolResult, SearchPapersOutput, error) {
	result, err := s.api.SearchPapers(ctx, input.Query, scholar.SearchOptions{
		Limit:            input.Limit,
		Offset:           input.Offset,
		Year:             input.Year,
		MinCitationCount: input.MinCitationCount,
		FieldsOfStudy:    input.FieldsOfStudy,
		OpenAccessOnly:   input.OpenAccessOnly,
	})
	if err != nil {
		return nil, SearchPapersOutput{}, err
	}

	s.tracker.TrackAll(result.Data, "search_papers")
	return nil, SearchPapersOutput{
		Total:  result.Total,
		Offset: result.Offset,
		Papers: result.Data,
	}, nil
}

// GetPaperInput is the get_paper tool input.
type GetPaperInput struct {
	PaperID string `json:"paper_id" jsonschema:"Semantic Scholar paper ID, DOI:10.xxxx/xxxxx, or ARXIV:xxxx.xxxxx"`
}

// GetPaperOutput is the get_paper tool output.
type GetPaperOutput struct {
	Paper scholar.Paper `json:"paper" jsonschema:"paper details including tldr summary when available"`
}

func (s *Server) handleGetPaper(ctx context.Context, _ *mcp.CallToolRequest, input GetPaperInput) (*mcp.CallToolResult, GetPaperOutput, error) {
	paper, err := s.api.GetPaper(ctx, input.PaperID, nil)
	if err != nil {
		return nil, GetPaperOutput{}, err
	}

	s.tracker.Track(*paper, "get_paper")
	return nil, GetPaperOutput{Paper: *paper}, nil
}

// CitationsInput is shared by get_citations and get_references.
type CitationsInput struct {
	PaperID string `json:"paper_id" jsonschema:"paper identifier"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum results, 1-100, default 10"`
	Offset  int    `json:"offset,omitempty" jsonschema:"pagination offset"`
}

// CitationsOutput is the get_citations tool output.
type CitationsOutput struct {
	Citations []scholar.CitationEdge `json:"citations" jsonschema:"papers citing the target"`
}

func (s *Server) handleGetCitations(ctx context.Context, _ *mcp.CallToolRequest, input CitationsInput) (*mcp.CallToolResult, CitationsOutput, error) {
	result, err := s.api.GetCitations(ctx, input.PaperID, input.Limit, input.Offset)
	if err != nil {
		return nil, CitationsOutput{}, err
	}

	for _, edge := range result.Data {
		s.tracker.Track(edge.CitingPaper, "get_citations")
	}
	return nil, CitationsOutput{Citations: result.Data}, nil
}

// ReferencesOutput is the get_references tool output.
type ReferencesOutput struct {
	References []scholar.ReferenceEdge `json:"references" jsonschema:"papers the target cites"`
}

func (s *Server) handleGetReferences(ctx context.Context, _ *mcp.CallToolRequest, input CitationsInput) (*mcp.CallToolResult, ReferencesOutput, error) {
	result, err := s.api.GetReferences(ctx, input.PaperID, input.Limit, input.Offset)
	if err != nil {
		return nil, ReferencesOutput{}, err
	}

	for _, edge := range result.Data {
		s.tracker.Track(edge.CitedPaper, "get_references")
	}
	return nil, ReferencesOutput{References: result.Data}, nil
}

// RecommendationsInput is the get_recommendations tool input.
type RecommendationsInput struct {
	PaperID  string `json:"paper_id" jsonschema:"paper to find similar papers for"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum results, 1-100, default 10"`
	FromPool string `json:"from_pool,omitempty" jsonschema:"recommendation pool, recent (default) or all-cs"`
}

// RecommendationsOutput is shared by get_recommendations and
// get_related_papers.
type RecommendationsOutput struct {
	Papers []scholar.Paper `json:"papers" jsonschema:"recommended papers"`
}

func (s *Server) handleGetRecommendations(ctx context.Context, _ *mcp.CallToolRequest, input RecommendationsInput) (*mcp.CallToolResult, RecommendationsOutput, error) {
	result, err := s.api.RecommendationsForPaper(ctx, input.PaperID, input.Limit, input.FromPool)
	if err != nil {
		return nil, RecommendationsOutput{}, err
	}

	s.tracker.TrackAll(result.RecommendedPapers, "get_recommendations")
	return nil, RecommendationsOutput{Papers: result.RecommendedPapers}, nil
}

// RelatedPapersInput is the get_related_papers tool input.
type RelatedPapersInput struct {
	PositivePaperIDs []string `json:"positive_paper_ids" jsonschema:"papers the results should resemble"`
	NegativePaperIDs []string `json:"negative_paper_ids,omitempty" jsonschema:"papers to steer away from"`
	Limit            int      `json:"limit,omitempty" jsonschema:"maximum results, 1-100, default 10"`
}

func (s *Server) handleGetRelatedPapers(ctx context.Context, _ *mcp.CallToolRequest, input RelatedPapersInput) (*mcp.CallToolResult, RecommendationsOutput, error) {
	result, err := s.api.Recommendations(ctx, input.PositivePaperIDs, input.NegativePaperIDs, input.Limit)
	if err != nil {
		return nil, RecommendationsOutput{}, err
	}

	s.tracker.TrackAll(result.RecommendedPapers, "get_related_papers")
	return nil, RecommendationsOutput{Papers: result.RecommendedPapers}, nil
}
