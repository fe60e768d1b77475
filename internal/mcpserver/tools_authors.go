package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ambiyansyah-risyal/scholargo/scholar"
)

// SearchAuthorsInput is the search_authors tool input.
type SearchAuthorsInput struct {
	Query  string `json:"query" jsonschema:"author name to search for"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum results, 1-100, default 10"`
	Offset int    `json:"offset,omitempty" jsonschema:"pagination offset"`
}

// SearchAuthorsOutput is the search_authors tool output.
type SearchAuthorsOutput struct {
	Total   int              `json:"total" jsonschema:"total matching authors"`
	Authors []scholar.Author `json:"authors" jsonschema:"matching authors"`
}

func (s *Server) handleSearchAuthors(ctx context.Context, _ *mcp.CallToolRequest, input SearchAuthorsInput) (*mcp.CallToolResult, SearchAuthorsOutput, error) {
	result, err := s.api.SearchAuthors(ctx, input.Query, input.Limit, input.Offset)
	if err != nil {
		return nil, SearchAuthorsOutput{}, err
	}
	return nil, SearchAuthorsOutput{Total: result.Total, Authors: result.Data}, nil
}

// GetAuthorInput is the get_author tool input.
type GetAuthorInput struct {
	AuthorID string `json:"author_id" jsonschema:"Semantic Scholar author ID"`
}

// GetAuthorOutput is the get_author tool output.
type GetAuthorOutput struct {
	Author scholar.Author `json:"author" jsonschema:"author details"`
}

func (s *Server) handleGetAuthor(ctx context.Context, _ *mcp.CallToolRequest, input GetAuthorInput) (*mcp.CallToolResult, GetAuthorOutput, error) {
	author, err := s.api.GetAuthor(ctx, input.AuthorID)
	if err != nil {
		return nil, GetAuthorOutput{}, err
	}
	return nil, GetAuthorOutput{Author: *author}, nil
}

// GetAuthorPapersInput is the get_author_papers tool input.
type GetAuthorPapersInput struct {
	AuthorID string `json:"author_id" jsonschema:"Semantic Scholar author ID"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum results, 1-100, default 10"`
	Offset   int    `json:"offset,omitempty" jsonschema:"pagination offset"`
}

// GetAuthorPapersOutput is the get_author_papers tool output.
type GetAuthorPapersOutput struct {
	Papers []scholar.Paper `json:"papers" jsonschema:"the author's papers"`
}

func (s *Server) handleGetAuthorPapers(ctx context.Context, _ *mcp.CallToolRequest, input GetAuthorPapersInput) (*mcp.CallToolResult, GetAuthorPapersOutput, error) {
	result, err := s.api.GetAuthorPapers(ctx, input.AuthorID, input.Limit, input.Offset)
	if err != nil {
		return nil, GetAuthorPapersOutput{}, err
	}

	s.tracker.TrackAll(result.Data, "get_author_papers")
	return nil, GetAuthorPapersOutput{Papers: result.Data}, nil
}

// FindDuplicateAuthorsInput is the find_duplicate_authors tool input.
type FindDuplicateAuthorsInput struct {
	AuthorNames  []string `json:"author_names" jsonschema:"name variations to search, e.g. Geoffrey Hinton and G. Hinton"`
	MatchByORCID *bool    `json:"match_by_orcid,omitempty" jsonschema:"group records sharing an ORCID, default true"`
	MatchByDBLP  *bool    `json:"match_by_dblp,omitempty" jsonschema:"group records sharing a DBLP ID, default true"`
}

// FindDuplicateAuthorsOutput is the find_duplicate_authors tool output.
type FindDuplicateAuthorsOutput struct {
	Groups []scholar.AuthorGroup `json:"groups" jsonschema:"likely duplicate record groups, empty when none were found"`
}

func (s *Server) handleFindDuplicateAuthors(ctx context.Context, _ *mcp.CallToolRequest, input FindDuplicateAuthorsInput) (*mcp.CallToolResult, FindDuplicateAuthorsOutput, error) {
	byORCID := input.MatchByORCID == nil || *input.MatchByORCID
	byDBLP := input.MatchByDBLP == nil || *input.MatchByDBLP

	groups, err := s.api.FindDuplicateAuthors(ctx, input.AuthorNames, byORCID, byDBLP)
	if err != nil {
		return nil, FindDuplicateAuthorsOutput{}, err
	}
	return nil, FindDuplicateAuthorsOutput{Groups: groups}, nil
}

// ConsolidateAuthorsInput is the consolidate_authors tool input.
type ConsolidateAuthorsInput struct {
	AuthorIDs    []string `json:"author_ids" jsonschema:"at least two Semantic Scholar author IDs to merge"`
	ConfirmMerge bool     `json:"confirm_merge,omitempty" jsonschema:"false (default) previews the merged record"`
}

// ConsolidateAuthorsOutput is the consolidate_authors tool output. The
// merge is a local view only; upstream records are never modified.
type ConsolidateAuthorsOutput struct {
	Result scholar.AuthorConsolidation `json:"result" jsonschema:"merged author record with sources and match confidence"`
}

func (s *Server) handleConsolidateAuthors(ctx context.Context, _ *mcp.CallToolRequest, input ConsolidateAuthorsInput) (*mcp.CallToolResult, ConsolidateAuthorsOutput, error) {
	result, err := s.api.ConsolidateAuthors(ctx, input.AuthorIDs, input.ConfirmMerge)
	if err != nil {
		return nil, ConsolidateAuthorsOutput{}, err
	}
	return nil, ConsolidateAuthorsOutput{Result: *result}, nil
}
