package scholar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ambiyansyah-risyal/scholargo"
)

// batchLimit is the maximum number of IDs per batch lookup accepted upstream.
const batchLimit = 500

// API wraps a scholargo.Client with typed operations for the paper and
// author graph. The zero value is not usable; construct with NewAPI.
type API struct {
	client *scholargo.Client
	retry  *scholargo.RetryConfig
}

// NewAPI creates a typed API facade over client.
func NewAPI(client *scholargo.Client) *API {
	return &API{client: client}
}

// NewAPIWithRetry creates a facade whose calls retry rate-limited requests
// with the given policy.
func NewAPIWithRetry(client *scholargo.Client, retry scholargo.RetryConfig) *API {
	return &API{client: client, retry: &retry}
}

// Client returns the underlying pipeline client.
func (a *API) Client() *scholargo.Client {
	return a.client
}

func (a *API) do(ctx context.Context, req scholargo.Request) (json.RawMessage, error) {
	if a.retry != nil {
		return a.client.DoWithRetry(ctx, req, *a.retry)
	}
	return a.client.Do(ctx, req)
}

func (a *API) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	return a.do(ctx, scholargo.Request{Method: http.MethodGet, Endpoint: endpoint, Params: params})
}

// SearchOptions narrows a paper search.
type SearchOptions struct {
	Limit            int
	Offset           int
	Year             string // single year "2020" or range "2018-2022"
	MinCitationCount int
	FieldsOfStudy    []string
	OpenAccessOnly   bool
	Fields           []string
}

// SearchPapers performs a relevance-ranked paper search. Limit is clamped
// to the API's 1..100 window.
func (a *API) SearchPapers(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("scholar: search query cannot be empty")
	}

	limit := opts.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	fields := opts.Fields
	if len(fields) == 0 {
		fields = DefaultPaperFields
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", joinFields(fields))
	if opts.Offset > 0 {
		params.Set("offset", strconv.Itoa(opts.Offset))
	}
	if opts.Year != "" {
		params.Set("year", opts.Year)
	}
	if opts.MinCitationCount > 0 {
		params.Set("minCitationCount", strconv.Itoa(opts.MinCitationCount))
	}
	if len(opts.FieldsOfStudy) > 0 {
		params.Set("fieldsOfStudy", strings.Join(opts.FieldsOfStudy, ","))
	}
	if opts.OpenAccessOnly {
		params.Set("openAccessPdf", "")
	}

	raw, err := a.get(ctx, "/paper/search", params)
	if err != nil {
		return nil, err
	}

	var result SearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("scholar: decoding search result: %w", err)
	}
	return &result, nil
}

// GetPaper fetches one paper by ID. IDs may be Semantic Scholar hashes or
// prefixed external identifiers such as "DOI:10.18653/v1/N18-3011" or
// "ARXIV:1706.03762". The selection includes the generated summary.
func (a *API) GetPaper(ctx context.Context, paperID string, fields []string) (*Paper, error) {
	if strings.TrimSpace(paperID) == "" {
		return nil, fmt.Errorf("scholar: paper ID cannot be empty")
	}
	if len(fields) == 0 {
		fields = PaperFieldsWithTldr
	}

	params := url.Values{}
	params.Set("fields", joinFields(fields))

	raw, err := a.get(ctx, "/paper/"+url.PathEscape(paperID), params)
	if err != nil {
		return nil, err
	}

	var paper Paper
	if err := json.Unmarshal(raw, &paper); err != nil {
		return nil, fmt.Errorf("scholar: decoding paper: %w", err)
	}
	return &paper, nil
}

// GetCitations lists papers citing the given paper.
func (a *API) GetCitations(ctx context.Context, paperID string, limit, offset int) (*CitationsResult, error) {
	params := pageParams(limit, offset)
	params.Set("fields", edgeFields(DefaultPaperFields))

	raw, err := a.get(ctx, "/paper/"+url.PathEscape(paperID)+"/citations", params)
	if err != nil {
		return nil, err
	}

	var result CitationsResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("scholar: decoding citations: %w", err)
	}
	return &result, nil
}

// GetReferences lists papers the given paper cites.
func (a *API) GetReferences(ctx context.Context, paperID string, limit, offset int) (*ReferencesResult, error) {
	params := pageParams(limit, offset)
	params.Set("fields", edgeFields(DefaultPaperFields))

	raw, err := a.get(ctx, "/paper/"+url.PathEscape(paperID)+"/references", params)
	if err != nil {
		return nil, err
	}

	var result ReferencesResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("scholar: decoding references: %w", err)
	}
	return &result, nil
}

// BatchPapers fetches up to 500 papers in one call. The upstream preserves
// input order and returns null entries for unknown IDs, which surface here
// as zero-valued papers.
func (a *API) BatchPapers(ctx context.Context, paperIDs []string, fields []string) ([]Paper, error) {
	if len(paperIDs) == 0 {
		return nil, fmt.Errorf("scholar: batch requires at least one paper ID")
	}
	if len(paperIDs) > batchLimit {
		return nil, fmt.Errorf("scholar: batch size %d exceeds limit of %d", len(paperIDs), batchLimit)
	}
	if len(fields) == 0 {
		fields = DefaultPaperFields
	}

	params := url.Values{}
	params.Set("fields", joinFields(fields))

	raw, err := a.do(ctx, scholargo.Request{
		Method:   http.MethodPost,
		Endpoint: "/paper/batch",
		Params:   params,
		Body:     map[string][]string{"ids": paperIDs},
	})
	if err != nil {
		return nil, err
	}

	var papers []Paper
	if err := json.Unmarshal(raw, &papers); err != nil {
		return nil, fmt.Errorf("scholar: decoding batch: %w", err)
	}
	return papers, nil
}

// SearchAuthors performs an author name search.
func (a *API) SearchAuthors(ctx context.Context, query string, limit, offset int) (*AuthorSearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("scholar: search query cannot be empty")
	}

	params := pageParams(limit, offset)
	params.Set("query", query)
	params.Set("fields", joinFields(DefaultAuthorFields))

	raw, err := a.get(ctx, "/author/search", params)
	if err != nil {
		return nil, err
	}

	var result AuthorSearchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("scholar: decoding author search: %w", err)
	}
	return &result, nil
}

// GetAuthor fetches one author by ID.
func (a *API) GetAuthor(ctx context.Context, authorID string) (*Author, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, fmt.Errorf("scholar: author ID cannot be empty")
	}

	params := url.Values{}
	params.Set("fields", joinFields(DefaultAuthorFields))

	raw, err := a.get(ctx, "/author/"+url.PathEscape(authorID), params)
	if err != nil {
		return nil, err
	}

	var author Author
	if err := json.Unmarshal(raw, &author); err != nil {
		return nil, fmt.Errorf("scholar: decoding author: %w", err)
	}
	return &author, nil
}

// GetAuthorPapers lists an author's papers, most recent first.
func (a *API) GetAuthorPapers(ctx context.Context, authorID string, limit, offset int) (*AuthorPapersResult, error) {
	if strings.TrimSpace(authorID) == "" {
		return nil, fmt.Errorf("scholar: author ID cannot be empty")
	}

	params := pageParams(limit, offset)
	params.Set("fields", joinFields(DefaultPaperFields))

	raw, err := a.get(ctx, "/author/"+url.PathEscape(authorID)+"/papers", params)
	if err != nil {
		return nil, err
	}

	var result AuthorPapersResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("scholar: decoding author papers: %w", err)
	}
	return &result, nil
}

// RecommendationsForPaper returns papers similar to one paper, drawn from
// the given pool ("recent" or "all-cs"; unknown pools fall back to recent).
func (a *API) RecommendationsForPaper(ctx context.Context, paperID string, limit int, pool string) (*RecommendationResult, error) {
	if strings.TrimSpace(paperID) == "" {
		return nil, fmt.Errorf("scholar: paper ID cannot be empty")
	}
	if pool != "recent" && pool != "all-cs" {
		pool = "recent"
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("from", pool)
	params.Set("fields", joinFields(DefaultPaperFields))

	raw, err := a.do(ctx, scholargo.Request{
		Method:   http.MethodGet,
		Endpoint: "/papers/forpaper/" + url.PathEscape(paperID),
		Params:   params,
		API:      scholargo.RecommendationsAPI,
	})
	if err != nil {
		return nil, err
	}

	var result RecommendationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("scholar: decoding recommendations: %w", err)
	}
	return &result, nil
}

// Recommendations returns papers similar to the positive examples, steering
// away from the negative ones.
func (a *API) Recommendations(ctx context.Context, positiveIDs, negativeIDs []string, limit int) (*RecommendationResult, error) {
	if len(positiveIDs) == 0 {
		return nil, fmt.Errorf("scholar: recommendations require at least one positive paper ID")
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("fields", joinFields(DefaultPaperFields))

	body := map[string][]string{"positivePaperIds": positiveIDs}
	if len(negativeIDs) > 0 {
		body["negativePaperIds"] = negativeIDs
	}

	raw, err := a.do(ctx, scholargo.Request{
		Method:   http.MethodPost,
		Endpoint: "/papers",
		Params:   params,
		Body:     body,
		API:      scholargo.RecommendationsAPI,
	})
	if err != nil {
		return nil, err
	}

	var result RecommendationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("scholar: decoding recommendations: %w", err)
	}
	return &result, nil
}

func pageParams(limit, offset int) url.Values {
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	return params
}
