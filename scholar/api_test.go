package scholar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ambiyansyah-risyal/scholargo"
)

func newTestAPI(t *testing.T, handler http.HandlerFunc) *API {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := scholargo.New(
		scholargo.WithGraphBaseURL(server.URL),
		scholargo.WithRecommendationsBaseURL(server.URL),
		scholargo.WithRateLimiter(scholargo.NewTokenBucket(10000, 10000)),
	)
	return NewAPI(client)
}

func TestSearchPapers(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/paper/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "attention mechanisms", q.Get("query"))
		assert.Equal(t, "25", q.Get("limit"))
		assert.Equal(t, "2017-2020", q.Get("year"))
		assert.Equal(t, "100", q.Get("minCitationCount"))
		assert.Contains(t, q.Get("fields"), "citationCount")

		json.NewEncoder(w).Encode(SearchResult{
			Total: 1,
			Data: []Paper{{
				PaperID:       "649def34f8be52c8b66281af98ae884c09aef38b",
				Title:         "Attention Is All You Need",
				Year:          2017,
				CitationCount: 95000,
			}},
		})
	})

	result, err := api.SearchPapers(context.Background(), "attention mechanisms", SearchOptions{
		Limit:            25,
		Year:             "2017-2020",
		MinCitationCount: 100,
	})
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "Attention Is All You Need", result.Data[0].Title)
	assert.Equal(t, 1, result.Total)
}

func TestSearchPapersEmptyQuery(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty query must not reach the server")
	})

	_, err := api.SearchPapers(context.Background(), "   ", SearchOptions{})
	assert.Error(t, err)
}

func TestSearchPapersClampsLimit(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		json.NewEncoder(w).Encode(SearchResult{})
	})

	_, err := api.SearchPapers(context.Background(), "transformers", SearchOptions{Limit: 5000})
	require.NoError(t, err)
}

func TestGetPaperByExternalID(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/paper/ARXIV:1706.03762", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("fields"), "tldr")

		json.NewEncoder(w).Encode(Paper{
			PaperID: "649def34f8be52c8b66281af98ae884c09aef38b",
			Title:   "Attention Is All You Need",
			Tldr:    &Tldr{Text: "Introduces the Transformer architecture."},
		})
	})

	paper, err := api.GetPaper(context.Background(), "ARXIV:1706.03762", nil)
	require.NoError(t, err)
	require.NotNil(t, paper.Tldr)
	assert.Equal(t, "Introduces the Transformer architecture.", paper.Tldr.Text)
}

func TestGetPaperNotFound(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := api.GetPaper(context.Background(), "unknown", nil)
	assert.True(t, scholargo.IsNotFound(err))
}

func TestGetCitations(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/paper/abc/citations", r.URL.Path)
		assert.Contains(t, r.URL.Query().Get("fields"), "isInfluential")

		json.NewEncoder(w).Encode(CitationsResult{
			Data: []CitationEdge{{
				CitingPaper:   Paper{PaperID: "c1", Title: "A follow-up"},
				IsInfluential: true,
			}},
		})
	})

	result, err := api.GetCitations(context.Background(), "abc", 10, 0)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.True(t, result.Data[0].IsInfluential)
}

func TestGetReferences(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/paper/abc/references", r.URL.Path)
		json.NewEncoder(w).Encode(ReferencesResult{
			Data: []ReferenceEdge{{CitedPaper: Paper{PaperID: "r1"}}},
		})
	})

	result, err := api.GetReferences(context.Background(), "abc", 10, 0)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, "r1", result.Data[0].CitedPaper.PaperID)
}

func TestBatchPapers(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/paper/batch", r.URL.Path)

		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"id1", "id2"}, body["ids"])

		json.NewEncoder(w).Encode([]Paper{
			{PaperID: "id1", Title: "First"},
			{PaperID: "id2", Title: "Second"},
		})
	})

	papers, err := api.BatchPapers(context.Background(), []string{"id1", "id2"}, nil)
	require.NoError(t, err)
	require.Len(t, papers, 2)
	assert.Equal(t, "Second", papers[1].Title)
}

func TestBatchPapersValidatesSize(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("oversized batch must not reach the server")
	})

	_, err := api.BatchPapers(context.Background(), nil, nil)
	assert.Error(t, err)

	ids := make([]string, 501)
	for i := range ids {
		ids[i] = "id"
	}
	_, err = api.BatchPapers(context.Background(), ids, nil)
	assert.Error(t, err)
}

func TestSearchAuthors(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/author/search", r.URL.Path)
		assert.Equal(t, "Hinton", r.URL.Query().Get("query"))

		json.NewEncoder(w).Encode(AuthorSearchResult{
			Total: 1,
			Data:  []Author{{AuthorID: "1695689", Name: "Geoffrey Hinton", HIndex: 150}},
		})
	})

	result, err := api.SearchAuthors(context.Background(), "Hinton", 10, 0)
	require.NoError(t, err)
	require.Len(t, result.Data, 1)
	assert.Equal(t, 150, result.Data[0].HIndex)
}

func TestGetAuthorPapers(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/author/1695689/papers", r.URL.Path)
		json.NewEncoder(w).Encode(AuthorPapersResult{
			Data: []Paper{{PaperID: "p1"}, {PaperID: "p2"}},
		})
	})

	result, err := api.GetAuthorPapers(context.Background(), "1695689", 10, 0)
	require.NoError(t, err)
	assert.Len(t, result.Data, 2)
}

func TestRecommendations(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/papers", r.URL.Path)

		var body map[string][]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"pos1"}, body["positivePaperIds"])
		assert.Equal(t, []string{"neg1"}, body["negativePaperIds"])

		json.NewEncoder(w).Encode(RecommendationResult{
			RecommendedPapers: []Paper{{PaperID: "rec1"}},
		})
	})

	result, err := api.Recommendations(context.Background(), []string{"pos1"}, []string{"neg1"}, 10)
	require.NoError(t, err)
	require.Len(t, result.RecommendedPapers, 1)
}

func TestRecommendationsForPaper(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/papers/forpaper/ARXIV:1706.03762", r.URL.Path)
		assert.Equal(t, "all-cs", r.URL.Query().Get("from"))

		json.NewEncoder(w).Encode(RecommendationResult{
			RecommendedPapers: []Paper{{PaperID: "rec1"}},
		})
	})

	result, err := api.RecommendationsForPaper(context.Background(), "ARXIV:1706.03762", 10, "all-cs")
	require.NoError(t, err)
	require.Len(t, result.RecommendedPapers, 1)
}

func TestRecommendationsForPaperDefaultsPool(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "recent", r.URL.Query().Get("from"))
		json.NewEncoder(w).Encode(RecommendationResult{})
	})

	_, err := api.RecommendationsForPaper(context.Background(), "abc", 10, "bogus-pool")
	require.NoError(t, err)
}

func TestRecommendationsRequirePositiveIDs(t *testing.T) {
	api := newTestAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request without positive IDs must not reach the server")
	})

	_, err := api.Recommendations(context.Background(), nil, nil, 10)
	assert.Error(t, err)
}

func TestTopCited(t *testing.T) {
	papers := []Paper{
		{PaperID: "low", CitationCount: 5},
		{PaperID: "high", CitationCount: 500},
		{PaperID: "mid", CitationCount: 50},
	}

	top := TopCited(papers, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "high", top[0].PaperID)
	assert.Equal(t, "mid", top[1].PaperID)

	// Input order untouched.
	assert.Equal(t, "low", papers[0].PaperID)
}
