// Package mcpserver exposes the Semantic Scholar client as an MCP server
// over stdio.
package mcpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ambiyansyah-risyal/scholargo"
	"github.com/ambiyansyah-risyal/scholargo/scholar"
	"github.com/ambiyansyah-risyal/scholargo/tracker"
)

const serverName = "scholargo-mcp"

// Server hosts the MCP tool surface over a shared resilient client, a
// typed API facade and a session paper tracker.
type Server struct {
	cfg     Config
	logger  zerolog.Logger
	client  *scholargo.Client
	api     *scholar.API
	tracker *tracker.Tracker
	mcp     *mcp.Server
}

// New builds a fully wired server from configuration.
func New(cfg Config) (*Server, error) {
	logger := NewLogger(cfg.LogLevel)

	debug := scholargo.DefaultDebugConfig()
	debug.Enabled = cfg.Debug
	debug.LogRequests = true
	debug.LogCache = true
	debug.LogRateLimit = true
	debug.LogCircuit = true
	debug.RequestIDGen = uuid.NewString

	options := []scholargo.Option{
		scholargo.WithTimeout(cfg.Timeout),
		scholargo.WithCircuitBreaker(scholargo.CircuitBreakerConfig{
			FailureThreshold: cfg.CircuitFailureThreshold,
			RecoveryTimeout:  cfg.CircuitRecoveryTimeout,
			HalfOpenMaxCalls: cfg.CircuitHalfOpenMaxCalls,
		}),
		scholargo.WithCache(scholargo.CacheConfig{
			Enabled:    cfg.CacheEnabled,
			PaperTTL:   cfg.CachePaperTTL,
			SearchTTL:  cfg.CacheSearchTTL,
			MaxEntries: cfg.CacheMaxEntries,
		}),
		scholargo.WithDeduplication(),
		scholargo.WithLogger(zerologAdapter{logger: logger}),
		scholargo.WithDebugConfig(debug),
	}
	if cfg.APIKey != "" {
		options = append(options, scholargo.WithAPIKey(cfg.APIKey))
	}
	if cfg.GraphBaseURL != "" {
		options = append(options, scholargo.WithGraphBaseURL(cfg.GraphBaseURL))
	}
	if cfg.RecommendationsBaseURL != "" {
		options = append(options, scholargo.WithRecommendationsBaseURL(cfg.RecommendationsBaseURL))
	}
	if cfg.MetricsAddr != "" {
		options = append(options, scholargo.WithMetrics())
	}

	client := scholargo.New(options...)
	if !client.IsValid() {
		return nil, client.ValidationError()
	}

	retry := scholargo.DefaultRetryConfig()
	retry.MaxRetries = cfg.RetryMaxAttempts

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		client:  client,
		api:     scholar.NewAPIWithRetry(client, retry),
		tracker: tracker.New(),
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: scholargo.Version}, nil)
	s.registerTools()
	return s, nil
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_papers",
		Description: "Search for academic papers by keyword with optional year, citation and field-of-study filters",
	}, s.handleSearchPapers)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_paper",
		Description: "Get details for one paper by Semantic Scholar ID, DOI:..., or ARXIV:... identifier",
	}, s.handleGetPaper)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_citations",
		Description: "List papers that cite the given paper",
	}, s.handleGetCitations)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_references",
		Description: "List papers the given paper cites",
	}, s.handleGetReferences)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_recommendations",
		Description: "Recommend papers similar to one paper",
	}, s.handleGetRecommendations)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_related_papers",
		Description: "Recommend papers similar to a set of positive example papers, steering away from negative ones",
	}, s.handleGetRelatedPapers)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "search_authors",
		Description: "Search for authors by name",
	}, s.handleSearchAuthors)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_author",
		Description: "Get details for one author by ID",
	}, s.handleGetAuthor)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "get_author_papers",
		Description: "List an author's papers",
	}, s.handleGetAuthorPapers)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "find_duplicate_authors",
		Description: "Find likely duplicate author records by searching name variations and grouping on shared ORCID or DBLP IDs",
	}, s.handleFindDuplicateAuthors)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "consolidate_authors",
		Description: "Preview or confirm a local merge of duplicate author records",
	}, s.handleConsolidateAuthors)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_tracked_papers",
		Description: "List the papers tracked in this session, optionally filtered by the tool that surfaced them",
	}, s.handleListTrackedPapers)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "export_bibtex",
		Description: "Export specific papers as BibTeX by their IDs",
	}, s.handleExportBibtex)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "export_session_bibtex",
		Description: "Export every paper seen in this session as BibTeX",
	}, s.handleExportSessionBibtex)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "clear_session",
		Description: "Forget the papers tracked in this session",
	}, s.handleClearSession)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "cache_stats",
		Description: "Report response cache effectiveness and circuit breaker state",
	}, s.handleCacheStats)
}

// Run serves MCP over stdio until ctx is cancelled. When configured, a
// Prometheus metrics endpoint is served alongside.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.MetricsAddr != "" {
		go s.serveMetrics(ctx)
	}

	s.logger.Info().Str("version", scholargo.Version).Msg("starting mcp server on stdio")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: s.cfg.MetricsAddr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info().Str("addr", s.cfg.MetricsAddr).Msg("serving metrics")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error().Err(err).Msg("metrics listener failed")
	}
}
