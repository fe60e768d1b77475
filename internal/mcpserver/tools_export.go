package mcpserver

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/ambiyansyah-risyal/scholargo/bibtex"
	"github.com/ambiyansyah-risyal/scholargo/scholar"
)

// ExportBibtexInput is the export_bibtex tool input.
type ExportBibtexInput struct {
	PaperIDs        []string `json:"paper_ids" jsonschema:"papers to export, up to 500 IDs"`
	IncludeAbstract bool     `json:"include_abstract,omitempty" jsonschema:"include abstracts in the entries"`
}

// ExportBibtexOutput is shared by both export tools.
type ExportBibtexOutput struct {
	Bibtex string `json:"bibtex" jsonschema:"BibTeX document"`
	Count  int    `json:"count" jsonschema:"number of entries"`
}

func (s *Server) handleExportBibtex(ctx context.Context, _ *mcp.CallToolRequest, input ExportBibtexInput) (*mcp.CallToolResult, ExportBibtexOutput, error) {
	papers, err := s.api.BatchPapers(ctx, input.PaperIDs, scholar.PaperFieldsWithTldr)
	if err != nil {
		return nil, ExportBibtexOutput{}, err
	}

	// Drop the null placeholders the batch endpoint returns for unknown IDs.
	found := papers[:0]
	for _, p := range papers {
		if p.PaperID != "" {
			found = append(found, p)
		}
	}

	cfg := bibtex.DefaultConfig()
	cfg.IncludeAbstract = input.IncludeAbstract
	return nil, ExportBibtexOutput{
		Bibtex: bibtex.Export(found, cfg),
		Count:  len(found),
	}, nil
}

// ExportSessionInput is the export_session_bibtex tool input.
type ExportSessionInput struct {
	SourceTool      string `json:"source_tool,omitempty" jsonschema:"only papers surfaced by this tool, e.g. search_papers"`
	IncludeAbstract bool   `json:"include_abstract,omitempty" jsonschema:"include abstracts in the entries"`
}

func (s *Server) handleExportSessionBibtex(ctx context.Context, _ *mcp.CallToolRequest, input ExportSessionInput) (*mcp.CallToolResult, ExportBibtexOutput, error) {
	tracked := s.tracker.Papers()
	if input.SourceTool != "" {
		tracked = s.tracker.PapersFrom(input.SourceTool)
	}
	if len(tracked) == 0 {
		return nil, ExportBibtexOutput{}, fmt.Errorf("no papers tracked in this session")
	}

	papers := make([]scholar.Paper, 0, len(tracked))
	for _, tp := range tracked {
		papers = append(papers, tp.Paper)
	}

	cfg := bibtex.DefaultConfig()
	cfg.IncludeAbstract = input.IncludeAbstract
	return nil, ExportBibtexOutput{
		Bibtex: bibtex.Export(papers, cfg),
		Count:  len(papers),
	}, nil
}

// ListTrackedInput is the list_tracked_papers tool input.
type ListTrackedInput struct {
	SourceTool string `json:"source_tool,omitempty" jsonschema:"only papers surfaced by this tool, e.g. search_papers"`
}

// TrackedPaperEntry is one tracked paper with its provenance.
type TrackedPaperEntry struct {
	Paper      scholar.Paper `json:"paper" jsonschema:"the tracked paper"`
	SourceTool string        `json:"source_tool" jsonschema:"tool that first surfaced the paper"`
	TrackedAt  time.Time     `json:"tracked_at" jsonschema:"when the paper was first seen"`
}

// ListTrackedOutput is the list_tracked_papers tool output.
type ListTrackedOutput struct {
	Papers []TrackedPaperEntry `json:"papers" jsonschema:"tracked papers in first-seen order"`
}

func (s *Server) handleListTrackedPapers(ctx context.Context, _ *mcp.CallToolRequest, input ListTrackedInput) (*mcp.CallToolResult, ListTrackedOutput, error) {
	tracked := s.tracker.Papers()
	if input.SourceTool != "" {
		tracked = s.tracker.PapersFrom(input.SourceTool)
	}

	entries := make([]TrackedPaperEntry, 0, len(tracked))
	for _, tp := range tracked {
		entries = append(entries, TrackedPaperEntry{
			Paper:      tp.Paper,
			SourceTool: tp.SourceTool,
			TrackedAt:  tp.TrackedAt,
		})
	}
	return nil, ListTrackedOutput{Papers: entries}, nil
}

// ClearSessionInput is the clear_session tool input.
type ClearSessionInput struct{}

// ClearSessionOutput is the clear_session tool output.
type ClearSessionOutput struct {
	Removed int `json:"removed" jsonschema:"papers forgotten"`
}

func (s *Server) handleClearSession(ctx context.Context, _ *mcp.CallToolRequest, _ ClearSessionInput) (*mcp.CallToolResult, ClearSessionOutput, error) {
	return nil, ClearSessionOutput{Removed: s.tracker.Clear()}, nil
}

// CacheStatsInput is the cache_stats tool input.
type CacheStatsInput struct{}

// CacheStatsOutput reports pipeline health.
type CacheStatsOutput struct {
	Entries       int     `json:"entries" jsonschema:"cached responses"`
	Hits          uint64  `json:"hits" jsonschema:"cache hits"`
	Misses        uint64  `json:"misses" jsonschema:"cache misses"`
	HitRate       float64 `json:"hit_rate" jsonschema:"hits over total lookups"`
	CircuitState  string  `json:"circuit_state" jsonschema:"circuit breaker state"`
	TrackedPapers int     `json:"tracked_papers" jsonschema:"papers in the session tracker"`
}

func (s *Server) handleCacheStats(ctx context.Context, _ *mcp.CallToolRequest, _ CacheStatsInput) (*mcp.CallToolResult, CacheStatsOutput, error) {
	stats := s.client.Cache().Stats()
	return nil, CacheStatsOutput{
		Entries:       stats.Entries,
		Hits:          stats.Hits,
		Misses:        stats.Misses,
		HitRate:       stats.HitRate,
		CircuitState:  s.client.CircuitBreakerState().String(),
		TrackedPapers: s.tracker.Len(),
	}, nil
}
