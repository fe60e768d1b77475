package scholargo

import (
	"net/url"
	"time"
)

// Default Semantic Scholar API endpoints.
const (
	DefaultGraphBaseURL           = "https://api.semanticscholar.org/graph/v1"
	DefaultRecommendationsBaseURL = "https://api.semanticscholar.org/recommendations/v1"
)

// APIKind selects which upstream API a request targets.
type APIKind int

const (
	// GraphAPI is the paper/author graph API.
	GraphAPI APIKind = iota
	// RecommendationsAPI is the paper recommendations API.
	RecommendationsAPI
)

// Request describes an outbound call. Endpoint is the path relative to the
// selected API's base URL (e.g. "/paper/search"). Body, when non-nil, is
// JSON-encoded.
type Request struct {
	Method   string
	Endpoint string
	Params   url.Values
	Body     any
	API      APIKind

	// CacheTTL overrides the endpoint-category TTL for this call.
	CacheTTL time.Duration
	// NoCache opts an otherwise cacheable call out of the cache.
	NoCache bool
}

// Option represents a configuration option
type Option func(*Client)

// cacheablePostEndpoints is the fixed allow-list of idempotent POST
// endpoints whose results may be cached: recommendation queries and paper
// batch lookups.
var cacheablePostEndpoints = []string{
	"/papers",
	"/paper/batch",
}
