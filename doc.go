// Package scholargo provides a resilient client for the Semantic Scholar
// APIs built around three composable reliability primitives:
//
//   - Proactive rate limiting (blocking token bucket, profile chosen by
//     API-key presence)
//   - Circuit breaker (closed / open / half-open states with capped
//     recovery probes)
//   - In-memory LRU response cache with per-endpoint TTLs and pattern
//     invalidation
//
// Every outbound call flows through one pipeline: cache lookup, token
// acquisition, circuit breaker admission, transport, then outcome
// classification feeding breaker state and the cache. Failures are split
// into qualifying kinds (connectivity, upstream 5xx) that count toward
// opening the circuit, and non-qualifying kinds (rate limited, not found,
// authentication) that propagate unchanged.
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - No ambient singletons – each Client owns its bucket, breaker and cache
//   - Safe concurrent use of a single *Client instance
//   - Pluggable metrics (Prometheus) and lightweight debug logging
//
// Typical usage:
//
//	client := scholargo.New(
//	    scholargo.WithAPIKey(os.Getenv("SEMANTIC_SCHOLAR_API_KEY")),
//	    scholargo.WithCircuitBreaker(scholargo.CircuitBreakerConfig{FailureThreshold: 5}),
//	    scholargo.WithCache(scholargo.DefaultCacheConfig()),
//	)
//	raw, err := client.Get(ctx, "/paper/search", url.Values{"query": {"attention"}})
//
// The core never retries on its own; DoWithRetry layers rate-limit-aware
// retries on top for callers that want them. Typed access to papers,
// authors and recommendations lives in the scholar subpackage, BibTeX
// export in bibtex, and the MCP tool surface under cmd/scholargo-mcp.
package scholargo
