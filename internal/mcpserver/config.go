package mcpserver

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the server configuration, loaded from the environment.
type Config struct {
	// APIKey authenticates against Semantic Scholar. Optional; without it
	// the client falls back to the shared anonymous rate pool.
	APIKey string `env:"SEMANTIC_SCHOLAR_API_KEY"`

	GraphBaseURL           string        `env:"S2_GRAPH_BASE_URL"`
	RecommendationsBaseURL string        `env:"S2_RECOMMENDATIONS_BASE_URL"`
	Timeout                time.Duration `env:"S2_TIMEOUT" envDefault:"30s"`

	CircuitFailureThreshold int           `env:"S2_CIRCUIT_FAILURE_THRESHOLD" envDefault:"5"`
	CircuitRecoveryTimeout  time.Duration `env:"S2_CIRCUIT_RECOVERY_TIMEOUT" envDefault:"30s"`
	CircuitHalfOpenMaxCalls int           `env:"S2_CIRCUIT_HALF_OPEN_MAX_CALLS" envDefault:"1"`

	CacheEnabled    bool          `env:"S2_CACHE_ENABLED" envDefault:"true"`
	CacheMaxEntries int           `env:"S2_CACHE_MAX_ENTRIES" envDefault:"1000"`
	CachePaperTTL   time.Duration `env:"S2_CACHE_PAPER_TTL" envDefault:"1h"`
	CacheSearchTTL  time.Duration `env:"S2_CACHE_SEARCH_TTL" envDefault:"5m"`

	RetryMaxAttempts int `env:"S2_RETRY_MAX_ATTEMPTS" envDefault:"5"`

	LogLevel string `env:"S2_LOG_LEVEL" envDefault:"info"`
	Debug    bool   `env:"S2_DEBUG" envDefault:"false"`

	// MetricsAddr, when set (e.g. ":9090"), exposes Prometheus metrics over
	// HTTP on that address.
	MetricsAddr string `env:"S2_METRICS_ADDR"`
}

// LoadConfig reads configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
