// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paperweb/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// GatewayConfig holds settings for the upstream recommendation gateway.
type GatewayConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional Semantic Scholar API key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Pool selects the upstream recommendation pool (default "all-cs").
	Pool string `json:"pool" yaml:"pool"`

	// MaxRetries is the number of backoff retries on HTTP 429. Zero means
	// a single attempt: throttling surfaces to the caller as a rate-limit
	// error instead of being absorbed by retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheConfig holds settings for the recommendation cache.
type CacheConfig struct {
	// TTL is how long a stored entry stays valid (default 1 hour).
	TTL time.Duration `json:"ttl" yaml:"ttl"`

	// SweepInterval is the period of the background expiry sweep
	// (default 10 minutes). The sweep is an optimization only; expiry is
	// also checked lazily on every read.
	SweepInterval time.Duration `json:"sweep_interval" yaml:"sweep_interval"`
}

// HSL is a gradient endpoint in HSL color space. H is in degrees [0,360),
// S and L in [0,1].
type HSL struct {
	H float64 `json:"h" yaml:"h"`
	S float64 `json:"s" yaml:"s"`
	L float64 `json:"l" yaml:"l"`
}

// GraphConfig holds the layout and visual-attribute settings for the graph
// builder. Every knob is explicit so Build stays pure and independently
// testable: nothing is read from ambient global state.
type GraphConfig struct {
	// CanvasWidth and CanvasHeight are the rendering viewport dimensions
	// in pixels. The circle radius is derived from the smaller of the two.
	CanvasWidth  float64 `json:"canvas_width" yaml:"canvas_width"`
	CanvasHeight float64 `json:"canvas_height" yaml:"canvas_height"`

	// RadiusRatio scales min(width, height) into the layout circle radius
	// (default 0.17).
	RadiusRatio float64 `json:"radius_ratio" yaml:"radius_ratio"`

	// CitationDiffLimit is the cross-link citation-count threshold: two
	// peripheral nodes whose citation counts differ by less than this may
	// be linked (default 150).
	CitationDiffLimit float64 `json:"citation_diff_limit" yaml:"citation_diff_limit"`

	// YearDiffLimit is the cross-link year threshold: two nodes published
	// within this many years of each other may be linked (default 2).
	YearDiffLimit int `json:"year_diff_limit" yaml:"year_diff_limit"`

	// YearSimilarityScale divides the year difference when computing edge
	// strength (default 5).
	YearSimilarityScale float64 `json:"year_similarity_scale" yaml:"year_similarity_scale"`

	// CrossNeighborSpan is how many following ranks each node is compared
	// against for cross links (default 3).
	CrossNeighborSpan int `json:"cross_neighbor_span" yaml:"cross_neighbor_span"`

	// MinYear and MaxYear bound the publication-year color gradient.
	// Years outside the range collapse to the endpoints.
	MinYear int `json:"min_year" yaml:"min_year"`
	MaxYear int `json:"max_year" yaml:"max_year"`

	// CenterColor is the fixed accent color of the center node.
	CenterColor string `json:"center_color" yaml:"center_color"`

	// GradientOld and GradientNew are the year-gradient endpoints for
	// peripheral node colors.
	GradientOld HSL `json:"gradient_old" yaml:"gradient_old"`
	GradientNew HSL `json:"gradient_new" yaml:"gradient_new"`

	// CenterSize is the fixed pixel size of the center node. MinSize and
	// MaxSize bound the log-citation scale for peripheral nodes, with
	// AssumedMaxCitations as the count that maps to MaxSize.
	CenterSize          float64 `json:"center_size" yaml:"center_size"`
	MinSize             float64 `json:"min_size" yaml:"min_size"`
	MaxSize             float64 `json:"max_size" yaml:"max_size"`
	AssumedMaxCitations float64 `json:"assumed_max_citations" yaml:"assumed_max_citations"`
}

// StoreConfig holds settings for the paper collection store.
type StoreConfig struct {
	// Path is the SQLite database file (default "papers.db").
	Path string `json:"path" yaml:"path"`
}

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// CORSOrigin is the Access-Control-Allow-Origin value (default "*").
	CORSOrigin string `json:"cors_origin" yaml:"cors_origin"`
}

// ConnectConfig holds settings for the connect orchestrator.
type ConnectConfig struct {
	// DefaultLimit is the recommendation count used when a request does
	// not specify one (default 5).
	DefaultLimit int `json:"default_limit" yaml:"default_limit"`

	// MaxLimit caps the recommendation count a request may ask for
	// (default 50).
	MaxLimit int `json:"max_limit" yaml:"max_limit"`
}

// Config groups all component configurations.
type Config struct {
	Gateway GatewayConfig `json:"gateway" yaml:"gateway"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Graph   GraphConfig   `json:"graph" yaml:"graph"`
	Store   StoreConfig   `json:"store" yaml:"store"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Connect ConnectConfig `json:"connect" yaml:"connect"`
}

// DefaultGraphConfig returns the builder settings used when a config file
// provides none. maxYear is typically the current year; it is a parameter
// so Build stays deterministic under test.
func DefaultGraphConfig(maxYear int) GraphConfig {
	return GraphConfig{
		CanvasWidth:         1200,
		CanvasHeight:        800,
		RadiusRatio:         0.17,
		CitationDiffLimit:   150,
		YearDiffLimit:       2,
		YearSimilarityScale: 5,
		CrossNeighborSpan:   3,
		MinYear:             2010,
		MaxYear:             maxYear,
		CenterColor:         "#f97316",
		GradientOld:         HSL{H: 215, S: 0.30, L: 0.72},
		GradientNew:         HSL{H: 245, S: 0.75, L: 0.55},
		CenterSize:          30,
		MinSize:             12,
		MaxSize:             26,
		AssumedMaxCitations: 50000,
	}
}

// DefaultConfig returns the full default configuration. maxYear bounds the
// year color gradient (typically time.Now().Year()).
func DefaultConfig(maxYear int) Config {
	return Config{
		Gateway: GatewayConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "paperweb/0.1",
			},
			Pool: "all-cs",
		},
		Cache: CacheConfig{
			TTL:           time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Graph: DefaultGraphConfig(maxYear),
		Store: StoreConfig{Path: "papers.db"},
		Server: ServerConfig{
			Addr:       ":8080",
			CORSOrigin: "*",
		},
		Connect: ConnectConfig{
			DefaultLimit: 5,
			MaxLimit:     50,
		},
	}
}
