package esplora

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/permavault/permavault-daemon/pkg/circuitbreaker"
	"github.com/permavault/permavault-daemon/pkg/explorer"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

const (
	// DefaultRequestTimeout ...
	DefaultRequestTimeout = 15 * time.Second
	// DefaultMaxAttempts is the number of times a GET request is tried
	// before giving up.
	DefaultMaxAttempts = 3
	// DefaultBaseBackoff is the wait before the second attempt. It doubles
	// at every further attempt.
	DefaultBaseBackoff = 500 * time.Millisecond
	// DefaultRateLimit is the max number of requests per second.
	DefaultRateLimit = 10
)

// Config holds the settings of an esplora client.
type Config struct {
	URL            string
	RequestTimeout time.Duration
	MaxAttempts    int
	BaseBackoff    time.Duration
	RateLimit      int
}

func (c *Config) validate() error {
	if c.URL == "" {
		return fmt.Errorf("missing explorer url")
	}
	if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		return fmt.Errorf("explorer url must be http or https")
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max attempts must not be negative")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	return nil
}

func (c *Config) withDefaults() {
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxAttempts == 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.BaseBackoff <= 0 {
		c.BaseBackoff = DefaultBaseBackoff
	}
	if c.RateLimit == 0 {
		c.RateLimit = DefaultRateLimit
	}
}

type esplora struct {
	cfg     Config
	client  *http.Client
	limiter ratelimit.Limiter
	cb      *gobreaker.CircuitBreaker
}

// NewService returns a new esplora service as an explorer.Service interface
func NewService(cfg Config) (explorer.Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg.withDefaults()

	return &esplora{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		limiter: ratelimit.New(cfg.RateLimit),
		cb:      circuitbreaker.NewCircuitBreaker("esplora", isSuccessful),
	}, nil
}
