package http

import (
	"time"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/resilience"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Config tunes the outbound client.
type Config struct {
	Timeout      time.Duration
	RetryCount   int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
	UserAgent    string
	// RequestsPerSecond of zero means unlimited.
	RequestsPerSecond float64
	Burst             int
	MaxBodySize       int
	// BreakerFailures is the consecutive failure count that opens the breaker.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultConfig returns production settings.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		RetryCount:      3,
		RetryWait:       1 * time.Second,
		RetryMaxWait:    30 * time.Second,
		UserAgent:       "deskshell-http/1.0",
		MaxBodySize:     5 << 20,
		BreakerFailures: 10,
		BreakerTimeout:  30 * time.Second,
	}
}

// Client wraps resty with rate limiting and a circuit breaker.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	maxBody int
}

// NewClient creates a client from cfg.
func NewClient(cfg Config) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryCount
	retryClient.RetryWaitMin = cfg.RetryWait
	retryClient.RetryWaitMax = cfg.RetryMaxWait
	retryClient.Logger = nil

	restyClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		SetHeader("User-Agent", cfg.UserAgent)
	restyClient.SetTransport(retryClient.HTTPClient.Transport)

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	threshold := cfg.BreakerFailures
	if threshold == 0 {
		threshold = 10
	}
	breaker := resilience.New("http-external", resilience.Settings{
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})

	return &Client{
		resty:   restyClient,
		limiter: rate.NewLimiter(limit, burst),
		breaker: breaker,
		maxBody: cfg.MaxBodySize,
	}
}

// Breaker exposes the client's circuit breaker.
func (c *Client) Breaker() *resilience.Breaker {
	return c.breaker
}
