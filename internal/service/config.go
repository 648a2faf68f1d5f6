package service

import (
	"log/slog"

	"github.com/zephyrtronium/formula/internal/observability"
)

// DefaultAllowPattern admits the characters a formula may contain, plus
// space and letters. Anything it admits may still fail to evaluate.
const DefaultAllowPattern = `^[0-9a-zA-Z+\-*/(). ]*$`

// Config holds the service configuration.
type Config struct {
	// Logger receives request logs. If nil, slog.Default() is used.
	Logger *slog.Logger

	// AllowPattern is a regular expression every formula must match before
	// it is evaluated. An empty pattern admits every formula.
	AllowPattern string

	// MaxFormulaLength is the longest formula in bytes that is evaluated.
	MaxFormulaLength int

	// MaxBodyBytes bounds the size of a request body.
	MaxBodyBytes int64

	// MaxPrecision is the largest precision in bits a request may ask for.
	MaxPrecision uint

	// MaxRound is the largest number of decimal places a request may ask for.
	MaxRound int32

	// Observability configures tracing, metrics, and Server-Timing. If nil,
	// they are disabled.
	Observability *observability.Config
}

// Option is a functional option for configuring the service.
type Option func(*Config)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithAllowPattern sets the formula allow-list. An empty pattern disables it.
func WithAllowPattern(pattern string) Option {
	return func(c *Config) {
		c.AllowPattern = pattern
	}
}

// WithMaxFormulaLength sets the longest formula that is evaluated.
func WithMaxFormulaLength(n int) Option {
	return func(c *Config) {
		c.MaxFormulaLength = n
	}
}

// WithMaxBodyBytes bounds request body size.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Config) {
		c.MaxBodyBytes = n
	}
}

// WithMaxPrecision sets the largest precision a request may ask for.
func WithMaxPrecision(prec uint) Option {
	return func(c *Config) {
		c.MaxPrecision = prec
	}
}

// WithObservability sets the observability configuration. It is initialized
// by New.
func WithObservability(cfg *observability.Config) Option {
	return func(c *Config) {
		c.Observability = cfg
	}
}

func newConfig(opts ...Option) *Config {
	cfg := &Config{
		AllowPattern:     DefaultAllowPattern,
		MaxFormulaLength: 4096,
		MaxBodyBytes:     1 << 16,
		MaxPrecision:     4096,
		MaxRound:         30,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}
