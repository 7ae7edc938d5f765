package httpbridge

import (
	"time"

	"github.com/danmuck/locuslink/internal/transport/tlsconf"
)

// Config defines bridge reliability settings.
type Config struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	MaxAttempts int
	Backoff     BackoffConfig
	TLS         tlsconf.Config
}

func DefaultConfig() Config {
	return Config{
		Timeout:     5 * time.Second,
		MaxAttempts: 3,
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     2 * time.Second,
			Jitter:       true,
		},
	}
}

// WithDefaults fills zero-valued settings from DefaultConfig.
func (c Config) WithDefaults() Config {
	def := DefaultConfig()
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.Backoff == (BackoffConfig{}) {
		c.Backoff = def.Backoff
	}
	return c
}
