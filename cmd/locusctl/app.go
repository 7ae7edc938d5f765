package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/danmuck/locuslink/internal/action"
	"github.com/danmuck/locuslink/internal/config"
	"github.com/danmuck/locuslink/internal/hostapp"
	"github.com/danmuck/locuslink/internal/logging"
	"github.com/danmuck/locuslink/internal/observability"
	"github.com/danmuck/locuslink/internal/transport/httpbridge"
	"github.com/rs/zerolog"
)

type App struct {
	cfg      config.ClientConfig
	out      io.Writer
	logger   zerolog.Logger
	resolver *hostapp.Resolver
	client   *action.Client
}

func newApp(configPath string, out io.Writer) (*App, error) {
	cfg, err := loadClientConfig(configPath)
	if err != nil {
		return nil, err
	}
	logging.SetLevel(cfg.LogLevel)
	logger := logging.New(os.Stderr, "locusctl")
	return assemble(cfg, out, logger)
}

// loadClientConfig falls back to defaults when path does not exist.
func loadClientConfig(path string) (config.ClientConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return config.DefaultClientConfig(), nil
	}
	return config.LoadClientConfig(path)
}

// assemble wires discovery and transport: the HTTP bridge when bridge_addr
// is set, otherwise the static installations with no transport.
func assemble(cfg config.ClientConfig, out io.Writer, logger zerolog.Logger) (*App, error) {
	var (
		discoverer hostapp.Discoverer
		transport  action.Transport
	)
	if cfg.BridgeAddr != "" {
		bridge, err := httpbridge.New(bridgeConfig(cfg), httpbridge.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		discoverer = bridge
		transport = bridge
	} else {
		discoverer = hostapp.StaticDiscoverer{Installations: config.Installations(cfg.Installations)}
	}

	resolver := hostapp.NewResolver(discoverer,
		hostapp.WithPreference(cfg.Preference...),
		hostapp.WithLogger(logger),
	)
	observability.RegisterMetrics()
	client := action.NewClient(resolver, transport,
		action.WithLogger(logger),
		action.WithMetrics(observability.ClientMetrics{}),
	)
	return &App{
		cfg:      cfg,
		out:      out,
		logger:   logger,
		resolver: resolver,
		client:   client,
	}, nil
}

func bridgeConfig(cfg config.ClientConfig) httpbridge.Config {
	return httpbridge.Config{
		BaseURL:     cfg.BridgeAddr,
		Token:       cfg.BridgeToken,
		Timeout:     cfg.Timeout,
		MaxAttempts: cfg.Retry.MaxAttempts,
		TLS:         cfg.TLS,
		Backoff: httpbridge.BackoffConfig{
			InitialDelay: cfg.Retry.InitialDelay,
			Multiplier:   cfg.Retry.Multiplier,
			MaxDelay:     cfg.Retry.MaxDelay,
			Jitter:       cfg.Retry.Jitter,
		},
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
