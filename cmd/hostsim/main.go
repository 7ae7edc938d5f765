package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/locuslink/internal/config"
	"github.com/danmuck/locuslink/internal/hostsim"
	"github.com/danmuck/locuslink/internal/logging"
	"github.com/danmuck/locuslink/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "cmd/hostsim/config.toml", "host simulator config path")
	addr := flag.String("addr", "", "listen address override")
	flag.Parse()

	logging.ConfigureRuntime()
	logger := observability.InitLogger("hostsim")

	cfg := config.DefaultHostSimConfig()
	if _, err := os.Stat(*configPath); err == nil {
		loaded, err := config.LoadHostSimConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load hostsim config")
		}
		cfg = loaded
		log.Info().Str("path", *configPath).Msg("loaded hostsim config")
	} else {
		log.Warn().Str("path", *configPath).Msg("config not found, using defaults")
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	logging.SetLevel(cfg.LogLevel)
	if logging.Active().Level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := hostsim.NewServer(cfg, logger)
	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("hostsim stopped")
	}
}
