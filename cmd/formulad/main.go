package main

import (
	"context"
	"flag"
	"os"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/formula/server"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	cfg := server.DefaultConfig()
	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	flag.IntVar(&cfg.MaxFormulaBytes, "max-formula-bytes", cfg.MaxFormulaBytes, "longest formula accepted")
	flag.Int64Var(&cfg.MaxBodyBytes, "max-body-bytes", 0, "largest request body or live message (default derived from -max-formula-bytes)")
	flag.StringVar(&cfg.TLSCert, "tls-cert", "", "TLS certificate file")
	flag.StringVar(&cfg.TLSKey, "tls-key", "", "TLS key file")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()
	cfg = server.ConfigFromEnv(cfg)
	if v := os.Getenv("FORMULAD_LOG_LEVEL"); v != "" {
		*logLevel = v
	}

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("service", "formulad").Logger().
		Level(level)

	logger.Info().Str("version", version).Str("commit", commit).Msg("starting")

	shutdown, err := server.InitTracer("formulad")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init tracer")
	}
	defer shutdown(context.Background())

	srv := server.NewServer(cfg, logger)
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
