package main

import (
	"flag"

	"github.com/danmuck/chessjudge/internal/config"
	"github.com/danmuck/chessjudge/internal/judge"
	"github.com/danmuck/chessjudge/internal/logging"
	"github.com/danmuck/chessjudge/internal/server"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "service config (TOML); defaults apply when empty")
	writeConfig := flag.String("write-config", "", "write a config template to this path and exit")
	force := flag.Bool("force", false, "overwrite an existing template")
	flag.Parse()

	logging.ConfigureRuntime()

	if *writeConfig != "" {
		if err := config.WriteTemplate(*writeConfig, *force); err != nil {
			log.Fatal().Err(err).Msg("failed to write config template")
		}
		log.Info().Str("path", *writeConfig).Msg("wrote config template")
		return
	}

	cfg := config.DefaultServerConfig()
	if *configPath != "" {
		loaded, err := config.LoadServerConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load judged config")
		}
		cfg = loaded
		log.Info().Str("path", *configPath).Msg("loaded judged config")
	}

	opts := server.Options{
		Name:              cfg.Name,
		Addr:              cfg.Addr,
		CorsOrigins:       cfg.CorsOrigins,
		Params:            cfg.GeneratorParams(),
		MaxConcurrentRuns: cfg.MaxConcurrentRuns,
	}
	cand, ok, err := cfg.CandidateConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid candidate command")
	}
	if ok {
		opts.Launch = judge.CommandLauncher(cand)
	}

	srv := server.New(opts)
	log.Info().Str("name", srv.Name).Str("addr", srv.Addr).Bool("runs", ok).Msg("judged started")
	if err := srv.Serve(); err != nil {
		log.Fatal().Err(err).Msg("judged stopped")
	}
}
