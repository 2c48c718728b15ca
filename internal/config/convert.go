package config

import (
	"time"

	"github.com/danmuck/chessjudge/internal/candidate"
	"github.com/danmuck/chessjudge/internal/generator"
	"github.com/danmuck/chessjudge/internal/tools"
)

// GeneratorParams overlays the configured bounds on the defaults.
func (cfg ServerConfig) GeneratorParams() generator.Params {
	p := generator.DefaultParams()
	g := cfg.Generator
	overlay(&p.MinN, g.MinN)
	overlay(&p.MaxN, g.MaxN)
	overlay(&p.MinC, g.MinC)
	overlay(&p.MaxC, g.MaxC)
	overlay(&p.MinWallP, g.MinWallP)
	overlay(&p.MaxWallP, g.MaxWallP)
	return p
}

func overlay[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// CandidateConfig builds the process config for live runs. ok is false when
// no command is configured.
func (cfg ServerConfig) CandidateConfig() (candidate.Config, bool, error) {
	if cfg.Exec == "" {
		return candidate.Config{}, false, nil
	}
	argv, err := tools.SplitCommand(cfg.Exec)
	if err != nil {
		return candidate.Config{}, false, err
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return candidate.Config{}, false, err
	}
	return candidate.Config{Command: argv, Timeout: timeout}, true, nil
}
