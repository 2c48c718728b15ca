package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/chessjudge/internal/generator"
	"github.com/danmuck/chessjudge/internal/render"
)

const defaultTimeout = 10 * time.Second

type fileConfig struct {
	Exec     string  `toml:"exec"`
	Timeout  string  `toml:"timeout"`
	Size     int     `toml:"size"`
	MinN     int     `toml:"min_n"`
	MaxN     int     `toml:"max_n"`
	MinC     int     `toml:"min_c"`
	MaxC     int     `toml:"max_c"`
	MinWallP float64 `toml:"min_wall_p"`
	MaxWallP float64 `toml:"max_wall_p"`
}

// runConfig is everything a judging run needs besides the seed.
type runConfig struct {
	Exec    string
	Timeout time.Duration
	Size    int
	Params  generator.Params
}

func defaultRunConfig() runConfig {
	return runConfig{
		Timeout: defaultTimeout,
		Size:    render.DefaultCellSize,
		Params:  generator.DefaultParams(),
	}
}

// loadRunConfig overlays the keys present in path on cfg.
func loadRunConfig(path string, cfg runConfig) (runConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runConfig{}, fmt.Errorf("load judge config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return runConfig{}, fmt.Errorf("load judge config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("exec") {
		cfg.Exec = strings.TrimSpace(raw.Exec)
	}
	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return runConfig{}, fmt.Errorf("parse timeout: %w", err)
		}
		cfg.Timeout = d
	}
	if meta.IsDefined("size") {
		cfg.Size = raw.Size
	}
	if meta.IsDefined("min_n") {
		cfg.Params.MinN = raw.MinN
	}
	if meta.IsDefined("max_n") {
		cfg.Params.MaxN = raw.MaxN
	}
	if meta.IsDefined("min_c") {
		cfg.Params.MinC = raw.MinC
	}
	if meta.IsDefined("max_c") {
		cfg.Params.MaxC = raw.MaxC
	}
	if meta.IsDefined("min_wall_p") {
		cfg.Params.MinWallP = raw.MinWallP
	}
	if meta.IsDefined("max_wall_p") {
		cfg.Params.MaxWallP = raw.MaxWallP
	}

	if err := cfg.Params.Validate(); err != nil {
		return runConfig{}, err
	}
	return cfg, nil
}
