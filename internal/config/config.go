package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

var ErrInvalidConfig = errors.New("config: invalid")

const (
	DefaultName              = "chessjudge"
	DefaultAddr              = ":9300"
	DefaultTimeout           = 10 * time.Second
	DefaultMaxConcurrentRuns = 4
)

// ServerConfig configures the judge service.
type ServerConfig struct {
	Name        string   `toml:"name"`
	Addr        string   `toml:"addr"`
	CorsOrigins []string `toml:"cors_origins"`
	// Exec is the candidate command line used by POST /runs. Empty disables
	// live runs.
	Exec              string          `toml:"exec"`
	Timeout           string          `toml:"timeout"`
	MaxConcurrentRuns int             `toml:"max_concurrent_runs"`
	Generator         GeneratorConfig `toml:"generator"`
}

// GeneratorConfig overrides generator bounds. Unset fields keep defaults;
// an explicit zero is kept.
type GeneratorConfig struct {
	MinN     *int     `toml:"min_n"`
	MaxN     *int     `toml:"max_n"`
	MinC     *int     `toml:"min_c"`
	MaxC     *int     `toml:"max_c"`
	MinWallP *float64 `toml:"min_wall_p"`
	MaxWallP *float64 `toml:"max_wall_p"`
}

func LoadServerConfig(path string) (ServerConfig, error) {
	var cfg ServerConfig
	if err := loadToml(path, &cfg); err != nil {
		return ServerConfig{}, err
	}
	cfg = cfg.withDefaults()
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// DefaultServerConfig is the configuration used when no file is given.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{}.withDefaults()
}

func (cfg ServerConfig) withDefaults() ServerConfig {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Timeout == "" {
		cfg.Timeout = DefaultTimeout.String()
	}
	if cfg.MaxConcurrentRuns == 0 {
		cfg.MaxConcurrentRuns = DefaultMaxConcurrentRuns
	}
	return cfg
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidConfig)
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("%w: missing addr", ErrInvalidConfig)
	}
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return fmt.Errorf("%w: timeout: %w", ErrInvalidConfig, err)
	}
	if timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", ErrInvalidConfig, cfg.Timeout)
	}
	if cfg.MaxConcurrentRuns < 1 {
		return fmt.Errorf("%w: max_concurrent_runs must be positive", ErrInvalidConfig)
	}
	if err := cfg.GeneratorParams().Validate(); err != nil {
		return fmt.Errorf("%w: generator: %w", ErrInvalidConfig, err)
	}
	return nil
}
