package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variable names.
const (
	EnvPrefix = "THREADPLOT_"
	EnvFile   = EnvPrefix + "CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if THREADPLOT_CONFIG is set
//  3. env (prefix THREADPLOT_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(EnvFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// THREADPLOT_RESULTS_DIR -> results_dir
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.ResultsDir) == "":
		return fmt.Errorf("%w: results_dir must not be empty", ErrInvalidConfig)
	case !strings.HasPrefix(c.InputExt, "."):
		return fmt.Errorf("%w: input_ext %q must start with '.'", ErrInvalidConfig, c.InputExt)
	case !strings.HasPrefix(c.OutputExt, "."):
		return fmt.Errorf("%w: output_ext %q must start with '.'", ErrInvalidConfig, c.OutputExt)
	case c.InputExt == c.OutputExt:
		return fmt.Errorf("%w: input_ext and output_ext must differ", ErrInvalidConfig)
	case c.WidthIn <= 0 || c.HeightIn <= 0:
		return fmt.Errorf("%w: page size %vx%v must be positive", ErrInvalidConfig, c.WidthIn, c.HeightIn)
	}
	return nil
}
