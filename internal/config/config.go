// Package config loads kestrelc settings from a config file and the
// environment.
package config

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds the checker configuration.
type Config struct {
	// WarningsAsErrors promotes every warning to an error.
	WarningsAsErrors bool
	// Jobs bounds the number of functions analyzed concurrently.
	Jobs int
	// MaxErrors stops printing after this many diagnostics (0 = all).
	MaxErrors int
	// Format selects diagnostic output: text or yaml.
	Format string

	Passes PassConfig
}

// PassConfig mirrors the pass runner options.
type PassConfig struct {
	Verify     bool   `mapstructure:"verify"`
	DumpBefore string `mapstructure:"dump_before"`
	DumpAfter  string `mapstructure:"dump_after"`
	DumpFunc   string `mapstructure:"dump_func"`
}

// Load loads configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from v, falling back to defaults for unset
// keys.
func LoadFrom(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Jobs:      runtime.NumCPU(),
		MaxErrors: 10,
		Format:    "text",
	}

	if v.IsSet("warnings_as_errors") {
		cfg.WarningsAsErrors = v.GetBool("warnings_as_errors")
	}
	if v.IsSet("jobs") {
		cfg.Jobs = v.GetInt("jobs")
	}
	if v.IsSet("max_errors") {
		cfg.MaxErrors = v.GetInt("max_errors")
	}
	if v.IsSet("format") {
		cfg.Format = v.GetString("format")
	}

	// Pass options may be given flat or grouped under "passes".
	if v.IsSet("passes") {
		if err := v.UnmarshalKey("passes", &cfg.Passes); err != nil {
			return nil, fmt.Errorf("config: passes: %w", err)
		}
	}
	if v.IsSet("verify") {
		cfg.Passes.Verify = v.GetBool("verify")
	}
	if v.IsSet("dump_before") {
		cfg.Passes.DumpBefore = v.GetString("dump_before")
	}
	if v.IsSet("dump_after") {
		cfg.Passes.DumpAfter = v.GetString("dump_after")
	}
	if v.IsSet("dump_func") {
		cfg.Passes.DumpFunc = v.GetString("dump_func")
	}

	if cfg.Jobs <= 0 {
		cfg.Jobs = runtime.NumCPU()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot be honored.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("config: unknown format %q (want text or yaml)", c.Format)
	}
	if c.MaxErrors < 0 {
		return fmt.Errorf("config: max_errors must not be negative")
	}
	return nil
}
