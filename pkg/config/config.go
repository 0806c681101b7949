// Package config loads the YAML configuration file and overlays
// environment variables on top of it.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vinscope/vinscope/pkg/decode"
	"github.com/vinscope/vinscope/pkg/report"
	"github.com/vinscope/vinscope/pkg/search"
)

// Config is the root configuration. Every section is optional; defaults
// and environment variables fill the gaps.
type Config struct {
	LogLevel string              `yaml:"log_level"`
	Decode   decode.Config       `yaml:"decode"`
	Search   search.Config       `yaml:"search"`
	OpenAI   report.OpenAIConfig `yaml:"openai"`
}

// Load reads the config file at path. A missing file is not an error when
// path is empty or points at the default location; an explicit path must
// exist.
func Load(path string, explicit bool) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
			// Default location, nothing there: run on env and defaults.
		default:
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}
	return cfg.ApplyEnvDefaults(), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.config/vinscope/config.yaml"
}

// ApplyEnvDefaults overlays environment variables on every section and
// fills defaults.
func (c *Config) ApplyEnvDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = strings.TrimSpace(os.Getenv("VINSCOPE_LOG_LEVEL"))
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = "info"
	}
	c.Decode = *decode.ApplyEnvDefaults(&c.Decode)
	c.Search = *search.ApplyEnvDefaults(&c.Search)
	c.OpenAI = *report.ApplyEnvDefaults(&c.OpenAI)
	return c
}
