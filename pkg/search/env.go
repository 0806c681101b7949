package search

import (
	"os"
	"strings"

	"github.com/vinscope/vinscope/pkg/shared/stringutil"
)

// ApplyEnvDefaults overlays environment variables on cfg and returns the
// config with defaults applied. A provider named in the config file wins
// over SEARCH_PROVIDER; credentials set in the environment win over the
// config file.
func ApplyEnvDefaults(cfg *Config) *Config {
	if cfg == nil {
		cfg = &Config{}
	}
	if strings.TrimSpace(cfg.Provider) == "" {
		cfg.Provider = strings.TrimSpace(os.Getenv("SEARCH_PROVIDER"))
	}

	cfg.SerpAPI.APIKey = stringutil.EnvOr(cfg.SerpAPI.APIKey, os.Getenv("SERPAPI_API_KEY"))
	cfg.SerpAPI.BaseURL = stringutil.EnvOr(cfg.SerpAPI.BaseURL, os.Getenv("SERPAPI_BASE_URL"))

	cfg.Brave.APIKey = stringutil.EnvOr(cfg.Brave.APIKey, os.Getenv("BRAVE_API_KEY"))
	cfg.Brave.BaseURL = stringutil.EnvOr(cfg.Brave.BaseURL, os.Getenv("BRAVE_BASE_URL"))

	return cfg.WithDefaults()
}
