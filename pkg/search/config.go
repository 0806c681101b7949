package search

import "strings"

const (
	ProviderSerpAPI    = "serpapi"
	ProviderBrave      = "brave"
	ProviderDuckDuckGo = "ddg"

	DefaultHitCount    = 10
	MaxHitCount        = 20
	DefaultTimeoutSecs = 30
)

// DefaultFallbackOrder is tried when the configured provider is unavailable.
var DefaultFallbackOrder = []string{
	ProviderSerpAPI,
	ProviderBrave,
	ProviderDuckDuckGo,
}

// Config controls search provider selection and credentials.
type Config struct {
	Provider  string   `yaml:"provider"`
	Fallbacks []string `yaml:"fallbacks"`

	SerpAPI SerpAPIConfig `yaml:"serpapi"`
	Brave   BraveConfig   `yaml:"brave"`
	DDG     DDGConfig     `yaml:"ddg"`
}

type SerpAPIConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	Engine      string `yaml:"engine"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

type BraveConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	APIKey      string `yaml:"api_key"`
	Country     string `yaml:"country"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

type DDGConfig struct {
	Enabled     *bool  `yaml:"enabled"`
	BaseURL     string `yaml:"base_url"`
	TimeoutSecs int    `yaml:"timeout_seconds"`
}

// WithDefaults fills in zero-valued fields and returns the config.
func (c *Config) WithDefaults() *Config {
	if c == nil {
		c = &Config{}
	}
	if strings.TrimSpace(c.Provider) == "" {
		c.Provider = ProviderSerpAPI
	}
	if len(c.Fallbacks) == 0 {
		c.Fallbacks = append([]string{}, DefaultFallbackOrder...)
	}
	c.SerpAPI = c.SerpAPI.withDefaults()
	c.Brave = c.Brave.withDefaults()
	c.DDG = c.DDG.withDefaults()
	return c
}

func (c SerpAPIConfig) withDefaults() SerpAPIConfig {
	if c.BaseURL == "" {
		c.BaseURL = "https://serpapi.com/search.json"
	}
	if c.Engine == "" {
		c.Engine = "google"
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	return c
}

func (c BraveConfig) withDefaults() BraveConfig {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.search.brave.com/res/v1/web/search"
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	return c
}

func (c DDGConfig) withDefaults() DDGConfig {
	if c.BaseURL == "" {
		c.BaseURL = "https://api.duckduckgo.com/"
	}
	if c.TimeoutSecs <= 0 {
		c.TimeoutSecs = DefaultTimeoutSecs
	}
	return c
}

func isEnabled(flag *bool, fallback bool) bool {
	if flag == nil {
		return fallback
	}
	return *flag
}
