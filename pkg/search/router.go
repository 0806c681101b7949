package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// CredentialError means no usable provider exists for the current
// configuration. It is returned before any network call is attempted.
type CredentialError struct {
	Providers []string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("no usable search provider (tried %s); set SERPAPI_API_KEY or BRAVE_API_KEY", strings.Join(e.Providers, ", "))
}

// Client runs searches through the configured provider chain, falling back
// to the next provider on failure.
type Client struct {
	cfg      *Config
	registry *Registry
	order    []string
	log      zerolog.Logger
}

// NewClient builds a client from cfg. Providers missing their credential
// are left out of the chain.
func NewClient(cfg *Config, log zerolog.Logger) *Client {
	cfg = cfg.WithDefaults()
	registry := NewRegistry()
	if p := newSerpAPIProvider(cfg); p != nil {
		registry.Register(p)
	}
	if p := newBraveProvider(cfg); p != nil {
		registry.Register(p)
	}
	if p := newDDGProvider(cfg); p != nil {
		registry.Register(p)
	}
	return &Client{
		cfg:      cfg,
		registry: registry,
		order:    buildOrder(cfg),
		log:      log.With().Str("component", "search").Logger(),
	}
}

// Search runs the query through the provider chain and returns the first
// successful provider's hits. A CredentialError is returned when the chain
// is empty; otherwise the last provider error is returned when every
// provider fails.
func (c *Client) Search(ctx context.Context, query string) ([]Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("missing query")
	}
	req := Request{Query: query, Count: DefaultHitCount}

	available := make([]Provider, 0, len(c.order))
	for _, name := range c.order {
		if provider := c.registry.Get(name); provider != nil {
			available = append(available, provider)
		}
	}
	if len(available) == 0 {
		return nil, &CredentialError{Providers: c.order}
	}

	var lastErr error
	for _, provider := range available {
		resp, err := provider.Search(ctx, req)
		if err != nil {
			c.log.Warn().Err(err).Str("provider", provider.Name()).Msg("search provider failed")
			lastErr = err
			continue
		}
		if resp == nil {
			lastErr = fmt.Errorf("provider %s returned empty response", provider.Name())
			continue
		}
		c.log.Debug().
			Str("provider", provider.Name()).
			Int("hits", len(resp.Hits)).
			Int64("took_ms", resp.TookMs).
			Msg("search complete")
		if resp.Hits == nil {
			return []Hit{}, nil
		}
		return resp.Hits, nil
	}
	return nil, lastErr
}

func buildOrder(cfg *Config) []string {
	order := make([]string, 0, len(cfg.Fallbacks)+1)
	provider := strings.TrimSpace(cfg.Provider)
	if provider != "" && provider != "auto" {
		order = append(order, provider)
	}
	order = append(order, cfg.Fallbacks...)
	return dedupeOrder(order)
}

func dedupeOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		name := strings.TrimSpace(item)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		result = append(result, name)
	}
	if len(result) == 0 {
		return append([]string{}, DefaultFallbackOrder...)
	}
	return result
}
