package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/vinscope/vinscope/pkg/shared/httputil"
)

type serpAPIProvider struct {
	cfg SerpAPIConfig
}

func newSerpAPIProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.SerpAPI.Enabled, true) {
		return nil
	}
	if strings.TrimSpace(cfg.SerpAPI.APIKey) == "" {
		return nil
	}
	return &serpAPIProvider{cfg: cfg.SerpAPI}
}

func (p *serpAPIProvider) Name() string {
	return ProviderSerpAPI
}

func (p *serpAPIProvider) Search(ctx context.Context, req Request) (*Response, error) {
	searchURL, err := url.Parse(p.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	query := searchURL.Query()
	query.Set("engine", p.cfg.Engine)
	query.Set("q", req.Query)
	query.Set("num", fmt.Sprintf("%d", req.Count))
	query.Set("api_key", p.cfg.APIKey)
	searchURL.RawQuery = query.Encode()

	start := time.Now()
	data, err := httputil.GetJSON(ctx, searchURL.String(), nil, p.cfg.TimeoutSecs)
	if err != nil {
		return nil, err
	}

	var resp struct {
		OrganicResults []struct {
			Title   string `json:"title"`
			Link    string `json:"link"`
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("serpapi: decoding response: %w", err)
	}

	hits := make([]Hit, 0, len(resp.OrganicResults))
	for _, entry := range resp.OrganicResults {
		if entry.Link == "" {
			continue
		}
		hits = append(hits, Hit{
			Title:   strings.TrimSpace(entry.Title),
			Link:    entry.Link,
			Snippet: strings.TrimSpace(entry.Snippet),
		})
	}

	return &Response{
		Query:    req.Query,
		Provider: ProviderSerpAPI,
		Hits:     hits,
		TookMs:   time.Since(start).Milliseconds(),
	}, nil
}
