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

type braveProvider struct {
	cfg BraveConfig
}

func newBraveProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.Brave.Enabled, true) {
		return nil
	}
	if strings.TrimSpace(cfg.Brave.APIKey) == "" {
		return nil
	}
	return &braveProvider{cfg: cfg.Brave}
}

func (p *braveProvider) Name() string {
	return ProviderBrave
}

func (p *braveProvider) Search(ctx context.Context, req Request) (*Response, error) {
	searchURL, err := url.Parse(p.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	query := searchURL.Query()
	query.Set("q", req.Query)
	query.Set("count", fmt.Sprintf("%d", req.Count))
	if p.cfg.Country != "" {
		query.Set("country", p.cfg.Country)
	}
	searchURL.RawQuery = query.Encode()

	start := time.Now()
	data, err := httputil.GetJSON(ctx, searchURL.String(), map[string]string{
		"X-Subscription-Token": p.cfg.APIKey,
	}, p.cfg.TimeoutSecs)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("brave: decoding response: %w", err)
	}

	hits := make([]Hit, 0, len(resp.Web.Results))
	for _, entry := range resp.Web.Results {
		if entry.URL == "" {
			continue
		}
		hits = append(hits, Hit{
			Title:   strings.TrimSpace(entry.Title),
			Link:    entry.URL,
			Snippet: strings.TrimSpace(entry.Description),
		})
	}

	return &Response{
		Query:    req.Query,
		Provider: ProviderBrave,
		Hits:     hits,
		TookMs:   time.Since(start).Milliseconds(),
	}, nil
}
