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

// ddgProvider uses the DuckDuckGo instant answer API. It needs no
// credential, which makes it the fallback of last resort, but it only
// surfaces related topics, not full web results.
type ddgProvider struct {
	cfg DDGConfig
}

func newDDGProvider(cfg *Config) Provider {
	if cfg == nil {
		return nil
	}
	if !isEnabled(cfg.DDG.Enabled, true) {
		return nil
	}
	return &ddgProvider{cfg: cfg.DDG}
}

func (p *ddgProvider) Name() string {
	return ProviderDuckDuckGo
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Topics   []ddgTopic `json:"Topics"`
}

func (p *ddgProvider) Search(ctx context.Context, req Request) (*Response, error) {
	searchURL, err := url.Parse(p.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	query := searchURL.Query()
	query.Set("q", req.Query)
	query.Set("format", "json")
	query.Set("no_html", "1")
	query.Set("skip_disambig", "1")
	searchURL.RawQuery = query.Encode()

	start := time.Now()
	data, err := httputil.GetJSON(ctx, searchURL.String(), nil, p.cfg.TimeoutSecs)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Heading       string     `json:"Heading"`
		AbstractText  string     `json:"AbstractText"`
		AbstractURL   string     `json:"AbstractURL"`
		RelatedTopics []ddgTopic `json:"RelatedTopics"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("ddg: decoding response: %w", err)
	}

	var hits []Hit
	if resp.AbstractURL != "" {
		hits = append(hits, Hit{
			Title:   strings.TrimSpace(resp.Heading),
			Link:    resp.AbstractURL,
			Snippet: strings.TrimSpace(resp.AbstractText),
		})
	}
	var appendTopic func(topic ddgTopic)
	appendTopic = func(topic ddgTopic) {
		if len(hits) >= req.Count {
			return
		}
		if topic.FirstURL != "" {
			hits = append(hits, Hit{
				Title:   strings.TrimSpace(topic.Text),
				Link:    topic.FirstURL,
				Snippet: strings.TrimSpace(topic.Text),
			})
		}
		for _, nested := range topic.Topics {
			appendTopic(nested)
		}
	}
	for _, topic := range resp.RelatedTopics {
		appendTopic(topic)
	}
	if hits == nil {
		hits = []Hit{}
	}

	return &Response{
		Query:    req.Query,
		Provider: ProviderDuckDuckGo,
		Hits:     hits,
		TookMs:   time.Since(start).Milliseconds(),
	}, nil
}
