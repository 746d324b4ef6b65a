package expand

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/osintdash/graphkit/pkg/graph"
)

// LeakIndex queries a leak-search service: dark-web crawl indexes and
// messaging-platform leak channels both speak this shape. The concrete
// service is configured by endpoint; the payload is opaque JSON of the form
// {"results": [{"title", "url", "source", "date"}]}.
type LeakIndex struct {
	ProviderName string
	Endpoint     string
	Source       string // tag recorded on produced facts
	Client       *http.Client
	Limit        int
}

func (p *LeakIndex) Name() string { return p.ProviderName }

type leakIndexResponse struct {
	Results []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source string `json:"source"`
		Date   string `json:"date"`
	} `json:"results"`
}

func (p *LeakIndex) Expand(ctx context.Context, value string) ([]Fact, error) {
	if p.Endpoint == "" {
		return nil, fmt.Errorf("%s: no endpoint configured", p.ProviderName)
	}
	var resp leakIndexResponse
	query := fmt.Sprintf("%s?q=%s", p.Endpoint, url.QueryEscape(value))
	if err := getJSON(ctx, p.Client, query, &resp); err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 15
	}
	seen := make(map[string]bool)
	var facts []Fact
	for _, hit := range resp.Results {
		if hit.URL == "" || seen[hit.URL] {
			continue
		}
		seen[hit.URL] = true
		label := hit.Title
		if label == "" {
			label = hit.URL
		}
		source := hit.Source
		if source == "" {
			source = p.Source
		}
		facts = append(facts, Fact{
			Type:  graph.EntityPaste,
			Value: hit.URL,
			Label: label,
			Properties: map[string]string{
				"identity": value,
				"source":   source,
				"date":     hit.Date,
			},
			Risk: &graph.RiskMetadata{Level: graph.RiskHigh, Confidence: 0.5, Source: p.Source},
		})
		if len(facts) >= limit {
			break
		}
	}
	return facts, nil
}
