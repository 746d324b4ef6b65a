package expand

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/osintdash/graphkit/pkg/graph"
)

// DefaultThreatFoxEndpoint is abuse.ch's IOC database.
const DefaultThreatFoxEndpoint = "https://threatfox-api.abuse.ch/api/v1/"

// ThreatFox matches a value against the abuse.ch IOC feed.
type ThreatFox struct {
	Endpoint string
	Client   *http.Client
	Limit    int
}

func (p *ThreatFox) Name() string { return "threatfox" }

type threatFoxResponse struct {
	QueryStatus string `json:"query_status"`
	Data        []struct {
		IOC        string `json:"ioc"`
		ThreatType string `json:"threat_type"`
		Malware    string `json:"malware_printable"`
		Confidence int    `json:"confidence_level"`
		FirstSeen  string `json:"first_seen"`
	} `json:"data"`
}

func (p *ThreatFox) Expand(ctx context.Context, value string) ([]Fact, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = DefaultThreatFoxEndpoint
	}
	var resp threatFoxResponse
	payload := map[string]string{"query": "search_ioc", "search_term": value}
	if err := postJSON(ctx, p.Client, endpoint, payload, &resp); err != nil {
		return nil, err
	}
	if resp.QueryStatus == "no_result" {
		return nil, nil
	}
	if resp.QueryStatus != "ok" {
		return nil, fmt.Errorf("threatfox: query status %q", resp.QueryStatus)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}
	seen := make(map[string]bool)
	var facts []Fact
	for _, ioc := range resp.Data {
		name := ioc.Malware
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		facts = append(facts, Fact{
			Type:  graph.EntityMalware,
			Value: name,
			Label: name,
			Properties: map[string]string{
				"ioc":         ioc.IOC,
				"threat_type": ioc.ThreatType,
				"first_seen":  ioc.FirstSeen,
			},
			Risk: &graph.RiskMetadata{
				Level:      graph.RiskCritical,
				Confidence: float64(ioc.Confidence) / 100,
				Source:     "threatfox",
			},
		})
		if len(facts) >= limit {
			break
		}
	}
	return facts, nil
}

// DefaultURLhausEndpoint is abuse.ch's malicious URL database.
const DefaultURLhausEndpoint = "https://urlhaus-api.abuse.ch/v1"

// URLhaus is the secondary threat feed: malicious URLs hosted on a host.
type URLhaus struct {
	Endpoint string
	Client   *http.Client
	Limit    int
}

func (p *URLhaus) Name() string { return "urlhaus" }

type urlhausResponse struct {
	QueryStatus string `json:"query_status"`
	URLs        []struct {
		URL       string   `json:"url"`
		Status    string   `json:"url_status"`
		Threat    string   `json:"threat"`
		Tags      []string `json:"tags"`
		DateAdded string   `json:"date_added"`
	} `json:"urls"`
}

func (p *URLhaus) Expand(ctx context.Context, value string) ([]Fact, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = DefaultURLhausEndpoint
	}
	var resp urlhausResponse
	payload := map[string]string{"host": value}
	if err := postJSON(ctx, p.Client, endpoint+"/host/", payload, &resp); err != nil {
		return nil, err
	}
	if resp.QueryStatus == "no_results" {
		return nil, nil
	}
	if resp.QueryStatus != "ok" {
		return nil, fmt.Errorf("urlhaus: query status %q", resp.QueryStatus)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 10
	}
	var facts []Fact
	for _, entry := range resp.URLs {
		if entry.URL == "" {
			continue
		}
		level := graph.RiskHigh
		if entry.Status == "online" {
			level = graph.RiskCritical
		}
		facts = append(facts, Fact{
			Type:  graph.EntityURL,
			Value: entry.URL,
			Label: entry.URL,
			Properties: map[string]string{
				"threat":     entry.Threat,
				"status":     entry.Status,
				"tags":       strings.Join(entry.Tags, ","),
				"date_added": entry.DateAdded,
			},
			Risk: &graph.RiskMetadata{Level: level, Confidence: 0.9, Source: "urlhaus"},
		})
		if len(facts) >= limit {
			break
		}
	}
	return facts, nil
}
