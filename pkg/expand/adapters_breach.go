package expand

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/osintdash/graphkit/pkg/graph"
)

// DefaultXposedOrNotEndpoint is the free breach directory.
const DefaultXposedOrNotEndpoint = "https://api.xposedornot.com/v1"

// XposedOrNot checks an email against the public breach directory.
type XposedOrNot struct {
	Endpoint string
	Client   *http.Client
}

func (p *XposedOrNot) Name() string { return "xposedornot" }

type xposedOrNotResponse struct {
	Breaches [][]string `json:"breaches"`
}

func (p *XposedOrNot) Expand(ctx context.Context, value string) ([]Fact, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = DefaultXposedOrNotEndpoint
	}
	var resp xposedOrNotResponse
	err := getJSON(ctx, p.Client, fmt.Sprintf("%s/check-email/%s", endpoint, url.PathEscape(value)), &resp)
	if err != nil {
		// The directory answers 404 for clean emails; that is "no facts",
		// not a provider failure.
		if strings.Contains(err.Error(), "status 404") {
			return nil, nil
		}
		return nil, err
	}

	riskLevel := func(n int) graph.RiskLevel {
		switch {
		case n >= 10:
			return graph.RiskCritical
		case n >= 4:
			return graph.RiskHigh
		default:
			return graph.RiskMedium
		}
	}

	var facts []Fact
	for _, group := range resp.Breaches {
		for _, name := range group {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			facts = append(facts, Fact{
				Type:       graph.EntityBreach,
				Value:      name,
				Label:      name,
				Properties: map[string]string{"identity": value},
				Risk: &graph.RiskMetadata{
					Level:      riskLevel(len(group)),
					Confidence: 0.8,
					Source:     "xposedornot",
				},
			})
		}
	}
	return facts, nil
}

// DerivedEmailBreach is the heuristic tail of the breach chain for domain
// sources: it derives common role mailboxes for the domain and checks each
// through the underlying email provider.
type DerivedEmailBreach struct {
	Inner Provider
}

func (p *DerivedEmailBreach) Name() string { return "derived-email-breach" }

var roleMailboxes = []string{"admin", "info", "contact", "support", "security"}

func (p *DerivedEmailBreach) Expand(ctx context.Context, value string) ([]Fact, error) {
	// Only meaningful for bare domains.
	if strings.Contains(value, "@") || net.ParseIP(value) != nil {
		return nil, nil
	}

	var merged []Fact
	seen := make(map[string]bool)
	for _, mailbox := range roleMailboxes {
		email := mailbox + "@" + value
		facts, err := p.Inner.Expand(ctx, email)
		if err != nil {
			continue
		}
		for _, fact := range facts {
			if seen[fact.Value] {
				continue
			}
			seen[fact.Value] = true
			merged = append(merged, fact)
		}
	}
	return merged, nil
}

// DefaultPsbdmpEndpoint serves paste-site search results.
const DefaultPsbdmpEndpoint = "https://psbdmp.ws/api/v3"

// Psbdmp searches public paste dumps for an identity.
type Psbdmp struct {
	Endpoint string
	Client   *http.Client
	Limit    int
}

func (p *Psbdmp) Name() string { return "psbdmp" }

type psbdmpResponse struct {
	Count int `json:"count"`
	Data  []struct {
		ID   string `json:"id"`
		Tags string `json:"tags"`
		Time string `json:"time"`
	} `json:"data"`
}

func (p *Psbdmp) Expand(ctx context.Context, value string) ([]Fact, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = DefaultPsbdmpEndpoint
	}
	var resp psbdmpResponse
	if err := getJSON(ctx, p.Client, fmt.Sprintf("%s/search/%s", endpoint, url.PathEscape(value)), &resp); err != nil {
		return nil, err
	}

	limit := p.Limit
	if limit <= 0 {
		limit = 15
	}
	var facts []Fact
	for _, paste := range resp.Data {
		if paste.ID == "" {
			continue
		}
		facts = append(facts, Fact{
			Type:  graph.EntityPaste,
			Value: paste.ID,
			Label: "paste " + paste.ID,
			Properties: map[string]string{
				"identity": value,
				"tags":     paste.Tags,
				"time":     paste.Time,
			},
			Risk: &graph.RiskMetadata{Level: graph.RiskMedium, Confidence: 0.6, Source: "psbdmp"},
		})
		if len(facts) >= limit {
			break
		}
	}
	return facts, nil
}
