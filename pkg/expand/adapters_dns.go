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

// SystemDNS resolves domains through the host resolver. Primary provider
// for dns_resolve; a DNS-over-HTTPS provider backs it up where the local
// resolver is filtered.
type SystemDNS struct {
	Resolver *net.Resolver
}

func (d *SystemDNS) Name() string { return "system-dns" }

func (d *SystemDNS) Expand(ctx context.Context, value string) ([]Fact, error) {
	resolver := d.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	addrs, err := resolver.LookupIPAddr(ctx, value)
	if err != nil {
		return nil, err
	}

	facts := make([]Fact, 0, len(addrs))
	for _, addr := range addrs {
		record := "A"
		if addr.IP.To4() == nil {
			record = "AAAA"
		}
		facts = append(facts, Fact{
			Type:  graph.EntityIP,
			Value: addr.IP.String(),
			Label: addr.IP.String(),
			Properties: map[string]string{
				"record": record,
				"domain": value,
			},
		})
	}
	return facts, nil
}

// ReverseSystemDNS maps an IP back to hostnames via PTR records.
type ReverseSystemDNS struct {
	Resolver *net.Resolver
}

func (d *ReverseSystemDNS) Name() string { return "system-ptr" }

func (d *ReverseSystemDNS) Expand(ctx context.Context, value string) ([]Fact, error) {
	resolver := d.Resolver
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	names, err := resolver.LookupAddr(ctx, value)
	if err != nil {
		return nil, err
	}

	facts := make([]Fact, 0, len(names))
	for _, name := range names {
		name = strings.TrimSuffix(name, ".")
		if name == "" {
			continue
		}
		facts = append(facts, Fact{
			Type:       graph.EntityDomain,
			Value:      name,
			Label:      name,
			Properties: map[string]string{"record": "PTR", "ip": value},
		})
	}
	return facts, nil
}

// DefaultDoHEndpoint is the Google JSON DNS API.
const DefaultDoHEndpoint = "https://dns.google/resolve"

// DoHDNS resolves domains through a DNS-over-HTTPS JSON endpoint.
type DoHDNS struct {
	Endpoint string
	Client   *http.Client
}

func (d *DoHDNS) Name() string { return "doh-dns" }

type dohResponse struct {
	Status int `json:"Status"`
	Answer []struct {
		Type int    `json:"type"`
		Data string `json:"data"`
	} `json:"Answer"`
}

func (d *DoHDNS) Expand(ctx context.Context, value string) ([]Fact, error) {
	endpoint := d.Endpoint
	if endpoint == "" {
		endpoint = DefaultDoHEndpoint
	}
	var facts []Fact
	for _, recordType := range []string{"A", "AAAA"} {
		query := fmt.Sprintf("%s?name=%s&type=%s", endpoint, url.QueryEscape(value), recordType)
		var resp dohResponse
		if err := getJSON(ctx, d.Client, query, &resp); err != nil {
			return nil, err
		}
		for _, answer := range resp.Answer {
			// 1 = A, 28 = AAAA; skip CNAMEs in the answer section.
			if answer.Type != 1 && answer.Type != 28 {
				continue
			}
			if net.ParseIP(answer.Data) == nil {
				continue
			}
			record := "A"
			if answer.Type == 28 {
				record = "AAAA"
			}
			facts = append(facts, Fact{
				Type:       graph.EntityIP,
				Value:      answer.Data,
				Label:      answer.Data,
				Properties: map[string]string{"record": record, "domain": value},
			})
		}
	}
	return facts, nil
}
