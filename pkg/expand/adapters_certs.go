package expand

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/osintdash/graphkit/pkg/graph"
)

// DefaultCrtShEndpoint is the crt.sh certificate-transparency search.
const DefaultCrtShEndpoint = "https://crt.sh"

type crtShEntry struct {
	IssuerName   string `json:"issuer_name"`
	CommonName   string `json:"common_name"`
	NameValue    string `json:"name_value"`
	SerialNumber string `json:"serial_number"`
	NotBefore    string `json:"not_before"`
	NotAfter     string `json:"not_after"`
}

func crtShSearch(ctx context.Context, client *http.Client, endpoint, domain string) ([]crtShEntry, error) {
	if endpoint == "" {
		endpoint = DefaultCrtShEndpoint
	}
	query := fmt.Sprintf("%s/?q=%s&output=json", endpoint, url.QueryEscape("%."+domain))
	var entries []crtShEntry
	if err := getJSON(ctx, client, query, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// CTSubdomains enumerates subdomains from certificate-transparency logs:
// every name a public CA ever certified under the domain.
type CTSubdomains struct {
	Endpoint string
	Client   *http.Client
	Limit    int
}

func (c *CTSubdomains) Name() string { return "crtsh-subdomains" }

func (c *CTSubdomains) Expand(ctx context.Context, value string) ([]Fact, error) {
	entries, err := crtShSearch(ctx, c.Client, c.Endpoint, value)
	if err != nil {
		return nil, err
	}

	limit := c.Limit
	if limit <= 0 {
		limit = 25
	}
	seen := make(map[string]bool)
	var facts []Fact
	for _, entry := range entries {
		for _, name := range strings.Split(entry.NameValue, "\n") {
			name = strings.ToLower(strings.TrimSpace(name))
			name = strings.TrimPrefix(name, "*.")
			if name == "" || name == value || seen[name] {
				continue
			}
			if !strings.HasSuffix(name, "."+value) {
				continue
			}
			seen[name] = true
			facts = append(facts, Fact{
				Type:       graph.EntityDomain,
				Value:      name,
				Label:      name,
				Properties: map[string]string{"source": "certificate-transparency"},
			})
			if len(facts) >= limit {
				return facts, nil
			}
		}
	}
	return facts, nil
}

// CTCertificates surfaces the certificates themselves.
type CTCertificates struct {
	Endpoint string
	Client   *http.Client
	Limit    int
}

func (c *CTCertificates) Name() string { return "crtsh-certs" }

func (c *CTCertificates) Expand(ctx context.Context, value string) ([]Fact, error) {
	entries, err := crtShSearch(ctx, c.Client, c.Endpoint, value)
	if err != nil {
		return nil, err
	}

	limit := c.Limit
	if limit <= 0 {
		limit = 10
	}
	seen := make(map[string]bool)
	var facts []Fact
	for _, entry := range entries {
		if entry.SerialNumber == "" || seen[entry.SerialNumber] {
			continue
		}
		seen[entry.SerialNumber] = true
		label := entry.CommonName
		if label == "" {
			label = "cert " + entry.SerialNumber
		}
		facts = append(facts, Fact{
			Type:  graph.EntityCertificate,
			Value: entry.SerialNumber,
			Label: label,
			Properties: map[string]string{
				"issuer":     entry.IssuerName,
				"not_before": entry.NotBefore,
				"not_after":  entry.NotAfter,
				"subject":    entry.CommonName,
			},
		})
		if len(facts) >= limit {
			break
		}
	}
	return facts, nil
}

// DefaultHackerTargetEndpoint serves passive-DNS host searches as CSV text.
const DefaultHackerTargetEndpoint = "https://api.hackertarget.com"

// HackerTargetHosts is the passive-DNS fallback for subdomain enumeration.
// Responses are "hostname,ip" lines.
type HackerTargetHosts struct {
	Endpoint string
	Client   *http.Client
	Limit    int
}

func (h *HackerTargetHosts) Name() string { return "hackertarget-hosts" }

func (h *HackerTargetHosts) Expand(ctx context.Context, value string) ([]Fact, error) {
	endpoint := h.Endpoint
	if endpoint == "" {
		endpoint = DefaultHackerTargetEndpoint
	}
	body, err := getText(ctx, h.Client, fmt.Sprintf("%s/hostsearch/?q=%s", endpoint, url.QueryEscape(value)))
	if err != nil {
		return nil, err
	}
	// The API reports quota and error conditions as plain text.
	if strings.HasPrefix(body, "error") || strings.Contains(body, "API count exceeded") {
		return nil, fmt.Errorf("hackertarget: %s", strings.TrimSpace(body))
	}

	limit := h.Limit
	if limit <= 0 {
		limit = 25
	}
	seen := make(map[string]bool)
	var facts []Fact
	for _, line := range strings.Split(body, "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ",", 2)
		name := strings.ToLower(parts[0])
		if name == "" || name == value || seen[name] {
			continue
		}
		seen[name] = true
		props := map[string]string{"source": "passive-dns"}
		if len(parts) == 2 && parts[1] != "" {
			props["ip"] = parts[1]
		}
		facts = append(facts, Fact{
			Type:       graph.EntityDomain,
			Value:      name,
			Label:      name,
			Properties: props,
		})
		if len(facts) >= limit {
			break
		}
	}
	return facts, nil
}
