package expand

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	nmap "github.com/Ullaakut/nmap/v3"

	"github.com/osintdash/graphkit/pkg/graph"
)

// DefaultInternetDBEndpoint is Shodan's free passive port database.
const DefaultInternetDBEndpoint = "https://internetdb.shodan.io"

// InternetDB reports known open ports, hostnames and CVEs for an IP without
// touching the target itself.
type InternetDB struct {
	Endpoint string
	Client   *http.Client
}

func (p *InternetDB) Name() string { return "internetdb" }

type internetDBResponse struct {
	IP        string   `json:"ip"`
	Ports     []int    `json:"ports"`
	Hostnames []string `json:"hostnames"`
	Vulns     []string `json:"vulns"`
	Tags      []string `json:"tags"`
}

func (p *InternetDB) Expand(ctx context.Context, value string) ([]Fact, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = DefaultInternetDBEndpoint
	}
	var resp internetDBResponse
	if err := getJSON(ctx, p.Client, fmt.Sprintf("%s/%s", endpoint, value), &resp); err != nil {
		return nil, err
	}

	var facts []Fact
	for _, port := range resp.Ports {
		facts = append(facts, portFact(value, port, "", "internetdb"))
	}
	for _, hostname := range resp.Hostnames {
		facts = append(facts, Fact{
			Type:       graph.EntityDomain,
			Value:      hostname,
			Label:      hostname,
			Properties: map[string]string{"relation": "hostname", "ip": value},
		})
	}
	for _, cve := range resp.Vulns {
		facts = append(facts, Fact{
			Type:       graph.EntityVulnerability,
			Value:      cve,
			Label:      cve,
			Properties: map[string]string{"ip": value},
			Risk:       &graph.RiskMetadata{Level: graph.RiskHigh, Confidence: 0.7, Source: "internetdb"},
		})
	}
	return facts, nil
}

// NmapProbe actively scans a short list of common ports when the passive
// database has nothing. It fails cleanly when the nmap binary is absent,
// and the fallback chain absorbs that like any other provider failure.
type NmapProbe struct {
	Ports string
}

func (p *NmapProbe) Name() string { return "nmap-probe" }

func (p *NmapProbe) Expand(ctx context.Context, value string) ([]Fact, error) {
	ports := p.Ports
	if ports == "" {
		ports = "21,22,25,53,80,110,143,443,445,3306,3389,5432,8080,8443"
	}

	scanner, err := nmap.NewScanner(
		ctx,
		nmap.WithTargets(value),
		nmap.WithPorts(ports),
		nmap.WithSkipHostDiscovery(),
	)
	if err != nil {
		return nil, fmt.Errorf("create scanner: %w", err)
	}

	result, _, err := scanner.Run()
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", value, err)
	}

	var facts []Fact
	for _, host := range result.Hosts {
		for _, port := range host.Ports {
			if port.State.State != "open" {
				continue
			}
			facts = append(facts, portFact(value, int(port.ID), port.Service.Name, "nmap"))
		}
	}
	return facts, nil
}

// portFact shapes one open port as a url entity on the graph.
func portFact(ip string, port int, service, source string) Fact {
	label := fmt.Sprintf("Port %d", port)
	if service != "" {
		label = fmt.Sprintf("Port %d (%s)", port, service)
	}
	props := map[string]string{
		"port":   strconv.Itoa(port),
		"ip":     ip,
		"source": source,
	}
	if service != "" {
		props["service"] = service
	}
	return Fact{
		Type:       graph.EntityURL,
		Value:      fmt.Sprintf("%s:%d", ip, port),
		Label:      label,
		Properties: props,
	}
}
