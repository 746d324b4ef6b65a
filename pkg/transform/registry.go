// Package transform holds the static catalog of entity expansions. The
// registry is pure data: which transforms exist, what entity types each one
// accepts, and how it is displayed. The executor in pkg/expand gives each
// entry its behavior.
package transform

import (
	"time"

	"github.com/osintdash/graphkit/pkg/graph"
)

// Descriptor describes one transform for menus and panels.
type Descriptor struct {
	ID             string
	Name           string
	Description    string
	Icon           string
	SupportedTypes map[graph.EntityType]bool

	// CacheTTL bounds how long a result for one (transform, value) pair is
	// reused. Short for volatile facts (live ports, DNS), long for slow-
	// moving ones (geolocation, certificates).
	CacheTTL time.Duration
}

// Supports reports whether the transform accepts a source of the given type.
func (d *Descriptor) Supports(t graph.EntityType) bool {
	return d.SupportedTypes[t]
}

// Transform identifiers.
const (
	DNSResolve     = "dns_resolve"
	ReverseDNS     = "reverse_dns"
	WhoisLookup    = "whois_lookup"
	SubdomainEnum  = "subdomain_enum"
	SSLCertInfo    = "ssl_cert_info"
	GeoIPLocate    = "geoip_locate"
	PortScan       = "port_scan"
	BreachCheck    = "breach_check"
	PasteSearch    = "paste_search"
	ThreatIntel    = "threat_intel"
	SocialProfiles = "social_profiles"
	DarkwebSearch  = "darkweb_search"
	TelegramSearch = "telegram_search"
)

func types(ts ...graph.EntityType) map[graph.EntityType]bool {
	m := make(map[graph.EntityType]bool, len(ts))
	for _, t := range ts {
		m[t] = true
	}
	return m
}

// catalog is the immutable transform table, in display order.
var catalog = []*Descriptor{
	{
		ID: DNSResolve, Name: "DNS Resolve", Icon: "🌐",
		Description:    "Resolve a domain to its A/AAAA records",
		SupportedTypes: types(graph.EntityDomain),
		CacheTTL:       60 * time.Second,
	},
	{
		ID: ReverseDNS, Name: "Reverse DNS", Icon: "🔁",
		Description:    "Find hostnames pointing at an IP",
		SupportedTypes: types(graph.EntityIP),
		CacheTTL:       60 * time.Second,
	},
	{
		ID: WhoisLookup, Name: "WHOIS Lookup", Icon: "📋",
		Description:    "Registration data via RDAP",
		SupportedTypes: types(graph.EntityDomain, graph.EntityIP),
		CacheTTL:       30 * time.Minute,
	},
	{
		ID: SubdomainEnum, Name: "Subdomain Enumeration", Icon: "🌿",
		Description:    "Subdomains from certificate-transparency logs",
		SupportedTypes: types(graph.EntityDomain),
		CacheTTL:       15 * time.Minute,
	},
	{
		ID: SSLCertInfo, Name: "SSL Certificates", Icon: "🔒",
		Description:    "Certificates issued for a domain",
		SupportedTypes: types(graph.EntityDomain),
		CacheTTL:       time.Hour,
	},
	{
		ID: GeoIPLocate, Name: "GeoIP Lookup", Icon: "📍",
		Description:    "Geographic location and network owner of an IP",
		SupportedTypes: types(graph.EntityIP),
		CacheTTL:       time.Hour,
	},
	{
		ID: PortScan, Name: "Open Ports", Icon: "🚪",
		Description:    "Known open ports and exposed services",
		SupportedTypes: types(graph.EntityIP),
		CacheTTL:       30 * time.Second,
	},
	{
		ID: BreachCheck, Name: "Breach Check", Icon: "🛑",
		Description:    "Known data breaches exposing this identity",
		SupportedTypes: types(graph.EntityEmail, graph.EntityDomain),
		CacheTTL:       30 * time.Minute,
	},
	{
		ID: PasteSearch, Name: "Paste Search", Icon: "📄",
		Description:    "Public paste sites mentioning this identity",
		SupportedTypes: types(graph.EntityEmail),
		CacheTTL:       10 * time.Minute,
	},
	{
		ID: ThreatIntel, Name: "Threat Intel", Icon: "☣",
		Description:    "IOC and threat-feed matches",
		SupportedTypes: types(graph.EntityIP, graph.EntityDomain, graph.EntityHash, graph.EntityURL),
		CacheTTL:       15 * time.Minute,
	},
	{
		ID: SocialProfiles, Name: "Social Profiles", Icon: "👥",
		Description:    "Profiles on social platforms for this identity",
		SupportedTypes: types(graph.EntityEmail, graph.EntityPerson),
		CacheTTL:       30 * time.Minute,
	},
	{
		ID: DarkwebSearch, Name: "Dark Web Search", Icon: "🕸",
		Description:    "Leak-index hits on dark-web sources",
		SupportedTypes: types(graph.EntityEmail, graph.EntityDomain),
		CacheTTL:       30 * time.Minute,
	},
	{
		ID: TelegramSearch, Name: "Telegram Leaks", Icon: "✈",
		Description:    "Leak channels mentioning this identity",
		SupportedTypes: types(graph.EntityEmail, graph.EntityPhone, graph.EntityDomain),
		CacheTTL:       30 * time.Minute,
	},
}

var byID = func() map[string]*Descriptor {
	m := make(map[string]*Descriptor, len(catalog))
	for _, d := range catalog {
		m[d.ID] = d
	}
	return m
}()

// Get returns the descriptor for a transform id, or nil if unknown.
func Get(id string) *Descriptor {
	return byID[id]
}

// All returns every descriptor in display order.
func All() []*Descriptor {
	out := make([]*Descriptor, len(catalog))
	copy(out, catalog)
	return out
}

// TransformsFor returns the transforms applicable to an entity type, in
// display order. This drives context menus and property-panel actions.
func TransformsFor(t graph.EntityType) []*Descriptor {
	var out []*Descriptor
	for _, d := range catalog {
		if d.Supports(t) {
			out = append(out, d)
		}
	}
	return out
}
