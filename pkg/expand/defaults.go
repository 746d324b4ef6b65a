package expand

import (
	"time"

	"github.com/osintdash/graphkit/pkg/logging"
	"github.com/osintdash/graphkit/pkg/transform"
)

// Settings selects endpoints for the default provider set. Zero values fall
// back to the public free endpoints baked into each adapter.
type Settings struct {
	Timeout time.Duration

	DoHEndpoint          string
	RDAPEndpoint         string
	CrtShEndpoint        string
	HackerTargetEndpoint string
	IPAPIEndpoint        string
	IPWhoisEndpoint      string
	InternetDBEndpoint   string
	XposedOrNotEndpoint  string
	PsbdmpEndpoint       string
	ThreatFoxEndpoint    string
	URLhausEndpoint      string

	// Leak-index services have no public default; the transforms stay
	// registered and report empty results until an endpoint is configured.
	DarkwebEndpoint  string
	TelegramEndpoint string

	// EnableNmap adds a local active probe as the port-scan fallback.
	EnableNmap bool
}

// RegisterDefaults wires the standard provider adapters, fallback chains and
// concurrent sets into the executor.
func RegisterDefaults(e *Executor, s Settings, logger logging.Logger, observer Observer) {
	if logger == nil {
		logger = logging.Nop{}
	}
	client := httpClient(s.Timeout)

	chain := func(name string, providers ...Provider) Provider {
		return &FallbackChain{
			ChainName: name,
			Providers: providers,
			Logger:    logger.With(logging.String("chain", name)),
			Observer:  observer,
		}
	}

	e.Register(transform.DNSResolve, chain("dns",
		&SystemDNS{},
		&DoHDNS{Endpoint: s.DoHEndpoint, Client: client},
	))
	e.Register(transform.ReverseDNS, chain("reverse-dns",
		&ReverseSystemDNS{},
	))
	e.Register(transform.WhoisLookup, chain("whois",
		&RDAP{Endpoint: s.RDAPEndpoint, Client: client},
	))
	e.Register(transform.SubdomainEnum, chain("subdomains",
		&CTSubdomains{Endpoint: s.CrtShEndpoint, Client: client},
		&HackerTargetHosts{Endpoint: s.HackerTargetEndpoint, Client: client},
	))
	e.Register(transform.SSLCertInfo, chain("certificates",
		&CTCertificates{Endpoint: s.CrtShEndpoint, Client: client},
	))
	e.Register(transform.GeoIPLocate, chain("geoip",
		&IPAPI{Endpoint: s.IPAPIEndpoint, Client: client},
		&IPWhois{Endpoint: s.IPWhoisEndpoint, Client: client},
	))

	portProviders := []Provider{&InternetDB{Endpoint: s.InternetDBEndpoint, Client: client}}
	if s.EnableNmap {
		portProviders = append(portProviders, &NmapProbe{})
	}
	e.Register(transform.PortScan, chain("ports", portProviders...))

	xon := &XposedOrNot{Endpoint: s.XposedOrNotEndpoint, Client: client}
	e.Register(transform.BreachCheck, chain("breaches",
		xon,
		&DerivedEmailBreach{Inner: xon},
	))
	e.Register(transform.PasteSearch, chain("pastes",
		&Psbdmp{Endpoint: s.PsbdmpEndpoint, Client: client},
	))
	e.Register(transform.ThreatIntel, chain("threat-intel",
		&ThreatFox{Endpoint: s.ThreatFoxEndpoint, Client: client},
		&URLhaus{Endpoint: s.URLhausEndpoint, Client: client},
	))

	e.Register(transform.SocialProfiles, &ConcurrentSet{
		SetName:   "social",
		Providers: SocialPlatforms(client),
		Logger:    logger.With(logging.String("chain", "social")),
		Observer:  observer,
	})

	e.Register(transform.DarkwebSearch, chain("darkweb",
		&LeakIndex{ProviderName: "darkweb-index", Endpoint: s.DarkwebEndpoint, Source: "darkweb", Client: client},
	))
	e.Register(transform.TelegramSearch, chain("telegram",
		&LeakIndex{ProviderName: "telegram-index", Endpoint: s.TelegramEndpoint, Source: "telegram", Client: client},
	))
}
