package expand

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/osintdash/graphkit/pkg/graph"
)

// DefaultRDAPEndpoint is the rdap.org aggregator, which redirects to the
// authoritative registry for any domain or IP.
const DefaultRDAPEndpoint = "https://rdap.org"

// RDAP looks up registration data for domains and IPs. It produces
// organization, email and nameserver facts.
type RDAP struct {
	Endpoint string
	Client   *http.Client
}

func (r *RDAP) Name() string { return "rdap" }

type rdapResponse struct {
	Name        string `json:"name"`
	Handle      string `json:"handle"`
	LdhName     string `json:"ldhName"`
	Nameservers []struct {
		LdhName string `json:"ldhName"`
	} `json:"nameservers"`
	Entities []rdapEntity `json:"entities"`
	Events   []struct {
		EventAction string `json:"eventAction"`
		EventDate   string `json:"eventDate"`
	} `json:"events"`
}

type rdapEntity struct {
	Roles      []string     `json:"roles"`
	VcardArray []any        `json:"vcardArray"`
	Entities   []rdapEntity `json:"entities"`
}

func (r *RDAP) Expand(ctx context.Context, value string) ([]Fact, error) {
	endpoint := r.Endpoint
	if endpoint == "" {
		endpoint = DefaultRDAPEndpoint
	}
	kind := "domain"
	if net.ParseIP(value) != nil {
		kind = "ip"
	}

	var resp rdapResponse
	if err := getJSON(ctx, r.Client, fmt.Sprintf("%s/%s/%s", endpoint, kind, value), &resp); err != nil {
		return nil, err
	}

	registered := ""
	for _, event := range resp.Events {
		if event.EventAction == "registration" {
			registered = event.EventDate
		}
	}

	var facts []Fact
	for _, ns := range resp.Nameservers {
		name := strings.ToLower(ns.LdhName)
		if name == "" {
			continue
		}
		facts = append(facts, Fact{
			Type:       graph.EntityDomain,
			Value:      name,
			Label:      name,
			Properties: map[string]string{"role": "nameserver"},
		})
	}
	facts = append(facts, collectRDAPEntities(resp.Entities, registered)...)

	// An IP lookup with no entities still names the network.
	if len(facts) == 0 && resp.Name != "" {
		facts = append(facts, Fact{
			Type:       graph.EntityOrganization,
			Value:      resp.Name,
			Label:      resp.Name,
			Properties: map[string]string{"handle": resp.Handle},
		})
	}
	return facts, nil
}

// collectRDAPEntities walks the entity tree and extracts registrant and
// registrar contacts from their vCards.
func collectRDAPEntities(entities []rdapEntity, registered string) []Fact {
	var facts []Fact
	for _, entity := range entities {
		role := ""
		for _, r := range entity.Roles {
			if r == "registrant" || r == "registrar" || r == "administrative" {
				role = r
				break
			}
		}
		if role != "" {
			name, email := parseVcard(entity.VcardArray)
			if name != "" {
				props := map[string]string{"role": role}
				if registered != "" {
					props["registered"] = registered
				}
				facts = append(facts, Fact{
					Type:       graph.EntityOrganization,
					Value:      name,
					Label:      name,
					Properties: props,
				})
			}
			if email != "" {
				facts = append(facts, Fact{
					Type:       graph.EntityEmail,
					Value:      strings.ToLower(email),
					Label:      strings.ToLower(email),
					Properties: map[string]string{"role": role},
				})
			}
		}
		facts = append(facts, collectRDAPEntities(entity.Entities, registered)...)
	}
	return facts
}

// parseVcard pulls fn and email out of a jCard array
// (["vcard", [["fn", {}, "text", "Example Org"], ...]]).
func parseVcard(vcard []any) (name, email string) {
	if len(vcard) < 2 {
		return "", ""
	}
	props, ok := vcard[1].([]any)
	if !ok {
		return "", ""
	}
	for _, raw := range props {
		prop, ok := raw.([]any)
		if !ok || len(prop) < 4 {
			continue
		}
		key, _ := prop[0].(string)
		val, _ := prop[3].(string)
		switch key {
		case "fn":
			name = val
		case "email":
			email = val
		}
	}
	return name, email
}
