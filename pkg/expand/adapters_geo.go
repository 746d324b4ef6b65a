package expand

import (
	"context"
	"fmt"
	"net/http"

	"github.com/osintdash/graphkit/pkg/graph"
)

// DefaultIPAPIEndpoint is the ip-api.com free JSON endpoint.
const DefaultIPAPIEndpoint = "http://ip-api.com/json"

// IPAPI locates an IP geographically and names its network owner.
type IPAPI struct {
	Endpoint string
	Client   *http.Client
}

func (p *IPAPI) Name() string { return "ip-api" }

type ipAPIResponse struct {
	Status   string  `json:"status"`
	Message  string  `json:"message"`
	Country  string  `json:"country"`
	RegionN  string  `json:"regionName"`
	City     string  `json:"city"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	ISP      string  `json:"isp"`
	Org      string  `json:"org"`
	AS       string  `json:"as"`
}

func (p *IPAPI) Expand(ctx context.Context, value string) ([]Fact, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = DefaultIPAPIEndpoint
	}
	var resp ipAPIResponse
	if err := getJSON(ctx, p.Client, fmt.Sprintf("%s/%s", endpoint, value), &resp); err != nil {
		return nil, err
	}
	if resp.Status != "success" {
		return nil, fmt.Errorf("ip-api: %s", resp.Message)
	}

	return geoFacts(value, resp.City, resp.RegionN, resp.Country, resp.Lat, resp.Lon, resp.Org, resp.ISP, resp.AS), nil
}

// DefaultIPWhoisEndpoint is the ipwho.is fallback.
const DefaultIPWhoisEndpoint = "https://ipwho.is"

// IPWhois is the secondary geolocation source.
type IPWhois struct {
	Endpoint string
	Client   *http.Client
}

func (p *IPWhois) Name() string { return "ipwhois" }

type ipWhoisResponse struct {
	Success    bool    `json:"success"`
	Country    string  `json:"country"`
	Region     string  `json:"region"`
	City       string  `json:"city"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Connection struct {
		ISP string `json:"isp"`
		Org string `json:"org"`
		ASN int    `json:"asn"`
	} `json:"connection"`
}

func (p *IPWhois) Expand(ctx context.Context, value string) ([]Fact, error) {
	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = DefaultIPWhoisEndpoint
	}
	var resp ipWhoisResponse
	if err := getJSON(ctx, p.Client, fmt.Sprintf("%s/%s", endpoint, value), &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("ipwhois: lookup failed for %s", value)
	}

	asn := ""
	if resp.Connection.ASN != 0 {
		asn = fmt.Sprintf("AS%d", resp.Connection.ASN)
	}
	return geoFacts(value, resp.City, resp.Region, resp.Country,
		resp.Latitude, resp.Longitude, resp.Connection.Org, resp.Connection.ISP, asn), nil
}

// geoFacts reduces either geolocation payload to the shared fact set: one
// geolocation node, plus organization and ASN nodes when named.
func geoFacts(ip, city, region, country string, lat, lon float64, org, isp, asn string) []Fact {
	var facts []Fact

	place := city
	if place == "" {
		place = region
	}
	if country != "" {
		if place != "" {
			place += ", "
		}
		place += country
	}
	if place != "" {
		facts = append(facts, Fact{
			Type:  graph.EntityGeolocation,
			Value: fmt.Sprintf("%.4f,%.4f", lat, lon),
			Label: place,
			Properties: map[string]string{
				"city":    city,
				"region":  region,
				"country": country,
				"ip":      ip,
			},
		})
	}

	owner := org
	if owner == "" {
		owner = isp
	}
	if owner != "" {
		facts = append(facts, Fact{
			Type:       graph.EntityOrganization,
			Value:      owner,
			Label:      owner,
			Properties: map[string]string{"relation": "network-owner", "ip": ip},
		})
	}

	if asn != "" {
		facts = append(facts, Fact{
			Type:       graph.EntityASN,
			Value:      asn,
			Label:      asn,
			Properties: map[string]string{"ip": ip},
		})
	}
	return facts
}
