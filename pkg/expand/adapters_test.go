package expand

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osintdash/graphkit/pkg/graph"
)

func TestDoHDNS_Parse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("type") {
		case "A":
			w.Write([]byte(`{"Status":0,"Answer":[
				{"type":5,"data":"alias.example.net."},
				{"type":1,"data":"93.184.216.34"}]}`))
		default:
			w.Write([]byte(`{"Status":0}`))
		}
	}))
	defer srv.Close()

	p := &DoHDNS{Endpoint: srv.URL, Client: srv.Client()}
	facts, err := p.Expand(context.Background(), "example.com")
	require.NoError(t, err)

	// CNAME answers are skipped; only the A record becomes a fact.
	require.Len(t, facts, 1)
	assert.Equal(t, graph.EntityIP, facts[0].Type)
	assert.Equal(t, "93.184.216.34", facts[0].Value)
	assert.Equal(t, "A", facts[0].Properties["record"])
}

func TestRDAP_ParseDomain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/domain/example.com", r.URL.Path)
		w.Write([]byte(`{
			"ldhName": "EXAMPLE.COM",
			"nameservers": [{"ldhName": "A.IANA-SERVERS.NET"}, {"ldhName": "B.IANA-SERVERS.NET"}],
			"events": [{"eventAction": "registration", "eventDate": "1995-08-14T04:00:00Z"}],
			"entities": [{
				"roles": ["registrant"],
				"vcardArray": ["vcard", [
					["version", {}, "text", "4.0"],
					["fn", {}, "text", "Internet Corp"],
					["email", {}, "text", "HOSTMASTER@example.com"]
				]]
			}]
		}`))
	}))
	defer srv.Close()

	p := &RDAP{Endpoint: srv.URL, Client: srv.Client()}
	facts, err := p.Expand(context.Background(), "example.com")
	require.NoError(t, err)

	byType := make(map[graph.EntityType][]Fact)
	for _, f := range facts {
		byType[f.Type] = append(byType[f.Type], f)
	}
	assert.Len(t, byType[graph.EntityDomain], 2, "nameservers")
	require.Len(t, byType[graph.EntityOrganization], 1)
	assert.Equal(t, "Internet Corp", byType[graph.EntityOrganization][0].Value)
	assert.Equal(t, "1995-08-14T04:00:00Z", byType[graph.EntityOrganization][0].Properties["registered"])
	require.Len(t, byType[graph.EntityEmail], 1)
	assert.Equal(t, "hostmaster@example.com", byType[graph.EntityEmail][0].Value)
}

func TestCTSubdomains_DedupesAndScopes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"common_name":"www.example.com","name_value":"www.example.com\n*.dev.example.com","serial_number":"01"},
			{"common_name":"www.example.com","name_value":"www.example.com","serial_number":"02"},
			{"common_name":"other.org","name_value":"unrelated.org","serial_number":"03"}
		]`))
	}))
	defer srv.Close()

	p := &CTSubdomains{Endpoint: srv.URL, Client: srv.Client()}
	facts, err := p.Expand(context.Background(), "example.com")
	require.NoError(t, err)

	values := make([]string, 0, len(facts))
	for _, f := range facts {
		values = append(values, f.Value)
	}
	assert.ElementsMatch(t, []string{"www.example.com", "dev.example.com"}, values)
}

func TestInternetDB_Parse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ip":"1.2.3.4","ports":[22,443],"hostnames":["host.example.com"],"vulns":["CVE-2024-1234"],"tags":[]}`))
	}))
	defer srv.Close()

	p := &InternetDB{Endpoint: srv.URL, Client: srv.Client()}
	facts, err := p.Expand(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	require.Len(t, facts, 4)

	assert.Equal(t, graph.EntityURL, facts[0].Type)
	assert.Equal(t, "1.2.3.4:22", facts[0].Value)

	last := facts[3]
	assert.Equal(t, graph.EntityVulnerability, last.Type)
	assert.Equal(t, "CVE-2024-1234", last.Value)
	require.NotNil(t, last.Risk)
	assert.Equal(t, graph.RiskHigh, last.Risk.Level)
}

func TestXposedOrNot_CleanEmailIsEmptyNotError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := &XposedOrNot{Endpoint: srv.URL, Client: srv.Client()}
	facts, err := p.Expand(context.Background(), "clean@example.com")
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestXposedOrNot_Breaches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"breaches":[["Adobe","LinkedIn","Dropbox","Canva","Last.fm"]]}`))
	}))
	defer srv.Close()

	p := &XposedOrNot{Endpoint: srv.URL, Client: srv.Client()}
	facts, err := p.Expand(context.Background(), "pwned@example.com")
	require.NoError(t, err)
	require.Len(t, facts, 5)
	assert.Equal(t, graph.EntityBreach, facts[0].Type)
	require.NotNil(t, facts[0].Risk)
	assert.Equal(t, graph.RiskHigh, facts[0].Risk.Level)
}

func TestThreatFox_NoResultIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query_status":"no_result"}`))
	}))
	defer srv.Close()

	p := &ThreatFox{Endpoint: srv.URL, Client: srv.Client()}
	facts, err := p.Expand(context.Background(), "benign.example")
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestPlatformProbe_UsernameDerivation(t *testing.T) {
	assert.Equal(t, "jdoe", usernameFrom("jdoe@example.com"))
	assert.Equal(t, "janedoe", usernameFrom("Jane Doe"))
	assert.Equal(t, "", usernameFrom("a"))
}

func TestPlatformProbe_MissingUserIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	p := &PlatformProbe{
		Platform:    "github",
		URLTemplate: srv.URL + "/users/%s",
		ProfileURL:  "https://github.com/%s",
		Client:      srv.Client(),
	}
	facts, err := p.Expand(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestLeakIndex_NoEndpointFailsCleanly(t *testing.T) {
	p := &LeakIndex{ProviderName: "darkweb-index"}
	_, err := p.Expand(context.Background(), "target@example.com")
	assert.Error(t, err)
}

func TestLeakIndex_Parse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "target@example.com", r.URL.Query().Get("q"))
		w.Write([]byte(`{"results":[
			{"title":"combo list","url":"http://leaks.onion/1","source":"forum","date":"2025-11-02"},
			{"title":"dup","url":"http://leaks.onion/1"}
		]}`))
	}))
	defer srv.Close()

	p := &LeakIndex{ProviderName: "darkweb-index", Endpoint: srv.URL, Source: "darkweb", Client: srv.Client()}
	facts, err := p.Expand(context.Background(), "target@example.com")
	require.NoError(t, err)
	require.Len(t, facts, 1)
	assert.Equal(t, graph.EntityPaste, facts[0].Type)
	assert.Equal(t, "combo list", facts[0].Label)
}
