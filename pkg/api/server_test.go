package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osintdash/graphkit/pkg/cache"
	"github.com/osintdash/graphkit/pkg/expand"
	"github.com/osintdash/graphkit/pkg/graph"
	"github.com/osintdash/graphkit/pkg/metrics"
	"github.com/osintdash/graphkit/pkg/pubsub"
	"github.com/osintdash/graphkit/pkg/transform"
)

type fixture struct {
	server  *Server
	handler http.Handler
	store   *graph.Store
	events  *pubsub.Bus
}

func newFixture(t *testing.T, providers map[string]expand.Provider) *fixture {
	t.Helper()

	events := pubsub.NewBus()
	t.Cleanup(events.Shutdown)

	store := graph.NewStore()
	store.SetEventBus(events)
	executor := expand.NewExecutor(expand.Options{Cache: cache.New(), Events: events})
	for id, provider := range providers {
		executor.Register(id, provider)
	}

	server, err := NewServer(Options{
		Store:    store,
		Executor: executor,
		Cache:    cache.New(),
		Registry: metrics.NewRegistry(),
		Events:   events,
	})
	require.NoError(t, err)

	return &fixture{server: server, handler: server.Handler(), store: store, events: events}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeInto[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	health := decodeInto[HealthResponse](t, rec)
	assert.Equal(t, "healthy", health.Status)
	assert.False(t, health.Busy)
}

func TestNodeLifecycle(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, "POST", "/nodes", NodeRequest{Type: "domain", Value: "example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeInto[NodeResponse](t, rec)
	assert.Equal(t, "example.com", created.Label)
	assert.NotEmpty(t, created.ID)

	rec = f.do(t, "GET", "/nodes/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, "PUT", "/nodes/"+created.ID+"/position", PositionRequest{X: 42, Y: -7})
	require.Equal(t, http.StatusOK, rec.Code)
	moved := decodeInto[NodeResponse](t, rec)
	assert.Equal(t, 42.0, moved.X)
	assert.Equal(t, -7.0, moved.Y)

	rec = f.do(t, "PUT", "/nodes/"+created.ID+"/properties", map[string]string{"notes": "registrar pivot"})
	require.Equal(t, http.StatusOK, rec.Code)
	annotated := decodeInto[NodeResponse](t, rec)
	assert.Equal(t, "registrar pivot", annotated.Properties["notes"])

	rec = f.do(t, "GET", "/nodes?type=domain", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	nodes := decodeInto[[]*NodeResponse](t, rec)
	require.Len(t, nodes, 1)

	rec = f.do(t, "DELETE", "/nodes/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, "GET", "/nodes/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateNodeValidation(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, "POST", "/nodes", NodeRequest{Type: "domain"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, "POST", "/nodes", NodeRequest{Type: "planet", Value: "mars"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListTransformsFiltered(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, "GET", "/transforms?type=email", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	transforms := decodeInto[[]*TransformResponse](t, rec)
	require.NotEmpty(t, transforms)
	for _, tr := range transforms {
		assert.Contains(t, tr.Types, "email")
	}
}

func TestExpand(t *testing.T) {
	f := newFixture(t, map[string]expand.Provider{
		transform.DNSResolve: expand.ProviderFunc{
			ProviderName: "static",
			Fn: func(ctx context.Context, value string) ([]expand.Fact, error) {
				return []expand.Fact{{Type: graph.EntityIP, Value: "203.0.113.9", Label: "203.0.113.9"}}, nil
			},
		},
	})

	source := graph.NewNode(graph.EntityDomain, "example.com", "example.com")
	require.NoError(t, f.store.AddNode(source))

	rec := f.do(t, "POST", "/expand", ExpandRequest{NodeID: source.ID, TransformID: transform.DNSResolve})
	require.Equal(t, http.StatusOK, rec.Code)

	result := decodeInto[ExpandResponse](t, rec)
	require.Len(t, result.Nodes, 1)
	require.Len(t, result.Edges, 1)
	assert.Equal(t, "203.0.113.9", result.Nodes[0].Value)
	assert.Equal(t, source.ID, result.Edges[0].SourceID)

	nodes, edges := f.store.Counts()
	assert.Equal(t, 2, nodes)
	assert.Equal(t, 1, edges)
}

func TestExpandErrors(t *testing.T) {
	f := newFixture(t, map[string]expand.Provider{
		transform.DNSResolve: expand.ProviderFunc{
			ProviderName: "dry",
			Fn: func(ctx context.Context, value string) ([]expand.Fact, error) {
				return nil, nil
			},
		},
	})

	source := graph.NewNode(graph.EntityDomain, "example.com", "example.com")
	require.NoError(t, f.store.AddNode(source))

	rec := f.do(t, "POST", "/expand", ExpandRequest{NodeID: "missing", TransformID: transform.DNSResolve})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, "POST", "/expand", ExpandRequest{NodeID: source.ID, TransformID: "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A provider that yields nothing is a failed expansion, not a silent
	// success.
	rec = f.do(t, "POST", "/expand", ExpandRequest{NodeID: source.ID, TransformID: transform.DNSResolve})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	nodes, _ := f.store.Counts()
	assert.Equal(t, 1, nodes)
}

func TestGraphExportImportRoundTrip(t *testing.T) {
	f := newFixture(t, nil)

	a := graph.NewNode(graph.EntityDomain, "example.com", "example.com")
	b := graph.NewNode(graph.EntityIP, "93.184.216.34", "93.184.216.34")
	require.NoError(t, f.store.AddNode(a))
	require.NoError(t, f.store.AddNode(b))
	require.NoError(t, f.store.AddEdge(&graph.Edge{ID: "e1", SourceID: a.ID, TargetID: b.ID, Label: "DNS Resolve"}))

	rec := f.do(t, "GET", "/graph/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "osint-graph-")
	exported := rec.Body.Bytes()

	// Import into a fresh server.
	g := newFixture(t, nil)
	req := httptest.NewRequest("POST", "/graph/import", bytes.NewReader(exported))
	importRec := httptest.NewRecorder()
	g.handler.ServeHTTP(importRec, req)
	require.Equal(t, http.StatusOK, importRec.Code)

	stats := decodeInto[StatsResponse](t, importRec)
	assert.Equal(t, 2, stats.Nodes)
	assert.Equal(t, 1, stats.Edges)
}

func TestGraphImportRejectsMalformed(t *testing.T) {
	f := newFixture(t, nil)

	req := httptest.NewRequest("POST", "/graph/import", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGraphStats(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.store.AddNode(graph.NewNode(graph.EntityDomain, "example.com", "example.com")))

	rec := f.do(t, "GET", "/graph/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decodeInto[StatsResponse](t, rec)
	assert.Equal(t, 1, stats.Nodes)
	assert.Equal(t, 1, stats.NodesByType["domain"])
}

func TestGraphQLEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, "POST", "/graphql", map[string]string{"query": "{ health }"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"health":"ok"`)
}

func TestMethodNotAllowed(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, "DELETE", "/graph", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture(t, nil)

	f.do(t, "GET", "/health", nil)
	rec := f.do(t, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graphkit_http_requests_total")
}

func TestEventStreamDeliversMutations(t *testing.T) {
	f := newFixture(t, nil)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	// The handler subscribes before writing headers, so by now the bus has
	// a live consumer for graph mutations.
	require.Equal(t, 1, f.events.SubscriberCount(pubsub.TopicGraph))
	require.Equal(t, 1, f.events.SubscriberCount(pubsub.TopicTransform))

	rec := f.do(t, "POST", "/nodes", NodeRequest{Type: "domain", Value: "example.com"})
	require.Equal(t, http.StatusCreated, rec.Code)

	scanner := bufio.NewScanner(resp.Body)
	var event, data string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event: ") {
			event = strings.TrimPrefix(line, "event: ")
		}
		if strings.HasPrefix(line, "data: ") {
			data = strings.TrimPrefix(line, "data: ")
			break
		}
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, pubsub.TopicGraph, event)
	assert.Contains(t, data, "addNode")
}

func TestEventStreamRejectsPost(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, "POST", "/events", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
