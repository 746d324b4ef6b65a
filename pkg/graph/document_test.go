package graph

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestGraph(t *testing.T) *Store {
	t.Helper()
	s := NewStore()

	a := NewNode(EntityDomain, "example.com", "")
	b := NewNode(EntityIP, "93.184.216.34", "")
	c := NewNode(EntityEmail, "admin@example.com", "")
	for _, n := range []*Node{a, b, c} {
		require.NoError(t, s.AddNode(n))
	}
	require.NoError(t, s.AddEdge(&Edge{ID: "e1", SourceID: a.ID, TargetID: b.ID, Label: "DNS Resolve", TransformID: "dns_resolve"}))
	require.NoError(t, s.AddEdge(&Edge{ID: "e2", SourceID: a.ID, TargetID: c.ID, Label: "WHOIS Lookup", TransformID: "whois_lookup"}))
	return s
}

func TestRoundTrip(t *testing.T) {
	s := buildTestGraph(t)

	data, err := MarshalDocument(s.Serialize())
	require.NoError(t, err)

	doc, err := ParseDocument(data)
	require.NoError(t, err)

	restored := NewStore()
	require.NoError(t, restored.ReplaceAll(doc))

	nodes, edges := restored.Counts()
	assert.Equal(t, 3, nodes)
	assert.Equal(t, 2, edges)

	original := s.Nodes()
	imported := restored.Nodes()
	for i := range original {
		assert.Equal(t, original[i].ID, imported[i].ID)
		assert.Equal(t, original[i].Value, imported[i].Value)
		assert.Equal(t, original[i].Type, imported[i].Type)
		assert.Equal(t, original[i].Position, imported[i].Position)
	}
}

func TestParseDocument_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":      "{nodes: oops",
		"wrong shape":   `{"nodes": 42}`,
		"missing nodes": `{"edges": []}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDocument([]byte(payload))
			assert.ErrorIs(t, err, ErrInvalidImport)
		})
	}
}

func TestReplaceAll_RejectsDanglingEdges(t *testing.T) {
	s := buildTestGraph(t)
	before, _ := s.Counts()

	bad := &Document{
		Nodes: []*Node{{ID: "n1", Type: EntityDomain, Value: "x.com"}},
		Edges: []*Edge{{ID: "e1", SourceID: "n1", TargetID: "ghost"}},
	}
	err := s.ReplaceAll(bad)
	require.ErrorIs(t, err, ErrInvalidImport)

	// Failed import leaves the current graph untouched.
	after, _ := s.Counts()
	assert.Equal(t, before, after)
}

func TestReplaceAll_RejectsDuplicateIDs(t *testing.T) {
	s := NewStore()
	bad := &Document{
		Nodes: []*Node{
			{ID: "n1", Type: EntityDomain, Value: "x.com"},
			{ID: "n1", Type: EntityIP, Value: "1.1.1.1"},
		},
	}
	assert.ErrorIs(t, s.ReplaceAll(bad), ErrInvalidImport)
}

func TestReplaceAll_RejectsUnknownType(t *testing.T) {
	s := NewStore()
	bad := &Document{Nodes: []*Node{{ID: "n1", Type: "carrier_pigeon", Value: "coo"}}}
	err := s.ReplaceAll(bad)
	require.ErrorIs(t, err, ErrInvalidImport)
	assert.True(t, errors.Is(err, ErrInvalidImport))
}

func TestExportFilename(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	name := ExportFilename(now)
	assert.Equal(t, "osint-graph-1700000000000.json", name)
	assert.True(t, strings.HasSuffix(name, ".json"))
}
