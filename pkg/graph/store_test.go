package graph

import (
	"errors"
	"testing"
)

func TestStore_AddNode(t *testing.T) {
	s := NewStore()

	node := NewNode(EntityDomain, "example.com", "")
	if err := s.AddNode(node); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}

	got, err := s.Node(node.ID)
	if err != nil {
		t.Fatalf("Node lookup failed: %v", err)
	}
	if got.Value != "example.com" {
		t.Errorf("expected value example.com, got %q", got.Value)
	}
	if got.Label != "example.com" {
		t.Errorf("expected label to default to value, got %q", got.Label)
	}

	// Returned node is a copy, not the stored one.
	got.Properties["x"] = "y"
	again, _ := s.Node(node.ID)
	if _, leaked := again.Properties["x"]; leaked {
		t.Error("mutating a returned node leaked into the store")
	}
}

func TestStore_AddNode_DuplicateID(t *testing.T) {
	s := NewStore()
	node := NewNode(EntityIP, "10.0.0.1", "")
	if err := s.AddNode(node); err != nil {
		t.Fatalf("AddNode failed: %v", err)
	}
	if err := s.AddNode(node); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestStore_AddNode_InvalidType(t *testing.T) {
	s := NewStore()
	node := NewNode(EntityType("selfie"), "x", "")
	if err := s.AddNode(node); !errors.Is(err, ErrInvalidEntity) {
		t.Errorf("expected ErrInvalidEntity, got %v", err)
	}
}

func TestStore_AddEdge_EndpointMissing(t *testing.T) {
	s := NewStore()
	src := NewNode(EntityDomain, "example.com", "")
	if err := s.AddNode(src); err != nil {
		t.Fatal(err)
	}

	edge := &Edge{ID: "e1", SourceID: src.ID, TargetID: "nope", Label: "x"}
	if err := s.AddEdge(edge); !errors.Is(err, ErrEndpointMissing) {
		t.Errorf("expected ErrEndpointMissing, got %v", err)
	}

	if _, edges := s.Counts(); edges != 0 {
		t.Errorf("failed AddEdge mutated the store: %d edges", edges)
	}
}

func TestStore_RemoveNode_Cascades(t *testing.T) {
	s := NewStore()
	a := NewNode(EntityDomain, "a.com", "")
	b := NewNode(EntityIP, "1.1.1.1", "")
	c := NewNode(EntityIP, "2.2.2.2", "")
	for _, n := range []*Node{a, b, c} {
		if err := s.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	edges := []*Edge{
		{ID: "ab", SourceID: a.ID, TargetID: b.ID, Label: "resolves"},
		{ID: "ac", SourceID: a.ID, TargetID: c.ID, Label: "resolves"},
		{ID: "bc", SourceID: b.ID, TargetID: c.ID, Label: "peer"},
	}
	for _, e := range edges {
		if err := s.AddEdge(e); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.RemoveNode(b.ID); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}

	// Exactly the edges touching b are gone; ac survives.
	remaining := s.Edges()
	if len(remaining) != 1 {
		t.Fatalf("expected 1 edge after cascade, got %d", len(remaining))
	}
	if remaining[0].ID != "ac" {
		t.Errorf("wrong edge survived cascade: %s", remaining[0].ID)
	}

	for _, e := range remaining {
		if _, err := s.Node(e.SourceID); err != nil {
			t.Errorf("dangling edge source %s", e.SourceID)
		}
		if _, err := s.Node(e.TargetID); err != nil {
			t.Errorf("dangling edge target %s", e.TargetID)
		}
	}
}

func TestStore_RemoveNode_NotFound(t *testing.T) {
	s := NewStore()
	if err := s.RemoveNode("ghost"); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("expected ErrNodeNotFound, got %v", err)
	}
}

func TestStore_UpdateNodePosition(t *testing.T) {
	s := NewStore()
	node := NewNode(EntityEmail, "a@b.com", "")
	if err := s.AddNode(node); err != nil {
		t.Fatal(err)
	}

	if err := s.UpdateNodePosition(node.ID, Position{X: 120, Y: -40}); err != nil {
		t.Fatalf("UpdateNodePosition failed: %v", err)
	}
	got, _ := s.Node(node.ID)
	if got.Position.X != 120 || got.Position.Y != -40 {
		t.Errorf("position not updated: %+v", got.Position)
	}
	if got.ID != node.ID {
		t.Error("moving a node must not change its identity")
	}
}

func TestStore_Apply_Atomic(t *testing.T) {
	s := NewStore()
	src := NewNode(EntityDomain, "example.com", "")
	if err := s.AddNode(src); err != nil {
		t.Fatal(err)
	}

	good := NewNode(EntityIP, "9.9.9.9", "")
	batchEdges := []*Edge{
		{ID: "e1", SourceID: src.ID, TargetID: good.ID, Label: "resolves"},
		{ID: "e2", SourceID: src.ID, TargetID: "missing", Label: "resolves"},
	}

	err := s.Apply([]*Node{good}, batchEdges)
	if !errors.Is(err, ErrEndpointMissing) {
		t.Fatalf("expected ErrEndpointMissing, got %v", err)
	}

	// Nothing from the failed batch was admitted.
	nodes, edges := s.Counts()
	if nodes != 1 || edges != 0 {
		t.Errorf("failed Apply leaked state: %d nodes, %d edges", nodes, edges)
	}
}

func TestStore_Apply_EdgeToBatchNode(t *testing.T) {
	s := NewStore()
	src := NewNode(EntityDomain, "example.com", "")
	if err := s.AddNode(src); err != nil {
		t.Fatal(err)
	}

	ip := NewNode(EntityIP, "9.9.9.9", "")
	edge := &Edge{ID: "e1", SourceID: src.ID, TargetID: ip.ID, Label: "resolves"}
	if err := s.Apply([]*Node{ip}, []*Edge{edge}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	nodes, edges := s.Counts()
	if nodes != 2 || edges != 1 {
		t.Errorf("expected 2 nodes / 1 edge, got %d / %d", nodes, edges)
	}
}

func TestStore_Nodes_InsertionOrder(t *testing.T) {
	s := NewStore()
	values := []string{"one.com", "two.com", "three.com"}
	for _, v := range values {
		if err := s.AddNode(NewNode(EntityDomain, v, "")); err != nil {
			t.Fatal(err)
		}
	}
	nodes := s.Nodes()
	for i, v := range values {
		if nodes[i].Value != v {
			t.Errorf("order broken at %d: want %s got %s", i, v, nodes[i].Value)
		}
	}
}

func TestStore_CountsByType(t *testing.T) {
	s := NewStore()
	s.AddNode(NewNode(EntityDomain, "a.com", ""))
	s.AddNode(NewNode(EntityDomain, "b.com", ""))
	s.AddNode(NewNode(EntityIP, "1.1.1.1", ""))

	counts := s.CountsByType()
	if counts[EntityDomain] != 2 || counts[EntityIP] != 1 {
		t.Errorf("unexpected counts: %v", counts)
	}
}
