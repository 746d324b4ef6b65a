package graph

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/osintdash/graphkit/pkg/pubsub"
)

// Store is the canonical in-memory holder of the node and edge sets. Every
// public method is a single atomic state transition under one lock, so no
// caller can ever observe a graph that violates the referential-integrity
// invariants (unique ids, no dangling edges).
type Store struct {
	mu sync.RWMutex

	nodes map[string]*Node
	edges map[string]*Edge

	// Insertion order, preserved for deterministic serialization and for
	// topmost-wins hit testing (the renderer draws in this order, so the
	// most recently added node is drawn last).
	nodeOrder []string
	edgeOrder []string

	// Adjacency: node id -> edge ids touching it, for cascade deletion.
	edgesByNode map[string][]string

	events *pubsub.Bus
}

// NewStore creates an empty graph store.
func NewStore() *Store {
	return &Store{
		nodes:       make(map[string]*Node),
		edges:       make(map[string]*Edge),
		edgesByNode: make(map[string][]string),
	}
}

// SetEventBus attaches a change bus; every mutation publishes to
// pubsub.TopicGraph after committing. A nil bus disables publishing.
func (s *Store) SetEventBus(bus *pubsub.Bus) {
	s.mu.Lock()
	s.events = bus
	s.mu.Unlock()
}

func (s *Store) publish(event pubsub.GraphEvent) {
	if s.events != nil {
		s.events.Publish(pubsub.TopicGraph, event)
	}
}

// NewNode builds a node with a fresh id and the derived style for its type.
// It does not add the node to any store.
func NewNode(entityType EntityType, value, label string) *Node {
	if label == "" {
		label = value
	}
	return &Node{
		ID:         uuid.NewString(),
		Type:       entityType,
		Label:      label,
		Value:      value,
		Properties: make(map[string]string),
	}
}

// AddNode inserts a node. The node's id must be unique within the graph and
// its type must be a member of the entity enumeration.
func (s *Store) AddNode(node *Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkNode(node); err != nil {
		return err
	}

	s.insertNode(node.Clone())
	s.publish(pubsub.GraphEvent{Op: "addNode", NodeID: node.ID})
	return nil
}

// AddEdge inserts an edge. Both endpoints must already be present.
func (s *Store) AddEdge(edge *Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkEdge(edge); err != nil {
		return err
	}

	s.insertEdge(edge.Clone())
	s.publish(pubsub.GraphEvent{Op: "addEdge", EdgeID: edge.ID})
	return nil
}

// Apply inserts a batch of nodes and edges as one atomic transition: either
// every element is admitted, or none are and the store is unchanged. Edges
// may reference nodes from the same batch. Used to commit a transform
// result in a single step.
func (s *Store) Apply(nodes []*Node, edges []*Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before touching anything.
	batchIDs := make(map[string]bool, len(nodes))
	for _, node := range nodes {
		if err := s.checkNode(node); err != nil {
			return err
		}
		if batchIDs[node.ID] {
			return fmt.Errorf("node %s: %w", node.ID, ErrDuplicateID)
		}
		batchIDs[node.ID] = true
	}
	for _, edge := range edges {
		if edge.ID == "" {
			return fmt.Errorf("edge: %w", ErrDuplicateID)
		}
		if _, exists := s.edges[edge.ID]; exists {
			return fmt.Errorf("edge %s: %w", edge.ID, ErrDuplicateID)
		}
		if _, ok := s.nodes[edge.SourceID]; !ok && !batchIDs[edge.SourceID] {
			return fmt.Errorf("edge %s source %s: %w", edge.ID, edge.SourceID, ErrEndpointMissing)
		}
		if _, ok := s.nodes[edge.TargetID]; !ok && !batchIDs[edge.TargetID] {
			return fmt.Errorf("edge %s target %s: %w", edge.ID, edge.TargetID, ErrEndpointMissing)
		}
	}

	for _, node := range nodes {
		s.insertNode(node.Clone())
	}
	for _, edge := range edges {
		s.insertEdge(edge.Clone())
	}
	s.publish(pubsub.GraphEvent{Op: "apply"})
	return nil
}

// RemoveNode deletes a node and cascades: every edge whose source or target
// is the node is removed atomically with it.
func (s *Store) RemoveNode(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.nodes[id]; !exists {
		return ErrNodeNotFound
	}

	for _, edgeID := range s.edgesByNode[id] {
		edge, exists := s.edges[edgeID]
		if !exists {
			continue
		}
		delete(s.edges, edgeID)
		s.edgeOrder = removeID(s.edgeOrder, edgeID)
		// Drop the edge from the other endpoint's adjacency too.
		other := edge.SourceID
		if other == id {
			other = edge.TargetID
		}
		if other != id {
			s.edgesByNode[other] = removeID(s.edgesByNode[other], edgeID)
		}
	}
	delete(s.edgesByNode, id)
	delete(s.nodes, id)
	s.nodeOrder = removeID(s.nodeOrder, id)

	s.publish(pubsub.GraphEvent{Op: "removeNode", NodeID: id})
	return nil
}

// UpdateNodePosition moves a node. Position never affects identity.
func (s *Store) UpdateNodePosition(id string, pos Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, exists := s.nodes[id]
	if !exists {
		return ErrNodeNotFound
	}
	node.Position = pos

	s.publish(pubsub.GraphEvent{Op: "updatePosition", NodeID: id})
	return nil
}

// UpdateNodeProperties merges the given properties into a node's open
// property map and optionally replaces its risk metadata.
func (s *Store) UpdateNodeProperties(id string, props map[string]string, risk *RiskMetadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, exists := s.nodes[id]
	if !exists {
		return ErrNodeNotFound
	}
	if node.Properties == nil {
		node.Properties = make(map[string]string, len(props))
	}
	for k, v := range props {
		node.Properties[k] = v
	}
	if risk != nil {
		copied := *risk
		node.Risk = &copied
	}

	s.publish(pubsub.GraphEvent{Op: "updateProperties", NodeID: id})
	return nil
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (*Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	node, exists := s.nodes[id]
	if !exists {
		return nil, ErrNodeNotFound
	}
	return node.Clone(), nil
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []*Node {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nodes := make([]*Node, 0, len(s.nodeOrder))
	for _, id := range s.nodeOrder {
		nodes = append(nodes, s.nodes[id].Clone())
	}
	return nodes
}

// Edges returns copies of all edges in insertion order.
func (s *Store) Edges() []*Edge {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edges := make([]*Edge, 0, len(s.edgeOrder))
	for _, id := range s.edgeOrder {
		edges = append(edges, s.edges[id].Clone())
	}
	return edges
}

// Counts returns the node and edge counts.
func (s *Store) Counts() (nodes, edges int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes), len(s.edges)
}

// CountsByType returns the node count per entity type.
func (s *Store) CountsByType() map[EntityType]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[EntityType]int)
	for _, node := range s.nodes {
		counts[node.Type]++
	}
	return counts
}

// checkNode validates a node for insertion. Caller holds the lock.
func (s *Store) checkNode(node *Node) error {
	if node.ID == "" {
		return fmt.Errorf("node: empty id: %w", ErrDuplicateID)
	}
	if !node.Type.Valid() {
		return fmt.Errorf("node %s type %q: %w", node.ID, node.Type, ErrInvalidEntity)
	}
	if _, exists := s.nodes[node.ID]; exists {
		return fmt.Errorf("node %s: %w", node.ID, ErrDuplicateID)
	}
	return nil
}

// checkEdge validates an edge for insertion. Caller holds the lock.
func (s *Store) checkEdge(edge *Edge) error {
	if edge.ID == "" {
		return fmt.Errorf("edge: empty id: %w", ErrDuplicateID)
	}
	if _, exists := s.edges[edge.ID]; exists {
		return fmt.Errorf("edge %s: %w", edge.ID, ErrDuplicateID)
	}
	if _, exists := s.nodes[edge.SourceID]; !exists {
		return fmt.Errorf("edge %s source %s: %w", edge.ID, edge.SourceID, ErrEndpointMissing)
	}
	if _, exists := s.nodes[edge.TargetID]; !exists {
		return fmt.Errorf("edge %s target %s: %w", edge.ID, edge.TargetID, ErrEndpointMissing)
	}
	return nil
}

func (s *Store) insertNode(node *Node) {
	s.nodes[node.ID] = node
	s.nodeOrder = append(s.nodeOrder, node.ID)
}

func (s *Store) insertEdge(edge *Edge) {
	s.edges[edge.ID] = edge
	s.edgeOrder = append(s.edgeOrder, edge.ID)
	s.edgesByNode[edge.SourceID] = append(s.edgesByNode[edge.SourceID], edge.ID)
	if edge.TargetID != edge.SourceID {
		s.edgesByNode[edge.TargetID] = append(s.edgesByNode[edge.TargetID], edge.ID)
	}
}

func removeID(ids []string, id string) []string {
	for i, candidate := range ids {
		if candidate == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
