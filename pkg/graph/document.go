package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/osintdash/graphkit/pkg/pubsub"
)

// ErrInvalidImport marks an imported document that fails to parse or does
// not match the expected shape. The current graph is left untouched.
var ErrInvalidImport = errors.New("invalid import document")

// Document is the plain export/import shape of a whole graph.
type Document struct {
	Nodes []*Node `json:"nodes" validate:"required,dive,required"`
	Edges []*Edge `json:"edges" validate:"omitempty,dive,required"`
}

var validate = validator.New()

// Serialize snapshots the current graph as a plain data document.
func (s *Store) Serialize() *Document {
	return &Document{
		Nodes: s.Nodes(),
		Edges: s.Edges(),
	}
}

// ReplaceAll atomically swaps the whole graph for the document's contents.
// The document is validated first; on any violation the current graph is
// left untouched. No partially imported state is ever observable.
func (s *Store) ReplaceAll(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidImport)
	}

	nodes := make(map[string]*Node, len(doc.Nodes))
	nodeOrder := make([]string, 0, len(doc.Nodes))
	for _, node := range doc.Nodes {
		if node == nil || node.ID == "" {
			return fmt.Errorf("%w: node with empty id", ErrInvalidImport)
		}
		if !node.Type.Valid() {
			return fmt.Errorf("%w: node %s has unknown type %q", ErrInvalidImport, node.ID, node.Type)
		}
		if _, dup := nodes[node.ID]; dup {
			return fmt.Errorf("%w: duplicate node id %s", ErrInvalidImport, node.ID)
		}
		nodes[node.ID] = node.Clone()
		nodeOrder = append(nodeOrder, node.ID)
	}

	edges := make(map[string]*Edge, len(doc.Edges))
	edgeOrder := make([]string, 0, len(doc.Edges))
	edgesByNode := make(map[string][]string)
	for _, edge := range doc.Edges {
		if edge == nil || edge.ID == "" {
			return fmt.Errorf("%w: edge with empty id", ErrInvalidImport)
		}
		if _, dup := edges[edge.ID]; dup {
			return fmt.Errorf("%w: duplicate edge id %s", ErrInvalidImport, edge.ID)
		}
		if _, ok := nodes[edge.SourceID]; !ok {
			return fmt.Errorf("%w: edge %s references missing source %s", ErrInvalidImport, edge.ID, edge.SourceID)
		}
		if _, ok := nodes[edge.TargetID]; !ok {
			return fmt.Errorf("%w: edge %s references missing target %s", ErrInvalidImport, edge.ID, edge.TargetID)
		}
		edges[edge.ID] = edge.Clone()
		edgeOrder = append(edgeOrder, edge.ID)
		edgesByNode[edge.SourceID] = append(edgesByNode[edge.SourceID], edge.ID)
		if edge.TargetID != edge.SourceID {
			edgesByNode[edge.TargetID] = append(edgesByNode[edge.TargetID], edge.ID)
		}
	}

	// Single assignment under the lock: the swap is all-or-nothing.
	s.mu.Lock()
	s.nodes = nodes
	s.edges = edges
	s.nodeOrder = nodeOrder
	s.edgeOrder = edgeOrder
	s.edgesByNode = edgesByNode
	s.publish(pubsub.GraphEvent{Op: "replaceAll"})
	s.mu.Unlock()

	return nil
}

// ParseDocument decodes and validates an exported graph document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return &doc, nil
}

// MarshalDocument encodes a document for export.
func MarshalDocument(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// ExportFilename names an export file after the moment it was produced.
func ExportFilename(now time.Time) string {
	return fmt.Sprintf("osint-graph-%d.json", now.UnixMilli())
}
