package api

import (
	"errors"
	"net/http"

	"github.com/osintdash/graphkit/pkg/graph"
)

func (s *Server) handleNodes(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listNodes(w, r) }).
		Post(func() { s.createNode(w, r) }).
		NotAllowed()
}

func (s *Server) listNodes(w http.ResponseWriter, r *http.Request) {
	allNodes := s.store.Nodes()
	nodes := make([]*NodeResponse, 0, len(allNodes))

	filter := graph.EntityType(r.URL.Query().Get("type"))
	for _, node := range allNodes {
		if filter != "" && node.Type != filter {
			continue
		}
		nodes = append(nodes, nodeToResponse(node))
	}

	s.respondJSON(w, http.StatusOK, nodes)
}

func (s *Server) createNode(w http.ResponseWriter, r *http.Request) {
	var req NodeRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).Validate(&req)
	if decoder.RespondError() {
		return
	}

	entityType := graph.EntityType(req.Type)
	if !entityType.Valid() {
		s.respondError(w, http.StatusBadRequest, "unknown entity type "+req.Type)
		return
	}
	if req.Label == "" {
		req.Label = req.Value
	}

	node := graph.NewNode(entityType, req.Value, req.Label)
	if err := s.store.AddNode(node); err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "create node"))
		return
	}

	s.respondJSON(w, http.StatusCreated, nodeToResponse(node))
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	nodeID, subresource := extractNodeID(r.URL.Path)
	if nodeID == "" {
		s.respondError(w, http.StatusBadRequest, "missing node id")
		return
	}

	switch subresource {
	case "position":
		s.NewMethodRouter(w, r).
			Put(func() { s.updateNodePosition(w, r, nodeID) }).
			NotAllowed()
		return
	case "properties":
		s.NewMethodRouter(w, r).
			Put(func() { s.updateNodeProperties(w, r, nodeID) }).
			NotAllowed()
		return
	}

	s.NewMethodRouter(w, r).
		Get(func() { s.getNode(w, r, nodeID) }).
		Delete(func() { s.deleteNode(w, r, nodeID) }).
		NotAllowed()
}

func (s *Server) getNode(w http.ResponseWriter, r *http.Request, nodeID string) {
	node, err := s.store.Node(nodeID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Node not found")
		return
	}
	s.respondJSON(w, http.StatusOK, nodeToResponse(node))
}

func (s *Server) updateNodePosition(w http.ResponseWriter, r *http.Request, nodeID string) {
	var req PositionRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req)
	if decoder.RespondError() {
		return
	}

	if err := s.store.UpdateNodePosition(nodeID, graph.Position{X: req.X, Y: req.Y}); err != nil {
		if errors.Is(err, graph.ErrNodeNotFound) {
			s.respondError(w, http.StatusNotFound, "Node not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "update position"))
		return
	}

	node, err := s.store.Node(nodeID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Node not found")
		return
	}
	s.respondJSON(w, http.StatusOK, nodeToResponse(node))
}

func (s *Server) updateNodeProperties(w http.ResponseWriter, r *http.Request, nodeID string) {
	var props map[string]string
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&props)
	if decoder.RespondError() {
		return
	}

	if err := s.store.UpdateNodeProperties(nodeID, props, nil); err != nil {
		if errors.Is(err, graph.ErrNodeNotFound) {
			s.respondError(w, http.StatusNotFound, "Node not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "update properties"))
		return
	}

	node, err := s.store.Node(nodeID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Node not found")
		return
	}
	s.respondJSON(w, http.StatusOK, nodeToResponse(node))
}

func (s *Server) deleteNode(w http.ResponseWriter, r *http.Request, nodeID string) {
	if err := s.store.RemoveNode(nodeID); err != nil {
		if errors.Is(err, graph.ErrNodeNotFound) {
			s.respondError(w, http.StatusNotFound, "Node not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "delete node"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nodeToResponse(node *graph.Node) *NodeResponse {
	resp := &NodeResponse{
		ID:         node.ID,
		Type:       string(node.Type),
		Value:      node.Value,
		Label:      node.Label,
		X:          node.Position.X,
		Y:          node.Position.Y,
		Properties: node.Properties,
	}
	if node.Risk != nil {
		resp.Risk = string(node.Risk.Level)
	}
	return resp
}

func edgeToResponse(edge *graph.Edge) *EdgeResponse {
	return &EdgeResponse{
		ID:       edge.ID,
		SourceID: edge.SourceID,
		TargetID: edge.TargetID,
		Label:    edge.Label,
	}
}
