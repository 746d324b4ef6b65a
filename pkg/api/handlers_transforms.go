package api

import (
	"errors"
	"net/http"

	"github.com/osintdash/graphkit/pkg/expand"
	"github.com/osintdash/graphkit/pkg/graph"
	"github.com/osintdash/graphkit/pkg/transform"
)

func (s *Server) handleTransforms(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.listTransforms(w, r) }).
		NotAllowed()
}

func (s *Server) listTransforms(w http.ResponseWriter, r *http.Request) {
	var descriptors []*transform.Descriptor
	if entityType := r.URL.Query().Get("type"); entityType != "" {
		descriptors = transform.TransformsFor(graph.EntityType(entityType))
	} else {
		descriptors = transform.All()
	}

	transforms := make([]*TransformResponse, 0, len(descriptors))
	for _, desc := range descriptors {
		types := make([]string, 0, len(desc.SupportedTypes))
		for _, entityType := range graph.AllEntityTypes {
			if desc.Supports(entityType) {
				types = append(types, string(entityType))
			}
		}
		transforms = append(transforms, &TransformResponse{
			ID:          desc.ID,
			Name:        desc.Name,
			Description: desc.Description,
			Icon:        desc.Icon,
			Types:       types,
		})
	}

	s.respondJSON(w, http.StatusOK, transforms)
}

func (s *Server) handleExpand(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() { s.expandNode(w, r) }).
		NotAllowed()
}

func (s *Server) expandNode(w http.ResponseWriter, r *http.Request) {
	var req ExpandRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).Validate(&req)
	if decoder.RespondError() {
		return
	}

	source, err := s.store.Node(req.NodeID)
	if err != nil {
		s.respondError(w, http.StatusNotFound, "Node not found")
		return
	}

	result, err := s.executor.ExecuteTransform(r.Context(), req.TransformID, source)
	if err != nil {
		switch {
		case errors.Is(err, expand.ErrUnknownTransform):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, expand.ErrUnsupportedEntity):
			s.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, expand.ErrBusy):
			s.respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, expand.ErrEmptyResult):
			s.respondError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			s.respondError(w, http.StatusBadGateway, s.sanitizeError(err, "expand node"))
		}
		return
	}

	if err := s.store.Apply(result.Nodes, result.Edges); err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "apply expansion"))
		return
	}

	resp := &ExpandResponse{
		Nodes: make([]*NodeResponse, 0, len(result.Nodes)),
		Edges: make([]*EdgeResponse, 0, len(result.Edges)),
	}
	for _, node := range result.Nodes {
		resp.Nodes = append(resp.Nodes, nodeToResponse(node))
	}
	for _, edge := range result.Edges {
		resp.Edges = append(resp.Edges, edgeToResponse(edge))
	}

	s.respondJSON(w, http.StatusOK, resp)
}
