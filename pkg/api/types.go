package api

import "time"

// NodeRequest creates a new node.
type NodeRequest struct {
	Type  string `json:"type" validate:"required"`
	Value string `json:"value" validate:"required"`
	Label string `json:"label"`
}

// PositionRequest moves a node.
type PositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ExpandRequest runs a transform against a node.
type ExpandRequest struct {
	NodeID      string `json:"node_id" validate:"required"`
	TransformID string `json:"transform_id" validate:"required"`
}

// NodeResponse is the wire form of a node.
type NodeResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Value      string            `json:"value"`
	Label      string            `json:"label"`
	X          float64           `json:"x"`
	Y          float64           `json:"y"`
	Properties map[string]string `json:"properties,omitempty"`
	Risk       string            `json:"risk,omitempty"`
}

// EdgeResponse is the wire form of an edge.
type EdgeResponse struct {
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Label    string `json:"label,omitempty"`
}

// ExpandResponse reports what a transform produced.
type ExpandResponse struct {
	Nodes []*NodeResponse `json:"nodes"`
	Edges []*EdgeResponse `json:"edges"`
}

// TransformResponse describes one available transform.
type TransformResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Types       []string `json:"types"`
}

// StatsResponse summarizes the graph.
type StatsResponse struct {
	Nodes       int            `json:"nodes"`
	Edges       int            `json:"edges"`
	NodesByType map[string]int `json:"nodes_by_type"`
	CacheHits   uint64         `json:"cache_hits"`
	CacheMisses uint64         `json:"cache_misses"`
}

// HealthResponse reports server health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Busy      bool      `json:"busy"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
