package pubsub

// GraphEvent describes one mutation of the graph store.
type GraphEvent struct {
	Op     string // "addNode", "addEdge", "removeNode", "updatePosition", "replaceAll", "apply"
	NodeID string
	EdgeID string
}

// ViewEvent signals that pan, zoom, selection or hover changed.
type ViewEvent struct{}

// TransformEvent marks a transform starting or settling.
type TransformEvent struct {
	TransformID string
	SourceID    string
	Status      string // "started", "ok", "empty", "error"
}
