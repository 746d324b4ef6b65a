// Package api exposes the graph store and transform executor over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/osintdash/graphkit/pkg/cache"
	"github.com/osintdash/graphkit/pkg/expand"
	"github.com/osintdash/graphkit/pkg/graph"
	"github.com/osintdash/graphkit/pkg/graphql"
	"github.com/osintdash/graphkit/pkg/logging"
	"github.com/osintdash/graphkit/pkg/metrics"
	"github.com/osintdash/graphkit/pkg/pubsub"
)

// Version reported by /health.
const Version = "1.0.0"

// Server is the HTTP API server.
type Server struct {
	store    *graph.Store
	executor *expand.Executor
	cache    *cache.TTLCache

	graphqlHandler *graphql.GraphQLHandler
	registry       *metrics.Registry
	events         *pubsub.Bus
	logger         logging.Logger
	validate       *validator.Validate
	startTime      time.Time
}

// Options configures a Server.
type Options struct {
	Store    *graph.Store
	Executor *expand.Executor
	Cache    *cache.TTLCache
	Registry *metrics.Registry // nil disables HTTP metrics and /metrics
	Events   *pubsub.Bus       // nil disables the /events stream
	Logger   logging.Logger    // nil for silent
}

// NewServer creates an API server over the given store and executor.
func NewServer(opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop{}
	}

	schema, err := graphql.GenerateSchema(opts.Store, opts.Executor)
	if err != nil {
		return nil, err
	}

	return &Server{
		store:          opts.Store,
		executor:       opts.Executor,
		cache:          opts.Cache,
		graphqlHandler: graphql.NewGraphQLHandler(schema),
		registry:       opts.Registry,
		events:         opts.Events,
		logger:         logger.With(logging.Component("api")),
		validate:       validator.New(),
		startTime:      time.Now(),
	}, nil
}

// Handler builds the routed and middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	if s.registry != nil {
		mux.Handle("/metrics", s.registry.Handler())
	}

	mux.HandleFunc("/nodes", s.handleNodes)
	mux.HandleFunc("/nodes/", s.handleNode) // /nodes/{id}, /nodes/{id}/position

	mux.HandleFunc("/transforms", s.handleTransforms)
	mux.HandleFunc("/expand", s.handleExpand)

	mux.HandleFunc("/graph", s.handleGraph)
	mux.HandleFunc("/graph/export", s.handleGraphExport)
	mux.HandleFunc("/graph/import", s.handleGraphImport)
	mux.HandleFunc("/graph/stats", s.handleGraphStats)

	mux.Handle("/graphql", s.graphqlHandler)

	if s.events != nil {
		mux.HandleFunc("/events", s.handleEvents)
	}

	var handler http.Handler = mux
	if s.registry != nil {
		handler = s.metricsMiddleware(handler)
	}
	return s.loggingMiddleware(s.panicRecoveryMiddleware(handler))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	busy := false
	if s.executor != nil {
		busy = s.executor.Busy()
	}
	s.respondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   Version,
		Uptime:    time.Since(s.startTime).String(),
		Busy:      busy,
	})
}
