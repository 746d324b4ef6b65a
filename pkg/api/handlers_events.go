package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/osintdash/graphkit/pkg/logging"
	"github.com/osintdash/graphkit/pkg/pubsub"
)

// handleEvents streams graph and transform change events as server-sent
// events. The subscription lives for the lifetime of the request; a
// disconnect unsubscribes via the request context.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.streamEvents(w, r) }).
		NotAllowed()
}

func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	graphSub, err := s.events.Subscribe(r.Context(), pubsub.TopicGraph)
	if err != nil || graphSub == nil {
		s.respondError(w, http.StatusServiceUnavailable, "event bus unavailable")
		return
	}
	transformSub, err := s.events.Subscribe(r.Context(), pubsub.TopicTransform)
	if err != nil || transformSub == nil {
		graphSub.Unsubscribe()
		s.respondError(w, http.StatusServiceUnavailable, "event bus unavailable")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	s.logger.Debug("event stream opened", logging.String("remote", r.RemoteAddr))

	for {
		select {
		case <-r.Context().Done():
			return
		case event, ok := <-graphSub.Events():
			if !ok {
				return
			}
			s.writeEvent(w, flusher, pubsub.TopicGraph, event)
		case event, ok := <-transformSub.Events():
			if !ok {
				return
			}
			s.writeEvent(w, flusher, pubsub.TopicTransform, event)
		}
	}
}

func (s *Server) writeEvent(w http.ResponseWriter, flusher http.Flusher, topic string, event any) {
	data, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("encoding event", logging.Error(err))
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", topic, data)
	flusher.Flush()
}
