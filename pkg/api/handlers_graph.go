package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/osintdash/graphkit/pkg/graph"
	"github.com/osintdash/graphkit/pkg/logging"
)

// maxImportBytes caps the size of an imported graph document.
const maxImportBytes = 16 << 20

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.getGraph(w, r) }).
		NotAllowed()
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.store.Serialize())
}

func (s *Server) handleGraphExport(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.exportGraph(w, r) }).
		NotAllowed()
}

func (s *Server) exportGraph(w http.ResponseWriter, r *http.Request) {
	data, err := graph.MarshalDocument(s.store.Serialize())
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "export graph"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+graph.ExportFilename(time.Now())+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		s.logger.Error("writing export", logging.Error(err))
	}
}

func (s *Server) handleGraphImport(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() { s.importGraph(w, r) }).
		NotAllowed()
}

func (s *Server) importGraph(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "reading request body failed")
		return
	}

	doc, err := graph.ParseDocument(data)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.ReplaceAll(doc); err != nil {
		if errors.Is(err, graph.ErrEndpointMissing) || errors.Is(err, graph.ErrInvalidImport) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "import graph"))
		return
	}

	s.getGraphStats(w, r)
}

func (s *Server) handleGraphStats(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.getGraphStats(w, r) }).
		NotAllowed()
}

func (s *Server) getGraphStats(w http.ResponseWriter, r *http.Request) {
	nodes, edges := s.store.Counts()

	byType := make(map[string]int)
	for entityType, count := range s.store.CountsByType() {
		byType[string(entityType)] = count
	}

	stats := StatsResponse{
		Nodes:       nodes,
		Edges:       edges,
		NodesByType: byType,
	}
	if s.cache != nil {
		stats.CacheHits, stats.CacheMisses = s.cache.Stats()
	}

	s.respondJSON(w, http.StatusOK, stats)
}
