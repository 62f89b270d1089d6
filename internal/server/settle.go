package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/settle"
)

type settleRequest struct {
	Snapshot *graph.Snapshot `json:"snapshot,omitempty"`
	Name     string          `json:"name,omitempty"`
	Format   string          `json:"format,omitempty"` // json when empty
	settle.Options
}

var contentTypes = map[string]string{
	settle.FormatSVG:  "image/svg+xml",
	settle.FormatPNG:  "image/png",
	settle.FormatPDF:  "application/pdf",
	settle.FormatDOT:  "text/vnd.graphviz",
	settle.FormatJSON: "application/json",
}

func (s *Server) handleSettle(w http.ResponseWriter, r *http.Request) {
	var req settleRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Format == "" {
		req.Format = settle.FormatJSON
	}
	if err := settle.ValidateFormat(req.Format); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := s.resolveSnapshot(r.Context(), req.Snapshot, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := snap.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := req.Options
	opts.Formats = []string{req.Format}
	opts.Logger = s.logger
	result, err := s.runner.Execute(r.Context(), snap, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentTypes[req.Format])
	w.Header().Set("X-Orbit-Snapshot", result.SnapshotHash)
	w.Header().Set("X-Orbit-Settle-Cache", cacheHeader(result.CacheInfo.SettleHit))
	w.Header().Set("X-Orbit-Ticks", strconv.Itoa(result.Stats.Ticks))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[req.Format])
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "no snapshot source configured"))
		return
	}
	names, err := s.source.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"source": s.source.Name(), "snapshots": names})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.source == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeUnsupported, "no snapshot source configured"))
		return
	}
	snap, err := s.source.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := graph.WriteSnapshot(snap.Sorted(), w); err != nil {
		s.logger.Warn("write snapshot", "error", err)
	}
}

func cacheHeader(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}
