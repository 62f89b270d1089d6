package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/orbit/pkg/errors"
	"github.com/matzehuels/orbit/pkg/graph"
	"github.com/matzehuels/orbit/pkg/layout/force"
	"github.com/matzehuels/orbit/pkg/session"
)

// Drag phases accepted by the drag endpoint.
const (
	dragBegin = "begin"
	dragMove  = "move"
	dragEnd   = "end"
)

type createSessionRequest struct {
	Snapshot *graph.Snapshot `json:"snapshot,omitempty"`
	Name     string          `json:"name,omitempty"` // loaded from the source
	Canvas   *force.Size     `json:"canvas,omitempty"`
}

type sessionResponse struct {
	Session session.Info `json:"session"`
	Frame   graph.Frame  `json:"frame"`
}

type dragRequest struct {
	Phase string  `json:"phase"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"version":  s.version,
		"uptime":   time.Since(s.started).Seconds(),
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sessions": s.sessions.List()})
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	snap, err := s.resolveSnapshot(r.Context(), req.Snapshot, req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	size := s.canvas
	if req.Canvas != nil {
		size = *req.Canvas
	}

	sess, err := s.sessions.Create(snap, size)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{Session: sess.Info(), Frame: sess.Frame()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Touch()
	writeJSON(w, http.StatusOK, sess.Info())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := session.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Delete(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeFrame(w, sess.Frame())
}

func (s *Server) handleReconcile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var snap graph.Snapshot
	if err := decode(w, r, &snap); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Reconcile(snap); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFrame(w, sess.Frame())
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var size force.Size
	if err := decode(w, r, &size); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := sess.Resize(size); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFrame(w, sess.Frame())
}

func (s *Server) handleDrag(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req dragRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	nodeID := chi.URLParam(r, "nodeID")
	p := force.Vec{X: req.X, Y: req.Y}
	var err error
	switch req.Phase {
	case dragBegin:
		err = sess.BeginDrag(nodeID, p)
	case dragMove:
		err = sess.UpdateDrag(nodeID, p)
	case dragEnd:
		err = sess.EndDrag(nodeID)
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "phase must be begin, move or end, got %q", req.Phase)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeFrame(w, sess.Frame())
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Reset()
	s.writeFrame(w, sess.Frame())
}

// session resolves the {sessionID} URL parameter, answering the request
// itself when it cannot.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	if err := session.ValidateID(id); err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	sess, err := s.sessions.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

// writeFrame answers with a frame in its canonical sorted encoding.
func (s *Server) writeFrame(w http.ResponseWriter, f graph.Frame) {
	w.Header().Set("Content-Type", "application/json")
	if err := graph.WriteFrame(f, w); err != nil {
		s.logger.Warn("write frame", "error", err)
	}
}

// resolveSnapshot picks the inline snapshot if given, else loads name from
// the configured source.
func (s *Server) resolveSnapshot(ctx context.Context, inline *graph.Snapshot, name string) (graph.Snapshot, error) {
	switch {
	case inline != nil && name != "":
		return graph.Snapshot{}, errors.New(errors.ErrCodeInvalidInput, "give either snapshot or name, not both")
	case inline != nil:
		return *inline, nil
	case name == "":
		return graph.Snapshot{}, errors.New(errors.ErrCodeInvalidInput, "snapshot or name is required")
	case s.source == nil:
		return graph.Snapshot{}, errors.New(errors.ErrCodeUnsupported, "no snapshot source configured")
	default:
		return s.source.Load(ctx, name)
	}
}
