package server

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/archsketch/pkg/buildinfo"
	"github.com/matzehuels/archsketch/pkg/diagram"
	"github.com/matzehuels/archsketch/pkg/errors"
	dio "github.com/matzehuels/archsketch/pkg/io"
	"github.com/matzehuels/archsketch/pkg/render"
	"github.com/matzehuels/archsketch/pkg/render/nodelink"
	"github.com/matzehuels/archsketch/pkg/session"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Version})
}

// =============================================================================
// Sessions
// =============================================================================

type sessionSummary struct {
	ID        string `json:"id"`
	Nodes     int    `json:"nodes"`
	Edges     int    `json:"edges"`
	Messages  int    `json:"messages"`
	UpdatedAt string `json:"updated_at"`
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := make([]sessionSummary, len(list))
	for i, sess := range list {
		out[i] = sessionSummary{
			ID:        sess.ID,
			Nodes:     len(sess.Diagram.Nodes),
			Edges:     len(sess.Diagram.Edges),
			Messages:  len(sess.Messages),
			UpdatedAt: sess.UpdatedAt.Format(time.RFC3339),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID string `json:"id"`
	}
	if r.ContentLength > 0 {
		if err := decode(w, r, &body); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if body.ID != "" {
		if _, err := s.svc.Store.Get(r.Context(), body.ID); err == nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "session %q already exists", body.ID))
			return
		}
	}
	sess, err := session.New(body.ID, s.svc.TTL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Store.Set(r.Context(), sess); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.svc.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateSessionID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Store.Delete(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Synthesis
// =============================================================================

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	ctx := r.Context()
	if s.PromptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.PromptTimeout)
		defer cancel()
	}
	out, err := s.svc.Submit(ctx, chi.URLParam(r, "id"), body.Prompt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}
	out, err := s.svc.Apply(r.Context(), chi.URLParam(r, "id"), string(data))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, err := s.svc.Ingest(r.Context(), chi.URLParam(r, "id"), body.Text)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// Diagram
// =============================================================================

func (s *Server) currentDiagram(r *http.Request) (diagram.Diagram, error) {
	sess, err := s.svc.Session(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return diagram.Diagram{}, err
	}
	return sess.Diagram, nil
}

func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.currentDiagram(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(d))
}

func (s *Server) handleReplaceDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := dio.ReadSnapshot(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.svc.Replace(r.Context(), chi.URLParam(r, "id"), d); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(d))
}

func (s *Server) handleClearDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Clear(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	d, err := s.currentDiagram(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := s.renderer.Render(r.Context(), d, format, nodelink.Options{Detailed: detailed})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", render.ContentType(format))
	w.Header().Set("Content-Disposition", `attachment; filename="diagram.`+format+`"`)
	_, _ = w.Write(data)
}

// =============================================================================
// Nodes and edges
// =============================================================================

type nodeBody struct {
	Label       string `json:"label"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

func (b nodeBody) data() diagram.NodeData {
	return diagram.NodeData{Label: b.Label, Type: b.Type, Description: b.Description, Color: b.Color}
}

func (s *Server) handleAddNode(w http.ResponseWriter, r *http.Request) {
	var body nodeBody
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.svc.AddNode(r.Context(), chi.URLParam(r, "id"), body.data())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	var body nodeBody
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.svc.UpdateNode(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "nodeID"), body.data())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleMoveNode(w http.ResponseWriter, r *http.Request) {
	var pos diagram.Position
	if err := decode(w, r, &pos); err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := s.svc.MoveNode(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "nodeID"), pos)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.DeleteNode(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "nodeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(d))
}

func (s *Server) handleAddEdge(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Source string `json:"source"`
		Target string `json:"target"`
	}
	if err := decode(w, r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.svc.Connect(r.Context(), chi.URLParam(r, "id"), body.Source, body.Target)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) handleDeleteEdge(w http.ResponseWriter, r *http.Request) {
	d, err := s.svc.DeleteEdge(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "edgeID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(d))
}

// nonNil makes empty diagrams encode as [] rather than null.
func nonNil(d diagram.Diagram) diagram.Diagram {
	if d.Nodes == nil {
		d.Nodes = []diagram.Node{}
	}
	if d.Edges == nil {
		d.Edges = []diagram.Edge{}
	}
	return d
}
