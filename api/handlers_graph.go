package api

import (
	"net/http"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/schema"
	"github.com/I14Y-ch/structure-generator/session"
)

type nodeView struct {
	ID          string      `json:"id"`
	Kind        string      `json:"kind"`
	Title       schema.Text `json:"title"`
	Description schema.Text `json:"description"`
	Datatype    string      `json:"datatype,omitempty"`
	MinCount    *int        `json:"min_count,omitempty"`
	MaxCount    *int        `json:"max_count,omitempty"`
	MinLength   *int        `json:"min_length,omitempty"`
	MaxLength   *int        `json:"max_length,omitempty"`
	Pattern     string      `json:"pattern,omitempty"`
	InValues    []string    `json:"in_values,omitempty"`
	ConceptID   string      `json:"concept_id,omitempty"`
	ConceptURI  string      `json:"concept_uri,omitempty"`
	Linked      bool        `json:"linked,omitempty"`
	Connections []string    `json:"connections,omitempty"`
}

func viewOf(n *schema.Node) nodeView {
	return nodeView{
		ID:          n.ID,
		Kind:        string(n.Kind),
		Title:       n.Title,
		Description: n.Description,
		Datatype:    n.Datatype,
		MinCount:    n.MinCount,
		MaxCount:    n.MaxCount,
		MinLength:   n.MinLength,
		MaxLength:   n.MaxLength,
		Pattern:     n.Pattern,
		InValues:    n.InValues,
		ConceptID:   n.ConceptID,
		ConceptURI:  n.ConceptURI,
		Linked:      n.Linked,
		Connections: n.Connections(),
	}
}

type edgeView struct {
	ID          string `json:"id"`
	From        string `json:"from"`
	To          string `json:"to"`
	Cardinality string `json:"cardinality"`
}

// session resolves the {sid} path value. On failure the response is
// already written.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.sessions.Get(r.PathValue("sid"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Title == "" {
		writeError(w, serr.WrapInvalid(serr.ErrInvalidData, "api", "handleCreateSession",
			"title is required"))
		return
	}

	sess, err := s.sessions.Create(req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}

	var snap schema.Snapshot
	_ = sess.Do(func(g *schema.Graph) error {
		snap = g.Snapshot()
		return nil
	})
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sess.ID(),
		"graph":      snap,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("sid")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetGraph(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var snap schema.Snapshot
	_ = sess.Do(func(g *schema.Graph) error {
		snap = g.Snapshot()
		return nil
	})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var snap schema.Snapshot
	_ = sess.Do(func(g *schema.Graph) error {
		g.Reset()
		snap = g.Snapshot()
		return nil
	})
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCreateNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Kind        string `json:"kind"`
		Title       string `json:"title"`
		Description string `json:"description"`
		ConnectTo   string `json:"connect_to,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var view nodeView
	err := sess.Do(func(g *schema.Graph) error {
		node, err := g.AddNode(schema.NodeKind(req.Kind), req.Title, req.Description)
		if err != nil {
			return err
		}
		if req.ConnectTo != "" {
			if _, err := g.Connect(req.ConnectTo, node.ID); err != nil {
				return err
			}
		}
		view = viewOf(node)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleGetNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var view nodeView
	err := sess.Do(func(g *schema.Graph) error {
		node, err := g.Node(r.PathValue("id"))
		if err != nil {
			return err
		}
		view = viewOf(node)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUpdateNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		Title       *schema.Text `json:"title"`
		Description *schema.Text `json:"description"`
		Datatype    *string      `json:"datatype"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var view nodeView
	err := sess.Do(func(g *schema.Graph) error {
		id := r.PathValue("id")
		if err := g.UpdateNode(id, schema.NodeUpdate{
			Title:       req.Title,
			Description: req.Description,
			Datatype:    req.Datatype,
		}); err != nil {
			return err
		}
		node, err := g.Node(id)
		if err != nil {
			return err
		}
		view = viewOf(node)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDeleteNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	err := sess.Do(func(g *schema.Graph) error {
		return g.DeleteNode(r.PathValue("id"))
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateConstraints(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		MinCount  *string  `json:"min_count"`
		MaxCount  *string  `json:"max_count"`
		MinLength *string  `json:"min_length"`
		MaxLength *string  `json:"max_length"`
		Pattern   *string  `json:"pattern"`
		InValues  []string `json:"in_values"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var view nodeView
	err := sess.Do(func(g *schema.Graph) error {
		id := r.PathValue("id")
		if err := g.UpdateConstraints(id, schema.ConstraintUpdate{
			MinCount:  req.MinCount,
			MaxCount:  req.MaxCount,
			MinLength: req.MinLength,
			MaxLength: req.MaxLength,
			Pattern:   req.Pattern,
			InValues:  req.InValues,
		}); err != nil {
			return err
		}
		node, err := g.Node(id)
		if err != nil {
			return err
		}
		view = viewOf(node)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		From        string `json:"from"`
		To          string `json:"to"`
		Cardinality string `json:"cardinality,omitempty"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var view edgeView
	err := sess.Do(func(g *schema.Graph) error {
		edge, err := g.Connect(req.From, req.To)
		if err != nil {
			return err
		}
		if req.Cardinality != "" {
			if err := g.UpdateEdgeCardinality(req.From, req.To, req.Cardinality); err != nil {
				return err
			}
		}
		view = edgeView{ID: edge.ID, From: edge.From, To: edge.To, Cardinality: edge.Cardinality}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		From string `json:"from"`
		To   string `json:"to"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err := sess.Do(func(g *schema.Graph) error {
		return g.Disconnect(req.From, req.To)
	})
	if err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEdgeCardinality(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		From        string `json:"from"`
		To          string `json:"to"`
		Cardinality string `json:"cardinality"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var view edgeView
	err := sess.Do(func(g *schema.Graph) error {
		if err := g.UpdateEdgeCardinality(req.From, req.To, req.Cardinality); err != nil {
			return err
		}
		edge, err := g.EdgeBetween(req.From, req.To)
		if err != nil {
			return err
		}
		view = edgeView{ID: edge.ID, From: edge.From, To: edge.To, Cardinality: edge.Cardinality}
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
