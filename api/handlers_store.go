package api

import (
	"net/http"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/schema"
	"github.com/I14Y-ch/structure-generator/store"
	"github.com/I14Y-ch/structure-generator/vocabulary"
)

// storeReady reports whether snapshot persistence is configured, writing
// a 503 otherwise.
func (s *Server) storeReady(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, serr.WrapTransient(serr.ErrStorageUnavailable, "api", "storeReady",
			"snapshot store not configured"))
		return false
	}
	return true
}

type structureSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Version     int64  `json:"version"`
	UpdatedAt   string `json:"updated_at"`
}

func summaryOf(rec *store.Record) structureSummary {
	return structureSummary{
		ID:          rec.ID,
		Name:        rec.Name,
		Description: rec.Description,
		Version:     rec.Version,
		UpdatedAt:   rec.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (s *Server) handleListStructures(w http.ResponseWriter, r *http.Request) {
	if !s.storeReady(w) {
		return
	}

	recs, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	summaries := make([]structureSummary, 0, len(recs))
	for _, rec := range recs {
		summaries = append(summaries, summaryOf(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": summaries})
}

func (s *Server) handleDeleteStructure(w http.ResponseWriter, r *http.Request) {
	if !s.storeReady(w) {
		return
	}

	if err := s.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSaveStructure stores the session's current graph under a name.
// Without an explicit id the normalized name is used. An existing record
// is updated in place.
func (s *Server) handleSaveStructure(w http.ResponseWriter, r *http.Request) {
	if !s.storeReady(w) {
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Name == "" {
		writeError(w, serr.WrapInvalid(serr.ErrInvalidData, "api", "handleSaveStructure",
			"name is required"))
		return
	}
	if req.ID == "" {
		req.ID = vocabulary.NormalizeID(req.Name)
	}

	var snap schema.Snapshot
	_ = sess.Do(func(g *schema.Graph) error {
		snap = g.Snapshot()
		return nil
	})

	if existing, err := s.store.Get(r.Context(), req.ID); err == nil {
		// The fetched record carries the revision the update is
		// compared-and-swapped against.
		existing.Name = req.Name
		existing.Description = req.Description
		existing.Snapshot = snap
		if err := s.store.Update(r.Context(), existing); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, summaryOf(existing))
		return
	} else if !serr.IsNotFound(err) {
		writeError(w, err)
		return
	}

	rec := &store.Record{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Snapshot:    snap,
	}
	if err := s.store.Create(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, summaryOf(rec))
}

// handleLoadStructure replaces the session graph with a stored snapshot.
func (s *Server) handleLoadStructure(w http.ResponseWriter, r *http.Request) {
	if !s.storeReady(w) {
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	rec, err := s.store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	g, err := rec.Snapshot.Restore()
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Replace(g)

	s.logger.Info("structure loaded", "session_id", sess.ID(), "structure_id", rec.ID)
	writeJSON(w, http.StatusOK, g.Snapshot())
}
