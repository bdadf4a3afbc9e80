package api

import (
	"net/http"
	"strconv"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/i14y"
	"github.com/I14Y-ch/structure-generator/schema"
)

// catalogReady reports whether the I14Y client is configured, writing a
// 503 otherwise.
func (s *Server) catalogReady(w http.ResponseWriter) bool {
	if s.catalog == nil {
		writeError(w, serr.WrapTransient(serr.ErrLookupFailed, "api", "catalogReady",
			"catalog client not configured"))
		return false
	}
	return true
}

func pageParams(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("page_size"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func (s *Server) handleSearchConcepts(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w) {
		return
	}
	page, pageSize := pageParams(r)
	results := s.catalog.SearchConcepts(r.Context(), r.URL.Query().Get("q"), page, pageSize)
	writeJSON(w, http.StatusOK, map[string]any{"data": results})
}

func (s *Server) handleSearchDatasets(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w) {
		return
	}
	page, pageSize := pageParams(r)
	results := s.catalog.SearchDatasets(r.Context(), r.URL.Query().Get("q"), page, pageSize)
	writeJSON(w, http.StatusOK, map[string]any{"data": results})
}

func (s *Server) handleConceptDetails(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w) {
		return
	}
	record, err := s.catalog.ConceptDetails(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleLinkConcept(w http.ResponseWriter, r *http.Request) {
	if !s.catalogReady(w) {
		return
	}
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req struct {
		ConceptID string `json:"concept_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ConceptID == "" {
		writeError(w, serr.WrapInvalid(serr.ErrInvalidData, "api", "handleLinkConcept",
			"concept_id is required"))
		return
	}

	record, err := s.catalog.ConceptDetails(r.Context(), req.ConceptID)
	if err != nil {
		writeError(w, err)
		return
	}
	facts, err := s.source.Facts(r.Context(), req.ConceptID)
	if err != nil {
		writeError(w, err)
		return
	}
	link, err := i14y.ConceptLink(record, facts)
	if err != nil {
		writeError(w, err)
		return
	}

	var view nodeView
	err = sess.Do(func(g *schema.Graph) error {
		node, err := g.Node(r.PathValue("id"))
		if err != nil {
			return err
		}
		node.LinkConcept(link)
		view = viewOf(node)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("concept linked",
		"session_id", sess.ID(), "node_id", view.ID, "concept_id", link.ID)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleUnlinkConcept(w http.ResponseWriter, r *http.Request) {
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
		node.UnlinkConcept()
		view = viewOf(node)
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
