package api

import (
	"fmt"
	"io"
	"net/http"
	"time"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/importer"
	"github.com/I14Y-ch/structure-generator/schema"
	"github.com/I14Y-ch/structure-generator/vocabulary"
)

func (s *Server) handleExportTTL(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	start := time.Now()
	var doc, filename string
	err := sess.Do(func(g *schema.Graph) error {
		out, err := s.emitter.Emit(g)
		if err != nil {
			return err
		}
		doc = out
		filename = vocabulary.NormalizeID(g.Dataset().DisplayTitle()) + ".ttl"
		return nil
	})

	if s.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.RecordExport(status, time.Since(start))
	}
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/turtle; charset=utf-8")
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}

func (s *Server) handleImportGraph(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, serr.WrapInvalid(err, "api", "handleImportGraph", "read request body"))
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	g, err := schema.LoadSnapshot(data)
	if err != nil {
		writeError(w, err)
		return
	}
	sess.Replace(g)

	s.logger.Info("graph imported", "session_id", sess.ID(), "nodes", g.Len())
	writeJSON(w, http.StatusOK, g.Snapshot())
}

func (s *Server) handleImportCSV(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, serr.WrapInvalid(err, "api", "handleImportCSV", "read request body"))
		return
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = "de"
	}
	opts := importer.Options{
		DatasetName: r.URL.Query().Get("dataset_name"),
		Lang:        lang,
	}

	var snap schema.Snapshot
	var created int
	err = sess.Do(func(g *schema.Graph) error {
		nodes, err := importer.ImportCSV(g, data, opts)
		if err != nil {
			return err
		}
		created = len(nodes)
		snap = g.Snapshot()
		return nil
	})
	if err != nil {
		writeError(w, err)
		return
	}

	s.logger.Info("csv imported", "session_id", sess.ID(), "columns", created)
	writeJSON(w, http.StatusOK, snap)
}
