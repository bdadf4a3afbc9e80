package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	serr "github.com/I14Y-ch/structure-generator/errors"
	"github.com/I14Y-ch/structure-generator/i14y"
	"github.com/I14Y-ch/structure-generator/metric"
	"github.com/I14Y-ch/structure-generator/rdf"
	"github.com/I14Y-ch/structure-generator/session"
	"github.com/I14Y-ch/structure-generator/store"
)

// DefaultMaxRequestSize bounds request bodies. Snapshots and CSV uploads
// stay well under this.
const DefaultMaxRequestSize int64 = 4 * 1024 * 1024

// Options wires the server's collaborators. Sessions is required; Catalog
// and Store are optional and their routes respond 503 when absent.
type Options struct {
	Logger         *slog.Logger
	Registry       *metric.Registry
	Sessions       *session.Manager
	Emitter        *rdf.Emitter
	Catalog        *i14y.Client
	Store          *store.Store
	MaxRequestSize int64
}

// Server handles the editor HTTP API.
type Server struct {
	logger   *slog.Logger
	registry *metric.Registry
	metrics  *metric.Metrics
	sessions *session.Manager
	emitter  *rdf.Emitter
	catalog  *i14y.Client
	source   *i14y.Source
	store    *store.Store
	maxBody  int64
}

// NewServer validates the options and builds a server.
func NewServer(opts Options) (*Server, error) {
	if opts.Sessions == nil {
		return nil, serr.WrapInvalid(fmt.Errorf("session manager is required"),
			"api", "NewServer", "validation failed")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Emitter == nil {
		opts.Emitter = rdf.NewEmitter(opts.Logger)
	}
	if opts.MaxRequestSize <= 0 {
		opts.MaxRequestSize = DefaultMaxRequestSize
	}

	s := &Server{
		logger:   opts.Logger,
		registry: opts.Registry,
		sessions: opts.Sessions,
		emitter:  opts.Emitter,
		catalog:  opts.Catalog,
		store:    opts.Store,
		maxBody:  opts.MaxRequestSize,
	}
	if opts.Registry != nil {
		s.metrics = opts.Registry.Metrics()
	}
	if opts.Catalog != nil {
		s.source = i14y.NewSource(opts.Catalog)
	}
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/sessions", s.route("sessions", s.handleCreateSession))
	mux.HandleFunc("DELETE /api/sessions/{sid}", s.route("session", s.handleDeleteSession))

	mux.HandleFunc("GET /api/sessions/{sid}/graph", s.route("graph", s.handleGetGraph))
	mux.HandleFunc("PUT /api/sessions/{sid}/graph", s.route("graph", s.handleImportGraph))
	mux.HandleFunc("POST /api/sessions/{sid}/reset", s.route("reset", s.handleReset))

	mux.HandleFunc("POST /api/sessions/{sid}/nodes", s.route("nodes", s.handleCreateNode))
	mux.HandleFunc("GET /api/sessions/{sid}/nodes/{id}", s.route("node", s.handleGetNode))
	mux.HandleFunc("PUT /api/sessions/{sid}/nodes/{id}", s.route("node", s.handleUpdateNode))
	mux.HandleFunc("DELETE /api/sessions/{sid}/nodes/{id}", s.route("node", s.handleDeleteNode))
	mux.HandleFunc("POST /api/sessions/{sid}/nodes/{id}/constraints",
		s.route("constraints", s.handleUpdateConstraints))

	mux.HandleFunc("POST /api/sessions/{sid}/connections", s.route("connections", s.handleConnect))
	mux.HandleFunc("DELETE /api/sessions/{sid}/connections", s.route("connections", s.handleDisconnect))
	mux.HandleFunc("PUT /api/sessions/{sid}/connections/cardinality",
		s.route("cardinality", s.handleEdgeCardinality))

	mux.HandleFunc("GET /api/sessions/{sid}/export/ttl", s.route("export_ttl", s.handleExportTTL))
	mux.HandleFunc("POST /api/sessions/{sid}/import/csv", s.route("import_csv", s.handleImportCSV))

	mux.HandleFunc("GET /api/i14y/concepts", s.route("i14y_concepts", s.handleSearchConcepts))
	mux.HandleFunc("GET /api/i14y/concepts/{id}", s.route("i14y_concept", s.handleConceptDetails))
	mux.HandleFunc("GET /api/i14y/datasets", s.route("i14y_datasets", s.handleSearchDatasets))
	mux.HandleFunc("POST /api/sessions/{sid}/nodes/{id}/concept",
		s.route("concept_link", s.handleLinkConcept))
	mux.HandleFunc("DELETE /api/sessions/{sid}/nodes/{id}/concept",
		s.route("concept_link", s.handleUnlinkConcept))

	mux.HandleFunc("GET /api/structures", s.route("structures", s.handleListStructures))
	mux.HandleFunc("DELETE /api/structures/{id}", s.route("structure", s.handleDeleteStructure))
	mux.HandleFunc("POST /api/sessions/{sid}/structures", s.route("structures", s.handleSaveStructure))
	mux.HandleFunc("POST /api/sessions/{sid}/structures/{id}/load",
		s.route("structure_load", s.handleLoadStructure))

	mux.HandleFunc("GET /healthz", s.route("healthz", s.handleHealth))
	if s.registry != nil {
		mux.Handle("GET /metrics", s.registry.Handler())
	}

	return mux
}

// route wraps a handler with request id propagation, body limiting,
// logging and metrics.
func (s *Server) route(name string, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := requestIDFor(r)
		w.Header().Set("X-Request-ID", requestID)

		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBody)
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)

		duration := time.Since(start)
		if s.metrics != nil {
			s.metrics.RecordHTTPRequest(r.Method, name, strconv.Itoa(rec.status), duration)
		}
		s.logger.Debug("request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", duration,
			"request_id", requestID)
	}
}

func requestIDFor(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}
