package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	serr "github.com/I14Y-ch/structure-generator/errors"
)

type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error classification to an HTTP status. Invalid and
// not-found errors carry their message to the client; everything else is
// reduced to a generic message so internals stay internal.
func writeError(w http.ResponseWriter, err error) {
	status := statusFromError(err)

	msg := "internal server error"
	switch {
	case status == http.StatusNotFound, status == http.StatusConflict, serr.IsInvalid(err):
		msg = err.Error()
	case serr.IsTransient(err):
		msg = "service temporarily unavailable"
		if strings.Contains(err.Error(), "timeout") {
			msg = "request timeout"
		}
	}

	writeJSON(w, status, errorBody{Error: msg, Status: status})
}

func statusFromError(err error) int {
	switch {
	case err == nil:
		return http.StatusInternalServerError
	case serr.IsNotFound(err):
		return http.StatusNotFound
	case isConflict(err):
		return http.StatusConflict
	case serr.IsInvalid(err):
		return http.StatusBadRequest
	case serr.IsTransient(err):
		if strings.Contains(err.Error(), "timeout") {
			return http.StatusGatewayTimeout
		}
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func isConflict(err error) bool {
	return errors.Is(err, serr.ErrSnapshotConflict) ||
		errors.Is(err, serr.ErrDatasetExists) ||
		errors.Is(err, serr.ErrDatasetProtected)
}

// decodeJSON reads and unmarshals the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return serr.WrapInvalid(err, "api", "decodeJSON", "read request body")
	}
	if len(data) == 0 {
		return serr.WrapInvalid(serr.ErrInvalidData, "api", "decodeJSON", "empty request body")
	}
	if err := json.Unmarshal(data, v); err != nil {
		return serr.WrapInvalid(err, "api", "decodeJSON", "parse request body")
	}
	return nil
}
