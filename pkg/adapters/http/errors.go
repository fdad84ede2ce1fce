package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aretw0/envguard"
	"github.com/aretw0/envguard/pkg/dotenv"
	"github.com/aretw0/envguard/pkg/ports"
	"github.com/aretw0/envguard/pkg/schema"
)

// Error kinds reported in the "kind" field.
const (
	KindBadRequest      = "bad_request"
	KindParseError      = "parse_error"
	KindSchemaError     = "schema_error"
	KindSchemaNotFound  = "schema_not_found"
	KindPayloadTooLarge = "payload_too_large"
	KindNotWatchable    = "not_watchable"
	KindInternal        = "internal"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Line  int    `json:"line,omitempty"`
	Field string `json:"field,omitempty"`
}

// requestError is a client mistake detected by the handler itself.
type requestError struct {
	status int
	kind   string
	field  string
	msg    string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(field, msg string) error {
	return &requestError{status: http.StatusBadRequest, kind: KindBadRequest, field: field, msg: msg}
}

// classify maps an error to a status code and response body.
// inline tells whether the schema came from the request, which makes schema errors the client's fault.
func classify(err error, inline bool) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error(), Kind: KindInternal}

	var (
		reqErr    *requestError
		parseErr  *dotenv.ParseError
		tooLarge  *http.MaxBytesError
		schemaErr *schema.SchemaError
	)
	switch {
	case errors.As(err, &reqErr):
		resp.Kind = reqErr.kind
		resp.Field = reqErr.field
		return reqErr.status, resp

	case errors.As(err, &tooLarge):
		resp.Kind = KindPayloadTooLarge
		return http.StatusRequestEntityTooLarge, resp

	case errors.As(err, &parseErr):
		resp.Kind = KindParseError
		resp.Line = parseErr.Line
		var inputErr *envguard.InputError
		if errors.As(err, &inputErr) {
			resp.Field = inputErr.Input
		}
		return http.StatusBadRequest, resp

	case errors.Is(err, schema.ErrNotFound):
		resp.Kind = KindSchemaNotFound
		return http.StatusNotFound, resp

	case errors.Is(err, schema.ErrInvalidName):
		resp.Kind = KindSchemaError
		return http.StatusBadRequest, resp

	case errors.As(err, &schemaErr):
		resp.Kind = KindSchemaError
		if inline {
			resp.Field = "schema_file"
			return http.StatusBadRequest, resp
		}
		return http.StatusInternalServerError, resp

	case errors.Is(err, ports.ErrNotWatchable):
		resp.Kind = KindNotWatchable
		return http.StatusNotImplemented, resp
	}

	return http.StatusInternalServerError, resp
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, inline bool) {
	status, resp := classify(err, inline)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		s.logger.DebugContext(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
