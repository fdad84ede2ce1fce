package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/envguard"
	"github.com/aretw0/envguard/pkg/catalog"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// SchemaParams are the query parameters shared by validate and compare.
type SchemaParams struct {
	Schema *string `form:"schema,omitempty" json:"schema,omitempty"`
}

// SchemaDetail is the body of GET /api/schemas/{name}.
type SchemaDetail struct {
	catalog.Meta
	Variables json.RawMessage `json:"variables"`
}

func bindSchemaParams(r *http.Request) (SchemaParams, error) {
	var params SchemaParams
	if err := runtime.BindQueryParameter("form", true, false, "schema", r.URL.Query(), &params.Schema); err != nil {
		return params, badRequest("schema", fmt.Sprintf("invalid format for parameter schema: %v", err))
	}
	return params, nil
}

// readUpload returns the text of a multipart file field.
func readUpload(r *http.Request, field string, required bool) (string, bool, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			if required {
				return "", false, badRequest(field, fmt.Sprintf("missing file field %q", field))
			}
			return "", false, nil
		}
		return "", false, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", false, err
	}
	if !utf8.Valid(data) {
		return "", false, badRequest(field, fmt.Sprintf("file field %q is not valid UTF-8", field))
	}
	return string(data), true, nil
}

// parseUpload limits and parses a multipart request and resolves the schema reference.
func (s *Server) parseUpload(w http.ResponseWriter, r *http.Request) (envguard.SchemaRef, error) {
	var ref envguard.SchemaRef

	params, err := bindSchemaParams(r)
	if err != nil {
		return ref, err
	}
	if params.Schema != nil {
		ref.Name = strings.TrimSpace(*params.Schema)
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ref, tooLarge
		}
		return ref, badRequest("", fmt.Sprintf("invalid multipart body: %v", err))
	}

	content, ok, err := readUpload(r, "schema_file", false)
	if err != nil {
		return ref, err
	}
	if ok {
		ref.Content = []byte(content)
	}
	return ref, nil
}

// ValidateEnv handles POST /api/validate.
func (s *Server) ValidateEnv(w http.ResponseWriter, r *http.Request) {
	ref, err := s.parseUpload(w, r)
	if err != nil {
		s.writeError(w, r, err, false)
		return
	}
	defer r.MultipartForm.RemoveAll()

	text, _, err := readUpload(r, "file", true)
	if err != nil {
		s.writeError(w, r, err, false)
		return
	}

	report, err := s.guard.Validate(r.Context(), text, ref)
	if err != nil {
		s.writeError(w, r, err, len(ref.Content) > 0)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// CompareEnvs handles POST /api/compare.
func (s *Server) CompareEnvs(w http.ResponseWriter, r *http.Request) {
	ref, err := s.parseUpload(w, r)
	if err != nil {
		s.writeError(w, r, err, false)
		return
	}
	defer r.MultipartForm.RemoveAll()

	textA, _, err := readUpload(r, envguard.InputA, true)
	if err != nil {
		s.writeError(w, r, err, false)
		return
	}
	textB, _, err := readUpload(r, envguard.InputB, true)
	if err != nil {
		s.writeError(w, r, err, false)
		return
	}

	diff, err := s.guard.Compare(r.Context(), textA, textB, ref)
	if err != nil {
		s.writeError(w, r, err, len(ref.Content) > 0)
		return
	}
	s.writeJSON(w, http.StatusOK, diff)
}

// ListSchemas handles GET /api/schemas.
func (s *Server) ListSchemas(w http.ResponseWriter, r *http.Request) {
	entries, err := s.guard.Schemas(r.Context())
	if err != nil {
		s.writeError(w, r, err, false)
		return
	}
	s.writeJSON(w, http.StatusOK, entries)
}

// GetSchema handles GET /api/schemas/{name}.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	sc, err := s.guard.Schema(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err, false)
		return
	}

	// MarshalJSON keeps declaration order; reuse its variables object as is.
	encoded, err := sc.MarshalJSON()
	if err != nil {
		s.writeError(w, r, err, false)
		return
	}
	var doc struct {
		Variables json.RawMessage `json:"variables"`
	}
	if err := json.Unmarshal(encoded, &doc); err != nil {
		s.writeError(w, r, err, false)
		return
	}

	s.writeJSON(w, http.StatusOK, SchemaDetail{
		Meta:      s.guard.Describe(sc),
		Variables: doc.Variables,
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	} else if err != nil {
		s.logger.Error("failed to load OpenAPI document", "error", err)
	}

	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "envguard-http",
		"version":     strings.TrimSpace(envguard.Version),
		"api_version": apiVersion,
	})
}
