package catalog

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/envguard/internal/logging"
	"github.com/aretw0/envguard/pkg/ports"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/microcosm-cc/bluemonday"
)

const (
	DefaultIcon  = "bi-file-earmark-code"
	DefaultColor = "#6366f1"
)

// Meta is the display metadata of a schema.
type Meta struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

// Entry is a catalog row: metadata plus variable counts.
type Entry struct {
	Meta
	Variables int `json:"variables"`
	Required  int `json:"required"`
}

// Builtins returns the metadata of the embedded schemas, in display order.
func Builtins() []Meta {
	return []Meta{
		{ID: "generic", Name: "Generic", Description: "Basic environment variables for any project", Icon: "bi-file-earmark-code", Color: "#6366f1"},
		{ID: "flask", Name: "Flask", Description: "Common variables for Flask applications", Icon: "bi-cup-hot", Color: "#10b981"},
		{ID: "fastapi", Name: "FastAPI", Description: "Environment setup for FastAPI projects", Icon: "bi-lightning-charge", Color: "#059669"},
		{ID: "django", Name: "Django", Description: "Django framework environment variables", Icon: "bi-grid-3x3", Color: "#0d9488"},
		{ID: "node", Name: "Node.js", Description: "Standard Node.js backend configuration", Icon: "bi-hexagon", Color: "#84cc16"},
		{ID: "dockerfile", Name: "Dockerfile", Description: "Environment variables for Docker containers", Icon: "bi-box-seam", Color: "#2496ed"},
	}
}

// Build lists src and describes every schema it can decode.
//
// Entries follow the order of metas, then the remaining names alphabetically.
// Metadata declared in the schema document overrides metas. Schemas that fail to
// load or decode are logged and skipped, so one broken file does not hide the rest.
func Build(ctx context.Context, src ports.SchemaSource, metas []Meta, logger *slog.Logger) ([]Entry, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	names, err := src.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}

	rank := make(map[string]int, len(metas))
	known := make(map[string]Meta, len(metas))
	for i, m := range metas {
		rank[m.ID] = i
		known[m.ID] = m
	}
	slices.SortStableFunc(names, func(a, b string) int {
		ra, okA := rank[a]
		rb, okB := rank[b]
		switch {
		case okA && okB:
			return ra - rb
		case okA:
			return -1
		case okB:
			return 1
		}
		return strings.Compare(a, b)
	})

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		data, err := src.Load(ctx, name)
		if err != nil {
			logger.Warn("skipping schema", "schema", name, "error", err)
			continue
		}
		s, err := schema.Decode(name, data)
		if err != nil {
			logger.Warn("skipping schema", "schema", name, "error", err)
			continue
		}

		entries = append(entries, Entry{
			Meta:      Describe(s, known[name]),
			Variables: s.Len(),
			Required:  s.RequiredCount(),
		})
	}
	return entries, nil
}

// Describe merges a schema's own metadata over base and sanitises the result.
func Describe(s *schema.Schema, base Meta) Meta {
	m := base
	m.ID = s.ID
	if s.Meta.Name != "" {
		m.Name = s.Meta.Name
	}
	if s.Meta.Description != "" {
		m.Description = s.Meta.Description
	}
	if s.Meta.Icon != "" {
		m.Icon = s.Meta.Icon
	}
	if s.Meta.Color != "" {
		m.Color = s.Meta.Color
	}
	return Sanitize(m)
}

var (
	iconPattern  = regexp.MustCompile(`^bi-[a-z0-9]+(-[a-z0-9]+)*$`)
	colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
)

// Sanitize strips markup from the text fields and replaces icons and colors
// that are not a Bootstrap icon class or a hex color with the defaults.
func Sanitize(m Meta) Meta {
	m.Name = plainText(m.Name)
	if m.Name == "" {
		m.Name = TitleCase(m.ID)
	}
	m.Description = plainText(m.Description)

	m.Icon = strings.TrimSpace(m.Icon)
	if !iconPattern.MatchString(m.Icon) {
		m.Icon = DefaultIcon
	}
	m.Color = strings.TrimSpace(m.Color)
	if !colorPattern.MatchString(m.Color) {
		m.Color = DefaultColor
	}
	return m
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}

// plainText removes every tag. Entities produced by the policy are decoded again
// because the result is escaped by whatever renders it.
func plainText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(textSanitizer().Sanitize(trimmed)))
}

// TitleCase turns an identifier such as "my_api-prod" into "My Api Prod".
func TitleCase(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
