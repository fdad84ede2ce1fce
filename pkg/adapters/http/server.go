package http

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/envguard"
	"github.com/aretw0/envguard/internal/logging"
	"github.com/aretw0/envguard/pkg/catalog"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/aretw0/envguard/pkg/validator"
	"github.com/aretw0/envguard/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// DefaultMaxUploadBytes caps the size of a whole multipart request.
	DefaultMaxUploadBytes int64 = 1 << 20

	// DefaultRequestTimeout bounds every non-streaming request.
	DefaultRequestTimeout = 30 * time.Second
)

// Guard defines the envguard operations the HTTP layer needs.
type Guard interface {
	Validate(ctx context.Context, envText string, ref envguard.SchemaRef) (*validator.Report, error)
	Compare(ctx context.Context, textA, textB string, ref envguard.SchemaRef) (*validator.DiffReport, error)
	Schema(ctx context.Context, name string) (*schema.Schema, error)
	Schemas(ctx context.Context) ([]catalog.Entry, error)
	Describe(s *schema.Schema) catalog.Meta
	DefaultSchema() string
	Watch(ctx context.Context) (<-chan string, error)
}

// Options configures the handler. Only Guard is required.
type Options struct {
	Guard  Guard
	Logger *slog.Logger

	// Templates and Static default to the embedded web assets.
	Templates fs.FS
	Static    fs.FS

	// Gatherer enables GET /metrics when set.
	Gatherer prometheus.Gatherer

	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// Server holds the resolved dependencies of every route.
type Server struct {
	guard          Guard
	logger         *slog.Logger
	pages          *pages
	static         fs.FS
	maxUploadBytes int64
}

// NewHandler builds the router. Templates are parsed here, so a broken
// template fails at startup instead of on the first request.
func NewHandler(opts Options) (http.Handler, error) {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	if opts.Templates == nil {
		opts.Templates = web.Templates()
	}
	if opts.Static == nil {
		opts.Static = web.Static()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	pg, err := newPages(opts.Templates, strings.TrimSpace(envguard.Version))
	if err != nil {
		return nil, err
	}

	s := &Server{
		guard:          opts.Guard,
		logger:         opts.Logger,
		pages:          pg,
		static:         opts.Static,
		maxUploadBytes: opts.MaxUploadBytes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	// Streaming routes must outlive the request timeout.
	r.Get("/events", s.SubscribeEvents)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(opts.RequestTimeout))

		r.Post("/api/validate", s.ValidateEnv)
		r.Post("/api/compare", s.CompareEnvs)
		r.Get("/api/schemas", s.ListSchemas)
		r.Get("/api/schemas/{name}", s.GetSchema)

		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			w.Write(rawSpec())
		})
		r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(swaggerHTML))
		})
		if opts.Gatherer != nil {
			r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
		}

		r.Get("/", s.IndexPage)
		r.Get("/ui/validate", s.ValidatePage)
		r.Get("/ui/compare", s.ComparePage)
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))
	})

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLogger logs one line per request with the status and latency.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				logger.DebugContext(r.Context(), "http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
