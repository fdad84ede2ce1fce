package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/envguard"
	"github.com/aretw0/envguard/internal/logging"
	"github.com/aretw0/envguard/pkg/catalog"
	"github.com/aretw0/envguard/pkg/dotenv"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/aretw0/envguard/pkg/validator"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CatalogURI is the resource listing every known schema.
const CatalogURI = "envguard://schemas"

// Guard defines the envguard operations exposed as tools.
type Guard interface {
	Validate(ctx context.Context, envText string, ref envguard.SchemaRef) (*validator.Report, error)
	Compare(ctx context.Context, textA, textB string, ref envguard.SchemaRef) (*validator.DiffReport, error)
	Schema(ctx context.Context, name string) (*schema.Schema, error)
	Schemas(ctx context.Context) ([]catalog.Entry, error)
}

// Server wraps a Guard and exposes it as an MCP Server.
type Server struct {
	guard     Guard
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(guard Guard, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		guard:     guard,
		logger:    logger,
		mcpServer: server.NewMCPServer("envguard-mcp", strings.TrimSpace(envguard.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP endpoints over SSE on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr string) error {
	baseURL := "http://localhost" + addr
	if !strings.HasPrefix(addr, ":") {
		baseURL = "http://" + addr
	}
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: validate_env
	s.mcpServer.AddTool(mcp.NewTool("validate_env",
		mcp.WithDescription("Validate the text of a .env file against a schema. Returns missing, invalid, extra and validated keys."),
		mcp.WithString("env", mcp.Required(), mcp.Description("Contents of the .env file")),
		mcp.WithString("schema", mcp.Description("Name of a known schema (defaults to generic)")),
		mcp.WithString("schema_content", mcp.Description("Inline YAML schema; takes precedence over schema")),
	), s.handleValidate)

	// TOOL: compare_envs
	s.mcpServer.AddTool(mcp.NewTool("compare_envs",
		mcp.WithDescription("Validate two .env files against the same schema and report keys present on one side only or with different values."),
		mcp.WithString("env_a", mcp.Required(), mcp.Description("Contents of the first .env file")),
		mcp.WithString("env_b", mcp.Required(), mcp.Description("Contents of the second .env file")),
		mcp.WithString("schema", mcp.Description("Name of a known schema (defaults to generic)")),
		mcp.WithString("schema_content", mcp.Description("Inline YAML schema; takes precedence over schema")),
	), s.handleCompare)

	// TOOL: list_schemas
	s.mcpServer.AddTool(mcp.NewTool("list_schemas",
		mcp.WithDescription("List the known schemas with their metadata and variable counts."),
	), s.handleListSchemas)

	// TOOL: get_schema
	s.mcpServer.AddTool(mcp.NewTool("get_schema",
		mcp.WithDescription("Get the rules of a known schema, in declaration order."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Schema name")),
	), s.handleGetSchema)
}

func schemaRef(request mcp.CallToolRequest) (envguard.SchemaRef, error) {
	ref := envguard.SchemaRef{Name: strings.TrimSpace(request.GetString("schema", ""))}
	if content := request.GetString("schema_content", ""); content != "" {
		if err := checkInput("schema_content", content); err != nil {
			return ref, err
		}
		ref.Content = []byte(content)
	}
	return ref, nil
}

// requireInput returns a required string argument that passes checkInput.
func requireInput(request mcp.CallToolRequest, name string) (string, error) {
	value, err := request.RequireString(name)
	if err != nil {
		return "", err
	}
	if err := checkInput(name, value); err != nil {
		return "", err
	}
	return value, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	env, err := requireInput(request, "env")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ref, err := schemaRef(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := s.guard.Validate(ctx, env, ref)
	if err != nil {
		return s.toolError("validate", err), nil
	}
	return jsonResult(report)
}

func (s *Server) handleCompare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	envA, err := requireInput(request, envguard.InputA)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	envB, err := requireInput(request, envguard.InputB)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	ref, err := schemaRef(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	diff, err := s.guard.Compare(ctx, envA, envB, ref)
	if err != nil {
		return s.toolError("compare", err), nil
	}
	return jsonResult(diff)
}

func (s *Server) handleListSchemas(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := s.guard.Schemas(ctx)
	if err != nil {
		return s.toolError("list schemas", err), nil
	}
	return jsonResult(entries)
}

func (s *Server) handleGetSchema(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sc, err := s.guard.Schema(ctx, name)
	if err != nil {
		return s.toolError("get schema", err), nil
	}
	return jsonResult(sc)
}

// toolError reports a failed call to the client. Domain errors are the caller's
// to fix, so only unexpected ones are logged.
func (s *Server) toolError(op string, err error) *mcp.CallToolResult {
	if !schema.IsSchemaError(err) && !isParseError(err) {
		s.logger.Error("MCP tool failed", "op", op, "error", err)
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", op, err))
}

func isParseError(err error) bool {
	var parseErr *dotenv.ParseError
	return errors.As(err, &parseErr)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) registerResources() {
	// EXPOSE: envguard://schemas
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Schema catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		entries, err := s.guard.Schemas(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list schemas: %w", err)
		}
		data, err := json.Marshal(entries)
		if err != nil {
			return nil, err
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      CatalogURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	})
}
