package envguard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/envguard/internal/logging"
	"github.com/aretw0/envguard/pkg/adapters/file"
	"github.com/aretw0/envguard/pkg/catalog"
	"github.com/aretw0/envguard/pkg/domain"
	"github.com/aretw0/envguard/pkg/dotenv"
	"github.com/aretw0/envguard/pkg/ports"
	"github.com/aretw0/envguard/pkg/schema"
	"github.com/aretw0/envguard/pkg/validator"
	"github.com/aretw0/envguard/schemas"
)

const (
	// DefaultSchema is used when a SchemaRef names nothing.
	DefaultSchema = "generic"

	// CustomSchema names schemas supplied inline through SchemaRef.Content.
	CustomSchema = "custom"
)

// SchemaRef selects the schema for a call.
// Non-empty Content wins and is decoded as is; otherwise Name is looked up
// in the configured source, falling back to the default schema.
type SchemaRef struct {
	Name    string
	Content []byte
}

// Named is a shorthand for SchemaRef{Name: name}.
func Named(name string) SchemaRef {
	return SchemaRef{Name: name}
}

// Inline is a shorthand for SchemaRef{Content: content}.
func Inline(content []byte) SchemaRef {
	return SchemaRef{Content: content}
}

// Guard is the high-level entry point for the envguard library.
// It ties a schema source to the parser and validator and reports every call to hooks.
// Safe for concurrent use.
type Guard struct {
	source        ports.SchemaSource
	defaultSchema string
	metas         []catalog.Meta
	hooks         domain.Hooks
	logger        *slog.Logger
}

// Option defines a functional option for configuring the Guard.
type Option func(*Guard)

// WithSource replaces the embedded built-in schemas.
// Use chain.New to layer a custom source over BuiltinSource().
func WithSource(src ports.SchemaSource) Option {
	return func(g *Guard) {
		g.source = src
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Guard) {
		g.logger = logger
	}
}

// WithHooks registers observability hooks. Repeated calls are merged.
func WithHooks(hooks domain.Hooks) Option {
	return func(g *Guard) {
		g.hooks = g.hooks.Merge(hooks)
	}
}

// WithDefaultSchema sets the schema used when a reference names none.
func WithDefaultSchema(name string) Option {
	return func(g *Guard) {
		g.defaultSchema = name
	}
}

// WithCatalog sets the display metadata used by Schemas.
func WithCatalog(metas []catalog.Meta) Option {
	return func(g *Guard) {
		g.metas = metas
	}
}

// BuiltinSource returns a source over the embedded schemas.
func BuiltinSource() ports.SchemaSource {
	return file.New(schemas.FS)
}

// New initializes a Guard.
// Without options it serves the embedded built-in schemas with "generic" as default.
func New(opts ...Option) (*Guard, error) {
	g := &Guard{
		defaultSchema: DefaultSchema,
		metas:         catalog.Builtins(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.source == nil {
		g.source = BuiltinSource()
	}
	if g.logger == nil {
		g.logger = logging.NewNop()
	}
	if err := ports.ValidateName(g.defaultSchema); err != nil {
		return nil, fmt.Errorf("default schema: %w", err)
	}

	return g, nil
}

// Source returns the schema source.
func (g *Guard) Source() ports.SchemaSource {
	return g.source
}

// DefaultSchema returns the name used when a reference names none.
func (g *Guard) DefaultSchema() string {
	return g.defaultSchema
}

// RefName returns the name a reference resolves to.
func (g *Guard) RefName(ref SchemaRef) string {
	switch {
	case len(ref.Content) > 0:
		return CustomSchema
	case ref.Name != "":
		return ref.Name
	}
	return g.defaultSchema
}

// ResolveSchema decodes the schema a reference points to.
// Failures are *schema.SchemaError, except source outages, which are wrapped as is.
func (g *Guard) ResolveSchema(ctx context.Context, ref SchemaRef) (*schema.Schema, error) {
	if len(ref.Content) > 0 {
		return schema.Decode(CustomSchema, ref.Content)
	}
	return g.Schema(ctx, g.RefName(ref))
}

// Schema loads and decodes a schema from the source.
func (g *Guard) Schema(ctx context.Context, name string) (*schema.Schema, error) {
	if name == "" {
		name = g.defaultSchema
	}

	data, err := g.source.Load(ctx, name)
	if err != nil {
		switch {
		case errors.Is(err, schema.ErrNotFound):
			return nil, &schema.SchemaError{Schema: name, Err: schema.ErrNotFound}
		case errors.Is(err, schema.ErrInvalidName):
			return nil, &schema.SchemaError{Schema: name, Err: schema.ErrInvalidName}
		}
		return nil, fmt.Errorf("load schema %q: %w", name, err)
	}
	return schema.Decode(name, data)
}

// Schemas describes every schema in the source.
func (g *Guard) Schemas(ctx context.Context) ([]catalog.Entry, error) {
	return catalog.Build(ctx, g.source, g.metas, g.logger)
}

// Describe returns the display metadata of s, merged over the configured catalog.
func (g *Guard) Describe(s *schema.Schema) catalog.Meta {
	base := catalog.Meta{ID: s.ID}
	for _, m := range g.metas {
		if m.ID == s.ID {
			base = m
			break
		}
	}
	return catalog.Describe(s, base)
}

// Validate parses envText and validates it against the referenced schema.
func (g *Guard) Validate(ctx context.Context, envText string, ref SchemaRef) (*validator.Report, error) {
	start := time.Now()
	event := &domain.ValidationEvent{}
	event.Timestamp = start
	event.Schema = g.RefName(ref)

	report, err := g.validate(ctx, envText, ref)

	event.Duration = time.Since(start)
	event.Outcome = outcome(err)
	event.Err = err
	if report != nil {
		event.Missing = len(report.Missing)
		event.Invalid = len(report.Invalid)
		event.Extra = len(report.Extra)
		event.Validated = report.Validated.Len()
	}
	if g.hooks.OnValidate != nil {
		g.hooks.OnValidate(ctx, event)
	}

	return report, err
}

// validate parses before resolving the schema, so a malformed input is reported
// as a parse error whatever the schema reference.
func (g *Guard) validate(ctx context.Context, envText string, ref SchemaRef) (*validator.Report, error) {
	env, err := dotenv.Parse(envText)
	if err != nil {
		return nil, err
	}
	s, err := g.ResolveSchema(ctx, ref)
	if err != nil {
		return nil, err
	}
	return validator.Validate(env, s)
}

// Compare parses both texts and diffs their validated values under the referenced schema.
// Parse errors are wrapped in an *InputError naming the side they came from.
func (g *Guard) Compare(ctx context.Context, textA, textB string, ref SchemaRef) (*validator.DiffReport, error) {
	start := time.Now()
	event := &domain.CompareEvent{}
	event.Timestamp = start
	event.Schema = g.RefName(ref)

	diff, err := g.compare(ctx, textA, textB, ref)

	event.Duration = time.Since(start)
	event.Outcome = outcome(err)
	event.Err = err
	if diff != nil {
		event.OnlyInA = len(diff.OnlyInA)
		event.OnlyInB = len(diff.OnlyInB)
		event.DifferentValues = len(diff.DifferentValues)
	}
	if g.hooks.OnCompare != nil {
		g.hooks.OnCompare(ctx, event)
	}

	return diff, err
}

func (g *Guard) compare(ctx context.Context, textA, textB string, ref SchemaRef) (*validator.DiffReport, error) {
	envA, err := dotenv.Parse(textA)
	if err != nil {
		return nil, &InputError{Input: InputA, Err: err}
	}
	envB, err := dotenv.Parse(textB)
	if err != nil {
		return nil, &InputError{Input: InputB, Err: err}
	}
	s, err := g.ResolveSchema(ctx, ref)
	if err != nil {
		return nil, err
	}
	return validator.Compare(envA, envB, s)
}

// Names of the compared inputs, as used in InputError.
const (
	InputA = "env_a"
	InputB = "env_b"
)

// InputError attributes a parse failure to one of the compared inputs.
type InputError struct {
	Input string
	Err   error
}

func (e *InputError) Error() string {
	return e.Input + ": " + e.Err.Error()
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// Watch returns a channel that receives the name of every schema that changes.
// Returns ports.ErrNotWatchable if the source does not support watching.
func (g *Guard) Watch(ctx context.Context) (<-chan string, error) {
	w, ok := g.source.(ports.Watchable)
	if !ok {
		return nil, ports.ErrNotWatchable
	}
	return w.Watch(ctx)
}

func outcome(err error) domain.Outcome {
	var parseErr *dotenv.ParseError
	switch {
	case err == nil:
		return domain.OutcomeOK
	case errors.As(err, &parseErr):
		return domain.OutcomeParseError
	case schema.IsSchemaError(err):
		return domain.OutcomeSchemaError
	}
	return domain.OutcomeError
}
