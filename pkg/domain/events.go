package domain

import (
	"context"
	"time"
)

// Outcome classifies how a facade call ended.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeParseError  Outcome = "parse_error"
	OutcomeSchemaError Outcome = "schema_error"
	OutcomeError       Outcome = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time     `json:"timestamp"`
	Schema    string        `json:"schema"`
	Outcome   Outcome       `json:"outcome"`
	Duration  time.Duration `json:"duration"`
	Err       error         `json:"-"`
}

// ValidationEvent summarises a single validation.
// Counts are zero unless Outcome is OutcomeOK.
type ValidationEvent struct {
	EventBase
	Missing   int `json:"missing"`
	Invalid   int `json:"invalid"`
	Extra     int `json:"extra"`
	Validated int `json:"validated"`
}

// Passed reports whether the environment satisfied the schema.
func (e *ValidationEvent) Passed() bool {
	return e.Outcome == OutcomeOK && e.Missing == 0 && e.Invalid == 0
}

// CompareEvent summarises a comparison of two environments.
type CompareEvent struct {
	EventBase
	OnlyInA         int `json:"only_in_a"`
	OnlyInB         int `json:"only_in_b"`
	DifferentValues int `json:"different_values"`
}

// Identical reports whether both sides validated to the same values.
func (e *CompareEvent) Identical() bool {
	return e.Outcome == OutcomeOK && e.OnlyInA == 0 && e.OnlyInB == 0 && e.DifferentValues == 0
}

// Hooks defines callbacks for facade observability.
// Nil fields are skipped.
type Hooks struct {
	OnValidate func(context.Context, *ValidationEvent)
	OnCompare  func(context.Context, *CompareEvent)
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	return Hooks{
		OnValidate: chain(h.OnValidate, other.OnValidate),
		OnCompare:  chain(h.OnCompare, other.OnCompare),
	}
}

func chain[E any](first, second func(context.Context, E)) func(context.Context, E) {
	switch {
	case first == nil:
		return second
	case second == nil:
		return first
	}
	return func(ctx context.Context, e E) {
		first(ctx, e)
		second(ctx, e)
	}
}
