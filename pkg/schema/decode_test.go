package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"
)

const genericYAML = `
name: Generic
description: Basic environment variables
variables:
  DATABASE_URL:
    type: string
    required: true
  PORT:
    type: int
    required: true
    min: 1024
    max: 65535
  DEBUG:
    type: bool
  LOG_LEVEL:
`

func TestDecode_PreservesOrder(t *testing.T) {
	s, err := Decode("generic", []byte(genericYAML))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	want := []string{"DATABASE_URL", "PORT", "DEBUG", "LOG_LEVEL"}
	rules := s.Rules()
	if len(rules) != len(want) {
		t.Fatalf("got %d rules, want %d", len(rules), len(want))
	}
	for i, r := range rules {
		if r.Key != want[i] {
			t.Errorf("rule %d = %q, want %q", i, r.Key, want[i])
		}
	}

	if s.Meta.Name != "Generic" {
		t.Errorf("Meta.Name = %q", s.Meta.Name)
	}
	if s.RequiredCount() != 2 {
		t.Errorf("RequiredCount() = %d, want 2", s.RequiredCount())
	}
}

func TestDecode_RuleFields(t *testing.T) {
	s, err := Decode("generic", []byte(genericYAML))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	port, ok := s.Rule("PORT")
	if !ok {
		t.Fatal("PORT rule missing")
	}
	if port.Type != TypeInt || !port.Required {
		t.Errorf("PORT = %+v", port)
	}
	if port.Min == nil || *port.Min != 1024 || port.Max == nil || *port.Max != 65535 {
		t.Errorf("PORT bounds = %v..%v", port.Min, port.Max)
	}

	logLevel, _ := s.Rule("LOG_LEVEL")
	if logLevel.Type != TypeString || logLevel.Required {
		t.Errorf("null rule should default to optional string, got %+v", logLevel)
	}
}

func TestDecode_JSON(t *testing.T) {
	s, err := Decode("inline", []byte(`{"variables": {"B": {"type": "int"}, "A": {"type": "bool", "required": true}}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got := s.Rules(); got[0].Key != "B" || got[1].Key != "A" {
		t.Errorf("JSON order not preserved: %v", got)
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{"empty document", "", ErrNoVariables},
		{"no variables", "name: x\n", ErrNoVariables},
		{"top level list", "- a\n- b\n", ErrNoVariables},
		{"variables not a mapping", "variables: [A, B]\n", ErrNoVariables},
		{"syntax error", "variables: {A: [\n", ErrMalformed},
		{"rule not a mapping", "variables:\n  A: int\n", ErrMalformed},
		{"required not bool", "variables:\n  A:\n    required: maybe\n", ErrMalformed},
		{"fractional bound", "variables:\n  A:\n    type: int\n    min: 1.5\n", ErrMalformed},
		{"bound above int64", "variables:\n  A:\n    type: int\n    min: 9223372036854775808\n", ErrMalformed},
		{"bound below int64", "variables:\n  A:\n    type: int\n    min: -9223372036854775809\n", ErrMalformed},
		{"huge float bound", "variables:\n  A:\n    type: int\n    min: 1e30\n", ErrMalformed},
		{"infinite bound", "variables:\n  A:\n    type: int\n    max: .inf\n", ErrMalformed},
		{"merge of a scalar", "variables:\n  <<: 3\n", ErrMalformed},
		{"bound on string", "variables:\n  A:\n    type: string\n    max: 10\n", ErrIncompatibleBound},
		{"bound on bool", "variables:\n  A:\n    type: bool\n    min: 0\n", ErrIncompatibleBound},
		{"min above max", "variables:\n  A:\n    type: int\n    min: 10\n    max: 1\n", ErrIncompatibleBound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode("fixture", []byte(tt.doc))
			if !errors.Is(err, tt.want) {
				t.Fatalf("Decode() error = %v, want %v", err, tt.want)
			}
			if !IsSchemaError(err) {
				t.Errorf("error should be *SchemaError, got %T", err)
			}
		})
	}
}

func TestDecode_LargeBoundsKeptExactly(t *testing.T) {
	s, err := Decode("fixture", []byte("variables:\n  A:\n    type: int\n    min: -9223372036854775808\n    max: 9223372036854775807\n"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	r, _ := s.Rule("A")
	if *r.Min != math.MinInt64 || *r.Max != math.MaxInt64 {
		t.Errorf("bounds = %d..%d", *r.Min, *r.Max)
	}
}

func TestDecode_MergeKeys(t *testing.T) {
	doc := `
base: &base
  DATABASE_URL:
    type: string
    required: true
  PORT:
    type: int
variables:
  DEBUG:
    type: bool
  <<: *base
  PORT:
    type: int
    min: 1024
`
	s, err := Decode("merged", []byte(doc))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	var keys []string
	for _, r := range s.Rules() {
		keys = append(keys, r.Key)
	}
	if got, want := fmt.Sprint(keys), "[DEBUG DATABASE_URL PORT]"; got != want {
		t.Errorf("keys = %s, want %s", got, want)
	}
	if s.Has("<<") {
		t.Error("merge key decoded as a variable")
	}
	port, _ := s.Rule("PORT")
	if port.Min == nil || *port.Min != 1024 {
		t.Errorf("explicit PORT should override the merged one, got %+v", port)
	}
	db, _ := s.Rule("DATABASE_URL")
	if !db.Required {
		t.Errorf("merged DATABASE_URL = %+v", db)
	}
}

func TestDecode_YAML11Booleans(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"yes", true},
		{"on", true},
		{"Y", true},
		{"no", false},
		{"OFF", false},
		{"true", true},
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			s, err := Decode("fixture", []byte("variables:\n  A:\n    required: "+tt.word+"\n"))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			r, _ := s.Rule("A")
			if r.Required != tt.want {
				t.Errorf("required: %s decoded as %v", tt.word, r.Required)
			}
		})
	}
}

func TestDecode_UnknownTypeIsKept(t *testing.T) {
	s, err := Decode("fixture", []byte("variables:\n  RATIO:\n    type: float\n"))
	if err != nil {
		t.Fatalf("unknown types surface at validation time, Decode() error = %v", err)
	}
	r, _ := s.Rule("RATIO")
	if r.Type != "float" {
		t.Errorf("Type = %q, want float", r.Type)
	}
}

func TestNew_DuplicateKey(t *testing.T) {
	_, err := New("dup", Rule{Key: "A"}, Rule{Key: "A", Type: TypeInt})
	if !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("New() error = %v, want ErrDuplicateKey", err)
	}
}

func TestSchemaError_Message(t *testing.T) {
	err := &SchemaError{Schema: "generic", Key: "PORT", Err: ErrUnknownType}
	if got, want := err.Error(), `schema "generic": variable "PORT": unknown type`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestSchema_MarshalJSON(t *testing.T) {
	s, err := New("api",
		Rule{Key: "PORT", Type: TypeInt, Min: Bound(1)},
		Rule{Key: "DEBUG", Type: TypeBool, Required: true},
	)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"id":"api","meta":{},"variables":{"PORT":{"type":"int","required":false,"min":1},"DEBUG":{"type":"bool","required":true}}}`
	if string(data) != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", data, want)
	}
}
