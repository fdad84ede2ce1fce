package dotenv

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
)

// Environment is an ordered mapping from variable name to raw string value.
// It is built once by Parse (or FromPairs) and never mutated afterwards.
type Environment struct {
	keys   []string
	values map[string]string
}

func newEnvironment() *Environment {
	return &Environment{values: make(map[string]string)}
}

// FromPairs builds an Environment from alternating key/value strings.
// It panics on an odd number of arguments; intended for tests and fixtures.
func FromPairs(kv ...string) *Environment {
	if len(kv)%2 != 0 {
		panic("dotenv: FromPairs needs an even number of arguments")
	}
	env := newEnvironment()
	for i := 0; i < len(kv); i += 2 {
		if !env.Has(kv[i]) {
			env.set(kv[i], kv[i+1])
		}
	}
	return env
}

func (e *Environment) set(key, value string) {
	e.keys = append(e.keys, key)
	e.values[key] = value
}

// Get returns the raw value for key.
func (e *Environment) Get(key string) (string, bool) {
	if e == nil {
		return "", false
	}
	v, ok := e.values[key]
	return v, ok
}

// Has reports whether key is defined.
func (e *Environment) Has(key string) bool {
	_, ok := e.Get(key)
	return ok
}

// Keys returns the variable names in source order.
func (e *Environment) Keys() []string {
	if e == nil {
		return []string{}
	}
	return slices.Clone(e.keys)
}

// Len returns the number of variables.
func (e *Environment) Len() int {
	if e == nil {
		return 0
	}
	return len(e.keys)
}

// Map returns an unordered copy of the variables.
func (e *Environment) Map() map[string]string {
	if e == nil {
		return map[string]string{}
	}
	return maps.Clone(e.values)
}

// Equal reports whether both environments hold the same keys, in the same order, with the same values.
func (e *Environment) Equal(other *Environment) bool {
	return slices.Equal(e.Keys(), other.Keys()) && maps.Equal(e.Map(), other.Map())
}

// MarshalJSON encodes the environment as a JSON object preserving source order.
func (e *Environment) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range e.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
