package validator

import (
	"bytes"
	"encoding/json"
	"reflect"
	"slices"
)

var valuesType = reflect.TypeOf(Values{})

// Issue records a present key whose value failed a type or bound check.
type Issue struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// Report is the result of applying a schema to an environment.
type Report struct {
	Missing   []string `json:"missing"`
	Invalid   []Issue  `json:"invalid"`
	Extra     []string `json:"extra"`
	Validated *Values  `json:"validated"`
}

func newReport() *Report {
	return &Report{
		Missing:   []string{},
		Invalid:   []Issue{},
		Extra:     []string{},
		Validated: newValues(),
	}
}

// OK reports whether nothing was missing or invalid. Extra keys do not count.
func (r *Report) OK() bool {
	return len(r.Missing) == 0 && len(r.Invalid) == 0
}

// InvalidKeys returns the keys behind Invalid, in order.
func (r *Report) InvalidKeys() []string {
	keys := make([]string, len(r.Invalid))
	for i, issue := range r.Invalid {
		keys[i] = issue.Key
	}
	return keys
}

// Values is an ordered mapping from key to coerced value (string, int64 or bool).
type Values struct {
	keys   []string
	values map[string]any
}

func newValues() *Values {
	return &Values{values: make(map[string]any)}
}

func (v *Values) set(key string, value any) {
	if _, exists := v.values[key]; !exists {
		v.keys = append(v.keys, key)
	}
	v.values[key] = value
}

// Get returns the coerced value for key.
func (v *Values) Get(key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	val, ok := v.values[key]
	return val, ok
}

// Has reports whether key passed validation.
func (v *Values) Has(key string) bool {
	_, ok := v.Get(key)
	return ok
}

// Keys returns the validated keys in schema order.
func (v *Values) Keys() []string {
	if v == nil {
		return []string{}
	}
	return slices.Clone(v.keys)
}

// Len returns the number of validated keys.
func (v *Values) Len() int {
	if v == nil {
		return 0
	}
	return len(v.keys)
}

// MarshalJSON encodes the values as an ordered JSON object.
func (v *Values) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range v.Keys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(v.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an ordered JSON object. Integral numbers decode as int64.
func (v *Values) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*v = Values{values: make(map[string]any)}
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return &json.UnmarshalTypeError{Value: "non-object", Type: valuesType}
	}

	out := newValues()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw any
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if n, ok := raw.(json.Number); ok {
			if i, err := n.Int64(); err == nil {
				raw = i
			} else {
				raw = n.String()
			}
		}
		out.set(key, raw)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*v = *out
	return nil
}
