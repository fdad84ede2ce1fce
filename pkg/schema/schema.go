package schema

import (
	"slices"
	"strings"
)

// Rule declares the expectations for a single environment key.
type Rule struct {
	Key         string `json:"-" mapstructure:"-"`
	Type        string `json:"type" mapstructure:"type"`
	Required    bool   `json:"required" mapstructure:"required"`
	Min         *int64 `json:"min,omitempty" mapstructure:"min"`
	Max         *int64 `json:"max,omitempty" mapstructure:"max"`
	Description string `json:"description,omitempty" mapstructure:"description"`
}

// HasBounds reports whether min or max is declared.
func (r Rule) HasBounds() bool {
	return r.Min != nil || r.Max != nil
}

// Bound returns a pointer to n, for filling Rule.Min and Rule.Max.
func Bound(n int64) *int64 {
	return &n
}

// Meta carries optional display metadata declared next to the rules.
type Meta struct {
	Name        string `json:"name,omitempty" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description"`
	Icon        string `json:"icon,omitempty" yaml:"icon"`
	Color       string `json:"color,omitempty" yaml:"color"`
}

// Schema is a named, ordered collection of rules.
type Schema struct {
	ID    string
	Meta  Meta
	rules []Rule
	index map[string]int
}

// New builds a schema from rules, applying the same structural checks as Decode.
// An empty Type defaults to "string".
func New(id string, rules ...Rule) (*Schema, error) {
	s := &Schema{
		ID:    id,
		rules: make([]Rule, 0, len(rules)),
		index: make(map[string]int, len(rules)),
	}
	for _, r := range rules {
		if err := s.add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Schema) add(r Rule) error {
	r.Key = strings.TrimSpace(r.Key)
	if r.Key == "" {
		return Errorf(s.ID, "", ErrMalformed, "variable with empty key")
	}
	if _, exists := s.index[r.Key]; exists {
		return &SchemaError{Schema: s.ID, Key: r.Key, Err: ErrDuplicateKey}
	}
	if r.Type == "" {
		r.Type = TypeString
	}
	if r.HasBounds() {
		// Unknown types are resolved later, at validation time; bounds on them are still rejected here.
		if r.Type != TypeInt {
			return Errorf(s.ID, r.Key, ErrIncompatibleBound, "min/max require type int, got %q", r.Type)
		}
		if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
			return Errorf(s.ID, r.Key, ErrIncompatibleBound, "min %d is greater than max %d", *r.Min, *r.Max)
		}
	}

	s.index[r.Key] = len(s.rules)
	s.rules = append(s.rules, r)
	return nil
}

// Rules returns the rules in declaration order.
func (s *Schema) Rules() []Rule {
	return slices.Clone(s.rules)
}

// Rule returns the rule declared for key.
func (s *Schema) Rule(key string) (Rule, bool) {
	i, ok := s.index[key]
	if !ok {
		return Rule{}, false
	}
	return s.rules[i], true
}

// Has reports whether key is declared.
func (s *Schema) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Len returns the number of declared variables.
func (s *Schema) Len() int {
	return len(s.rules)
}

// RequiredCount returns the number of required variables.
func (s *Schema) RequiredCount() int {
	n := 0
	for _, r := range s.rules {
		if r.Required {
			n++
		}
	}
	return n
}
