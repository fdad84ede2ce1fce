package schema

import (
	"fmt"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

const variablesKey = "variables"

// Decode reads a schema document (YAML or JSON).
// The document must be a mapping with a 'variables' mapping; rule order follows the document.
func Decode(id string, data []byte) (*Schema, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, Errorf(id, "", ErrMalformed, "%v", err)
	}

	root := resolve(&doc)
	if root == nil || root.Kind != yaml.MappingNode {
		return nil, &SchemaError{Schema: id, Err: ErrNoVariables}
	}

	s, err := New(id)
	if err != nil {
		return nil, err
	}
	if err := root.Decode(&s.Meta); err != nil {
		return nil, Errorf(id, "", ErrMalformed, "metadata: %v", err)
	}

	var vars *yaml.Node
	rootPairs, err := mappingPairs(root)
	if err != nil {
		return nil, Errorf(id, "", ErrMalformed, "%v", err)
	}
	for _, p := range rootPairs {
		if p.key.Value == variablesKey {
			vars = resolve(p.value)
		}
	}
	if vars == nil {
		return nil, &SchemaError{Schema: id, Err: ErrNoVariables}
	}
	if vars.Kind != yaml.MappingNode {
		return nil, Errorf(id, "", ErrNoVariables, "'variables' must be a mapping")
	}

	pairs, err := mappingPairs(vars)
	if err != nil {
		return nil, Errorf(id, "", ErrMalformed, "variables: %v", err)
	}
	for _, p := range pairs {
		key := p.key.Value
		rule, err := decodeRule(resolve(p.value))
		if err != nil {
			return nil, Errorf(id, key, ErrMalformed, "%v", err)
		}
		rule.Key = key
		if err := s.add(rule); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// MustDecode is like Decode but panics on error. Intended for embedded fixtures.
func MustDecode(id string, data []byte) *Schema {
	s, err := Decode(id, data)
	if err != nil {
		panic(err)
	}
	return s
}

// resolve unwraps document and alias nodes.
func resolve(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

type pair struct {
	key, value *yaml.Node
}

// mappingPairs returns the entries of a mapping node in document order with YAML
// merge keys ("<<") expanded in place. Keys written in the mapping itself override
// merged ones; among merged mappings the first occurrence wins.
func mappingPairs(n *yaml.Node) ([]pair, error) {
	explicit := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		if !isMergeKey(n.Content[i]) {
			explicit[n.Content[i].Value] = true
		}
	}

	var pairs []pair
	seen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		if !isMergeKey(key) {
			pairs = append(pairs, pair{key, value})
			continue
		}

		sources, err := mergeSources(resolve(value))
		if err != nil {
			return nil, err
		}
		for _, src := range sources {
			merged, err := mappingPairs(src)
			if err != nil {
				return nil, err
			}
			for _, m := range merged {
				k := m.key.Value
				if explicit[k] || seen[k] {
					continue
				}
				seen[k] = true
				pairs = append(pairs, m)
			}
		}
	}
	return pairs, nil
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Value == "<<" && (n.Tag == "" || n.Tag == "!" || n.Tag == "!!merge")
}

// mergeSources accepts a mapping or a sequence of mappings, as YAML merge keys do.
func mergeSources(n *yaml.Node) ([]*yaml.Node, error) {
	if n == nil {
		return nil, fmt.Errorf("merge key without a value")
	}
	switch n.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{n}, nil
	case yaml.SequenceNode:
		out := make([]*yaml.Node, 0, len(n.Content))
		for _, item := range n.Content {
			m := resolve(item)
			if m == nil || m.Kind != yaml.MappingNode {
				return nil, fmt.Errorf("merge key must reference mappings")
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("merge key must reference a mapping, got %s", n.ShortTag())
	}
}

func decodeRule(body *yaml.Node) (Rule, error) {
	var rule Rule
	if body == nil || body.Tag == "!!null" {
		return rule, nil
	}
	if body.Kind != yaml.MappingNode {
		return rule, fmt.Errorf("rule must be a mapping, got %s", body.ShortTag())
	}

	var raw map[string]any
	if err := body.Decode(&raw); err != nil {
		return rule, err
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(checkBound, yamlBool),
		Result:     &rule,
	})
	if err != nil {
		return rule, err
	}
	if err := dec.Decode(raw); err != nil {
		return rule, err
	}
	return rule, nil
}

var (
	int64Type = reflect.TypeOf(int64(0))
	boolType  = reflect.TypeOf(false)
)

// maxExactFloat is the largest magnitude at which every integer is a float64.
const maxExactFloat = 1 << 53

// checkBound rejects bounds that cannot be stored exactly in an int64.
// Integers beyond int64 arrive as uint64 or float64 and would otherwise wrap.
func checkBound(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != int64Type {
		return data, nil
	}
	switch v := data.(type) {
	case uint64:
		if v > math.MaxInt64 {
			return nil, fmt.Errorf("bound %d is out of range", v)
		}
	case float64:
		if v != math.Trunc(v) {
			return nil, fmt.Errorf("bound must be an integer, got %v", v)
		}
		if math.Abs(v) > maxExactFloat {
			return nil, fmt.Errorf("bound %v is out of range", v)
		}
	}
	return data, nil
}

// yamlBool accepts the YAML 1.1 boolean words that YAML 1.2 reads as strings.
func yamlBool(_ reflect.Type, to reflect.Type, data any) (any, error) {
	str, ok := data.(string)
	if to != boolType || !ok {
		return data, nil
	}
	switch str {
	case "y", "Y", "yes", "Yes", "YES", "on", "On", "ON", "true", "True", "TRUE":
		return true, nil
	case "n", "N", "no", "No", "NO", "off", "Off", "OFF", "false", "False", "FALSE":
		return false, nil
	}
	return data, nil
}
