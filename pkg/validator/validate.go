package validator

import (
	"errors"
	"fmt"

	"github.com/aretw0/envguard/pkg/dotenv"
	"github.com/aretw0/envguard/pkg/schema"
)

// Validate applies s to env and classifies every key.
//
// Per-key problems are recorded in the report. An error is returned only when the
// schema itself cannot be applied (an undeclared type or an unusable bound); it is
// always a *schema.SchemaError.
func Validate(env *dotenv.Environment, s *schema.Schema) (*Report, error) {
	if s == nil {
		return nil, &schema.SchemaError{Err: errors.New("no schema provided")}
	}

	rules := s.Rules()
	types := make([]schema.Type, len(rules))
	for i, r := range rules {
		typ, err := schema.ParseType(r.Type)
		if err != nil {
			return nil, &schema.SchemaError{Schema: s.ID, Key: r.Key, Err: err}
		}
		if r.HasBounds() && !typ.Numeric() {
			return nil, schema.Errorf(s.ID, r.Key, schema.ErrIncompatibleBound, "bounds declared on %s", typ.Name())
		}
		types[i] = typ
	}

	report := newReport()

	for i, r := range rules {
		raw, present := env.Get(r.Key)
		if !present {
			if r.Required {
				report.Missing = append(report.Missing, r.Key)
			}
			continue
		}

		value, err := types[i].Coerce(raw)
		if err != nil {
			report.Invalid = append(report.Invalid, Issue{Key: r.Key, Reason: err.Error()})
			continue
		}

		if reason, ok := checkBounds(r, value); !ok {
			report.Invalid = append(report.Invalid, Issue{Key: r.Key, Reason: reason})
			continue
		}

		report.Validated.set(r.Key, value)
	}

	for _, key := range env.Keys() {
		if !s.Has(key) {
			report.Extra = append(report.Extra, key)
		}
	}

	return report, nil
}

// checkBounds compares a coerced numeric value against the rule's bounds.
// A value equal to a bound passes.
func checkBounds(r schema.Rule, value any) (string, bool) {
	n, ok := value.(int64)
	if !ok {
		return "", true
	}
	if r.Min != nil && n < *r.Min {
		return fmt.Sprintf("value %d is less than min %d", n, *r.Min), false
	}
	if r.Max != nil && n > *r.Max {
		return fmt.Sprintf("value %d is greater than max %d", n, *r.Max), false
	}
	return "", true
}
