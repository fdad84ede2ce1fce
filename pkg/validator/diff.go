package validator

import (
	"github.com/aretw0/envguard/pkg/dotenv"
	"github.com/aretw0/envguard/pkg/schema"
)

// DiffReport compares the validated values of two environments.
type DiffReport struct {
	OnlyInA         []string   `json:"only_in_a"`
	OnlyInB         []string   `json:"only_in_b"`
	DifferentValues []string   `json:"different_values"`
	Validation      Validation `json:"validation"`
}

// Validation holds both full reports so callers can tell "absent" from "invalid".
type Validation struct {
	A *Report `json:"a"`
	B *Report `json:"b"`
}

// Identical reports whether the validated values of both sides match exactly.
func (d *DiffReport) Identical() bool {
	return len(d.OnlyInA) == 0 && len(d.OnlyInB) == 0 && len(d.DifferentValues) == 0
}

// Compare validates envA and envB against s and diffs the validated values.
// Values are compared after coercion, so bool true and string "true" differ.
func Compare(envA, envB *dotenv.Environment, s *schema.Schema) (*DiffReport, error) {
	a, err := Validate(envA, s)
	if err != nil {
		return nil, err
	}
	b, err := Validate(envB, s)
	if err != nil {
		return nil, err
	}
	return Diff(a, b), nil
}

// Diff computes the set and value differences between two reports.
func Diff(a, b *Report) *DiffReport {
	diff := &DiffReport{
		OnlyInA:         []string{},
		OnlyInB:         []string{},
		DifferentValues: []string{},
		Validation:      Validation{A: a, B: b},
	}

	for _, key := range a.Validated.Keys() {
		va, _ := a.Validated.Get(key)
		vb, ok := b.Validated.Get(key)
		switch {
		case !ok:
			diff.OnlyInA = append(diff.OnlyInA, key)
		case va != vb:
			diff.DifferentValues = append(diff.DifferentValues, key)
		}
	}

	for _, key := range b.Validated.Keys() {
		if !a.Validated.Has(key) {
			diff.OnlyInB = append(diff.OnlyInB, key)
		}
	}

	return diff
}
