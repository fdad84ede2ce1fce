// Package schema describes the expected shape of an environment file.
//
// A Schema is an ordered list of Rules. Each Rule names a key, a declared type
// (string, int or bool), whether the key is required, and optional integer
// bounds:
//
//	variables:
//	  DATABASE_URL:
//	    type: string
//	    required: true
//	  PORT:
//	    type: int
//	    min: 1024
//	    max: 65535
//	  DEBUG:
//	    type: bool
//
// Schemas are decoded from YAML (or JSON, which YAML accepts) with Decode, or
// built in code with New:
//
//	s, err := schema.New("api",
//	    schema.Rule{Key: "PORT", Type: "int", Min: schema.Bound(1)},
//	)
//
// Structural problems are reported as *SchemaError values wrapping one of the
// package sentinels (ErrNoVariables, ErrIncompatibleBound, ...), so callers
// can branch with errors.Is. Bounds are only accepted on int rules; declaring
// one on a string or bool rule fails at load time.
//
// Types coerce raw dotenv strings into typed Go values (string, int64, bool)
// through the Type interface.
package schema
