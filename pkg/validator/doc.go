/*
Package validator applies a schema to a parsed environment and compares environments.

Validate classifies every key into exactly one bucket:

  - Missing: required by the schema and absent from the environment.
  - Invalid: present, but the value failed type coercion or a min/max bound.
  - Validated: present and valid; stored with its coerced value (string, int64 or bool).
  - Extra: present in the environment but not declared by the schema.

Optional keys that are absent appear nowhere. Per-key failures never abort validation;
only a schema that cannot be applied does, as a *schema.SchemaError.

Compare runs Validate on two environments and reports keys validated on only one side
and keys whose coerced values differ, together with both full reports.
*/
package validator
