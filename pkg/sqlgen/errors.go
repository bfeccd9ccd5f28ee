package sqlgen

import "fmt"

// The generation error taxonomy. All failures are deterministic for the
// same input: nothing is retried, and no partial command list is
// returned alongside an error.

// UnsupportedOperationError is returned for operations MySQL structurally
// cannot express, such as sequences.
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %s is not supported by MySQL", e.Operation)
}

// SchemaIntrospectionError is returned when a rename needs the raw table
// definition but none could be obtained.
type SchemaIntrospectionError struct {
	Schema string
	Table  string
	Err    error
}

func (e *SchemaIntrospectionError) Error() string {
	return fmt.Sprintf("could not fetch the definition of table %s: %v", tableIdentity(e.Schema, e.Table), e.Err)
}

func (e *SchemaIntrospectionError) Unwrap() error {
	return e.Err
}

// DefinitionNotFoundError is returned when the raw definition was
// fetched but the expected column or index clause did not match. This
// usually means the definition's textual shape changed and is worth a
// bug report.
type DefinitionNotFoundError struct {
	Schema     string
	Table      string
	ObjectKind string // "column" or "index"
	Object     string
}

func (e *DefinitionNotFoundError) Error() string {
	return fmt.Sprintf("could not find the definition of %s %q in table %s", e.ObjectKind, e.Object, tableIdentity(e.Schema, e.Table))
}

// IllegalDefaultValueError is returned when a default value is requested
// on a type that forbids defaults (text, blob, json and spatial
// families).
type IllegalDefaultValueError struct {
	Column string
	Type   string
}

func (e *IllegalDefaultValueError) Error() string {
	return fmt.Sprintf("column %q of type %s cannot have a default value", e.Column, e.Type)
}

func tableIdentity(schema, table string) string {
	if schema == "" {
		return table
	}
	return schema + "." + table
}
