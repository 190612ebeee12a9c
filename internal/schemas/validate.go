// Package schemas checks JD service responses against the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"strings"
	"sync"

	embedded "github.com/jonathan/jd-admin/schemas"
	"github.com/xeipuuv/gojsonschema"
)

// ValidationError lists every place a document broke its schema.
type ValidationError struct {
	Schema string
	Errors []FieldError
}

// FieldError is one violation. Field is a dotted path, "(root)" for the document itself.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "response does not match %s:", ve.Schema)
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "\n  %d. %s: %s", i+1, fe.Field, fe.Message)
	}
	return sb.String()
}

// SchemaLoadError means a schema could not be read or compiled. It points at
// a broken build, never at a bad response.
type SchemaLoadError struct {
	Schema string
	Reason string
	Err    error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("schema %s: %s: %v", e.Schema, e.Reason, e.Err)
}

func (e *SchemaLoadError) Unwrap() error { return e.Err }

// Validator compiles embedded schemas on first use and caches them.
type Validator struct {
	mu       sync.Mutex
	compiled map[string]*gojsonschema.Schema
}

func NewValidator() *Validator {
	return &Validator{compiled: make(map[string]*gojsonschema.Schema)}
}

// Validate checks data against the embedded schema called name.
func (v *Validator) Validate(name string, data []byte) error {
	schema, err := v.schema(name)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to read document for %s: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Schema: name}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

func (v *Validator) schema(name string) (*gojsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.compiled[name]; ok {
		return s, nil
	}

	root, err := embedded.FS.ReadFile(name)
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Reason: "not embedded", Err: err}
	}

	// Absolute $refs resolve against the other embedded documents
	loader := gojsonschema.NewSchemaLoader()
	for _, other := range embedded.All() {
		if other == name {
			continue
		}
		doc, err := embedded.FS.ReadFile(other)
		if err != nil {
			return nil, &SchemaLoadError{Schema: other, Reason: "not embedded", Err: err}
		}
		if err := loader.AddSchema(embedded.BaseURI+other, gojsonschema.NewBytesLoader(doc)); err != nil {
			return nil, &SchemaLoadError{Schema: other, Reason: "cannot register", Err: err}
		}
	}

	s, err := loader.Compile(gojsonschema.NewBytesLoader(root))
	if err != nil {
		return nil, &SchemaLoadError{Schema: name, Reason: "cannot compile", Err: err}
	}
	v.compiled[name] = s
	return s, nil
}
