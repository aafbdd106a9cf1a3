package searchreq

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaInitErr  error
)

func requestSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaInitErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	})
	return compiledSchema, schemaInitErr
}

// SchemaJSON returns the JSON schema request documents are validated against.
func SchemaJSON() string {
	return schemaJSON
}

// validateSchema checks a decoded document against the request schema.
// All violations are reported in one DecodeError located at the first.
func validateSchema(doc any) error {
	schema, err := requestSchema()
	if err != nil {
		return fmt.Errorf("compile request schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(plain(doc)))
	if err != nil {
		return &DecodeError{Path: "$", Message: fmt.Sprintf("schema validation error: %v", err), Err: ErrSchema}
	}
	if result.Valid() {
		return nil
	}

	errs := result.Errors()
	msgs := make([]string, len(errs))
	for i, desc := range errs {
		msgs[i] = desc.String()
	}
	return &DecodeError{
		Path:    schemaPath(errs[0].Field()),
		Message: strings.Join(msgs, "; "),
		Err:     ErrSchema,
	}
}

// schemaPath converts a gojsonschema field ("(root)", "query.term") to
// document path form.
func schemaPath(field string) string {
	if field == "" || field == "(root)" {
		return "$"
	}
	return "$." + field
}
