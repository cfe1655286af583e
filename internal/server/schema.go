package server

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed translate_request.schema.json
var requestSchemaJSON string

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

type translateRequest struct {
	Markdown string `json:"markdown"`
	Format   string `json:"format"`
	Title    string `json:"title"`
}

// requestError carries per-field messages for a body that failed the schema
type requestError struct {
	fields map[string]string
}

func (e *requestError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for field, msg := range e.fields {
		parts = append(parts, field+": "+msg)
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// decodeTranslateRequest validates raw JSON against the request schema and
// decodes it. Schema violations are returned as *requestError.
func decodeTranslateRequest(raw []byte) (translateRequest, error) {
	schema, err := loadSchema()
	if err != nil {
		return translateRequest{}, err
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var value any
	if err := decoder.Decode(&value); err != nil {
		return translateRequest{}, &requestError{fields: map[string]string{"body": "malformed JSON"}}
	}

	if err := schema.Validate(value); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return translateRequest{}, &requestError{fields: fieldErrors(ve)}
		}
		return translateRequest{}, fmt.Errorf("request schema validation failed: %w", err)
	}

	var req translateRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return translateRequest{}, fmt.Errorf("unmarshal request: %w", err)
	}
	return req, nil
}

// fieldErrors flattens the leaf causes of ve, keyed by JSON pointer
// without the leading slash ("body" for the document root)
func fieldErrors(ve *jsonschema.ValidationError) map[string]string {
	out := map[string]string{}
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			field := strings.TrimPrefix(e.InstanceLocation, "/")
			if field == "" {
				field = "body"
			}
			if _, seen := out[field]; !seen {
				out[field] = e.Message
			}
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return out
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020

		if err := compiler.AddResource("translate_request.schema.json", strings.NewReader(requestSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("add schema resource: %w", err)
			return
		}

		schema, err := compiler.Compile("translate_request.schema.json")
		if err != nil {
			compiledSchemaErr = fmt.Errorf("compile schema: %w", err)
			return
		}
		compiledSchema = schema
	})

	if compiledSchemaErr != nil {
		return nil, compiledSchemaErr
	}
	return compiledSchema, nil
}
