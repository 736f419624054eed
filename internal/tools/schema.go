package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// tool binds a published descriptor to its argument decoder and handler.
// The input schema is the single source for both tools/list and validation.
type tool struct {
	def    *mcp.Tool
	schema *jsonschema.Schema
	names  []string
	fields map[string]*jsonschema.Resolved
	decode func(json.RawMessage) (any, error)
	run    func(context.Context, any) (any, error)
}

// newTool declares a tool whose validated arguments are decoded into A.
// It panics if a property schema cannot be resolved.
func newTool[A any](name, description string, schema *jsonschema.Schema, fn func(context.Context, A) (any, error)) *tool {
	t := &tool{
		def: &mcp.Tool{
			Name:        name,
			Description: description,
			InputSchema: schema,
		},
		schema: schema,
		fields: make(map[string]*jsonschema.Resolved, len(schema.Properties)),
		decode: func(raw json.RawMessage) (any, error) {
			var args A
			if err := json.Unmarshal(raw, &args); err != nil {
				return nil, err
			}
			return args, nil
		},
		run: func(ctx context.Context, args any) (any, error) {
			return fn(ctx, args.(A))
		},
	}
	for field, prop := range schema.Properties {
		resolved, err := prop.Resolve(nil)
		if err != nil {
			panic(fmt.Sprintf("tool %s: resolve schema for %s: %v", name, field, err))
		}
		t.fields[field] = resolved
		t.names = append(t.names, field)
	}
	slices.Sort(t.names)
	return t
}

// validate checks raw arguments against the schema and returns the typed
// argument value. Empty or null arguments are treated as an empty object
// and null properties as absent.
func (t *tool) validate(raw json.RawMessage) (any, error) {
	verr := &ValidationError{Tool: t.def.Name}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	var args map[string]any
	if err := json.Unmarshal(raw, &args); err != nil {
		verr.Problems = append(verr.Problems, FieldProblem{Reason: "arguments must be a JSON object"})
		return nil, verr
	}
	for k, v := range args {
		if v == nil {
			delete(args, k)
		}
	}

	for _, field := range t.schema.Required {
		if _, ok := args[field]; !ok {
			verr.Problems = append(verr.Problems, FieldProblem{Field: field, Reason: "is required"})
		}
	}
	for _, field := range t.names {
		v, ok := args[field]
		if !ok {
			continue
		}
		if err := t.fields[field].Validate(v); err != nil {
			slog.Debug("tools.validate", "tool", t.def.Name, "field", field, "err", err)
			verr.Problems = append(verr.Problems, FieldProblem{Field: field, Reason: constraint(t.schema.Properties[field])})
		}
	}
	if len(verr.Problems) > 0 {
		return nil, verr
	}

	cleaned, err := json.Marshal(args)
	if err != nil {
		verr.Problems = append(verr.Problems, FieldProblem{Reason: err.Error()})
		return nil, verr
	}
	typed, err := t.decode(cleaned)
	if err != nil {
		verr.Problems = append(verr.Problems, FieldProblem{Reason: err.Error()})
		return nil, verr
	}
	return typed, nil
}

// invoke runs the handler, converting a panic into an error.
func (t *tool) invoke(ctx context.Context, args any) (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", t.def.Name, r)
		}
	}()
	return t.run(ctx, args)
}

// constraint phrases what a property schema accepts, e.g.
// "must be a number between 0.01 and 4".
func constraint(s *jsonschema.Schema) string {
	switch s.Type {
	case "string":
		if len(s.Enum) > 0 {
			values := make([]string, len(s.Enum))
			for i, v := range s.Enum {
				values[i] = fmt.Sprint(v)
			}
			return "must be one of " + strings.Join(values, ", ")
		}
		if s.MinLength != nil && *s.MinLength > 0 {
			return "must be a non-empty string"
		}
		return "must be a string"
	case "number", "integer":
		kind := "a number"
		if s.Type == "integer" {
			kind = "an integer"
		}
		switch {
		case s.Minimum != nil && s.Maximum != nil:
			return fmt.Sprintf("must be %s between %s and %s", kind, formatNumber(*s.Minimum), formatNumber(*s.Maximum))
		case s.Minimum != nil:
			return fmt.Sprintf("must be %s >= %s", kind, formatNumber(*s.Minimum))
		case s.Maximum != nil:
			return fmt.Sprintf("must be %s <= %s", kind, formatNumber(*s.Maximum))
		}
		return "must be " + kind
	case "array":
		reason := "must be a list"
		if s.Items != nil {
			reason += " of " + strings.TrimPrefix(strings.TrimPrefix(constraint(s.Items), "must be a "), "must be ") + "s"
		}
		if s.MinItems != nil && *s.MinItems > 0 {
			reason += fmt.Sprintf(" with at least %d item", *s.MinItems)
			if *s.MinItems > 1 {
				reason += "s"
			}
		}
		return reason
	}
	return "must be " + s.Type
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func object(required []string, props map[string]*jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "object", Properties: props, Required: required}
}

// stringProp is a non-empty string.
func stringProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description, MinLength: ptr(1)}
}

// textProp is any string, including the empty one.
func textProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func stringListProp(description string, minItems int) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:        "array",
		Description: description,
		Items:       &jsonschema.Schema{Type: "string", MinLength: ptr(1)},
	}
	if minItems > 0 {
		s.MinItems = ptr(minItems)
	}
	return s
}

func numberProp(description string, min, max float64) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number", Description: description, Minimum: ptr(min), Maximum: ptr(max)}
}

func integerProp(description string, min int) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: description, Minimum: ptr(float64(min))}
}

func enumProp(description string, values ...string) *jsonschema.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &jsonschema.Schema{Type: "string", Description: description, Enum: enum}
}

func ptr[T any](v T) *T { return &v }
