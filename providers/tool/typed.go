package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/leofalp/reactloop/core/parse"
	"github.com/leofalp/reactloop/internal/jsonschema"
	"github.com/leofalp/reactloop/providers/observability"
)

// inputParamName is the single parameter of a typed tool whose input is not a struct.
const inputParamName = "input"

// funcToolOptions holds optional configuration for a tool created via [NewTool].
type funcToolOptions struct {
	Description string
}

// WithDescription sets a human-readable description for the tool.
// Providers surface this description to the language model to help it decide
// when and how to invoke the tool.
func WithDescription(description string) func(tool *funcToolOptions) {
	return func(s *funcToolOptions) {
		s.Description = description
	}
}

// NewTool builds a [Spec] from a typed Go function. The parameter list is
// derived from the input type I via reflection: every field of a struct becomes
// a parameter in declaration order, required unless it is a pointer or tagged
// omitempty. Descriptions and defaults come from the jsonschema tag.
//
// A string output is returned as is; any other output is serialized as JSON.
//
// Example:
//
//	type SearchInput struct {
//	    Query string `json:"query" jsonschema:"description=The search query"`
//	}
//
//	search := tool.NewTool("search", searchFunc,
//	    tool.WithDescription("Search the web for a query."),
//	)
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...func(tool *funcToolOptions)) *Spec {
	toolOptions := &funcToolOptions{}
	for _, option := range options {
		option(toolOptions)
	}

	schema := jsonschema.GenerateJSONSchema[I]()
	structured := schema.Type == "object" && schema.Properties != nil

	var params []Parameter
	if structured {
		params = parametersFromSchema(schema)
	} else {
		params = []Parameter{{Name: inputParamName, Type: schema.Type, Description: schema.Description, Required: true}}
	}

	handler := func(ctx context.Context, args map[string]any) (string, error) {
		input, err := decodeInput[I](args, structured)
		if err != nil {
			return "", fmt.Errorf("tool %q: %w", name, err)
		}

		span := observability.SpanFromContext(ctx)
		output, err := function(ctx, input)
		if err != nil {
			if span != nil {
				span.RecordError(err)
				span.SetAttributes(observability.String(observability.AttrToolError, err.Error()))
			}
			return "", err
		}

		if s, ok := any(output).(string); ok {
			return s, nil
		}
		outputBytes, err := json.Marshal(output)
		if err != nil {
			return "", fmt.Errorf("tool %q: marshaling output: %w", name, err)
		}
		return string(outputBytes), nil
	}

	return &Spec{
		Name:        name,
		Description: toolOptions.Description,
		Parameters:  params,
		Handler:     handler,
	}
}

func parametersFromSchema(schema *jsonschema.Schema) []Parameter {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	params := make([]Parameter, 0, len(schema.Properties))
	for _, name := range schema.OrderedPropertyNames() {
		prop := schema.Properties[name]
		p := Parameter{
			Name:        name,
			Type:        prop.Type,
			Description: prop.Description,
			Required:    required[name],
			Enum:        prop.Enum,
		}
		if prop.Ref != "" {
			p.Type = "object"
		}
		if prop.Default != nil {
			p.Default = convertDefault(prop.Type, prop.Default)
		}
		params = append(params, p)
	}
	return params
}

// convertDefault turns a tag default (always a string) into a value of the
// parameter's type. Unconvertible values are kept as strings.
func convertDefault(typeName string, value any) any {
	s, ok := value.(string)
	if !ok {
		return value
	}
	switch typeName {
	case "integer":
		if v, err := strconv.ParseInt(s, 10, 64); err == nil {
			return v
		}
	case "number":
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			return v
		}
	case "boolean":
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
	}
	return s
}

func decodeInput[I any](args map[string]any, structured bool) (I, error) {
	var payload any = args
	if !structured {
		payload = args[inputParamName]
		if s, ok := payload.(string); ok {
			return parse.ParseStringAs[I](s)
		}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		var zero I
		return zero, fmt.Errorf("encoding arguments: %w", err)
	}
	return parse.ParseStringAs[I](string(raw))
}
