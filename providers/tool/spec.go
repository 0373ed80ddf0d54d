package tool

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/leofalp/reactloop/internal/jsonschema"
	"github.com/leofalp/reactloop/providers/ai"
)

// Handler runs a tool. It receives arguments already bound by parameter name,
// with defaults applied to absent optional parameters.
type Handler func(ctx context.Context, args map[string]any) (string, error)

// Parameter describes one named tool input.
type Parameter struct {
	Name string
	// Type is a JSON Schema type name: string, integer, number, boolean, array
	// or object. Empty means any value is accepted.
	Type        string
	Description string
	Required    bool
	// Default is bound when an optional parameter is absent. Nil means no default.
	Default any
	// Enum restricts the accepted values when non-empty.
	Enum []any
}

// Spec is the externally visible contract of a tool: its name, description,
// ordered parameter list and handler.
//
// Description is the summary sentence(s) only; [Spec.Documentation] renders it
// together with a generated Args block.
type Spec struct {
	Name        string
	Description string
	Parameters  []Parameter
	Handler     Handler
}

// Clone returns a copy of s whose parameter list, enums included, can be
// changed without affecting s. Clone of a nil spec is nil.
func (s *Spec) Clone() *Spec {
	if s == nil {
		return nil
	}
	c := *s
	c.Parameters = slices.Clone(s.Parameters)
	for i := range c.Parameters {
		c.Parameters[i].Enum = slices.Clone(c.Parameters[i].Enum)
	}
	return &c
}

// Validate checks that the name is non-empty, the handler is set and parameter
// names are non-empty and unique.
func (s *Spec) Validate() error {
	if s == nil {
		return &InvalidSpecError{Reason: "spec is nil"}
	}
	if strings.TrimSpace(s.Name) == "" {
		return &InvalidSpecError{Reason: "name is empty"}
	}
	if s.Handler == nil {
		return &InvalidSpecError{Tool: s.Name, Reason: "handler is nil"}
	}

	seen := make(map[string]bool, len(s.Parameters))
	for i, p := range s.Parameters {
		if p.Name == "" {
			return &InvalidSpecError{Tool: s.Name, Reason: fmt.Sprintf("parameter %d has no name", i)}
		}
		if seen[p.Name] {
			return &InvalidSpecError{Tool: s.Name, Reason: fmt.Sprintf("parameter %q is declared twice", p.Name)}
		}
		seen[p.Name] = true
	}
	return nil
}

// Parameter returns the parameter with the given name.
func (s *Spec) Parameter(name string) (Parameter, bool) {
	for _, p := range s.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return Parameter{}, false
}

// Bind maps positional and named arguments onto the parameter list.
// Positional values fill parameters in order; named values are matched by
// exact name. A JSON null counts as absent. The returned map holds every
// supplied parameter plus the defaults of absent optional ones.
func (s *Spec) Bind(positional []any, named map[string]any) (map[string]any, error) {
	if len(positional) > len(s.Parameters) {
		return nil, &BindError{Tool: s.Name, Reason: fmt.Sprintf("takes %d arguments but %d were given positionally", len(s.Parameters), len(positional))}
	}

	bound := make(map[string]any, len(s.Parameters))
	for i, value := range positional {
		if value != nil {
			bound[s.Parameters[i].Name] = value
		}
	}

	for _, name := range sortedKeys(named) {
		p, ok := s.Parameter(name)
		if !ok {
			return nil, &BindError{Tool: s.Name, Reason: fmt.Sprintf("unexpected argument %q", name)}
		}
		if s.boundPositionally(name, positional) {
			return nil, &BindError{Tool: s.Name, Reason: fmt.Sprintf("multiple values for argument %q", name)}
		}
		if value := named[name]; value != nil {
			bound[p.Name] = value
		}
	}

	for _, p := range s.Parameters {
		value, present := bound[p.Name]
		if !present {
			if p.Required {
				return nil, &BindError{Tool: s.Name, Reason: fmt.Sprintf("missing required argument %q", p.Name)}
			}
			if p.Default != nil {
				bound[p.Name] = p.Default
			}
			continue
		}
		if !matchesType(p.Type, value) {
			return nil, &BindError{Tool: s.Name, Reason: fmt.Sprintf("argument %q must be of type %s, got %T", p.Name, p.Type, value)}
		}
		if !inEnum(p.Enum, value) {
			return nil, &BindError{Tool: s.Name, Reason: fmt.Sprintf("argument %q must be one of %v, got %v", p.Name, p.Enum, value)}
		}
	}
	return bound, nil
}

func (s *Spec) boundPositionally(name string, positional []any) bool {
	for i, value := range positional {
		if value != nil && s.Parameters[i].Name == name {
			return true
		}
	}
	return false
}

// Invoke binds the arguments and runs the handler.
func (s *Spec) Invoke(ctx context.Context, positional []any, named map[string]any) (string, error) {
	args, err := s.Bind(positional, named)
	if err != nil {
		return "", err
	}
	return s.Handler(ctx, args)
}

// Schema returns the JSON Schema of the parameter list. Properties are emitted
// in parameter order and the required list follows the same order.
func (s *Spec) Schema() *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Type:       "object",
		Properties: make(map[string]*jsonschema.Schema, len(s.Parameters)),
	}
	for _, p := range s.Parameters {
		schema.Properties[p.Name] = &jsonschema.Schema{
			Type:        p.Type,
			Description: p.Description,
			Default:     p.Default,
			Enum:        p.Enum,
		}
		schema.PropertyOrder = append(schema.PropertyOrder, p.Name)
		if p.Required {
			schema.Required = append(schema.Required, p.Name)
		}
	}
	return schema
}

// Documentation renders the description followed by an Args block listing
// every documented parameter in order:
//
//	Search the web.
//
//	Args:
//	    query (string): The search query.
func (s *Spec) Documentation() string {
	var args []string
	for _, p := range s.Parameters {
		if p.Description == "" {
			continue
		}
		typeName := p.Type
		if typeName == "" {
			typeName = "any"
		}
		if !p.Required {
			typeName += ", optional"
		}
		args = append(args, fmt.Sprintf("    %s (%s): %s", p.Name, typeName, p.Description))
	}

	description := strings.TrimSpace(s.Description)
	if len(args) == 0 {
		return description
	}

	var b strings.Builder
	if description != "" {
		b.WriteString(description)
		b.WriteString("\n\n")
	}
	b.WriteString("Args:\n")
	b.WriteString(strings.Join(args, "\n"))
	return b.String()
}

// ToolDescription converts the spec into the provider-facing description.
func (s *Spec) ToolDescription() ai.ToolDescription {
	return ai.ToolDescription{
		Name:        s.Name,
		Description: s.Documentation(),
		Parameters:  s.Schema(),
	}
}

// matchesType checks a decoded value against a JSON Schema type name.
// Integers arriving as float64 from JSON are accepted when they are whole.
func matchesType(typeName string, value any) bool {
	v := reflect.ValueOf(value)
	switch typeName {
	case "string":
		return v.Kind() == reflect.String
	case "boolean":
		return v.Kind() == reflect.Bool
	case "integer":
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		case reflect.Float32, reflect.Float64:
			f := v.Float()
			return f == math.Trunc(f)
		}
		return false
	case "number":
		switch v.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
			reflect.Float32, reflect.Float64:
			return true
		}
		return false
	case "array":
		return v.Kind() == reflect.Slice || v.Kind() == reflect.Array
	case "object":
		return v.Kind() == reflect.Map || v.Kind() == reflect.Struct
	default:
		return true
	}
}

// inEnum compares by printed form so 2 and 2.0 match.
func inEnum(enum []any, value any) bool {
	if len(enum) == 0 {
		return true
	}
	printed := fmt.Sprint(value)
	for _, allowed := range enum {
		if fmt.Sprint(allowed) == printed {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
