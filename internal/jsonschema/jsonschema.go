package jsonschema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Schema represents the structure of JSON Schema used for defining tool arguments.
// It follows the JSON Schema standard, supporting various types, properties, and validation rules.
//
// Go maps have no order, so a Schema carries an optional PropertyOrder. When set,
// properties are serialised in that order (remaining properties follow alphabetically),
// which lets callers guarantee that a given parameter is always presented first.
type Schema struct {
	//  Type Specifies the data type (e.g., "object", "array", "string", "number")
	Type        string   `json:"type,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	// Properties of the arguments, each with its own schema
	Properties map[string]*Schema `json:"properties,omitempty"`
	// PropertyOrder lists property names in presentation order
	PropertyOrder []string `json:"-"`
	// For array types, defines the schema of items in the array
	Items *Schema `json:"items,omitempty"`
	// AdditionalProperties: Controls whether properties not defined in Properties are allowed
	AdditionalProperties any `json:"additionalProperties,omitempty"`
	// Default value for the parameter
	Default any `json:"default,omitempty"`
	// Enum contains the list of allowed values for the parameter
	Enum []any `json:"enum,omitempty"`
	// Ref is used for JSON Schema references to avoid infinite recursion
	Ref string `json:"$ref,omitempty"`
	// Defs contains reusable schema definitions
	Defs map[string]*Schema `json:"$defs,omitempty"`
}

// GenerateJSONSchema derives a Schema from the Go type T via reflection.
// Struct fields are walked in declaration order and that order is recorded in
// PropertyOrder. Recursive types are emitted as $ref entries into $defs.
func GenerateJSONSchema[T any]() *Schema {
	ctx := &schemaContext{
		visited: make(map[reflect.Type]string),
		defs:    make(map[string]*Schema),
	}

	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var schema *Schema
	if t.Kind() == reflect.Struct {
		schema = structSchema(t, ctx, true)
	} else {
		schema = fieldSchema(t, ctx)
	}

	if len(ctx.defs) > 0 {
		schema.Defs = ctx.defs
	}
	return schema
}

// schemaContext tracks the state during schema generation to handle recursion
type schemaContext struct {
	visited map[reflect.Type]string // Maps types to their definition names
	defs    map[string]*Schema      // Stores reusable schema definitions
}

// structSchema builds an object schema for a struct type. Non-root structs that
// reference themselves are stored in $defs and returned as a reference.
func structSchema(t reflect.Type, ctx *schemaContext, isRoot bool) *Schema {
	if defName, exists := ctx.visited[t]; exists {
		return &Schema{Ref: "#/$defs/" + defName}
	}

	recursive := hasRecursiveFields(t)
	defName := generateDefName(t)
	if recursive {
		ctx.visited[t] = defName
	}

	schema := &Schema{Type: "object", Properties: map[string]*Schema{}}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldName, omitEmpty, skip := jsonFieldName(field)
		if skip {
			continue
		}

		propSchema := fieldSchema(field.Type, ctx)
		schema.Properties[fieldName] = propSchema
		schema.PropertyOrder = append(schema.PropertyOrder, fieldName)

		requiredByTag := false
		if propSchema.Ref == "" {
			var err error
			requiredByTag, err = parseJSONSchemaTag(field.Type, field.Tag, propSchema)
			if err != nil {
				slog.Error("parseJSONSchemaTag error", "field", fieldName, "error", err)
			}
		}

		// Non-pointer fields without omitempty are required, as are fields tagged required.
		if (field.Type.Kind() != reflect.Ptr && !omitEmpty) || requiredByTag {
			schema.Required = append(schema.Required, fieldName)
		}
	}

	if !recursive {
		return schema
	}

	// Store a copy so the root's own $defs never contains itself.
	def := *schema
	ctx.defs[defName] = &def
	if isRoot {
		return schema
	}
	return &Schema{Ref: "#/$defs/" + defName}
}

// jsonFieldName resolves the serialised name of a struct field from its json tag.
func jsonFieldName(field reflect.StructField) (name string, omitEmpty bool, skip bool) {
	jsonTag := field.Tag.Get("json")
	if jsonTag == "-" {
		return "", false, true
	}

	name = field.Name
	if jsonTag == "" {
		return name, false, false
	}

	if commaIdx := strings.Index(jsonTag, ","); commaIdx != -1 {
		if commaIdx > 0 {
			name = jsonTag[:commaIdx]
		}
		omitEmpty = strings.Contains(jsonTag[commaIdx:], "omitempty")
		return name, omitEmpty, false
	}
	return jsonTag, false, false
}

// hasRecursiveFields checks if a struct type has fields that reference itself
func hasRecursiveFields(t reflect.Type) bool {
	return checkRecursion(t, t, make(map[reflect.Type]bool))
}

// checkRecursion recursively checks if targetType appears in the fields of currentType
func checkRecursion(targetType, currentType reflect.Type, visited map[reflect.Type]bool) bool {
	if visited[currentType] {
		return false
	}
	visited[currentType] = true

	switch currentType.Kind() {
	case reflect.Struct:
		for i := 0; i < currentType.NumField(); i++ {
			field := currentType.Field(i)
			if !field.IsExported() {
				continue
			}

			fieldType := field.Type
			for fieldType.Kind() == reflect.Ptr || fieldType.Kind() == reflect.Slice || fieldType.Kind() == reflect.Array || fieldType.Kind() == reflect.Map {
				fieldType = fieldType.Elem()
			}

			if fieldType == targetType {
				return true
			}
			if fieldType.Kind() == reflect.Struct && checkRecursion(targetType, fieldType, visited) {
				return true
			}
		}
	case reflect.Slice, reflect.Array, reflect.Ptr, reflect.Map:
		elemType := currentType.Elem()
		for elemType.Kind() == reflect.Ptr {
			elemType = elemType.Elem()
		}
		if elemType == targetType {
			return true
		}
		if elemType.Kind() == reflect.Struct && checkRecursion(targetType, elemType, visited) {
			return true
		}
	}

	return false
}

// generateDefName creates a unique definition name for a type
func generateDefName(t reflect.Type) string {
	if t.Name() != "" {
		return strings.ToLower(t.Name())
	}
	return "anonymousStruct"
}

// parseJSONSchemaTag parses jsonschema struct tag and applies the settings to the schema.
// Supported struct tags:
// 1. jsonschema: "description=xxx"
// 2. jsonschema: "enum=xxx,enum=yyy", or "enum=1,enum=2", or "enum=3.14,enum=3.15", etc.
// NOTE: enum values are converted to the field's kind (string, integers, floats, bool).
// 3. jsonschema: "required"
//
// Items are comma separated, so descriptions cannot contain commas.
func parseJSONSchemaTag(fieldType reflect.Type, tag reflect.StructTag, schema *Schema) (bool, error) {
	jsonSchemaTag := tag.Get("jsonschema")
	if len(jsonSchemaTag) == 0 {
		return false, nil
	}

	isRequiredByTag := false
	for _, tagItem := range strings.Split(jsonSchemaTag, ",") {
		key, value, hasValue := strings.Cut(tagItem, "=")
		if !hasValue {
			if key == "required" {
				isRequiredByTag = true
			}
			continue
		}

		switch key {
		case "description":
			schema.Description = value
		case "default":
			schema.Default = value
		case "enum":
			enumValue, err := convertEnumValue(fieldType, value)
			if err != nil {
				return false, err
			}
			schema.Enum = append(schema.Enum, enumValue)
		}
	}

	return isRequiredByTag, nil
}

func convertEnumValue(fieldType reflect.Type, value string) (any, error) {
	switch fieldType.Kind() {
	case reflect.String:
		return value, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to int64 failed: %w", value, err)
		}
		return v, nil
	case reflect.Float32, reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to float64 failed: %w", value, err)
		}
		return v, nil
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("parse enum value %v to bool failed: %w", value, err)
		}
		return v, nil
	default:
		return nil, fmt.Errorf("enum tag unsupported for field type: %v", fieldType)
	}
}

// fieldSchema generates the schema for a field type.
func fieldSchema(t reflect.Type, ctx *schemaContext) *Schema {
	switch t.Kind() {
	case reflect.String, reflect.Bool, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: TypeName(t)}
	case reflect.Slice, reflect.Array:
		return &Schema{
			Type:  "array",
			Items: fieldSchema(t.Elem(), ctx),
		}
	case reflect.Map:
		return &Schema{
			Type:                 "object",
			AdditionalProperties: fieldSchema(t.Elem(), ctx),
		}
	case reflect.Ptr:
		return fieldSchema(t.Elem(), ctx)
	case reflect.Struct:
		return structSchema(t, ctx, false)
	default:
		return &Schema{Type: "object"}
	}
}

// TypeName maps a Go type to its JSON Schema type name.
func TypeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Slice, reflect.Array:
		return "array"
	default:
		return "object"
	}
}

// OrderedPropertyNames returns the property names in presentation order:
// PropertyOrder first (skipping unknown names), then any remaining properties
// sorted alphabetically.
func (s Schema) OrderedPropertyNames() []string {
	names := make([]string, 0, len(s.Properties))
	seen := make(map[string]bool, len(s.Properties))
	for _, name := range s.PropertyOrder {
		if _, ok := s.Properties[name]; ok && !seen[name] {
			names = append(names, name)
			seen[name] = true
		}
	}

	rest := make([]string, 0, len(s.Properties)-len(names))
	for name := range s.Properties {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// MarshalJSON emits the schema with its properties in presentation order.
func (s Schema) MarshalJSON() ([]byte, error) {
	type plain Schema

	withoutProps := s
	withoutProps.Properties = nil
	base, err := json.Marshal(plain(withoutProps))
	if err != nil {
		return nil, err
	}
	if len(s.Properties) == 0 {
		return base, nil
	}

	var props bytes.Buffer
	props.WriteByte('{')
	for i, name := range s.OrderedPropertyNames() {
		if i > 0 {
			props.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(s.Properties[name])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal property %q: %w", name, err)
		}
		props.Write(key)
		props.WriteByte(':')
		props.Write(value)
	}
	props.WriteByte('}')

	var out bytes.Buffer
	out.Write(base[:len(base)-1])
	if len(base) > 2 {
		out.WriteByte(',')
	}
	out.WriteString(`"properties":`)
	out.Write(props.Bytes())
	out.WriteByte('}')
	return out.Bytes(), nil
}

// JsonString converts the Schema to its JSON representation
// indent: optional bool parameter. If true, formats JSON with indentation. If false or omitted, returns compact JSON.
func (s *Schema) JsonString(indent ...bool) (string, error) {
	shouldIndent := len(indent) > 0 && indent[0]

	var jsonBytes []byte
	var err error
	if shouldIndent {
		jsonBytes, err = json.MarshalIndent(s, "", "  ")
	} else {
		jsonBytes, err = json.Marshal(s)
	}

	if err != nil {
		return "", fmt.Errorf("failed to marshal schema to JSON: %w", err)
	}
	return string(jsonBytes), nil
}

// String returns the compact JSON representation of the schema.
func (s *Schema) String() string {
	jsonStr, err := s.JsonString()
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return jsonStr
}
