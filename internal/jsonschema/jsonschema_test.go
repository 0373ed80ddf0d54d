package jsonschema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGeneratesPrimitiveSchemas(t *testing.T) {
	cases := []struct {
		name string
		got  *Schema
		want string
	}{
		{"string", GenerateJSONSchema[string](), "string"},
		{"int", GenerateJSONSchema[int](), "integer"},
		{"uint8", GenerateJSONSchema[uint8](), "integer"},
		{"float32", GenerateJSONSchema[float32](), "number"},
		{"bool", GenerateJSONSchema[bool](), "boolean"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got.Type != tc.want {
				t.Errorf("Expected type '%s', got '%s'", tc.want, tc.got.Type)
			}
		})
	}
}

func TestGeneratesArraySchemaForSlice(t *testing.T) {
	schema := GenerateJSONSchema[[]string]()
	if schema.Type != "array" {
		t.Errorf("Expected type 'array', got '%s'", schema.Type)
	}
	if schema.Items == nil || schema.Items.Type != "string" {
		t.Fatalf("Expected string items, got %+v", schema.Items)
	}
}

func TestGeneratesObjectSchemaForMap(t *testing.T) {
	schema := GenerateJSONSchema[map[string]int]()
	if schema.Type != "object" {
		t.Errorf("Expected type 'object', got '%s'", schema.Type)
	}
	additional, ok := schema.AdditionalProperties.(*Schema)
	if !ok || additional.Type != "integer" {
		t.Errorf("Expected integer additionalProperties, got %#v", schema.AdditionalProperties)
	}
}

func TestStructFieldsKeepDeclarationOrder(t *testing.T) {
	type Input struct {
		Query    string `json:"query"`
		Limit    int    `json:"limit,omitempty"`
		Language string `json:"language"`
	}

	schema := GenerateJSONSchema[Input]()
	want := []string{"query", "limit", "language"}
	if strings.Join(schema.PropertyOrder, ",") != strings.Join(want, ",") {
		t.Errorf("Expected property order %v, got %v", want, schema.PropertyOrder)
	}
}

func TestRequiredFields(t *testing.T) {
	type Input struct {
		Name     string  `json:"name"`
		Nickname string  `json:"nickname,omitempty"`
		Age      *int    `json:"age"`
		Email    *string `json:"email" jsonschema:"required"`
	}

	schema := GenerateJSONSchema[Input]()
	required := map[string]bool{}
	for _, name := range schema.Required {
		required[name] = true
	}

	if !required["name"] {
		t.Error("Expected 'name' to be required")
	}
	if required["nickname"] {
		t.Error("Did not expect omitempty field 'nickname' to be required")
	}
	if required["age"] {
		t.Error("Did not expect pointer field 'age' to be required")
	}
	if !required["email"] {
		t.Error("Expected 'email' to be required by tag")
	}
}

func TestIgnoresDashAndUnexportedFields(t *testing.T) {
	type Input struct {
		Visible string `json:"visible"`
		Hidden  string `json:"-"`
		private string
	}

	schema := GenerateJSONSchema[Input]()
	if len(schema.Properties) != 1 {
		t.Fatalf("Expected 1 property, got %d", len(schema.Properties))
	}
	if _, ok := schema.Properties["visible"]; !ok {
		t.Error("Expected 'visible' property")
	}
}

func TestHandlesJSONSchemaTags(t *testing.T) {
	type Input struct {
		Op    string  `json:"op" jsonschema:"description=Operation type,enum=add,enum=sub"`
		Scale float64 `json:"scale" jsonschema:"enum=0.5,enum=2"`
		Deep  bool    `json:"deep" jsonschema:"default=true"`
	}

	schema := GenerateJSONSchema[Input]()
	op := schema.Properties["op"]
	if op.Description != "Operation type" {
		t.Errorf("Expected description 'Operation type', got '%s'", op.Description)
	}
	if len(op.Enum) != 2 || op.Enum[0] != "add" || op.Enum[1] != "sub" {
		t.Errorf("Unexpected enum values: %v", op.Enum)
	}
	if scale := schema.Properties["scale"]; len(scale.Enum) != 2 || scale.Enum[0] != 0.5 {
		t.Errorf("Unexpected float enum values: %v", scale.Enum)
	}
	if deep := schema.Properties["deep"]; deep.Default != "true" {
		t.Errorf("Expected default 'true', got %v", deep.Default)
	}
}

func TestInvalidEnumDoesNotPanic(t *testing.T) {
	type Input struct {
		Count int `json:"count" jsonschema:"enum=many"`
	}

	schema := GenerateJSONSchema[Input]()
	if len(schema.Properties["count"].Enum) != 0 {
		t.Errorf("Expected invalid enum to be skipped, got %v", schema.Properties["count"].Enum)
	}
}

func TestRecursiveStructUsesReferences(t *testing.T) {
	type Node struct {
		Name     string  `json:"name"`
		Children []*Node `json:"children"`
	}

	schema := GenerateJSONSchema[Node]()
	if schema.Type != "object" {
		t.Fatalf("Expected object, got '%s'", schema.Type)
	}
	children := schema.Properties["children"]
	if children.Items == nil || children.Items.Ref != "#/$defs/node" {
		t.Fatalf("Expected children items to reference #/$defs/node, got %+v", children.Items)
	}
	if _, ok := schema.Defs["node"]; !ok {
		t.Fatal("Expected 'node' definition")
	}

	// The definition must not embed the root's $defs, otherwise marshalling would loop forever.
	if _, err := schema.JsonString(); err != nil {
		t.Fatalf("Unexpected marshal error: %v", err)
	}
}

func TestNestedRecursiveStructIsReferencedTwice(t *testing.T) {
	type Nested struct {
		Value string  `json:"value"`
		Self  *Nested `json:"self,omitempty"`
	}
	type Root struct {
		First  Nested `json:"first"`
		Second Nested `json:"second"`
	}

	schema := GenerateJSONSchema[Root]()
	if schema.Properties["first"].Ref == "" || schema.Properties["second"].Ref == "" {
		t.Errorf("Expected both fields to be references, got %+v and %+v",
			schema.Properties["first"], schema.Properties["second"])
	}
}

func TestMarshalJSONFollowsPropertyOrder(t *testing.T) {
	schema := &Schema{
		Type: "object",
		Properties: map[string]*Schema{
			"zeta":     {Type: "string"},
			"_thought": {Type: "string"},
			"alpha":    {Type: "integer"},
			"beta":     {Type: "boolean"},
		},
		PropertyOrder: []string{"_thought", "zeta", "missing"},
		Required:      []string{"_thought", "zeta"},
	}

	out, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	text := string(out)
	order := []string{`"_thought"`, `"zeta"`, `"alpha"`, `"beta"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key+":{")
		if idx < 0 {
			t.Fatalf("Expected %s in %s", key, text)
		}
		if idx < last {
			t.Errorf("Expected %s after previous property in %s", key, text)
		}
		last = idx
	}

	// PropertyOrder is presentation only and never serialised.
	if strings.Contains(text, "PropertyOrder") || strings.Contains(text, "missing") {
		t.Errorf("Unexpected serialised ordering metadata: %s", text)
	}
}

func TestMarshalJSONRoundTripKeepsProperties(t *testing.T) {
	schema := Schema{
		Type:          "object",
		Properties:    map[string]*Schema{"query": {Type: "string", Description: "The query"}},
		PropertyOrder: []string{"query"},
	}

	out, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	var decoded Schema
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("Unexpected unmarshal error: %v", err)
	}
	if decoded.Properties["query"].Description != "The query" {
		t.Errorf("Expected description to survive, got %+v", decoded.Properties["query"])
	}
}

func TestMarshalJSONWithoutProperties(t *testing.T) {
	out, err := json.Marshal(Schema{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(out) != "{}" {
		t.Errorf("Expected '{}', got %s", out)
	}

	out, err = json.Marshal(Schema{Properties: map[string]*Schema{"a": {Type: "string"}}})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(out) != `{"properties":{"a":{"type":"string"}}}` {
		t.Errorf("Unexpected output %s", out)
	}
}

func TestStringIsCompactJSON(t *testing.T) {
	schema := &Schema{Type: "string", Description: "x"}
	if schema.String() != `{"type":"string","description":"x"}` {
		t.Errorf("Unexpected String() output: %s", schema.String())
	}

	indented, err := schema.JsonString(true)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(indented, "\n") {
		t.Errorf("Expected indented output, got %s", indented)
	}
}
