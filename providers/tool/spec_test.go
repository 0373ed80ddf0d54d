package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func echoHandler(ctx context.Context, args map[string]any) (string, error) {
	parts := make([]string, 0, len(args))
	for _, k := range sortedKeys(args) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return strings.Join(parts, ";"), nil
}

func searchSpec() *Spec {
	return &Spec{
		Name:        "search",
		Description: "Search the web.",
		Parameters: []Parameter{
			{Name: "query", Type: "string", Description: "The search query.", Required: true},
			{Name: "limit", Type: "integer", Description: "Maximum results.", Default: 5},
		},
		Handler: echoHandler,
	}
}

func TestSpec_Validate(t *testing.T) {
	tests := []struct {
		name string
		spec *Spec
	}{
		{"nil spec", nil},
		{"empty name", &Spec{Name: " ", Handler: echoHandler}},
		{"nil handler", &Spec{Name: "x"}},
		{"unnamed parameter", &Spec{Name: "x", Handler: echoHandler, Parameters: []Parameter{{Type: "string"}}}},
		{"duplicate parameter", &Spec{Name: "x", Handler: echoHandler, Parameters: []Parameter{{Name: "a"}, {Name: "a"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.spec.Validate()
			var invalid *InvalidSpecError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidSpecError, got %v", err)
			}
		})
	}

	if err := searchSpec().Validate(); err != nil {
		t.Errorf("valid spec rejected: %v", err)
	}
}

func TestSpec_Bind(t *testing.T) {
	spec := searchSpec()

	t.Run("named with default", func(t *testing.T) {
		args, err := spec.Bind(nil, map[string]any{"query": "go"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if args["query"] != "go" || args["limit"] != 5 {
			t.Errorf("unexpected args: %v", args)
		}
	})

	t.Run("positional", func(t *testing.T) {
		args, err := spec.Bind([]any{"go", 3}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if args["query"] != "go" || args["limit"] != 3 {
			t.Errorf("unexpected args: %v", args)
		}
	})

	t.Run("positional and named", func(t *testing.T) {
		args, err := spec.Bind([]any{"go"}, map[string]any{"limit": float64(2)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if args["limit"] != float64(2) {
			t.Errorf("limit = %v", args["limit"])
		}
	})

	t.Run("null positional leaves the slot to a named value", func(t *testing.T) {
		args, err := spec.Bind([]any{nil}, map[string]any{"query": "go"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if args["query"] != "go" {
			t.Errorf("query = %v", args["query"])
		}
	})

	t.Run("null counts as absent", func(t *testing.T) {
		args, err := spec.Bind(nil, map[string]any{"query": "go", "limit": nil})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if args["limit"] != 5 {
			t.Errorf("expected default, got %v", args["limit"])
		}
	})

	failures := []struct {
		name       string
		positional []any
		named      map[string]any
		contains   string
	}{
		{"missing required", nil, map[string]any{}, "missing required argument \"query\""},
		{"unexpected", nil, map[string]any{"query": "go", "page": 2}, "unexpected argument \"page\""},
		{"too many positional", []any{"a", 1, 2}, nil, "positionally"},
		{"multiple values", []any{"go"}, map[string]any{"query": "again"}, "multiple values"},
		{"wrong type", nil, map[string]any{"query": 42}, "must be of type string"},
		{"fractional integer", nil, map[string]any{"query": "go", "limit": 2.5}, "must be of type integer"},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := spec.Bind(tt.positional, tt.named)
			var bindErr *BindError
			if !errors.As(err, &bindErr) {
				t.Fatalf("expected BindError, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error %q does not contain %q", err, tt.contains)
			}
		})
	}
}

func TestSpec_SchemaOrder(t *testing.T) {
	spec := &Spec{
		Name: "ordered",
		Parameters: []Parameter{
			{Name: "zeta", Type: "string", Required: true},
			{Name: "alpha", Type: "integer"},
			{Name: "mid", Type: "boolean", Required: true},
		},
		Handler: echoHandler,
	}

	schema := spec.Schema()
	names := schema.OrderedPropertyNames()
	want := []string{"zeta", "alpha", "mid"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Errorf("property order = %v, want %v", names, want)
	}
	if strings.Join(schema.Required, ",") != "zeta,mid" {
		t.Errorf("required = %v", schema.Required)
	}

	js, err := schema.JsonString()
	if err != nil {
		t.Fatalf("JsonString: %v", err)
	}
	if strings.Index(js, `"zeta"`) > strings.Index(js, `"alpha"`) || strings.Index(js, `"alpha"`) > strings.Index(js, `"mid"`) {
		t.Errorf("serialized properties out of order: %s", js)
	}
}

func TestSpec_Documentation(t *testing.T) {
	doc := searchSpec().Documentation()
	want := "Search the web.\n\nArgs:\n    query (string): The search query.\n    limit (integer, optional): Maximum results."
	if doc != want {
		t.Errorf("Documentation() =\n%s\nwant\n%s", doc, want)
	}

	bare := &Spec{Name: "bare", Description: "  Nothing to see.  ", Handler: echoHandler}
	if got := bare.Documentation(); got != "Nothing to see." {
		t.Errorf("Documentation() = %q", got)
	}
}

func TestSpec_ToolDescription(t *testing.T) {
	desc := searchSpec().ToolDescription()
	if desc.Name != "search" {
		t.Errorf("Name = %q", desc.Name)
	}
	if !strings.HasPrefix(desc.Description, "Search the web.") || !strings.Contains(desc.Description, "Args:") {
		t.Errorf("Description = %q", desc.Description)
	}
	if desc.Parameters == nil || desc.Parameters.Properties["query"] == nil {
		t.Errorf("Parameters = %v", desc.Parameters)
	}
}

func TestSpec_Invoke(t *testing.T) {
	out, err := searchSpec().Invoke(context.Background(), []any{"go"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "limit=5;query=go" {
		t.Errorf("Invoke() = %q", out)
	}
}

func TestSpec_Clone(t *testing.T) {
	spec := &Spec{
		Name:       "pick",
		Parameters: []Parameter{{Name: "color", Type: "string", Enum: []any{"red", "blue"}}},
		Handler:    func(ctx context.Context, args map[string]any) (string, error) { return "", nil },
	}

	clone := spec.Clone()
	clone.Parameters[0].Enum[0] = "green"
	clone.Parameters = append(clone.Parameters, Parameter{Name: "extra"})

	if len(spec.Parameters) != 1 || spec.Parameters[0].Enum[0] != "red" {
		t.Errorf("original changed: %+v", spec.Parameters)
	}
	if (*Spec)(nil).Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}
