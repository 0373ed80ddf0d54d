package parse

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ErrNotObject is returned by ParseArguments when the input is valid JSON but not an object.
var ErrNotObject = errors.New("arguments are not a JSON object")

// ParseStringAs attempts to parse a string into the specified type T.
// For primitive types (string, bool, int, uint, float), it performs direct conversion.
// For complex types (structs, maps, slices), it extracts the JSON payload from
// surrounding prose or markdown fences, unmarshals it, and on failure repairs it
// with jsonrepair and retries. Values wrapped as {"type": ..., "value": ...} are
// unwrapped as a last resort.
//
// Example usage:
//
//	type Person struct {
//	    Name string `json:"name"`
//	    Age  int    `json:"age"`
//	}
//
//	person, err := ParseStringAs[Person](`{name: 'John', age: 30}`) // repaired
//	num, err := ParseStringAs[int]("42")
func ParseStringAs[T any](content string) (T, error) {
	var result T
	target := reflect.ValueOf(&result).Elem()

	switch target.Kind() {
	case reflect.String:
		if strings.HasPrefix(content, "{") {
			if unwrapped, err := tryUnwrapPrimitive(content); err == nil {
				target.SetString(unwrapped)
				return result, nil
			}
		}
		target.SetString(content)
		return result, nil

	case reflect.Bool, reflect.Float32, reflect.Float64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		err := setPrimitive(target, strings.TrimSpace(content))
		if err == nil {
			return result, nil
		}
		if unwrapped, unwrapErr := tryUnwrapPrimitive(content); unwrapErr == nil {
			if setPrimitive(target, unwrapped) == nil {
				return result, nil
			}
		}
		return result, err

	default:
		if err := unmarshalLenient(content, &result); err != nil {
			return result, fmt.Errorf("failed to parse content as %T: %w", result, err)
		}
		return result, nil
	}
}

// ParseArguments decodes tool-call arguments produced by an LLM into a map.
// Blank input yields an empty map. Malformed JSON is repaired with jsonrepair;
// anything that still does not decode to an object is an error.
func ParseArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}

	var value any
	if err := unmarshalLenient(raw, &value); err != nil {
		return nil, err
	}
	args, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", ErrNotObject, value)
	}
	return args, nil
}

// unmarshalLenient is the complex-type path shared by ParseStringAs and ParseArguments.
func unmarshalLenient(content string, out any) error {
	candidate := extractJSONCandidate(content)

	err := json.Unmarshal([]byte(candidate), out)
	if err == nil {
		return nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(candidate)
	if repairErr != nil {
		return fmt.Errorf("unmarshal error: %w, repair error: %v", err, repairErr)
	}
	if err = json.Unmarshal([]byte(repaired), out); err == nil {
		return nil
	}

	// LLMs sometimes echo the schema shape instead of the data.
	if unwrapped, unwrapErr := unwrapSchemaValues(repaired); unwrapErr == nil {
		if json.Unmarshal([]byte(unwrapped), out) == nil {
			return nil
		}
	}
	return fmt.Errorf("unmarshal repaired JSON: %w (repaired: %s)", err, repaired)
}

func setPrimitive(target reflect.Value, content string) error {
	switch target.Kind() {
	case reflect.Bool:
		val, err := strconv.ParseBool(content)
		if err != nil {
			return fmt.Errorf("failed to parse content as bool: %w", err)
		}
		target.SetBool(val)
	case reflect.Float32, reflect.Float64:
		val, err := strconv.ParseFloat(content, 64)
		if err != nil {
			return fmt.Errorf("failed to parse content as float: %w", err)
		}
		target.SetFloat(val)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		val, err := strconv.ParseInt(content, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse content as int: %w", err)
		}
		target.SetInt(val)
	default:
		val, err := strconv.ParseUint(content, 10, 64)
		if err != nil {
			return fmt.Errorf("failed to parse content as uint: %w", err)
		}
		target.SetUint(val)
	}
	return nil
}

// extractJSONCandidate strips markdown code fences and leading prose, returning
// the first balanced JSON object or array. Content without one is returned trimmed.
func extractJSONCandidate(content string) string {
	trimmed := strings.TrimSpace(content)

	if start := strings.Index(trimmed, "```"); start >= 0 {
		body := trimmed[start+3:]
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
			body = body[nl+1:]
		}
		if end := strings.Index(body, "```"); end >= 0 {
			body = body[:end]
		}
		trimmed = strings.TrimSpace(body)
	}

	start := strings.IndexAny(trimmed, "{[")
	if start < 0 {
		return trimmed
	}
	if end := matchingBracket(trimmed, start); end > start {
		return trimmed[start : end+1]
	}
	// Unbalanced: keep the tail and let jsonrepair close it.
	return trimmed[start:]
}

// matchingBracket returns the index of the bracket closing the one at start,
// ignoring brackets inside JSON strings, or -1 when it is never closed.
func matchingBracket(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch ch {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// tryUnwrapPrimitive extracts the value of a {"type": ..., "value": ...} wrapper.
func tryUnwrapPrimitive(content string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return "", err
	}

	value, ok := schemaWrapped(data)
	if !ok {
		return "", errors.New("not a schema-wrapped value")
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case float64, bool:
		return fmt.Sprintf("%v", v), nil
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}

// unwrapSchemaValues rewrites
//
//	{"name": {"type": "string", "value": "John"}}
//
// into
//
//	{"name": "John"}
func unwrapSchemaValues(jsonStr string) (string, error) {
	var data any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return "", err
	}
	result, err := json.Marshal(recursiveUnwrap(data))
	if err != nil {
		return "", err
	}
	return string(result), nil
}

func recursiveUnwrap(data any) any {
	switch v := data.(type) {
	case map[string]any:
		if value, ok := schemaWrapped(v); ok {
			return recursiveUnwrap(value)
		}
		result := make(map[string]any, len(v))
		for key, val := range v {
			result[key] = recursiveUnwrap(val)
		}
		return result
	case []any:
		result := make([]any, len(v))
		for i, val := range v {
			result[i] = recursiveUnwrap(val)
		}
		return result
	default:
		return data
	}
}

func schemaWrapped(m map[string]any) (any, bool) {
	if len(m) != 2 {
		return nil, false
	}
	if _, hasType := m["type"]; !hasType {
		return nil, false
	}
	value, hasValue := m["value"]
	return value, hasValue
}
