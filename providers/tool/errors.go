package tool

import (
	"fmt"
	"strings"
)

// NameCollisionError reports a tool that already declares the reserved
// reasoning parameter. It is raised when a tool is augmented, never at call time.
type NameCollisionError struct {
	Tool      string
	Parameter string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("tool %q: parameter name %q is reserved for reasoning, use a different parameter name", e.Tool, e.Parameter)
}

// DuplicateToolError reports a second tool registered under an existing name.
// Names are compared case-insensitively.
type DuplicateToolError struct {
	Name string
}

func (e *DuplicateToolError) Error() string {
	return fmt.Sprintf("tool %q is already registered", e.Name)
}

// InvalidSpecError reports a tool spec that fails validation.
type InvalidSpecError struct {
	Tool   string
	Reason string
}

func (e *InvalidSpecError) Error() string {
	if e.Tool == "" {
		return "invalid tool spec: " + e.Reason
	}
	return fmt.Sprintf("invalid tool spec %q: %s", e.Tool, e.Reason)
}

// BindError reports arguments that cannot be bound to a tool's parameter list:
// too many positional values, unknown or duplicated names, missing required
// parameters or values of the wrong type.
type BindError struct {
	Tool   string
	Reason string
}

func (e *BindError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, e.Reason)
}

// UnknownToolError reports a call to a tool name that is not registered.
type UnknownToolError struct {
	Name      string
	Available []string
}

func (e *UnknownToolError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unknown tool: %s (no tools are available)", e.Name)
	}
	return fmt.Sprintf("unknown tool: %s (available tools: %s)", e.Name, strings.Join(e.Available, ", "))
}

// PanicError carries the value a tool handler panicked with.
type PanicError struct {
	Tool  string
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("tool %q panicked: %v", e.Tool, e.Value)
}
