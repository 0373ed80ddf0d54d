package tool

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ReasoningMode selects how a Catalog asks the model for its reasoning.
type ReasoningMode int

const (
	// ReasoningParameter injects the reasoning parameter into every tool.
	ReasoningParameter ReasoningMode = iota
	// ReasoningThinkTool leaves tools untouched and registers a dedicated think tool.
	ReasoningThinkTool
)

func (m ReasoningMode) String() string {
	switch m {
	case ReasoningParameter:
		return "parameter"
	case ReasoningThinkTool:
		return "think_tool"
	default:
		return fmt.Sprintf("ReasoningMode(%d)", int(m))
	}
}

// ParseReasoningMode accepts "parameter" or "think_tool" (also "think").
func ParseReasoningMode(s string) (ReasoningMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "parameter", "param":
		return ReasoningParameter, nil
	case "think_tool", "think", "think-tool":
		return ReasoningThinkTool, nil
	default:
		return ReasoningParameter, fmt.Errorf("unknown reasoning mode %q", s)
	}
}

// WithReasoningMode sets how the catalog exposes reasoning. The default is ReasoningParameter.
func WithReasoningMode(mode ReasoningMode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

type entry struct {
	original *Spec
	exposed  *Spec
}

// Catalog is the registry of tools available to a loop. It validates and
// (depending on the reasoning mode) augments every tool at registration,
// resolves names case-insensitively and dispatches calls. It is safe for
// concurrent use.
type Catalog struct {
	opts options

	mu    sync.RWMutex
	tools map[string]*entry
	order []string
}

// NewCatalog creates an empty catalog. In ReasoningThinkTool mode the think
// tool is registered immediately.
func NewCatalog(opts ...Option) *Catalog {
	c := &Catalog{
		opts:  applyOptions(opts),
		tools: make(map[string]*entry),
	}
	if c.opts.mode == ReasoningThinkTool {
		think := NewThinkTool(c.opts.onThought)
		c.tools[strings.ToLower(think.Name)] = &entry{original: think, exposed: think}
		c.order = append(c.order, strings.ToLower(think.Name))
	}
	return c
}

// NewCatalogWithTools creates a catalog and registers specs.
func NewCatalogWithTools(specs []*Spec, opts ...Option) (*Catalog, error) {
	c := NewCatalog(opts...)
	if err := c.Register(specs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Mode returns the reasoning mode.
func (c *Catalog) Mode() ReasoningMode {
	return c.opts.mode
}

// Register validates and prepares every spec before adding any of them: if one
// fails with *InvalidSpecError, *NameCollisionError or *DuplicateToolError the
// catalog is left unchanged.
func (c *Catalog) Register(specs ...*Spec) error {
	prepared := make([]*entry, 0, len(specs))
	for _, spec := range specs {
		e, err := c.prepare(spec)
		if err != nil {
			return err
		}
		prepared = append(prepared, e)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	batch := make(map[string]bool, len(prepared))
	for _, e := range prepared {
		key := strings.ToLower(e.exposed.Name)
		if _, exists := c.tools[key]; exists || batch[key] {
			return &DuplicateToolError{Name: e.exposed.Name}
		}
		batch[key] = true
	}

	for _, e := range prepared {
		key := strings.ToLower(e.exposed.Name)
		c.tools[key] = e
		c.order = append(c.order, key)
	}
	return nil
}

func (c *Catalog) prepare(spec *Spec) (*entry, error) {
	if c.opts.mode == ReasoningThinkTool {
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		spec = spec.Clone()
		return &entry{original: spec, exposed: spec}, nil
	}

	augmented, err := Augment(spec,
		WithThoughtCallback(c.opts.onThought),
		WithReasoningDescription(c.opts.reasoningDescription),
	)
	if err != nil {
		return nil, err
	}
	return &entry{original: augmented.Original(), exposed: augmented.Spec()}, nil
}

// Get returns a copy of the exposed spec registered under name
// (case-insensitive).
func (c *Catalog) Get(name string) (*Spec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.tools[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return e.exposed.Clone(), true
}

// Has checks if a tool with the given name exists (case-insensitive).
func (c *Catalog) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.tools[strings.ToLower(name)]
	return ok
}

// Remove removes a tool by name (case-insensitive) and reports whether it existed.
func (c *Catalog) Remove(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := c.tools[key]; !ok {
		return false
	}
	delete(c.tools, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Size returns the number of registered tools.
func (c *Catalog) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tools)
}

// Names returns the tool names in registration order, as they were declared.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.order))
	for _, key := range c.order {
		names = append(names, c.tools[key].exposed.Name)
	}
	return names
}

// Specs returns copies of the exposed specs in registration order. These are
// the contracts a reasoning provider should present to the model.
func (c *Catalog) Specs() []*Spec {
	c.mu.RLock()
	defer c.mu.RUnlock()
	specs := make([]*Spec, 0, len(c.order))
	for _, key := range c.order {
		specs = append(specs, c.tools[key].exposed.Clone())
	}
	return specs
}

// Dispatch invokes the named tool with args. In ReasoningParameter mode thought
// is supplied as the reasoning argument unless args already carries one; in
// ReasoningThinkTool mode a stray reasoning argument is dropped.
//
// Errors: *UnknownToolError, *BindError, *PanicError, or whatever the handler
// returned.
func (c *Catalog) Dispatch(ctx context.Context, name, thought string, args map[string]any) (output string, err error) {
	c.mu.RLock()
	e, ok := c.tools[strings.ToLower(name)]
	c.mu.RUnlock()
	if !ok {
		return "", &UnknownToolError{Name: name, Available: c.Names()}
	}

	call := make(map[string]any, len(args)+1)
	for k, v := range args {
		call[k] = v
	}
	switch {
	case e.exposed != e.original:
		if _, has := call[ReasoningParamName]; !has {
			call[ReasoningParamName] = thought
		}
	default:
		if _, declared := e.exposed.Parameter(ReasoningParamName); !declared {
			delete(call, ReasoningParamName)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			output = ""
			err = &PanicError{Tool: e.exposed.Name, Value: r}
		}
	}()
	return e.exposed.Invoke(ctx, nil, call)
}
