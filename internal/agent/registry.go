package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/SHivit700/InteLect/internal/llm"
)

// Handler runs a tool against its raw JSON arguments and returns the
// text handed back to the model.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Tool is a named function the model may call.
type Tool struct {
	Name        string
	Description string

	// Schema is the JSON Schema object describing the arguments.
	Schema map[string]any

	Handler Handler
}

// Registry maps tool names to tools. It is safe for concurrent use once
// populated; registration normally happens once at construction.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry returns a Registry holding tools, or an error if any name
// is empty or repeated.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds t. Registering a name twice is an error.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" {
		return fmt.Errorf("agent: tool name is empty")
	}
	if t.Handler == nil {
		return fmt.Errorf("agent: tool %q has no handler", t.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.tools == nil {
		r.tools = make(map[string]Tool)
	}
	if _, ok := r.tools[t.Name]; ok {
		return &DuplicateToolError{Name: t.Name}
	}
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
	return nil
}

// Names returns registered tool names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := append([]string(nil), r.order...)
	sort.Strings(names)
	return names
}

// Specs describes every tool for an llm.Request, in registration order.
func (r *Registry) Specs() []llm.ToolSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	specs := make([]llm.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		specs = append(specs, llm.ToolSpec{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  t.Schema,
		})
	}
	return specs
}

// Dispatch runs the tool named by call.
func (r *Registry) Dispatch(ctx context.Context, call llm.ToolCall) (string, error) {
	r.mu.RLock()
	t, ok := r.tools[call.Name]
	r.mu.RUnlock()
	if !ok {
		return "", &UnknownToolError{Name: call.Name}
	}
	args := call.Arguments
	if len(bytes.TrimSpace(args)) == 0 {
		args = json.RawMessage(`{}`)
	}
	return t.Handler(ctx, args)
}

// Typed adapts a handler taking a decoded argument struct. Arguments are
// checked against schema first, then decoded strictly into T.
func Typed[T any](name string, schema map[string]any, fn func(ctx context.Context, args T) (string, error)) Handler {
	compiled := &llm.Schema{Name: "tool-" + name, Definition: schema}
	return func(ctx context.Context, raw json.RawMessage) (string, error) {
		if schema != nil {
			if err := llm.ValidateJSON(compiled, raw); err != nil {
				return "", &ArgumentError{Tool: name, Err: err}
			}
		}
		var args T
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&args); err != nil {
			return "", &ArgumentError{Tool: name, Err: err}
		}
		return fn(ctx, args)
	}
}
