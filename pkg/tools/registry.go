package tools

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// Registry manages the tools available to the execution graph.
type Registry interface {
	RegisterTool(name string, def Definition) error
	GetTool(name string) (*Definition, error)
	ListTools() []Definition
}

// InMemoryRegistry is a thread-safe in-memory Registry.
type InMemoryRegistry struct {
	mu    sync.RWMutex
	tools map[string]Definition
	order []string
}

var _ Registry = (*InMemoryRegistry)(nil)

func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{tools: make(map[string]Definition)}
}

func (r *InMemoryRegistry) RegisterTool(name string, def Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return errors.New("tool name cannot be empty")
	}
	if def.Name != "" && def.Name != name {
		return errors.Errorf("tool definition name (%s) does not match registry name (%s)", def.Name, name)
	}
	def.Name = name
	if _, exists := r.tools[name]; !exists {
		r.order = append(r.order, name)
	}
	r.tools[name] = def
	return nil
}

func (r *InMemoryRegistry) GetTool(name string) (*Definition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	def, exists := r.tools[name]
	if !exists {
		return nil, errors.Errorf("tool not found: %s", name)
	}
	defCopy := def
	return &defCopy, nil
}

// ListTools returns all registered tools in registration order.
func (r *InMemoryRegistry) ListTools() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// ValidateArguments checks tool-call arguments against the tool's parameter
// schema before the adapter runs, so adapters only ever see structurally
// valid input.
func ValidateArguments(def *Definition, args json.RawMessage) error {
	if def == nil {
		return errors.New("nil tool definition")
	}
	if def.Parameters == nil {
		return nil
	}
	schemaJSON, err := json.Marshal(def.Parameters)
	if err != nil {
		return errors.Wrapf(err, "marshal parameter schema for %s", def.Name)
	}
	doc := args
	if len(doc) == 0 {
		doc = json.RawMessage(`{}`)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaJSON),
		gojsonschema.NewBytesLoader(doc),
	)
	if err != nil {
		return errors.Wrapf(err, "validate arguments for %s", def.Name)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return errors.Errorf("invalid arguments for %s: %s", def.Name, strings.Join(msgs, "; "))
}
