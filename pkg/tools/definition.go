package tools

import (
	"context"
	"encoding/json"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
)

// Adapter wraps a single external capability behind a uniform call contract:
// validated structured arguments in, an Outcome out. Adapters hold only
// read-only handles (LLM client, vector store client) and share no mutable
// state between invocations.
type Adapter interface {
	Invoke(ctx context.Context, args json.RawMessage) Outcome
}

// AdapterFunc adapts a plain function to the Adapter interface.
type AdapterFunc func(ctx context.Context, args json.RawMessage) Outcome

func (f AdapterFunc) Invoke(ctx context.Context, args json.RawMessage) Outcome {
	return f(ctx, args)
}

// Definition describes a tool that the reasoning model can call: its name and
// description as advertised to the provider, the JSON schema of its
// arguments, and the adapter that executes it.
type Definition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`
	Adapter     Adapter            `json:"-"`
}

// NewDefinition builds a Definition, reflecting the parameter schema from the
// given argument struct type.
func NewDefinition(name, description string, argsPrototype any, adapter Adapter) (Definition, error) {
	if name == "" {
		return Definition{}, errors.New("tool name cannot be empty")
	}
	if adapter == nil {
		return Definition{}, errors.New("tool adapter cannot be nil")
	}
	schema, err := schemaFor(argsPrototype)
	if err != nil {
		return Definition{}, errors.Wrapf(err, "schema for tool %s", name)
	}
	return Definition{
		Name:        name,
		Description: description,
		Parameters:  schema,
		Adapter:     adapter,
	}, nil
}

func schemaFor(prototype any) (*jsonschema.Schema, error) {
	if prototype == nil {
		return &jsonschema.Schema{Type: "object"}, nil
	}
	t := reflect.TypeOf(prototype)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Errorf("argument prototype must be a struct, got %s", t.Kind())
	}

	reflector := jsonschema.Reflector{
		// Expand definitions inline instead of using $refs, for provider compatibility.
		DoNotReference: true,
	}
	schema := reflector.Reflect(reflect.New(t).Elem().Interface())
	if schema.Type == "" && schema.Ref == "" {
		schema.Type = "object"
	}
	// Providers and the argument validator both want a bare object schema,
	// not a versioned document.
	schema.Version = ""
	return schema, nil
}
