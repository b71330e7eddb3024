package uigen

import (
	"context"
	"encoding/json"

	"github.com/ponikar/healthy-ai/pkg/tools"
)

const DocsToolName = "get_component_docs"

// DocsArgs are the arguments for the documentation-lookup step.
type DocsArgs struct {
	Components []string `json:"components" jsonschema:"required" jsonschema_description:"Component names selected in the previous step"`
}

// DocsAdapter resolves documentation for the selected components from the
// static catalog. It never reaches the network.
type DocsAdapter struct{}

var _ tools.Adapter = DocsAdapter{}

func NewDocsAdapter() DocsAdapter {
	return DocsAdapter{}
}

func (DocsAdapter) Definition() (tools.Definition, error) {
	return tools.NewDefinition(
		DocsToolName,
		"Get documentation and usage examples for the selected UI components.",
		DocsArgs{},
		DocsAdapter{},
	)
}

func (DocsAdapter) Invoke(_ context.Context, args json.RawMessage) tools.Outcome {
	var in DocsArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return tools.Failuref("unmarshal arguments: %v", err)
	}
	if len(in.Components) == 0 {
		return tools.Failure("no components to document")
	}

	docs := make(map[string]ComponentDoc, len(in.Components))
	for _, name := range in.Components {
		docs[name] = LookupDoc(name)
	}
	return tools.Success(map[string]any{
		"components":    in.Components,
		"documentation": docs,
	})
}
