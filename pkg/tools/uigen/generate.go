package uigen

import (
	"context"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/ponikar/healthy-ai/pkg/inference"
	"github.com/ponikar/healthy-ai/pkg/tools"
)

const GenerateToolName = "generate_component"

// GenerateArgs are the arguments for the final code-generation step.
type GenerateArgs struct {
	Query         string         `json:"query" jsonschema:"required" jsonschema_description:"Clear description of the UI component to generate"`
	Payload       map[string]any `json:"payload,omitempty" jsonschema_description:"Additional configuration and data for the component"`
	Documentation map[string]any `json:"documentation,omitempty" jsonschema_description:"Component documentation from the previous step"`
}

const generatePromptText = `You are a React/TypeScript expert specializing in reusable UI components.

User Query: {{ .Query }}
{{- if .Payload }}
Payload: {{ .Payload | toPrettyJson }}
{{- end }}
{{- if .Documentation }}
Component documentation:
{{ .Documentation | toPrettyJson }}
{{- end }}

Generate a production-ready React component that:
1. Uses components from ~/components/ui/*
2. Follows TypeScript best practices
3. Includes proper imports
4. Uses the payload data appropriately
5. Is clean, minimal, and follows modern React patterns

Return ONLY a JSON object with this exact structure:
{
  "type": "component-type-name",
  "code": "full-component-code-here"
}

The code should be a complete, ready-to-use React component.`

var generatePrompt = template.Must(
	template.New("generate-component").Funcs(sprig.TxtFuncMap()).Parse(generatePromptText),
)

// GenerateAdapter asks the model for the final component code. A completion
// without the expected JSON wrapper degrades to a raw-code payload instead of
// failing.
type GenerateAdapter struct {
	completer inference.Completer
}

var _ tools.Adapter = (*GenerateAdapter)(nil)

func NewGenerateAdapter(completer inference.Completer) *GenerateAdapter {
	return &GenerateAdapter{completer: completer}
}

func (a *GenerateAdapter) Definition() (tools.Definition, error) {
	return tools.NewDefinition(
		GenerateToolName,
		"Generate React component code based on the user query and gathered documentation.",
		GenerateArgs{},
		a,
	)
}

func (a *GenerateAdapter) Invoke(ctx context.Context, args json.RawMessage) tools.Outcome {
	var in GenerateArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return tools.Failuref("unmarshal arguments: %v", err)
	}
	if strings.TrimSpace(in.Query) == "" {
		return tools.Failure("query must not be empty")
	}

	var prompt strings.Builder
	err := generatePrompt.Execute(&prompt, map[string]any{
		"Query":         in.Query,
		"Payload":       in.Payload,
		"Documentation": in.Documentation,
	})
	if err != nil {
		return tools.Failuref("render prompt: %v", err)
	}

	completion, err := a.completer.Complete(ctx, prompt.String())
	if err != nil {
		return tools.Failuref("component generation: %v", err)
	}

	if raw, ok := tools.ExtractJSONObject(completion); ok {
		var parsed struct {
			Type string `json:"type"`
			Code string `json:"code"`
		}
		if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Code != "" {
			return tools.Success(map[string]any{"type": parsed.Type, "code": parsed.Code})
		}
	}

	return tools.Success(map[string]any{
		"type": "generated-component",
		"code": completion,
	})
}
