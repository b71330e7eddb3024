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

const DecideToolName = "decide_components"

// DecideArgs are the arguments for the component-selection step.
type DecideArgs struct {
	Query   string         `json:"query" jsonschema:"required" jsonschema_description:"Clear description of the UI the user asked for"`
	Payload map[string]any `json:"payload,omitempty" jsonschema_description:"Additional context and data for the UI"`
}

const decidePromptText = `You are a UI planning assistant.

User Query: {{ .Query }}
{{- if .Payload }}
Payload: {{ .Payload | toJson }}
{{- end }}

Available components: {{ .Components | join ", " }}

Pick the components needed to build the requested UI.

Return ONLY a JSON object with this exact structure:
{
  "components": ["component1", "component2"]
}`

var decidePrompt = template.Must(
	template.New("decide-components").Funcs(sprig.TxtFuncMap()).Parse(decidePromptText),
)

// DecideAdapter asks the model which catalog components the requested UI
// needs. It is the entry point of the fixed generation pipeline.
type DecideAdapter struct {
	completer inference.Completer
}

var _ tools.Adapter = (*DecideAdapter)(nil)

func NewDecideAdapter(completer inference.Completer) *DecideAdapter {
	return &DecideAdapter{completer: completer}
}

func (a *DecideAdapter) Definition() (tools.Definition, error) {
	return tools.NewDefinition(
		DecideToolName,
		"Analyze the user's UI request and decide which components to use.",
		DecideArgs{},
		a,
	)
}

func (a *DecideAdapter) Invoke(ctx context.Context, args json.RawMessage) tools.Outcome {
	var in DecideArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return tools.Failuref("unmarshal arguments: %v", err)
	}
	if strings.TrimSpace(in.Query) == "" {
		return tools.Failure("query must not be empty")
	}

	var prompt strings.Builder
	err := decidePrompt.Execute(&prompt, map[string]any{
		"Query":      in.Query,
		"Payload":    in.Payload,
		"Components": CatalogNames(),
	})
	if err != nil {
		return tools.Failuref("render prompt: %v", err)
	}

	completion, err := a.completer.Complete(ctx, prompt.String())
	if err != nil {
		return tools.Failuref("component selection: %v", err)
	}

	raw, ok := tools.ExtractJSONObject(completion)
	if !ok {
		return tools.Failure("component selection returned no JSON object")
	}
	var parsed struct {
		Components []string `json:"components"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return tools.Failuref("parse component selection: %v", err)
	}
	if len(parsed.Components) == 0 {
		return tools.Failure("component selection returned no components")
	}

	return tools.Success(map[string]any{
		"components": parsed.Components,
		"query":      in.Query,
		"payload":    in.Payload,
	})
}
