package agent

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/ponikar/healthy-ai/pkg/chat"
	"github.com/ponikar/healthy-ai/pkg/graph"
)

// The UI pipeline nodes after decide_components run on fixed edges, so the
// model never emits tool calls for them. Their arguments are derived from
// the tool results already in the conversation instead.

// docsArguments builds get_component_docs arguments from the most recent
// component selection.
func docsArguments() graph.ArgumentsFunc {
	return func(st *chat.State) (json.RawMessage, string, error) {
		selection, ok := latestToolResultWith(st, "components")
		if !ok {
			return nil, "", errors.New("no component selection in conversation")
		}
		args, err := json.Marshal(map[string]any{"components": selection["components"]})
		if err != nil {
			return nil, "", errors.Wrap(err, "marshal docs arguments")
		}
		return args, "", nil
	}
}

// generateArguments builds generate_component arguments from the component
// selection (query, payload) and the documentation step's output.
func generateArguments() graph.ArgumentsFunc {
	return func(st *chat.State) (json.RawMessage, string, error) {
		selection, ok := latestToolResultWith(st, "query")
		if !ok {
			return nil, "", errors.New("no component selection in conversation")
		}

		out := map[string]any{"query": selection["query"]}
		if payload, ok := selection["payload"]; ok && payload != nil {
			out["payload"] = payload
		}
		if docs, ok := latestToolResultWith(st, "documentation"); ok {
			out["documentation"] = docs["documentation"]
		}

		args, err := json.Marshal(out)
		if err != nil {
			return nil, "", errors.Wrap(err, "marshal generate arguments")
		}
		return args, "", nil
	}
}

// latestToolResultWith scans the history backwards for the most recent
// tool-result message whose JSON content carries the given key.
func latestToolResultWith(st *chat.State, key string) (map[string]any, bool) {
	for i := len(st.Messages) - 1; i >= 0; i-- {
		m := st.Messages[i]
		if m.Role != chat.RoleTool {
			continue
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(m.Content), &parsed); err != nil {
			continue
		}
		if _, ok := parsed[key]; ok {
			return parsed, true
		}
	}
	return nil, false
}
