// Package stream turns graph steps into wire-level stream events. Translate
// is a pure function of the step it receives, so replaying the same steps
// always yields the same events.
package stream

import (
	"encoding/json"

	"github.com/ponikar/healthy-ai/pkg/chat"
	"github.com/ponikar/healthy-ai/pkg/events"
	"github.com/ponikar/healthy-ai/pkg/graph"
)

// Translate maps one step to zero or more events.
//
// A faulting step becomes a single error event. An assistant message becomes
// an agent text event (when it has content) and an agent tool-call event
// (when it requests tools). A tool-result message becomes a tool event
// carrying the parsed JSON result, or the raw string when the content is not
// valid JSON. Failed tool attempts emit nothing; retries are internal and
// only the eventual success is shown.
func Translate(step graph.Step) []events.Event {
	if step.Err != nil {
		return []events.Event{events.NewErrorEvent(step.Err.Error())}
	}

	var out []events.Event
	for _, msg := range step.Appended {
		switch msg.Role {
		case chat.RoleAssistant:
			if msg.Content != "" {
				out = append(out, events.NewAgentTextEvent(step.Node, msg.Content))
			}
			if len(msg.ToolCalls) > 0 {
				specs := make([]events.ToolCallSpec, len(msg.ToolCalls))
				for i, c := range msg.ToolCalls {
					specs[i] = events.ToolCallSpec{
						Name: c.Name,
						Args: c.Arguments,
						ID:   c.ID,
					}
				}
				out = append(out, events.NewAgentToolCallEvent(step.Node, specs))
			}
		case chat.RoleTool:
			if step.State != nil && step.State.RetryCount > 0 {
				continue
			}
			out = append(out, events.NewToolResultEvent(step.Node, parseToolData(msg.Content)))
		}
	}
	return out
}

// parseToolData decodes the stored tool content, falling back to the raw
// string when it is not valid JSON.
func parseToolData(content string) any {
	var v any
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return content
	}
	return v
}
