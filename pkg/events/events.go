package events

import (
	"encoding/json"
)

type EventType string

const (
	EventTypeAgent EventType = "agent"
	EventTypeTool  EventType = "tool"
	EventTypeError EventType = "error"
)

// Event is a single wire-level stream event. Concrete events marshal to the
// exact JSON shape the chat client consumes.
type Event interface {
	Type() EventType
	Node() string
}

// AgentTextEvent carries assistant text produced by a reasoning node.
type AgentTextEvent struct {
	Type_   EventType `json:"type"`
	Node_   string    `json:"node"`
	Content string    `json:"content"`
}

func NewAgentTextEvent(node string, content string) *AgentTextEvent {
	return &AgentTextEvent{
		Type_:   EventTypeAgent,
		Node_:   node,
		Content: content,
	}
}

func (e *AgentTextEvent) Type() EventType { return e.Type_ }
func (e *AgentTextEvent) Node() string    { return e.Node_ }

// ToolCallSpec is one requested tool invocation as seen on the wire.
type ToolCallSpec struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args"`
	ID   string          `json:"id"`
}

// AgentToolCallEvent announces the tool calls a reasoning node requested.
type AgentToolCallEvent struct {
	Type_     EventType      `json:"type"`
	Node_     string         `json:"node"`
	ToolCalls []ToolCallSpec `json:"toolCalls"`
}

func NewAgentToolCallEvent(node string, calls []ToolCallSpec) *AgentToolCallEvent {
	for i := range calls {
		if len(calls[i].Args) == 0 {
			calls[i].Args = json.RawMessage("{}")
		}
	}
	return &AgentToolCallEvent{
		Type_:     EventTypeAgent,
		Node_:     node,
		ToolCalls: calls,
	}
}

func (e *AgentToolCallEvent) Type() EventType { return e.Type_ }
func (e *AgentToolCallEvent) Node() string    { return e.Node_ }

// ToolResultEvent carries the stored result of a tool node. Data is the
// parsed JSON value when the stored content is valid JSON, the raw string
// otherwise.
type ToolResultEvent struct {
	Type_ EventType `json:"type"`
	Node_ string    `json:"node"`
	Data  any       `json:"data"`
}

func NewToolResultEvent(node string, data any) *ToolResultEvent {
	return &ToolResultEvent{
		Type_: EventTypeTool,
		Node_: node,
		Data:  data,
	}
}

func (e *ToolResultEvent) Type() EventType { return e.Type_ }
func (e *ToolResultEvent) Node() string    { return e.Node_ }

// ErrorEvent reports an unhandled fault. It closes the stream.
type ErrorEvent struct {
	Type_   EventType `json:"type"`
	Content string    `json:"content"`
}

func NewErrorEvent(content string) *ErrorEvent {
	return &ErrorEvent{
		Type_:   EventTypeError,
		Content: content,
	}
}

func (e *ErrorEvent) Type() EventType { return e.Type_ }
func (e *ErrorEvent) Node() string    { return "" }
