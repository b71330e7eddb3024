package chat

import (
	"encoding/json"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// ToolCall is a single tool invocation requested by an assistant message.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Message is one turn in the conversation. Messages are never mutated after
// they have been appended to a State.
type Message struct {
	ID      uuid.UUID `json:"id"`
	Role    Role      `json:"role"`
	Content string    `json:"content"`
	// ToolCalls is only present on assistant messages that request tool execution.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	// ToolCallID correlates a tool-result message with the call that produced it.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

func NewUserMessage(content string) Message {
	return Message{ID: uuid.New(), Role: RoleUser, Content: content}
}

func NewAssistantMessage(content string, toolCalls ...ToolCall) Message {
	return Message{ID: uuid.New(), Role: RoleAssistant, Content: content, ToolCalls: toolCalls}
}

func NewToolResultMessage(callID string, content string) Message {
	return Message{ID: uuid.New(), Role: RoleTool, Content: content, ToolCallID: callID}
}

// State is the unit of data threaded through the execution graph. It is owned
// by a single request and never shared across goroutines.
//
// Merge rules: Messages is append-only, RetryCount is overwritten by whichever
// node ran last. The reasoning node always resets RetryCount to 0, so the
// counter is only meaningful while a tool node owns control.
type State struct {
	Messages   []Message
	RetryCount int
}

func NewState(messages ...Message) *State {
	return &State{Messages: messages}
}

// AppendMessages returns the state with the given messages appended. The
// existing history is never reordered or replaced.
func (s *State) AppendMessages(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
}

// LastMessage returns the most recent message, or false when the history is empty.
func (s *State) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// LastAssistantToolCalls returns the tool calls requested by the most recent
// assistant message. Tool-result messages appended after it (by earlier
// attempts of the same node) are skipped, so a retry sees the same arguments
// as the first attempt.
func (s *State) LastAssistantToolCalls() []ToolCall {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m.Role != RoleAssistant {
			continue
		}
		return m.ToolCalls
	}
	return nil
}

// Clone returns a deep copy of the State suitable for handing to observers
// without exposing the stepper's working copy to mutation.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := &State{RetryCount: s.RetryCount}
	if len(s.Messages) == 0 {
		return out
	}
	out.Messages = make([]Message, len(s.Messages))
	for i, m := range s.Messages {
		if len(m.ToolCalls) > 0 {
			calls := make([]ToolCall, len(m.ToolCalls))
			for j, c := range m.ToolCalls {
				if len(c.Arguments) > 0 {
					c.Arguments = append(json.RawMessage(nil), c.Arguments...)
				}
				calls[j] = c
			}
			m.ToolCalls = calls
		}
		out.Messages[i] = m
	}
	return out
}
