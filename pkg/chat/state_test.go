package chat

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_AppendMessagesKeepsOrder(t *testing.T) {
	st := NewState(NewUserMessage("first"))
	st.AppendMessages(NewAssistantMessage("second"))
	st.AppendMessages(NewToolResultMessage("call-1", "third"))

	require.Len(t, st.Messages, 3)
	assert.Equal(t, "first", st.Messages[0].Content)
	assert.Equal(t, "second", st.Messages[1].Content)
	assert.Equal(t, "third", st.Messages[2].Content)
	assert.Equal(t, RoleTool, st.Messages[2].Role)
	assert.Equal(t, "call-1", st.Messages[2].ToolCallID)
}

func TestState_LastAssistantToolCallsSkipsToolResults(t *testing.T) {
	call := ToolCall{ID: "call-1", Name: "search_crisis_data", Arguments: json.RawMessage(`{"query":"mumbai floods"}`)}
	st := NewState(
		NewUserMessage("tell me about floods"),
		NewAssistantMessage("", call),
	)
	// A failed first attempt appends a tool-result message. The retry must
	// still see the original call.
	st.AppendMessages(NewToolResultMessage("call-1", `{"error":true}`))

	calls := st.LastAssistantToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "search_crisis_data", calls[0].Name)
	assert.JSONEq(t, `{"query":"mumbai floods"}`, string(calls[0].Arguments))
}

func TestState_LastAssistantToolCallsEmptyHistory(t *testing.T) {
	st := NewState()
	assert.Nil(t, st.LastAssistantToolCalls())

	_, ok := st.LastMessage()
	assert.False(t, ok)
}

func TestState_CloneIsIndependent(t *testing.T) {
	call := ToolCall{ID: "call-1", Name: "echo", Arguments: json.RawMessage(`{"a":1}`)}
	st := NewState(NewAssistantMessage("hello", call))
	st.RetryCount = 2

	clone := st.Clone()
	require.Equal(t, st.RetryCount, clone.RetryCount)
	require.Len(t, clone.Messages, 1)

	clone.AppendMessages(NewUserMessage("more"))
	clone.Messages[0].ToolCalls[0].Arguments[1] = 'x'

	assert.Len(t, st.Messages, 1)
	assert.JSONEq(t, `{"a":1}`, string(st.Messages[0].ToolCalls[0].Arguments))
}

func TestState_CloneNil(t *testing.T) {
	var st *State
	assert.Nil(t, st.Clone())
}
