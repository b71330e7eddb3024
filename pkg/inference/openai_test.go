package inference

import (
	"context"
	"encoding/json"
	"testing"

	go_openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ponikar/healthy-ai/pkg/chat"
	"github.com/ponikar/healthy-ai/pkg/tools"
)

func TestBuildMessagesConvertsRolesAndToolCalls(t *testing.T) {
	eng := NewOpenAIEngine(nil, "gpt-4o-mini", nil, WithSystemPrompt("you are a crisis analyst"))

	call := chat.ToolCall{ID: "call-1", Name: "search_crisis_data", Arguments: json.RawMessage(`{"query":"mumbai"}`)}
	st := chat.NewState(
		chat.NewUserMessage("tell me about floods"),
		chat.NewAssistantMessage("", call),
		chat.NewToolResultMessage("call-1", `{"crisis":{}}`),
	)

	msgs := eng.buildMessages(st)
	require.Len(t, msgs, 4)

	assert.Equal(t, go_openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, "you are a crisis analyst", msgs[0].Content)

	assert.Equal(t, go_openai.ChatMessageRoleUser, msgs[1].Role)

	assert.Equal(t, go_openai.ChatMessageRoleAssistant, msgs[2].Role)
	require.Len(t, msgs[2].ToolCalls, 1)
	assert.Equal(t, "call-1", msgs[2].ToolCalls[0].ID)
	assert.Equal(t, "search_crisis_data", msgs[2].ToolCalls[0].Function.Name)
	assert.JSONEq(t, `{"query":"mumbai"}`, msgs[2].ToolCalls[0].Function.Arguments)

	assert.Equal(t, go_openai.ChatMessageRoleTool, msgs[3].Role)
	assert.Equal(t, "call-1", msgs[3].ToolCallID)
}

func TestBuildMessagesWithoutSystemPrompt(t *testing.T) {
	eng := NewOpenAIEngine(nil, "gpt-4o-mini", nil)
	msgs := eng.buildMessages(chat.NewState(chat.NewUserMessage("hello")))
	require.Len(t, msgs, 1)
	assert.Equal(t, go_openai.ChatMessageRoleUser, msgs[0].Role)
}

func TestBuildToolsFromRegistry(t *testing.T) {
	type searchArgs struct {
		Query string `json:"query" jsonschema:"required"`
	}
	adapter := tools.AdapterFunc(func(ctx context.Context, args json.RawMessage) tools.Outcome {
		return tools.Success(nil)
	})
	def, err := tools.NewDefinition("search_crisis_data", "Search crisis history", searchArgs{}, adapter)
	require.NoError(t, err)

	reg := tools.NewInMemoryRegistry()
	require.NoError(t, reg.RegisterTool("search_crisis_data", def))

	eng := NewOpenAIEngine(nil, "gpt-4o-mini", reg)
	converted := eng.buildTools()
	require.Len(t, converted, 1)
	assert.Equal(t, go_openai.ToolTypeFunction, converted[0].Type)
	assert.Equal(t, "search_crisis_data", converted[0].Function.Name)
	assert.NotNil(t, converted[0].Function.Parameters)
}

func TestBuildToolsNilRegistry(t *testing.T) {
	eng := NewOpenAIEngine(nil, "gpt-4o-mini", nil)
	assert.Nil(t, eng.buildTools())
}
