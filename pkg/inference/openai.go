package inference

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	go_openai "github.com/sashabaranov/go-openai"

	"github.com/ponikar/healthy-ai/pkg/chat"
	"github.com/ponikar/healthy-ai/pkg/tools"
)

// OpenAIEngine runs the reasoning step against the OpenAI chat completion
// API, advertising the registry's tools so the model can request calls.
type OpenAIEngine struct {
	client       *go_openai.Client
	model        string
	temperature  float32
	systemPrompt string
	registry     tools.Registry
}

var _ Engine = (*OpenAIEngine)(nil)

type OpenAIEngineOption func(*OpenAIEngine)

func WithTemperature(t float32) OpenAIEngineOption {
	return func(e *OpenAIEngine) { e.temperature = t }
}

func WithSystemPrompt(prompt string) OpenAIEngineOption {
	return func(e *OpenAIEngine) { e.systemPrompt = prompt }
}

func NewOpenAIEngine(client *go_openai.Client, model string, registry tools.Registry, opts ...OpenAIEngineOption) *OpenAIEngine {
	e := &OpenAIEngine{
		client:      client,
		model:       model,
		temperature: 0.5,
		registry:    registry,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *OpenAIEngine) RunInference(ctx context.Context, st *chat.State) (chat.Message, error) {
	req := go_openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temperature,
		Messages:    e.buildMessages(st),
		Tools:       e.buildTools(),
	}
	if len(req.Tools) > 0 {
		req.ToolChoice = "auto"
	}

	log.Debug().
		Str("model", e.model).
		Int("num_messages", len(req.Messages)).
		Int("num_tools", len(req.Tools)).
		Msg("running reasoning inference")

	resp, err := e.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return chat.Message{}, errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return chat.Message{}, errors.New("chat completion returned no choices")
	}

	out := resp.Choices[0].Message
	msg := chat.Message{
		ID:      uuid.New(),
		Role:    chat.RoleAssistant,
		Content: out.Content,
	}
	for _, tc := range out.ToolCalls {
		id := tc.ID
		if id == "" {
			id = uuid.NewString()
		}
		msg.ToolCalls = append(msg.ToolCalls, chat.ToolCall{
			ID:        id,
			Name:      tc.Function.Name,
			Arguments: json.RawMessage(tc.Function.Arguments),
		})
	}

	log.Debug().
		Int("content_length", len(msg.Content)).
		Int("tool_call_count", len(msg.ToolCalls)).
		Str("finish_reason", string(resp.Choices[0].FinishReason)).
		Msg("reasoning inference completed")
	return msg, nil
}

func (e *OpenAIEngine) buildMessages(st *chat.State) []go_openai.ChatCompletionMessage {
	out := make([]go_openai.ChatCompletionMessage, 0, len(st.Messages)+1)
	if e.systemPrompt != "" {
		out = append(out, go_openai.ChatCompletionMessage{
			Role:    go_openai.ChatMessageRoleSystem,
			Content: e.systemPrompt,
		})
	}
	for _, m := range st.Messages {
		converted := go_openai.ChatCompletionMessage{Content: m.Content}
		switch m.Role {
		case chat.RoleUser:
			converted.Role = go_openai.ChatMessageRoleUser
		case chat.RoleAssistant:
			converted.Role = go_openai.ChatMessageRoleAssistant
			for _, tc := range m.ToolCalls {
				converted.ToolCalls = append(converted.ToolCalls, go_openai.ToolCall{
					ID:   tc.ID,
					Type: go_openai.ToolTypeFunction,
					Function: go_openai.FunctionCall{
						Name:      tc.Name,
						Arguments: string(tc.Arguments),
					},
				})
			}
		case chat.RoleTool:
			converted.Role = go_openai.ChatMessageRoleTool
			converted.ToolCallID = m.ToolCallID
		}
		out = append(out, converted)
	}
	return out
}

func (e *OpenAIEngine) buildTools() []go_openai.Tool {
	if e.registry == nil {
		return nil
	}
	var out []go_openai.Tool
	for _, def := range e.registry.ListTools() {
		out = append(out, go_openai.Tool{
			Type: go_openai.ToolTypeFunction,
			Function: &go_openai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	return out
}

// OpenAICompleter satisfies Completer over the same chat completion endpoint,
// for adapters that need a single prompt-to-text call.
type OpenAICompleter struct {
	client      *go_openai.Client
	model       string
	temperature float32
}

var _ Completer = (*OpenAICompleter)(nil)

func NewOpenAICompleter(client *go_openai.Client, model string, temperature float32) *OpenAICompleter {
	return &OpenAICompleter{client: client, model: model, temperature: temperature}
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, go_openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []go_openai.ChatCompletionMessage{
			{Role: go_openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", errors.Wrap(err, "completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
