package graph

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ponikar/healthy-ai/pkg/chat"
	"github.com/ponikar/healthy-ai/pkg/inference"
)

// ReasoningNode wraps an inference engine as a graph handler. It appends the
// engine's assistant message and resets the retry counter, since control has
// left whatever tool node was retrying.
func ReasoningNode(engine inference.Engine) Handler {
	return func(ctx context.Context, st *chat.State) (NodeResult, error) {
		msg, err := engine.RunInference(ctx, st)
		if err != nil {
			return NodeResult{}, errors.Wrap(err, "inference")
		}
		return NodeResult{
			Messages:   []chat.Message{msg},
			RetryCount: 0,
		}, nil
	}
}

// FirstToolCallRouter routes a reasoning node: to the node named by the
// first requested tool call, or to End when the assistant answered in prose.
// Only the first call is honored per reasoning step; the engine is expected
// to request one tool at a time.
func FirstToolCallRouter() Router {
	return func(st *chat.State) string {
		last, ok := st.LastMessage()
		if !ok || last.Role != chat.RoleAssistant || len(last.ToolCalls) == 0 {
			return End
		}
		return last.ToolCalls[0].Name
	}
}
