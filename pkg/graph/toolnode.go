package graph

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ponikar/healthy-ai/pkg/chat"
	"github.com/ponikar/healthy-ai/pkg/tools"
)

// DefaultMaxRetries bounds how often a tool node re-runs itself after a
// failure before the run degrades to terminal.
const DefaultMaxRetries = 2

// ArgumentsFunc derives the adapter arguments (and the tool-call ID to
// correlate the result message with) from the current state. The default
// reads the most recent assistant message's first tool call; pipeline nodes
// that run on a fixed edge derive their arguments from earlier tool results
// instead.
type ArgumentsFunc func(st *chat.State) (json.RawMessage, string, error)

// ToolNode executes one tool adapter with bounded retries. Each invocation
// appends exactly one tool-result message: the serialized payload on
// success, an error marker on failure. The handler never routes; pair it
// with RetryRouter.
type ToolNode struct {
	name       string
	definition tools.Definition
	maxRetries int
	argsFn     ArgumentsFunc
}

type ToolNodeOption func(*ToolNode)

func WithMaxRetries(n int) ToolNodeOption {
	return func(t *ToolNode) {
		t.maxRetries = n
	}
}

// WithArgumentsFunc overrides how the node derives its adapter arguments.
func WithArgumentsFunc(fn ArgumentsFunc) ToolNodeOption {
	return func(t *ToolNode) {
		t.argsFn = fn
	}
}

func NewToolNode(def tools.Definition, options ...ToolNodeOption) *ToolNode {
	t := &ToolNode{
		name:       def.Name,
		definition: def,
		maxRetries: DefaultMaxRetries,
	}
	for _, o := range options {
		o(t)
	}
	if t.argsFn == nil {
		t.argsFn = RequestedArguments()
	}
	return t
}

func (t *ToolNode) Name() string {
	return t.name
}

// Handler returns the graph handler. A failed invocation (adapter Failure,
// invalid arguments, or a success payload carrying an error marker) bumps
// the retry counter; a clean success resets it to zero.
func (t *ToolNode) Handler() Handler {
	return func(ctx context.Context, st *chat.State) (NodeResult, error) {
		outcome, callID := t.invoke(ctx, st)

		failed := !outcome.Ok()
		if !failed && outcome.HasErrorMarker() {
			log.Debug().Str("tool", t.name).Msg("success payload carries error marker, demoting to failure")
			failed = true
		}

		retryCount := 0
		if failed {
			retryCount = st.RetryCount + 1
			log.Warn().
				Str("tool", t.name).
				Str("reason", outcome.Reason()).
				Int("retry_count", retryCount).
				Msg("tool invocation failed")
		}

		msg := chat.NewToolResultMessage(callID, outcome.SerializeContent())
		return NodeResult{
			Messages:   []chat.Message{msg},
			RetryCount: retryCount,
		}, nil
	}
}

func (t *ToolNode) invoke(ctx context.Context, st *chat.State) (tools.Outcome, string) {
	args, callID, err := t.argsFn(st)
	if err != nil {
		return tools.Failuref("derive arguments: %v", err), callID
	}
	if callID == "" {
		callID = uuid.NewString()
	}

	if err := tools.ValidateArguments(&t.definition, args); err != nil {
		return tools.Failuref("%v", err), callID
	}

	return t.definition.Adapter.Invoke(ctx, args), callID
}

// RetryRouter routes after the handler has run: success goes to onSuccess,
// failure re-enters this node until the retry bound is exhausted, after
// which the run degrades silently to terminal.
func (t *ToolNode) RetryRouter(onSuccess string) Router {
	return func(st *chat.State) string {
		if st.RetryCount == 0 {
			return onSuccess
		}
		if st.RetryCount > t.maxRetries {
			log.Warn().
				Str("tool", t.name).
				Int("retry_count", st.RetryCount).
				Msg("retries exhausted, degrading to terminal")
			return End
		}
		return t.name
	}
}

// RequestedArguments is the default ArgumentsFunc: the first tool call of
// the most recent assistant message. Retries see the same arguments because
// tool-result messages appended in between are skipped.
func RequestedArguments() ArgumentsFunc {
	return func(st *chat.State) (json.RawMessage, string, error) {
		calls := st.LastAssistantToolCalls()
		if len(calls) == 0 {
			return nil, "", errors.New("no tool call in conversation state")
		}
		return calls[0].Arguments, calls[0].ID, nil
	}
}
