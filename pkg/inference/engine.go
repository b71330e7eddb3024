package inference

import (
	"context"

	"github.com/ponikar/healthy-ai/pkg/chat"
)

// Engine is the language-model backend of the reasoning node. It reads the
// conversation history and produces exactly one assistant message, which may
// carry tool-call requests instead of (or in addition to) prose.
type Engine interface {
	RunInference(ctx context.Context, st *chat.State) (chat.Message, error)
}

// Completer is the plain generative collaborator used by tool adapters: one
// prompt in, one completion out. It performs no retries; retry is the calling
// tool node's job.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
