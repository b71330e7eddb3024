package graph

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/ponikar/healthy-ai/pkg/chat"
)

// End is the terminal routing target. Routing to it stops the stepper.
const End = "__end__"

// DefaultMaxSteps caps the total number of node executions per request so a
// miswired routing table cannot loop forever.
const DefaultMaxSteps = 50

// NodeResult is what a handler hands back to the stepper: the messages to
// append and the new retry counter. Messages are append-only; RetryCount
// overwrites the previous value.
type NodeResult struct {
	Messages   []chat.Message
	RetryCount int
}

// Handler executes one node against the current state. It must not mutate
// the state it receives.
type Handler func(ctx context.Context, st *chat.State) (NodeResult, error)

// Router picks the next node after a handler has run. It sees the state with
// the handler's result already merged in. Returning End terminates the run.
type Router func(st *chat.State) string

// Step is one emitted unit of progress: the node that just ran, a snapshot
// of the state after its result was merged, and the messages it appended.
// A non-nil Err means the node faulted (handler error or recovered panic)
// and the run is over; no further steps follow.
type Step struct {
	Node     string
	State    *chat.State
	Appended []chat.Message
	Err      error
}

// Graph is a fixed-topology execution graph: a static handler table, a
// static routing table, and a single entry node. The stepper is a plain
// loop, there is no dynamic wiring.
type Graph struct {
	entry    string
	handlers map[string]Handler
	routers  map[string]Router
	maxSteps int
}

type Option func(*Graph)

func WithMaxSteps(n int) Option {
	return func(g *Graph) {
		g.maxSteps = n
	}
}

func New(entry string, options ...Option) *Graph {
	g := &Graph{
		entry:    entry,
		handlers: make(map[string]Handler),
		routers:  make(map[string]Router),
		maxSteps: DefaultMaxSteps,
	}
	for _, o := range options {
		o(g)
	}
	return g
}

// AddNode registers a node with its handler and its routing function. Every
// node routes; a node that should always terminate routes to End.
func (g *Graph) AddNode(name string, handler Handler, router Router) *Graph {
	g.handlers[name] = handler
	g.routers[name] = router
	return g
}

// Validate checks the tables are complete: an entry handler exists and every
// node has both a handler and a router. Routing targets are only checkable
// at runtime since routers are opaque functions.
func (g *Graph) Validate() error {
	if _, ok := g.handlers[g.entry]; !ok {
		return errors.Errorf("entry node %q has no handler", g.entry)
	}
	for name := range g.handlers {
		if _, ok := g.routers[name]; !ok {
			return errors.Errorf("node %q has no router", name)
		}
	}
	return nil
}

// Stream runs the graph and emits one Step per completed node, lazily: the
// next node does not run until the previous Step has been consumed. The
// channel is closed when the run reaches End, faults, or the context is
// canceled.
func (g *Graph) Stream(ctx context.Context, initial *chat.State) <-chan Step {
	out := make(chan Step)

	go func() {
		defer close(out)

		state := initial.Clone()
		if state == nil {
			state = chat.NewState()
		}

		current := g.entry
		for steps := 0; current != End; steps++ {
			if steps >= g.maxSteps {
				g.emit(ctx, out, Step{
					Node:  current,
					State: state.Clone(),
					Err:   errors.Errorf("step limit of %d reached at node %q", g.maxSteps, current),
				})
				return
			}
			if ctx.Err() != nil {
				log.Debug().Str("node", current).Msg("context canceled, abandoning run")
				return
			}

			result, err := g.runNode(ctx, current, state)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				g.emit(ctx, out, Step{Node: current, State: state.Clone(), Err: err})
				return
			}

			state.AppendMessages(result.Messages...)
			state.RetryCount = result.RetryCount

			log.Debug().
				Str("node", current).
				Int("appended", len(result.Messages)).
				Int("retry_count", state.RetryCount).
				Msg("node completed")

			if !g.emit(ctx, out, Step{
				Node:     current,
				State:    state.Clone(),
				Appended: append([]chat.Message(nil), result.Messages...),
			}) {
				return
			}

			router, ok := g.routers[current]
			if !ok {
				g.emit(ctx, out, Step{
					Node:  current,
					State: state.Clone(),
					Err:   errors.Errorf("node %q has no router", current),
				})
				return
			}
			current = router(state)
		}
	}()

	return out
}

// Invoke drains Stream and returns the final state. The first faulting step
// aborts the run and surfaces its error.
func (g *Graph) Invoke(ctx context.Context, initial *chat.State) (*chat.State, error) {
	final := initial.Clone()
	for step := range g.Stream(ctx, initial) {
		if step.Err != nil {
			return final, step.Err
		}
		final = step.State
	}
	if err := ctx.Err(); err != nil {
		return final, err
	}
	return final, nil
}

// runNode looks up and executes a handler, converting a panic into an error
// so an adapter throwing instead of returning a failure surfaces as a
// faulting step rather than tearing down the process.
func (g *Graph) runNode(ctx context.Context, name string, st *chat.State) (result NodeResult, err error) {
	handler, ok := g.handlers[name]
	if !ok {
		return NodeResult{}, errors.Errorf("no handler for node %q", name)
	}

	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("node", name).Interface("panic", r).Msg("node handler panicked")
			err = errors.Errorf("node %q panicked: %v", name, r)
		}
	}()

	return handler(ctx, st)
}

func (g *Graph) emit(ctx context.Context, out chan<- Step, step Step) bool {
	select {
	case out <- step:
		return true
	case <-ctx.Done():
		return false
	}
}
