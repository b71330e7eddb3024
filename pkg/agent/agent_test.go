package agent

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ponikar/healthy-ai/pkg/chat"
	"github.com/ponikar/healthy-ai/pkg/config"
	"github.com/ponikar/healthy-ai/pkg/graph"
	"github.com/ponikar/healthy-ai/pkg/inference"
	"github.com/ponikar/healthy-ai/pkg/tools/crisisdata"
	"github.com/ponikar/healthy-ai/pkg/vectorstore"
)

type fakeStore struct{}

func (fakeStore) Search(_ context.Context, _ string, _ string, _ int, _ *vectorstore.Filter) ([]vectorstore.Document, error) {
	return nil, nil
}

// seqCompleter returns canned completions in order and records prompts.
type seqCompleter struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (c *seqCompleter) Complete(_ context.Context, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return "", c.errs[i]
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return "", nil
}

type scriptedEngine struct {
	script []chat.Message
	calls  int
}

func (e *scriptedEngine) RunInference(_ context.Context, _ *chat.State) (chat.Message, error) {
	if e.calls >= len(e.script) {
		return chat.NewAssistantMessage("done"), nil
	}
	msg := e.script[e.calls]
	e.calls++
	return msg, nil
}

func testDefinitions(t *testing.T, completer inference.Completer) Definitions {
	t.Helper()
	settings := &config.Settings{}
	settings.Weaviate.CrisisCollection = crisisdata.DefaultCrisisCollection
	settings.Weaviate.AreaHistoryCollection = crisisdata.DefaultAreaHistoryCollection
	defs, err := buildDefinitions(fakeStore{}, completer, settings)
	require.NoError(t, err)
	return defs
}

func decideCall(query string) chat.ToolCall {
	args, _ := json.Marshal(map[string]any{
		"query":   query,
		"payload": map[string]any{"region": "Mumbai"},
	})
	return chat.ToolCall{ID: "call-1", Name: "decide_components", Arguments: args}
}

func nodeSequence(t *testing.T, g *graph.Graph, initial *chat.State) []string {
	t.Helper()
	var nodes []string
	for step := range g.Stream(context.Background(), initial) {
		require.NoError(t, step.Err)
		nodes = append(nodes, step.Node)
	}
	return nodes
}

func TestPipelineRunsDecideDocsGenerateInOrder(t *testing.T) {
	completer := &seqCompleter{responses: []string{
		`{"components": ["table", "badge"]}`,
		`{"type": "capacity-table", "code": "export function T() {}"}`,
	}}
	engine := &scriptedEngine{script: []chat.Message{
		chat.NewAssistantMessage("", decideCall("bed capacity dashboard")),
		chat.NewAssistantMessage("Here is your component."),
	}}

	g, err := BuildGraph(engine, testDefinitions(t, completer), 2, 0)
	require.NoError(t, err)

	nodes := nodeSequence(t, g, chat.NewState(chat.NewUserMessage("build me a dashboard")))
	assert.Equal(t, []string{
		"agent",
		"decide_components",
		"get_component_docs",
		"generate_component",
		"agent",
	}, nodes)

	// The generate prompt received the documentation gathered by the docs
	// step, not just the raw user query.
	require.Len(t, completer.prompts, 2)
	assert.Contains(t, completer.prompts[1], "bed capacity dashboard")
	assert.Contains(t, completer.prompts[1], "table")
}

func TestPipelineRetriesDecideInPlace(t *testing.T) {
	completer := &seqCompleter{
		responses: []string{
			"",
			`{"components": ["card"]}`,
			`{"type": "c", "code": "x"}`,
		},
		errs: []error{assert.AnError},
	}
	engine := &scriptedEngine{script: []chat.Message{
		chat.NewAssistantMessage("", decideCall("a card")),
		chat.NewAssistantMessage("done"),
	}}

	g, err := BuildGraph(engine, testDefinitions(t, completer), 2, 0)
	require.NoError(t, err)

	nodes := nodeSequence(t, g, chat.NewState(chat.NewUserMessage("card please")))
	assert.Equal(t, []string{
		"agent",
		"decide_components",
		"decide_components",
		"get_component_docs",
		"generate_component",
		"agent",
	}, nodes)
}

func TestBuildGraphRejectsNegativeRetries(t *testing.T) {
	completer := &seqCompleter{}
	engine := &scriptedEngine{}

	_, err := BuildGraph(engine, testDefinitions(t, completer), -1, 0)
	require.Error(t, err)
}

func TestRegistryListsAllTools(t *testing.T) {
	registry, err := NewRegistry(testDefinitions(t, &seqCompleter{}))
	require.NoError(t, err)

	defs := registry.ListTools()
	names := make([]string, 0, len(defs))
	for _, d := range defs {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{
		"search_crisis_data",
		"decide_components",
		"get_component_docs",
		"generate_component",
	}, names)
}
