// Package agent assembles the execution graph: the reasoning node, the four
// tool nodes, and the routing tables that connect them.
package agent

import (
	"github.com/pkg/errors"
	go_openai "github.com/sashabaranov/go-openai"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/auth"

	"github.com/ponikar/healthy-ai/pkg/config"
	"github.com/ponikar/healthy-ai/pkg/embeddings"
	"github.com/ponikar/healthy-ai/pkg/graph"
	"github.com/ponikar/healthy-ai/pkg/inference"
	"github.com/ponikar/healthy-ai/pkg/tools"
	"github.com/ponikar/healthy-ai/pkg/tools/crisisdata"
	"github.com/ponikar/healthy-ai/pkg/tools/uigen"
	"github.com/ponikar/healthy-ai/pkg/vectorstore"
)

// Definitions holds the tool definitions wired into the graph.
type Definitions struct {
	Search   tools.Definition
	Decide   tools.Definition
	Docs     tools.Definition
	Generate tools.Definition
}

// BuildGraph declares the fixed topology:
//
//	agent -> first requested tool (or End)
//	search_crisis_data -> agent on success, itself on failure until the bound
//	decide_components -> get_component_docs -> generate_component -> agent
//
// Every tool node retries in place on failure with the same bound.
func BuildGraph(engine inference.Engine, defs Definitions, maxRetries int, maxSteps int) (*graph.Graph, error) {
	if maxRetries < 0 {
		return nil, errors.New("max retries must not be negative")
	}
	if maxSteps <= 0 {
		maxSteps = graph.DefaultMaxSteps
	}

	searchNode := graph.NewToolNode(defs.Search, graph.WithMaxRetries(maxRetries))
	decideNode := graph.NewToolNode(defs.Decide, graph.WithMaxRetries(maxRetries))
	docsNode := graph.NewToolNode(defs.Docs,
		graph.WithMaxRetries(maxRetries),
		graph.WithArgumentsFunc(docsArguments()),
	)
	generateNode := graph.NewToolNode(defs.Generate,
		graph.WithMaxRetries(maxRetries),
		graph.WithArgumentsFunc(generateArguments()),
	)

	g := graph.New("agent", graph.WithMaxSteps(maxSteps))
	g.AddNode("agent", graph.ReasoningNode(engine), graph.FirstToolCallRouter())
	g.AddNode(searchNode.Name(), searchNode.Handler(), searchNode.RetryRouter("agent"))
	g.AddNode(decideNode.Name(), decideNode.Handler(), decideNode.RetryRouter(docsNode.Name()))
	g.AddNode(docsNode.Name(), docsNode.Handler(), docsNode.RetryRouter(generateNode.Name()))
	g.AddNode(generateNode.Name(), generateNode.Handler(), generateNode.RetryRouter("agent"))

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewRegistry registers the definitions so the reasoning engine can expose
// them to the model.
func NewRegistry(defs Definitions) (tools.Registry, error) {
	registry := tools.NewInMemoryRegistry()
	for _, def := range []tools.Definition{defs.Search, defs.Decide, defs.Docs, defs.Generate} {
		if err := registry.RegisterTool(def.Name, def); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Agent is a fully wired graph plus the settings it was built from.
type Agent struct {
	Graph      *graph.Graph
	MaxRetries int
}

// New constructs every collaborator from settings: the OpenAI client, the
// weaviate vector store, the tool adapters, the reasoning engine, and the
// graph. Clients are built once here and injected; nothing reads
// configuration at use time.
func New(settings *config.Settings) (*Agent, error) {
	openaiClient := go_openai.NewClient(settings.OpenAI.APIKey)

	weaviateConfig := weaviate.Config{
		Host:   settings.Weaviate.Host,
		Scheme: settings.Weaviate.Scheme,
	}
	if settings.Weaviate.APIKey != "" {
		weaviateConfig.AuthConfig = auth.ApiKey{Value: settings.Weaviate.APIKey}
	}
	weaviateClient, err := weaviate.NewClient(weaviateConfig)
	if err != nil {
		return nil, errors.Wrap(err, "create weaviate client")
	}

	embedder := embeddings.NewOpenAIProvider(
		openaiClient,
		go_openai.EmbeddingModel(settings.OpenAI.EmbeddingModel),
		0,
	)
	store := vectorstore.NewWeaviateStore(weaviateClient, embedder, map[string][]string{
		settings.Weaviate.CrisisCollection:      {"crisisId", "crisisType", "location", "year"},
		settings.Weaviate.AreaHistoryCollection: {"crisisId", "area"},
	})

	completer := inference.NewOpenAICompleter(
		openaiClient,
		settings.OpenAI.Model,
		float32(settings.OpenAI.Temperature),
	)

	defs, err := buildDefinitions(store, completer, settings)
	if err != nil {
		return nil, err
	}

	registry, err := NewRegistry(defs)
	if err != nil {
		return nil, err
	}

	engine := inference.NewOpenAIEngine(
		openaiClient,
		settings.OpenAI.Model,
		registry,
		inference.WithTemperature(float32(settings.OpenAI.Temperature)),
		inference.WithSystemPrompt(SystemPrompt),
	)

	g, err := BuildGraph(engine, defs, settings.Graph.MaxRetries, settings.Graph.MaxSteps)
	if err != nil {
		return nil, err
	}

	return &Agent{Graph: g, MaxRetries: settings.Graph.MaxRetries}, nil
}

func buildDefinitions(store vectorstore.Store, completer inference.Completer, settings *config.Settings) (Definitions, error) {
	searchDef, err := crisisdata.New(store, completer,
		crisisdata.WithCollections(
			settings.Weaviate.CrisisCollection,
			settings.Weaviate.AreaHistoryCollection,
		),
	).Definition()
	if err != nil {
		return Definitions{}, errors.Wrap(err, "search_crisis_data definition")
	}

	decideDef, err := uigen.NewDecideAdapter(completer).Definition()
	if err != nil {
		return Definitions{}, errors.Wrap(err, "decide_components definition")
	}

	docsDef, err := uigen.NewDocsAdapter().Definition()
	if err != nil {
		return Definitions{}, errors.Wrap(err, "get_component_docs definition")
	}

	generateDef, err := uigen.NewGenerateAdapter(completer).Definition()
	if err != nil {
		return Definitions{}, errors.Wrap(err, "generate_component definition")
	}

	return Definitions{
		Search:   searchDef,
		Decide:   decideDef,
		Docs:     docsDef,
		Generate: generateDef,
	}, nil
}
