package crisisdata

import (
	"context"
	"encoding/json"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/rs/zerolog/log"

	"github.com/ponikar/healthy-ai/pkg/inference"
	"github.com/ponikar/healthy-ai/pkg/tools"
	"github.com/ponikar/healthy-ai/pkg/vectorstore"
)

const (
	ToolName = "search_crisis_data"

	DefaultCrisisCollection      = "CrisisEvent"
	DefaultAreaHistoryCollection = "AreaHistory"

	crisisIDProperty = "crisisId"

	crisisResultCount      = 1
	areaHistoryResultCount = 8
)

// SearchArgs are the arguments the reasoning model passes to the tool.
type SearchArgs struct {
	Query string `json:"query" jsonschema:"required" jsonschema_description:"User query about a crisis"`
}

// Analysis is the structured insight extracted from the historical data.
type Analysis struct {
	Threats             []string `json:"threats"`
	RiskFactors         []string `json:"risk_factors"`
	RecommendedSupplies []string `json:"recommended_supplies"`
}

const analysisPromptText = `You are a healthcare crisis analyst. Analyze the following historical crisis data and provide actionable insights.

Crisis Information:
{{ .Crisis | toPrettyJson }}

Historical Area Data:
{{- range $i, $doc := .AreaHistory }}
{{ add $i 1 }}. {{ $doc.Content }}
Metadata: {{ $doc.Metadata | toJson }}
{{- end }}

Based on this historical data, analyze and provide:
1. Potential health threats and diseases that could occur
2. Risk factors and vulnerable populations
3. Recommended medical supplies and supplements needed

Return ONLY a JSON object with this structure:
{
  "threats": ["threat1", "threat2"],
  "risk_factors": ["factor1", "factor2"],
  "recommended_supplies": ["supply1", "supply2"]
}`

var analysisPrompt = template.Must(
	template.New("crisis-analysis").Funcs(sprig.TxtFuncMap()).Parse(analysisPromptText),
)

// Adapter searches the crisis collection for the closest matching event,
// gathers the area history recorded for it, and asks the model for a threat
// analysis. All faults are normalized to a Failure outcome.
type Adapter struct {
	store     vectorstore.Store
	completer inference.Completer

	crisisCollection string
	areaCollection   string
}

var _ tools.Adapter = (*Adapter)(nil)

type Option func(*Adapter)

func WithCollections(crisis, areaHistory string) Option {
	return func(a *Adapter) {
		a.crisisCollection = crisis
		a.areaCollection = areaHistory
	}
}

func New(store vectorstore.Store, completer inference.Completer, opts ...Option) *Adapter {
	a := &Adapter{
		store:            store,
		completer:        completer,
		crisisCollection: DefaultCrisisCollection,
		areaCollection:   DefaultAreaHistoryCollection,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Definition builds the registry entry for this adapter.
func (a *Adapter) Definition() (tools.Definition, error) {
	return tools.NewDefinition(
		ToolName,
		"Search for crisis and relevant area history based on user query.",
		SearchArgs{},
		a,
	)
}

func (a *Adapter) Invoke(ctx context.Context, args json.RawMessage) tools.Outcome {
	var in SearchArgs
	if err := json.Unmarshal(args, &in); err != nil {
		return tools.Failuref("unmarshal arguments: %v", err)
	}
	if strings.TrimSpace(in.Query) == "" {
		return tools.Failure("query must not be empty")
	}

	crisisHits, err := a.store.Search(ctx, a.crisisCollection, in.Query, crisisResultCount, nil)
	if err != nil {
		return tools.Failuref("crisis search: %v", err)
	}
	if len(crisisHits) == 0 {
		return tools.Failure("no relevant crisis data found")
	}
	crisis := crisisHits[0]

	crisisID, _ := crisis.Metadata[crisisIDProperty].(string)
	if crisisID == "" {
		return tools.Failuref("crisis hit is missing %s metadata", crisisIDProperty)
	}
	log.Debug().Str("crisis_id", crisisID).Str("query", in.Query).Msg("found matching crisis")

	areaHits, err := a.store.Search(ctx, a.areaCollection, in.Query, areaHistoryResultCount, &vectorstore.Filter{
		Field: crisisIDProperty,
		Value: crisisID,
	})
	if err != nil {
		return tools.Failuref("area history search: %v", err)
	}

	analysis, err := a.analyze(ctx, crisis, areaHits)
	if err != nil {
		return tools.Failuref("crisis analysis: %v", err)
	}

	history := make([]map[string]any, 0, len(areaHits))
	for _, doc := range areaHits {
		history = append(history, map[string]any{
			"content":  doc.Content,
			"metadata": doc.Metadata,
		})
	}
	return tools.Success(map[string]any{
		"crisis":       crisis.Metadata,
		"area_history": history,
		"analysis":     analysis,
	})
}

func (a *Adapter) analyze(ctx context.Context, crisis vectorstore.Document, areaHits []vectorstore.Document) (Analysis, error) {
	var prompt strings.Builder
	err := analysisPrompt.Execute(&prompt, map[string]any{
		"Crisis":      crisis.Metadata,
		"AreaHistory": areaHits,
	})
	if err != nil {
		return Analysis{}, err
	}

	completion, err := a.completer.Complete(ctx, prompt.String())
	if err != nil {
		return Analysis{}, err
	}

	// An unparseable analysis degrades to empty lists rather than failing the
	// whole search; the retrieved history is still worth returning.
	raw, ok := tools.ExtractJSONObject(completion)
	if !ok {
		log.Warn().Msg("crisis analysis completion contained no JSON object")
		return emptyAnalysis(), nil
	}
	var analysis Analysis
	if err := json.Unmarshal(raw, &analysis); err != nil {
		log.Warn().Err(err).Msg("failed to parse crisis analysis JSON")
		return emptyAnalysis(), nil
	}
	// Fields the model left out still serialize as empty lists, not null.
	if analysis.Threats == nil {
		analysis.Threats = []string{}
	}
	if analysis.RiskFactors == nil {
		analysis.RiskFactors = []string{}
	}
	if analysis.RecommendedSupplies == nil {
		analysis.RecommendedSupplies = []string{}
	}
	return analysis, nil
}

func emptyAnalysis() Analysis {
	return Analysis{
		Threats:             []string{},
		RiskFactors:         []string{},
		RecommendedSupplies: []string{},
	}
}
