package vectorstore

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/weaviate/weaviate-go-client/v4/weaviate"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/filters"
	"github.com/weaviate/weaviate-go-client/v4/weaviate/graphql"
	"github.com/weaviate/weaviate/entities/models"

	"github.com/ponikar/healthy-ai/pkg/embeddings"
)

// contentProperty is the text property every collection stores its page
// content under; all other requested properties become document metadata.
const contentProperty = "content"

// WeaviateStore performs nearVector similarity search against a weaviate
// instance, embedding the query text through the configured Provider.
type WeaviateStore struct {
	client   *weaviate.Client
	embedder embeddings.Provider
	// properties lists, per collection class, the metadata properties to
	// request alongside the content.
	properties map[string][]string
}

var _ Store = (*WeaviateStore)(nil)

func NewWeaviateStore(client *weaviate.Client, embedder embeddings.Provider, properties map[string][]string) *WeaviateStore {
	return &WeaviateStore{
		client:     client,
		embedder:   embedder,
		properties: properties,
	}
}

func (s *WeaviateStore) Search(ctx context.Context, collection string, query string, k int, where *Filter) ([]Document, error) {
	if k <= 0 {
		k = 1
	}

	vector, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "embed query")
	}

	fields := []graphql.Field{{Name: contentProperty}}
	for _, prop := range s.properties[collection] {
		fields = append(fields, graphql.Field{Name: prop})
	}
	fields = append(fields, graphql.Field{
		Name:   "_additional",
		Fields: []graphql.Field{{Name: "distance"}},
	})

	nearVector := s.client.GraphQL().NearVectorArgBuilder().WithVector(vector)
	builder := s.client.GraphQL().Get().
		WithClassName(collection).
		WithNearVector(nearVector).
		WithLimit(k).
		WithFields(fields...)
	if where != nil {
		builder = builder.WithWhere(
			filters.Where().
				WithPath([]string{where.Field}).
				WithOperator(filters.Equal).
				WithValueString(where.Value),
		)
	}

	resp, err := builder.Do(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "weaviate search in %s", collection)
	}
	if len(resp.Errors) > 0 {
		return nil, errors.Errorf("weaviate search in %s: %s", collection, resp.Errors[0].Message)
	}

	docs := parseGetResponse(resp.Data, collection)
	log.Debug().
		Str("collection", collection).
		Int("k", k).
		Int("hits", len(docs)).
		Bool("filtered", where != nil).
		Msg("vector search completed")
	return docs, nil
}

func parseGetResponse(data map[string]models.JSONObject, collection string) []Document {
	get, ok := data["Get"].(map[string]any)
	if !ok {
		return nil
	}
	objs, ok := get[collection].([]any)
	if !ok {
		return nil
	}

	docs := make([]Document, 0, len(objs))
	for _, raw := range objs {
		obj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		doc := Document{Metadata: map[string]any{}}
		for key, value := range obj {
			switch key {
			case contentProperty:
				doc.Content, _ = value.(string)
			case "_additional":
				if add, ok := value.(map[string]any); ok {
					if dist, ok := add["distance"]; ok {
						doc.Metadata["distance"] = dist
					}
				}
			default:
				doc.Metadata[key] = value
			}
		}
		docs = append(docs, doc)
	}
	return docs
}
