package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/weaviate/entities/models"
)

func TestParseGetResponse(t *testing.T) {
	data := map[string]models.JSONObject{
		"Get": map[string]any{
			"CrisisEvent": []any{
				map[string]any{
					"content":    "2005 Mumbai floods overwhelmed hospital capacity",
					"crisisId":   "crisis-42",
					"city":       "Mumbai",
					"crisisType": "flood",
					"_additional": map[string]any{
						"distance": 0.12,
					},
				},
			},
		},
	}

	docs := parseGetResponse(data, "CrisisEvent")
	require.Len(t, docs, 1)
	assert.Equal(t, "2005 Mumbai floods overwhelmed hospital capacity", docs[0].Content)
	assert.Equal(t, "crisis-42", docs[0].Metadata["crisisId"])
	assert.Equal(t, "flood", docs[0].Metadata["crisisType"])
	assert.Equal(t, 0.12, docs[0].Metadata["distance"])
	_, hasAdditional := docs[0].Metadata["_additional"]
	assert.False(t, hasAdditional)
}

func TestParseGetResponseMissingCollection(t *testing.T) {
	data := map[string]models.JSONObject{
		"Get": map[string]any{},
	}
	assert.Empty(t, parseGetResponse(data, "AreaHistory"))
	assert.Empty(t, parseGetResponse(map[string]models.JSONObject{}, "AreaHistory"))
}
