package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoArgs struct {
	Text string `json:"text" jsonschema:"required" jsonschema_description:"Text to echo back"`
}

func echoAdapter() Adapter {
	return AdapterFunc(func(ctx context.Context, args json.RawMessage) Outcome {
		var in echoArgs
		if err := json.Unmarshal(args, &in); err != nil {
			return Failuref("unmarshal arguments: %v", err)
		}
		return Success(map[string]any{"echo": in.Text})
	})
}

func TestNewDefinitionReflectsSchema(t *testing.T) {
	def, err := NewDefinition("echo", "Echo back the provided text", echoArgs{}, echoAdapter())
	require.NoError(t, err)

	assert.Equal(t, "echo", def.Name)
	require.NotNil(t, def.Parameters)
	assert.Equal(t, "object", def.Parameters.Type)

	_, ok := def.Parameters.Properties.Get("text")
	assert.True(t, ok)
}

func TestNewDefinitionRejectsBadInput(t *testing.T) {
	_, err := NewDefinition("", "desc", echoArgs{}, echoAdapter())
	assert.Error(t, err)

	_, err = NewDefinition("echo", "desc", echoArgs{}, nil)
	assert.Error(t, err)

	_, err = NewDefinition("echo", "desc", 42, echoAdapter())
	assert.Error(t, err)
}

func TestRegistryRegisterAndList(t *testing.T) {
	reg := NewInMemoryRegistry()

	first, err := NewDefinition("echo", "Echo", echoArgs{}, echoAdapter())
	require.NoError(t, err)
	second, err := NewDefinition("shout", "Shout", echoArgs{}, echoAdapter())
	require.NoError(t, err)

	require.NoError(t, reg.RegisterTool("echo", first))
	require.NoError(t, reg.RegisterTool("shout", second))

	listed := reg.ListTools()
	require.Len(t, listed, 2)
	assert.Equal(t, "echo", listed[0].Name)
	assert.Equal(t, "shout", listed[1].Name)

	got, err := reg.GetTool("echo")
	require.NoError(t, err)
	assert.Equal(t, "echo", got.Name)

	_, err = reg.GetTool("missing")
	assert.Error(t, err)
}

func TestRegistryNameMismatch(t *testing.T) {
	reg := NewInMemoryRegistry()
	def, err := NewDefinition("echo", "Echo", echoArgs{}, echoAdapter())
	require.NoError(t, err)

	assert.Error(t, reg.RegisterTool("other", def))
}

func TestValidateArguments(t *testing.T) {
	def, err := NewDefinition("echo", "Echo", echoArgs{}, echoAdapter())
	require.NoError(t, err)

	assert.NoError(t, ValidateArguments(&def, json.RawMessage(`{"text":"hello"}`)))
	assert.Error(t, ValidateArguments(&def, json.RawMessage(`{}`)))
	assert.Error(t, ValidateArguments(&def, json.RawMessage(`{"text":42}`)))
}

func TestOutcomeSuccessAndFailure(t *testing.T) {
	ok := Success(map[string]any{"value": 1})
	assert.True(t, ok.Ok())
	assert.False(t, ok.HasErrorMarker())
	assert.JSONEq(t, `{"value":1}`, ok.SerializeContent())

	fail := Failuref("provider returned %d", 500)
	assert.False(t, fail.Ok())
	assert.Equal(t, "provider returned 500", fail.Reason())
	assert.JSONEq(t, `{"error":true,"message":"provider returned 500"}`, fail.SerializeContent())
}

func TestOutcomeErrorMarkerDetection(t *testing.T) {
	marked := Success(map[string]any{"error": true, "message": "failed upstream"})
	assert.True(t, marked.Ok())
	assert.True(t, marked.HasErrorMarker())

	stringMarked := Success(map[string]any{"error": "boom"})
	assert.True(t, stringMarked.HasErrorMarker())

	clean := Success(map[string]any{"error": false})
	assert.False(t, clean.HasErrorMarker())

	nonMap := Success("plain text")
	assert.False(t, nonMap.HasErrorMarker())
}

func TestExtractJSONObject(t *testing.T) {
	raw, ok := ExtractJSONObject("Here is the result:\n```json\n{\"threats\":[\"cholera\"]}\n```")
	require.True(t, ok)
	assert.JSONEq(t, `{"threats":["cholera"]}`, string(raw))

	_, ok = ExtractJSONObject("no json here")
	assert.False(t, ok)

	_, ok = ExtractJSONObject("{broken")
	assert.False(t, ok)

	_, ok = ExtractJSONObject("{not valid json}")
	assert.False(t, ok)
}
