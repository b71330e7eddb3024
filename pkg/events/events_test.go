package events

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgentTextEventWireShape(t *testing.T) {
	b, err := json.Marshal(NewAgentTextEvent("agent", "hello there"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"agent","node":"agent","content":"hello there"}`, string(b))
}

func TestAgentToolCallEventWireShape(t *testing.T) {
	ev := NewAgentToolCallEvent("agent", []ToolCallSpec{
		{Name: "search_crisis_data", Args: json.RawMessage(`{"query":"floods"}`), ID: "call-1"},
	})
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"agent","node":"agent","toolCalls":[{"name":"search_crisis_data","args":{"query":"floods"},"id":"call-1"}]}`,
		string(b))
}

func TestAgentToolCallEventDefaultsEmptyArgs(t *testing.T) {
	ev := NewAgentToolCallEvent("agent", []ToolCallSpec{{Name: "get_component_docs", ID: "call-2"}})
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"type":"agent","node":"agent","toolCalls":[{"name":"get_component_docs","args":{},"id":"call-2"}]}`,
		string(b))
}

func TestToolResultEventWireShape(t *testing.T) {
	b, err := json.Marshal(NewToolResultEvent("search_crisis_data", map[string]any{"crisis": "flood"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"tool","node":"search_crisis_data","data":{"crisis":"flood"}}`, string(b))

	b, err = json.Marshal(NewToolResultEvent("search_crisis_data", "raw text result"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"tool","node":"search_crisis_data","data":"raw text result"}`, string(b))
}

func TestErrorEventWireShape(t *testing.T) {
	b, err := json.Marshal(NewErrorEvent("boom"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","content":"boom"}`, string(b))
}

func TestRouterDeliversEventsInOrder(t *testing.T) {
	router, err := NewEventRouter()
	require.NoError(t, err)
	defer func() {
		_ = router.Close()
	}()

	var mu sync.Mutex
	var received []string
	router.AddHandler("collect", "test-topic", func(msg *message.Message) error {
		mu.Lock()
		received = append(received, string(msg.Payload))
		mu.Unlock()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- router.Run(ctx)
	}()

	select {
	case <-router.Running():
	case <-time.After(5 * time.Second):
		t.Fatal("router did not start")
	}

	sink := router.Sink("test-topic")
	require.NoError(t, sink.PublishEvent(NewAgentTextEvent("agent", "first")))
	require.NoError(t, sink.PublishEvent(NewToolResultEvent("search_crisis_data", "second")))
	require.NoError(t, sink.PublishEvent(NewErrorEvent("third")))

	// BlockPublishUntilSubscriberAck makes every publish wait for the
	// handler, so all three are recorded once the last publish returns.
	mu.Lock()
	got := append([]string(nil), received...)
	mu.Unlock()

	require.Len(t, got, 3)
	assert.Contains(t, got[0], `"first"`)
	assert.Contains(t, got[1], `"second"`)
	assert.Contains(t, got[2], `"third"`)

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("router did not shut down")
	}
}

func TestNullSinkDiscards(t *testing.T) {
	sink := NewNullSink()
	require.NoError(t, sink.PublishEvent(NewAgentTextEvent("agent", "ignored")))
}
