package tools

import (
	"encoding/json"
	"fmt"
)

// Outcome is the uniform result of one tool adapter call: either a success
// carrying an adapter-specific payload, or a tagged failure with a
// human-readable reason. Adapters normalize every fault (provider errors,
// empty retrievals, unparseable model output) into a Failure instead of
// letting it escape their boundary.
type Outcome struct {
	payload any
	reason  string
	failed  bool
}

func Success(payload any) Outcome {
	return Outcome{payload: payload}
}

func Failure(reason string) Outcome {
	return Outcome{reason: reason, failed: true}
}

func Failuref(format string, args ...any) Outcome {
	return Failure(fmt.Sprintf(format, args...))
}

func (o Outcome) Ok() bool {
	return !o.failed
}

func (o Outcome) Payload() any {
	return o.payload
}

func (o Outcome) Reason() string {
	return o.reason
}

// HasErrorMarker reports whether a success payload carries an application
// level error marker. Output shape does not by itself guarantee semantic
// success, so callers demote such outcomes to failures.
func (o Outcome) HasErrorMarker() bool {
	if o.failed {
		return false
	}
	m, ok := o.payload.(map[string]any)
	if !ok {
		return false
	}
	v, ok := m["error"]
	if !ok {
		return false
	}
	switch e := v.(type) {
	case bool:
		return e
	case string:
		return e != ""
	default:
		return v != nil
	}
}

// SerializeContent renders the outcome as the content of a tool-result
// message: the JSON payload on success, a JSON error marker on failure.
func (o Outcome) SerializeContent() string {
	if o.failed {
		b, _ := json.Marshal(map[string]any{"error": true, "message": o.reason})
		return string(b)
	}
	b, err := json.Marshal(o.payload)
	if err != nil {
		return fmt.Sprintf("%v", o.payload)
	}
	return string(b)
}
