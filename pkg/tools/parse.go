package tools

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject pulls the outermost JSON object out of a model
// completion, tolerating prose or code fences around it.
func ExtractJSONObject(s string) (json.RawMessage, bool) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	candidate := []byte(s[start : end+1])
	if !json.Valid(candidate) {
		return nil, false
	}
	return json.RawMessage(candidate), true
}
