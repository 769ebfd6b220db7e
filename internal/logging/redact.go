package logging

import (
	"encoding/json"
	"fmt"
	"strings"
)

var secretKeys = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"authorization": true,
	"token":         true,
	"secret":        true,
}

// Document bodies and prompts are large and private; only their size is logged.
var bulkKeys = map[string]bool{
	"content":  true,
	"snippet":  true,
	"prefix":   true,
	"text":     true,
	"prompt":   true,
	"messages": true,
	"log":      true,
	"data":     true,
}

func RedactValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	lower := strings.ToLower(trimmed)
	if strings.HasPrefix(lower, "bearer ") {
		return "Bearer " + mask(trimmed[7:])
	}
	return mask(trimmed)
}

func RedactAny(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = redactField(key, val)
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = redactField(key, val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = RedactAny(val)
		}
		return out
	default:
		return value
	}
}

func RedactJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Sprintf("<%d bytes>", len(raw))
	}
	return RedactAny(payload)
}

func redactField(key string, val any) any {
	lower := strings.ToLower(strings.TrimSpace(key))
	if secretKeys[lower] {
		return RedactValue(fmt.Sprint(val))
	}
	if bulkKeys[lower] {
		return summarize(val)
	}
	return RedactAny(val)
}

func summarize(val any) string {
	switch typed := val.(type) {
	case string:
		return fmt.Sprintf("<%d chars>", len(typed))
	case []any:
		return fmt.Sprintf("<%d items>", len(typed))
	case nil:
		return "<nil>"
	default:
		return "<redacted>"
	}
}

func mask(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
