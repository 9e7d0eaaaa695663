package reasoning

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// extractPayload pulls a JSON object out of a raw model response. Models
// occasionally wrap the payload in markdown fences or add prose around
// it; both are stripped before parsing.
func extractPayload(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("reasoning: empty response")
	}

	if strings.Contains(s, "```json") {
		s = strings.SplitN(s, "```json", 2)[1]
		s = strings.SplitN(s, "```", 2)[0]
		s = strings.TrimSpace(s)
	} else if strings.Contains(s, "```") {
		parts := strings.SplitN(s, "```", 3)
		if len(parts) >= 2 {
			s = strings.TrimSpace(parts[1])
		}
	}

	// Trim any prose outside the outermost object.
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", fmt.Errorf("reasoning: no JSON object in response")
	}
	s = s[start : end+1]

	if !gjson.Valid(s) {
		return "", fmt.Errorf("reasoning: response is not valid JSON")
	}
	return s, nil
}

// parseResult extracts the JSON payload, verifies the required fields are
// present, and unmarshals into out.
func parseResult(raw string, out interface{}, required ...string) error {
	payload, err := extractPayload(raw)
	if err != nil {
		return err
	}
	for _, field := range required {
		if !gjson.Get(payload, field).Exists() {
			return fmt.Errorf("reasoning: response missing field %q", field)
		}
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("reasoning: unmarshal response: %w", err)
	}
	return nil
}
