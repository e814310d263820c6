package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/nexusqa/agents/internal/domain/entity"
)

var fencePattern = regexp.MustCompile("(?s)```([A-Za-z0-9_+-]*)[ \t]*\r?\n?(.*?)```")

var preferredFenceTags = map[string]bool{
	"json":       true,
	"javascript": true,
	"js":         true,
}

// StripFences returns the content of the preferred markdown code block in text.
// A json/javascript/js block wins over an untagged one; with no block the
// trimmed text is returned.
func StripFences(text string) string {
	text = strings.TrimSpace(text)
	matches := fencePattern.FindAllStringSubmatch(text, -1)
	for _, m := range matches {
		if preferredFenceTags[strings.ToLower(m[1])] {
			return strings.TrimSpace(m[2])
		}
	}
	if len(matches) > 0 {
		return strings.TrimSpace(matches[0][2])
	}

	// Truncated answer: opening fence with no closing one.
	if strings.HasPrefix(text, "```") {
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			return strings.TrimSpace(text[i+1:])
		}
		return ""
	}
	return text
}

// ParseScenarios extracts scenarios from a model answer. It accepts a JSON
// array, an object with a "scenarios" array, or the first [...] span of the
// text. Elements that cannot be decoded are skipped. When nothing parses it
// returns an empty list and a non-empty diagnostic.
func ParseScenarios(text string) ([]entity.Scenario, string) {
	body := StripFences(text)
	if body == "" {
		return []entity.Scenario{}, "empty response"
	}

	list, arrErr := decodeScenarios([]byte(body))
	if arrErr == nil {
		return normalized(list), ""
	}

	var wrapped struct {
		Scenarios json.RawMessage `json:"scenarios"`
	}
	objErr := json.Unmarshal([]byte(body), &wrapped)
	if objErr == nil && len(wrapped.Scenarios) > 0 && string(wrapped.Scenarios) != "null" {
		if list, err := decodeScenarios(wrapped.Scenarios); err == nil {
			return normalized(list), ""
		}
	}

	start := strings.IndexByte(body, '[')
	end := strings.LastIndexByte(body, ']')
	if start >= 0 && end > start {
		list, spanErr := decodeScenarios([]byte(body[start : end+1]))
		if spanErr == nil {
			return normalized(list), ""
		}
		return []entity.Scenario{}, fmt.Sprintf("no parsable scenarios: %v", spanErr)
	}

	if objErr == nil {
		return []entity.Scenario{}, "object without scenarios"
	}
	return []entity.Scenario{}, fmt.Sprintf("no parsable scenarios: %v", arrErr)
}

// decodeScenarios decodes a JSON array one element at a time. It fails only
// when data is not an array or when no element decodes.
func decodeScenarios(data []byte) ([]entity.Scenario, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, err
	}

	list := make([]entity.Scenario, 0, len(raws))
	var firstErr error
	for i, raw := range raws {
		var sc entity.Scenario
		if err := json.Unmarshal(raw, &sc); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("scenario %d: %w", i+1, err)
			}
			continue
		}
		list = append(list, sc)
	}
	if len(list) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return list, nil
}

func normalized(list []entity.Scenario) []entity.Scenario {
	if list == nil {
		return []entity.Scenario{}
	}
	for i := range list {
		list[i].Normalize()
	}
	return list
}
