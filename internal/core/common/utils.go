package common

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseJSON cleans and unmarshals a JSON object from an LLM response.
// It tolerates common quirks: markdown code fences, leading prose, and
// trailing commentary around the object.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	jsonStr := strings.TrimSpace(response)
	if idx := strings.Index(jsonStr, "```"); idx != -1 {
		jsonStr = strings.TrimPrefix(jsonStr[idx:], "```json")
		jsonStr = strings.TrimPrefix(jsonStr, "```")
		if end := strings.Index(jsonStr, "```"); end != -1 {
			jsonStr = jsonStr[:end]
		}
	}

	start := strings.IndexByte(jsonStr, '{')
	end := strings.LastIndexByte(jsonStr, '}')
	if start == -1 || end == -1 || end < start {
		return zero, fmt.Errorf("no JSON object found in response")
	}
	jsonStr = jsonStr[start : end+1]

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}
