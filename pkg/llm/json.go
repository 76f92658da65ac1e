package llm

import (
	"fmt"
	"strings"
)

// ExtractJSON pulls the outermost JSON object out of a model response,
// tolerating markdown code fences the model was told not to emit.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		parts := strings.Split(text, "```")
		if len(parts) >= 2 {
			text = strings.TrimSpace(parts[1])
			text = strings.TrimSpace(strings.TrimPrefix(text, "json"))
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in LLM response")
	}

	return text[start : end+1], nil
}
