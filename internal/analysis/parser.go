package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"ai-supportchat-be/internal/entity"
)

// Parse reads the generation gateway's analysis output. Models frequently
// wrap JSON in a markdown code fence despite instructions, so surrounding
// fences are stripped before decoding. Anything that does not decode into
// the Analysis shape is an error; there is no fallback analysis.
func Parse(raw string) (*entity.Analysis, error) {
	cleaned := StripCodeFence(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty analysis output")
	}

	var result entity.Analysis
	decoder := json.NewDecoder(strings.NewReader(cleaned))
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("analysis output is not valid JSON: %w", err)
	}

	if result.EmotionalState == "" {
		return nil, fmt.Errorf("analysis output missing emotionalState")
	}

	return &result, nil
}

// StripCodeFence removes a single wrapping markdown code fence, with or
// without a language tag, leaving the inner text untouched.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// drop the language tag on the opening fence line, e.g. ```json
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		firstLine := strings.TrimSpace(s[:idx])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{}[]") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
