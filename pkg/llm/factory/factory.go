package factory

import (
	"fmt"

	"ai-supportchat-be/pkg/llm"
	"ai-supportchat-be/pkg/llm/ollama"
	"ai-supportchat-be/pkg/llm/openai"
)

// NewLLMProvider builds the configured generation-gateway client.
func NewLLMProvider(provider, model, ollamaBaseURL, openAIAPIKey string) (llm.LLMProvider, error) {
	switch provider {
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, model), nil
	case "openai":
		if openAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider selected but OPENAI_API_KEY is empty")
		}
		return openai.NewOpenAIProvider(openAIAPIKey, model), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
