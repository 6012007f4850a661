package deepseek

import (
	"github.com/Rrens/mock-interview/internal/llm"
	"github.com/Rrens/mock-interview/internal/llm/openai"
)

const baseURL = "https://api.deepseek.com/v1"

// NewProvider creates a DeepSeek provider. DeepSeek speaks the OpenAI
// chat-completions protocol, so only the endpoint and model list differ.
func NewProvider(apiKey, defaultModel string) llm.Provider {
	if defaultModel == "" {
		defaultModel = "deepseek-chat"
	}
	return openai.NewCompatibleProvider("deepseek", apiKey, baseURL, defaultModel, []string{
		"deepseek-chat",
		"deepseek-reasoner",
	})
}
