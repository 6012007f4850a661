package llm

import (
	"context"

	"github.com/Rrens/mock-interview/internal/domain"
)

// ChatRequest contains chat-completion parameters
type ChatRequest struct {
	Messages    []domain.Message
	Temperature float64
	MaxTokens   int
}

// Response contains LLM generation result
type Response struct {
	Content    string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Chat sends the conversation and returns the generated reply
	Chat(ctx context.Context, req ChatRequest, model string) (*Response, error)
}

// MergeConsecutive joins adjacent messages from the same role. Backends that
// require strictly alternating turns (Anthropic, Gemini) reject the
// instruction-then-request pairs the interview prompts produce otherwise.
func MergeConsecutive(messages []domain.Message) []domain.Message {
	merged := make([]domain.Message, 0, len(messages))
	for _, m := range messages {
		if n := len(merged); n > 0 && merged[n-1].Role == m.Role {
			merged[n-1].Content += "\n\n" + m.Content
			continue
		}
		merged = append(merged, m)
	}
	return merged
}
