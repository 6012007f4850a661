package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rrens/mock-interview/internal/domain"
	"github.com/Rrens/mock-interview/internal/metrics"
	"github.com/rs/zerolog/log"
)

// FallbackResponse replaces the model reply whenever the backend fails
const FallbackResponse = "I apologize, but I'm having trouble generating a response. Please try again."

// ErrBackendFailure wraps every provider failure returned by Gateway.Generate
var ErrBackendFailure = errors.New("model backend failure")

// Completion is the text produced for one Generate call
type Completion struct {
	Content    string
	Provider   string
	Model      string
	TokensUsed int
	LatencyMs  int64
	// Fallback is true when Content is FallbackResponse rather than model output
	Fallback bool
}

// GatewayConfig holds the fixed generation parameters
type GatewayConfig struct {
	Provider    string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Gateway sends interview conversations to the configured provider
type Gateway struct {
	router *Router
	cfg    GatewayConfig
}

// NewGateway creates a gateway over the router's providers
func NewGateway(router *Router, cfg GatewayConfig) *Gateway {
	if cfg.Provider == "" {
		cfg.Provider = router.DefaultProvider()
	}
	return &Gateway{router: router, cfg: cfg}
}

// Generate returns the model reply. On any failure the returned Completion
// still carries FallbackResponse so callers can proceed; the error wraps
// ErrBackendFailure and is meant for logging and metrics, not for aborting.
// No retry is attempted.
func (g *Gateway) Generate(ctx context.Context, messages []domain.Message) (Completion, error) {
	start := time.Now()
	comp, err := g.generate(ctx, messages)
	metrics.ObserveModelCall(g.cfg.Provider, time.Since(start), err)

	if err != nil {
		log.Warn().
			Err(err).
			Str("provider", g.cfg.Provider).
			Int("messages", len(messages)).
			Msg("model call failed, using fallback response")
		return Completion{
			Content:  FallbackResponse,
			Provider: g.cfg.Provider,
			Fallback: true,
		}, fmt.Errorf("%w: %v", ErrBackendFailure, err)
	}

	log.Debug().
		Str("provider", comp.Provider).
		Str("model", comp.Model).
		Int("tokens_used", comp.TokensUsed).
		Int64("latency_ms", comp.LatencyMs).
		Msg("model response received")

	return comp, nil
}

func (g *Gateway) generate(ctx context.Context, messages []domain.Message) (Completion, error) {
	provider, err := g.router.GetProvider(g.cfg.Provider)
	if err != nil {
		return Completion{}, err
	}

	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	model := g.cfg.Model
	if model == "" {
		model = provider.DefaultModel()
	}

	resp, err := provider.Chat(ctx, ChatRequest{
		Messages:    messages,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	}, model)
	if err != nil {
		return Completion{}, err
	}

	return Completion{
		Content:    resp.Content,
		Provider:   provider.Name(),
		Model:      resp.Model,
		TokensUsed: resp.TokensUsed,
		LatencyMs:  resp.LatencyMs,
	}, nil
}
