package api

import (
	"net/http"

	"github.com/Rrens/mock-interview/internal/api/handler"
	customMiddleware "github.com/Rrens/mock-interview/internal/api/middleware"
	"github.com/Rrens/mock-interview/internal/config"
	"github.com/Rrens/mock-interview/internal/domain"
	"github.com/Rrens/mock-interview/internal/llm"
	"github.com/Rrens/mock-interview/internal/llm/anthropic"
	"github.com/Rrens/mock-interview/internal/llm/deepseek"
	"github.com/Rrens/mock-interview/internal/llm/gemini"
	"github.com/Rrens/mock-interview/internal/llm/ollama"
	"github.com/Rrens/mock-interview/internal/llm/openai"
	"github.com/Rrens/mock-interview/internal/metrics"
	"github.com/Rrens/mock-interview/internal/repository/file"
	"github.com/Rrens/mock-interview/internal/repository/memory"
	"github.com/Rrens/mock-interview/internal/repository/postgres"
	"github.com/Rrens/mock-interview/internal/repository/redis"
	"github.com/Rrens/mock-interview/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router. db and redisClient are
// nil when the matching backend is disabled.
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware)
	}
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	// Initialize LLM Router with providers
	llmRouter := NewLLMRouter(cfg.LLM)
	gateway := llm.NewGateway(llmRouter, llm.GatewayConfig{
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
		Timeout:     cfg.LLM.RequestTimeout,
	})

	// Initialize repositories
	interviewRepo := memory.NewInterviewRepository()
	fileArchive := file.NewInterviewLogArchive(cfg.Interview.LogDir)
	var mirrors []domain.LogArchive
	if db != nil {
		mirrors = append(mirrors, postgres.NewInterviewLogRepository(db.Pool))
	}

	// Initialize services
	interviewService := service.NewInterviewService(interviewRepo, gateway, cfg.Interview.DefaultQuestions)
	exportService := service.NewExportService(interviewRepo, fileArchive, mirrors...)

	// Initialize handlers
	interviewHandler := handler.NewInterviewHandler(interviewService, exportService, cfg.API.LegacyStatusOK)

	readyDeps := map[string]handler.Pinger{}
	if db != nil {
		readyDeps["database"] = db
	}
	if redisClient != nil {
		readyDeps["redis"] = redisClient
	}

	r.Get("/health", handler.HealthCheck)
	r.Get("/ready", handler.ReadyCheck(readyDeps))
	r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))
	if cfg.Metrics.Enabled {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics.Handler())
	}

	// Routes that call the model are rate limited when Redis is available
	r.Group(func(r chi.Router) {
		if redisClient != nil {
			rateLimiter := redis.NewRateLimiter(
				redisClient,
				cfg.Security.RateLimit.RequestsPerMinute,
				cfg.Security.RateLimit.Burst,
			)
			r.Use(customMiddleware.NewRateLimitMiddleware(rateLimiter).Limit)
		}

		r.Post("/start", interviewHandler.Start)
		r.Post("/answer", interviewHandler.Answer)
	})

	r.Get("/results/{session_id}", interviewHandler.Results)
	r.Post("/save_interview/{session_id}", interviewHandler.SaveInterview)
	r.Get("/status", interviewHandler.Status)
	r.Post("/reset", interviewHandler.Reset)

	return r
}

// NewLLMRouter registers every provider that has enough configuration to be
// reachable. LM Studio needs no key and is always registered.
func NewLLMRouter(cfg config.LLMConfig) *llm.Router {
	llmRouter := llm.NewRouter(cfg.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	llmRouter.RegisterProvider(openai.NewLocalProvider("lmstudio", cfg.LMStudio.BaseURL, cfg.LMStudio.Model))

	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.DefaultModel))
	}
	if cfg.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Model))
	}
	if cfg.Anthropic.APIKey != "" {
		llmRouter.RegisterProvider(anthropic.NewProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model))
	}
	if cfg.DeepSeek.APIKey != "" {
		llmRouter.RegisterProvider(deepseek.NewProvider(cfg.DeepSeek.APIKey, cfg.DeepSeek.Model))
	}
	if cfg.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	}

	if _, err := llmRouter.GetProvider(cfg.DefaultProvider); err != nil {
		log.Warn().Err(err).Msg("default LLM provider unavailable, model calls will use the fallback response")
	}

	return llmRouter
}
