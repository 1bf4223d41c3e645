// Command flowstack runs the workflow engine API server.
package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/kbukum/flowstack/config"
	"github.com/kbukum/flowstack/knowledge"
	"github.com/kbukum/flowstack/llm"
	"github.com/kbukum/flowstack/llm/gemini"
	"github.com/kbukum/flowstack/llm/openai"
	"github.com/kbukum/flowstack/logger"
	"github.com/kbukum/flowstack/observability"
	"github.com/kbukum/flowstack/server"
	"github.com/kbukum/flowstack/server/endpoint"
	"github.com/kbukum/flowstack/storage"
	"github.com/kbukum/flowstack/websearch"
	"github.com/kbukum/flowstack/websearch/brave"
	"github.com/kbukum/flowstack/websearch/serpapi"
	"github.com/kbukum/flowstack/workflow"
)

const version = "1.0.0"

func main() {
	if err := run(); err != nil {
		logger.Fatal("startup failed", map[string]interface{}{"error": err.Error()})
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var cfg config.Config
	if err := config.LoadConfig("flowstack", &cfg); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.WithComponent("main")
	log.Info("starting flowstack", logger.Fields(
		"environment", cfg.Environment,
		"version", version,
	))

	if cfg.Telemetry.Enabled {
		tracerCfg := observability.DefaultTracerConfig(cfg.Name)
		tracerCfg.ServiceVersion = version
		tracerCfg.Environment = cfg.Environment
		tracerCfg.Endpoint = cfg.Telemetry.Endpoint
		tp, err := observability.InitTracer(ctx, tracerCfg)
		if err != nil {
			return err
		}
		defer tp.Shutdown(context.Background())

		meterCfg := observability.DefaultMeterConfig(cfg.Name)
		meterCfg.ServiceVersion = version
		meterCfg.Environment = cfg.Environment
		meterCfg.Endpoint = cfg.Telemetry.Endpoint
		mp, err := observability.InitMeter(ctx, meterCfg)
		if err != nil {
			return err
		}
		defer mp.Shutdown(context.Background())
	}

	store, err := storage.NewStore(ctx, cfg.Database, cfg.Knowledge.EmbeddingDimensions)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	sessions, err := storage.NewSessionStore(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer sessions.Close()

	llmService, err := buildLLMService(cfg)
	if err != nil {
		return err
	}
	searchService, err := buildSearchService(cfg)
	if err != nil {
		return err
	}

	kb := knowledge.NewService(store, llmService, cfg.Knowledge)

	engineOpts := []workflow.Option{
		workflow.WithMaxSearchResults(cfg.WebSearch.MaxResults),
	}
	if cfg.Telemetry.Enabled {
		engineOpts = append(engineOpts, workflow.WithTracing("workflow.node"))
		if metrics, err := observability.NewMetrics(observability.Meter(cfg.Name)); err == nil {
			engineOpts = append(engineOpts,
				workflow.WithMetrics(workflow.NewMetricsRecorder(metrics, cfg.Name)))
		}
	}
	engine := workflow.NewEngine(kb, llmService, searchService, engineOpts...)

	srv := server.New(cfg.Server, logger.GetGlobalLogger())
	srv.ApplyMiddleware()
	endpoint.Register(srv.GinEngine(), endpoint.Dependencies{
		Store:       store,
		Sessions:    sessions,
		Knowledge:   kb,
		Engine:      engine,
		Upload:      cfg.Upload,
		ServiceName: cfg.Name,
		Version:     version,
		Checkers:    []observability.HealthChecker{store, sessions},
	})

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	log.Info("shutdown signal received")
	return srv.Stop(context.Background())
}

// buildLLMService registers the configured LLM providers through their
// factories and wraps them in the generation service.
func buildLLMService(cfg config.Config) (*llm.Service, error) {
	registry := llm.NewRegistry()
	registry.RegisterFactory(openai.ProviderName, openai.Factory())
	registry.RegisterFactory(gemini.ProviderName, gemini.Factory())

	providers := make(map[string]llm.Provider)
	if cfg.OpenAI.APIKey != "" {
		p, err := registry.Create(openai.ProviderName, map[string]any{
			"api_key":         cfg.OpenAI.APIKey,
			"model":           cfg.OpenAI.Model,
			"embedding_model": cfg.OpenAI.EmbeddingModel,
		})
		if err != nil {
			return nil, err
		}
		providers[openai.ProviderName] = p
	}
	if cfg.Gemini.APIKey != "" {
		p, err := registry.Create(gemini.ProviderName, map[string]any{
			"api_key": cfg.Gemini.APIKey,
			"model":   cfg.Gemini.Model,
		})
		if err != nil {
			return nil, err
		}
		providers[gemini.ProviderName] = p
	}

	return llm.NewService(providers, cfg.LLM.DefaultProvider), nil
}

// buildSearchService registers the configured web search providers. Priority
// follows registration order: SerpAPI first, Brave as fallback.
func buildSearchService(cfg config.Config) (*websearch.Service, error) {
	registry := websearch.NewRegistry()
	registry.RegisterFactory(serpapi.ProviderName, serpapi.Factory())
	registry.RegisterFactory(brave.ProviderName, brave.Factory())

	providers := make(map[string]websearch.Provider)
	var priority []string
	if cfg.WebSearch.SerpAPIKey != "" {
		p, err := registry.Create(serpapi.ProviderName, map[string]any{"api_key": cfg.WebSearch.SerpAPIKey})
		if err != nil {
			return nil, err
		}
		providers[serpapi.ProviderName] = p
		priority = append(priority, serpapi.ProviderName)
	}
	if cfg.WebSearch.BraveKey != "" {
		p, err := registry.Create(brave.ProviderName, map[string]any{"api_key": cfg.WebSearch.BraveKey})
		if err != nil {
			return nil, err
		}
		providers[brave.ProviderName] = p
		priority = append(priority, brave.ProviderName)
	}

	return websearch.NewService(providers, priority), nil
}
