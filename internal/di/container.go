package di

import (
	"context"
	"fmt"

	"fairness-auditor/internal/application/port/input"
	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/application/service"
	"fairness-auditor/internal/config"
	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/infrastructure/artifactserver"
	"fairness-auditor/internal/infrastructure/dataset"
	"fairness-auditor/internal/infrastructure/llm/gemini"
	"fairness-auditor/internal/infrastructure/llm/langchain"
	"fairness-auditor/internal/infrastructure/llm/openrouter"
	"fairness-auditor/internal/infrastructure/logger"
	"fairness-auditor/internal/infrastructure/reportstore"
	"fairness-auditor/internal/infrastructure/userinteraction"
	"fairness-auditor/internal/usecase/agents"
	"fairness-auditor/internal/usecase/agents/attribute"
	"fairness-auditor/internal/usecase/agents/performance"
	"fairness-auditor/internal/usecase/agents/supervisor"
	"fairness-auditor/internal/usecase/audit"
	"fairness-auditor/internal/usecase/grounding"
	"fairness-auditor/internal/usecase/pipeline"
)

// API key variables per provider. They are read from the environment only.
var apiKeyEnv = map[string]string{
	config.ProviderOpenRouter: "OPENROUTER_API_KEY",
	config.ProviderLangchain:  "OPENAI_API_KEY",
	config.ProviderGemini:     "GEMINI_API_KEY",
}

type Container struct {
	Config   *config.Config
	Logger   output.LoggerPort
	Dataset  output.DatasetPort
	Reports  *reportstore.FileStore
	LLM      output.LLMPort
	Progress *userinteraction.ConsoleProgress
	Pipeline *pipeline.UseCase
	Audit    *audit.Service
}

type Options struct {
	// RunName labels the log file.
	RunName string
	// WithLLM builds the language model client and the report pipeline.
	WithLLM bool
	// Secrets supplies API keys.
	Secrets output.ConfigPort
}

func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	logCfg := logger.DefaultConfig(opts.RunName)
	logCfg.Dir = cfg.Log.Dir
	logCfg.Level = cfg.Log.Level
	log, err := logger.NewLoggerAdapter(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	c := &Container{
		Config:   cfg,
		Logger:   log,
		Dataset:  newDataset(cfg),
		Reports:  reportstore.New(cfg.ReportsDir()),
		Progress: userinteraction.NewConsoleProgress(),
	}

	var reports input.ReportPipeline
	if opts.WithLLM {
		llm, err := newLLM(ctx, cfg.LLM, opts.Secrets, log)
		if err != nil {
			log.Close()
			return nil, fmt.Errorf("failed to create llm client: %w", err)
		}
		c.LLM = llm
		c.Pipeline = newPipeline(cfg, llm, c.Reports, c.Progress, log)
		reports = c.Pipeline
	}

	c.Audit = audit.New(c.Dataset, reports, log, cfg.Digest.TopK)

	log.Info("Container ready",
		"output_dir", cfg.OutputDir,
		"provider", cfg.LLM.Provider,
		"model", cfg.LLM.Model,
		"with_llm", opts.WithLLM,
	)
	return c, nil
}

// ArtifactServer serves the files this container's config points at.
func (c *Container) ArtifactServer() *artifactserver.Server {
	return artifactserver.New(artifactserver.Sources{
		MetricsPath: c.Config.Inputs.Metrics,
		Tables:      tablePaths(c.Config),
		Reports:     c.Reports,
	}, c.Logger)
}

func (c *Container) Close() {
	if c.Logger != nil {
		c.Logger.Close()
	}
}

func newDataset(cfg *config.Config) *dataset.Repository {
	return dataset.NewRepository(dataset.Paths{
		Predictions:  cfg.Inputs.Predictions,
		Metrics:      cfg.Inputs.Metrics,
		Tables:       tablePaths(cfg),
		ArtifactsDir: cfg.ArtifactsDir(),
	}, dataset.Columns{
		TrueLabel: cfg.Inputs.TrueLabelColumn,
		PredLabel: cfg.Inputs.PredLabelColumn,
		Groups: map[entity.GroupKey]string{
			entity.GroupRace: cfg.Inputs.RaceColumn,
			entity.GroupSex:  cfg.Inputs.SexColumn,
		},
	})
}

func tablePaths(cfg *config.Config) map[entity.GroupKey]string {
	return map[entity.GroupKey]string{
		entity.GroupRace: cfg.RaceTablePath(),
		entity.GroupSex:  cfg.SexTablePath(),
	}
}

func newLLM(ctx context.Context, cfg config.LLMConfig, secrets output.ConfigPort, log output.LoggerPort) (output.LLMPort, error) {
	apiKey, err := secrets.Require(apiKeyEnv[cfg.Provider])
	if err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case config.ProviderOpenRouter:
		llmCfg := openrouter.DefaultConfig(apiKey, cfg.Model)
		if cfg.BaseURL != "" {
			llmCfg.BaseURL = cfg.BaseURL
		}
		llmCfg.Timeout = cfg.Timeout
		llmCfg.Logger = log
		return openrouter.NewOpenRouterAdapter(llmCfg), nil

	case config.ProviderLangchain:
		return langchain.NewAdapter(langchain.Config{
			APIKey:  apiKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Logger:  log,
		})

	case config.ProviderGemini:
		return gemini.NewAdapter(ctx, gemini.Config{
			APIKey: apiKey,
			Model:  cfg.Model,
			Logger: log,
		})

	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func newPipeline(
	cfg *config.Config,
	llm output.LLMPort,
	store output.ReportStore,
	progress output.ProgressPort,
	log output.LoggerPort,
) *pipeline.UseCase {
	settings := agents.Settings{
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}

	registry := service.NewAgentRegistry()
	registry.Register(attribute.NewRace(llm, log, settings))
	registry.Register(attribute.NewSex(llm, log, settings))
	registry.Register(performance.New(llm, log, settings))

	var opts []pipeline.Option
	if cfg.Digest.GroundingCheck {
		opts = append(opts, pipeline.WithGrounding(grounding.New(log)))
	}

	return pipeline.New(registry, supervisor.New(llm, log, settings), store, progress, log, opts...)
}
