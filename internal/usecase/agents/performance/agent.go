package performance

import (
	"context"
	"fmt"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/infrastructure/prompts"
	"fairness-auditor/internal/usecase/agents"
	"fairness-auditor/internal/usecase/digest"
)

var _ output.DigestAgent = (*Agent)(nil)

type Agent struct {
	llm      output.LLMPort
	logger   output.LoggerPort
	settings agents.Settings
}

func New(llm output.LLMPort, logger output.LoggerPort, settings agents.Settings) *Agent {
	return &Agent{
		llm:      llm,
		logger:   logger,
		settings: settings,
	}
}

func (a *Agent) Role() entity.AgentRole {
	return entity.AgentRolePerformance
}

func (a *Agent) Description() string {
	return "Summarises global model performance and the limits of the experiment."
}

func (a *Agent) Prompts(d entity.FactualDigest) (string, string, error) {
	data := prompts.PerformancePromptData{Facts: digest.RenderFacts(d)}

	system, err := prompts.Generate("performance_system", prompts.PerformanceSystemPrompt, data)
	if err != nil {
		return "", "", fmt.Errorf("render system prompt: %w", err)
	}
	user, err := prompts.Generate("performance_task", prompts.PerformanceTaskPrompt, data)
	if err != nil {
		return "", "", fmt.Errorf("render task prompt: %w", err)
	}
	return system, user, nil
}

func (a *Agent) Run(ctx context.Context, d entity.FactualDigest) (entity.AgentReport, error) {
	a.logger.Info("Performance agent executing", "metrics", len(d.Global))

	system, user, err := a.Prompts(d)
	if err != nil {
		return entity.AgentReport{}, err
	}

	report, err := agents.Generate(ctx, a.llm, a.settings, a.Role(), system, user)
	if err != nil {
		a.logger.Error("Performance agent failed", "error", err)
		return entity.AgentReport{}, err
	}

	a.logger.Debug("Performance agent completed", "chars", len(report.Text))
	return report, nil
}
