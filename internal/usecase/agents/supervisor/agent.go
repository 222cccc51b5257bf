// Package supervisor consolidates the three earlier reports into the final
// results text. It never sees the digest.
package supervisor

import (
	"context"
	"fmt"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/infrastructure/prompts"
	"fairness-auditor/internal/usecase/agents"
)

var _ output.SynthesisAgent = (*Agent)(nil)

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
	return entity.AgentRoleSupervisor
}

func (a *Agent) Prompts(race, sex, performance entity.AgentReport) (string, string, error) {
	data := prompts.SupervisorPromptData{
		FirstAttribute:    string(race.Role),
		SecondAttribute:   string(sex.Role),
		FirstReport:       race.Text,
		SecondReport:      sex.Text,
		PerformanceReport: performance.Text,
	}

	system, err := prompts.Generate("supervisor_system", prompts.SupervisorSystemPrompt, data)
	if err != nil {
		return "", "", fmt.Errorf("render system prompt: %w", err)
	}
	user, err := prompts.Generate("supervisor_task", prompts.SupervisorTaskPrompt, data)
	if err != nil {
		return "", "", fmt.Errorf("render task prompt: %w", err)
	}
	return system, user, nil
}

func (a *Agent) Synthesize(ctx context.Context, race, sex, performance entity.AgentReport) (entity.AgentReport, error) {
	want := []entity.AgentRole{entity.AgentRoleRace, entity.AgentRoleSex, entity.AgentRolePerformance}
	for i, r := range []entity.AgentReport{race, sex, performance} {
		if r.Role != want[i] || r.Text == "" {
			return entity.AgentReport{}, fmt.Errorf("supervisor needs the %s report", want[i])
		}
	}

	a.logger.Info("Supervisor agent executing",
		"race_chars", len(race.Text),
		"sex_chars", len(sex.Text),
		"performance_chars", len(performance.Text),
	)

	system, user, err := a.Prompts(race, sex, performance)
	if err != nil {
		return entity.AgentReport{}, err
	}

	report, err := agents.Generate(ctx, a.llm, a.settings, a.Role(), system, user)
	if err != nil {
		a.logger.Error("Supervisor agent failed", "error", err)
		return entity.AgentReport{}, err
	}

	a.logger.Debug("Supervisor agent completed", "chars", len(report.Text))
	return report, nil
}
