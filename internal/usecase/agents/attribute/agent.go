// Package attribute implements the per-attribute fairness agents. The race
// and sex agents are the same agent bound to a different group key.
package attribute

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
	role      entity.AgentRole
	attribute entity.GroupKey
	llm       output.LLMPort
	logger    output.LoggerPort
	settings  agents.Settings
}

func New(
	role entity.AgentRole,
	attribute entity.GroupKey,
	llm output.LLMPort,
	logger output.LoggerPort,
	settings agents.Settings,
) *Agent {
	return &Agent{
		role:      role,
		attribute: attribute,
		llm:       llm,
		logger:    logger,
		settings:  settings,
	}
}

func NewRace(llm output.LLMPort, logger output.LoggerPort, settings agents.Settings) *Agent {
	return New(entity.AgentRoleRace, entity.GroupRace, llm, logger, settings)
}

func NewSex(llm output.LLMPort, logger output.LoggerPort, settings agents.Settings) *Agent {
	return New(entity.AgentRoleSex, entity.GroupSex, llm, logger, settings)
}

func (a *Agent) Role() entity.AgentRole {
	return a.role
}

func (a *Agent) Description() string {
	return fmt.Sprintf("Compares FPR, FNR, TPR and TNR across %s groups and names the highest and lowest.", a.attribute)
}

// Prompts renders the system instruction and the user content sent for d.
// Only the global metrics and this agent's own attribute table are included.
func (a *Agent) Prompts(d entity.FactualDigest) (string, string, error) {
	data := prompts.AttributePromptData{
		Attribute: string(a.attribute),
		Facts:     digest.RenderAttributeFacts(d, a.attribute),
	}

	system, err := prompts.Generate("attribute_system", prompts.AttributeSystemPrompt, data)
	if err != nil {
		return "", "", fmt.Errorf("render system prompt: %w", err)
	}
	user, err := prompts.Generate("attribute_task", prompts.AttributeTaskPrompt, data)
	if err != nil {
		return "", "", fmt.Errorf("render task prompt: %w", err)
	}
	return system, user, nil
}

func (a *Agent) Run(ctx context.Context, d entity.FactualDigest) (entity.AgentReport, error) {
	a.logger.Info("Attribute agent executing", "role", a.role, "attribute", a.attribute)

	system, user, err := a.Prompts(d)
	if err != nil {
		return entity.AgentReport{}, err
	}

	report, err := agents.Generate(ctx, a.llm, a.settings, a.role, system, user)
	if err != nil {
		a.logger.Error("Attribute agent failed", "role", a.role, "error", err)
		return entity.AgentReport{}, err
	}

	a.logger.Debug("Attribute agent completed", "role", a.role, "chars", len(report.Text))
	return report, nil
}
