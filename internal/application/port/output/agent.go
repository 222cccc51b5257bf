package output

import (
	"context"

	"fairness-auditor/internal/domain/entity"
)

// DigestAgent produces a report from the factual digest alone.
type DigestAgent interface {
	Role() entity.AgentRole
	Description() string
	Run(ctx context.Context, digest entity.FactualDigest) (entity.AgentReport, error)
}

// SynthesisAgent produces a report from the text of earlier reports only.
type SynthesisAgent interface {
	Role() entity.AgentRole
	Synthesize(ctx context.Context, race, sex, performance entity.AgentReport) (entity.AgentReport, error)
}

type AgentRegistry interface {
	Register(agent DigestAgent)
	Get(role entity.AgentRole) (DigestAgent, bool)
	List() []DigestAgent
}
