package service

import (
	"sort"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
)

var _ output.AgentRegistry = (*AgentRegistryImpl)(nil)

type AgentRegistryImpl struct {
	agents map[entity.AgentRole]output.DigestAgent
}

func NewAgentRegistry() *AgentRegistryImpl {
	return &AgentRegistryImpl{
		agents: make(map[entity.AgentRole]output.DigestAgent),
	}
}

// Register replaces any agent already registered for the same role.
func (r *AgentRegistryImpl) Register(agent output.DigestAgent) {
	r.agents[agent.Role()] = agent
}

func (r *AgentRegistryImpl) Get(role entity.AgentRole) (output.DigestAgent, bool) {
	agent, ok := r.agents[role]
	return agent, ok
}

// List returns the agents in pipeline order.
func (r *AgentRegistryImpl) List() []output.DigestAgent {
	result := make([]output.DigestAgent, 0, len(r.agents))
	for _, agent := range r.agents {
		result = append(result, agent)
	}
	sort.Slice(result, func(i, j int) bool {
		return rank(result[i].Role()) < rank(result[j].Role())
	})
	return result
}

func rank(role entity.AgentRole) int {
	for i, known := range entity.AgentRoles {
		if known == role {
			return i
		}
	}
	return len(entity.AgentRoles)
}
