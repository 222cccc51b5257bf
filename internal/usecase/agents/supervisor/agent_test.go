package supervisor

import (
	"context"
	"testing"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/infrastructure/logger"
	"fairness-auditor/internal/usecase/agents"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLM struct {
	requests []output.ChatRequest
}

func (m *mockLLM) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	m.requests = append(m.requests, req)
	return &output.ChatResponse{Message: entity.Message{Role: entity.RoleAssistant, Content: "final text"}}, nil
}

func reports() (entity.AgentReport, entity.AgentReport, entity.AgentReport) {
	return entity.AgentReport{Role: entity.AgentRoleRace, Text: "race says FPR 0.5000"},
		entity.AgentReport{Role: entity.AgentRoleSex, Text: "sex says FNR 0.1000"},
		entity.AgentReport{Role: entity.AgentRolePerformance, Text: "accuracy 0.68"}
}

func TestSynthesize_UsesReportsVerbatim(t *testing.T) {
	llm := &mockLLM{}
	agent := New(llm, logger.NewNop(), agents.Settings{})
	race, sex, perf := reports()

	report, err := agent.Synthesize(context.Background(), race, sex, perf)
	require.NoError(t, err)
	assert.Equal(t, entity.AgentRoleSupervisor, report.Role)
	assert.Equal(t, "final text", report.Text)

	require.Len(t, llm.requests, 1)
	user := llm.requests[0].Messages[1].Content
	assert.Contains(t, user, "RACE AGENT REPORT:\nrace says FPR 0.5000")
	assert.Contains(t, user, "SEX AGENT REPORT:\nsex says FNR 0.1000")
	assert.Contains(t, user, "PERFORMANCE AGENT REPORT:\naccuracy 0.68")
	assert.Contains(t, user, "exactly 3 bullets")
	assert.NotContains(t, user, "EXPERIMENT FACTS")
}

func TestSynthesize_RequiresAllReports(t *testing.T) {
	llm := &mockLLM{}
	agent := New(llm, logger.NewNop(), agents.Settings{})
	race, _, perf := reports()

	_, err := agent.Synthesize(context.Background(), race, entity.AgentReport{Role: entity.AgentRoleSex}, perf)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "sex report")
	assert.Empty(t, llm.requests)
}
