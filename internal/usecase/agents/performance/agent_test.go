package performance

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
	return &output.ChatResponse{Message: entity.Message{Role: entity.RoleAssistant, Content: "Accuracy is 0.68."}}, nil
}

func TestPerformanceAgent_SeesAllFacts(t *testing.T) {
	llm := &mockLLM{}
	agent := New(llm, logger.NewNop(), agents.Settings{Model: "gpt-4.1-mini"})

	d := entity.FactualDigest{
		Global:              map[string]entity.PrimitiveValue{"accuracy": entity.FloatValue(0.68)},
		AvailableMetricKeys: []string{"accuracy"},
		Attributes: []entity.AttributeDigest{
			{Attribute: entity.GroupRace, Rows: []entity.GroupRateRow{{GroupValue: "Asian", N: 5}}},
			{Attribute: entity.GroupSex, Rows: []entity.GroupRateRow{{GroupValue: "Male", N: 7}}},
		},
	}

	report, err := agent.Run(context.Background(), d)
	require.NoError(t, err)
	assert.Equal(t, entity.AgentRolePerformance, report.Role)
	assert.Equal(t, "Accuracy is 0.68.", report.Text)

	require.Len(t, llm.requests, 1)
	msgs := llm.requests[0].Messages
	assert.Contains(t, msgs[0].Content, "not available")
	assert.Contains(t, msgs[1].Content, `"accuracy":0.68`)
	assert.Contains(t, msgs[1].Content, "Asian")
	assert.Contains(t, msgs[1].Content, "Male")
	assert.Contains(t, msgs[1].Content, "limitations")
}
