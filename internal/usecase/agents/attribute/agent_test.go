package attribute

import (
	"context"
	"errors"
	"testing"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/infrastructure/logger"
	"fairness-auditor/internal/usecase/agents"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLM struct {
	reply    string
	err      error
	requests []output.ChatRequest
}

func (m *mockLLM) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &output.ChatResponse{Message: entity.Message{Role: entity.RoleAssistant, Content: m.reply}}, nil
}

func testDigest() entity.FactualDigest {
	return entity.FactualDigest{
		Global: map[string]entity.PrimitiveValue{
			"model":    entity.StringValue("LogisticRegression"),
			"accuracy": entity.FloatValue(0.6875),
		},
		AvailableMetricKeys: []string{"accuracy", "model"},
		Attributes: []entity.AttributeDigest{
			{
				Attribute: entity.GroupRace,
				Rows: []entity.GroupRateRow{
					{GroupValue: "African-American", N: 3, RateSet: entity.RateSet{FPR: 0.5, TNR: 0.5}},
					{GroupValue: "Caucasian", N: 1, RateSet: entity.RateSet{TPR: 1}},
				},
			},
			{
				Attribute: entity.GroupSex,
				Rows: []entity.GroupRateRow{
					{GroupValue: "Female", N: 4, RateSet: entity.RateSet{FPR: 0.25}},
				},
			},
		},
	}
}

func TestRaceAgent_SingleCallWithOwnTable(t *testing.T) {
	llm := &mockLLM{reply: "- African-American has the highest FPR (0.5000)."}
	agent := NewRace(llm, logger.NewNop(), agents.Settings{Model: "gpt-4.1-mini"})

	report, err := agent.Run(context.Background(), testDigest())
	require.NoError(t, err)

	assert.Equal(t, entity.AgentRoleRace, report.Role)
	assert.Equal(t, "- African-American has the highest FPR (0.5000).", report.Text)

	require.Len(t, llm.requests, 1)
	msgs := llm.requests[0].Messages
	require.Len(t, msgs, 2)
	assert.Equal(t, entity.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "fairness by race")
	assert.Contains(t, msgs[0].Content, "TPR")
	assert.Contains(t, msgs[0].Content, "Do not invent numbers")

	user := msgs[1].Content
	assert.Contains(t, user, "African-American")
	assert.Contains(t, user, "0.5000")
	assert.Contains(t, user, "LogisticRegression")
	assert.NotContains(t, user, "Female")
}

func TestSexAgent_Role(t *testing.T) {
	llm := &mockLLM{reply: "ok"}
	agent := NewSex(llm, logger.NewNop(), agents.Settings{})

	assert.Equal(t, entity.AgentRoleSex, agent.Role())
	assert.Contains(t, agent.Description(), "sex")

	_, user, err := agent.Prompts(testDigest())
	require.NoError(t, err)
	assert.Contains(t, user, "Female")
	assert.Contains(t, user, "findings by sex")
	assert.NotContains(t, user, "Caucasian")
}

func TestAttributeAgent_MissingTable(t *testing.T) {
	d := testDigest()
	d.Attributes = d.Attributes[:1]
	agent := NewSex(&mockLLM{}, logger.NewNop(), agents.Settings{})

	_, user, err := agent.Prompts(d)
	require.NoError(t, err)
	assert.Contains(t, user, "Table (sex): not available")
}

func TestAttributeAgent_GenerationFailure(t *testing.T) {
	llm := &mockLLM{err: errors.New("network unreachable")}
	agent := NewRace(llm, logger.NewNop(), agents.Settings{})

	_, err := agent.Run(context.Background(), testDigest())

	var gf *entity.GenerationFailure
	require.ErrorAs(t, err, &gf)
	assert.Equal(t, entity.AgentRoleRace, gf.Role)
}
