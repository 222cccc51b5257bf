package agents

import (
	"context"
	"errors"
	"testing"
	"time"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockLLM struct {
	reply    string
	err      error
	block    bool
	requests []output.ChatRequest
}

func (m *mockLLM) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	m.requests = append(m.requests, req)
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.err != nil {
		return nil, m.err
	}
	return &output.ChatResponse{Message: entity.Message{Role: entity.RoleAssistant, Content: m.reply}}, nil
}

func TestGenerate_BuildsReport(t *testing.T) {
	llm := &mockLLM{reply: "  - finding  \n"}

	report, err := Generate(context.Background(), llm, Settings{Model: "m1", Temperature: 0.2}, entity.AgentRoleRace, "sys", "user")
	require.NoError(t, err)

	assert.Equal(t, entity.AgentRoleRace, report.Role)
	assert.Equal(t, "- finding", report.Text)
	assert.Equal(t, "m1", report.Model)
	assert.False(t, report.CreatedAt.IsZero())

	require.Len(t, llm.requests, 1)
	req := llm.requests[0]
	assert.Equal(t, "m1", req.Model)
	assert.Equal(t, float32(0.2), req.Temperature)
	assert.Equal(t, []entity.Message{entity.SystemMessage("sys"), entity.UserMessage("user")}, req.Messages)
}

func TestGenerate_WrapsFailure(t *testing.T) {
	cause := errors.New("quota exceeded")
	llm := &mockLLM{err: cause}

	_, err := Generate(context.Background(), llm, Settings{}, entity.AgentRoleSex, "sys", "user")

	var gf *entity.GenerationFailure
	require.ErrorAs(t, err, &gf)
	assert.Equal(t, entity.AgentRoleSex, gf.Role)
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, entity.ErrGeneration)
}

func TestGenerate_EmptyTextFails(t *testing.T) {
	llm := &mockLLM{reply: " \n\t"}

	_, err := Generate(context.Background(), llm, Settings{}, entity.AgentRolePerformance, "sys", "user")

	assert.ErrorIs(t, err, ErrEmptyReport)
	assert.ErrorIs(t, err, entity.ErrGeneration)
}

func TestGenerate_Timeout(t *testing.T) {
	llm := &mockLLM{block: true}

	start := time.Now()
	_, err := Generate(context.Background(), llm, Settings{Timeout: 20 * time.Millisecond}, entity.AgentRoleRace, "sys", "user")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.ErrorIs(t, err, entity.ErrGeneration)
	assert.Less(t, time.Since(start), 5*time.Second)
}
