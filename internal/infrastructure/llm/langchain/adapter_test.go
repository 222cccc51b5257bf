package langchain

import (
	"context"
	"errors"
	"testing"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type fakeLLM struct {
	messages []llms.MessageContent
	opts     llms.CallOptions
	resp     *llms.ContentResponse
	err      error
}

func (f *fakeLLM) GenerateContent(_ context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.messages = messages
	for _, opt := range options {
		opt(&f.opts)
	}
	return f.resp, f.err
}

func TestChat_ConvertsRolesAndModel(t *testing.T) {
	fake := &fakeLLM{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "- bullet"}}}}
	a := &Adapter{llm: fake, model: "gpt-4.1-mini"}

	resp, err := a.Chat(context.Background(), output.ChatRequest{
		Messages: []entity.Message{
			entity.SystemMessage("system"),
			entity.UserMessage("user"),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "- bullet", resp.Message.Content)
	assert.Equal(t, "gpt-4.1-mini", resp.Model)
	assert.Equal(t, "gpt-4.1-mini", fake.opts.Model)
	require.Len(t, fake.messages, 2)
	assert.Equal(t, llms.ChatMessageTypeSystem, fake.messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, fake.messages[1].Role)
}

func TestChat_Failures(t *testing.T) {
	a := &Adapter{llm: &fakeLLM{err: errors.New("timeout")}}
	_, err := a.Chat(context.Background(), output.ChatRequest{})
	assert.ErrorContains(t, err, "timeout")

	a = &Adapter{llm: &fakeLLM{resp: &llms.ContentResponse{}}}
	_, err = a.Chat(context.Background(), output.ChatRequest{})
	assert.ErrorContains(t, err, "no choices")

	a = &Adapter{llm: &fakeLLM{resp: &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "\n"}}}}}
	_, err = a.Chat(context.Background(), output.ChatRequest{})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}
