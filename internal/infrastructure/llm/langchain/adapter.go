package langchain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"

	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

var _ output.LLMPort = (*Adapter)(nil)

var ErrEmptyCompletion = errors.New("empty completion")

type contentGenerator interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

type Adapter struct {
	llm    contentGenerator
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Logger  output.LoggerPort
}

// NewAdapter builds a langchaingo OpenAI-compatible model. BaseURL may point
// at any server speaking the OpenAI chat API.
func NewAdapter(cfg Config) (*Adapter, error) {
	opts := []lcopenai.Option{
		lcopenai.WithToken(cfg.APIKey),
		lcopenai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, lcopenai.WithBaseURL(cfg.BaseURL))
	}

	llm, err := lcopenai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create langchain model: %w", err)
	}
	return &Adapter{llm: llm, model: cfg.Model, logger: cfg.Logger}, nil
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}

	resp, err := a.llm.GenerateContent(ctx, convertMessages(req.Messages),
		llms.WithModel(model),
		llms.WithTemperature(float64(req.Temperature)),
	)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	text := resp.Choices[0].Content
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyCompletion
	}

	if a.logger != nil {
		a.logger.Debug("Langchain completion", "model", model, "stopReason", resp.Choices[0].StopReason)
	}

	return &output.ChatResponse{
		Message: entity.Message{Role: entity.RoleAssistant, Content: text},
		Model:   model,
	}, nil
}

func convertMessages(messages []entity.Message) []llms.MessageContent {
	result := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		result = append(result, llms.TextParts(messageType(m.Role), m.Content))
	}
	return result
}

func messageType(role entity.MessageRole) llms.ChatMessageType {
	switch role {
	case entity.RoleSystem:
		return llms.ChatMessageTypeSystem
	case entity.RoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
