package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var _ output.LLMPort = (*Adapter)(nil)

var ErrEmptyCompletion = errors.New("empty completion")

type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type Adapter struct {
	models generator
	model  string
	logger output.LoggerPort
}

type Config struct {
	APIKey          string
	Model           string
	MaxOutputTokens int32
	Logger          output.LoggerPort
}

func NewAdapter(ctx context.Context, cfg Config) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &Adapter{models: client.Models, model: model, logger: cfg.Logger}, nil
}

func (a *Adapter) Chat(ctx context.Context, req output.ChatRequest) (*output.ChatResponse, error) {
	model := req.Model
	if model == "" {
		model = a.model
	}

	system, contents := buildContents(req.Messages)
	result, err := a.models.GenerateContent(ctx, model, contents, buildConfig(system, req.Temperature))
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyCompletion
	}

	if a.logger != nil && result.UsageMetadata != nil {
		a.logger.Debug("Gemini usage",
			"model", model,
			"promptTokens", result.UsageMetadata.PromptTokenCount,
			"candidateTokens", result.UsageMetadata.CandidatesTokenCount,
		)
	}

	return &output.ChatResponse{
		Message: entity.Message{Role: entity.RoleAssistant, Content: text},
		Model:   model,
	}, nil
}

// buildContents moves system messages into the system instruction, which
// Gemini takes separately from the conversation.
func buildContents(messages []entity.Message) (string, []*genai.Content) {
	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case entity.RoleSystem:
			system = append(system, m.Content)
		case entity.RoleAssistant:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleModel,
				Parts: []*genai.Part{{Text: m.Content}},
			})
		default:
			contents = append(contents, &genai.Content{
				Role:  genai.RoleUser,
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}
	return strings.Join(system, "\n\n"), contents
}

func buildConfig(system string, temperature float32) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: system}},
		}
	}
	return cfg
}
