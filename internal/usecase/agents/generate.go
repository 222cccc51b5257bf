// Package agents holds what the report agents share: one generation call
// per report, bounded by a per-call timeout.
package agents

import (
	"context"
	"errors"
	"strings"
	"time"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
)

var ErrEmptyReport = errors.New("model returned empty text")

type Settings struct {
	Model       string
	Temperature float32
	// Timeout bounds a single call. Zero means no bound beyond ctx.
	Timeout time.Duration
}

// Generate issues exactly one chat call and turns its answer into a report.
// Every failure, including a timeout or blank text, comes back as a
// *entity.GenerationFailure.
func Generate(
	ctx context.Context,
	llm output.LLMPort,
	settings Settings,
	role entity.AgentRole,
	systemPrompt, userPrompt string,
) (entity.AgentReport, error) {
	if settings.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, settings.Timeout)
		defer cancel()
	}

	resp, err := llm.Chat(ctx, output.ChatRequest{
		Model: settings.Model,
		Messages: []entity.Message{
			entity.SystemMessage(systemPrompt),
			entity.UserMessage(userPrompt),
		},
		Temperature: settings.Temperature,
	})
	if err != nil {
		return entity.AgentReport{}, &entity.GenerationFailure{Role: role, Err: err}
	}

	text := strings.TrimSpace(resp.Message.Content)
	if text == "" {
		return entity.AgentReport{}, &entity.GenerationFailure{Role: role, Err: ErrEmptyReport}
	}

	model := resp.Model
	if model == "" {
		model = settings.Model
	}

	return entity.AgentReport{
		Role:      role,
		Text:      text,
		Model:     model,
		CreatedAt: time.Now().UTC(),
	}, nil
}
