package output

import (
	"context"

	"fairness-auditor/internal/domain/entity"
)

// LLMPort is the language model service. Implementations must return an
// error rather than empty text when nothing usable came back.
type LLMPort interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

type ChatRequest struct {
	Model       string
	Messages    []entity.Message
	Temperature float32
}

type ChatResponse struct {
	Message entity.Message
	Model   string
}
