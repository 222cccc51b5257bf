package output

import (
	"context"
	"time"

	"fairness-auditor/internal/domain/entity"
)

// ProgressPort shows pipeline progress to whoever started the run.
type ProgressPort interface {
	ShowStageStart(ctx context.Context, state entity.PipelineState, role entity.AgentRole)
	ShowStageDone(ctx context.Context, role entity.AgentRole, chars int, elapsed time.Duration)
	ShowStageFailed(ctx context.Context, role entity.AgentRole, err error)
	ShowGrounding(ctx context.Context, result entity.GroundingResult)
}
