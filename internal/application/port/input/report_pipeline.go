package input

import (
	"context"

	"fairness-auditor/internal/domain/entity"
)

// ReportPipeline runs every generation stage for one digest.
type ReportPipeline interface {
	Run(ctx context.Context, digest entity.FactualDigest) (*entity.RunResult, error)
}
