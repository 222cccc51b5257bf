package output

import (
	"context"

	"fairness-auditor/internal/domain/entity"
)

// DatasetPort reads the model evaluator's outputs and persists the computed
// group tables.
type DatasetPort interface {
	ReadPredictions(ctx context.Context) ([]entity.Record, error)
	ReadMetrics(ctx context.Context) (map[string]any, error)
	WriteGroupTable(ctx context.Context, table entity.GroupRateTable) error
	ReadGroupTable(ctx context.Context, attribute entity.GroupKey) (entity.GroupRateTable, error)
	WriteArtifacts(ctx context.Context, tables []entity.GroupRateTable, metrics map[string]any) error
}
