package dataset

import (
	"context"
	"fmt"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
)

var _ output.DatasetPort = (*Repository)(nil)

type Paths struct {
	Predictions  string
	Metrics      string
	Tables       map[entity.GroupKey]string
	ArtifactsDir string
}

// Repository is the file-backed DatasetPort.
type Repository struct {
	paths   Paths
	columns Columns
}

func NewRepository(paths Paths, columns Columns) *Repository {
	return &Repository{paths: paths, columns: columns}
}

func (r *Repository) ReadPredictions(ctx context.Context) ([]entity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadPredictions(r.paths.Predictions, r.columns)
}

func (r *Repository) ReadMetrics(ctx context.Context) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ReadMetrics(r.paths.Metrics)
}

func (r *Repository) WriteGroupTable(ctx context.Context, table entity.GroupRateTable) error {
	path, err := r.tablePath(table.Attribute)
	if err != nil {
		return err
	}
	return WriteGroupTable(path, table)
}

func (r *Repository) ReadGroupTable(ctx context.Context, attribute entity.GroupKey) (entity.GroupRateTable, error) {
	path, err := r.tablePath(attribute)
	if err != nil {
		return entity.GroupRateTable{}, err
	}
	return ReadGroupTable(path, attribute)
}

func (r *Repository) WriteArtifacts(ctx context.Context, tables []entity.GroupRateTable, metrics map[string]any) error {
	return WriteArtifacts(r.paths.ArtifactsDir, tables, metrics)
}

func (r *Repository) tablePath(attribute entity.GroupKey) (string, error) {
	path, ok := r.paths.Tables[attribute]
	if !ok {
		return "", fmt.Errorf("no table path configured for %q", attribute)
	}
	return path, nil
}
