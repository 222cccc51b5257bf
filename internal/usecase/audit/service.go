// Package audit runs the two halves of an audit: computing the group tables
// from predictions, and turning stored tables and metrics into reports.
package audit

import (
	"context"
	"errors"
	"fmt"
	"os"

	"fairness-auditor/internal/application/port/input"
	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/usecase/digest"
	"fairness-auditor/internal/usecase/fairness"
)

// Attributes are the group attributes audited, in report order.
var Attributes = []entity.GroupKey{entity.GroupRace, entity.GroupSex}

type Service struct {
	data     output.DatasetPort
	pipeline input.ReportPipeline
	logger   output.LoggerPort
	topK     int
}

func New(data output.DatasetPort, pipeline input.ReportPipeline, logger output.LoggerPort, topK int) *Service {
	return &Service{
		data:     data,
		pipeline: pipeline,
		logger:   logger,
		topK:     topK,
	}
}

// ComputeTables reads the predictions, computes and writes one table per
// attribute, then writes the traceability artifacts. Nothing is written
// when any table fails.
func (s *Service) ComputeTables(ctx context.Context) ([]entity.GroupRateTable, error) {
	records, err := s.data.ReadPredictions(ctx)
	if err != nil {
		return nil, fmt.Errorf("read predictions: %w", err)
	}
	s.logger.Info("Predictions loaded", "records", len(records))

	tables, err := fairness.ComputeGroupTables(ctx, records, Attributes...)
	if err != nil {
		return nil, fmt.Errorf("compute group tables: %w", err)
	}

	for _, t := range tables {
		if err := s.data.WriteGroupTable(ctx, t); err != nil {
			return nil, fmt.Errorf("write %s table: %w", t.Attribute, err)
		}
		s.logger.Info("Group table written", "attribute", t.Attribute, "groups", len(t.Rows))
	}

	metrics, err := s.data.ReadMetrics(ctx)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Warn("Metrics record not found, skipping metric keys artifact", "error", err)
		metrics, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read metrics: %w", err)
	}
	if err := s.data.WriteArtifacts(ctx, tables, metrics); err != nil {
		return nil, fmt.Errorf("write artifacts: %w", err)
	}

	return tables, nil
}

// PrepareDigest loads the metrics record and the stored tables and builds
// the digest the report agents will see.
func (s *Service) PrepareDigest(ctx context.Context) (entity.FactualDigest, error) {
	metrics, err := s.data.ReadMetrics(ctx)
	if err != nil {
		return entity.FactualDigest{}, fmt.Errorf("read metrics: %w", err)
	}

	tables := make(map[entity.GroupKey]entity.GroupRateTable, len(Attributes))
	for _, attr := range Attributes {
		t, err := s.data.ReadGroupTable(ctx, attr)
		if err != nil {
			return entity.FactualDigest{}, fmt.Errorf("read %s table: %w", attr, err)
		}
		tables[attr] = t
	}

	d, err := digest.Build(metrics, tables[entity.GroupRace], tables[entity.GroupSex], s.topK)
	if err != nil {
		return entity.FactualDigest{}, err
	}
	s.logger.Info("Digest built",
		"global_metrics", len(d.Global),
		"available_metric_keys", len(d.AvailableMetricKeys),
	)
	return d, nil
}

// GenerateReports builds the digest and runs every report stage on it.
func (s *Service) GenerateReports(ctx context.Context) (*entity.RunResult, error) {
	if s.pipeline == nil {
		return nil, fmt.Errorf("report generation is not configured")
	}
	d, err := s.PrepareDigest(ctx)
	if err != nil {
		return nil, err
	}
	return s.pipeline.Run(ctx, d)
}

// Run computes the tables and then generates the reports. Metrics errors stop
// the run before any generation call.
func (s *Service) Run(ctx context.Context) (*entity.RunResult, error) {
	if _, err := s.ComputeTables(ctx); err != nil {
		return nil, err
	}
	return s.GenerateReports(ctx)
}
