package output

import (
	"context"

	"fairness-auditor/internal/domain/entity"
)

// ReportStore persists one report per role. Save replaces any earlier report
// for the same role and must never leave a partially written file behind.
type ReportStore interface {
	Save(ctx context.Context, report entity.AgentReport) error
	Load(ctx context.Context, role entity.AgentRole) (entity.AgentReport, error)
	Exists(role entity.AgentRole) bool
}
