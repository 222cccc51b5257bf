// Package pipeline drives the report state machine from INIT to DONE. Each
// transition is one generation call followed by one persisted report.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"fairness-auditor/internal/application/port/input"
	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"
	"fairness-auditor/internal/usecase/grounding"

	"github.com/google/uuid"
)

var _ input.ReportPipeline = (*UseCase)(nil)

type UseCase struct {
	agents     output.AgentRegistry
	supervisor output.SynthesisAgent
	store      output.ReportStore
	progress   output.ProgressPort
	logger     output.LoggerPort
	checker    *grounding.Checker
	newRunID   func() string
}

type Option func(*UseCase)

// WithGrounding enables the post-hoc numeric check of every report.
func WithGrounding(checker *grounding.Checker) Option {
	return func(uc *UseCase) {
		uc.checker = checker
	}
}

func WithRunID(fn func() string) Option {
	return func(uc *UseCase) {
		uc.newRunID = fn
	}
}

func New(
	agents output.AgentRegistry,
	supervisor output.SynthesisAgent,
	store output.ReportStore,
	progress output.ProgressPort,
	logger output.LoggerPort,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		agents:     agents,
		supervisor: supervisor,
		store:      store,
		progress:   progress,
		logger:     logger,
		newRunID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run executes every stage in order. On failure it returns the partial
// result together with the error; reports of completed stages are already
// persisted and the failed stage leaves nothing behind.
func (uc *UseCase) Run(ctx context.Context, digest entity.FactualDigest) (*entity.RunResult, error) {
	result := &entity.RunResult{
		RunID:   uc.newRunID(),
		State:   entity.StateInit,
		Reports: make(map[entity.AgentRole]entity.AgentReport),
	}
	log := uc.logger.WithField("run_id", result.RunID)
	log.Info("Report pipeline started")

	for result.State != entity.StateDone {
		next := result.State.Next()
		role, ok := next.Role()
		if !ok {
			result.State = next
			break
		}

		if err := ctx.Err(); err != nil {
			log.Warn("Report pipeline cancelled", "state", result.State, "error", err)
			return result, fmt.Errorf("pipeline cancelled before %s: %w", next, err)
		}

		uc.progress.ShowStageStart(ctx, next, role)
		log.Info("Stage started", "state", next, "role", role)
		start := time.Now()

		report, err := uc.runStage(ctx, role, digest, result.Reports)
		if err != nil {
			uc.progress.ShowStageFailed(ctx, role, err)
			log.Error("Stage failed", "state", next, "role", role, "error", err)
			return result, err
		}

		report.RunID = result.RunID
		if err := uc.store.Save(ctx, report); err != nil {
			uc.progress.ShowStageFailed(ctx, role, err)
			log.Error("Saving report failed", "role", role, "error", err)
			return result, fmt.Errorf("save %s report: %w", role, err)
		}

		result.Reports[role] = report
		result.State = next

		elapsed := time.Since(start)
		uc.progress.ShowStageDone(ctx, role, len(report.Text), elapsed)
		log.Info("Stage completed", "state", next, "role", role, "chars", len(report.Text), "duration", elapsed)

		uc.ground(ctx, report, digest, result)
	}

	log.Info("Report pipeline finished", "reports", len(result.Reports))
	return result, nil
}

func (uc *UseCase) runStage(
	ctx context.Context,
	role entity.AgentRole,
	digest entity.FactualDigest,
	done map[entity.AgentRole]entity.AgentReport,
) (entity.AgentReport, error) {
	if role == entity.AgentRoleSupervisor {
		race, okRace := done[entity.AgentRoleRace]
		sex, okSex := done[entity.AgentRoleSex]
		perf, okPerf := done[entity.AgentRolePerformance]
		if !okRace || !okSex || !okPerf {
			return entity.AgentReport{}, fmt.Errorf("supervisor reached with %d of 3 reports", len(done))
		}
		return uc.supervisor.Synthesize(ctx, race, sex, perf)
	}

	agent, ok := uc.agents.Get(role)
	if !ok {
		return entity.AgentReport{}, fmt.Errorf("no agent registered for role %s", role)
	}
	return agent.Run(ctx, digest)
}

func (uc *UseCase) ground(ctx context.Context, report entity.AgentReport, digest entity.FactualDigest, result *entity.RunResult) {
	if uc.checker == nil {
		return
	}

	var g entity.GroundingResult
	if report.Role == entity.AgentRoleSupervisor {
		g = uc.checker.CheckSources(report,
			result.Reports[entity.AgentRoleRace],
			result.Reports[entity.AgentRoleSex],
			result.Reports[entity.AgentRolePerformance],
		)
	} else {
		g = uc.checker.CheckDigest(report, digest)
	}

	result.Grounding = append(result.Grounding, g)
	uc.progress.ShowGrounding(ctx, g)
}
