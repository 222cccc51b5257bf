package entity

// PipelineState is the position of a report run in its state machine.
type PipelineState string

const (
	StateInit                PipelineState = "INIT"
	StateRaceAnalysis        PipelineState = "RACE_ANALYSIS"
	StateSexAnalysis         PipelineState = "SEX_ANALYSIS"
	StatePerformanceAnalysis PipelineState = "PERFORMANCE_ANALYSIS"
	StateSupervisorSynthesis PipelineState = "SUPERVISOR_SYNTHESIS"
	StateDone                PipelineState = "DONE"
)

// Next returns the state that follows s. DONE is terminal.
func (s PipelineState) Next() PipelineState {
	switch s {
	case StateInit:
		return StateRaceAnalysis
	case StateRaceAnalysis:
		return StateSexAnalysis
	case StateSexAnalysis:
		return StatePerformanceAnalysis
	case StatePerformanceAnalysis:
		return StateSupervisorSynthesis
	default:
		return StateDone
	}
}

// Role returns the agent that runs while the pipeline is in s.
func (s PipelineState) Role() (AgentRole, bool) {
	switch s {
	case StateRaceAnalysis:
		return AgentRoleRace, true
	case StateSexAnalysis:
		return AgentRoleSex, true
	case StatePerformanceAnalysis:
		return AgentRolePerformance, true
	case StateSupervisorSynthesis:
		return AgentRoleSupervisor, true
	default:
		return "", false
	}
}

// RunResult is what a pipeline run leaves behind. State is the last state
// completed, so a failed run stops short of DONE.
type RunResult struct {
	RunID     string
	State     PipelineState
	Reports   map[AgentRole]AgentReport
	Grounding []GroundingResult
}
