package entity

import "time"

// AgentRole names one generation stage and the report it persists.
type AgentRole string

const (
	AgentRoleRace        AgentRole = "race"
	AgentRoleSex         AgentRole = "sex"
	AgentRolePerformance AgentRole = "performance"
	AgentRoleSupervisor  AgentRole = "supervisor"
)

// AgentRoles lists every role in pipeline order.
var AgentRoles = []AgentRole{
	AgentRoleRace,
	AgentRoleSex,
	AgentRolePerformance,
	AgentRoleSupervisor,
}

func (r AgentRole) String() string {
	return string(r)
}

func (r AgentRole) Valid() bool {
	for _, known := range AgentRoles {
		if r == known {
			return true
		}
	}
	return false
}

// ReportFileName is the file a role's report is persisted under.
func (r AgentRole) ReportFileName() string {
	if r == AgentRoleSupervisor {
		return "supervisor.md"
	}
	return "agent_" + string(r) + ".md"
}

// AgentReport is the text produced by one generation call. It is never
// modified after it has been written.
type AgentReport struct {
	Role      AgentRole `json:"role"`
	Text      string    `json:"text"`
	RunID     string    `json:"run_id,omitempty"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
