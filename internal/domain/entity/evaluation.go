package entity

// GroundingResult describes how well a report's numbers are backed by the
// facts its generation call was given.
type GroundingResult struct {
	Role       AgentRole `json:"role"`
	Grounded   bool      `json:"grounded"`
	Checked    int       `json:"checked"`
	Ungrounded []string  `json:"ungrounded"`
}
