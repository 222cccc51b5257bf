package prompts

import (
	_ "embed"
)

//go:embed attribute_system.txt
var AttributeSystemPrompt string

//go:embed attribute_task.txt
var AttributeTaskPrompt string

//go:embed performance_system.txt
var PerformanceSystemPrompt string

//go:embed performance_task.txt
var PerformanceTaskPrompt string

//go:embed supervisor_system.txt
var SupervisorSystemPrompt string

//go:embed supervisor_task.txt
var SupervisorTaskPrompt string
