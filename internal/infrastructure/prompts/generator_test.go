package prompts

import (
	"strings"
	"testing"
)

func TestGenerateAttributePrompts(t *testing.T) {
	system, err := Generate("system", AttributeSystemPrompt, AttributePromptData{Attribute: "race"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.Contains(system, "Analyse fairness by race") {
		t.Error("System prompt should name the attribute")
	}

	if !strings.Contains(system, "Do not invent numbers") {
		t.Error("System prompt should forbid invented numbers")
	}

	task, err := Generate("task", AttributeTaskPrompt, AttributePromptData{Attribute: "sex", Facts: "FACTS BLOCK"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if !strings.HasPrefix(task, "FACTS BLOCK") {
		t.Error("Task prompt should start with the facts")
	}

	if !strings.Contains(task, "findings by sex") {
		t.Error("Task prompt should ask for findings by attribute")
	}
}

func TestGenerateSupervisorPrompt(t *testing.T) {
	prompt, err := Generate("supervisor", SupervisorTaskPrompt, SupervisorPromptData{
		FirstAttribute:    "race",
		SecondAttribute:   "sex",
		FirstReport:       "race report text",
		SecondReport:      "sex report text",
		PerformanceReport: "performance report text",
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	for _, want := range []string{
		"RACE AGENT REPORT:\nrace report text",
		"SEX AGENT REPORT:\nsex report text",
		"PERFORMANCE AGENT REPORT:\nperformance report text",
		"(2) Fairness by race",
		"(3) Fairness by sex",
		"exactly 3 bullets",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Supervisor prompt should contain %q", want)
		}
	}

	if strings.Index(prompt, "race report text") > strings.Index(prompt, "sex report text") {
		t.Error("Reports should appear in pipeline order")
	}
}

func TestGenerateInvalidTemplate(t *testing.T) {
	_, err := Generate("bad", `Test {{.InvalidField}}`, PerformancePromptData{})
	if err == nil {
		t.Error("Expected error for invalid template, got nil")
	}

	_, err = Generate("bad", `Test {{`, nil)
	if err == nil {
		t.Error("Expected parse error, got nil")
	}
}
