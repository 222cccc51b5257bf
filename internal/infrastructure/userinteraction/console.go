package userinteraction

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"fairness-auditor/internal/application/port/output"
	"fairness-auditor/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

var _ output.ProgressPort = (*ConsoleProgress)(nil)

type ConsoleProgress struct {
	out   io.Writer
	total int
}

func NewConsoleProgress() *ConsoleProgress {
	return NewConsoleProgressTo(os.Stdout)
}

func NewConsoleProgressTo(out io.Writer) *ConsoleProgress {
	return &ConsoleProgress{
		out:   out,
		total: len(entity.AgentRoles),
	}
}

func (c *ConsoleProgress) ShowStageStart(ctx context.Context, state entity.PipelineState, role entity.AgentRole) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(c.out, "\n━━━ Stage %d/%d: %s ━━━\n", stageNumber(role), c.total, state)

	icon, name := getRoleDisplay(role)
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprintf(c.out, "%s %s\n", icon, name)
}

func (c *ConsoleProgress) ShowStageDone(ctx context.Context, role entity.AgentRole, chars int, elapsed time.Duration) {
	green := color.New(color.FgGreen)
	green.Fprintf(c.out, "✓ %s written (%d chars, %s)\n", role.ReportFileName(), chars, elapsed.Round(time.Millisecond))
}

func (c *ConsoleProgress) ShowStageFailed(ctx context.Context, role entity.AgentRole, err error) {
	red := color.New(color.FgRed)
	red.Fprint(c.out, "❌ Error: ")

	dim := color.New(color.Faint)
	dim.Fprintln(c.out, truncate(err.Error(), 300))
}

func (c *ConsoleProgress) ShowGrounding(ctx context.Context, result entity.GroundingResult) {
	if result.Grounded {
		dim := color.New(color.Faint)
		dim.Fprintf(c.out, "   %d numbers checked, all found in inputs\n", result.Checked)
		return
	}

	yellow := color.New(color.FgYellow)
	yellow.Fprintf(c.out, "⚠ %d of %d numbers not found in inputs: %s\n",
		len(result.Ungrounded), result.Checked, truncate(strings.Join(result.Ungrounded, ", "), 120))
}

// RenderSummary renders one line per report of a run.
func RenderSummary(result *entity.RunResult) string {
	grounded := make(map[entity.AgentRole]entity.GroundingResult, len(result.Grounding))
	for _, g := range result.Grounding {
		grounded[g.Role] = g
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("Run " + result.RunID)
	tw.AppendHeader(table.Row{"Stage", "Report", "Model", "Chars", "Grounding"})
	for _, role := range entity.AgentRoles {
		r, ok := result.Reports[role]
		if !ok {
			tw.AppendRow(table.Row{role, role.ReportFileName(), "-", "-", "not run"})
			continue
		}
		tw.AppendRow(table.Row{role, role.ReportFileName(), r.Model, len(r.Text), groundingCell(grounded, role)})
	}
	tw.AppendFooter(table.Row{"", "", "", "State", result.State})
	return tw.Render()
}

func groundingCell(results map[entity.AgentRole]entity.GroundingResult, role entity.AgentRole) string {
	g, ok := results[role]
	switch {
	case !ok:
		return "-"
	case g.Grounded:
		return fmt.Sprintf("ok (%d)", g.Checked)
	default:
		return fmt.Sprintf("%d ungrounded", len(g.Ungrounded))
	}
}

func stageNumber(role entity.AgentRole) int {
	for i, r := range entity.AgentRoles {
		if r == role {
			return i + 1
		}
	}
	return 0
}

func getRoleDisplay(role entity.AgentRole) (string, string) {
	displays := map[entity.AgentRole][2]string{
		entity.AgentRoleRace:        {"🔍", "Fairness by race"},
		entity.AgentRoleSex:         {"🔍", "Fairness by sex"},
		entity.AgentRolePerformance: {"📊", "Global performance"},
		entity.AgentRoleSupervisor:  {"📝", "Supervisor synthesis"},
	}

	if display, ok := displays[role]; ok {
		return display[0], display[1]
	}
	return "🤖", string(role)
}

func truncate(s string, maxLen int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
