package tui

import (
	"fmt"
	"strings"

	"bugboard/internal/model"

	"github.com/charmbracelet/lipgloss"
)

// renderDetail draws the side panel for the selected bug. Field values are
// the effective ones (staged edits win over the tracker's); anything with a
// pending change is drawn as "prior -> effective".
func (m appModel) renderDetail(b model.Bug, width, height int) string {
	if width < 16 {
		return normalizePane("", width, height)
	}

	labelStyle := styleMuted()
	titleStyle := lipgloss.NewStyle().Bold(true)
	stagedStyle := lipgloss.NewStyle().Foreground(colorStagedFg)

	entry, _ := m.led.Entry(b.ID)

	row := func(label, value, base string) string {
		if value == "" {
			value = "--"
		}
		line := labelStyle.Render(label + ": ")
		if base != "" {
			line += stagedStyle.Render(base+" "+glyphArrow()+" ") + value
		} else {
			line += value
		}
		return truncateText(line, width)
	}
	pointsStr := func(n int) string {
		if n == model.PointsUnknown {
			return "--"
		}
		return fmt.Sprintf("%d", n)
	}
	flagStr := func(s string) string {
		if s == "" {
			return "(not set)"
		}
		return s
	}

	lines := make([]string, 0, 16)
	lines = append(lines, titleStyle.Render(truncateText(fmt.Sprintf("#%d %s", b.ID, strings.TrimSpace(b.Summary)), width)))
	lines = append(lines, "")

	baseCol := ""
	if entry.Column != nil {
		baseCol = entry.Column.From.String()
	}
	lines = append(lines, row("Column", m.rules.DisplayColumn(b, m.led).String(), baseCol))

	assignee := m.led.EffectiveAssignee(b)
	if assignee == m.rules.Unassigned {
		assignee = "(unassigned)"
	}
	baseAssignee := ""
	if entry.Assignee != nil {
		baseAssignee = entry.Assignee.From
	}
	lines = append(lines, row("Assignee", assignee, baseAssignee))

	basePts := ""
	if entry.Points != nil {
		basePts = pointsStr(entry.Points.From)
	}
	lines = append(lines, row("Points", pointsStr(m.led.EffectivePoints(b)), basePts))

	basePrio := ""
	if entry.Priority != nil {
		basePrio = entry.Priority.From
	}
	lines = append(lines, row("Priority", m.led.EffectivePriority(b), basePrio))

	baseSev := ""
	if entry.Severity != nil {
		baseSev = entry.Severity.From
	}
	lines = append(lines, row("Severity", m.led.EffectiveSeverity(b), baseSev))

	baseQA := ""
	if entry.QAFlag != nil {
		baseQA = flagStr(entry.QAFlag.From)
	}
	lines = append(lines, row(m.rules.QAFlagName, flagStr(m.led.EffectiveQAFlag(b, m.rules.QAFlagName)), baseQA))

	status := b.Status
	if strings.TrimSpace(b.Resolution) != "" {
		status += " " + b.Resolution
	}
	lines = append(lines, row("Status", status, ""))

	baseWB := ""
	if entry.Whiteboard != nil {
		baseWB = entry.Whiteboard.From
	}
	lines = append(lines, row("Whiteboard", m.led.EffectiveWhiteboard(b), baseWB))

	if b.Product != "" || b.Component != "" {
		lines = append(lines, row("Component", strings.TrimSpace(strings.Trim(b.Product+" / "+b.Component, " /")), ""))
	}

	if desc := strings.TrimSpace(b.Description); desc != "" {
		lines = append(lines, "")
		lines = append(lines, strings.Split(renderMarkdown(desc, width), "\n")...)
	}

	return normalizePane(strings.Join(lines, "\n"), width, height)
}
