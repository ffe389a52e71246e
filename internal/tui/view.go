package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/rasterkit/internal/model"
	"github.com/alexisbeaulieu97/rasterkit/internal/tui/components"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render(fmt.Sprintf("rasterkit • %s", m.displayTitle())))

	progress := components.NewProgress(m.total).View(m.completed)
	sections = append(sections, sectionStyle.Render("Progress"), progress)

	entries := components.NewOutputList(m.order, m.outputs).Entries()
	if len(entries) > 0 {
		sections = append(sections, sectionStyle.Render("Outputs"))
		sections = append(sections, m.renderEntries(entries))
	}

	results := make([]model.OutputResult, 0, len(m.order))
	for _, id := range m.order {
		results = append(results, m.outputs[id])
	}
	summary := components.NewSummary(components.SummaryData{
		Summary:   model.Summarize(results),
		Finished:  m.finished,
		Cancelled: m.cancelled,
		Err:       m.runErr,
	}).View()
	if strings.TrimSpace(summary) != "" {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

func (m Model) renderEntries(entries []components.OutputEntry) string {
	var lines []string
	for _, entry := range entries {
		res := entry.Result
		icon := StatusIcon(res.Status)
		if res.Status == model.StatusRunning && !m.finished {
			icon = m.spinner.View()
		}
		line := fmt.Sprintf(" %s %s", icon, entry.ID)
		switch {
		case res.Status == model.StatusSuccess && res.Path != "":
			line = fmt.Sprintf("%s %s", line, detailStyle.Render("→ "+res.Path))
		case strings.TrimSpace(res.Message) != "":
			line = fmt.Sprintf("%s: %s", line, res.Message)
		}
		if res.Duration > 0 {
			line = fmt.Sprintf("%s (%s)", line, res.Duration.Truncate(time.Millisecond))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) displayTitle() string {
	if strings.TrimSpace(m.title) != "" {
		return m.title
	}
	return "render"
}

// StatusIcon returns the glyph representing an output status.
func StatusIcon(status string) string {
	switch status {
	case model.StatusSuccess:
		return successStyle.Render("✓")
	case model.StatusRunning:
		return runningStyle.Render("⏳")
	case model.StatusFailed:
		return failureStyle.Render("✗")
	case model.StatusSkipped:
		return skippedStyle.Render("⊘")
	default:
		return pendingStyle.Render("…")
	}
}
