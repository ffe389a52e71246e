package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/rasterkit/internal/model"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.finished {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case OutputStartMsg:
		m.ensureOutput(msg.ID)
		out := m.outputs[msg.ID]
		if !out.Finished() {
			out.Status = model.StatusRunning
			m.outputs[msg.ID] = out
		}
		return m, nil
	case OutputCompleteMsg:
		id := msg.Result.OutputID
		if id == "" {
			return m, nil
		}
		m.ensureOutput(id)
		if !m.outputs[id].Finished() {
			m.completed++
		}
		m.outputs[id] = msg.Result
		return m, nil
	case RunFinishedMsg:
		m.runErr = msg.Err
		m.finished = true
		return m, tea.Quit
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}
