package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/rasterkit/internal/model"
)

// OutputStartMsg indicates an output has started rendering.
type OutputStartMsg struct {
	ID string
}

// OutputCompleteMsg reports that an output reached a terminal status.
type OutputCompleteMsg struct {
	Result model.OutputResult
}

// RunFinishedMsg is sent once the whole run has returned.
type RunFinishedMsg struct {
	Err error
}

// ResultMsg converts a service result into the matching message.
func ResultMsg(r model.OutputResult) tea.Msg {
	if r.Status == model.StatusRunning {
		return OutputStartMsg{ID: r.OutputID}
	}
	return OutputCompleteMsg{Result: r}
}

// Model contains the Bubbletea state for the render progress view.
type Model struct {
	title     string
	outputs   map[string]model.OutputResult
	order     []string
	total     int
	completed int
	finished  bool
	cancelled bool
	runErr    error
	spinner   spinner.Model
}

// NewModel constructs a model tracking the given output ids in order.
func NewModel(title string, outputIDs []string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = runningStyle

	m := Model{
		title:   title,
		outputs: make(map[string]model.OutputResult, len(outputIDs)),
		spinner: s,
	}
	for _, id := range outputIDs {
		m.ensureOutput(id)
	}
	return m
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// TotalOutputs returns the number of outputs tracked by the model.
func (m Model) TotalOutputs() int {
	return m.total
}

// CompletedOutputs returns the number of outputs in a terminal status.
func (m Model) CompletedOutputs() int {
	return m.completed
}

// IsFinished reports whether the run has completed or was cancelled.
func (m Model) IsFinished() bool {
	return m.finished
}

// Cancelled reports whether the user interrupted the run.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Result returns the latest known result for id.
func (m Model) Result(id string) (model.OutputResult, bool) {
	r, ok := m.outputs[id]
	return r, ok
}

func (m *Model) ensureOutput(id string) {
	if id == "" {
		return
	}
	if _, exists := m.outputs[id]; !exists {
		m.outputs[id] = model.OutputResult{OutputID: id, Status: model.StatusPending}
		m.order = append(m.order, id)
		m.total++
	}
}
