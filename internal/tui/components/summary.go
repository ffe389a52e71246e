package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexisbeaulieu97/rasterkit/internal/model"
)

// SummaryData is what the summary needs to know about a run.
type SummaryData struct {
	Summary   model.Summary
	Finished  bool
	Cancelled bool
	Err       error
}

// Summary renders a textual run summary.
type Summary struct {
	data SummaryData
}

// NewSummary creates a new Summary component.
func NewSummary(data SummaryData) Summary {
	return Summary{data: data}
}

// View renders the summary.
func (s Summary) View() string {
	d := s.data
	var lines []string
	if d.Summary.Total > 0 {
		done := d.Summary.Succeeded + d.Summary.Failed + d.Summary.Skipped
		lines = append(lines, fmt.Sprintf("Outputs: %d/%d done", done, d.Summary.Total))
	}

	switch {
	case d.Cancelled:
		lines = append(lines, "Render cancelled")
	case !d.Finished:
	case d.Summary.Failed > 0 || d.Err != nil:
		lines = append(lines, fmt.Sprintf("Render failed: %d failed, %d skipped", d.Summary.Failed, d.Summary.Skipped))
	case d.Summary.Total > 0:
		lines = append(lines, fmt.Sprintf("Render finished in %s", d.Summary.Duration.Truncate(time.Millisecond)))
	}

	return strings.Join(lines, "\n")
}
