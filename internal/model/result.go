package model

import (
	"time"
)

const (
	// StatusPending indicates an output has not started yet.
	StatusPending = "pending"
	// StatusRunning indicates an output is being rendered.
	StatusRunning = "running"
	// StatusSuccess marks an output written to disk.
	StatusSuccess = "success"
	// StatusSkipped indicates the output was not rendered because an earlier one failed.
	StatusSkipped = "skipped"
	// StatusFailed marks a failure while rendering or writing the output.
	StatusFailed = "failed"
)

// OutputResult captures the outcome of rendering a single output.
type OutputResult struct {
	OutputID  string
	Status    string
	Message   string
	Path      string
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}

// Finished reports whether the result is terminal.
func (r OutputResult) Finished() bool {
	switch r.Status {
	case StatusSuccess, StatusSkipped, StatusFailed:
		return true
	}
	return false
}

// Summary counts results by terminal status.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
	Duration  time.Duration
}

// Summarize folds results into a Summary. Duration is the longest single
// output since outputs render concurrently.
func Summarize(results []OutputResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case StatusSuccess:
			s.Succeeded++
		case StatusFailed:
			s.Failed++
		case StatusSkipped:
			s.Skipped++
		}
		if r.Duration > s.Duration {
			s.Duration = r.Duration
		}
	}
	return s
}

// OK reports whether every output succeeded.
func (s Summary) OK() bool {
	return s.Failed == 0 && s.Skipped == 0 && s.Succeeded == s.Total
}
