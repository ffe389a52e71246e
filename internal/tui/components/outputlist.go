package components

import (
	"github.com/alexisbeaulieu97/rasterkit/internal/model"
)

// OutputEntry is a single output row.
type OutputEntry struct {
	ID     string
	Result model.OutputResult
}

// OutputList holds outputs in document order.
type OutputList struct {
	entries []OutputEntry
}

// NewOutputList constructs an output list component.
func NewOutputList(order []string, outputs map[string]model.OutputResult) OutputList {
	entries := make([]OutputEntry, 0, len(order))
	for _, id := range order {
		entries = append(entries, OutputEntry{ID: id, Result: outputs[id]})
	}
	return OutputList{entries: entries}
}

// Entries returns a copy of the ordered entries.
func (l OutputList) Entries() []OutputEntry {
	clone := make([]OutputEntry, len(l.entries))
	copy(clone, l.entries)
	return clone
}
