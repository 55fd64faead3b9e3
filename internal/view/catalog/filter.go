package catalog

import (
	"strings"

	"github.com/mcoot/steamgames/internal/model"
)

// Result is a fetched list together with the subset matching the search text.
// Filtered is always Filter(Source, FilterText); a Result is replaced, never edited.
type Result struct {
	Source     []model.GameSummary
	Filtered   []model.GameSummary
	FilterText string
}

// NewResult derives the filtered subset of source
func NewResult(source []model.GameSummary, filterText string) Result {
	return Result{
		Source:     source,
		Filtered:   Filter(source, filterText),
		FilterText: filterText,
	}
}

// Filter keeps the games whose name contains text, ignoring case, in their
// original order. Empty text keeps everything.
func Filter(source []model.GameSummary, text string) []model.GameSummary {
	if text == "" {
		return source
	}

	needle := strings.ToLower(text)
	filtered := make([]model.GameSummary, 0, len(source))
	for _, g := range source {
		if strings.Contains(strings.ToLower(g.Name), needle) {
			filtered = append(filtered, g)
		}
	}
	return filtered
}

// Counts returns how many rows are shown out of how many were fetched
func (r Result) Counts() (visible, total int) {
	return len(r.Filtered), len(r.Source)
}
