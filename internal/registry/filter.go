package registry

import (
	"fmt"

	"github.com/sahilm/fuzzy"
)

// runSource adapts a run slice for fuzzy matching against a combined
// "id pipeline ref status" string per run.
type runSource []Run

func (s runSource) String(i int) string {
	r := s[i]
	return fmt.Sprintf("%s %s %s %s", r.ID, r.Pipeline, r.Ref, r.Status)
}

func (s runSource) Len() int { return len(s) }

// FilterRuns returns the runs matching query, best match first. An empty
// query returns the input unchanged.
func FilterRuns(runs []Run, query string) []Run {
	if query == "" {
		return runs
	}
	matches := fuzzy.FindFrom(query, runSource(runs))
	out := make([]Run, 0, len(matches))
	for _, m := range matches {
		out = append(out, runs[m.Index])
	}
	return out
}
