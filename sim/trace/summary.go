package trace

import (
	"fmt"
	"io"
	"sort"
)

// WorkerShare aggregates the decisions routed to one worker.
type WorkerShare struct {
	Tasks        int
	EstimatedSec float64 // sum of estimated execution times
}

// TraceSummary aggregates statistics from a DecisionTrace.
type TraceSummary struct {
	TotalDecisions     int
	Unassigned         int
	UniqueTargets      int
	TargetDistribution map[int]WorkerShare // worker ID → share of assigned work
	MeanPriority       float64
	MaxPriority        float64
}

// Summarize computes aggregate statistics from a DecisionTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(dt *DecisionTrace) *TraceSummary {
	summary := &TraceSummary{
		TargetDistribution: make(map[int]WorkerShare),
	}
	if dt == nil {
		return summary
	}

	summary.TotalDecisions = dt.Len()
	totalPriority := 0.0
	for _, r := range dt.Records() {
		totalPriority += r.Priority
		if r.Priority > summary.MaxPriority {
			summary.MaxPriority = r.Priority
		}
		if !r.Assigned {
			summary.Unassigned++
			continue
		}
		share := summary.TargetDistribution[r.ChosenWorker]
		share.Tasks++
		share.EstimatedSec += r.ExecTime
		summary.TargetDistribution[r.ChosenWorker] = share
	}
	if summary.TotalDecisions > 0 {
		summary.MeanPriority = totalPriority / float64(summary.TotalDecisions)
	}
	summary.UniqueTargets = len(summary.TargetDistribution)
	return summary
}

// Print writes the per-worker distribution in ascending worker order.
func (s *TraceSummary) Print(w io.Writer, label string) {
	ids := make([]int, 0, len(s.TargetDistribution))
	for id := range s.TargetDistribution {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	fmt.Fprintf(w, "[%s] Distribution Summary:\n", label)
	for _, id := range ids {
		share := s.TargetDistribution[id]
		fmt.Fprintf(w, "  W%d: %d tasks, %.1f seconds total\n", id, share.Tasks, share.EstimatedSec)
	}
	if s.Unassigned > 0 {
		fmt.Fprintf(w, "  unassigned: %d\n", s.Unassigned)
	}
}
