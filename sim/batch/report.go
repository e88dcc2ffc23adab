package batch

import (
	"fmt"
	"io"
	"strings"
)

// Leaders names the best run for each headline metric. Runs without any
// successful task are not eligible; a field is empty when no run is.
type Leaders struct {
	MinAverageWaiting  string
	MinAverageResponse string
	MinMakespan        string
	MaxThroughput      string
}

// ComputeLeaders picks the leading run per metric. Ties keep the earliest run.
func ComputeLeaders(results []RunResult) Leaders {
	var l Leaders
	var bestWait, bestResp, bestSpan, bestTput float64
	for _, r := range results {
		s := r.Snapshot
		if s.SuccessfulCount == 0 {
			continue
		}
		if l.MinAverageWaiting == "" || s.AverageWaitingTime < bestWait {
			l.MinAverageWaiting, bestWait = r.Spec.Label, s.AverageWaitingTime
		}
		if l.MinAverageResponse == "" || s.AverageResponseTime < bestResp {
			l.MinAverageResponse, bestResp = r.Spec.Label, s.AverageResponseTime
		}
		if l.MinMakespan == "" || s.Makespan < bestSpan {
			l.MinMakespan, bestSpan = r.Spec.Label, s.Makespan
		}
		if l.MaxThroughput == "" || s.Throughput > bestTput {
			l.MaxThroughput, bestTput = r.Spec.Label, s.Throughput
		}
	}
	return l
}

// PrintSummaryTable writes one row per run followed by the leaders.
func PrintSummaryTable(w io.Writer, results []RunResult) {
	rule := strings.Repeat("=", 86)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "SUMMARY TABLE")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-14s %-18s %8s %12s %12s %12s %12s\n",
		"Run", "Policy", "Tasks", "AvgWT (s)", "AvgRT (s)", "Makespan", "Throughput")
	fmt.Fprintln(w, strings.Repeat("-", 86))
	for _, r := range results {
		s := r.Snapshot
		fmt.Fprintf(w, "%-14s %-18s %8d %12.4f %12.4f %12.4f %12.4f\n",
			r.Spec.Label, r.Spec.Policy, s.SuccessfulCount,
			s.AverageWaitingTime, s.AverageResponseTime, s.Makespan, s.Throughput)
	}
	fmt.Fprintln(w, rule)

	l := ComputeLeaders(results)
	fmt.Fprintf(w, "Best avg waiting time  : %s\n", orNone(l.MinAverageWaiting))
	fmt.Fprintf(w, "Best avg response time : %s\n", orNone(l.MinAverageResponse))
	fmt.Fprintf(w, "Best makespan          : %s\n", orNone(l.MinMakespan))
	fmt.Fprintf(w, "Best throughput        : %s\n", orNone(l.MaxThroughput))
	fmt.Fprintln(w, rule)
}

func orNone(label string) string {
	if label == "" {
		return "(none)"
	}
	return label
}
