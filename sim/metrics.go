// Computes per-run performance metrics from completion records:
// waiting time, response time, makespan and throughput.

package sim

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/sirupsen/logrus"
)

// MetricsSnapshot is the immutable result of ComputeMetrics for one run.
// All times are in simulated seconds.
type MetricsSnapshot struct {
	AverageWaitingTime  float64
	AverageResponseTime float64
	Makespan            float64
	Throughput          float64 // successful tasks per second

	MinWaitingTime  float64
	MaxWaitingTime  float64
	MinResponseTime float64
	MaxResponseTime float64

	SuccessfulCount int
}

// Warning messages returned by ComputeMetrics.
const (
	WarnNoCompletions = "no completion records to analyze"
	WarnNoSuccesses   = "no successfully finished tasks"
)

// ComputeMetrics reduces completion records to a MetricsSnapshot.
// Only successful records count. When there are none the zero snapshot is
// returned together with a warning; this is not an error.
//
//	waiting  = max(0, start - arrival)
//	response = max(0, finish - arrival)
//	makespan = max(finish) - min(arrival)
//	throughput = count / makespan (0 when makespan <= 0)
func ComputeMetrics(completions []CompletionRecord) (MetricsSnapshot, []string) {
	if len(completions) == 0 {
		logrus.Warn("[metrics] " + WarnNoCompletions)
		return MetricsSnapshot{}, []string{WarnNoCompletions}
	}

	var snap MetricsSnapshot
	var totalWaiting, totalResp float64
	minArrival := math.MaxFloat64
	maxFinish := -math.MaxFloat64
	snap.MinWaitingTime = math.MaxFloat64
	snap.MinResponseTime = math.MaxFloat64

	for _, c := range completions {
		if c.Status != StatusSuccess {
			continue
		}
		snap.SuccessfulCount++

		waiting := math.Max(0, c.StartTime-c.ArrivalTime)
		response := math.Max(0, c.FinishTime-c.ArrivalTime)
		totalWaiting += waiting
		totalResp += response

		snap.MinWaitingTime = math.Min(snap.MinWaitingTime, waiting)
		snap.MaxWaitingTime = math.Max(snap.MaxWaitingTime, waiting)
		snap.MinResponseTime = math.Min(snap.MinResponseTime, response)
		snap.MaxResponseTime = math.Max(snap.MaxResponseTime, response)

		minArrival = math.Min(minArrival, c.ArrivalTime)
		maxFinish = math.Max(maxFinish, c.FinishTime)
	}

	if snap.SuccessfulCount == 0 {
		logrus.Warnf("[metrics] %s (%d records)", WarnNoSuccesses, len(completions))
		return MetricsSnapshot{}, []string{WarnNoSuccesses}
	}

	n := float64(snap.SuccessfulCount)
	snap.AverageWaitingTime = totalWaiting / n
	snap.AverageResponseTime = totalResp / n
	snap.Makespan = maxFinish - minArrival
	if snap.Makespan > 0 {
		snap.Throughput = n / snap.Makespan
	}
	return snap, nil
}

// Print renders the snapshot as a human-readable block.
func (m MetricsSnapshot) Print(w io.Writer, label string) {
	rule := strings.Repeat("=", 50)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "PERFORMANCE METRICS: %s\n", label)
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Successful Tasks    : %d\n\n", m.SuccessfulCount)
	fmt.Fprintf(w, "Avg Waiting Time    : %.4f s\n", m.AverageWaitingTime)
	fmt.Fprintf(w, "  Min WT / Max WT   : %.4f / %.4f\n\n", m.MinWaitingTime, m.MaxWaitingTime)
	fmt.Fprintf(w, "Avg Response Time   : %.4f s\n", m.AverageResponseTime)
	fmt.Fprintf(w, "  Min RT / Max RT   : %.4f / %.4f\n\n", m.MinResponseTime, m.MaxResponseTime)
	fmt.Fprintf(w, "Makespan            : %.4f s\n", m.Makespan)
	fmt.Fprintf(w, "Throughput          : %.4f tasks/s\n", m.Throughput)
	fmt.Fprintln(w, rule)
}
