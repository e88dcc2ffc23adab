package sim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func success(id int, arrival, start, finish float64) CompletionRecord {
	return CompletionRecord{
		TaskID:      id,
		WorkerID:    0,
		Length:      1000,
		ArrivalTime: arrival,
		StartTime:   start,
		FinishTime:  finish,
		Status:      StatusSuccess,
	}
}

// TestComputeMetrics_SingleTask verifies the basic formulas.
//
// Given: one task arriving at 0, starting at 2, finishing at 5
// When: ComputeMetrics is called
// Then: waiting 2, response 5, makespan 5, throughput 0.2
func TestComputeMetrics_SingleTask(t *testing.T) {
	// GIVEN a single successful record
	records := []CompletionRecord{success(0, 0, 2, 5)}

	// WHEN metrics are computed
	snap, warnings := ComputeMetrics(records)

	// THEN the values match hand computation
	assert.Empty(t, warnings)
	assert.Equal(t, 1, snap.SuccessfulCount)
	assert.InDelta(t, 2.0, snap.AverageWaitingTime, 1e-12)
	assert.InDelta(t, 5.0, snap.AverageResponseTime, 1e-12)
	assert.InDelta(t, 5.0, snap.Makespan, 1e-12)
	assert.InDelta(t, 0.2, snap.Throughput, 1e-12)
}

func TestComputeMetrics_Empty_ReturnsZeroSnapshotAndWarning(t *testing.T) {
	snap, warnings := ComputeMetrics(nil)

	assert.Equal(t, MetricsSnapshot{}, snap)
	require.Len(t, warnings, 1)
	assert.Equal(t, WarnNoCompletions, warnings[0])
}

func TestComputeMetrics_OnlyFailed_ReturnsZeroSnapshotAndWarning(t *testing.T) {
	records := []CompletionRecord{
		{TaskID: 0, WorkerID: NoWorker, ArrivalTime: 1, StartTime: 1, FinishTime: 1, Status: StatusFailed},
		{TaskID: 1, WorkerID: NoWorker, ArrivalTime: 2, StartTime: 2, FinishTime: 2, Status: StatusFailed},
	}

	snap, warnings := ComputeMetrics(records)

	assert.Equal(t, MetricsSnapshot{}, snap)
	assert.Equal(t, []string{WarnNoSuccesses}, warnings)
}

// TestComputeMetrics_FailedRecordsExcluded verifies failed records do not
// influence averages or makespan.
func TestComputeMetrics_FailedRecordsExcluded(t *testing.T) {
	records := []CompletionRecord{
		success(0, 1, 1, 3),
		{TaskID: 1, WorkerID: NoWorker, ArrivalTime: 0, StartTime: 100, FinishTime: 100, Status: StatusFailed},
		success(2, 2, 3, 4),
	}

	snap, warnings := ComputeMetrics(records)

	assert.Empty(t, warnings)
	assert.Equal(t, 2, snap.SuccessfulCount)
	assert.InDelta(t, 0.5, snap.AverageWaitingTime, 1e-12)
	assert.InDelta(t, 2.0, snap.AverageResponseTime, 1e-12)
	assert.InDelta(t, 3.0, snap.Makespan, 1e-12, "makespan spans successful records only: 4 - 1")
}

// TestComputeMetrics_ClampsNegativeIntervals verifies waiting and response are clamped at zero.
func TestComputeMetrics_ClampsNegativeIntervals(t *testing.T) {
	records := []CompletionRecord{success(0, 5, 4, 4.5)}

	snap, _ := ComputeMetrics(records)

	assert.Equal(t, 0.0, snap.AverageWaitingTime)
	assert.Equal(t, 0.0, snap.MinWaitingTime)
	assert.Equal(t, 0.0, snap.AverageResponseTime)
}

func TestComputeMetrics_ZeroMakespan_ZeroThroughput(t *testing.T) {
	records := []CompletionRecord{success(0, 3, 3, 3)}

	snap, warnings := ComputeMetrics(records)

	assert.Empty(t, warnings)
	assert.Equal(t, 0.0, snap.Makespan)
	assert.Equal(t, 0.0, snap.Throughput)
}

// TestComputeMetrics_Invariants checks relations that hold for any non-degenerate input.
func TestComputeMetrics_Invariants(t *testing.T) {
	var records []CompletionRecord
	for i := 0; i < 30; i++ {
		arrival := float64(i) * 0.3
		start := arrival + float64(i%4)*0.25
		records = append(records, success(i, arrival, start, start+1.0+float64(i%3)))
	}

	snap, warnings := ComputeMetrics(records)
	require.Empty(t, warnings)

	// throughput * makespan == successful count
	assert.InDelta(t, float64(snap.SuccessfulCount), snap.Throughput*snap.Makespan, 1e-9)
	// response >= waiting, both non-negative
	assert.GreaterOrEqual(t, snap.AverageResponseTime, snap.AverageWaitingTime)
	assert.GreaterOrEqual(t, snap.AverageWaitingTime, 0.0)
	// min <= avg <= max
	assert.LessOrEqual(t, snap.MinWaitingTime, snap.AverageWaitingTime)
	assert.LessOrEqual(t, snap.AverageWaitingTime, snap.MaxWaitingTime)
	assert.LessOrEqual(t, snap.MinResponseTime, snap.AverageResponseTime)
	assert.LessOrEqual(t, snap.AverageResponseTime, snap.MaxResponseTime)
}

func TestComputeMetrics_OrderIndependent(t *testing.T) {
	a := []CompletionRecord{success(0, 0, 1, 2), success(1, 0.5, 0.5, 4), success(2, 1, 3, 3.5)}
	b := []CompletionRecord{a[2], a[0], a[1]}

	snapA, _ := ComputeMetrics(a)
	snapB, _ := ComputeMetrics(b)

	assert.InDelta(t, snapA.AverageWaitingTime, snapB.AverageWaitingTime, 1e-12)
	assert.InDelta(t, snapA.AverageResponseTime, snapB.AverageResponseTime, 1e-12)
	assert.Equal(t, snapA.Makespan, snapB.Makespan)
	assert.Equal(t, snapA.Throughput, snapB.Throughput)
}

func TestMetricsSnapshot_Print(t *testing.T) {
	snap, _ := ComputeMetrics([]CompletionRecord{success(0, 0, 2, 5)})
	var buf bytes.Buffer

	snap.Print(&buf, "W1-Simple")

	out := buf.String()
	assert.Contains(t, out, "PERFORMANCE METRICS: W1-Simple")
	assert.Contains(t, out, "Avg Waiting Time    : 2.0000 s")
	assert.Contains(t, out, "Makespan            : 5.0000 s")
	assert.Contains(t, out, "Throughput          : 0.2000 tasks/s")
}
