package sim

import (
	"fmt"
	"math"
)

// DefaultAgingAlpha is the aging coefficient α in the diagnostic priority.
const DefaultAgingAlpha = 1.0

// Aging cost coefficients. Execution time is normalized by rate a second time
// so fast workers are strongly preferred; load and history are weighted lightly.
const (
	agingRateNormalizer   = 1000.0
	agingExecWeight       = 3.0
	agingAssignmentWeight = 1.5
	agingHistoryWeight    = 0.1
)

// AgingLoadAwareBalancer assigns each task to the worker minimizing
//
//	(execTime * 1000/rate)*3.0 + assignmentCount*1.5 + historicalLoad*0.1
//
// and then charges the chosen worker's historical load with execTime.
//
// It also computes the aging priority P = 1/length + α·max(0, now − arrival)
// for every task. P is cached in PolicyState.PriorityCache and reported on the
// decision for telemetry only: it never reorders, filters or gates dispatch.
// Sorting arrivals shortest-job-first starves long tasks that arrive early.
type AgingLoadAwareBalancer struct {
	Alpha float64
}

// Name implements AssignmentPolicy.
func (a *AgingLoadAwareBalancer) Name() string { return PolicyAgingLoadAware }

// Assign implements AssignmentPolicy for AgingLoadAwareBalancer.
func (a *AgingLoadAwareBalancer) Assign(task Task, view *DispatchView, state *PolicyState) AssignmentDecision {
	state.RecordArrival(task.ID, view.Clock)
	workers := view.Workers
	state.observeWorkers(workers, true)
	priority := a.Priority(task, view.Clock, state)

	if d, ok := shortCircuit(workers); ok {
		d.Priority = priority
		if d.Assigned() {
			a.charge(task, workers[0], state)
		}
		return d
	}

	scores := make(map[int]float64, len(workers))
	bestIdx := -1
	bestCost := 0.0
	for i, w := range workers {
		cost := agingCost(task, w, state)
		scores[w.ID] = cost
		if bestIdx < 0 || cost < bestCost {
			bestIdx = i
			bestCost = cost
		}
	}

	chosen := workers[bestIdx]
	a.charge(task, chosen, state)
	return AssignmentDecision{
		WorkerID: chosen.ID,
		Reason:   fmt.Sprintf("aging-load-aware (cost=%.3f)", bestCost),
		Score:    bestCost,
		Scores:   scores,
		Priority: priority,
	}
}

// Priority computes and caches the diagnostic aging priority of task at now.
// The task's arrival must already be recorded in state.
func (a *AgingLoadAwareBalancer) Priority(task Task, now float64, state *PolicyState) float64 {
	arrival := state.RecordArrival(task.ID, now)
	waiting := math.Max(0, now-arrival)
	p := 1.0/float64(task.Length) + a.Alpha*waiting
	state.PriorityCache[task.ID] = p
	return p
}

func (a *AgingLoadAwareBalancer) charge(task Task, w Worker, state *PolicyState) {
	state.HistoricalLoad[w.ID] += w.ExecTime(task)
	state.AssignmentCount[w.ID]++
}

func agingCost(task Task, w Worker, state *PolicyState) float64 {
	execTime := w.ExecTime(task)
	normalized := execTime * (agingRateNormalizer / w.ProcessingRate)
	return normalized*agingExecWeight +
		float64(state.AssignmentCount[w.ID])*agingAssignmentWeight +
		state.HistoricalLoad[w.ID]*agingHistoryWeight
}
