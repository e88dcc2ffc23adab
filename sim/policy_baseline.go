package sim

import "fmt"

// Baseline scoring coefficients. The load penalty is deliberately heavy: the
// baseline over-balances across workers and under-uses fast ones.
const (
	dynamicAVLoadPenalty = 6.0
	dynamicAVBias        = 0.5
)

// DynamicAVBalancer scores each worker as
//
//	execTime + assignmentCount*6.0 + avBias
//
// where avBias is -0.5 when the task is shorter than AV (the mean length of
// pending tasks) and +0.5 otherwise. Lowest score wins; ties keep the first
// worker in ascending-ID order. It does not maintain historical load.
type DynamicAVBalancer struct{}

// Name implements AssignmentPolicy.
func (b *DynamicAVBalancer) Name() string { return PolicyDynamicAV }

// Assign implements AssignmentPolicy for DynamicAVBalancer.
func (b *DynamicAVBalancer) Assign(task Task, view *DispatchView, state *PolicyState) AssignmentDecision {
	workers := view.Workers
	if d, ok := shortCircuit(workers); ok {
		if d.Assigned() {
			state.AssignmentCount[d.WorkerID]++
		}
		return d
	}
	state.observeWorkers(workers, false)

	av := averagePendingLength(view.Pending, task)
	avBias := dynamicAVBias
	if float64(task.Length) < av {
		avBias = -dynamicAVBias
	}

	scores := make(map[int]float64, len(workers))
	bestIdx := -1
	bestScore := 0.0
	for i, w := range workers {
		loadPenalty := float64(state.AssignmentCount[w.ID]) * dynamicAVLoadPenalty
		score := w.ExecTime(task) + loadPenalty + avBias
		scores[w.ID] = score
		if bestIdx < 0 || score < bestScore {
			bestIdx = i
			bestScore = score
		}
	}

	chosen := workers[bestIdx]
	state.AssignmentCount[chosen.ID]++
	return AssignmentDecision{
		WorkerID: chosen.ID,
		Reason:   fmt.Sprintf("dynamic-av (score=%.3f, av=%.1f)", bestScore, av),
		Score:    bestScore,
		Scores:   scores,
	}
}

// averagePendingLength returns the mean length of pending tasks, falling back
// to the current task's own length when nothing is pending.
func averagePendingLength(pending []Task, current Task) float64 {
	if len(pending) == 0 {
		return float64(current.Length)
	}
	sum := 0.0
	for _, t := range pending {
		sum += float64(t.Length)
	}
	return sum / float64(len(pending))
}
