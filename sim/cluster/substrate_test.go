package cluster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/workload"
)

func newRegistry(t *testing.T, slots int, rates ...float64) *sim.WorkerRegistry {
	t.Helper()
	workers := make([]sim.Worker, len(rates))
	for i, r := range rates {
		w, err := sim.NewWorker(i, r, slots)
		require.NoError(t, err)
		workers[i] = w
	}
	reg, err := sim.NewWorkerRegistryFrom(workers)
	require.NoError(t, err)
	return reg
}

func newTask(t *testing.T, id int, length int64, arrival float64) sim.Task {
	t.Helper()
	task, err := sim.NewTask(id, length, arrival)
	require.NoError(t, err)
	return task
}

func recordsByTask(records []sim.CompletionRecord) map[int]sim.CompletionRecord {
	out := make(map[int]sim.CompletionRecord, len(records))
	for _, r := range records {
		out[r.TaskID] = r
	}
	return out
}

// TestSubstrate_SingleTask_RunsImmediately verifies start = arrival and
// finish = arrival + length/rate on an idle worker.
func TestSubstrate_SingleTask_RunsImmediately(t *testing.T) {
	// GIVEN one worker at rate 2000
	reg := newRegistry(t, 1, 2000)
	s := NewSubstrate(reg, sim.NewDispatcher(sim.NewAssignmentPolicy(sim.PolicyDynamicAV)))

	// WHEN one 4000-unit task arrives at t=1
	s.Submit([]sim.Task{newTask(t, 0, 4000, 1.0)})
	records := s.Run()

	// THEN it runs for 2 seconds without waiting
	require.Len(t, records, 1)
	r := records[0]
	assert.Equal(t, sim.StatusSuccess, r.Status)
	assert.Equal(t, 0, r.WorkerID)
	assert.Equal(t, 1.0, r.StartTime)
	assert.InDelta(t, 3.0, r.FinishTime, 1e-12)
	assert.InDelta(t, 3.0, s.Clock(), 1e-12)
}

// TestSubstrate_SlotsFull_QueuesFIFO verifies tasks wait for a free slot in arrival order.
func TestSubstrate_SlotsFull_QueuesFIFO(t *testing.T) {
	// GIVEN one single-slot worker at rate 1000
	reg := newRegistry(t, 1, 1000)
	s := NewSubstrate(reg, sim.NewDispatcher(sim.NewAssignmentPolicy(sim.PolicyAgingLoadAware)))

	// WHEN three 1000-unit tasks arrive at t=0
	s.Submit([]sim.Task{newTask(t, 0, 1000, 0), newTask(t, 1, 1000, 0), newTask(t, 2, 1000, 0)})
	byTask := recordsByTask(s.Run())

	// THEN they run back to back in submission order
	for id, wantStart := range []float64{0, 1, 2} {
		r := byTask[id]
		assert.InDelta(t, wantStart, r.StartTime, 1e-12, "task %d start", id)
		assert.InDelta(t, wantStart+1, r.FinishTime, 1e-12, "task %d finish", id)
	}
}

// TestSubstrate_TwoSlots_RunConcurrently verifies a worker runs Slots tasks at full rate.
func TestSubstrate_TwoSlots_RunConcurrently(t *testing.T) {
	reg := newRegistry(t, 2, 1000)
	s := NewSubstrate(reg, sim.NewDispatcher(sim.NewAssignmentPolicy(sim.PolicyDynamicAV)))

	s.Submit([]sim.Task{newTask(t, 0, 1000, 0), newTask(t, 1, 1000, 0)})
	byTask := recordsByTask(s.Run())

	assert.Equal(t, 0.0, byTask[0].StartTime)
	assert.Equal(t, 0.0, byTask[1].StartTime)
	assert.InDelta(t, 1.0, byTask[1].FinishTime, 1e-12)
}

// TestSubstrate_FinishBeforeArrival_SameTimestamp verifies a slot freed at t
// is available to a task arriving at t.
func TestSubstrate_FinishBeforeArrival_SameTimestamp(t *testing.T) {
	reg := newRegistry(t, 1, 1000)
	s := NewSubstrate(reg, sim.NewDispatcher(sim.NewAssignmentPolicy(sim.PolicyDynamicAV)))

	s.Submit([]sim.Task{newTask(t, 0, 1000, 0), newTask(t, 1, 500, 1.0)})
	byTask := recordsByTask(s.Run())

	assert.Equal(t, 1.0, byTask[1].StartTime)
	assert.InDelta(t, 0.0, byTask[1].StartTime-byTask[1].ArrivalTime, 1e-12)
}

// TestSubstrate_NoWorkers_RecordsFailures verifies the no-worker sentinel turns
// into failed records rather than a crash.
func TestSubstrate_NoWorkers_RecordsFailures(t *testing.T) {
	s := NewSubstrate(sim.NewWorkerRegistry(), sim.NewDispatcher(sim.NewAssignmentPolicy(sim.PolicyAgingLoadAware)))

	s.Submit([]sim.Task{newTask(t, 0, 1000, 0), newTask(t, 1, 1000, 0.5)})
	records := s.Run()

	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, sim.StatusFailed, r.Status)
		assert.Equal(t, sim.NoWorker, r.WorkerID)
	}
	snap, warnings := sim.ComputeMetrics(records)
	assert.Equal(t, sim.MetricsSnapshot{}, snap)
	assert.Equal(t, []string{sim.WarnNoSuccesses}, warnings)
}

// TestSubstrate_EveryTaskCompletesOnce verifies conservation: each submitted
// task yields exactly one record and each decision is counted once.
func TestSubstrate_EveryTaskCompletesOnce(t *testing.T) {
	for _, policy := range sim.PolicyNames() {
		t.Run(policy, func(t *testing.T) {
			reg := newRegistry(t, 2, 1000, 1500, 2000, 2500, 3000, 3500)
			d := sim.NewDispatcher(sim.NewAssignmentPolicy(policy))
			s := NewSubstrate(reg, d)

			var tasks []sim.Task
			for i := 0; i < 100; i++ {
				tasks = append(tasks, newTask(t, i, int64(1000+(i*7717)%29000), float64(i)*0.1))
			}
			s.Submit(tasks)
			records := s.Run()

			require.Len(t, records, len(tasks))
			seen := make(map[int]bool)
			for _, r := range records {
				assert.False(t, seen[r.TaskID], "task %d recorded twice", r.TaskID)
				seen[r.TaskID] = true
				assert.Equal(t, sim.StatusSuccess, r.Status)
				assert.GreaterOrEqual(t, r.StartTime, r.ArrivalTime)
				assert.Greater(t, r.FinishTime, r.StartTime)
			}
			assert.Equal(t, len(tasks), d.State().TotalAssignments())
			assert.Equal(t, len(tasks), d.Decisions())
		})
	}
}

// TestSubstrate_DispatchFollowsSubmissionOrder verifies the dispatcher sees
// tasks exactly as submitted, even when arrival times are out of order.
func TestSubstrate_DispatchFollowsSubmissionOrder(t *testing.T) {
	reg := newRegistry(t, 2, 1000, 2000)
	var seen []int
	d := sim.NewDispatcher(sim.NewAssignmentPolicy(sim.PolicyDynamicAV),
		sim.DecisionObserverFunc(func(ev sim.DecisionEvent) { seen = append(seen, ev.Task.ID) }))
	s := NewSubstrate(reg, d)

	s.Submit([]sim.Task{
		newTask(t, 0, 1000, 0.2),
		newTask(t, 1, 1000, 0.0),
		newTask(t, 2, 1000, 0.2),
		newTask(t, 3, 1000, 0.1),
	})
	s.Run()

	assert.Equal(t, []int{0, 1, 2, 3}, seen)
}

// TestSubstrate_BuiltinScenario_DispatchedInConstructionOrder covers a workload
// whose later phases arrive before earlier ones finish arriving.
func TestSubstrate_BuiltinScenario_DispatchedInConstructionOrder(t *testing.T) {
	// GIVEN the dynamic-mixed trace, which interleaves phases in time
	spec, err := workload.BuiltinScenario(workload.ScenarioDynamicMixed)
	require.NoError(t, err)
	tasks, err := workload.Generate(spec, 42)
	require.NoError(t, err)
	var seen []int
	d := sim.NewDispatcher(sim.NewAssignmentPolicy(sim.PolicyAgingLoadAware),
		sim.DecisionObserverFunc(func(ev sim.DecisionEvent) { seen = append(seen, ev.Task.ID) }))

	// WHEN it is submitted to six workers
	s := NewSubstrate(newRegistry(t, 2, 1000, 1500, 2000, 2500, 3000, 3500), d)
	s.Submit(tasks)
	records := s.Run()

	// THEN decisions follow construction order and no task starts before it arrives
	require.Len(t, seen, len(tasks))
	for i, id := range seen {
		if id != i {
			t.Fatalf("decision %d went to task %d, want task %d", i, id, i)
		}
	}
	for _, r := range records {
		assert.GreaterOrEqual(t, r.StartTime, r.ArrivalTime, "task %d", r.TaskID)
	}
}

// TestSubstrate_LaterSubmittedEarlierArrival_RunsFirst verifies execution
// follows arrival time even though placement follows submission order.
func TestSubstrate_LaterSubmittedEarlierArrival_RunsFirst(t *testing.T) {
	reg := newRegistry(t, 1, 1000)
	s := NewSubstrate(reg, sim.NewDispatcher(sim.NewAssignmentPolicy(sim.PolicyDynamicAV)))

	s.Submit([]sim.Task{newTask(t, 0, 1000, 5.0), newTask(t, 1, 2000, 0)})
	byTask := recordsByTask(s.Run())

	assert.Equal(t, 0.0, byTask[1].StartTime)
	assert.InDelta(t, 2.0, byTask[1].FinishTime, 1e-12)
	assert.Equal(t, 5.0, byTask[0].StartTime)
	assert.InDelta(t, 6.0, byTask[0].FinishTime, 1e-12)
}

// TestSubstrate_PendingListsEarlierPlacements verifies the view handed to the
// policy lists every task placed before it in the run.
func TestSubstrate_PendingListsEarlierPlacements(t *testing.T) {
	reg := newRegistry(t, 2, 1000)
	pendingAt := make(map[int]int)
	policy := &recordingPolicy{inner: sim.NewAssignmentPolicy(sim.PolicyDynamicAV), pending: pendingAt}
	s := NewSubstrate(reg, sim.NewDispatcher(policy))

	s.Submit([]sim.Task{newTask(t, 0, 1000, 0), newTask(t, 1, 1000, 0.5), newTask(t, 2, 1000, 5)})
	s.Run()

	assert.Equal(t, 0, pendingAt[0])
	assert.Equal(t, 1, pendingAt[1])
	assert.Equal(t, 2, pendingAt[2])
}

func TestSubstrate_SubmitAfterRun_Panics(t *testing.T) {
	s := NewSubstrate(newRegistry(t, 1, 1000), sim.NewDispatcher(sim.NewAssignmentPolicy(sim.PolicyDynamicAV)))
	s.Run()
	assert.Panics(t, func() { s.Submit([]sim.Task{newTask(t, 0, 1000, 0)}) })
}

func TestSubstrate_RunTwice_Panics(t *testing.T) {
	s := NewSubstrate(newRegistry(t, 1, 1000), sim.NewDispatcher(sim.NewAssignmentPolicy(sim.PolicyDynamicAV)))
	s.Run()
	assert.Panics(t, func() { s.Run() })
}

func TestNewSubstrate_NilArgs_Panics(t *testing.T) {
	assert.Panics(t, func() { NewSubstrate(nil, sim.NewDispatcher(sim.NewAssignmentPolicy(sim.PolicyDynamicAV))) })
	assert.Panics(t, func() { NewSubstrate(sim.NewWorkerRegistry(), nil) })
}

// recordingPolicy wraps a policy and records the pending-list size per task.
type recordingPolicy struct {
	inner   sim.AssignmentPolicy
	pending map[int]int
}

func (p *recordingPolicy) Name() string { return p.inner.Name() }

func (p *recordingPolicy) Assign(task sim.Task, view *sim.DispatchView, state *sim.PolicyState) sim.AssignmentDecision {
	p.pending[task.ID] = len(view.Pending)
	return p.inner.Assign(task, view, state)
}
