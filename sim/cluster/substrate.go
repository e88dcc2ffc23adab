// Package cluster provides a minimal reference execution substrate: it hands
// submitted tasks to a sim.Dispatcher in submission order and then runs them to
// completion on their workers in simulated time.
//
// Each worker executes up to Slots tasks at once at its full processing rate;
// further tasks wait in a per-worker FIFO. A task never starts before its
// arrival time. There is no contention model, migration or preemption: a
// placement is final.
package cluster

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/schedsim/sim"
)

// workerRuntime holds the substrate-side execution state of one worker.
type workerRuntime struct {
	worker  sim.Worker
	running int
	queue   []sim.Task
}

// Substrate replays one run.
//
// Thread-safety: NOT thread-safe. One Substrate per run.
type Substrate struct {
	registry   *sim.WorkerRegistry
	dispatcher *sim.Dispatcher
	events     eventQueue
	runtimes   map[int]*workerRuntime
	dispatched []sim.Task // placed tasks, in dispatch order
	records    []sim.CompletionRecord
	clock      float64
	seq        uint64
	hasRun     bool
}

// NewSubstrate creates a Substrate over the registry's workers.
// Panics if registry or dispatcher is nil.
func NewSubstrate(registry *sim.WorkerRegistry, dispatcher *sim.Dispatcher) *Substrate {
	if registry == nil || dispatcher == nil {
		panic("NewSubstrate: registry and dispatcher must not be nil")
	}
	runtimes := make(map[int]*workerRuntime, registry.Len())
	for _, w := range registry.Workers() {
		runtimes[w.ID] = &workerRuntime{worker: w}
	}
	return &Substrate{
		registry:   registry,
		dispatcher: dispatcher,
		runtimes:   runtimes,
	}
}

// Submit dispatches tasks in exactly the order given, at the current clock,
// and queues each for release on its worker at its arrival time. The order is
// never sorted by arrival time. Nothing has finished before Run, so the
// pending list of every view holds all tasks placed earlier in the run.
// Panics if called after Run.
func (s *Substrate) Submit(tasks []sim.Task) {
	if s.hasRun {
		panic("Substrate.Submit() called after Run()")
	}
	for _, t := range tasks {
		view := &sim.DispatchView{
			Clock:   s.clock,
			Workers: s.registry.Workers(),
			Pending: append([]sim.Task(nil), s.dispatched...),
		}
		decision := s.dispatcher.Dispatch(t, view)
		if decision.Assigned() {
			if _, ok := s.registry.Get(decision.WorkerID); !ok {
				panic(fmt.Sprintf("Substrate: policy chose unknown worker %d", decision.WorkerID))
			}
			s.dispatched = append(s.dispatched, t)
		} else {
			logrus.Warnf("[substrate] task %d: %s; recording as failed", t.ID, decision.Reason)
		}
		s.seq++
		s.events.schedule(&event{
			at:       t.ArrivalTime,
			kind:     kindRelease,
			seq:      s.seq,
			task:     t,
			workerID: decision.WorkerID,
		})
	}
	logrus.Debugf("[substrate] %s placed %d tasks", s.dispatcher.Policy().Name(), len(tasks))
}

// Run processes events until none remain and returns the completion records
// in completion order. Panics if called more than once.
func (s *Substrate) Run() []sim.CompletionRecord {
	if s.hasRun {
		panic("Substrate.Run() called more than once")
	}
	s.hasRun = true

	for e := s.events.next(); e != nil; e = s.events.next() {
		if e.at < s.clock {
			panic(fmt.Sprintf("Substrate: %s event at %f precedes clock %f", e.kind, e.at, s.clock))
		}
		s.clock = e.at
		switch e.kind {
		case kindRelease:
			s.release(e)
		case kindFinish:
			s.finish(e)
		}
	}
	logrus.Debugf("[substrate] run finished at t=%.4f: %d records", s.clock, len(s.records))
	return s.records
}

// Clock returns the current simulated time.
func (s *Substrate) Clock() float64 {
	return s.clock
}

// release makes an arrived task runnable on its worker, or records the failure
// of an unplaced task.
func (s *Substrate) release(e *event) {
	if e.workerID == sim.NoWorker {
		s.records = append(s.records, sim.CompletionRecord{
			TaskID:      e.task.ID,
			WorkerID:    sim.NoWorker,
			Length:      e.task.Length,
			ArrivalTime: e.task.ArrivalTime,
			StartTime:   s.clock,
			FinishTime:  s.clock,
			Status:      sim.StatusFailed,
		})
		return
	}
	rt := s.runtimes[e.workerID]
	if rt.running < rt.worker.Slots {
		s.start(rt, e.task)
		return
	}
	rt.queue = append(rt.queue, e.task)
}

func (s *Substrate) finish(e *event) {
	rt := s.runtimes[e.workerID]
	rt.running--
	s.records = append(s.records, sim.CompletionRecord{
		TaskID:      e.task.ID,
		WorkerID:    e.workerID,
		Length:      e.task.Length,
		ArrivalTime: e.task.ArrivalTime,
		StartTime:   e.start,
		FinishTime:  s.clock,
		Status:      sim.StatusSuccess,
	})
	if len(rt.queue) > 0 {
		next := rt.queue[0]
		rt.queue = rt.queue[1:]
		s.start(rt, next)
	}
}

func (s *Substrate) start(rt *workerRuntime, t sim.Task) {
	rt.running++
	s.seq++
	s.events.schedule(&event{
		at:       s.clock + rt.worker.ExecTime(t),
		kind:     kindFinish,
		seq:      s.seq,
		task:     t,
		workerID: rt.worker.ID,
		start:    s.clock,
	})
}
