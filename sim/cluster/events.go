package cluster

import (
	"container/heap"

	"github.com/inference-sim/schedsim/sim"
)

// eventKind orders events that share a timestamp (lower first). A finish runs
// before a release so a slot freed at t is visible to a task released at t.
type eventKind int

const (
	kindFinish eventKind = iota
	kindRelease
)

func (k eventKind) String() string {
	if k == kindFinish {
		return "finish"
	}
	return "release"
}

// event is a substrate event. Placement has already happened when an event is
// queued: a release carries the worker chosen at submission (or sim.NoWorker),
// a finish carries the worker the task ran on.
type event struct {
	at       float64
	kind     eventKind
	seq      uint64 // submission-order tie-break
	task     sim.Task
	workerID int
	start    float64 // finish events only
}

// eventQueue is a min-heap over (at, kind, seq).
type eventQueue []*event

func (q eventQueue) Len() int { return len(q) }

func (q eventQueue) Less(i, j int) bool {
	if q[i].at != q[j].at {
		return q[i].at < q[j].at
	}
	if q[i].kind != q[j].kind {
		return q[i].kind < q[j].kind
	}
	return q[i].seq < q[j].seq
}

func (q eventQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *eventQueue) Push(x any) { *q = append(*q, x.(*event)) }

func (q *eventQueue) Pop() any {
	old := *q
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return e
}

func (q *eventQueue) schedule(e *event) { heap.Push(q, e) }

// next removes and returns the earliest event, or nil when the queue is empty.
func (q *eventQueue) next() *event {
	if q.Len() == 0 {
		return nil
	}
	return heap.Pop(q).(*event)
}
