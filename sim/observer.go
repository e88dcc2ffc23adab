package sim

import (
	"github.com/sirupsen/logrus"

	"github.com/inference-sim/schedsim/sim/trace"
)

// DecisionEvent describes one completed assignment. Counters reflect the
// chosen worker after the decision was applied.
type DecisionEvent struct {
	Policy          string
	Seq             int // 1-based decision index within the run
	Task            Task
	Clock           float64
	Decision        AssignmentDecision
	AssignmentCount int
	HistoricalLoad  float64
	ProcessingRate  float64
}

// DecisionObserver is notified after every decision. Observers must not
// mutate policy state.
type DecisionObserver interface {
	ObserveDecision(ev DecisionEvent)
}

// DecisionObserverFunc adapts a function to DecisionObserver.
type DecisionObserverFunc func(ev DecisionEvent)

// ObserveDecision implements DecisionObserver.
func (f DecisionObserverFunc) ObserveDecision(ev DecisionEvent) { f(ev) }

// DefaultLogEvery is the sampling period of SampledLogObserver.
const DefaultLogEvery = 25

// SampledLogObserver logs every Nth task (by task ID) at info level.
type SampledLogObserver struct {
	Label string
	Every int
}

// ObserveDecision implements DecisionObserver.
func (o *SampledLogObserver) ObserveDecision(ev DecisionEvent) {
	every := o.Every
	if every <= 0 {
		every = DefaultLogEvery
	}
	if ev.Task.ID%every != 0 {
		return
	}
	fields := logrus.Fields{
		"run":      o.Label,
		"policy":   ev.Policy,
		"task":     ev.Task.ID,
		"clock":    ev.Clock,
		"assigned": ev.AssignmentCount,
	}
	if !ev.Decision.Assigned() {
		logrus.WithFields(fields).Warn("no worker available")
		return
	}
	fields["worker"] = ev.Decision.WorkerID
	fields["rate"] = ev.ProcessingRate
	if ev.Policy == PolicyAgingLoadAware {
		fields["hist_load"] = ev.HistoricalLoad
		fields["priority"] = ev.Decision.Priority
	}
	logrus.WithFields(fields).Infof("C%d -> W%d", ev.Task.ID, ev.Decision.WorkerID)
}

// TraceObserver records every decision into a trace.DecisionTrace.
type TraceObserver struct {
	Trace *trace.DecisionTrace
}

// ObserveDecision implements DecisionObserver.
func (o *TraceObserver) ObserveDecision(ev DecisionEvent) {
	o.Trace.Record(trace.AssignmentRecord{
		TaskID:       ev.Task.ID,
		Clock:        ev.Clock,
		ChosenWorker: ev.Decision.WorkerID,
		Assigned:     ev.Decision.Assigned(),
		Reason:       ev.Decision.Reason,
		Score:        ev.Decision.Score,
		Priority:     ev.Decision.Priority,
		ExecTime:     execTimeOrZero(ev),
	})
}

func execTimeOrZero(ev DecisionEvent) float64 {
	if !ev.Decision.Assigned() || ev.ProcessingRate <= 0 {
		return 0
	}
	return float64(ev.Task.Length) / ev.ProcessingRate
}
