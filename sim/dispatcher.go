package sim

// Dispatcher pairs one AssignmentPolicy with the PolicyState it exclusively owns
// for the duration of one run, and fans decisions out to observers.
// Arrivals are passed to the policy exactly as received; the dispatcher never
// reorders, filters or buffers them.
//
// Thread-safety: NOT thread-safe. One Dispatcher per run.
type Dispatcher struct {
	policy    AssignmentPolicy
	state     *PolicyState
	observers []DecisionObserver
	decisions int
}

// NewDispatcher creates a Dispatcher with a fresh, empty PolicyState.
func NewDispatcher(policy AssignmentPolicy, observers ...DecisionObserver) *Dispatcher {
	if policy == nil {
		panic("NewDispatcher: policy must not be nil")
	}
	return &Dispatcher{
		policy:    policy,
		state:     NewPolicyState(),
		observers: observers,
	}
}

// Policy returns the wrapped policy.
func (d *Dispatcher) Policy() AssignmentPolicy {
	return d.policy
}

// State returns the dispatcher's policy state for inspection.
// Callers must not mutate it.
func (d *Dispatcher) State() *PolicyState {
	return d.state
}

// Decisions returns the number of Dispatch calls made so far.
func (d *Dispatcher) Decisions() int {
	return d.decisions
}

// Dispatch asks the policy to place task and then notifies observers.
func (d *Dispatcher) Dispatch(task Task, view *DispatchView) AssignmentDecision {
	decision := d.policy.Assign(task, view, d.state)
	d.decisions++
	if len(d.observers) == 0 {
		return decision
	}

	ev := DecisionEvent{
		Policy:   d.policy.Name(),
		Seq:      d.decisions,
		Task:     task,
		Clock:    view.Clock,
		Decision: decision,
	}
	if decision.Assigned() {
		ev.AssignmentCount = d.state.AssignmentCount[decision.WorkerID]
		ev.HistoricalLoad = d.state.HistoricalLoad[decision.WorkerID]
		for _, w := range view.Workers {
			if w.ID == decision.WorkerID {
				ev.ProcessingRate = w.ProcessingRate
				break
			}
		}
	}
	for _, o := range d.observers {
		o.ObserveDecision(ev)
	}
	return decision
}
