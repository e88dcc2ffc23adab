package sim

import "fmt"

// NoWorker is the sentinel worker ID returned when the worker set is empty.
// The substrate must treat it as a fatal scheduling failure for that task.
const NoWorker = -1

// DispatchView is the substrate's view of the run at one dispatch, handed to a
// policy for a single decision. Built fresh per task; policies must not retain it.
type DispatchView struct {
	Clock   float64  // current simulated time (non-decreasing within a run)
	Workers []Worker // live worker set in ascending ID order
	Pending []Task   // tasks dispatched earlier in this run whose status is not yet success
}

// AssignmentDecision is the outcome of one assignment.
type AssignmentDecision struct {
	WorkerID int             // chosen worker, or NoWorker
	Reason   string          // human-readable explanation
	Score    float64         // score/cost of the chosen worker (0 when no scoring happened)
	Scores   map[int]float64 // worker ID → score (nil when no scoring happened)
	Priority float64         // diagnostic priority (aging policy only)
}

// Assigned reports whether a worker was chosen.
func (d AssignmentDecision) Assigned() bool {
	return d.WorkerID != NoWorker
}

// AssignmentPolicy selects exactly one worker for an arriving task.
// Implementations mutate only the PolicyState they are given and perform no I/O.
type AssignmentPolicy interface {
	Name() string
	Assign(task Task, view *DispatchView, state *PolicyState) AssignmentDecision
}

const (
	// PolicyDynamicAV is the naive AV load balancer used as a comparison baseline.
	PolicyDynamicAV = "dynamic-av"
	// PolicyAgingLoadAware is the aging/predictive load balancer.
	PolicyAgingLoadAware = "aging-load-aware"
)

// ValidPolicyNames is the closed set of recognized assignment policy names.
var ValidPolicyNames = map[string]bool{PolicyDynamicAV: true, PolicyAgingLoadAware: true}

// policyShortLabels are used to build run labels such as "W1-Simple".
var policyShortLabels = map[string]string{PolicyDynamicAV: "Simple", PolicyAgingLoadAware: "Aging"}

// IsValidPolicyName reports whether name selects a known policy.
func IsValidPolicyName(name string) bool {
	return ValidPolicyNames[name]
}

// PolicyNames returns the recognized policy names in a fixed order.
func PolicyNames() []string {
	return []string{PolicyDynamicAV, PolicyAgingLoadAware}
}

// PolicyShortLabel returns the short label for a policy name, or the name itself.
func PolicyShortLabel(name string) string {
	if l, ok := policyShortLabels[name]; ok {
		return l
	}
	return name
}

// NewAssignmentPolicy creates a policy by name.
// Panics on unrecognized names; callers validate user input with IsValidPolicyName.
func NewAssignmentPolicy(name string) AssignmentPolicy {
	switch name {
	case PolicyDynamicAV:
		return &DynamicAVBalancer{}
	case PolicyAgingLoadAware:
		return &AgingLoadAwareBalancer{Alpha: DefaultAgingAlpha}
	default:
		panic(fmt.Sprintf("unknown assignment policy %q", name))
	}
}

// shortCircuit handles the empty and single-worker cases shared by both policies.
// ok is false when the caller must score candidates.
func shortCircuit(workers []Worker) (decision AssignmentDecision, ok bool) {
	switch len(workers) {
	case 0:
		return AssignmentDecision{WorkerID: NoWorker, Reason: "no worker available"}, true
	case 1:
		return AssignmentDecision{WorkerID: workers[0].ID, Reason: "single worker"}, true
	}
	return AssignmentDecision{}, false
}
