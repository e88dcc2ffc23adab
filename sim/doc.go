// Package sim provides the core of the task assignment simulator.
//
// # Reading Guide
//
//   - task.go: Task, Worker and CompletionRecord
//   - policy.go: the AssignmentPolicy contract and the closed set of policy names
//   - policy_baseline.go, policy_aging.go: the two policy variants
//   - dispatcher.go: pairs a policy with the PolicyState it owns for one run
//   - metrics.go: reduces completion records to a MetricsSnapshot
//
// # Architecture
//
// The sim package defines the decision core and bridge types; everything that
// drives it lives in sub-packages:
//   - sim/cluster/: reference discrete-event substrate that replays arrivals and runs tasks
//   - sim/workload/: seeded synthetic workloads (built-in scenarios and YAML phase specs)
//   - sim/trace/: decision trace recording and per-worker distribution summaries
//   - sim/batch/: scenario × policy run orchestration and reporting
//
// Policies are pure with respect to their inputs: given the same task, view and
// PolicyState they return the same worker, and their only side effect is the
// PolicyState update. Logging and tracing happen in DecisionObservers attached
// to the Dispatcher.
package sim
