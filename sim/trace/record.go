// Package trace provides decision-trace recording for assignment policy analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// AssignmentRecord captures a single assignment decision.
type AssignmentRecord struct {
	TaskID       int
	Clock        float64
	ChosenWorker int  // worker ID; meaningless when Assigned is false
	Assigned     bool // false when no worker was available
	Reason       string
	Score        float64
	Priority     float64 // diagnostic aging priority (0 for policies that do not compute one)
	ExecTime     float64 // estimated execution time on the chosen worker
}
