package trace

// DecisionTrace collects assignment records for one run in decision order.
type DecisionTrace struct {
	records []AssignmentRecord
}

// NewDecisionTrace creates an empty DecisionTrace.
func NewDecisionTrace() *DecisionTrace {
	return &DecisionTrace{records: make([]AssignmentRecord, 0)}
}

// Record appends an assignment record.
func (dt *DecisionTrace) Record(record AssignmentRecord) {
	dt.records = append(dt.records, record)
}

// Records returns the recorded decisions. Callers must not modify the slice.
func (dt *DecisionTrace) Records() []AssignmentRecord {
	return dt.records
}

// Len returns the number of recorded decisions.
func (dt *DecisionTrace) Len() int {
	return len(dt.records)
}
