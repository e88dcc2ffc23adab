package sim

// PolicyState is the mutable bookkeeping of one assignment policy for one run.
// It starts empty, is populated lazily as tasks and workers are first observed,
// and is mutated only by assignment decisions. It is never reset mid-run and
// never shared between runs or policy variants.
type PolicyState struct {
	ArrivalTimeOf   map[int]float64 // task ID → first-seen arrival timestamp
	HistoricalLoad  map[int]float64 // worker ID → cumulative estimated exec time assigned (aging only)
	AssignmentCount map[int]int     // worker ID → tasks routed to it
	PriorityCache   map[int]float64 // task ID → last computed priority (diagnostic only)
}

// NewPolicyState returns a zeroed PolicyState.
func NewPolicyState() *PolicyState {
	return &PolicyState{
		ArrivalTimeOf:   make(map[int]float64),
		HistoricalLoad:  make(map[int]float64),
		AssignmentCount: make(map[int]int),
		PriorityCache:   make(map[int]float64),
	}
}

// RecordArrival stores now as the arrival time of taskID unless one is already
// recorded. Returns the stored (first-seen) value.
func (s *PolicyState) RecordArrival(taskID int, now float64) float64 {
	if t, ok := s.ArrivalTimeOf[taskID]; ok {
		return t
	}
	s.ArrivalTimeOf[taskID] = now
	return now
}

// TotalAssignments returns the sum of AssignmentCount over all workers.
func (s *PolicyState) TotalAssignments() int {
	total := 0
	for _, n := range s.AssignmentCount {
		total += n
	}
	return total
}

// observeWorkers lazily initializes per-worker counters for newly seen workers.
func (s *PolicyState) observeWorkers(workers []Worker, withLoad bool) {
	for _, w := range workers {
		if _, ok := s.AssignmentCount[w.ID]; !ok {
			s.AssignmentCount[w.ID] = 0
		}
		if withLoad {
			if _, ok := s.HistoricalLoad[w.ID]; !ok {
				s.HistoricalLoad[w.ID] = 0
			}
		}
	}
}
