package sim

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// ErrDuplicateWorker is returned when two workers share an ID.
var ErrDuplicateWorker = errors.New("duplicate worker id")

// WorkerRegistry tracks the workers known to one run. Workers are always
// reported in ascending ID order, which is the iteration order policies use
// for tie-breaking.
//
// Thread-safety: NOT thread-safe. Each run owns its own registry.
type WorkerRegistry struct {
	workers []Worker // sorted by ID
	byID    map[int]int
}

// NewWorkerRegistry creates an empty registry.
func NewWorkerRegistry() *WorkerRegistry {
	return &WorkerRegistry{byID: make(map[int]int)}
}

// NewWorkerRegistryFrom creates a registry populated with workers.
// Returns the aggregated validation error if any worker is rejected.
func NewWorkerRegistryFrom(workers []Worker) (*WorkerRegistry, error) {
	if err := ValidateWorkers(workers); err != nil {
		return nil, err
	}
	r := NewWorkerRegistry()
	for _, w := range workers {
		if err := r.Register(w); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a worker. Rejects non-positive rates and duplicate IDs.
func (r *WorkerRegistry) Register(w Worker) error {
	if w.ProcessingRate <= 0 {
		return fmt.Errorf("worker %d: %w (got %g)", w.ID, ErrInvalidProcessingRate, w.ProcessingRate)
	}
	if _, exists := r.byID[w.ID]; exists {
		return fmt.Errorf("worker %d: %w", w.ID, ErrDuplicateWorker)
	}
	if w.Slots <= 0 {
		w.Slots = DefaultWorkerSlots
	}
	r.workers = append(r.workers, w)
	sort.SliceStable(r.workers, func(i, j int) bool { return r.workers[i].ID < r.workers[j].ID })
	for i, wk := range r.workers {
		r.byID[wk.ID] = i
	}
	return nil
}

// Workers returns a copy of the registered workers in ascending ID order.
func (r *WorkerRegistry) Workers() []Worker {
	out := make([]Worker, len(r.workers))
	copy(out, r.workers)
	return out
}

// Get returns the worker with the given ID.
func (r *WorkerRegistry) Get(id int) (Worker, bool) {
	idx, ok := r.byID[id]
	if !ok {
		return Worker{}, false
	}
	return r.workers[idx], true
}

// Len returns the number of registered workers.
func (r *WorkerRegistry) Len() int {
	return len(r.workers)
}

// ValidateWorkers reports every configuration problem in workers at once.
func ValidateWorkers(workers []Worker) error {
	var result *multierror.Error
	seen := make(map[int]bool, len(workers))
	for _, w := range workers {
		if w.ProcessingRate <= 0 {
			result = multierror.Append(result,
				fmt.Errorf("worker %d: %w (got %g)", w.ID, ErrInvalidProcessingRate, w.ProcessingRate))
		}
		if seen[w.ID] {
			result = multierror.Append(result, fmt.Errorf("worker %d: %w", w.ID, ErrDuplicateWorker))
		}
		seen[w.ID] = true
	}
	return result.ErrorOrNil()
}
