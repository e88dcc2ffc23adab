// Defines the Task, Worker and CompletionRecord types shared by policies, the substrate
// and the metrics engine.

package sim

import (
	"errors"
	"fmt"
)

// ErrInvalidProcessingRate is returned when a worker is built with a non-positive rate.
var ErrInvalidProcessingRate = errors.New("processing rate must be positive")

// ErrInvalidTaskLength is returned when a task is built with a non-positive length.
var ErrInvalidTaskLength = errors.New("task length must be positive")

// Task is a unit of work with a fixed service length. Immutable once created.
type Task struct {
	ID          int     // Unique; also the stable arrival ordering key
	Length      int64   // Work units (> 0)
	ArrivalTime float64 // Simulated seconds (>= 0)
	Parallelism int     // Requested processing elements, fixed at 1
}

// NewTask builds a Task, rejecting non-positive lengths and negative arrival times.
func NewTask(id int, length int64, arrivalTime float64) (Task, error) {
	if length <= 0 {
		return Task{}, fmt.Errorf("task %d: %w (got %d)", id, ErrInvalidTaskLength, length)
	}
	if arrivalTime < 0 {
		return Task{}, fmt.Errorf("task %d: arrival time must be >= 0, got %f", id, arrivalTime)
	}
	return Task{ID: id, Length: length, ArrivalTime: arrivalTime, Parallelism: 1}, nil
}

func (t Task) String() string {
	return fmt.Sprintf("Task: (ID: %d, Length: %d, ArrivalTime: %.3f)", t.ID, t.Length, t.ArrivalTime)
}

// DefaultWorkerSlots is the number of tasks a worker may execute at once in the
// reference substrate (two processing elements per worker).
const DefaultWorkerSlots = 2

// Worker is a compute resource with a fixed processing rate in work units per second.
// Mutable counters live in PolicyState, never on the Worker.
type Worker struct {
	ID             int
	ProcessingRate float64
	Slots          int // concurrent tasks; only read by the substrate
}

// NewWorker builds a Worker. A non-positive processing rate is a configuration error.
// slots <= 0 selects DefaultWorkerSlots.
func NewWorker(id int, rate float64, slots int) (Worker, error) {
	if rate <= 0 {
		return Worker{}, fmt.Errorf("worker %d: %w (got %g)", id, ErrInvalidProcessingRate, rate)
	}
	if slots <= 0 {
		slots = DefaultWorkerSlots
	}
	return Worker{ID: id, ProcessingRate: rate, Slots: slots}, nil
}

// ExecTime returns the estimated execution time of task on this worker.
func (w Worker) ExecTime(task Task) float64 {
	return float64(task.Length) / w.ProcessingRate
}

func (w Worker) String() string {
	return fmt.Sprintf("Worker: (ID: %d, Rate: %.0f, Slots: %d)", w.ID, w.ProcessingRate, w.Slots)
}

// CompletionStatus is the terminal status of a task.
type CompletionStatus string

const (
	StatusSuccess CompletionStatus = "success"
	StatusFailed  CompletionStatus = "failed"
)

// CompletionRecord is produced by the substrate as each task finishes (or fails to be
// scheduled) and is consumed once by ComputeMetrics.
type CompletionRecord struct {
	TaskID      int
	WorkerID    int // NoWorker for failed dispatches
	Length      int64
	ArrivalTime float64
	StartTime   float64
	FinishTime  float64
	Status      CompletionStatus
}
