package workload

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/schedsim/sim"
)

// Generate produces the task trace for spec.
//
// Every call derives fresh RNGs from seed, so two calls with the same spec and
// seed return identical traces and runs never share random state. Lengths and
// stochastic arrival times come from separate streams. Task IDs are
// assigned 0..n-1 in construction order and the trace is returned in that order.
func Generate(spec *WorkloadSpec, seed int64) ([]sim.Task, error) {
	if spec == nil {
		return nil, fmt.Errorf("workload spec is nil")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	rngs := sim.NewPartitionedRNG(seed)
	lengths := rngs.ForSubsystem(sim.SubsystemWorkload)
	arrivalRNG := rngs.ForSubsystem(sim.SubsystemArrival)

	tasks := make([]sim.Task, 0, spec.TotalTasks())
	for pi, phase := range spec.Phases {
		arrivals := NewArrivalSampler(phase)
		span := phase.LengthMax - phase.LengthMin + 1
		for i := 0; i < phase.Count; i++ {
			length := phase.LengthMin + lengths.Int63n(span)
			t, err := sim.NewTask(len(tasks), length, arrivals.Next(arrivalRNG))
			if err != nil {
				return nil, fmt.Errorf("workload %q phase %d: %w", spec.Name, pi, err)
			}
			tasks = append(tasks, t)
		}
		logrus.Debugf("[workload] %s phase %d (%s): %d tasks, length [%d, %d]",
			spec.Name, pi, phase.Name, phase.Count, phase.LengthMin, phase.LengthMax)
	}
	return tasks, nil
}
