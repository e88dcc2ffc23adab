package workload

import "math/rand"

// ArrivalSampler produces successive arrival times (simulated seconds) for one phase.
type ArrivalSampler interface {
	// Next returns the arrival time of the next task in the phase.
	Next(rng *rand.Rand) float64
}

// FixedSampler spaces arrivals evenly: start, start+step, start+2·step, ...
// It never draws from the RNG.
type FixedSampler struct {
	start float64
	step  float64
	idx   int
}

// Next implements ArrivalSampler.
func (s *FixedSampler) Next(_ *rand.Rand) float64 {
	at := s.start + float64(s.idx)*s.step
	s.idx++
	return at
}

// PoissonSampler draws exponentially distributed inter-arrival times with the
// given mean. The first arrival is at start.
type PoissonSampler struct {
	next    float64
	meanIAT float64
	started bool
}

// Next implements ArrivalSampler.
func (s *PoissonSampler) Next(rng *rand.Rand) float64 {
	if s.started {
		s.next += rng.ExpFloat64() * s.meanIAT
	}
	s.started = true
	return s.next
}

// NewArrivalSampler builds the sampler selected by the phase's arrival process.
func NewArrivalSampler(p PhaseSpec) ArrivalSampler {
	switch p.Arrival {
	case ArrivalPoisson:
		return &PoissonSampler{next: p.ArrivalStart, meanIAT: p.ArrivalStep}
	default:
		return &FixedSampler{start: p.ArrivalStart, step: p.ArrivalStep}
	}
}
