package workload

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// WorkloadSpec describes a synthetic arrival trace as an ordered list of phases.
// Tasks are produced phase by phase in the order listed; the resulting trace is
// in construction order, which need not be sorted by arrival time.
type WorkloadSpec struct {
	Name        string      `yaml:"name"`
	Label       string      `yaml:"label,omitempty"` // short run-label prefix, e.g. "W1"
	Description string      `yaml:"description,omitempty"`
	Phases      []PhaseSpec `yaml:"phases"`
}

// PhaseSpec generates Count tasks with lengths uniform in [LengthMin, LengthMax].
//
// Arrival "fixed" (default): arrival_i = ArrivalStart + i*ArrivalStep.
// Arrival "poisson": exponential inter-arrival times with mean ArrivalStep,
// starting at ArrivalStart.
type PhaseSpec struct {
	Name         string  `yaml:"name,omitempty"`
	Count        int     `yaml:"count"`
	LengthMin    int64   `yaml:"length_min"`
	LengthMax    int64   `yaml:"length_max"`
	ArrivalStart float64 `yaml:"arrival_start"`
	ArrivalStep  float64 `yaml:"arrival_step"`
	Arrival      string  `yaml:"arrival,omitempty"`
}

const (
	ArrivalFixed   = "fixed"
	ArrivalPoisson = "poisson"
)

var validArrivalProcesses = map[string]bool{"": true, ArrivalFixed: true, ArrivalPoisson: true}

// LoadWorkloadSpec reads and parses a YAML workload file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	return ParseWorkloadSpec(data)
}

// ParseWorkloadSpec parses YAML bytes into a WorkloadSpec with strict field checking.
func ParseWorkloadSpec(data []byte) (*WorkloadSpec, error) {
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	return &spec, nil
}

// Validate checks that every phase of the workload is well formed.
func (s *WorkloadSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("workload name must not be empty")
	}
	if len(s.Phases) == 0 {
		return fmt.Errorf("workload %q: at least one phase required", s.Name)
	}
	for i := range s.Phases {
		if err := s.Phases[i].validate(fmt.Sprintf("%s.phases[%d]", s.Name, i)); err != nil {
			return err
		}
	}
	return nil
}

// TotalTasks returns the number of tasks the workload generates.
func (s *WorkloadSpec) TotalTasks() int {
	n := 0
	for _, p := range s.Phases {
		n += p.Count
	}
	return n
}

func (p *PhaseSpec) validate(prefix string) error {
	if p.Count <= 0 {
		return fmt.Errorf("%s: count must be positive, got %d", prefix, p.Count)
	}
	if p.LengthMin <= 0 {
		return fmt.Errorf("%s: length_min must be positive, got %d", prefix, p.LengthMin)
	}
	if p.LengthMax < p.LengthMin {
		return fmt.Errorf("%s: length_max (%d) must be >= length_min (%d)", prefix, p.LengthMax, p.LengthMin)
	}
	if err := validateFiniteNonNegative(prefix+".arrival_start", p.ArrivalStart); err != nil {
		return err
	}
	if err := validateFiniteNonNegative(prefix+".arrival_step", p.ArrivalStep); err != nil {
		return err
	}
	if !validArrivalProcesses[p.Arrival] {
		return fmt.Errorf("%s: unknown arrival process %q; valid: fixed, poisson", prefix, p.Arrival)
	}
	if p.Arrival == ArrivalPoisson && p.ArrivalStep == 0 {
		return fmt.Errorf("%s: poisson arrivals need a positive arrival_step (mean inter-arrival)", prefix)
	}
	return nil
}

func validateFiniteNonNegative(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val < 0 {
		return fmt.Errorf("%s must be non-negative, got %f", name, val)
	}
	return nil
}
