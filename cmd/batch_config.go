package cmd

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/batch"
	"github.com/inference-sim/schedsim/sim/workload"
)

// WorkerConfig describes one worker in the batch YAML.
type WorkerConfig struct {
	ID    int     `yaml:"id"`
	Rate  float64 `yaml:"rate"`
	Slots int     `yaml:"slots,omitempty"`
}

// BatchConfig is the batch YAML structure.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type BatchConfig struct {
	Seed        int64                   `yaml:"seed"`
	LogEvery    int                     `yaml:"log_every"`
	Parallelism int                     `yaml:"parallelism"`
	Workers     []WorkerConfig          `yaml:"workers"`
	Scenarios   []string                `yaml:"scenarios"` // built-in names, names from workloads, or YAML file paths
	Workloads   []workload.WorkloadSpec `yaml:"workloads"`
	Policies    []string                `yaml:"policies"`
}

// defaultWorkerRates are the heterogeneous processing rates of the default six-worker pool.
var defaultWorkerRates = []float64{1000, 1500, 2000, 2500, 3000, 3500}

// DefaultBatchConfig returns the fixed 4 scenarios × 2 policies batch on six workers.
func DefaultBatchConfig() BatchConfig {
	workers := make([]WorkerConfig, len(defaultWorkerRates))
	for i, rate := range defaultWorkerRates {
		workers[i] = WorkerConfig{ID: i, Rate: rate, Slots: sim.DefaultWorkerSlots}
	}
	return BatchConfig{
		Seed:      42,
		LogEvery:  sim.DefaultLogEvery,
		Workers:   workers,
		Scenarios: workload.BuiltinScenarioNames(),
		Policies:  sim.PolicyNames(),
	}
}

// LoadBatchConfig reads a batch YAML file on top of DefaultBatchConfig.
// Sections present in the file replace the defaults. Unknown keys are errors.
func LoadBatchConfig(path string) (BatchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BatchConfig{}, fmt.Errorf("reading batch config: %w", err)
	}
	cfg := DefaultBatchConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return BatchConfig{}, fmt.Errorf("parsing batch config: %w", err)
	}
	return cfg, nil
}

// BuildWorkers constructs the worker section with sim.NewWorker and reports
// every invalid or duplicate worker at once.
func (c BatchConfig) BuildWorkers() ([]sim.Worker, error) {
	var result *multierror.Error
	workers := make([]sim.Worker, 0, len(c.Workers))
	seen := make(map[int]bool, len(c.Workers))
	for _, wc := range c.Workers {
		if seen[wc.ID] {
			result = multierror.Append(result, fmt.Errorf("worker %d: %w", wc.ID, sim.ErrDuplicateWorker))
		}
		seen[wc.ID] = true
		w, err := sim.NewWorker(wc.ID, wc.Rate, wc.Slots)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		workers = append(workers, w)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return workers, nil
}

// ResolveScenarios maps each scenario entry to a WorkloadSpec. Entries are
// looked up in the inline workloads first, then the built-ins, then treated
// as a YAML file path.
func (c BatchConfig) ResolveScenarios() ([]*workload.WorkloadSpec, error) {
	inline := make(map[string]*workload.WorkloadSpec, len(c.Workloads))
	for i := range c.Workloads {
		w := c.Workloads[i]
		inline[w.Name] = &w
	}
	specs := make([]*workload.WorkloadSpec, 0, len(c.Scenarios))
	for _, name := range c.Scenarios {
		var spec *workload.WorkloadSpec
		var err error
		switch {
		case inline[name] != nil:
			spec = inline[name]
		case workload.IsBuiltinScenario(name):
			spec, err = workload.BuiltinScenario(name)
		case strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml"):
			spec, err = workload.LoadWorkloadSpec(name)
		default:
			err = fmt.Errorf("unknown scenario %q; valid built-ins: %v", name, workload.BuiltinScenarioNames())
		}
		if err != nil {
			return nil, err
		}
		if err := spec.Validate(); err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// BuildRunSpecs validates policies and returns the scenario × policy cross product.
func (c BatchConfig) BuildRunSpecs() ([]batch.RunSpec, error) {
	for _, p := range c.Policies {
		if !sim.IsValidPolicyName(p) {
			return nil, fmt.Errorf("unknown policy %q; valid: %v", p, sim.PolicyNames())
		}
	}
	scenarios, err := c.ResolveScenarios()
	if err != nil {
		return nil, err
	}
	return batch.DefaultRunSpecs(scenarios, c.Policies), nil
}
