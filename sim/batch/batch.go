// Package batch orchestrates independent scenario×policy runs. Every run gets
// its own WorkerRegistry, Dispatcher (and therefore PolicyState), freshly
// seeded workload and substrate; nothing mutable is shared between runs.
package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/inference-sim/schedsim/sim"
	"github.com/inference-sim/schedsim/sim/cluster"
	"github.com/inference-sim/schedsim/sim/trace"
	"github.com/inference-sim/schedsim/sim/workload"
)

// RunSpec selects one scenario×policy combination.
type RunSpec struct {
	Label    string
	Scenario *workload.WorkloadSpec
	Policy   string
}

// DefaultRunSpecs returns the cross product of scenarios and policies in
// scenario-major order, labeled "<scenario label>-<policy short label>".
func DefaultRunSpecs(scenarios []*workload.WorkloadSpec, policies []string) []RunSpec {
	specs := make([]RunSpec, 0, len(scenarios)*len(policies))
	for _, sc := range scenarios {
		prefix := sc.Label
		if prefix == "" {
			prefix = sc.Name
		}
		for _, p := range policies {
			specs = append(specs, RunSpec{
				Label:    fmt.Sprintf("%s-%s", prefix, sim.PolicyShortLabel(p)),
				Scenario: sc,
				Policy:   p,
			})
		}
	}
	return specs
}

// Config holds batch-wide settings.
type Config struct {
	Workers     []sim.Worker
	Seed        int64
	LogEvery    int // sampling period of the decision log; <= 0 uses sim.DefaultLogEvery
	Parallelism int // concurrent runs; <= 0 runs sequentially
}

// RunResult is the outcome of one run.
type RunResult struct {
	Spec      RunSpec
	Snapshot  sim.MetricsSnapshot
	Warnings  []string
	Trace     *trace.TraceSummary
	Decisions int
	Records   int // completion records produced by the substrate
}

// Runner executes batches of runs.
type Runner struct {
	config  Config
	batchID uuid.UUID
}

// NewRunner validates the configuration and returns a Runner.
// Invalid workers are a fatal configuration error: no run may start.
func NewRunner(cfg Config) (*Runner, error) {
	if err := sim.ValidateWorkers(cfg.Workers); err != nil {
		return nil, fmt.Errorf("invalid worker configuration: %w", err)
	}
	if len(cfg.Workers) == 0 {
		logrus.Warn("[batch] no workers configured; every task will fail to schedule")
	}
	return &Runner{config: cfg, batchID: uuid.New()}, nil
}

// BatchID identifies this runner's batch in logs and exports.
func (r *Runner) BatchID() uuid.UUID {
	return r.batchID
}

// ValidateSpecs checks every run spec up front so a bad scenario or policy
// aborts the batch before any run starts.
func ValidateSpecs(specs []RunSpec) error {
	for _, s := range specs {
		if !sim.IsValidPolicyName(s.Policy) {
			return fmt.Errorf("run %q: unknown policy %q; valid: %v", s.Label, s.Policy, sim.PolicyNames())
		}
		if s.Scenario == nil {
			return fmt.Errorf("run %q: scenario is nil", s.Label)
		}
		if err := s.Scenario.Validate(); err != nil {
			return fmt.Errorf("run %q: %w", s.Label, err)
		}
	}
	return nil
}

// RunAll executes specs and returns results in spec order. Runs execute
// concurrently up to Config.Parallelism.
func (r *Runner) RunAll(ctx context.Context, specs []RunSpec) ([]RunResult, error) {
	if err := ValidateSpecs(specs); err != nil {
		return nil, err
	}
	logrus.Infof("[batch %s] starting %d runs (parallelism=%d)", r.batchID, len(specs), r.config.Parallelism)

	limit := r.config.Parallelism
	if limit <= 0 {
		limit = 1
	}
	results := make([]RunResult, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, spec := range specs {
		i, spec := i, spec
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.RunOne(spec)
			if err != nil {
				return fmt.Errorf("run %q: %w", spec.Label, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RunOne executes a single run from fresh state.
func (r *Runner) RunOne(spec RunSpec) (RunResult, error) {
	registry, err := sim.NewWorkerRegistryFrom(r.config.Workers)
	if err != nil {
		return RunResult{}, err
	}
	tasks, err := workload.Generate(spec.Scenario, r.config.Seed)
	if err != nil {
		return RunResult{}, err
	}

	decisions := trace.NewDecisionTrace()
	dispatcher := sim.NewDispatcher(
		sim.NewAssignmentPolicy(spec.Policy),
		&sim.SampledLogObserver{Label: spec.Label, Every: r.config.LogEvery},
		&sim.TraceObserver{Trace: decisions},
	)

	logrus.Infof("[batch %s] running %s (%s): %d tasks on %d workers",
		r.batchID, spec.Label, dispatcher.Policy().Name(), len(tasks), registry.Len())
	substrate := cluster.NewSubstrate(registry, dispatcher)
	substrate.Submit(tasks)
	records := substrate.Run()

	summary := trace.Summarize(decisions)
	assigned := dispatcher.State().TotalAssignments()
	if assigned != summary.TotalDecisions-summary.Unassigned {
		return RunResult{}, fmt.Errorf("assignment counters (%d) disagree with decision trace (%d assigned)",
			assigned, summary.TotalDecisions-summary.Unassigned)
	}
	logrus.Infof("[batch %s] %s finished at t=%.4f: %d assigned, %d unassigned",
		r.batchID, spec.Label, substrate.Clock(), assigned, summary.Unassigned)

	snap, warnings := sim.ComputeMetrics(records)
	return RunResult{
		Spec:      spec,
		Snapshot:  snap,
		Warnings:  warnings,
		Trace:     summary,
		Decisions: dispatcher.Decisions(),
		Records:   len(records),
	}, nil
}
