package cmd

import (
	"context"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/schedsim/sim/batch"
)

var (
	configPath  string   // Batch YAML config path (optional)
	seed        int64    // Seed for workload generation
	logLevel    string   // Log verbosity level
	scenarios   []string // Scenario names or workload YAML paths
	policies    []string // Assignment policy names
	parallelism int      // Concurrent runs
	logEvery    int      // Decision log sampling period
	metricsOut  string   // Prometheus textfile output path
	showDetails bool     // Print per-run metrics and distribution blocks
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "schedsim",
	Short: "Compare online task assignment policies on heterogeneous workers",
}

// runCmd executes the scenario × policy batch
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scenario x policy comparison batch",
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := DefaultBatchConfig()
		if configPath != "" {
			cfg, err = LoadBatchConfig(configPath)
			if err != nil {
				logrus.Fatalf("Failed to load batch config: %v", err)
			}
		}
		applyFlagOverrides(cmd, &cfg)

		workers, err := cfg.BuildWorkers()
		if err != nil {
			logrus.Fatalf("Invalid worker configuration: %v", err)
		}
		specs, err := cfg.BuildRunSpecs()
		if err != nil {
			logrus.Fatalf("Invalid batch: %v", err)
		}

		runner, err := batch.NewRunner(batch.Config{
			Workers:     workers,
			Seed:        cfg.Seed,
			LogEvery:    cfg.LogEvery,
			Parallelism: cfg.Parallelism,
		})
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		logrus.Infof("Starting batch %s: %d runs, %d workers, seed=%d",
			runner.BatchID(), len(specs), len(workers), cfg.Seed)
		startTime := time.Now()

		results, err := runner.RunAll(context.Background(), specs)
		if err != nil {
			logrus.Fatalf("Batch failed: %v", err)
		}

		if showDetails {
			for _, r := range results {
				r.Snapshot.Print(os.Stdout, r.Spec.Label)
				r.Trace.Print(os.Stdout, r.Spec.Label)
			}
		}
		batch.PrintSummaryTable(os.Stdout, results)

		if metricsOut != "" {
			if err := batch.WriteMetricsTextfile(metricsOut, runner.BatchID().String(), results); err != nil {
				logrus.Fatalf("%v", err)
			}
			logrus.Infof("Wrote metrics to %s", metricsOut)
		}
		logrus.Infof("Batch complete in %s.", time.Since(startTime))
	},
}

// applyFlagOverrides lets explicitly set flags win over the YAML config.
func applyFlagOverrides(cmd *cobra.Command, cfg *BatchConfig) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("scenarios") {
		cfg.Scenarios = scenarios
	}
	if flags.Changed("policies") {
		cfg.Policies = policies
	}
	if flags.Changed("parallel") {
		cfg.Parallelism = parallelism
	}
	if flags.Changed("log-every") {
		cfg.LogEvery = logEvery
	}
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Batch YAML config (workers, scenarios, policies, seed)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for workload generation")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringSliceVar(&scenarios, "scenarios", nil, "Comma-separated scenario names or workload YAML paths")
	runCmd.Flags().StringSliceVar(&policies, "policies", nil, "Comma-separated assignment policies (dynamic-av, aging-load-aware)")
	runCmd.Flags().IntVar(&parallelism, "parallel", 1, "Number of runs executed concurrently")
	runCmd.Flags().IntVar(&logEvery, "log-every", 25, "Log every Nth assignment decision (info level)")
	runCmd.Flags().StringVar(&metricsOut, "metrics-out", "", "Write per-run metrics in Prometheus text format to this file")
	runCmd.Flags().BoolVar(&showDetails, "details", true, "Print per-run metrics and worker distribution")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenariosCmd)
}
