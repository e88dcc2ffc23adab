package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/inference-sim/schedsim/sim/workload"
)

// scenariosCmd lists the built-in workload scenarios
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List built-in workload scenarios",
	Run: func(cmd *cobra.Command, args []string) {
		printScenarios(os.Stdout)
	},
}

func printScenarios(w io.Writer) {
	for _, name := range workload.BuiltinScenarioNames() {
		spec, err := workload.BuiltinScenario(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "%-14s %-4s %4d tasks  %s\n", spec.Name, spec.Label, spec.TotalTasks(), spec.Description)
		for _, p := range spec.Phases {
			fmt.Fprintf(w, "    %-13s %4d x [%d, %d] from t=%.3f step %.3f\n",
				p.Name, p.Count, p.LengthMin, p.LengthMax, p.ArrivalStart, p.ArrivalStep)
		}
	}
}
