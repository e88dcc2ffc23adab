package workload

import (
	"fmt"
	"sort"
)

// Built-in scenario names.
const (
	ScenarioDynamicMixed = "dynamic-mixed"
	ScenarioBursty       = "bursty"
	ScenarioHeavyLoad    = "heavy-load"
	ScenarioBalanced     = "balanced"
)

// ScenarioDynamicMixedSpec: medium tasks arrive first and occupy workers, a steady
// stream of short tasks follows, and very long tasks are scattered throughout.
func ScenarioDynamicMixedSpec() *WorkloadSpec {
	return &WorkloadSpec{
		Name: ScenarioDynamicMixed, Label: "W1",
		Description: "30 medium + 50 short + 20 very long tasks",
		Phases: []PhaseSpec{
			{Name: "medium", Count: 30, LengthMin: 8000, LengthMax: 12000, ArrivalStart: 0, ArrivalStep: 0.1},
			{Name: "short", Count: 50, LengthMin: 1000, LengthMax: 3000, ArrivalStart: 3.0, ArrivalStep: 0.2},
			{Name: "very-long", Count: 20, LengthMin: 20000, LengthMax: 30000, ArrivalStart: 0, ArrivalStep: 0.7},
		},
	}
}

// ScenarioBurstySpec: three dense bursts of short, very long, then medium tasks.
func ScenarioBurstySpec() *WorkloadSpec {
	return &WorkloadSpec{
		Name: ScenarioBursty, Label: "W2",
		Description: "3 bursts: 30 short -> 20 very long -> 30 medium",
		Phases: []PhaseSpec{
			{Name: "short-burst", Count: 30, LengthMin: 1000, LengthMax: 2000, ArrivalStart: 0, ArrivalStep: 0.033},
			{Name: "long-burst", Count: 20, LengthMin: 25000, LengthMax: 35000, ArrivalStart: 5.0, ArrivalStep: 0.05},
			{Name: "medium-burst", Count: 30, LengthMin: 5000, LengthMax: 8000, ArrivalStart: 10.0, ArrivalStep: 0.033},
		},
	}
}

// ScenarioHeavyLoadSpec: sustained load dominated by long tasks.
func ScenarioHeavyLoadSpec() *WorkloadSpec {
	return &WorkloadSpec{
		Name: ScenarioHeavyLoad, Label: "W3",
		Description: "105 long + 45 short tasks (sustained heavy load)",
		Phases: []PhaseSpec{
			{Name: "long", Count: 105, LengthMin: 15000, LengthMax: 25000, ArrivalStart: 0, ArrivalStep: 0.143},
			{Name: "short", Count: 45, LengthMin: 2000, LengthMax: 5000, ArrivalStart: 15.0, ArrivalStep: 0.111},
		},
	}
}

// ScenarioBalancedSpec: equal thirds of short, medium and long tasks arriving gradually.
func ScenarioBalancedSpec() *WorkloadSpec {
	return &WorkloadSpec{
		Name: ScenarioBalanced, Label: "W4",
		Description: "20 short + 20 medium + 20 long (evenly distributed)",
		Phases: []PhaseSpec{
			{Name: "short", Count: 20, LengthMin: 1000, LengthMax: 3000, ArrivalStart: 0, ArrivalStep: 0.2},
			{Name: "medium", Count: 20, LengthMin: 5000, LengthMax: 8000, ArrivalStart: 4.0, ArrivalStep: 0.2},
			{Name: "long", Count: 20, LengthMin: 12000, LengthMax: 18000, ArrivalStart: 8.0, ArrivalStep: 0.2},
		},
	}
}

var builtinScenarios = map[string]func() *WorkloadSpec{
	ScenarioDynamicMixed: ScenarioDynamicMixedSpec,
	ScenarioBursty:       ScenarioBurstySpec,
	ScenarioHeavyLoad:    ScenarioHeavyLoadSpec,
	ScenarioBalanced:     ScenarioBalancedSpec,
}

// BuiltinScenarioNames returns the built-in scenarios in their canonical batch order.
func BuiltinScenarioNames() []string {
	return []string{ScenarioDynamicMixed, ScenarioBursty, ScenarioHeavyLoad, ScenarioBalanced}
}

// IsBuiltinScenario reports whether name is a built-in scenario.
func IsBuiltinScenario(name string) bool {
	_, ok := builtinScenarios[name]
	return ok
}

// BuiltinScenario returns a fresh copy of the named built-in scenario.
func BuiltinScenario(name string) (*WorkloadSpec, error) {
	fn, ok := builtinScenarios[name]
	if !ok {
		names := make([]string, 0, len(builtinScenarios))
		for n := range builtinScenarios {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown scenario %q; valid: %v", name, names)
	}
	return fn(), nil
}
