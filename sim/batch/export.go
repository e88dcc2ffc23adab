package batch

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var runLabels = []string{"batch", "run", "scenario", "policy"}

// batchCollectors holds one gauge per headline metric, registered on a private registry.
type batchCollectors struct {
	registry   *prometheus.Registry
	waiting    *prometheus.GaugeVec
	response   *prometheus.GaugeVec
	makespan   *prometheus.GaugeVec
	throughput *prometheus.GaugeVec
	successful *prometheus.GaugeVec
	unassigned *prometheus.GaugeVec
}

func newBatchCollectors() *batchCollectors {
	gauge := func(name, help string) *prometheus.GaugeVec {
		return prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "schedsim", Name: name, Help: help}, runLabels)
	}
	c := &batchCollectors{
		registry:   prometheus.NewRegistry(),
		waiting:    gauge("average_waiting_seconds", "Average waiting time of successful tasks."),
		response:   gauge("average_response_seconds", "Average response time of successful tasks."),
		makespan:   gauge("makespan_seconds", "Time from first arrival to last completion."),
		throughput: gauge("throughput_tasks_per_second", "Successful tasks per second of makespan."),
		successful: gauge("successful_tasks", "Number of successfully completed tasks."),
		unassigned: gauge("unassigned_tasks", "Arrivals for which no worker was available."),
	}
	c.registry.MustRegister(c.waiting, c.response, c.makespan, c.throughput, c.successful, c.unassigned)
	return c
}

func (c *batchCollectors) observe(batchID string, r RunResult) {
	labels := prometheus.Labels{
		"batch":    batchID,
		"run":      r.Spec.Label,
		"scenario": r.Spec.Scenario.Name,
		"policy":   r.Spec.Policy,
	}
	s := r.Snapshot
	c.waiting.With(labels).Set(s.AverageWaitingTime)
	c.response.With(labels).Set(s.AverageResponseTime)
	c.makespan.With(labels).Set(s.Makespan)
	c.throughput.With(labels).Set(s.Throughput)
	c.successful.With(labels).Set(float64(s.SuccessfulCount))
	unassigned := 0
	if r.Trace != nil {
		unassigned = r.Trace.Unassigned
	}
	c.unassigned.With(labels).Set(float64(unassigned))
}

// Gatherer returns a prometheus.Gatherer exposing one sample per run and metric.
func Gatherer(batchID string, results []RunResult) prometheus.Gatherer {
	c := newBatchCollectors()
	for _, r := range results {
		c.observe(batchID, r)
	}
	return c.registry
}

// WriteMetricsTextfile writes the batch results in the Prometheus text format
// (suitable for the node_exporter textfile collector).
func WriteMetricsTextfile(path, batchID string, results []RunResult) error {
	if err := prometheus.WriteToTextfile(path, Gatherer(batchID, results)); err != nil {
		return fmt.Errorf("writing metrics textfile %s: %w", path, err)
	}
	return nil
}
