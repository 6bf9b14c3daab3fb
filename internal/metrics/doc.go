// Package metrics provides observability hooks for tag planning.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	p := planner.New(opts, planner.WithRecorder(metrics.NewPrometheusRecorder(reg)))
//
// The CLI writes the Prometheus registry to a node-exporter textfile after a
// run when --metrics-textfile is given.
package metrics
