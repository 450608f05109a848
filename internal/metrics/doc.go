// Package metrics records build and stage observations.
//
// Components receive a Recorder through their constructors. NoopRecorder is
// the default; PrometheusRecorder is installed by `sitegen serve`, which
// exposes the registry on /metrics.
package metrics
