// Package metrics records build cycle observability data. The Recorder
// interface keeps the build and watch packages independent of Prometheus;
// NoopRecorder is the default when metrics are not requested.
package metrics
