// Package metrics provides the metrics hooks for page rendering.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so nothing needs a nil check:
//
//	type Orchestrator struct {
//	    recorder metrics.Recorder
//	}
//
// When metrics are enabled the CLI swaps in a PrometheusRecorder and exposes
// it with HTTPHandler on the serve command's /metrics route.
package metrics
