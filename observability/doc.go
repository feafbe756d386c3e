// Package observability provides OpenTelemetry tracing and metrics for fold
// runs.
//
// Setup:
//
//	shutdown, err := observability.Init(ctx, cfg)
//	defer shutdown(ctx)
//
// Every driver run in package run is tracked by a Run: a span named
// "fold.run" carrying the run ID and driver, plus the counters and the
// duration histogram of Metrics when one is supplied.
//
//	metrics, err := observability.NewMetrics(observability.Meter("foldstat"))
//	result := run.Par(f, xs, run.WithMetrics(metrics))
package observability
