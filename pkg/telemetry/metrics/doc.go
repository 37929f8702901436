// Package metrics provides Prometheus instrumentation for the strata
// load pipeline.
//
// LoaderMetrics satisfies the loader.Observer interface, so wiring it in
// is one field:
//
//	m := metrics.NewLoaderMetrics("strata", nil)
//	cfg, err := loader.Load(ctx, "app.json", &loader.Options{Observer: m})
//
// The collector keeps its own registry by default; Handler exposes it
// over HTTP in the Prometheus text format.
package metrics
