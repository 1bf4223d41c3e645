// Package observability carries the OpenTelemetry plumbing for flowstack:
// OTLP tracer and meter setup, span helpers used by the workflow engine's
// per-node wrappers, the operation-context handoff from the HTTP layer into
// engine spans, and the health types behind the /health endpoint.
//
// Telemetry setup at startup:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("flowstack"))
//	defer tp.Shutdown(ctx)
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("flowstack"))
//	defer mp.Shutdown(ctx)
//
// Per-node instrumentation in the engine:
//
//	ctx, span := observability.StartSpan(ctx, "workflow.node.3")
//	defer span.End()
//	observability.SetSpanAttribute(ctx, "workflow.node_type", "llmEngine")
package observability
