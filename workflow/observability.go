package workflow

import (
	"context"
	"time"

	"github.com/kbukum/flowstack/observability"
)

// MetricsRecorder records per-node execution metrics.
type MetricsRecorder struct {
	metrics *observability.Metrics
	service string
}

// NewMetricsRecorder creates a recorder over the given metric instruments.
func NewMetricsRecorder(metrics *observability.Metrics, service string) *MetricsRecorder {
	return &MetricsRecorder{metrics: metrics, service: service}
}

// tracingExecutor wraps a nodeExecutor with OpenTelemetry span creation.
// Each node execution creates a span named "{prefix}.{nodeID}".
type tracingExecutor struct {
	inner  nodeExecutor
	prefix string
}

func (t *tracingExecutor) Execute(ctx context.Context, node Node, run *runState) (NodeResult, error) {
	ctx, span := observability.StartSpan(ctx, t.prefix+"."+node.ID)
	defer span.End()

	observability.SetSpanAttribute(ctx, "workflow.node", node.ID)
	observability.SetSpanAttribute(ctx, "workflow.node_type", string(node.Kind))

	// Tag node spans with the request that triggered the run, so a trace can
	// be joined back to the HTTP request the middleware stamped.
	if oc := observability.OperationContextFromContext(ctx); oc != nil {
		if oc.RequestID != "" {
			observability.SetSpanAttribute(ctx, observability.AttrRequestID, oc.RequestID)
		}
		if oc.Operation != "" {
			observability.SetSpanAttribute(ctx, observability.AttrOperationName, oc.Operation)
		}
	}

	result, err := t.inner.Execute(ctx, node, run)
	if err != nil {
		observability.SetSpanError(ctx, err)
	} else if result.Err != "" {
		observability.SetSpanAttribute(ctx, "workflow.soft_error", result.Err)
	}

	return result, err
}

// metricsExecutor wraps a nodeExecutor with metric recording. Records
// operation count, duration, and errors per node kind.
type metricsExecutor struct {
	inner   nodeExecutor
	metrics *MetricsRecorder
}

func (m *metricsExecutor) Execute(ctx context.Context, node Node, run *runState) (NodeResult, error) {
	start := time.Now()
	result, err := m.inner.Execute(ctx, node, run)
	duration := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
		m.metrics.metrics.RecordError(ctx, "execute", string(node.Kind))
	} else if result.Err != "" {
		status = "degraded"
	}
	m.metrics.metrics.RecordOperation(ctx, m.metrics.service, "workflow.node."+string(node.Kind), status, duration)

	return result, err
}
