package workflow

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/flowstack/observability"
)

// installTestTracer routes spans into an in-memory exporter for the duration
// of the test.
func installTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })
	return exporter
}

func spanAttr(span tracetest.SpanStub, key string) (string, bool) {
	for _, attr := range span.Attributes {
		if string(attr.Key) == key {
			return attr.Value.AsString(), true
		}
	}
	return "", false
}

func TestTracing_SpanPerNode(t *testing.T) {
	exporter := installTestTracer(t)

	gen := &stubGenerator{out: GenerateOutput{Response: "ok"}}
	engine := NewEngine(&stubRetriever{}, gen, nil, WithTracing("workflow.node"))

	outcome := engine.Execute(context.Background(), ragNodes(), ragEdges(), "q", nil)
	if !outcome.Success {
		t.Fatalf("unexpected failure: %q", outcome.Error)
	}

	spans := exporter.GetSpans()
	if len(spans) != 4 {
		t.Fatalf("expected one span per node, got %d", len(spans))
	}
	if spans[0].Name != "workflow.node.1" {
		t.Fatalf("unexpected span name: %s", spans[0].Name)
	}
	if kind, ok := spanAttr(spans[0], "workflow.node_type"); !ok || kind != string(KindUserQuery) {
		t.Fatalf("expected node_type attribute, got %q", kind)
	}
}

func TestTracing_TagsSpansWithRequestOperation(t *testing.T) {
	exporter := installTestTracer(t)

	gen := &stubGenerator{out: GenerateOutput{Response: "ok"}}
	engine := NewEngine(&stubRetriever{}, gen, nil, WithTracing("workflow.node"))

	// The request-id middleware seeds this before handing the request on.
	oc := observability.NewOperationContext("flowstack", "/api/workflows/:id/execute", "req-123")
	ctx := observability.WithOperationContext(context.Background(), oc)

	outcome := engine.Execute(ctx, ragNodes(), ragEdges(), "q", nil)
	if !outcome.Success {
		t.Fatalf("unexpected failure: %q", outcome.Error)
	}

	for _, span := range exporter.GetSpans() {
		if got, ok := spanAttr(span, observability.AttrRequestID); !ok || got != "req-123" {
			t.Fatalf("span %s should carry the request id, got %q", span.Name, got)
		}
		if got, ok := spanAttr(span, observability.AttrOperationName); !ok || got != "/api/workflows/:id/execute" {
			t.Fatalf("span %s should carry the operation name, got %q", span.Name, got)
		}
	}
}

func TestTracing_NoRequestContextLeavesSpansUntagged(t *testing.T) {
	exporter := installTestTracer(t)

	gen := &stubGenerator{out: GenerateOutput{Response: "ok"}}
	engine := NewEngine(&stubRetriever{}, gen, nil, WithTracing("workflow.node"))

	if outcome := engine.Execute(context.Background(), ragNodes(), ragEdges(), "q", nil); !outcome.Success {
		t.Fatalf("unexpected failure: %q", outcome.Error)
	}

	for _, span := range exporter.GetSpans() {
		if _, ok := spanAttr(span, observability.AttrRequestID); ok {
			t.Fatalf("span %s should not carry a request id", span.Name)
		}
	}
}
