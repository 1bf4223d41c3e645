package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestEngine(r Retriever, g Generator, w WebSearcher) *Engine {
	return NewEngine(r, g, w)
}

func TestEngine_HappyPath(t *testing.T) {
	retriever := &stubRetriever{chunks: []Chunk{{Text: "ctx", Similarity: 0.9}}}
	gen := &stubGenerator{out: GenerateOutput{Response: "X is a thing.", Model: "gpt-3.5-turbo", Provider: "openai"}}
	engine := newTestEngine(retriever, gen, nil)

	outcome := engine.Execute(context.Background(), ragNodes(), ragEdges(), "What is X?", nil)

	if !outcome.Success {
		t.Fatalf("expected success, got error %q", outcome.Error)
	}
	if outcome.Response != "X is a thing." {
		t.Fatalf("unexpected response: %q", outcome.Response)
	}
	if !outcome.ContextUsed {
		t.Fatal("expected context_used")
	}

	// One executing->completed entry per scheduled node, in order.
	if len(outcome.Logs) != 4 {
		t.Fatalf("expected 4 log entries, got %d", len(outcome.Logs))
	}
	wantIDs := []string{"1", "2", "3", "4"}
	for i, entry := range outcome.Logs {
		if entry.NodeID != wantIDs[i] {
			t.Fatalf("unexpected log order: %+v", outcome.Logs)
		}
		if entry.Action != ActionCompleted {
			t.Fatalf("expected completed, got %s for node %s", entry.Action, entry.NodeID)
		}
	}
}

func TestEngine_EmptyRetrievalStillSucceeds(t *testing.T) {
	gen := &stubGenerator{out: GenerateOutput{Response: "best effort"}}
	engine := newTestEngine(&stubRetriever{}, gen, nil)

	outcome := engine.Execute(context.Background(), ragNodes(), ragEdges(), "What is X?", nil)

	if !outcome.Success {
		t.Fatalf("expected success, got %q", outcome.Error)
	}
	if gen.input.Context != "" {
		t.Fatalf("expected no context, got %q", gen.input.Context)
	}
	if outcome.ContextUsed {
		t.Fatal("context_used should be false with no chunks")
	}
}

func TestEngine_GenerationSoftFailureStillSucceeds(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream 500")}
	engine := newTestEngine(&stubRetriever{}, gen, nil)

	outcome := engine.Execute(context.Background(), ragNodes(), ragEdges(), "q", nil)

	if !outcome.Success {
		t.Fatalf("soft failure should not abort the run: %q", outcome.Error)
	}
	if !strings.Contains(outcome.Response, "Error generating response: upstream 500") {
		t.Fatalf("expected error-bearing response, got %q", outcome.Response)
	}
}

func TestEngine_ValidationFailure(t *testing.T) {
	engine := newTestEngine(&stubRetriever{}, &stubGenerator{}, nil)

	outcome := engine.Execute(context.Background(), nil, nil, "q", nil)

	if outcome.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(outcome.Error, "no nodes") {
		t.Fatalf("unexpected error: %q", outcome.Error)
	}
	if len(outcome.Logs) != 0 {
		t.Fatalf("no nodes should have executed, got %d entries", len(outcome.Logs))
	}
}

func TestEngine_ReferentialIntegrityFailure(t *testing.T) {
	nodes := ragNodes()
	edges := append(ragEdges()[:2:2], Edge{Source: "3", Target: "ghost"})
	engine := newTestEngine(&stubRetriever{}, &stubGenerator{}, nil)

	outcome := engine.Execute(context.Background(), nodes, edges, "q", nil)

	if outcome.Success || !strings.Contains(outcome.Error, "unknown node") {
		t.Fatalf("expected referential-integrity failure, got %+v", outcome)
	}
}

func TestEngine_UnknownKindAbortsWithPartialTrace(t *testing.T) {
	nodes := []Node{
		{ID: "1", Kind: KindUserQuery},
		{ID: "2", Kind: "mystery"},
		{ID: "3", Kind: KindLLMEngine},
		{ID: "4", Kind: KindOutput},
	}
	engine := newTestEngine(&stubRetriever{}, &stubGenerator{}, nil)

	outcome := engine.Execute(context.Background(), nodes, ragEdges(), "q", nil)

	if outcome.Success {
		t.Fatal("expected fatal failure")
	}
	if !strings.Contains(outcome.Error, "unknown node type") {
		t.Fatalf("unexpected error: %q", outcome.Error)
	}
	// Node 1 completed, node 2 failed, nodes 3 and 4 never started.
	if len(outcome.Logs) != 2 {
		t.Fatalf("expected partial trace of 2 entries, got %d", len(outcome.Logs))
	}
	if outcome.Logs[0].Action != ActionCompleted || outcome.Logs[1].Action != ActionFailed {
		t.Fatalf("unexpected trace: %+v", outcome.Logs)
	}
	if outcome.Logs[1].Error == "" {
		t.Fatal("failed entry should carry the error message")
	}
}

func TestEngine_DeterministicAcrossRuns(t *testing.T) {
	gen := &stubGenerator{out: GenerateOutput{Response: "stable"}}
	engine := newTestEngine(&stubRetriever{}, gen, nil)

	first := engine.Execute(context.Background(), ragNodes(), ragEdges(), "q", nil)
	second := engine.Execute(context.Background(), ragNodes(), ragEdges(), "q", nil)

	if len(first.Logs) != len(second.Logs) {
		t.Fatalf("log lengths differ: %d vs %d", len(first.Logs), len(second.Logs))
	}
	for i := range first.Logs {
		if first.Logs[i].NodeID != second.Logs[i].NodeID || first.Logs[i].NodeKind != second.Logs[i].NodeKind {
			t.Fatalf("node sequence differs at %d: %+v vs %+v", i, first.Logs[i], second.Logs[i])
		}
	}
}

func TestEngine_DocumentScopePassedToRetriever(t *testing.T) {
	retriever := &stubRetriever{}
	engine := newTestEngine(retriever, &stubGenerator{out: GenerateOutput{Response: "ok"}}, nil)

	docID := int64(42)
	outcome := engine.Execute(context.Background(), ragNodes(), ragEdges(), "q", &docID)

	if !outcome.Success {
		t.Fatalf("unexpected failure: %q", outcome.Error)
	}
	if retriever.gotDocID == nil || *retriever.gotDocID != 42 {
		t.Fatalf("expected document scope 42, got %v", retriever.gotDocID)
	}
}

func TestEngine_CancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := newTestEngine(&stubRetriever{}, &stubGenerator{}, nil)
	outcome := engine.Execute(ctx, ragNodes(), ragEdges(), "q", nil)

	if outcome.Success {
		t.Fatal("expected failure on cancelled context")
	}
}

func TestEngine_MeasuresExecutionTime(t *testing.T) {
	engine := newTestEngine(&stubRetriever{}, &stubGenerator{out: GenerateOutput{Response: "ok"}}, nil)
	outcome := engine.Execute(context.Background(), ragNodes(), ragEdges(), "q", nil)
	if outcome.ExecutionTime <= 0 {
		t.Fatalf("expected positive execution time, got %s", outcome.ExecutionTime)
	}
}
