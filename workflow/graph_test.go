package workflow

import (
	"strings"
	"testing"
)

func TestBuildGraph_UnknownEdgeEndpoint(t *testing.T) {
	nodes := []Node{
		{ID: "1", Kind: KindUserQuery},
		{ID: "2", Kind: KindOutput},
	}
	edges := []Edge{{Source: "1", Target: "missing"}}

	_, err := BuildGraph(nodes, edges)
	if err == nil || !strings.Contains(err.Error(), `unknown node "missing"`) {
		t.Fatalf("expected unknown node error, got %v", err)
	}
}

func TestBuildGraph_DuplicateNodeID(t *testing.T) {
	nodes := []Node{
		{ID: "1", Kind: KindUserQuery},
		{ID: "1", Kind: KindOutput},
	}
	if _, err := BuildGraph(nodes, nil); err == nil {
		t.Fatal("expected duplicate id error")
	}
}

func TestBuildGraph_RecordsFirstOutputNode(t *testing.T) {
	nodes := []Node{
		{ID: "a", Kind: KindUserQuery},
		{ID: "b", Kind: KindOutput},
		{ID: "c", Kind: KindOutput},
	}
	g, err := BuildGraph(nodes, []Edge{{Source: "a", Target: "b"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.OutputID() != "b" {
		t.Fatalf("expected b, got %s", g.OutputID())
	}
}

func TestTopoSort_LinearChain(t *testing.T) {
	g, err := BuildGraph(ragNodes(), ragEdges())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order, err := g.TopoSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"1", "2", "3", "4"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i, id := range want {
		if order[i] != id {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestTopoSort_DependenciesPrecedeDependents(t *testing.T) {
	nodes := []Node{
		{ID: "q", Kind: KindUserQuery},
		{ID: "kb1", Kind: KindKnowledgeBase},
		{ID: "kb2", Kind: KindKnowledgeBase},
		{ID: "llm", Kind: KindLLMEngine},
		{ID: "out", Kind: KindOutput},
	}
	edges := []Edge{
		{Source: "q", Target: "kb1"},
		{Source: "q", Target: "kb2"},
		{Source: "kb1", Target: "llm"},
		{Source: "kb2", Target: "llm"},
	}

	g, err := BuildGraph(nodes, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, err := g.TopoSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range edges {
		if pos[e.Source] >= pos[e.Target] {
			t.Fatalf("%s should precede %s in %v", e.Source, e.Target, order)
		}
	}
}

func TestTopoSort_TieBreakIsDeclarationOrder(t *testing.T) {
	// q, out, and both kb nodes are ready at the same step once q runs;
	// earlier-declared nodes must win ties.
	nodes := []Node{
		{ID: "q", Kind: KindUserQuery},
		{ID: "b", Kind: KindKnowledgeBase},
		{ID: "a", Kind: KindKnowledgeBase},
		{ID: "out", Kind: KindOutput},
	}
	edges := []Edge{
		{Source: "q", Target: "b"},
		{Source: "q", Target: "a"},
		{Source: "b", Target: "out"},
	}

	g, err := BuildGraph(nodes, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	first, err := g.TopoSort()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first[0] != "q" || first[1] != "b" || first[2] != "a" {
		t.Fatalf("unexpected order: %v", first)
	}

	// Determinism: repeated sorts yield the identical order.
	for range 5 {
		again, err := g.TopoSort()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for i := range first {
			if again[i] != first[i] {
				t.Fatalf("expected stable order %v, got %v", first, again)
			}
		}
	}
}

func TestTopoSort_CycleDetected(t *testing.T) {
	nodes := []Node{
		{ID: "1", Kind: KindUserQuery},
		{ID: "2", Kind: KindLLMEngine},
		{ID: "3", Kind: KindOutput},
	}
	edges := []Edge{
		{Source: "1", Target: "2"},
		{Source: "2", Target: "1"},
	}

	g, err := BuildGraph(nodes, edges)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := g.TopoSort(); err == nil || !strings.Contains(err.Error(), "cycles") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}
