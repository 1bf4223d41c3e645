package workflow

import (
	"strings"
	"testing"
)

func ragNodes() []Node {
	return []Node{
		{ID: "1", Kind: KindUserQuery},
		{ID: "2", Kind: KindKnowledgeBase},
		{ID: "3", Kind: KindLLMEngine},
		{ID: "4", Kind: KindOutput},
	}
}

func ragEdges() []Edge {
	return []Edge{
		{Source: "1", Target: "2"},
		{Source: "2", Target: "3"},
		{Source: "3", Target: "4"},
	}
}

func TestValidate_OK(t *testing.T) {
	if err := Validate(ragNodes(), ragEdges()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_NoNodes(t *testing.T) {
	err := Validate(nil, ragEdges())
	if err == nil || !strings.Contains(err.Error(), "no nodes") {
		t.Fatalf("expected no-nodes error, got %v", err)
	}
}

func TestValidate_NoEdges(t *testing.T) {
	err := Validate(ragNodes(), nil)
	if err == nil || !strings.Contains(err.Error(), "no edges") {
		t.Fatalf("expected no-edges error, got %v", err)
	}
}

func TestValidate_MissingRequiredKinds(t *testing.T) {
	nodes := []Node{
		{ID: "1", Kind: KindKnowledgeBase},
		{ID: "2", Kind: KindLLMEngine},
		{ID: "3", Kind: KindOutput},
	}
	edges := []Edge{{Source: "1", Target: "2"}, {Source: "2", Target: "3"}}

	err := Validate(nodes, edges)
	if err == nil || !strings.Contains(err.Error(), string(KindUserQuery)) {
		t.Fatalf("expected missing userQuery error, got %v", err)
	}

	nodes = []Node{
		{ID: "1", Kind: KindUserQuery},
		{ID: "2", Kind: KindLLMEngine},
	}
	edges = []Edge{{Source: "1", Target: "2"}}

	err = Validate(nodes, edges)
	if err == nil || !strings.Contains(err.Error(), string(KindOutput)) {
		t.Fatalf("expected missing output error, got %v", err)
	}
}

func TestValidate_EdgeCountHeuristic(t *testing.T) {
	nodes := []Node{
		{ID: "1", Kind: KindUserQuery},
		{ID: "2", Kind: KindOutput},
	}
	edges := []Edge{
		{Source: "1", Target: "2"},
		{Source: "2", Target: "1"},
	}

	err := Validate(nodes, edges)
	if err == nil || !strings.Contains(err.Error(), "cycles") {
		t.Fatalf("expected heuristic cycle error, got %v", err)
	}
}
