package workflow

import "fmt"

// Graph is the per-run execution graph derived from a node/edge description.
// It keeps the declaration order of nodes so scheduling is deterministic.
type Graph struct {
	nodes      map[string]Node
	order      []string
	deps       map[string][]string
	dependents map[string][]string
	outputID   string
}

// BuildGraph derives dependency and dependent adjacency from nodes and edges.
// Every edge endpoint must reference a declared node; duplicated node ids are
// rejected. The first output-kind node in declaration order is recorded as
// the terminal node of the run.
func BuildGraph(nodes []Node, edges []Edge) (*Graph, error) {
	g := &Graph{
		nodes:      make(map[string]Node, len(nodes)),
		order:      make([]string, 0, len(nodes)),
		deps:       make(map[string][]string),
		dependents: make(map[string][]string),
	}

	for _, n := range nodes {
		if _, exists := g.nodes[n.ID]; exists {
			return nil, fmt.Errorf("workflow: duplicate node id %q", n.ID)
		}
		g.nodes[n.ID] = n
		g.order = append(g.order, n.ID)
		if g.outputID == "" && n.Kind == KindOutput {
			g.outputID = n.ID
		}
	}

	for _, e := range edges {
		if _, ok := g.nodes[e.Source]; !ok {
			return nil, fmt.Errorf("workflow: edge references unknown node %q", e.Source)
		}
		if _, ok := g.nodes[e.Target]; !ok {
			return nil, fmt.Errorf("workflow: edge references unknown node %q", e.Target)
		}
		g.dependents[e.Source] = append(g.dependents[e.Source], e.Target)
		g.deps[e.Target] = append(g.deps[e.Target], e.Source)
	}

	return g, nil
}

// Node returns the node declared with the given id.
func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Len returns the number of declared nodes.
func (g *Graph) Len() int { return len(g.order) }

// OutputID returns the id of the terminal output node, or "" if none.
func (g *Graph) OutputID() string { return g.outputID }

// TopoSort produces a total execution order using Kahn's algorithm. The ready
// queue is seeded with zero-in-degree nodes in declaration order and drained
// FIFO, so ties between ready nodes always resolve to the earlier-declared
// one. Returns an error if the graph contains a cycle.
func (g *Graph) TopoSort() ([]string, error) {
	inDegree := make(map[string]int, len(g.order))
	var queue []string
	for _, id := range g.order {
		inDegree[id] = len(g.deps[id])
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(g.order))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)

		for _, dep := range g.dependents[id] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(order) != len(g.order) {
		return nil, fmt.Errorf("workflow contains cycles: processed %d of %d nodes", len(order), len(g.order))
	}

	return order, nil
}
