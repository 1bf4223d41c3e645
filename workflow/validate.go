package workflow

import "fmt"

// Validate checks a workflow description before execution. It returns the
// first violated rule as a human-readable error, or nil for a valid graph.
//
// The edge-count check is a cheap heuristic for obviously malformed input;
// the scheduler's order-length check is the authority on cycle detection.
func Validate(nodes []Node, edges []Edge) error {
	if len(nodes) == 0 {
		return fmt.Errorf("no nodes found in workflow")
	}
	if len(edges) == 0 {
		return fmt.Errorf("no edges found in workflow")
	}

	kinds := make(map[Kind]bool, len(nodes))
	for _, n := range nodes {
		kinds[n.Kind] = true
	}
	for _, required := range []Kind{KindUserQuery, KindOutput} {
		if !kinds[required] {
			return fmt.Errorf("required node type %q not found", required)
		}
	}

	if len(edges) >= len(nodes) {
		return fmt.Errorf("workflow may contain cycles")
	}

	return nil
}
