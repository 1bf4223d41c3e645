package workflow

import "fmt"

// NodeResult holds the outcome of a single node execution. Exactly one is
// produced per node per run; which fields are populated depends on the kind.
type NodeResult struct {
	Kind  Kind   `json:"type"`
	Query string `json:"query,omitempty"`
	// Response is the primary textual payload: the query text, a generated
	// answer, or the final response depending on the kind.
	Response string `json:"response,omitempty"`
	// Context is the aggregated retrieval context (knowledgeBase nodes).
	Context             string  `json:"context,omitempty"`
	ChunksFound         int     `json:"chunks_found,omitempty"`
	SimilarityThreshold float64 `json:"similarity_threshold,omitempty"`
	Model               string  `json:"model,omitempty"`
	Provider            string  `json:"provider,omitempty"`
	ContextUsed         bool    `json:"context_used,omitempty"`
	WebSearchUsed       bool    `json:"web_search_used,omitempty"`
	// Err is a soft error absorbed into the result; the run continued.
	Err string `json:"error,omitempty"`
}

// resultStore is a write-once result store keyed by node id, preserving
// insertion order so downstream nodes can scan results deterministically.
// It is exclusively owned by one in-flight run.
type resultStore struct {
	order   []string
	results map[string]NodeResult
}

func newResultStore() *resultStore {
	return &resultStore{results: make(map[string]NodeResult)}
}

// put stores a result for a node. Each key may only be written once.
func (s *resultStore) put(nodeID string, r NodeResult) error {
	if _, exists := s.results[nodeID]; exists {
		return fmt.Errorf("workflow: result for node %q already recorded", nodeID)
	}
	s.order = append(s.order, nodeID)
	s.results[nodeID] = r
	return nil
}

// get returns the result recorded for a node.
func (s *resultStore) get(nodeID string) (NodeResult, bool) {
	r, ok := s.results[nodeID]
	return r, ok
}

// inOrder returns all recorded results in insertion order.
func (s *resultStore) inOrder() []NodeResult {
	out := make([]NodeResult, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.results[id])
	}
	return out
}
