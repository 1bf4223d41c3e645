package workflow

import "time"

// Lifecycle actions recorded in the execution trace.
const (
	ActionExecuting = "executing"
	ActionCompleted = "completed"
	ActionFailed    = "failed"
)

// LogEntry is one timestamped lifecycle event for a node. Entries are
// appended when a node starts and updated in place when it finishes.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	NodeID    string    `json:"node_id"`
	NodeKind  Kind      `json:"node_type"`
	Action    string    `json:"action"`
	Result    string    `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// trace accumulates the execution log for a single run. Partial traces are
// a first-class output: the log gathered so far is returned even on abort.
type trace struct {
	entries []LogEntry
}

// begin appends an executing entry for a node and returns its index.
func (t *trace) begin(node Node) int {
	t.entries = append(t.entries, LogEntry{
		Timestamp: time.Now(),
		NodeID:    node.ID,
		NodeKind:  node.Kind,
		Action:    ActionExecuting,
	})
	return len(t.entries) - 1
}

// complete marks the entry at idx as completed.
func (t *trace) complete(idx int) {
	t.entries[idx].Action = ActionCompleted
	t.entries[idx].Result = "success"
}

// fail marks the entry at idx as failed with the given error.
func (t *trace) fail(idx int, err error) {
	t.entries[idx].Action = ActionFailed
	t.entries[idx].Result = "error"
	t.entries[idx].Error = err.Error()
}
