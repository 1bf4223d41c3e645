// Package workflow implements the graph-execution engine behind flowstack.
//
// A workflow is a small directed graph of typed nodes: a user query source,
// optional knowledge-base retrieval steps, an LLM generation step, and an
// output step. The engine validates the node/edge description, derives a
// deterministic execution order with Kahn's algorithm, dispatches each node
// to its kind-specific behavior, and returns a single response together with
// a structured execution trace.
//
// Retrieval and generation collaborators may fail without aborting the run:
// their errors are absorbed into the node result so downstream nodes still
// receive something to report. Structural problems (validation failures,
// cycles, unknown node kinds) are fatal and abort the remaining schedule.
package workflow
