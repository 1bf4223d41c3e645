package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/flowstack/logger"
)

// Outcome is the result of one workflow run. It is constructed fresh per
// invocation and never persisted by the engine.
type Outcome struct {
	Success       bool          `json:"success"`
	Response      string        `json:"response,omitempty"`
	ContextUsed   bool          `json:"context_used"`
	ExecutionTime time.Duration `json:"execution_time"`
	Logs          []LogEntry    `json:"logs"`
	Error         string        `json:"error,omitempty"`
}

// Engine orchestrates workflow runs: validate, build the graph, schedule,
// execute nodes in order, and collect the terminal output. Engines are
// stateless between runs; each run owns its own result store and trace.
type Engine struct {
	exec nodeExecutor
	log  *logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithTracing wraps node execution with OpenTelemetry spans named
// "{prefix}.{nodeID}".
func WithTracing(prefix string) Option {
	return func(e *Engine) { e.exec = &tracingExecutor{inner: e.exec, prefix: prefix} }
}

// WithMetrics wraps node execution with metric recording.
func WithMetrics(metrics *MetricsRecorder) Option {
	return func(e *Engine) { e.exec = &metricsExecutor{inner: e.exec, metrics: metrics} }
}

// WithMaxSearchResults bounds web search augmentation per generation node.
func WithMaxSearchResults(n int) Option {
	return func(e *Engine) {
		if base, ok := e.exec.(*executor); ok && n > 0 {
			base.maxSearchResults = n
		}
	}
}

// NewEngine creates a workflow engine over the given collaborators.
// Options are applied in order, so later wrappers run outermost.
func NewEngine(retriever Retriever, generator Generator, searcher WebSearcher, opts ...Option) *Engine {
	e := &Engine{
		exec: &executor{
			retriever:        retriever,
			generator:        generator,
			searcher:         searcher,
			maxSearchResults: DefaultTopK,
		},
		log: logger.WithComponent("workflow"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs a workflow once for the given query. Nodes run strictly
// sequentially in topological order; the log accumulated so far is returned
// even when the run aborts.
func (e *Engine) Execute(ctx context.Context, nodes []Node, edges []Edge, query string, documentID *int64) Outcome {
	start := time.Now()
	tr := &trace{}

	fail := func(err error) Outcome {
		e.log.Error("workflow execution failed", logger.Fields(logger.FieldError, err.Error()))
		return Outcome{
			Success:       false,
			Error:         err.Error(),
			ExecutionTime: time.Since(start),
			Logs:          tr.entries,
		}
	}

	if err := Validate(nodes, edges); err != nil {
		return fail(err)
	}

	graph, err := BuildGraph(nodes, edges)
	if err != nil {
		return fail(err)
	}

	order, err := graph.TopoSort()
	if err != nil {
		return fail(err)
	}

	run := &runState{
		query:      query,
		documentID: documentID,
		results:    newResultStore(),
	}

	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}

		node, _ := graph.Node(id)
		idx := tr.begin(node)

		result, err := e.exec.Execute(ctx, node, run)
		if err != nil {
			tr.fail(idx, err)
			return fail(err)
		}
		if err := run.results.put(id, result); err != nil {
			tr.fail(idx, err)
			return fail(err)
		}
		tr.complete(idx)
	}

	output, ok := run.results.get(graph.OutputID())
	if !ok {
		return fail(fmt.Errorf("no output node found or output node failed"))
	}

	elapsed := time.Since(start)
	e.log.Info("workflow completed", logger.Fields(
		"nodes", len(order),
		logger.FieldDuration, elapsed.Milliseconds(),
		"context_used", output.ContextUsed,
	))

	return Outcome{
		Success:       true,
		Response:      output.Response,
		ContextUsed:   output.ContextUsed,
		ExecutionTime: elapsed,
		Logs:          tr.entries,
	}
}
