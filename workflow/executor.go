package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Chunk is one retrieved document fragment with its similarity score.
type Chunk struct {
	Text       string
	Similarity float64
	Metadata   map[string]any
}

// Retriever searches indexed document content for chunks similar to a query.
type Retriever interface {
	Search(ctx context.Context, query string, documentID *int64, topK int, threshold float64) ([]Chunk, error)
}

// GenerateInput carries a generation request to the LLM collaborator.
type GenerateInput struct {
	Query        string
	Context      string
	Provider     string
	Model        string
	Temperature  float64
	MaxTokens    int
	SystemPrompt string
}

// GenerateOutput is the LLM collaborator's answer.
type GenerateOutput struct {
	Response string
	Model    string
	Provider string
}

// Generator produces a model response for a query with optional context.
type Generator interface {
	Generate(ctx context.Context, in GenerateInput) (GenerateOutput, error)
}

// WebSearcher returns formatted web results relevant to a query. It never
// fails: provider errors degrade to an empty string.
type WebSearcher interface {
	RelevantContext(ctx context.Context, query string, maxResults int) string
}

// nodeExecutor dispatches a node to its kind-specific behavior.
type nodeExecutor interface {
	Execute(ctx context.Context, node Node, run *runState) (NodeResult, error)
}

// runState is the per-run context handed to each node behavior.
type runState struct {
	query      string
	documentID *int64
	results    *resultStore
}

// executor implements the four node kind behaviors against the collaborator
// interfaces. Unknown kinds are a fatal configuration error.
type executor struct {
	retriever Retriever
	generator Generator
	searcher  WebSearcher
	// maxSearchResults bounds web search augmentation per generation node.
	maxSearchResults int
}

func (e *executor) Execute(ctx context.Context, node Node, run *runState) (NodeResult, error) {
	switch node.Kind {
	case KindUserQuery:
		return e.executeUserQuery(run), nil
	case KindKnowledgeBase:
		return e.executeKnowledgeBase(ctx, node, run)
	case KindLLMEngine:
		return e.executeLLMEngine(ctx, node, run)
	case KindOutput:
		return e.executeOutput(run), nil
	default:
		return NodeResult{}, fmt.Errorf("unknown node type: %s", node.Kind)
	}
}

// executeUserQuery passes the caller's query through unchanged.
func (e *executor) executeUserQuery(run *runState) NodeResult {
	return NodeResult{
		Kind:     KindUserQuery,
		Query:    run.query,
		Response: run.query,
	}
}

// executeKnowledgeBase retrieves similar chunks and formats them into a
// context block. Retrieval failures degrade to an empty context instead of
// aborting the run; cancellation is still fatal.
func (e *executor) executeKnowledgeBase(ctx context.Context, node Node, run *runState) (NodeResult, error) {
	threshold := floatOption(node.Data, "similarityThreshold", DefaultSimilarityThreshold)
	topK := intOption(node.Data, "topK", DefaultTopK)

	chunks, err := e.retriever.Search(ctx, run.query, run.documentID, topK, threshold)
	if err != nil {
		if isCancellation(err) {
			return NodeResult{}, err
		}
		return NodeResult{
			Kind:        KindKnowledgeBase,
			Query:       run.query,
			Context:     "",
			ChunksFound: 0,
			Err:         err.Error(),
		}, nil
	}

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, fmt.Sprintf("Document chunk (similarity: %.2f):\n%s", chunk.Similarity, chunk.Text))
	}

	return NodeResult{
		Kind:                KindKnowledgeBase,
		Query:               run.query,
		Context:             strings.Join(parts, "\n\n"),
		ChunksFound:         len(chunks),
		SimilarityThreshold: threshold,
	}, nil
}

// executeLLMEngine aggregates upstream retrieval context (plus optional web
// search results) and calls the generation collaborator. Generation failures
// degrade to an error-bearing response so a trace is still produced.
func (e *executor) executeLLMEngine(ctx context.Context, node Node, run *runState) (NodeResult, error) {
	provider := stringOption(node.Data, "provider", DefaultProvider)
	model := stringOption(node.Data, "model", "")
	temperature := floatOption(node.Data, "temperature", DefaultTemperature)
	maxTokens := intOption(node.Data, "maxTokens", DefaultMaxTokens)
	customPrompt := stringOption(node.Data, "customPrompt", "")
	useWebSearch := boolOption(node.Data, "useWebSearch", false)

	var contextParts []string
	for _, result := range run.results.inOrder() {
		if result.Kind == KindKnowledgeBase && result.Context != "" {
			contextParts = append(contextParts, "Document Context:\n"+result.Context)
		}
	}

	if useWebSearch && e.searcher != nil {
		if webContext := e.searcher.RelevantContext(ctx, run.query, e.maxSearchResults); webContext != "" {
			contextParts = append(contextParts, "Web Search Results:\n"+webContext)
		}
	}

	combined := strings.Join(contextParts, "\n\n")

	out, err := e.generator.Generate(ctx, GenerateInput{
		Query:        run.query,
		Context:      combined,
		Provider:     provider,
		Model:        model,
		Temperature:  temperature,
		MaxTokens:    maxTokens,
		SystemPrompt: customPrompt,
	})
	if err != nil {
		if isCancellation(err) {
			return NodeResult{}, err
		}
		return NodeResult{
			Kind:     KindLLMEngine,
			Query:    run.query,
			Response: fmt.Sprintf("Error generating response: %s", err),
			Err:      err.Error(),
		}, nil
	}

	return NodeResult{
		Kind:          KindLLMEngine,
		Query:         run.query,
		Response:      out.Response,
		Model:         out.Model,
		Provider:      out.Provider,
		ContextUsed:   combined != "",
		WebSearchUsed: useWebSearch,
	}, nil
}

// executeOutput re-exposes the first generation result as the workflow's
// final output. A workflow authored without a generation step yields a
// placeholder response with an embedded error, not a fatal failure.
func (e *executor) executeOutput(run *runState) NodeResult {
	for _, result := range run.results.inOrder() {
		if result.Kind == KindLLMEngine {
			return NodeResult{
				Kind:        KindOutput,
				Response:    result.Response,
				ContextUsed: result.ContextUsed,
				Model:       result.Model,
				Provider:    result.Provider,
			}
		}
	}

	return NodeResult{
		Kind:     KindOutput,
		Response: "No LLM response available",
		Err:      "LLM engine not found in workflow",
	}
}

// isCancellation reports whether err stems from context cancellation.
// Collaborator-level cancellations abort the run instead of degrading.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
