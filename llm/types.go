package llm

// GenerateRequest holds parameters for a text generation call.
type GenerateRequest struct {
	// Query is the user's question.
	Query string `json:"query"`
	// Context is optional retrieved context prepended to the question.
	Context string `json:"context,omitempty"`
	// Model overrides the provider's configured default model.
	Model string `json:"model,omitempty"`
	// Temperature controls sampling randomness.
	Temperature float64 `json:"temperature,omitempty"`
	// MaxTokens bounds the generated output length.
	MaxTokens int `json:"max_tokens,omitempty"`
	// SystemPrompt overrides the default system prompt.
	SystemPrompt string `json:"system_prompt,omitempty"`
}

// GenerateResponse holds the result of a generation call.
type GenerateResponse struct {
	// Response is the generated answer text.
	Response string `json:"response"`
	// Model is the model that produced the answer.
	Model string `json:"model"`
	// Provider is the backend that served the request.
	Provider string `json:"provider"`
	// Usage contains token accounting, when the backend reports it.
	Usage *Usage `json:"usage,omitempty"`
}

// Usage holds token accounting for a generation call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// DefaultSystemPrompt is used when a request carries no custom prompt.
const DefaultSystemPrompt = "You are a helpful AI assistant. Provide accurate and helpful responses."

// UserPrompt renders the user-facing prompt, folding in retrieved context
// when present.
func (r *GenerateRequest) UserPrompt() string {
	if r.Context != "" {
		return "Context: " + r.Context + "\n\nQuestion: " + r.Query
	}
	return r.Query
}
