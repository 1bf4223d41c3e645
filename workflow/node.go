package workflow

// Kind identifies a node's behavior.
type Kind string

// The closed set of node kinds.
const (
	KindUserQuery     Kind = "userQuery"
	KindKnowledgeBase Kind = "knowledgeBase"
	KindLLMEngine     Kind = "llmEngine"
	KindOutput        Kind = "output"
)

// Valid reports whether k is a known node kind.
func (k Kind) Valid() bool {
	switch k {
	case KindUserQuery, KindKnowledgeBase, KindLLMEngine, KindOutput:
		return true
	}
	return false
}

// Node is a single step in a workflow graph. Nodes are immutable inputs to
// an execution; Data carries kind-specific options with unknown keys ignored.
type Node struct {
	ID   string         `json:"id"`
	Kind Kind           `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// Edge is a dependency: Target depends on Source.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Configuration defaults for node options.
const (
	DefaultSimilarityThreshold = 0.7
	DefaultTopK                = 5
	DefaultProvider            = "openai"
	DefaultTemperature         = 0.7
	DefaultMaxTokens           = 1000
)

// floatOption reads a float option from node data, falling back to def.
// JSON decoding yields float64; ints are accepted for hand-built maps.
func floatOption(data map[string]any, key string, def float64) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

// intOption reads an integer option from node data, falling back to def.
func intOption(data map[string]any, key string, def int) int {
	switch v := data[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return def
	}
}

// stringOption reads a string option from node data, falling back to def.
func stringOption(data map[string]any, key string, def string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return def
}

// boolOption reads a boolean option from node data, falling back to def.
func boolOption(data map[string]any, key string, def bool) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return def
}
