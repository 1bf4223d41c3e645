package websearch

import (
	"fmt"
	"strings"
)

// Result is a single web search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
	Source  string `json:"source"`
}

// FormatResults renders results as a numbered context block for an LLM
// prompt. Returns "" for an empty result list.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for i, r := range results {
		parts = append(parts, fmt.Sprintf("%d. %s\n   URL: %s\n   Summary: %s\n", i+1, r.Title, r.Link, r.Snippet))
	}
	return strings.Join(parts, "\n")
}
