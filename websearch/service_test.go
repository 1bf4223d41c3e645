package websearch

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeProvider struct {
	name        string
	results     []Result
	err         error
	unavailable bool
	calls       int
}

func (f *fakeProvider) Name() string                       { return f.name }
func (f *fakeProvider) IsAvailable(_ context.Context) bool { return !f.unavailable }

func (f *fakeProvider) Search(_ context.Context, _ string, _ int) ([]Result, error) {
	f.calls++
	return f.results, f.err
}

func hits(source string, n int) []Result {
	out := make([]Result, n)
	for i := range out {
		out[i] = Result{Title: "t", Snippet: "s", Link: "https://example.com", Source: source}
	}
	return out
}

func TestSearchWeb_UnknownProvider(t *testing.T) {
	svc := NewService(map[string]Provider{}, nil)
	_, err := svc.SearchWeb(context.Background(), "q", "bing", 5)
	if err == nil || !strings.Contains(err.Error(), "unsupported search provider") {
		t.Fatalf("expected unsupported provider error, got %v", err)
	}
}

func TestSearchWeb_RoutesToProvider(t *testing.T) {
	sp := &fakeProvider{name: "serpapi", results: hits("SerpAPI", 2)}
	svc := NewService(map[string]Provider{"serpapi": sp}, []string{"serpapi"})

	results, err := svc.SearchWeb(context.Background(), "q", "serpapi", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestSearchAll_FanOutCapturesPerProviderFailure(t *testing.T) {
	sp := &fakeProvider{name: "serpapi", err: errors.New("quota exceeded")}
	br := &fakeProvider{name: "brave", results: hits("Brave Search", 3)}
	svc := NewService(map[string]Provider{"serpapi": sp, "brave": br}, []string{"serpapi", "brave"})

	combined := svc.SearchAll(context.Background(), "q", nil, 5)

	if len(combined) != 2 {
		t.Fatalf("expected entries for both providers, got %v", combined)
	}
	if len(combined["serpapi"]) != 0 {
		t.Fatalf("failing provider should yield empty list, got %v", combined["serpapi"])
	}
	if len(combined["brave"]) != 3 {
		t.Fatalf("expected 3 brave results, got %d", len(combined["brave"]))
	}
}

func TestRelevantContext_FallsBackInOrder(t *testing.T) {
	sp := &fakeProvider{name: "serpapi", err: errors.New("down")}
	br := &fakeProvider{name: "brave", results: []Result{{Title: "Go", Snippet: "a language", Link: "https://go.dev"}}}
	svc := NewService(map[string]Provider{"serpapi": sp, "brave": br}, []string{"serpapi", "brave"})

	ctx := svc.RelevantContext(context.Background(), "q", 3)

	if sp.calls != 1 {
		t.Fatal("serpapi should have been tried first")
	}
	if !strings.Contains(ctx, "1. Go") || !strings.Contains(ctx, "URL: https://go.dev") {
		t.Fatalf("unexpected context:\n%s", ctx)
	}
}

func TestRelevantContext_SkipsEmptyResults(t *testing.T) {
	sp := &fakeProvider{name: "serpapi"} // succeeds with zero hits
	br := &fakeProvider{name: "brave", results: hits("Brave Search", 1)}
	svc := NewService(map[string]Provider{"serpapi": sp, "brave": br}, []string{"serpapi", "brave"})

	if ctx := svc.RelevantContext(context.Background(), "q", 3); ctx == "" {
		t.Fatal("expected fallback to brave results")
	}
	if br.calls != 1 {
		t.Fatal("brave should have been consulted")
	}
}

func TestRelevantContext_SkipsUnconfiguredProvider(t *testing.T) {
	sp := &fakeProvider{name: "serpapi", unavailable: true, results: hits("SerpAPI", 2)}
	br := &fakeProvider{name: "brave", results: hits("Brave Search", 1)}
	svc := NewService(map[string]Provider{"serpapi": sp, "brave": br}, []string{"serpapi", "brave"})

	if ctx := svc.RelevantContext(context.Background(), "q", 3); ctx == "" {
		t.Fatal("expected context from the available provider")
	}
	if sp.calls != 0 {
		t.Fatal("unavailable provider should not be queried")
	}
	if br.calls != 1 {
		t.Fatal("available provider should have been queried once")
	}
}

func TestRelevantContext_NeverErrors(t *testing.T) {
	sp := &fakeProvider{name: "serpapi", err: errors.New("down")}
	br := &fakeProvider{name: "brave", err: errors.New("also down")}
	svc := NewService(map[string]Provider{"serpapi": sp, "brave": br}, []string{"serpapi", "brave"})

	if ctx := svc.RelevantContext(context.Background(), "q", 3); ctx != "" {
		t.Fatalf("expected empty context, got %q", ctx)
	}
}

func TestFormatResults(t *testing.T) {
	if FormatResults(nil) != "" {
		t.Fatal("empty results should format to empty string")
	}

	got := FormatResults([]Result{
		{Title: "A", Link: "https://a", Snippet: "alpha"},
		{Title: "B", Link: "https://b", Snippet: "beta"},
	})
	want := "1. A\n   URL: https://a\n   Summary: alpha\n\n2. B\n   URL: https://b\n   Summary: beta\n"
	if got != want {
		t.Fatalf("unexpected formatting:\n%q", got)
	}
}
