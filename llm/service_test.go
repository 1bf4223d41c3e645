package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/flowstack/resilience"
	"github.com/kbukum/flowstack/workflow"
)

type fakeProvider struct {
	name      string
	available bool
	resp      *GenerateResponse
	errs      []error // consumed per call, nil entries succeed
	calls     int
	lastReq   GenerateRequest
	embedding []float32
}

func (f *fakeProvider) Name() string                       { return f.name }
func (f *fakeProvider) IsAvailable(_ context.Context) bool { return f.available }

func (f *fakeProvider) Generate(_ context.Context, req GenerateRequest) (*GenerateResponse, error) {
	f.lastReq = req
	f.calls++
	if f.calls <= len(f.errs) && f.errs[f.calls-1] != nil {
		return nil, f.errs[f.calls-1]
	}
	return f.resp, nil
}

func (f *fakeProvider) Embed(_ context.Context, _ string) ([]float32, error) {
	f.calls++
	if f.calls <= len(f.errs) && f.errs[f.calls-1] != nil {
		return nil, f.errs[f.calls-1]
	}
	return f.embedding, nil
}

func fastRetry() ServiceOption {
	cfg := resilience.DefaultRetryConfig()
	cfg.InitialBackoff = 1
	cfg.MaxBackoff = 1
	return WithRetryConfig(cfg)
}

func TestService_RoutesToRequestedProvider(t *testing.T) {
	oa := &fakeProvider{name: "openai", available: true, resp: &GenerateResponse{Response: "from openai", Model: "gpt-3.5-turbo", Provider: "openai"}}
	gm := &fakeProvider{name: "gemini", available: true, resp: &GenerateResponse{Response: "from gemini", Model: "gemini-pro", Provider: "gemini"}}
	svc := NewService(map[string]Provider{"openai": oa, "gemini": gm}, "openai", fastRetry())

	out, err := svc.Generate(context.Background(), workflow.GenerateInput{Query: "q", Provider: "gemini"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Response != "from gemini" || out.Provider != "gemini" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if oa.calls != 0 {
		t.Fatal("openai should not have been called")
	}
}

func TestService_DefaultProvider(t *testing.T) {
	oa := &fakeProvider{name: "openai", available: true, resp: &GenerateResponse{Response: "ok", Provider: "openai"}}
	svc := NewService(map[string]Provider{"openai": oa}, "openai", fastRetry())

	out, err := svc.Generate(context.Background(), workflow.GenerateInput{Query: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Response != "ok" {
		t.Fatalf("unexpected output: %+v", out)
	}
}

func TestService_UnsupportedProvider(t *testing.T) {
	svc := NewService(map[string]Provider{}, "openai", fastRetry())
	_, err := svc.Generate(context.Background(), workflow.GenerateInput{Query: "q", Provider: "llama"})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestService_UnavailableProvider(t *testing.T) {
	oa := &fakeProvider{name: "openai", available: false}
	svc := NewService(map[string]Provider{"openai": oa}, "openai", fastRetry())
	_, err := svc.Generate(context.Background(), workflow.GenerateInput{Query: "q"})
	if err == nil {
		t.Fatal("expected error for unconfigured provider")
	}
}

func TestService_RetriesTransientFailures(t *testing.T) {
	oa := &fakeProvider{
		name: "openai", available: true,
		resp: &GenerateResponse{Response: "eventually", Provider: "openai"},
		errs: []error{errors.New("503"), errors.New("503")},
	}
	svc := NewService(map[string]Provider{"openai": oa}, "openai", fastRetry())

	out, err := svc.Generate(context.Background(), workflow.GenerateInput{Query: "q"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Response != "eventually" {
		t.Fatalf("unexpected output: %+v", out)
	}
	if oa.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", oa.calls)
	}
}

func TestService_PassesOptionsThrough(t *testing.T) {
	oa := &fakeProvider{name: "openai", available: true, resp: &GenerateResponse{Response: "ok"}}
	svc := NewService(map[string]Provider{"openai": oa}, "openai", fastRetry())

	_, err := svc.Generate(context.Background(), workflow.GenerateInput{
		Query: "q", Context: "ctx", Model: "gpt-4",
		Temperature: 0.1, MaxTokens: 64, SystemPrompt: "Be brief.",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := oa.lastReq
	if req.Context != "ctx" || req.Model != "gpt-4" || req.Temperature != 0.1 ||
		req.MaxTokens != 64 || req.SystemPrompt != "Be brief." {
		t.Fatalf("options not passed through: %+v", req)
	}
}

func TestService_Embed(t *testing.T) {
	oa := &fakeProvider{name: "openai", available: true, embedding: []float32{0.1, 0.2}}
	svc := NewService(map[string]Provider{"openai": oa}, "openai", fastRetry())

	vec, err := svc.Embed(context.Background(), "text", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 {
		t.Fatalf("unexpected embedding: %v", vec)
	}
}

func TestUserPrompt(t *testing.T) {
	req := GenerateRequest{Query: "What is X?"}
	if req.UserPrompt() != "What is X?" {
		t.Fatalf("unexpected prompt: %q", req.UserPrompt())
	}

	req.Context = "X is a thing."
	want := "Context: X is a thing.\n\nQuestion: What is X?"
	if req.UserPrompt() != want {
		t.Fatalf("unexpected prompt: %q", req.UserPrompt())
	}
}
