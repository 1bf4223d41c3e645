// Package serpapi implements websearch.Provider using the SerpAPI Google
// search endpoint.
package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kbukum/flowstack/provider"
	"github.com/kbukum/flowstack/websearch"
)

const (
	// ProviderName is the registered name for the SerpAPI provider.
	ProviderName = "serpapi"

	defaultBaseURL = "https://serpapi.com/search"
	defaultTimeout = 15 * time.Second
)

// Config holds configuration for the SerpAPI provider.
type Config struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider implements websearch.Provider using SerpAPI.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a new SerpAPI provider.
func NewProvider(cfg Config) *Provider {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Provider{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// Factory returns a provider.Factory that creates SerpAPI Provider instances
// from a generic config map.
func Factory() provider.Factory[websearch.Provider] {
	return func(cfg map[string]any) (websearch.Provider, error) {
		sc := Config{}
		if v, ok := cfg["api_key"].(string); ok {
			sc.APIKey = v
		}
		if v, ok := cfg["base_url"].(string); ok {
			sc.BaseURL = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			sc.Timeout = v
		}
		return NewProvider(sc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the provider has credentials configured.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.cfg.APIKey != "" }

// Search queries SerpAPI's Google engine and returns the organic results.
func (p *Provider) Search(ctx context.Context, query string, maxResults int) ([]websearch.Result, error) {
	if p.cfg.APIKey == "" {
		return nil, fmt.Errorf("serpapi key not configured")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", p.cfg.APIKey)
	params.Set("num", strconv.Itoa(maxResults))
	params.Set("engine", "google")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("serpapi error (status %d): %s", resp.StatusCode, string(body))
	}

	var data serpapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode serpapi response: %w", err)
	}

	results := make([]websearch.Result, 0, len(data.OrganicResults))
	for i, r := range data.OrganicResults {
		if i >= maxResults {
			break
		}
		results = append(results, websearch.Result{
			Title:   r.Title,
			Snippet: r.Snippet,
			Link:    r.Link,
			Source:  "SerpAPI",
		})
	}
	return results, nil
}

// --- internal SerpAPI response types ---

type serpapiResponse struct {
	OrganicResults []serpapiResult `json:"organic_results"`
}

type serpapiResult struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}
