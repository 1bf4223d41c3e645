// Package brave implements websearch.Provider using the Brave Search API.
package brave

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
	// ProviderName is the registered name for the Brave Search provider.
	ProviderName = "brave"

	defaultBaseURL = "https://api.search.brave.com/res/v1/web/search"
	defaultTimeout = 15 * time.Second
)

// Config holds configuration for the Brave Search provider.
type Config struct {
	APIKey  string        `json:"api_key" yaml:"api_key"`
	BaseURL string        `json:"base_url" yaml:"base_url"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
}

// Provider implements websearch.Provider using Brave Search.
type Provider struct {
	cfg    Config
	client *http.Client
}

// NewProvider creates a new Brave Search provider.
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

// Factory returns a provider.Factory that creates Brave Provider instances
// from a generic config map.
func Factory() provider.Factory[websearch.Provider] {
	return func(cfg map[string]any) (websearch.Provider, error) {
		bc := Config{}
		if v, ok := cfg["api_key"].(string); ok {
			bc.APIKey = v
		}
		if v, ok := cfg["base_url"].(string); ok {
			bc.BaseURL = v
		}
		if v, ok := cfg["timeout"].(time.Duration); ok {
			bc.Timeout = v
		}
		return NewProvider(bc), nil
	}
}

// Name returns the provider name.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether the provider has credentials configured.
func (p *Provider) IsAvailable(_ context.Context) bool { return p.cfg.APIKey != "" }

// Search queries the Brave web search endpoint.
func (p *Provider) Search(ctx context.Context, query string, maxResults int) ([]websearch.Result, error) {
	if p.cfg.APIKey == "" {
		return nil, fmt.Errorf("brave API key not configured")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", p.cfg.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("brave error (status %d): %s", resp.StatusCode, string(body))
	}

	var data braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode brave response: %w", err)
	}

	results := make([]websearch.Result, 0, len(data.Web.Results))
	for i, r := range data.Web.Results {
		if i >= maxResults {
			break
		}
		results = append(results, websearch.Result{
			Title:   r.Title,
			Snippet: r.Description,
			Link:    r.URL,
			Source:  "Brave Search",
		})
	}
	return results, nil
}

// --- internal Brave API response types ---

type braveResponse struct {
	Web braveWebResults `json:"web"`
}

type braveWebResults struct {
	Results []braveResult `json:"results"`
}

type braveResult struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
