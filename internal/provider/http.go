package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/toolcat/internal/catalog"
)

const (
	defaultUserAgent = "toolcat/0.1"
	requestTimeout   = 5 * time.Second
	toolsPath        = "/api/tools"
)

// Client talks to a catalog HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// ToolListResponse mirrors GET /api/tools.
type ToolListResponse struct {
	Tools []catalog.Tool `json:"tools"`
}

// NewClient builds a Client for baseURL (scheme://host[:port]).
func NewClient(baseURL string) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchTools retrieves the full catalog.
func (c *Client) FetchTools(ctx context.Context) ([]catalog.Tool, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload ToolListResponse
	if err := c.do(ctx, http.MethodGet, toolsPath, &payload); err != nil {
		return nil, err
	}
	if err := validate(payload.Tools); err != nil {
		return nil, err
	}
	if payload.Tools == nil {
		payload.Tools = []catalog.Tool{}
	}
	return payload.Tools, nil
}

func (c *Client) do(ctx context.Context, method, path string, dest any) error {
	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("catalog url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// HTTPProvider serves the catalog fetched from a Client.
type HTTPProvider struct {
	logger *zap.Logger
	client *Client

	mu          sync.RWMutex
	tools       []catalog.Tool
	initialized bool
}

var (
	_ Provider      = (*HTTPProvider)(nil)
	_ Reinitializer = (*HTTPProvider)(nil)
)

// NewHTTPProvider builds a provider backed by the catalog API at baseURL.
func NewHTTPProvider(baseURL string, logger *zap.Logger) (*HTTPProvider, error) {
	client, err := NewClient(baseURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPProvider{logger: logger.Named("http_provider"), client: client}, nil
}

// Initialize fetches the catalog once.
func (p *HTTPProvider) Initialize(ctx context.Context) error {
	if p.IsInitialized() {
		return nil
	}
	return p.Reinitialize(ctx)
}

// Reinitialize refetches the catalog.
func (p *HTTPProvider) Reinitialize(ctx context.Context) error {
	tools, err := p.client.FetchTools(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.tools = tools
	p.initialized = true
	p.mu.Unlock()
	p.logger.Debug("catalog fetched", zap.Int("tools", len(tools)))
	return nil
}

// IsInitialized reports whether a fetch has succeeded.
func (p *HTTPProvider) IsInitialized() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.initialized
}

// AllTools returns a copy of the fetched catalog.
func (p *HTTPProvider) AllTools() ([]catalog.Tool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.initialized {
		return nil, ErrNotInitialized
	}
	return catalog.CloneTools(p.tools), nil
}
