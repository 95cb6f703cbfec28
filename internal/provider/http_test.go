package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/five82/toolcat/internal/catalog"
)

func TestParseBaseURL_Normalizes(t *testing.T) {
	u, err := parseBaseURL("example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
	if _, err := parseBaseURL("  "); err == nil {
		t.Fatal("parseBaseURL(empty) returned nil error")
	}
}

func TestHTTPProvider_FetchesTools(t *testing.T) {
	t.Parallel()

	var gotUserAgent atomic.Value
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent.Store(r.Header.Get("User-Agent"))
		if r.URL.Path != toolsPath {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ToolListResponse{Tools: []catalog.Tool{{ID: "cursor", Name: "Cursor"}}})
	}))
	t.Cleanup(server.Close)

	p, err := NewHTTPProvider(server.URL, nil)
	if err != nil {
		t.Fatalf("NewHTTPProvider returned error: %v", err)
	}
	if _, err := p.AllTools(); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("AllTools before init error = %v, want ErrNotInitialized", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	if err := p.Initialize(ctx); err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if err := p.Initialize(ctx); err != nil {
		t.Fatalf("second Initialize returned error: %v", err)
	}
	if got := hits.Load(); got != 1 {
		t.Fatalf("hits = %d, want 1 (Initialize should be idempotent)", got)
	}
	tools, err := p.AllTools()
	if err != nil {
		t.Fatalf("AllTools returned error: %v", err)
	}
	if len(tools) != 1 || tools[0].ID != "cursor" {
		t.Fatalf("tools = %#v, want cursor", tools)
	}
	if ua, _ := gotUserAgent.Load().(string); !strings.HasPrefix(ua, "toolcat/") {
		t.Fatalf("User-Agent = %q, want toolcat/*", ua)
	}

	if err := p.Reinitialize(ctx); err != nil {
		t.Fatalf("Reinitialize returned error: %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("hits = %d after Reinitialize, want 2", got)
	}
}

func TestHTTPProvider_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	p, err := NewHTTPProvider(server.URL, nil)
	if err != nil {
		t.Fatalf("NewHTTPProvider returned error: %v", err)
	}
	err = p.Initialize(context.Background())
	if err == nil || !strings.Contains(err.Error(), "status 503") {
		t.Fatalf("Initialize error = %v, want status 503", err)
	}
	if p.IsInitialized() {
		t.Fatal("IsInitialized = true after failed fetch")
	}
}

func TestOpen_PicksProviderBySource(t *testing.T) {
	p, err := Open("https://catalog.example.com", nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, ok := p.(*HTTPProvider); !ok {
		t.Fatalf("Open(url) = %T, want *HTTPProvider", p)
	}

	p, err = Open(t.TempDir()+"/tools.yaml", nil)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, ok := p.(*FileProvider); !ok {
		t.Fatalf("Open(path) = %T, want *FileProvider", p)
	}
}
