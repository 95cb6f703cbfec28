// Package provider supplies the tool catalog to the tool service. A provider
// is initialized once and then returns the full ordered catalog.
package provider

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/toolcat/internal/catalog"
)

// ErrNotInitialized is returned by AllTools before Initialize succeeded.
var ErrNotInitialized = errors.New("provider not initialized")

// Provider is the catalog data source contract.
type Provider interface {
	// Initialize prepares the provider. Calling it again after success is a no-op.
	Initialize(ctx context.Context) error
	IsInitialized() bool
	// AllTools returns the full catalog in source order.
	AllTools() ([]catalog.Tool, error)
}

// Reinitializer is implemented by providers that can force a fresh load.
type Reinitializer interface {
	Reinitialize(ctx context.Context) error
}

// Open picks a provider for source: http(s) URLs use the HTTP API, anything
// else is treated as a catalog file path.
func Open(source string, logger *zap.Logger) (Provider, error) {
	trimmed := strings.TrimSpace(source)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return NewHTTPProvider(trimmed, logger)
	}
	return NewFileProvider(trimmed, logger)
}
