package services

import (
	"context"

	"github.com/nexconsult/autofill-api/internal/form"
)

// CEPServiceInterface defines the interface for the postal code lookup
type CEPServiceInterface interface {
	// LookupCEP resolves an 8 digit postal code into address fields
	LookupCEP(ctx context.Context, code string) LookupResult

	// Health returns service health status
	Health() map[string]interface{}
}

// CNPJServiceInterface defines the interface for the company lookup
type CNPJServiceInterface interface {
	// LookupCNPJ resolves a 14 digit CNPJ into company and address fields
	LookupCNPJ(ctx context.Context, code string) LookupResult

	// Health returns service health status
	Health() map[string]interface{}
}

// CacheServiceInterface defines the interface for cache service
type CacheServiceInterface interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value string) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error

	// Clear removes every lookup entry
	Clear(ctx context.Context) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)

	// GetStats returns cache statistics
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Health returns cache service health status
	Health() map[string]interface{}
}

// BrowserServiceInterface defines the interface for the headless renderer
// used to load pages whose forms are built by scripts
type BrowserServiceInterface interface {
	// RenderPage navigates to url and returns the rendered document HTML
	RenderPage(ctx context.Context, url string) (string, error)

	// GetStats returns renderer statistics
	GetStats() map[string]interface{}

	// Health returns browser service health status
	Health() map[string]interface{}

	// Close closes the browser and releases resources
	Close() error
}

// PageLoader loads a page containing autofill forms
type PageLoader interface {
	LoadPage(ctx context.Context, url string) (*form.Page, error)
}
