package domain

import (
	"context"
	"time"
)

// Provider is the uniform capability every retailer integration exposes.
// Implementations own their request construction, response parsing, and
// per-call behavior; the orchestrator depends only on this interface.
type Provider interface {
	Search(ctx context.Context, query string, language Language, maxResults int) ([]Product, error)
	HealthCheck(ctx context.Context) bool
	Retailer() RetailerConfig
}

// ProviderRegistry returns the ordered list of active providers.
type ProviderRegistry interface {
	Active(ctx context.Context) ([]Provider, error)
}

// StateStore is the transient key-value store used for per-request status
// and for the normalized-record corpus the alternative finder scans.
// Writes are scoped per request-id key space; operations are
// fire-and-forget relative to request success.
type StateStore interface {
	SetHashFields(ctx context.Context, key string, fields map[string]interface{}, ttl time.Duration) error
	GetHashFields(ctx context.Context, key string) (map[string]string, error)
	ScanKeys(ctx context.Context, pattern string, limit int) ([]string, error)
}
