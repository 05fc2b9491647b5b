package provider

import (
	"context"
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/waffarshokran/backend/internal/domain"
)

// ErrNoActiveProviders is returned when the registry holds no usable
// provider, which fails the whole request.
var ErrNoActiveProviders = errors.New("no active providers configured")

// egyptianRetailers is the static retailer table. Configuration is data,
// not behavior: each entry is bound to a provider implementation through
// the constructors map below.
var egyptianRetailers = []domain.RetailerConfig{
	{
		Name:       "Jumia Egypt",
		NameAr:     "جوميا مصر",
		BaseURL:    "https://www.jumia.com.eg",
		SearchURL:  "https://www.jumia.com.eg/catalog/?q={query}",
		LogoURL:    "https://www.jumia.com.eg/logo.png",
		Status:     domain.RetailerActive,
		Priority:   1,
		TimeoutSec: 10,
		MaxRetries: 2,
	},
	{
		Name:       "Al Khairy",
		NameAr:     "الخيري",
		BaseURL:    "https://alkhairy.com",
		SearchURL:  "https://alkhairy.com/products/search?q={query}",
		Status:     domain.RetailerActive,
		Priority:   2,
		TimeoutSec: 8,
		MaxRetries: 2,
	},
	{
		// Blocked by bot detection; needs a headless-browser fetch path.
		Name:       "Carrefour Egypt",
		NameAr:     "كارفور مصر",
		BaseURL:    "https://www.carrefouregypt.com",
		SearchURL:  "https://www.carrefouregypt.com/search?q={query}",
		Status:     domain.RetailerInactive,
		Priority:   3,
		TimeoutSec: 15,
		MaxRetries: 3,
	},
}

// constructors binds retailer names to provider implementations.
var constructors = map[string]func(domain.RetailerConfig, *zap.Logger) domain.Provider{
	"Jumia Egypt": NewJumia,
	"Al Khairy":   NewAlKhairy,
}

// Registry resolves the active provider set. Providers are built once at
// startup, ordered by priority.
type Registry struct {
	providers []domain.Provider
	logger    *zap.Logger
}

// NewRegistry builds providers for every active, implemented retailer.
func NewRegistry(logger *zap.Logger) *Registry {
	var providers []domain.Provider

	for _, config := range egyptianRetailers {
		if config.Status != domain.RetailerActive {
			continue
		}
		build, ok := constructors[config.Name]
		if !ok {
			logger.Warn("no provider implementation for retailer", zap.String("retailer", config.Name))
			continue
		}
		providers = append(providers, build(config, logger))
	}

	sort.SliceStable(providers, func(i, j int) bool {
		return providers[i].Retailer().Priority < providers[j].Retailer().Priority
	})

	logger.Info("provider registry loaded", zap.Int("providers", len(providers)))
	return &Registry{providers: providers, logger: logger}
}

// Active returns the ordered active provider set.
func (r *Registry) Active(ctx context.Context) ([]domain.Provider, error) {
	if len(r.providers) == 0 {
		return nil, ErrNoActiveProviders
	}
	return r.providers, nil
}

// Retailers lists every configured retailer, active or not.
func (r *Registry) Retailers() []domain.RetailerConfig {
	out := make([]domain.RetailerConfig, len(egyptianRetailers))
	copy(out, egyptianRetailers)
	return out
}

// HealthCheck probes every active provider.
func (r *Registry) HealthCheck(ctx context.Context) map[string]bool {
	health := make(map[string]bool, len(r.providers))
	for _, p := range r.providers {
		health[p.Retailer().Name] = p.HealthCheck(ctx)
	}
	return health
}
