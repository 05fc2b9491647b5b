package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/waffarshokran/backend/internal/domain"
	"github.com/waffarshokran/backend/internal/retry"
)

const (
	// defaultDeadline is the wall-clock budget for one search request,
	// independent of provider count. It leaves headroom under a 3s SLA
	// for post-processing.
	defaultDeadline = 2800 * time.Millisecond

	// defaultStatusTTL bounds how long per-request state lives in the store.
	defaultStatusTTL = 5 * time.Minute

	// alternativeThreshold is the ranked-set size below which the
	// alternative finder is invoked.
	alternativeThreshold = 5

	defaultMaxResults = 50
)

// OrchestratorConfig holds the tunable parts of the orchestrator.
type OrchestratorConfig struct {
	Deadline  time.Duration
	StatusTTL time.Duration
}

// Orchestrator drives provider searches concurrently under a deadline,
// tolerates partial failure, and turns the merged raw results into a
// single deduplicated, ranked list.
type Orchestrator struct {
	registry     domain.ProviderRegistry
	store        domain.StateStore
	normalizer   *Normalizer
	alternatives *AlternativeFinder
	logger       *zap.Logger
	deadline     time.Duration
	statusTTL    time.Duration
}

// NewOrchestrator creates an orchestrator with its collaborators.
func NewOrchestrator(
	registry domain.ProviderRegistry,
	store domain.StateStore,
	logger *zap.Logger,
	config OrchestratorConfig,
) *Orchestrator {
	deadline := config.Deadline
	if deadline <= 0 {
		deadline = defaultDeadline
	}
	statusTTL := config.StatusTTL
	if statusTTL <= 0 {
		statusTTL = defaultStatusTTL
	}

	return &Orchestrator{
		registry:     registry,
		store:        store,
		normalizer:   NewNormalizer(logger),
		alternatives: NewAlternativeFinder(store, logger),
		logger:       logger,
		deadline:     deadline,
		statusTTL:    statusTTL,
	}
}

// indexedOutcome carries a provider outcome together with the provider's
// registration index so outcomes merge in registration order, not
// completion order.
type indexedOutcome struct {
	index   int
	outcome domain.ProviderOutcome
}

// Search runs one search across all active providers and returns the
// aggregated response. Provider failures and deadline expiry surface only
// as reduced coverage; a registry failure fails the whole request.
func (o *Orchestrator) Search(ctx context.Context, requestID string, req domain.SearchRequest) (*domain.SearchResponse, error) {
	start := time.Now()

	if req.Query == "" {
		return nil, domain.ErrInvalidRequest
	}
	if req.Language == "" {
		req.Language = domain.LanguageArabic
	}
	if req.MaxResults <= 0 {
		req.MaxResults = defaultMaxResults
	}

	providers, err := o.registry.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRegistryUnavailable, err)
	}
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: no active providers", domain.ErrRegistryUnavailable)
	}

	retailers := make([]string, len(providers))
	for i, p := range providers {
		retailers[i] = p.Retailer().Name
	}

	o.logger.Info("starting parallel search",
		zap.String("request_id", requestID),
		zap.String("query", req.Query),
		zap.Int("retailers", len(providers)))

	o.writeState(ctx, "search:"+requestID, map[string]interface{}{
		"query":           req.Query,
		"language":        string(req.Language),
		"retailers_count": len(providers),
		"status":          "running",
	})

	outcomes := o.fanOut(ctx, requestID, providers, req)

	// A provider only counts as successful coverage when it produced
	// products; an empty result set is reported alongside hard failures.
	var raw []domain.Product
	var successful, failed []string
	for _, outcome := range outcomes {
		if outcome.Success && outcome.ProductsFound > 0 {
			raw = append(raw, outcome.Products...)
			successful = append(successful, outcome.Retailer)
			o.logger.Info("provider succeeded",
				zap.String("retailer", outcome.Retailer),
				zap.Int("products", outcome.ProductsFound),
				zap.Int64("elapsed_ms", outcome.ElapsedMs))
		} else {
			failed = append(failed, outcome.Retailer)
			o.logger.Warn("provider returned no usable results",
				zap.String("retailer", outcome.Retailer),
				zap.String("error", outcome.ErrorMessage))
		}
	}

	normalized := make([]domain.Product, len(raw))
	for i, p := range raw {
		normalized[i] = o.normalizer.Normalize(p, req.Query)
	}
	o.persistProducts(ctx, requestID, normalized)

	ranked := Rank(Dedupe(normalized), req.Query)

	alternativesIncluded := false
	if len(ranked) < alternativeThreshold {
		alternatives := o.alternatives.FindAlternatives(ctx, req.Query, ranked)
		if len(alternatives) > 0 {
			ranked = append(ranked, alternatives...)
			alternativesIncluded = true
		}
	}

	if len(ranked) > req.MaxResults {
		ranked = ranked[:req.MaxResults]
	}

	elapsed := time.Since(start).Milliseconds()

	o.writeState(ctx, "search:"+requestID, map[string]interface{}{
		"status":               "completed",
		"total_products":       len(ranked),
		"successful_retailers": strings.Join(successful, ","),
		"failed_retailers":     strings.Join(failed, ","),
		"search_time_ms":       elapsed,
	})

	o.logger.Info("search completed",
		zap.String("request_id", requestID),
		zap.Int64("elapsed_ms", elapsed),
		zap.Int("products", len(ranked)),
		zap.Int("successful_retailers", len(successful)))

	return &domain.SearchResponse{
		RequestID:            requestID,
		Query:                req.Query,
		Products:             ranked,
		TotalResults:         len(ranked),
		SearchTimeMs:         elapsed,
		RetailersSearched:    retailers,
		FailedRetailers:      failed,
		AlternativesIncluded: alternativesIncluded,
	}, nil
}

// fanOut runs one task per provider under the request deadline and merges
// the outcomes in registration order. Every provider yields exactly one
// outcome: tasks that have not settled when the deadline fires are
// cancelled and synthesized as failures.
func (o *Orchestrator) fanOut(ctx context.Context, requestID string, providers []domain.Provider, req domain.SearchRequest) []domain.ProviderOutcome {
	searchCtx, cancel := context.WithTimeout(ctx, o.deadline)
	defer cancel()

	perProvider := req.MaxResults / len(providers)
	if perProvider < 1 {
		perProvider = 1
	}

	// Buffered so a straggler finishing after the deadline never blocks.
	results := make(chan indexedOutcome, len(providers))
	for i, p := range providers {
		go func(index int, provider domain.Provider) {
			results <- indexedOutcome{
				index:   index,
				outcome: o.searchProvider(searchCtx, requestID, provider, req.Query, req.Language, perProvider),
			}
		}(i, p)
	}

	settled := o.collectOutcomes(searchCtx, results, len(providers), requestID)

	outcomes := make([]domain.ProviderOutcome, len(providers))
	for i, s := range settled {
		if s != nil {
			outcomes[i] = *s
			continue
		}
		outcomes[i] = domain.ProviderOutcome{
			Retailer:     providers[i].Retailer().Name,
			Success:      false,
			ErrorMessage: "deadline exceeded",
			ElapsedMs:    o.deadline.Milliseconds(),
		}
	}
	return outcomes
}

// collectOutcomes receives outcomes until every provider has settled or the
// deadline fires. An outcome already enqueued when the deadline fires is
// still kept: a provider that settled in time is never reported as late.
func (o *Orchestrator) collectOutcomes(ctx context.Context, results <-chan indexedOutcome, expected int, requestID string) []*domain.ProviderOutcome {
	settled := make([]*domain.ProviderOutcome, expected)
	received := 0
collect:
	for received < expected {
		select {
		case r := <-results:
			outcome := r.outcome
			settled[r.index] = &outcome
			received++
		case <-ctx.Done():
			o.logger.Warn("search deadline reached",
				zap.String("request_id", requestID),
				zap.Int("settled", received),
				zap.Int("queried", expected))
			break collect
		}
	}

drain:
	for received < expected {
		select {
		case r := <-results:
			outcome := r.outcome
			settled[r.index] = &outcome
			received++
		default:
			break drain
		}
	}

	return settled
}

// searchProvider wraps one provider call in retry, timing, and state
// bookkeeping, classifying the result as a terminal outcome. A panicking
// provider is contained here and never aborts sibling tasks.
func (o *Orchestrator) searchProvider(ctx context.Context, requestID string, provider domain.Provider, query string, language domain.Language, maxResults int) (outcome domain.ProviderOutcome) {
	start := time.Now()
	config := provider.Retailer()
	outcome.Retailer = config.Name

	defer func() {
		if r := recover(); r != nil {
			outcome = domain.ProviderOutcome{
				Retailer:     config.Name,
				Success:      false,
				ErrorMessage: fmt.Sprintf("provider panic: %v", r),
				ElapsedMs:    time.Since(start).Milliseconds(),
			}
		}
	}()

	stateKey := fmt.Sprintf("search:%s:%s", requestID, config.Name)
	o.writeState(ctx, stateKey, map[string]interface{}{
		"status": "started",
		"query":  query,
	})

	var products []domain.Product
	err := retry.Do(ctx, retry.Config{MaxAttempts: config.MaxRetries + 1}, func() error {
		var searchErr error
		products, searchErr = provider.Search(ctx, query, language, maxResults)
		return searchErr
	})

	outcome.ElapsedMs = time.Since(start).Milliseconds()

	if err != nil {
		outcome.ErrorMessage = err.Error()
		o.writeState(ctx, stateKey, map[string]interface{}{
			"status": "failed",
			"error":  err.Error(),
		})
		return outcome
	}

	outcome.Success = true
	outcome.Products = products
	outcome.ProductsFound = len(products)
	o.writeState(ctx, stateKey, map[string]interface{}{
		"status":           "completed",
		"products_found":   len(products),
		"response_time_ms": outcome.ElapsedMs,
	})
	return outcome
}

// Status returns the stored status hash for a request id.
func (o *Orchestrator) Status(ctx context.Context, requestID string) (map[string]string, error) {
	fields, err := o.store.GetHashFields(ctx, "search:"+requestID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrStatusNotFound
	}
	return fields, nil
}

// persistProducts writes normalized records to the store for the
// alternative finder's cross-query scans. Failures are logged, never
// propagated.
func (o *Orchestrator) persistProducts(ctx context.Context, requestID string, products []domain.Product) {
	counters := make(map[string]int)
	for _, p := range products {
		i := counters[p.Retailer]
		counters[p.Retailer]++
		key := fmt.Sprintf("search:%s:%s:product:%d", requestID, p.Retailer, i)
		o.writeState(ctx, key, map[string]interface{}{
			"name":       p.Name,
			"price":      p.Price,
			"retailer":   p.Retailer,
			"url":        p.URL,
			"brand":      p.Brand,
			"category":   p.Category,
			"confidence": p.Confidence,
		})
	}
}

// writeState is a fire-and-forget store write.
func (o *Orchestrator) writeState(ctx context.Context, key string, fields map[string]interface{}) {
	if err := o.store.SetHashFields(ctx, key, fields, o.statusTTL); err != nil {
		o.logger.Warn("state store write failed", zap.String("key", key), zap.Error(err))
	}
}
