package provider

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/waffarshokran/backend/internal/domain"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher retrieves retailer pages. Each provider owns one fetcher with
// its own timeout and rate limit; every call builds its own request so no
// session state is shared across calls.
type Fetcher struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewFetcher creates a fetcher with a per-call timeout. The rate limit
// keeps scraping polite: 2 requests/sec with a small burst.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(2), 5),
	}
}

// Document GETs a URL and parses the response body.
func (f *Fetcher) Document(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if err := f.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", domain.ErrProviderFailure, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return doc, nil
}

// Reachable reports whether a base URL answers with a 2xx/3xx status.
func (f *Fetcher) Reachable(ctx context.Context, baseURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < http.StatusBadRequest
}

var nonPriceRegex = regexp.MustCompile(`[^\d.,]`)

// parsePrice extracts a numeric price from retailer price text such as
// "EGP 1,234.50" or "45 جنيه".
func parsePrice(text string) (float64, bool) {
	clean := nonPriceRegex.ReplaceAllString(text, "")
	clean = strings.ReplaceAll(clean, ",", "")
	price, err := strconv.ParseFloat(clean, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

// absoluteURL resolves a root-relative href against the retailer base URL.
func absoluteURL(baseURL, href string) string {
	if strings.HasPrefix(href, "/") {
		return baseURL + href
	}
	return href
}
