package provider

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/waffarshokran/backend/internal/domain"
)

// Jumia scrapes the Jumia Egypt catalog search.
type Jumia struct {
	config  domain.RetailerConfig
	fetcher *Fetcher
	logger  *zap.Logger
}

// NewJumia creates the Jumia Egypt provider.
func NewJumia(config domain.RetailerConfig, logger *zap.Logger) domain.Provider {
	return &Jumia{
		config:  config,
		fetcher: NewFetcher(time.Duration(config.TimeoutSec) * time.Second),
		logger:  logger,
	}
}

// Retailer returns the static retailer configuration.
func (j *Jumia) Retailer() domain.RetailerConfig { return j.config }

// Search scrapes the catalog search results page.
func (j *Jumia) Search(ctx context.Context, query string, language domain.Language, maxResults int) ([]domain.Product, error) {
	searchURL := strings.ReplaceAll(j.config.SearchURL, "{query}", url.QueryEscape(query))
	j.logger.Debug("searching jumia", zap.String("url", searchURL))

	doc, err := j.fetcher.Document(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	doc.Find(".prd, .product, .core").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(products) >= maxResults {
			return false
		}
		if p, ok := j.extractProduct(s); ok {
			products = append(products, p)
		}
		return true
	})

	return products, nil
}

// extractProduct pulls one product out of a result card. Cards without a
// name or a parseable price are skipped.
func (j *Jumia) extractProduct(s *goquery.Selection) (domain.Product, bool) {
	name := strings.TrimSpace(s.Find(".name, .title, h3, h4").First().Text())
	if name == "" {
		return domain.Product{}, false
	}

	price, ok := parsePrice(s.Find(".prc, .price-now, .current-price").First().Text())
	if !ok {
		return domain.Product{}, false
	}

	img := s.Find("img").First()
	imageURL, exists := img.Attr("data-src")
	if !exists || imageURL == "" {
		imageURL, _ = img.Attr("src")
	}
	if imageURL != "" {
		imageURL = absoluteURL(j.config.BaseURL, imageURL)
	}

	productURL, _ := s.Find("a").First().Attr("href")
	if productURL != "" {
		productURL = absoluteURL(j.config.BaseURL, productURL)
	}

	brand := strings.TrimSpace(s.Find(".brand").First().Text())

	return domain.Product{
		Name:              name,
		Price:             price,
		Currency:          domain.CurrencyEGP,
		Retailer:          j.config.Name,
		RetailerLogo:      j.config.LogoURL,
		URL:               productURL,
		ImageURL:          imageURL,
		Brand:             brand,
		InStock:           true,
		DeliveryAvailable: true,
		ScrapedAt:         time.Now(),
		Confidence:        1.0,
	}, true
}

// HealthCheck reports whether the retailer site is reachable.
func (j *Jumia) HealthCheck(ctx context.Context) bool {
	return j.fetcher.Reachable(ctx, j.config.BaseURL)
}
