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

// AlKhairy scrapes the Al Khairy grocery chain's product search.
type AlKhairy struct {
	config  domain.RetailerConfig
	fetcher *Fetcher
	logger  *zap.Logger
}

// NewAlKhairy creates the Al Khairy provider.
func NewAlKhairy(config domain.RetailerConfig, logger *zap.Logger) domain.Provider {
	return &AlKhairy{
		config:  config,
		fetcher: NewFetcher(time.Duration(config.TimeoutSec) * time.Second),
		logger:  logger,
	}
}

// Retailer returns the static retailer configuration.
func (a *AlKhairy) Retailer() domain.RetailerConfig { return a.config }

// Search scrapes the product search results page.
func (a *AlKhairy) Search(ctx context.Context, query string, language domain.Language, maxResults int) ([]domain.Product, error) {
	searchURL := strings.ReplaceAll(a.config.SearchURL, "{query}", url.QueryEscape(query))
	a.logger.Debug("searching al khairy", zap.String("url", searchURL))

	doc, err := a.fetcher.Document(ctx, searchURL)
	if err != nil {
		return nil, err
	}

	var products []domain.Product
	doc.Find(".product-item, .product-card, .grid-item").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(products) >= maxResults {
			return false
		}
		if p, ok := a.extractProduct(s); ok {
			products = append(products, p)
		}
		return true
	})

	return products, nil
}

func (a *AlKhairy) extractProduct(s *goquery.Selection) (domain.Product, bool) {
	name := strings.TrimSpace(s.Find(".product-name, .title, h3, h4").First().Text())
	if name == "" {
		return domain.Product{}, false
	}

	price, ok := parsePrice(s.Find(".price, .product-price, .current-price").First().Text())
	if !ok {
		return domain.Product{}, false
	}

	img := s.Find("img").First()
	imageURL, exists := img.Attr("src")
	if !exists || imageURL == "" {
		imageURL, _ = img.Attr("data-src")
	}
	if imageURL != "" {
		imageURL = absoluteURL(a.config.BaseURL, imageURL)
	}

	productURL, _ := s.Find("a").First().Attr("href")
	if productURL != "" {
		productURL = absoluteURL(a.config.BaseURL, productURL)
	}

	return domain.Product{
		Name:         name,
		Price:        price,
		Currency:     domain.CurrencyEGP,
		Retailer:     a.config.Name,
		RetailerLogo: a.config.LogoURL,
		URL:          productURL,
		ImageURL:     imageURL,
		InStock:      true,
		ScrapedAt:    time.Now(),
		Confidence:   1.0,
	}, true
}

// HealthCheck reports whether the retailer site is reachable.
func (a *AlKhairy) HealthCheck(ctx context.Context) bool {
	return a.fetcher.Reachable(ctx, a.config.BaseURL)
}
