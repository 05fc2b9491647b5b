package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/waffarshokran/backend/internal/domain"
)

// Relevance score weights used by Rank.
const (
	relNameMatch  = 0.5 // query is a substring of the name
	relBrandMatch = 0.3 // query is a substring of the brand
	relWordMatch  = 0.1 // per query word also present in the name
	relConfidence = 0.1 // scaled by the product confidence score
	relInStock    = 0.1
)

// Dedupe collapses products describing the same physical item, keeping the
// first occurrence and preserving order. Two products are duplicates when
// they share a signature of normalized name, brand, and rounded price; no
// fields are merged across duplicates.
func Dedupe(products []domain.Product) []domain.Product {
	if len(products) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(products))
	deduplicated := make([]domain.Product, 0, len(products))

	for _, p := range products {
		sig := productSignature(p)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		deduplicated = append(deduplicated, p)
	}

	return deduplicated
}

// productSignature is the duplicate-detection key: lowercase-trimmed name
// and brand plus the price rounded to 2 decimals.
func productSignature(p domain.Product) string {
	name := strings.ToLower(strings.TrimSpace(p.Name))
	brand := strings.ToLower(strings.TrimSpace(p.Brand))
	return fmt.Sprintf("%s_%s_%.2f", name, brand, p.Price)
}

// Rank orders products by relevance to the query (descending), breaking
// ties by price (ascending, missing price last). The sort is stable, so
// exact ties keep their insertion order.
func Rank(products []domain.Product, query string) []domain.Product {
	type scored struct {
		product   domain.Product
		relevance float64
	}

	entries := make([]scored, len(products))
	for i, p := range products {
		entries[i] = scored{product: p, relevance: relevanceScore(p, query)}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].relevance != entries[j].relevance {
			return entries[i].relevance > entries[j].relevance
		}
		return sortPrice(entries[i].product) < sortPrice(entries[j].product)
	})

	ranked := make([]domain.Product, len(entries))
	for i, e := range entries {
		ranked[i] = e.product
	}
	return ranked
}

// relevanceScore is the multi-factor ranking score for one product.
func relevanceScore(p domain.Product, query string) float64 {
	score := 0.0
	queryLower := strings.ToLower(query)
	nameLower := strings.ToLower(p.Name)

	if strings.Contains(nameLower, queryLower) {
		score += relNameMatch
	}

	if p.Brand != "" && strings.Contains(strings.ToLower(p.Brand), queryLower) {
		score += relBrandMatch
	}

	nameWords := make(map[string]bool)
	for _, w := range strings.Fields(nameLower) {
		nameWords[w] = true
	}
	counted := make(map[string]bool)
	for _, w := range strings.Fields(queryLower) {
		if nameWords[w] && !counted[w] {
			score += relWordMatch
			counted[w] = true
		}
	}

	score += p.Confidence * relConfidence

	if p.InStock {
		score += relInStock
	}

	return score
}

// sortPrice treats a missing price as +infinity so it sorts last.
func sortPrice(p domain.Product) float64 {
	if p.Price <= 0 {
		return math.Inf(1)
	}
	return p.Price
}
