package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/waffarshokran/backend/internal/domain"
)

const (
	// enoughResults is the result count above which no backfill happens.
	enoughResults = 10

	maxExpandedQueries  = 3
	maxPerExpandedQuery = 5
	maxSizeVariants     = 5
	maxAlternatives     = 10
	cacheScanWindow     = 50

	cachedConfidence      = 0.6 // cross-query records reconstructed from the store
	sizeVariantConfidence = 0.5 // synthesized size variants
	alternativePenalty    = 0.8 // applied on top of the confidences above

	// Larger synthesized sizes are priced proportionally cheaper per unit.
	sizeVariantPriceFactor = 0.9
)

// querySubstitutes maps common bilingual product terms to their
// substitutes, used to expand a scarce query. Ordered for deterministic
// expansion.
var querySubstitutes = []struct {
	term        string
	substitutes []string
}{
	{"لبن", []string{"حليب", "milk"}},
	{"جبنة", []string{"جبن", "cheese"}},
	{"زبدة", []string{"زبد", "butter"}},
	{"فراخ", []string{"دجاج", "chicken"}},
	{"لحمة", []string{"لحم", "meat", "beef"}},
	{"صابون", []string{"soap", "منظف"}},
	{"شامبو", []string{"shampoo"}},
	{"عصير", []string{"juice", "مشروب"}},
	{"مياه", []string{"ماء", "water"}},
	{"نستله", []string{"nestle"}},
	{"العلالى", []string{"al alali", "alalali"}},
	{"جهينة", []string{"juhayna"}},
}

// sizeDescriptors are the size adjectives stripped from queries.
var sizeDescriptors = map[string]bool{
	"صغير": true, "كبير": true, "عادي": true,
	"small": true, "large": true, "medium": true,
}

// categoryBroadening adds a generic category query when the query contains
// one of the trigger words.
var categoryBroadening = []struct {
	triggers []string
	queries  []string
}{
	{[]string{"لبن", "milk", "جبن", "cheese"}, []string{"منتجات الألبان", "dairy products"}},
	{[]string{"صابون", "soap", "منظف", "cleaner"}, []string{"منظفات", "cleaning products"}},
	{[]string{"عصير", "juice", "مشروب", "drink"}, []string{"مشروبات", "beverages"}},
}

// sizeVariantRatios are the boundary size ratios used to synthesize
// variants of existing products; 1.0 is never used.
var sizeVariantRatios = [][2]float64{
	{0.8, 1.2},
	{0.5, 2.0},
	{0.25, 4.0},
}

// AlternativeFinder backfills heuristic candidates when direct matches are
// scarce: cached cross-query records from the state store and synthesized
// size variants of existing results. Every candidate carries a confidence
// penalty relative to a direct match.
type AlternativeFinder struct {
	store  domain.StateStore
	logger *zap.Logger
}

// NewAlternativeFinder creates an alternative finder backed by the store.
func NewAlternativeFinder(store domain.StateStore, logger *zap.Logger) *AlternativeFinder {
	return &AlternativeFinder{store: store, logger: logger}
}

// FindAlternatives returns up to 10 heuristic candidates for a scarce
// result set. It is a no-op when the existing set already has 10 or more
// entries. Candidates are meant to be appended after direct matches.
func (f *AlternativeFinder) FindAlternatives(ctx context.Context, originalQuery string, existing []domain.Product) []domain.Product {
	if len(existing) >= enoughResults {
		return nil
	}

	f.logger.Info("finding alternatives", zap.String("query", originalQuery))

	// Seed the duplicate filter with the existing ranked set so no
	// candidate repeats a direct match or another candidate.
	seen := make(map[string]bool)
	for _, p := range existing {
		seen[alternativeSignature(p)] = true
	}

	var alternatives []domain.Product

	expanded := f.expandQuery(originalQuery)
	if len(expanded) > maxExpandedQueries {
		expanded = expanded[:maxExpandedQueries]
	}

	for _, altQuery := range expanded {
		cached := f.cachedCandidates(ctx, altQuery)
		kept := 0
		for _, p := range cached {
			if kept >= maxPerExpandedQuery {
				break
			}
			sig := alternativeSignature(p)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			alternatives = append(alternatives, p)
			kept++
		}
	}

	for _, p := range sizeVariants(existing) {
		sig := alternativeSignature(p)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		alternatives = append(alternatives, p)
	}

	for i := range alternatives {
		alternatives[i].Confidence *= alternativePenalty
	}

	if len(alternatives) > maxAlternatives {
		alternatives = alternatives[:maxAlternatives]
	}

	f.logger.Info("alternatives found", zap.Int("count", len(alternatives)))
	return alternatives
}

// expandQuery generates substitute queries: term substitution, size
// descriptor stripping, brand transliteration swaps, and category
// broadening. The result is deduplicated, preserving generation order.
func (f *AlternativeFinder) expandQuery(query string) []string {
	queryLower := strings.ToLower(strings.TrimSpace(query))

	var candidates []string

	for _, entry := range querySubstitutes {
		if !strings.Contains(queryLower, entry.term) {
			continue
		}
		for _, substitute := range entry.substitutes {
			candidates = append(candidates, strings.ReplaceAll(queryLower, entry.term, substitute))
		}
	}

	if stripped := stripSizeDescriptors(queryLower); stripped != "" && stripped != queryLower {
		candidates = append(candidates, stripped)
	}

	// Brand transliteration swap for known brands.
	if strings.Contains(queryLower, "نستله") {
		candidates = append(candidates, strings.ReplaceAll(queryLower, "نستله", "nestle"))
	}
	if strings.Contains(queryLower, "nestle") {
		candidates = append(candidates, strings.ReplaceAll(queryLower, "nestle", "نستله"))
	}

	for _, entry := range categoryBroadening {
		for _, trigger := range entry.triggers {
			if strings.Contains(queryLower, trigger) {
				candidates = append(candidates, entry.queries...)
				break
			}
		}
	}

	// Deduplicate, keeping first occurrence.
	seen := map[string]bool{queryLower: true}
	var expanded []string
	for _, c := range candidates {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		expanded = append(expanded, c)
	}

	return expanded
}

// stripSizeDescriptors removes size adjectives from a query.
func stripSizeDescriptors(query string) string {
	words := strings.Fields(query)
	kept := words[:0]
	for _, w := range words {
		if !sizeDescriptors[w] {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// cachedCandidates scans a bounded window of recently stored product
// records and reconstructs those sharing at least one word with the query.
func (f *AlternativeFinder) cachedCandidates(ctx context.Context, query string) []domain.Product {
	keys, err := f.store.ScanKeys(ctx, "search:*:*:product:*", cacheScanWindow)
	if err != nil {
		f.logger.Warn("alternative cache scan failed", zap.Error(err))
		return nil
	}

	queryWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		queryWords[w] = true
	}

	var candidates []domain.Product
	for _, key := range keys {
		fields, err := f.store.GetHashFields(ctx, key)
		if err != nil || len(fields) == 0 {
			continue
		}

		name := fields["name"]
		overlap := false
		for _, w := range strings.Fields(strings.ToLower(name)) {
			if queryWords[w] {
				overlap = true
				break
			}
		}
		if !overlap {
			continue
		}

		price, err := strconv.ParseFloat(fields["price"], 64)
		if err != nil || price <= 0 {
			continue
		}

		candidates = append(candidates, domain.Product{
			Name:       name,
			Price:      price,
			Currency:   domain.CurrencyEGP,
			Retailer:   fields["retailer"],
			URL:        fields["url"],
			Brand:      fields["brand"],
			InStock:    true,
			Confidence: cachedConfidence,
		})
	}

	return candidates
}

// sizeVariants synthesizes non-unity size variants of products that carry
// a weight and unit.
func sizeVariants(products []domain.Product) []domain.Product {
	var variants []domain.Product

	for _, p := range products {
		if p.Weight <= 0 || p.WeightUnit == "" {
			continue
		}

		for _, bounds := range sizeVariantRatios {
			for _, ratio := range bounds {
				if ratio == 1.0 {
					continue
				}
				if len(variants) >= maxSizeVariants {
					return variants
				}

				weight := p.Weight * ratio
				variant := p
				variant.Name = fmt.Sprintf("%s (%g%s)", p.Name, weight, p.WeightUnit)
				variant.Price = p.Price * ratio * sizeVariantPriceFactor
				variant.Weight = weight
				variant.Confidence = sizeVariantConfidence
				variant.PricePerUnit = 0
				variant.PricePerKg = 0
				variants = append(variants, variant)
			}
		}
	}

	return variants
}

// alternativeSignature extends the dedup signature with the retailer so
// identical-looking items from different retailers both survive.
func alternativeSignature(p domain.Product) string {
	return productSignature(p) + "_" + p.Retailer
}
