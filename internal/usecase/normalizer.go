package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/waffarshokran/backend/internal/domain"
)

// Confidence score weights. The sum is capped at 1.0.
const (
	confExactMatch = 0.4  // full query is a substring of the name
	confWordRatio  = 0.3  // scaled by the fraction of query words present
	confBrandMatch = 0.2  // query is a substring of the brand
	confHasWeight  = 0.05 // completeness bonuses
	confHasImage   = 0.03
	confHasBrand   = 0.02
)

// brandAliases maps bilingual brand spellings to one canonical name.
// Ordered: the first alias found as a substring wins.
var brandAliases = []struct {
	alias     string
	canonical string
}{
	{"العامة", "General Egyptian Company"},
	{"الاهلى", "Al Ahly"},
	{"العائلة", "Al Ayla"},
	{"فريش", "Fresh"},
	{"جهينة", "Juhayna"},
	{"الوادى", "Al Wadi"},
	{"المراعى", "Almarai"},
	{"نستله", "Nestle"},
	{"كرافت", "Kraft"},
	{"يونيليفر", "Unilever"},
	{"سيدى سالم", "Sidi Salem"},
	{"كيللو", "Kello"},
	{"العلالى", "Al Alali"},
}

// categoryKeywords classifies products by keyword membership over the
// concatenated name and brand. Ordered: the first matching category wins.
var categoryKeywords = []struct {
	category string
	keywords []string
}{
	{"dairy", []string{"لبن", "جبن", "زبد", "كريمة", "milk", "cheese", "butter", "cream"}},
	{"meat", []string{"لحمة", "فراخ", "سمك", "meat", "chicken", "fish", "beef"}},
	{"vegetables", []string{"خضار", "طماطم", "بصل", "جزر", "vegetables", "tomato", "onion", "carrot"}},
	{"fruits", []string{"فاكهة", "تفاح", "موز", "برتقال", "fruits", "apple", "banana", "orange"}},
	{"grains", []string{"أرز", "عيش", "مكرونة", "rice", "bread", "pasta"}},
	{"beverages", []string{"مشروبات", "عصير", "مياه", "شاى", "drinks", "juice", "water", "tea"}},
	{"cleaning", []string{"منظفات", "صابون", "شامبو", "cleaning", "soap", "shampoo"}},
	{"personal_care", []string{"عناية شخصية", "معجون أسنان", "كريم", "personal care", "toothpaste", "cream"}},
}

// weightPatterns is the ordered list of bilingual digit+unit patterns
// checked against product names. The first match wins. A pattern with an
// empty unit is a bare quantity whose unit is inferred by magnitude.
var weightPatterns = []struct {
	re   *regexp.Regexp
	unit string
}{
	// Arabic units
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*كيلوجرام`), "كيلو"},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*كيلو`), "كيلو"},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*كجم`), "كجم"},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*جرام`), "جرام"},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*جم`), "جم"},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*لتر`), "لتر"},
	{regexp.MustCompile(`(\d+(?:\.\d+)?)\s*مل`), "مل"},
	{regexp.MustCompile(`(\d+)\s*قطعة`), "قطعة"},
	{regexp.MustCompile(`(\d+)\s*حبة`), "حبة"},
	// Latin units; longer tokens first so "kg" is not read as a bare "g"
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*kg\b`), "kg"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*grams?\b`), "gram"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*g\b`), "g"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*liters?\b`), "liter"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*ml\b`), "ml"},
	{regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*l\b`), "l"},
	{regexp.MustCompile(`(?i)(\d+)\s*pcs?\b`), "pc"},
	{regexp.MustCompile(`(?i)(\d+)\s*pieces?\b`), "piece"},
	// Bare quantity with no unit token; unit inferred by magnitude
	{regexp.MustCompile(`(\d+(?:\.\d+)?)`), ""},
}

// unitSynonyms maps every recognized unit token to the canonical vocabulary.
var unitSynonyms = map[string]domain.WeightUnit{
	"كيلو": domain.UnitKilogram, "كجم": domain.UnitKilogram, "كيلوجرام": domain.UnitKilogram, "kg": domain.UnitKilogram,
	"جم": domain.UnitGram, "جرام": domain.UnitGram, "g": domain.UnitGram, "gram": domain.UnitGram,
	"لتر": domain.UnitLiter, "l": domain.UnitLiter, "liter": domain.UnitLiter,
	"مل": domain.UnitMilliliter, "ml": domain.UnitMilliliter,
	"قطعة": domain.UnitPiece, "حبة": domain.UnitPiece, "pc": domain.UnitPiece, "piece": domain.UnitPiece,
}

// arabicScriptRegex matches runs of Arabic-script code points.
var arabicScriptRegex = regexp.MustCompile(`[\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}]+`)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Normalizer converts raw retailer products into canonical comparable
// records: resolved brand, extracted weight, per-unit prices, category,
// confidence score, and a bilingual name split.
type Normalizer struct {
	logger *zap.Logger
}

// NewNormalizer creates a normalizer.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	return &Normalizer{logger: logger}
}

// Normalize derives the comparable fields of a product. It never fails the
// caller: if anything goes wrong the raw product is returned unchanged,
// with derived fields unset.
func (n *Normalizer) Normalize(product domain.Product, originalQuery string) (normalized domain.Product) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("normalization failed, keeping raw product",
				zap.String("name", product.Name), zap.Any("reason", r))
			normalized = product
		}
	}()

	normalized = product

	normalized.Brand = normalizeBrand(product.Brand)

	weight, unit, ok := ExtractWeight(product.Name)
	if !ok && product.Weight > 0 {
		// Fall back to the provider-reported weight, canonicalizing its unit.
		if u, known := unitSynonyms[strings.ToLower(string(product.WeightUnit))]; known {
			weight, unit, ok = product.Weight, u, true
		}
	}
	if ok {
		normalized.Weight = weight
		normalized.WeightUnit = unit
		normalized.PricePerUnit, normalized.PricePerKg = pricePerUnit(product.Price, weight, unit)
	}

	// Category and confidence are scored against the record as the
	// provider reported it, not against the derived fields above.
	normalized.Category = classifyCategory(product.Name, product.Brand)
	normalized.Confidence = confidenceScore(product, originalQuery)
	normalized.NameAr = extractArabicName(product.Name)
	normalized.NameEn = extractEnglishName(product.Name)

	return normalized
}

// normalizeBrand resolves a brand through the alias table; unmatched brands
// are title-cased as-is.
func normalizeBrand(brand string) string {
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return ""
	}

	brandLower := strings.ToLower(brand)
	for _, entry := range brandAliases {
		if strings.Contains(brandLower, strings.ToLower(entry.alias)) {
			return entry.canonical
		}
	}

	return titleCase(brand)
}

// ExtractWeight pulls a weight and canonical unit out of a product name.
// Bare quantities with no unit token are resolved by magnitude: >=500 is
// read as grams, >=1 as kilograms. The thresholds are a documented
// heuristic that downstream per-unit prices depend on; do not adjust them.
func ExtractWeight(name string) (float64, domain.WeightUnit, bool) {
	for _, p := range weightPatterns {
		match := p.re.FindStringSubmatch(name)
		if match == nil {
			continue
		}

		weight, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}

		if p.unit != "" {
			if unit, known := unitSynonyms[strings.ToLower(p.unit)]; known {
				return weight, unit, true
			}
			continue
		}

		// No unit token found anywhere in the name: infer by magnitude.
		if weight >= 500 {
			return weight, domain.UnitGram, true
		}
		if weight >= 1 {
			return weight, domain.UnitKilogram, true
		}
	}

	return 0, "", false
}

// pricePerUnit computes the price per 100 base units (g or ml) and, for
// mass units only, the price per kilogram. Piece-counted items carry no
// per-unit price since pieces have no fixed mass.
func pricePerUnit(price, weight float64, unit domain.WeightUnit) (perUnit, perKg float64) {
	if price <= 0 || weight <= 0 {
		return 0, 0
	}

	base := weight
	switch unit {
	case domain.UnitKilogram, domain.UnitLiter:
		base = weight * 1000
	case domain.UnitGram, domain.UnitMilliliter:
	case domain.UnitPiece:
		return 0, 0
	default:
		return 0, 0
	}

	perUnit = price / base * 100
	if unit == domain.UnitGram || unit == domain.UnitKilogram {
		perKg = price / base * 1000
	}
	return perUnit, perKg
}

// classifyCategory matches name+brand against the category keyword table.
// Returns "" when no category matches.
func classifyCategory(name, brand string) string {
	text := strings.ToLower(name + " " + brand)

	for _, entry := range categoryKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, strings.ToLower(keyword)) {
				return entry.category
			}
		}
	}

	return ""
}

// confidenceScore estimates how well a product matches the query, in [0,1].
func confidenceScore(product domain.Product, query string) float64 {
	score := 0.0
	queryLower := strings.ToLower(query)
	nameLower := strings.ToLower(product.Name)

	if strings.Contains(nameLower, queryLower) {
		score += confExactMatch
	}

	queryWords := strings.Fields(queryLower)
	if len(queryWords) > 0 {
		nameWords := make(map[string]bool)
		for _, w := range strings.Fields(nameLower) {
			nameWords[w] = true
		}
		common := 0
		for _, w := range queryWords {
			if nameWords[w] {
				common++
			}
		}
		score += float64(common) / float64(len(queryWords)) * confWordRatio
	}

	if product.Brand != "" && strings.Contains(strings.ToLower(product.Brand), queryLower) {
		score += confBrandMatch
	}

	if product.Weight > 0 && product.WeightUnit != "" {
		score += confHasWeight
	}
	if product.ImageURL != "" {
		score += confHasImage
	}
	if product.Brand != "" {
		score += confHasBrand
	}

	if score > 1.0 {
		score = 1.0
	}
	return score
}

// extractArabicName joins the Arabic-script runs of a name.
func extractArabicName(name string) string {
	matches := arabicScriptRegex.FindAllString(name, -1)
	if len(matches) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.Join(matches, " "))
}

// extractEnglishName is the name with Arabic-script runs removed, kept only
// when more than 2 characters remain.
func extractEnglishName(name string) string {
	text := arabicScriptRegex.ReplaceAllString(name, " ")
	text = strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
	if len(text) > 2 {
		return text
	}
	return ""
}

// titleCase capitalizes the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
