package usecase

import (
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/waffarshokran/backend/internal/domain"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestExtractWeight(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantWeight float64
		wantUnit   domain.WeightUnit
		wantOK     bool
	}{
		{"arabic grams", "جبنة رومى 500 جم", 500, domain.UnitGram, true},
		{"arabic grams long form", "جبنة بيضاء 250 جرام", 250, domain.UnitGram, true},
		{"arabic kilo", "لبن جهينة 1 كيلو", 1, domain.UnitKilogram, true},
		{"arabic kilogram long form", "أرز 2 كيلوجرام", 2, domain.UnitKilogram, true},
		{"arabic liter", "مياه 1.5 لتر", 1.5, domain.UnitLiter, true},
		{"arabic milliliter", "عصير 330 مل", 330, domain.UnitMilliliter, true},
		{"arabic pieces", "بيض 6 قطعة", 6, domain.UnitPiece, true},
		{"latin kg", "Rice 2kg", 2, domain.UnitKilogram, true},
		{"latin grams word", "Cheese 250 grams", 250, domain.UnitGram, true},
		{"latin bare g", "Butter 100g", 100, domain.UnitGram, true},
		{"latin ml", "Juice 330ml", 330, domain.UnitMilliliter, true},
		{"latin pieces", "Eggs 12 pcs", 12, domain.UnitPiece, true},
		{"bare large number read as grams", "جبنة بيضاء 750", 750, domain.UnitGram, true},
		{"bare small number read as kilograms", "أرز مصرى 5", 5, domain.UnitKilogram, true},
		{"bare fraction has no unit", "منتج 0.5", 0, "", false},
		{"no digits", "جبنة رومى", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weight, unit, ok := ExtractWeight(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ExtractWeight(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if !almostEqual(weight, tt.wantWeight) {
				t.Errorf("ExtractWeight(%q) weight = %v, want %v", tt.input, weight, tt.wantWeight)
			}
			if unit != tt.wantUnit {
				t.Errorf("ExtractWeight(%q) unit = %q, want %q", tt.input, unit, tt.wantUnit)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(zap.NewNop())

	t.Run("derives per-unit prices from the name", func(t *testing.T) {
		got := n.Normalize(domain.Product{
			Name:  "جبنة رومى 500 جم",
			Price: 90,
		}, "جبنة رومى")

		if !almostEqual(got.Weight, 500) || got.WeightUnit != domain.UnitGram {
			t.Fatalf("weight = %v %q, want 500 g", got.Weight, got.WeightUnit)
		}
		if !almostEqual(got.PricePerUnit, 18) {
			t.Errorf("PricePerUnit = %v, want 18", got.PricePerUnit)
		}
		if !almostEqual(got.PricePerKg, 180) {
			t.Errorf("PricePerKg = %v, want 180", got.PricePerKg)
		}
		if got.Category != "dairy" {
			t.Errorf("Category = %q, want dairy", got.Category)
		}
	})

	t.Run("confidence rewards exact match and word coverage", func(t *testing.T) {
		got := n.Normalize(domain.Product{
			Name:  "جبنة رومى 500 جم",
			Price: 90,
		}, "جبنة رومى")

		// 0.4 exact + 0.3 full word coverage; the weight bonus does not
		// apply because the provider reported no weight field.
		if !almostEqual(got.Confidence, 0.70) {
			t.Errorf("Confidence = %v, want 0.70", got.Confidence)
		}
	})

	t.Run("weight bonus requires a provider-reported weight", func(t *testing.T) {
		got := n.Normalize(domain.Product{
			Name:       "جبنة رومى 500 جم",
			Price:      90,
			Weight:     500,
			WeightUnit: "g",
		}, "جبنة رومى")

		if !almostEqual(got.Confidence, 0.75) {
			t.Errorf("Confidence = %v, want 0.75", got.Confidence)
		}
	})

	t.Run("brand match scores the raw brand text", func(t *testing.T) {
		got := n.Normalize(domain.Product{
			Name:  "لبن كامل الدسم",
			Brand: "جهينة",
		}, "juhayna")

		if got.Brand != "Juhayna" {
			t.Fatalf("Brand = %q, want Juhayna", got.Brand)
		}
		// The Arabic raw brand never matches the Latin query; only the
		// has-brand bonus applies.
		if !almostEqual(got.Confidence, 0.02) {
			t.Errorf("Confidence = %v, want 0.02", got.Confidence)
		}
	})

	t.Run("volume products carry no price per kg", func(t *testing.T) {
		got := n.Normalize(domain.Product{
			Name:  "مياه معدنية 1.5 لتر",
			Price: 10,
		}, "مياه")

		if !almostEqual(got.PricePerUnit, 10.0/1500*100) {
			t.Errorf("PricePerUnit = %v, want %v", got.PricePerUnit, 10.0/1500*100)
		}
		if got.PricePerKg != 0 {
			t.Errorf("PricePerKg = %v, want 0 for volume units", got.PricePerKg)
		}
	})

	t.Run("piece-counted products carry no per-unit prices", func(t *testing.T) {
		got := n.Normalize(domain.Product{
			Name:  "بيض بلدى 6 قطعة",
			Price: 45,
		}, "بيض")

		if got.WeightUnit != domain.UnitPiece {
			t.Fatalf("WeightUnit = %q, want pc", got.WeightUnit)
		}
		if got.PricePerUnit != 0 || got.PricePerKg != 0 {
			t.Errorf("per-unit prices = %v / %v, want 0 / 0", got.PricePerUnit, got.PricePerKg)
		}
	})

	t.Run("resolves brand aliases to canonical names", func(t *testing.T) {
		got := n.Normalize(domain.Product{Name: "لبن كامل الدسم", Brand: "جهينة مصر"}, "لبن")
		if got.Brand != "Juhayna" {
			t.Errorf("Brand = %q, want Juhayna", got.Brand)
		}
	})

	t.Run("title-cases unknown brands", func(t *testing.T) {
		got := n.Normalize(domain.Product{Name: "cheese", Brand: "domty foods"}, "cheese")
		if got.Brand != "Domty Foods" {
			t.Errorf("Brand = %q, want Domty Foods", got.Brand)
		}
	})

	t.Run("splits bilingual names", func(t *testing.T) {
		got := n.Normalize(domain.Product{Name: "جبنة رومى Roumy Cheese 500 جم"}, "جبنة")

		if got.NameAr != "جبنة رومى جم" {
			t.Errorf("NameAr = %q, want %q", got.NameAr, "جبنة رومى جم")
		}
		if got.NameEn != "Roumy Cheese 500" {
			t.Errorf("NameEn = %q, want %q", got.NameEn, "Roumy Cheese 500")
		}
	})

	t.Run("leaves category empty when nothing matches", func(t *testing.T) {
		got := n.Normalize(domain.Product{Name: "منتج غامض"}, "منتج")
		if got.Category != "" {
			t.Errorf("Category = %q, want empty", got.Category)
		}
	})

	t.Run("falls back to the provider-reported weight", func(t *testing.T) {
		got := n.Normalize(domain.Product{
			Name:       "زيت عباد الشمس",
			Price:      80,
			Weight:     2,
			WeightUnit: "kg",
		}, "زيت")

		if !almostEqual(got.Weight, 2) || got.WeightUnit != domain.UnitKilogram {
			t.Fatalf("weight = %v %q, want 2 kg", got.Weight, got.WeightUnit)
		}
		if !almostEqual(got.PricePerKg, 40) {
			t.Errorf("PricePerKg = %v, want 40", got.PricePerKg)
		}
	})
}
