package usecase

import (
	"testing"

	"github.com/waffarshokran/backend/internal/domain"
)

func TestDedupe(t *testing.T) {
	t.Run("collapses same name brand and price across retailers", func(t *testing.T) {
		products := []domain.Product{
			{Name: "لبن جهينة كامل الدسم 1 لتر", Brand: "Juhayna", Price: 35.5, Retailer: "Jumia Egypt"},
			{Name: "لبن جهينة كامل الدسم 1 لتر", Brand: "Juhayna", Price: 35.5, Retailer: "Al Khairy"},
			{Name: "لبن جهينة كامل الدسم 1 لتر", Brand: "Juhayna", Price: 33.0, Retailer: "Al Khairy"},
		}

		got := Dedupe(products)

		if len(got) != 2 {
			t.Fatalf("Dedupe() len = %d, want 2", len(got))
		}
		if got[0].Retailer != "Jumia Egypt" {
			t.Errorf("first occurrence retailer = %q, want Jumia Egypt", got[0].Retailer)
		}
		if got[1].Price != 33.0 {
			t.Errorf("second survivor price = %v, want 33.0", got[1].Price)
		}
	})

	t.Run("is case and whitespace insensitive on name and brand", func(t *testing.T) {
		products := []domain.Product{
			{Name: "Juhayna Milk 1L", Brand: "Juhayna", Price: 35.5},
			{Name: "  juhayna milk 1l ", Brand: "JUHAYNA", Price: 35.5},
		}

		if got := Dedupe(products); len(got) != 1 {
			t.Fatalf("Dedupe() len = %d, want 1", len(got))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if got := Dedupe(nil); len(got) != 0 {
			t.Fatalf("Dedupe(nil) len = %d, want 0", len(got))
		}
	})
}

func TestRank(t *testing.T) {
	query := "لبن جهينة"

	t.Run("exact name match outranks partial match", func(t *testing.T) {
		products := []domain.Product{
			{Name: "زبادى جهينة", Price: 12, InStock: true, Confidence: 0.5},
			{Name: "لبن جهينة كامل الدسم", Price: 35.5, InStock: true, Confidence: 0.9},
		}

		got := Rank(products, query)

		if got[0].Name != "لبن جهينة كامل الدسم" {
			t.Errorf("top result = %q, want the exact match", got[0].Name)
		}
	})

	t.Run("ties break by ascending price", func(t *testing.T) {
		products := []domain.Product{
			{Name: "لبن جهينة", Price: 40, InStock: true, Confidence: 0.8},
			{Name: "لبن جهينة", Price: 30, InStock: true, Confidence: 0.8},
		}

		got := Rank(products, query)

		if got[0].Price != 30 {
			t.Errorf("top price = %v, want 30", got[0].Price)
		}
	})

	t.Run("missing price sorts last on ties", func(t *testing.T) {
		products := []domain.Product{
			{Name: "لبن جهينة", Price: 0, InStock: true, Confidence: 0.8},
			{Name: "لبن جهينة", Price: 50, InStock: true, Confidence: 0.8},
		}

		got := Rank(products, query)

		if got[0].Price != 50 {
			t.Errorf("top price = %v, want 50", got[0].Price)
		}
	})

	t.Run("in-stock outranks out-of-stock on otherwise equal products", func(t *testing.T) {
		products := []domain.Product{
			{Name: "لبن جهينة", Price: 35, InStock: false, Confidence: 0.8},
			{Name: "لبن جهينة", Price: 35, InStock: true, Confidence: 0.8},
		}

		got := Rank(products, query)

		if !got[0].InStock {
			t.Error("top result should be the in-stock product")
		}
	})

	t.Run("does not mutate the input slice length", func(t *testing.T) {
		products := []domain.Product{
			{Name: "أ", Price: 1},
			{Name: "ب", Price: 2},
			{Name: "ج", Price: 3},
		}

		if got := Rank(products, query); len(got) != 3 {
			t.Fatalf("Rank() len = %d, want 3", len(got))
		}
	})
}
