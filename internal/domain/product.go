package domain

import "time"

// Language is the preferred search language.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// CurrencyEGP is the single currency all retailers quote prices in.
const CurrencyEGP = "EGP"

// WeightUnit is the canonical unit vocabulary products are normalized into.
type WeightUnit string

const (
	UnitGram       WeightUnit = "g"
	UnitKilogram   WeightUnit = "kg"
	UnitLiter      WeightUnit = "l"
	UnitMilliliter WeightUnit = "ml"
	UnitPiece      WeightUnit = "pc"
)

// Product is a product as reported by a retailer plus the fields the
// normalizer derives to make results comparable across retailers.
// Derived fields stay unset when normalization could not fill them; a
// missing weight never produces a fabricated per-unit price.
type Product struct {
	Name         string  `json:"name"`
	NameAr       string  `json:"nameAr,omitempty"`
	NameEn       string  `json:"nameEn,omitempty"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	Retailer     string  `json:"retailer"`
	RetailerLogo string  `json:"retailerLogo,omitempty"`
	URL          string  `json:"url"`
	ImageURL     string  `json:"imageUrl,omitempty"`

	Weight     float64    `json:"weight,omitempty"`
	WeightUnit WeightUnit `json:"weightUnit,omitempty"`
	Brand      string     `json:"brand,omitempty"`
	Category   string     `json:"category,omitempty"`

	// PricePerUnit is the price per 100g or 100ml; PricePerKg is only set
	// for mass units.
	PricePerUnit float64 `json:"pricePerUnit,omitempty"`
	PricePerKg   float64 `json:"pricePerKg,omitempty"`

	InStock           bool `json:"inStock"`
	DeliveryAvailable bool `json:"deliveryAvailable"`
	PickupAvailable   bool `json:"pickupAvailable"`

	ScrapedAt  time.Time `json:"scrapedAt,omitempty"`
	Confidence float64   `json:"confidence"` // match confidence, 0..1
}
