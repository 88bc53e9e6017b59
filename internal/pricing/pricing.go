// internal/pricing/pricing.go

// Package pricing implements bundle discounting and quote price generation.
// All functions are pure; persistence and lookups live in the services layer.
package pricing

import (
	"math"
)

// BundleDiscountPercent returns the discount tier for a bundle of n products.
// Step function, not interpolated.
func BundleDiscountPercent(productCount int) float64 {
	switch {
	case productCount >= 4:
		return 15
	case productCount == 3:
		return 10
	case productCount == 2:
		return 5
	}
	return 0
}

// BundlePrice is the on-demand result of pricing a bundle against current
// component prices. It is never persisted; component prices change
// independently, so callers must recompute at read time.
type BundlePrice struct {
	TotalCents         int64   `json:"total_cents"`
	DiscountPercentage float64 `json:"discount_percentage"`
	DiscountedCents    int64   `json:"discounted_cents"`
}

// PriceBundle sums the component prices and applies the count-tier discount.
func PriceBundle(componentPriceCents []int64) BundlePrice {
	var total int64
	for _, p := range componentPriceCents {
		total += p
	}
	discount := BundleDiscountPercent(len(componentPriceCents))
	discounted := int64(math.Round(float64(total) * (1 - discount/100)))
	return BundlePrice{
		TotalCents:         total,
		DiscountPercentage: discount,
		DiscountedCents:    discounted,
	}
}

// Quote line item keys. The breakdown's components always sum to the quoted
// total, including the floor adjustment when it fires.
const (
	LineBasePrice             = "base_price"
	LineCompanySizeAdjustment = "company_size_adjustment"
	LineFeatureSurcharge      = "feature_surcharge"
	LineCustomImplementation  = "custom_implementation"
	LineVolumeDiscount        = "volume_discount"
	LineMinimumPriceFloor     = "minimum_price_adjustment"
)

// Requirement keys with pricing side effects beyond the per-key surcharge.
const (
	RequirementCustomImplementation = "custom_implementation"
	RequirementLicenseCount         = "license_count"
)

// QuoteResult pairs the quoted total with its named components.
type QuoteResult struct {
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// GenerateQuotePrice prices a quote from the product's base price, the
// buyer's company size, and the requirement set.
//
// The 0.5×base floor is applied once, as a final max over the summed line
// items — never as a per-line clamp — so a heavily discounted sum is silently
// raised to the floor and the adjustment shows up as its own component.
func GenerateQuotePrice(basePrice float64, companySize int, requirements map[string]interface{}) QuoteResult {
	multiplier := companySizeMultiplier(companySize)

	breakdown := map[string]float64{
		LineBasePrice: basePrice,
	}
	if adj := basePrice * (multiplier - 1); adj != 0 {
		breakdown[LineCompanySizeAdjustment] = adj
	}
	if n := len(requirements); n > 0 {
		breakdown[LineFeatureSurcharge] = float64(n) * basePrice * 0.10
	}
	if flagSet(requirements, RequirementCustomImplementation) {
		breakdown[LineCustomImplementation] = basePrice * 0.5
	}
	if discount := volumeDiscount(basePrice*multiplier, licenseCount(requirements)); discount != 0 {
		breakdown[LineVolumeDiscount] = discount
	}

	total := 0.0
	for _, v := range breakdown {
		total += v
	}

	if floor := basePrice * 0.5; total < floor {
		breakdown[LineMinimumPriceFloor] = floor - total
		total = floor
	}

	return QuoteResult{Total: total, Breakdown: breakdown}
}

// companySizeMultiplier maps a headcount to its pricing tier. Tiers are
// disjoint; exactly one applies.
func companySizeMultiplier(companySize int) float64 {
	switch {
	case companySize < 10:
		return 0.8
	case companySize < 50:
		return 1.0
	case companySize < 200:
		return 1.5
	case companySize < 500:
		return 2.0
	}
	return 3.0
}

// volumeDiscount returns a negative line item against the size-adjusted base.
func volumeDiscount(adjustedBase float64, licenses int) float64 {
	switch {
	case licenses > 10:
		return -0.15 * adjustedBase
	case licenses > 5:
		return -0.10 * adjustedBase
	}
	return 0
}

func flagSet(requirements map[string]interface{}, key string) bool {
	v, ok := requirements[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func licenseCount(requirements map[string]interface{}) int {
	v, ok := requirements[RequirementLicenseCount]
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// QuotedPriceCents converts a quoted price to minor currency units with
// deterministic round-half-up, so cart totals stay reconcilable.
func QuotedPriceCents(quotedPrice float64) int64 {
	return int64(math.Round(quotedPrice * 100))
}
