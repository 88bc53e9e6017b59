// internal/pricing/pricing_test.go
package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBundleDiscountPercent(t *testing.T) {
	assert.Equal(t, 0.0, BundleDiscountPercent(0))
	assert.Equal(t, 0.0, BundleDiscountPercent(1))
	assert.Equal(t, 5.0, BundleDiscountPercent(2))
	assert.Equal(t, 10.0, BundleDiscountPercent(3))
	assert.Equal(t, 15.0, BundleDiscountPercent(4))
	assert.Equal(t, 15.0, BundleDiscountPercent(12))
}

func TestPriceBundle(t *testing.T) {
	t.Run("single product gets no discount", func(t *testing.T) {
		price := PriceBundle([]int64{100000})
		assert.Equal(t, int64(100000), price.TotalCents)
		assert.Equal(t, 0.0, price.DiscountPercentage)
		assert.Equal(t, int64(100000), price.DiscountedCents)
	})

	t.Run("three products take the 10 percent tier", func(t *testing.T) {
		price := PriceBundle([]int64{100000, 200000, 300000})
		assert.Equal(t, int64(600000), price.TotalCents)
		assert.Equal(t, 10.0, price.DiscountPercentage)
		assert.Equal(t, int64(540000), price.DiscountedCents)
	})

	t.Run("discounted amount rounds to whole cents", func(t *testing.T) {
		price := PriceBundle([]int64{333, 333})
		assert.Equal(t, int64(666), price.TotalCents)
		assert.Equal(t, 5.0, price.DiscountPercentage)
		// 666 * 0.95 = 632.7, rounds to 633
		assert.Equal(t, int64(633), price.DiscountedCents)
	})
}

func TestCompanySizeMultiplier(t *testing.T) {
	tests := []struct {
		size     int
		expected float64
	}{
		{1, 0.8},
		{9, 0.8},
		{10, 1.0},
		{49, 1.0},
		{50, 1.5},
		{199, 1.5},
		{200, 2.0},
		{499, 2.0},
		{500, 3.0},
		{10000, 3.0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, companySizeMultiplier(tt.size), "size %d", tt.size)
	}
}

func TestGenerateQuotePrice(t *testing.T) {
	t.Run("mid-tier company with no requirements pays base", func(t *testing.T) {
		result := GenerateQuotePrice(1000, 25, nil)
		assert.Equal(t, 1000.0, result.Total)
		assert.Equal(t, 1000.0, result.Breakdown[LineBasePrice])
		assert.NotContains(t, result.Breakdown, LineCompanySizeAdjustment)
	})

	t.Run("enterprise multiplier shows as an adjustment line", func(t *testing.T) {
		result := GenerateQuotePrice(1000, 600, nil)
		assert.Equal(t, 3000.0, result.Total)
		assert.Equal(t, 2000.0, result.Breakdown[LineCompanySizeAdjustment])
	})

	t.Run("each requirement adds a 10 percent surcharge", func(t *testing.T) {
		reqs := map[string]interface{}{
			"sso":           true,
			"data_migration": true,
		}
		result := GenerateQuotePrice(1000, 25, reqs)
		assert.Equal(t, 200.0, result.Breakdown[LineFeatureSurcharge])
		assert.Equal(t, 1200.0, result.Total)
	})

	t.Run("custom implementation adds half the base", func(t *testing.T) {
		reqs := map[string]interface{}{
			RequirementCustomImplementation: true,
		}
		result := GenerateQuotePrice(1000, 25, reqs)
		assert.Equal(t, 500.0, result.Breakdown[LineCustomImplementation])
		// base 1000 + surcharge 100 + custom 500
		assert.Equal(t, 1600.0, result.Total)
	})

	t.Run("license volume discount applies to the size-adjusted base", func(t *testing.T) {
		reqs := map[string]interface{}{
			RequirementLicenseCount: 12,
		}
		result := GenerateQuotePrice(1000, 100, reqs)
		// adjusted base 1500, 15 percent off = -225
		assert.Equal(t, -225.0, result.Breakdown[LineVolumeDiscount])
	})

	t.Run("six to ten licenses take the smaller tier", func(t *testing.T) {
		reqs := map[string]interface{}{
			RequirementLicenseCount: 7,
		}
		result := GenerateQuotePrice(1000, 25, reqs)
		assert.Equal(t, -100.0, result.Breakdown[LineVolumeDiscount])
	})

	t.Run("license count survives JSON float decoding", func(t *testing.T) {
		reqs := map[string]interface{}{
			RequirementLicenseCount: float64(12),
		}
		result := GenerateQuotePrice(1000, 25, reqs)
		assert.Equal(t, -150.0, result.Breakdown[LineVolumeDiscount])
	})

	t.Run("total never falls below half the base price", func(t *testing.T) {
		for _, size := range []int{1, 5, 9, 25, 100, 600} {
			for _, licenses := range []int{0, 7, 50} {
				reqs := map[string]interface{}{}
				if licenses > 0 {
					reqs[RequirementLicenseCount] = licenses
				}
				result := GenerateQuotePrice(1000, size, reqs)
				assert.GreaterOrEqual(t, result.Total, 500.0,
					"size %d licenses %d", size, licenses)
			}
		}
	})

	t.Run("breakdown always sums to the total", func(t *testing.T) {
		cases := []struct {
			base float64
			size int
			reqs map[string]interface{}
		}{
			{1000, 25, nil},
			{1000, 600, map[string]interface{}{"sso": true}},
			{500, 5, map[string]interface{}{RequirementLicenseCount: 50}},
			{2500, 300, map[string]interface{}{
				RequirementCustomImplementation: true,
				RequirementLicenseCount:         8,
				"sso":                           true,
			}},
		}
		for _, tc := range cases {
			result := GenerateQuotePrice(tc.base, tc.size, tc.reqs)
			sum := 0.0
			for _, v := range result.Breakdown {
				sum += v
			}
			assert.InDelta(t, result.Total, sum, 0.0001)
		}
	})
}

func TestQuotedPriceCents(t *testing.T) {
	assert.Equal(t, int64(100000), QuotedPriceCents(1000))
	assert.Equal(t, int64(123456), QuotedPriceCents(1234.56))
	assert.Equal(t, int64(50), QuotedPriceCents(0.499999))
	assert.Equal(t, int64(0), QuotedPriceCents(0))
}
