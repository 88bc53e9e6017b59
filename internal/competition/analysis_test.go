// internal/competition/analysis_test.go
package competition

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestPriceSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, priceSimilarity(100000, 100000))
	assert.Equal(t, 0.5, priceSimilarity(50000, 100000))
	assert.Equal(t, 0.5, priceSimilarity(100000, 50000))
	assert.Equal(t, 0.0, priceSimilarity(0, 100000))
	assert.Equal(t, 0.0, priceSimilarity(100000, -1))
}

func TestDescriptionSimilarity(t *testing.T) {
	t.Run("identical descriptions score 1", func(t *testing.T) {
		desc := "cloud based project management platform"
		assert.Equal(t, 1.0, descriptionSimilarity(desc, desc))
	})

	t.Run("disjoint descriptions score 0", func(t *testing.T) {
		assert.Equal(t, 0.0, descriptionSimilarity(
			"invoice accounting software",
			"video streaming platform",
		))
	})

	t.Run("short words are ignored", func(t *testing.T) {
		// Only words longer than 3 characters count.
		assert.Equal(t, 0.0, descriptionSimilarity("a b cd", "a b cd"))
	})

	t.Run("punctuation is stripped", func(t *testing.T) {
		assert.Equal(t, 1.0, descriptionSimilarity("analytics, dashboards!", "analytics dashboards"))
	})
}

func TestMetricsSimilarity(t *testing.T) {
	t.Run("no comparable metrics is neutral", func(t *testing.T) {
		assert.Equal(t, 0.5, metricsSimilarity(ProductData{}, ProductData{}))
	})

	t.Run("matching metrics score 1", func(t *testing.T) {
		a := ProductData{ImplementationDays: intPtr(30), ROIPercent: floatPtr(120)}
		b := ProductData{ImplementationDays: intPtr(30), ROIPercent: floatPtr(120)}
		assert.Equal(t, 1.0, metricsSimilarity(a, b))
	})

	t.Run("only shared metrics are averaged", func(t *testing.T) {
		a := ProductData{ImplementationDays: intPtr(30), RetentionRate: floatPtr(90)}
		b := ProductData{ImplementationDays: intPtr(60)}
		// Only implementation days are comparable: 30/60 = 0.5.
		assert.Equal(t, 0.5, metricsSimilarity(a, b))
	})
}

func TestScorePair(t *testing.T) {
	a := ProductData{
		PriceCents:       100000,
		ShortDescription: "cloud sales pipeline management",
	}
	b := ProductData{
		PriceCents:       100000,
		ShortDescription: "cloud sales pipeline management",
	}

	pair := ScorePair(a, b)
	// price 1.0 * 0.30 + desc 1.0 * 0.40 + metrics 0.5 * 0.30 = 0.85
	assert.Equal(t, 85.0, pair.Similarity)
	// 50 base + price 25 + desc 25 = 100
	assert.Equal(t, 100.0, pair.MarketOverlap)
}

func TestScorePairBounds(t *testing.T) {
	cases := [][2]ProductData{
		{{}, {}},
		{{PriceCents: 1}, {PriceCents: 99999999}},
		{
			{PriceCents: 50000, ShortDescription: "alpha beta gamma delta", ROIPercent: floatPtr(100)},
			{PriceCents: 52000, ShortDescription: "alpha beta epsilon", ROIPercent: floatPtr(110)},
		},
	}
	for _, c := range cases {
		pair := ScorePair(c[0], c[1])
		assert.GreaterOrEqual(t, pair.Similarity, 0.0)
		assert.LessOrEqual(t, pair.Similarity, 100.0)
		assert.GreaterOrEqual(t, pair.MarketOverlap, 0.0)
		assert.LessOrEqual(t, pair.MarketOverlap, 100.0)
	}
}

func TestBuildAnalysisWithNoCompetitors(t *testing.T) {
	product := ProductData{
		ID:         uuid.New(),
		PriceCents: 150000,
		Scores:     &Scores{Fit: 80, Feature: 70, Integration: 75, Review: 60, Overall: 72},
	}

	analysis := BuildAnalysis(product, nil)

	assert.Equal(t, product.ID, analysis.ProductID)
	assert.Equal(t, PositionLeader, analysis.MarketPosition)
	assert.Equal(t, product.PriceCents, analysis.PriceComparison.YourPriceCents)
	assert.Equal(t, product.PriceCents, analysis.PriceComparison.CompetitorAverageCents)
	assert.Equal(t, product.PriceCents, analysis.PriceComparison.MarketLowCents)
	assert.Equal(t, product.PriceCents, analysis.PriceComparison.MarketHighCents)
	assert.Equal(t, PriceCompetitive, analysis.PriceComparison.Position)
	assert.Empty(t, analysis.FeatureComparison)
	assert.Equal(t, *product.Scores, analysis.ScoreComparison.Yours)
	assert.Equal(t, *product.Scores, analysis.ScoreComparison.CompetitorAverage)
	assert.Nil(t, analysis.ScoreComparison.MarketLeaderID)
}

func TestMarketPosition(t *testing.T) {
	product := ProductData{Scores: &Scores{Overall: 70}}

	makeCompetitors := func(overalls ...int) []ProductData {
		out := make([]ProductData, len(overalls))
		for i, o := range overalls {
			out[i] = ProductData{ID: uuid.New(), Scores: &Scores{Overall: o}}
		}
		return out
	}

	assert.Equal(t, PositionLeader, marketPosition(product, makeCompetitors(60, 65, 50)))
	assert.Equal(t, PositionChallenger, marketPosition(product, makeCompetitors(80, 75, 50)))
	assert.Equal(t, PositionFollower, marketPosition(product, makeCompetitors(90, 85, 80, 75)))
}

func TestPriceComparisonPosition(t *testing.T) {
	competitors := []ProductData{
		{PriceCents: 90000},
		{PriceCents: 110000},
	}
	// Competitor average is 100000.

	premium := priceComparison(ProductData{PriceCents: 130000}, competitors)
	assert.Equal(t, PricePremium, premium.Position)

	budget := priceComparison(ProductData{PriceCents: 70000}, competitors)
	assert.Equal(t, PriceBudget, budget.Position)

	competitive := priceComparison(ProductData{PriceCents: 100000}, competitors)
	assert.Equal(t, PriceCompetitive, competitive.Position)
}

func TestFeatureComparison(t *testing.T) {
	product := ProductData{
		FeatureNames: []string{"SSO", "Reporting"},
	}
	competitors := []ProductData{
		{FeatureNames: []string{"SSO", "API Access"}},
		{FeatureNames: []string{"API Access", "Reporting"}},
	}

	gaps := featureComparison(product, competitors)
	assert.Len(t, gaps, 3)

	byName := make(map[string]FeatureGap)
	for _, g := range gaps {
		byName[g.Name] = g
	}

	assert.True(t, byName["SSO"].YouHave)
	assert.Equal(t, 1, byName["SSO"].CompetitorCount)
	assert.Equal(t, 50.0, byName["SSO"].ImportanceScore)

	assert.False(t, byName["API Access"].YouHave)
	assert.Equal(t, 2, byName["API Access"].CompetitorCount)
	assert.Equal(t, 100.0, byName["API Access"].ImportanceScore)

	// Most widespread features sort first.
	assert.Equal(t, "API Access", gaps[0].Name)
}

func TestScoreComparisonLeader(t *testing.T) {
	product := ProductData{ID: uuid.New(), Scores: &Scores{Overall: 60}}
	best := ProductData{ID: uuid.New(), Scores: &Scores{Fit: 90, Overall: 88}}
	competitors := []ProductData{
		{ID: uuid.New(), Scores: &Scores{Overall: 70}},
		best,
	}

	sc := scoreComparison(product, competitors)
	assert.NotNil(t, sc.MarketLeaderID)
	assert.Equal(t, best.ID, *sc.MarketLeaderID)
	assert.Equal(t, *best.Scores, *sc.MarketLeader)
	assert.Equal(t, 79, sc.CompetitorAverage.Overall)
}
